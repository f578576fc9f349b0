// Package confluence wraps the external confluence oracle spec.md §1
// delegates to: the core never verifies confluence of a rule set
// itself, it only consults a Checker after pkg/sig recompiles a
// decision tree and reports whatever the oracle says.
package confluence

import (
	"context"
)

// Report is the oracle's verdict for one recompiled decision tree.
type Report struct {
	Confluent bool
	Detail    string
}

// Checker is consulted by pkg/sig.Signature.AddRules after every
// successful tree recompilation. A non-confluent Report or a Checker
// error is the caller's to wrap (pkg/sig does so as its own
// symbol-qualified ConfluenceCheckFailedError); this package raises no
// error type of its own.
type Checker interface {
	Check(ctx context.Context, head string, ruleSource string) (Report, error)
}

// Mode controls whether a non-confluent verdict blocks the signature
// update or merely gets logged (internal/config "confluence.advisory").
type Mode int

const (
	// Fatal rejects AddRules outright on a non-confluent verdict.
	Fatal Mode = iota
	// Advisory lets AddRules proceed, logging the report instead.
	Advisory
)

// AlwaysConfluent is the default Checker when no external oracle
// command is configured: it accepts every rule set unchecked. This
// mirrors §9 Open Question 1's resolution (fatal-by-default once a
// checker command IS configured; unchecked when none is).
type AlwaysConfluent struct{}

func (AlwaysConfluent) Check(context.Context, string, string) (Report, error) {
	return Report{Confluent: true, Detail: "no external checker configured"}, nil
}
