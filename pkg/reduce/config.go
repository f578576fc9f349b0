package reduce

import (
	"lambdapi/pkg/dtree"
	"lambdapi/pkg/term"
)

// Strategy controls how eagerly the machine reduces sub-terms: ByName
// pushes application arguments as lazy thunks and never touches a
// Lam/Pi's domain annotation; ByValue forces each argument to whnf
// before it is pushed; ByStrongValue does the same and additionally
// whnf's the domain of any Lam/Pi the machine returns to as a value.
type Strategy int

const (
	ByName Strategy = iota
	ByValue
	ByStrongValue
)

// Target selects how far Reduce normalises a term: to weak-head form,
// or to full (strong) normal form.
type Target int

const (
	TargetWhnf Target = iota
	TargetSnf
)

// LogEntry is handed to a Config's Logger every time a rule fires.
type LogEntry struct {
	// Position names the stack/term location the rule fired at, for
	// diagnostics (cmd/lambdapi's --trace renders this).
	Position string
	RuleName string
	// RHS is evaluated lazily: callers that don't log at Trace level
	// avoid the cost of rendering a term that will be discarded.
	RHS func() term.Term
}

// Config is the configuration surface spec.md §4.D exposes at
// reduction entry points.
type Config struct {
	Signature TreeLookup
	// Selector, if set, restricts which named rules may fire: a Test
	// leaf whose RuleName it rejects falls through to that leaf's
	// Default rather than firing, exactly as if the match itself had
	// failed.
	Selector func(ruleName string) bool
	Beta     bool
	Target   Target
	Strategy Strategy
	// StepLimit caps the number of beta+gamma firings; zero means
	// unlimited.
	StepLimit int
	Logger    func(LogEntry)
}

// TreeLookup is the subset of pkg/sig.Signature the reducer depends on,
// kept as an interface so pkg/reduce never imports pkg/sig directly
// (pkg/sig already imports pkg/dtree; a reducer->sig edge would not be
// cyclic, but the interface keeps the reducer testable against a fake
// signature with no rule-confluence machinery attached).
type TreeLookup interface {
	GetTree(name term.QName) (pivot int, tree dtree.Node, ok bool, err error)
}
