// Package sig implements the signature (spec.md §4.B): the mutable,
// monotonically-growing mapping from qualified names to declarations
// and their compiled rewrite-rule decision trees.
//
// Grounded on gitrdm-gokando/pkg/minikanren/fact_store.go's FactIndex: a
// mutex-guarded map indexing compiled structure (there, fact-lookup
// indexes; here, a dtree.Node) behind add/lookup operations that fail
// with typed errors rather than panicking.
package sig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"lambdapi/internal/confluence"
	"lambdapi/pkg/dtree"
	"lambdapi/pkg/term"
)

// Staticity distinguishes symbols that may never receive rewrite rules
// (Static) from ones that can (Definable).
type Staticity int

const (
	Static Staticity = iota
	Definable
)

func (s Staticity) String() string {
	if s == Static {
		return "Static"
	}
	return "Definable"
}

// ruleRecord pairs a typed rule with a stable ID, minted once per
// AddRules call, used for log correlation and internal/sigfile
// records — the same role gokando's fact_store.go generateFactID
// played for facts, replaced here with github.com/google/uuid rather
// than a counter+timestamp scheme.
type ruleRecord struct {
	ID   uuid.UUID
	Rule *term.TypedRule
}

type entry struct {
	staticity Staticity
	typ       term.Term
	rules     []ruleRecord
	tree      dtree.Node
	pivot     int
}

// Signature is the core's mutable symbol table. The zero value is not
// usable; construct with New.
type Signature struct {
	entries map[string]*entry
	// order records declaration order, so Export can snapshot the
	// signature with declarations preceding any rule that references
	// them — a map alone gives no such guarantee.
	order   []term.QName
	checker confluence.Checker
	mode    confluence.Mode
	logger  *slog.Logger
}

// New builds an empty Signature. A nil checker defaults to
// confluence.AlwaysConfluent (no external oracle configured); a nil
// logger discards advisory-mode confluence warnings.
func New(checker confluence.Checker, mode confluence.Mode, logger *slog.Logger) *Signature {
	if checker == nil {
		checker = confluence.AlwaysConfluent{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Signature{
		entries: make(map[string]*entry),
		checker: checker,
		mode:    mode,
		logger:  logger,
	}
}

// GetType returns the declared type of name.
func (s *Signature) GetType(name term.QName) (term.Term, error) {
	e, ok := s.entries[name.String()]
	if !ok {
		return nil, &SymbolNotFoundError{Name: name.String()}
	}
	return e.typ, nil
}

// GetTree returns name's compiled decision tree and its pivot (the
// stack width the reducer must have available before attempting
// gamma_rewrite), or ok=false if name has no rules yet.
func (s *Signature) GetTree(name term.QName) (pivot int, tree dtree.Node, ok bool, err error) {
	e, found := s.entries[name.String()]
	if !found {
		return 0, nil, false, &SymbolNotFoundError{Name: name.String()}
	}
	if e.tree == nil {
		return 0, nil, false, nil
	}
	return e.pivot, e.tree, true, nil
}

// AddDeclaration extends the signature with a fresh symbol. Fails with
// AlreadyDefinedError if name is already bound.
func (s *Signature) AddDeclaration(name term.QName, staticity Staticity, typ term.Term) error {
	key := name.String()
	if _, ok := s.entries[key]; ok {
		return &AlreadyDefinedError{Name: key}
	}
	s.entries[key] = &entry{staticity: staticity, typ: typ}
	s.order = append(s.order, name)
	return nil
}

// AddRules merges rules into the existing rule set of their shared
// head symbol, recompiles the decision tree (pkg/dtree), and consults
// the confluence checker before committing. All rules must share a
// head symbol already declared Definable.
func (s *Signature) AddRules(ctx context.Context, rules []*term.TypedRule) error {
	if len(rules) == 0 {
		return nil
	}
	head := rules[0].LHSHead
	key := head.String()

	e, ok := s.entries[key]
	if !ok {
		return &SymbolNotFoundError{Name: key}
	}
	if e.staticity != Definable {
		return &CannotRewriteStaticSymbolError{Name: key}
	}

	merged := make([]ruleRecord, 0, len(e.rules)+len(rules))
	merged = append(merged, e.rules...)
	for _, r := range rules {
		merged = append(merged, ruleRecord{ID: uuid.New(), Rule: r})
	}

	plain := make([]*term.TypedRule, len(merged))
	for i, rr := range merged {
		plain[i] = rr.Rule
	}

	tree, err := dtree.CompileRules(plain)
	if err != nil {
		return err
	}

	pivot := 0
	for _, r := range plain {
		if r.Arity() > pivot {
			pivot = r.Arity()
		}
	}

	report, err := s.checker.Check(ctx, key, describeRules(plain))
	if err != nil {
		return &ConfluenceCheckFailedError{Name: key, Detail: err.Error()}
	}
	if !report.Confluent {
		if s.mode == confluence.Fatal {
			return &ConfluenceCheckFailedError{Name: key, Detail: report.Detail}
		}
		s.logger.Warn("confluence check did not pass, proceeding in advisory mode",
			slog.String("symbol", key), slog.String("detail", report.Detail))
	}

	e.rules = merged
	e.tree = tree
	e.pivot = pivot
	return nil
}

// ExportedEntry is one symbol's declaration and rules, in the order
// needed to rebuild a Signature (declarations strictly precede the
// rules that reference them). Used by internal/sigfile to serialise a
// whole Signature without exposing the entry map or ruleRecord's
// internal ID-tagging to callers outside this package.
type ExportedEntry struct {
	Name      term.QName
	Staticity Staticity
	Type      term.Term
	Rules     []*term.TypedRule
}

// Export snapshots every entry currently in the signature, in
// declaration order, for serialisation (internal/sigfile) or for
// debugging.
func (s *Signature) Export() []ExportedEntry {
	out := make([]ExportedEntry, 0, len(s.order))
	for _, name := range s.order {
		e, ok := s.entries[name.String()]
		if !ok {
			continue
		}
		rules := make([]*term.TypedRule, len(e.rules))
		for i, rr := range e.rules {
			rules[i] = rr.Rule
		}
		out = append(out, ExportedEntry{Name: name, Staticity: e.staticity, Type: e.typ, Rules: rules})
	}
	return out
}

func describeRules(rules []*term.TypedRule) string {
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, "%s: %s %s --> %s\n", r.Name, r.LHSHead, patternArgsString(r.LHSArgs), r.RHS)
	}
	return b.String()
}

func patternArgsString(args []term.Pattern) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.String())
	}
	return b.String()
}
