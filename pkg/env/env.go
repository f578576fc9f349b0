// Package env implements the environment façade (spec.md §4.H): the
// single entry point that serialises processing of a stream of
// user-facing entries, each either extending the signature (4.B) or
// running a query through the reducer (4.D) and typing judgement
// (4.G).
//
// Grounded on gitrdm-gokando/pkg/minikanren/dcg.go's phrase/processing
// pipeline: one entry point, one switch over the clause/entry kind,
// delegate to the right internal machinery, accumulate diagnostics
// rather than panic on the first failure.
package env

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"lambdapi/internal/confluence"
	"lambdapi/pkg/reduce"
	"lambdapi/pkg/sig"
	"lambdapi/pkg/term"
	"lambdapi/pkg/typing"
)

// Env is the façade's mutable session state: a signature under
// construction, the current module prefix fresh declarations are
// qualified with, and the collaborators (reduction config, output
// writer, logger) entries are processed against.
//
// The zero value is not usable; construct with New.
type Env struct {
	Signature *sig.Signature
	module    string
	out       io.Writer
	logger    *slog.Logger
	reduceCfg reduce.Config
}

// New builds an Env around sig. out defaults to io.Discard when nil;
// logger defaults to a discarding logger when nil.
func New(signature *sig.Signature, reduceCfg reduce.Config, out io.Writer, logger *slog.Logger) *Env {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Env{
		Signature: signature,
		out:       out,
		logger:    logger,
		reduceCfg: reduceCfg,
	}
}

// typingConfig builds the pkg/typing.Config this Env's signature and
// reduction configuration imply.
func (e *Env) typingConfig() typing.Config {
	return typing.Config{Types: e.Signature, Reduce: e.reduceCfg}
}

// qualify resolves a bare local name against the façade's current
// module prefix, set by a prior Name entry.
func (e *Env) qualify(name string) term.QName {
	if e.module == "" {
		return term.Local(name)
	}
	return term.NewQName(e.module, name)
}

// Decl processes a `Decl(name, staticity, type)` entry (§6): the
// declared type must itself be well-typed before the symbol is added.
func (e *Env) Decl(name string, staticity sig.Staticity, typ term.Term) error {
	if err := typing.Check(e.typingConfig(), typing.Context{}, typ, term.Type); err != nil {
		return err
	}
	return e.Signature.AddDeclaration(e.qualify(name), staticity, typ)
}

// DefRequest is one `Def(name, opaque-flag, optional declared-type,
// body)` entry (§6). DeclaredType may be nil, in which case the body's
// inferred type is used.
type DefRequest struct {
	Name         string
	Opaque       bool
	DeclaredType term.Term
	Body         term.Term
}

// Def processes a Def entry. Per spec.md §4.H, `Def` with a body is
// modelled as a Decl plus a single Delta-named rewrite rule whose LHS
// is the bare constant and whose RHS is the body; Opaque omits that
// rule. A Kind-level definition (body's type reduces to Kind) is
// rejected with KindLevelDefinitionError.
func (e *Env) Def(ctx context.Context, req DefRequest) error {
	cfg := e.typingConfig()

	var typ term.Term
	if req.DeclaredType != nil {
		if err := typing.Check(cfg, typing.Context{}, req.DeclaredType, term.Type); err != nil {
			return err
		}
		if err := typing.Check(cfg, typing.Context{}, req.Body, req.DeclaredType); err != nil {
			return err
		}
		typ = req.DeclaredType
	} else {
		inferred, err := typing.Infer(cfg, typing.Context{}, req.Body)
		if err != nil {
			return err
		}
		typ = inferred
	}

	w, err := reduce.Whnf(e.reduceCfg, typ)
	if err != nil {
		return err
	}
	if _, ok := w.(*term.KindSort); ok {
		return &typing.KindLevelDefinitionError{Name: req.Name}
	}

	qname := e.qualify(req.Name)
	if err := e.Signature.AddDeclaration(qname, sig.Definable, typ); err != nil {
		return err
	}
	if req.Opaque {
		return nil
	}

	rule := &term.TypedRule{
		Name:        "delta_" + req.Name,
		Context:     nil,
		LHSHead:     qname,
		LHSArgs:     nil,
		RHS:         req.Body,
		ArityPerVar: nil,
	}
	return e.Signature.AddRules(ctx, []*term.TypedRule{rule})
}

// RulesRequest is one `Rules(untyped-rule-list)` entry: raw rules
// against already-declared head symbols, checked via pkg/typing before
// being merged into the signature.
func (e *Env) Rules(ctx context.Context, raws []typing.RawRule) error {
	checked := make([]*term.TypedRule, 0, len(raws))
	byHead := make(map[string][]*term.TypedRule)
	order := make([]string, 0)
	for _, raw := range raws {
		rule, err := typing.CheckRule(e.typingConfig(), raw)
		if err != nil {
			return fmt.Errorf("rule %q: %w", raw.Name, err)
		}
		key := rule.LHSHead.String()
		if _, seen := byHead[key]; !seen {
			order = append(order, key)
		}
		byHead[key] = append(byHead[key], rule)
		checked = append(checked, rule)
	}
	for _, key := range order {
		if err := e.Signature.AddRules(ctx, byHead[key]); err != nil {
			return err
		}
	}
	return nil
}

// Eval processes an `Eval(reduction-config, term)` entry, normalising t
// to whichever target (whnf or snf) the façade's reduction config
// selects.
func (e *Env) Eval(t term.Term) (term.Term, error) {
	return reduce.Reduce(e.reduceCfg, t)
}

// Infer processes an `Infer(reduction-config, term)` entry, returning
// t's inferred type.
func (e *Env) Infer(t term.Term) (term.Term, error) {
	return typing.Infer(e.typingConfig(), typing.Context{}, t)
}

// CheckKind distinguishes the two forms a Check/Assert entry's
// predicate can take (§6 "Check|Convert|HasType").
type CheckKind int

const (
	CheckConvert CheckKind = iota
	CheckHasType
)

// CheckRequest is one `Check`/`Assert` entry: AssertFlag means failure
// aborts entry-stream processing rather than merely reporting a
// boolean; NegateFlag inverts the expected outcome (`assert not`).
type CheckRequest struct {
	Kind       CheckKind
	Left       term.Term
	Right      term.Term // used by CheckConvert
	ExpectType term.Term // used by CheckHasType
	Assert     bool
	Negate     bool
}

// Check processes a Check/Assert entry, returning the boolean verdict.
// When Assert is set, a verdict that disagrees with Negate is itself
// returned as an error rather than silently reported.
func (e *Env) Check(req CheckRequest) (bool, error) {
	var ok bool
	var err error
	switch req.Kind {
	case CheckConvert:
		ok, err = reduce.AreConvertible(e.reduceCfg, req.Left, req.Right)
	case CheckHasType:
		cerr := typing.Check(e.typingConfig(), typing.Context{}, req.Left, req.ExpectType)
		ok = cerr == nil
		if cerr != nil {
			if _, isConv := cerr.(*typing.ConvertibilityError); !isConv {
				err = cerr
			}
		}
	}
	if err != nil {
		return false, err
	}
	if req.Negate {
		ok = !ok
	}
	if req.Assert && !ok {
		return false, &AssertionFailedError{}
	}
	return ok, nil
}

// Print processes a `Print(string)` entry: written to the façade's
// injected writer rather than left a no-op.
func (e *Env) Print(s string) error {
	_, err := fmt.Fprintln(e.out, s)
	return err
}

// Name processes a `Name(module)` entry: sets the module prefix used
// to qualify every subsequent Decl/Def.
func (e *Env) Name(module string) {
	e.module = module
}

// DTree processes a `DTree(optional module, symbol)` entry: a
// human-readable debug dump of the compiled decision tree for symbol,
// written to the façade's injected writer. See pkg/env/yamldump.go.
func (e *Env) DTree(module, symbol string) error {
	qname := term.Local(symbol)
	if module != "" {
		qname = term.NewQName(module, symbol)
	}
	_, tree, ok, err := e.Signature.GetTree(qname)
	if err != nil {
		return err
	}
	if !ok {
		_, err := fmt.Fprintf(e.out, "%s: no rules\n", qname)
		return err
	}
	dump, err := DumpTreeYAML(qname.String(), tree)
	if err != nil {
		return err
	}
	_, err = e.out.Write(dump)
	return err
}

// AssertionFailedError is raised when an `Assert` entry's verdict
// disagrees with the declared expectation.
type AssertionFailedError struct{}

func (e *AssertionFailedError) Error() string { return "env: assertion failed" }

// NewSignature is a convenience constructor bundling a fresh
// pkg/sig.Signature configured from cfg, for callers (cmd/lambdapi)
// that do not need to share a signature across sessions.
func NewSignature(mode confluence.Mode, checker confluence.Checker, logger *slog.Logger) *sig.Signature {
	return sig.New(checker, mode, logger)
}
