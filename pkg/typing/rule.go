package typing

import (
	"errors"
	"fmt"

	"lambdapi/pkg/infer"
	"lambdapi/pkg/sig"
	"lambdapi/pkg/term"
)

// RawCtxEntry is one pattern-variable declaration as written by a
// user, before its type has been checked.
type RawCtxEntry struct {
	Hint string
	Type term.Term
}

// RawRule is an unchecked rewrite rule: a context of pattern-variable
// declarations, a surface left-hand side under a head symbol, and a
// right-hand side term.
type RawRule struct {
	Name    string
	Context []RawCtxEntry
	LHSHead term.QName
	LHSArgs []infer.Surface
	RHS     term.Term
}

// CheckRule implements spec.md §4.G's check_rule: build Γ by checking
// each declared pattern variable's type in sequence, elaborate the LHS
// via pkg/infer, check the RHS against the inferred result type, and
// verify the arity invariant before emitting a term.TypedRule.
func CheckRule(cfg Config, raw RawRule) (*term.TypedRule, error) {
	types := make([]term.Term, 0, len(raw.Context))
	for _, d := range raw.Context {
		partial := FromRuleContext(types)
		if err := Check(cfg, partial, d.Type, term.Type); err != nil {
			return nil, err
		}
		types = append(types, d.Type)
	}

	headType, err := cfg.Types.GetType(raw.LHSHead)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(raw.Context))
	for i, d := range raw.Context {
		names[i] = d.Hint
	}

	result, err := infer.InferLHS(cfg.lookupForInfer(), cfg.whnf, names, types, headType, raw.LHSArgs)
	if err != nil {
		return nil, err
	}

	rhsCtx := FromRuleContext(result.VarTypes)
	if err := Check(cfg, rhsCtx, raw.RHS, result.ResultType); err != nil {
		return nil, err
	}

	arity := computeArityPerVar(result.Patterns, len(raw.Context))
	if err := checkArityInvariant(raw.RHS, arity, names); err != nil {
		return nil, err
	}

	ctxEntries := make([]term.CtxEntry, len(raw.Context))
	for i, d := range raw.Context {
		ctxEntries[i] = term.CtxEntry{Hint: d.Hint, Type: result.VarTypes[i]}
	}

	return &term.TypedRule{
		Name:        raw.Name,
		Context:     ctxEntries,
		LHSHead:     raw.LHSHead,
		LHSArgs:     result.Patterns,
		RHS:         raw.RHS,
		ArityPerVar: arity,
	}, nil
}

// lookupForInfer adapts Config.Types (single-error-return GetType) to
// the (type, ok, error) shape pkg/infer needs to distinguish "symbol
// absent" from a genuine lookup failure.
func (cfg Config) lookupForInfer() infer.TypeLookup {
	return func(name term.QName) (term.Term, bool, error) {
		t, err := cfg.Types.GetType(name)
		if err != nil {
			var notFound *sig.SymbolNotFoundError
			if errors.As(err, &notFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return t, true, nil
	}
}

// computeArityPerVar records, for each declared pattern variable, the
// number of arguments it was applied to on the LHS (0 for a plain
// first-order occurrence; len(Args) for a higher-order Miller
// occurrence, taking the maximum across every occurrence).
func computeArityPerVar(patterns []term.Pattern, n int) []int {
	arity := make([]int, n)
	var walk func(p term.Pattern)
	walk = func(p term.Pattern) {
		switch v := p.(type) {
		case *term.PatVar:
			if len(v.Args) > arity[v.Index] {
				arity[v.Index] = len(v.Args)
			}
		case *term.PatCons:
			for _, a := range v.Args {
				walk(a)
			}
		case *term.PatLambda:
			walk(v.Body)
		}
	}
	for _, p := range patterns {
		walk(p)
	}
	return arity
}

// checkArityInvariant walks rhs verifying every occurrence of a
// pattern variable applies it to at least as many arguments as it
// carried on the LHS (spec.md §4.G step 4), tracking depth so that
// RHS-internal Lam/Pi binders are correctly subtracted from DB
// indices before comparing against the Γ-relative arity table.
func checkArityInvariant(rhs term.Term, arity []int, names []string) error {
	var walk func(t term.Term, depth int) error
	walk = func(t term.Term, depth int) error {
		switch v := t.(type) {
		case *term.DB:
			idx := v.Index - depth
			if idx >= 0 && idx < len(arity) && arity[idx] > 0 {
				return &NotEnoughArgumentsError{Var: nameOrIndex(names, idx), DeclaredArity: arity[idx], UsedArity: 0}
			}
			return nil
		case *term.App:
			if db, ok := v.Head.(*term.DB); ok {
				idx := db.Index - depth
				if idx >= 0 && idx < len(arity) {
					used := len(v.Args)
					if used < arity[idx] {
						return &NotEnoughArgumentsError{Var: nameOrIndex(names, idx), DeclaredArity: arity[idx], UsedArity: used}
					}
				}
			} else if err := walk(v.Head, depth); err != nil {
				return err
			}
			for _, a := range v.Args {
				if err := walk(a, depth); err != nil {
					return err
				}
			}
			return nil
		case *term.Lam:
			if v.Domain != nil {
				if err := walk(v.Domain, depth); err != nil {
					return err
				}
			}
			return walk(v.Body, depth+1)
		case *term.Pi:
			if err := walk(v.Domain, depth); err != nil {
				return err
			}
			return walk(v.Codomain, depth+1)
		default:
			return nil
		}
	}
	return walk(rhs, 0)
}

func nameOrIndex(names []string, idx int) string {
	if idx >= 0 && idx < len(names) && names[idx] != "" {
		return names[idx]
	}
	return fmt.Sprintf("#%d", idx)
}
