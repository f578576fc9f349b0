// Package typing implements the bidirectional typing judgement
// (spec.md §4.G): Infer/Check over the core term algebra, and the
// rule-checking orchestration that wires together pkg/match's LHS
// shape requirements, pkg/infer's pattern-type inference, and
// pkg/reduce's convertibility check.
package typing

import (
	"lambdapi/pkg/reduce"
	"lambdapi/pkg/term"
)

// TypeLookup resolves a signature symbol's declared type. *sig.Signature
// satisfies this directly via its GetType method.
type TypeLookup interface {
	GetType(name term.QName) (term.Term, error)
}

// Config bundles the two capabilities typing needs from the rest of
// the core: looking up a symbol's declared type, and normalising terms
// (whnf, convertibility) under a chosen reduction strategy.
type Config struct {
	Types  TypeLookup
	Reduce reduce.Config
}

func (cfg Config) whnf(t term.Term) (term.Term, error) {
	return reduce.Whnf(cfg.Reduce, t)
}

func (cfg Config) convertible(a, b term.Term) (bool, error) {
	return reduce.AreConvertible(cfg.Reduce, a, b)
}

// Infer computes t's type in ctx, per spec.md §4.G.
func Infer(cfg Config, ctx Context, t term.Term) (term.Term, error) {
	switch v := t.(type) {
	case *term.TypeSort:
		return term.Kind, nil

	case *term.KindSort:
		return nil, &KindIsNotTypableError{}

	case *term.DB:
		ty, ok := ctx.Lookup(v.Index)
		if !ok {
			return nil, &VariableNotFoundError{Index: v.Index}
		}
		return ty, nil

	case *term.Const:
		return cfg.Types.GetType(v.Name)

	case *term.App:
		fty, err := Infer(cfg, ctx, v.Head)
		if err != nil {
			return nil, err
		}
		cur := fty
		for _, arg := range v.Args {
			next, err := InferApp(cfg, ctx, cur, arg)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil

	case *term.Pi:
		if err := Check(cfg, ctx, v.Domain, term.Type); err != nil {
			return nil, err
		}
		bty, err := Infer(cfg, ctx.Extend(v.Domain), v.Codomain)
		if err != nil {
			return nil, err
		}
		w, err := cfg.whnf(bty)
		if err != nil {
			return nil, err
		}
		switch w.(type) {
		case *term.TypeSort, *term.KindSort:
			return w, nil
		default:
			return nil, &SortExpectedError{Got: w}
		}

	case *term.Lam:
		if v.Domain == nil {
			return nil, &DomainFreeLambdaError{}
		}
		if err := Check(cfg, ctx, v.Domain, term.Type); err != nil {
			return nil, err
		}
		bty, err := Infer(cfg, ctx.Extend(v.Domain), v.Body)
		if err != nil {
			return nil, err
		}
		w, err := cfg.whnf(bty)
		if err != nil {
			return nil, err
		}
		if _, ok := w.(*term.KindSort); ok {
			return nil, &InexpectedKindError{}
		}
		return term.NewPi(v.Hint, v.Domain, bty), nil

	default:
		return nil, &CannotInferTypeOfPatternError{Detail: t.String()}
	}
}

// InferApp types one application step: (f, τ_f) applied to u.
func InferApp(cfg Config, ctx Context, fType term.Term, u term.Term) (term.Term, error) {
	w, err := cfg.whnf(fType)
	if err != nil {
		return nil, err
	}
	pi, ok := w.(*term.Pi)
	if !ok {
		return nil, &ProductExpectedError{Got: w}
	}
	if err := Check(cfg, ctx, u, pi.Domain); err != nil {
		return nil, err
	}
	return term.Subst(pi.Codomain, u), nil
}

// Check verifies t has type expected in ctx.
func Check(cfg Config, ctx Context, t term.Term, expected term.Term) error {
	got, err := Infer(cfg, ctx, t)
	if err != nil {
		return err
	}
	ok, err := cfg.convertible(expected, got)
	if err != nil {
		return err
	}
	if !ok {
		return &ConvertibilityError{Term: t, Expected: expected, Inferred: got}
	}
	return nil
}
