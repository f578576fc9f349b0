// Package match implements the Miller-pattern matching kernel (spec.md
// §4.C): given a hole at abstraction depth d, a list of k distinct bound
// variables the hole's pattern variable was applied to, and a closed
// sub-term t under those k binders, it finds a u such that
// u x1 … xk ≡ t, or reports that no such u exists.
//
// Grounded on gitrdm-gokando/pkg/minikanren/nominal_unify.go's
// unifyInternal: a structural recursion over term shape that either
// walks deeper, substitutes, or fails — here specialised to the
// inverse-application problem instead of general unification.
package match

import "lambdapi/pkg/term"

// NotUnifiableError is control-flow, not user-visible: spec.md §4.C
// says the caller (the reducer) retries after normalising t and only
// escalates on persistent failure.
type NotUnifiableError struct{}

func (*NotUnifiableError) Error() string { return "not unifiable" }

// ErrNotUnifiable is the shared sentinel instance, safe to compare with
// errors.Is since NotUnifiableError carries no state.
var ErrNotUnifiable = &NotUnifiableError{}

// Problem describes one higher-order matching sub-problem: Depth
// abstractions enclose the hole, and BoundVars lists the (distinct, by
// the Miller restriction) De-Bruijn indices — each < Depth — that the
// pattern variable was applied to, in left-to-right application order.
type Problem struct {
	Depth     int
	BoundVars []int
}

// Solve finds u such that, once WrapSolution nests it in len(BoundVars)
// abstractions, applying it to p.BoundVars (as real DB references at
// depth p.Depth) beta-reduces to t.
func Solve(p Problem, t term.Term) (term.Term, error) {
	return solve(p.Depth, p.BoundVars, 0, t)
}

// solve walks t, tracking local — the number of binders of t itself
// crossed so far during this recursion, separate from d (the fixed
// depth of the original hole) and xs (the fixed bound-variable list).
func solve(d int, xs []int, local int, t term.Term) (term.Term, error) {
	switch v := t.(type) {
	case *term.DB:
		if v.Index < local {
			// Bound by one of t's own internal binders: passes through
			// untouched, same numeric index, since u preserves t's
			// local binder structure exactly.
			return v, nil
		}
		rel := v.Index - local
		if rel >= d {
			// Free with respect to the d enclosing abstractions above
			// the hole: keep, untouched.
			return v, nil
		}
		for i, x := range xs {
			if x == rel {
				// Translate to the position it will occupy once
				// WrapSolution nests len(xs) fresh binders around this
				// sub-term: innermost synthetic binder (last applied
				// argument) gets index 0.
				return term.NewDB(v.Hint, local+len(xs)-1-i), nil
			}
		}
		return nil, ErrNotUnifiable
	case *term.App:
		head, err := solve(d, xs, local, v.Head)
		if err != nil {
			return nil, err
		}
		args := make([]term.Term, len(v.Args))
		for i, a := range v.Args {
			s, err := solve(d, xs, local, a)
			if err != nil {
				return nil, err
			}
			args[i] = s
		}
		return term.NewApp(head, args...), nil
	case *term.Lam:
		var dom term.Term
		if v.Domain != nil {
			s, err := solve(d, xs, local, v.Domain)
			if err != nil {
				return nil, err
			}
			dom = s
		}
		body, err := solve(d, xs, local+1, v.Body)
		if err != nil {
			return nil, err
		}
		return term.NewLam(v.Hint, dom, body), nil
	case *term.Pi:
		dom, err := solve(d, xs, local, v.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := solve(d, xs, local+1, v.Codomain)
		if err != nil {
			return nil, err
		}
		return term.NewPi(v.Hint, dom, cod), nil
	default:
		// Kind, Type, Const: no bound variables, unchanged.
		return t, nil
	}
}

// WrapSolution nests u in k domain-free abstractions, one per entry of
// the BoundVars list a Problem was solved against, turning the raw
// inverse-substitution result into the functional value the reducer
// binds the pattern variable to. Applying the wrapped value to the
// original k bound variables then beta-reduces to the matched term
// through the ordinary reduction machine, with no special casing
// needed at substitution time.
func WrapSolution(k int, u term.Term) term.Term {
	for i := 0; i < k; i++ {
		u = term.NewLam("", nil, u)
	}
	return u
}
