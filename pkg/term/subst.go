package term

import "fmt"

// UnshiftError is raised by Unshift when a free index below the unshift
// amount appears in the term — the term still mentions a variable bound
// outside the scope being discarded.
type UnshiftError struct {
	Index int
	N     int
}

func (e *UnshiftError) Error() string {
	return fmt.Sprintf("unshift %d: free De-Bruijn index %d escapes the discarded binders", e.N, e.Index)
}

// Shift adds n to every free index in t (every DB whose index is >=
// cutoff). Used when a term moves under, or out from under, binders.
func Shift(n, cutoff int, t Term) Term {
	if n == 0 {
		return t
	}
	switch v := t.(type) {
	case *DB:
		if v.Index >= cutoff {
			return &DB{Hint: v.Hint, Index: v.Index + n}
		}
		return v
	case *App:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = Shift(n, cutoff, a)
		}
		return NewApp(Shift(n, cutoff, v.Head), args...)
	case *Lam:
		var dom Term
		if v.Domain != nil {
			dom = Shift(n, cutoff, v.Domain)
		}
		return &Lam{Hint: v.Hint, Domain: dom, Body: Shift(n, cutoff+1, v.Body)}
	case *Pi:
		return &Pi{Hint: v.Hint, Domain: Shift(n, cutoff, v.Domain), Codomain: Shift(n, cutoff+1, v.Codomain)}
	default:
		return v
	}
}

// Subst performs body[0 ↦ value], the single-substitution case of
// PSubstL, with automatic shifting of value as it crosses binders.
func Subst(body, value Term) Term {
	return substAt(body, 0, value)
}

func substAt(t Term, depth int, value Term) Term {
	switch v := t.(type) {
	case *DB:
		switch {
		case v.Index == depth:
			return Shift(depth, 0, value)
		case v.Index > depth:
			return &DB{Hint: v.Hint, Index: v.Index - 1}
		default:
			return v
		}
	case *App:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = substAt(a, depth, value)
		}
		return NewApp(substAt(v.Head, depth, value), args...)
	case *Lam:
		var dom Term
		if v.Domain != nil {
			dom = substAt(v.Domain, depth, value)
		}
		return &Lam{Hint: v.Hint, Domain: dom, Body: substAt(v.Body, depth+1, value)}
	case *Pi:
		return &Pi{Hint: v.Hint, Domain: substAt(v.Domain, depth, value), Codomain: substAt(v.Codomain, depth+1, value)}
	default:
		return v
	}
}

// PSubstL performs the simultaneous substitution of env[0..k-1] at the
// outermost k binders of body: a free DB at depth+i (for i < len(env))
// becomes env[i] shifted by depth; a free DB beyond that window is
// shifted down by len(env) to close the gap left by the substituted
// binders.
func PSubstL(env []Term, body Term) Term {
	if len(env) == 0 {
		return body
	}
	return psubstAt(body, 0, env)
}

func psubstAt(t Term, depth int, env []Term) Term {
	k := len(env)
	switch v := t.(type) {
	case *DB:
		if v.Index < depth {
			return v
		}
		rel := v.Index - depth
		if rel < k {
			return Shift(depth, 0, env[rel])
		}
		return &DB{Hint: v.Hint, Index: v.Index - k}
	case *App:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = psubstAt(a, depth, env)
		}
		return NewApp(psubstAt(v.Head, depth, env), args...)
	case *Lam:
		var dom Term
		if v.Domain != nil {
			dom = psubstAt(v.Domain, depth, env)
		}
		return &Lam{Hint: v.Hint, Domain: dom, Body: psubstAt(v.Body, depth+1, env)}
	case *Pi:
		return &Pi{Hint: v.Hint, Domain: psubstAt(v.Domain, depth, env), Codomain: psubstAt(v.Codomain, depth+1, env)}
	default:
		return v
	}
}

// Unshift subtracts n from every free index in t, failing with
// UnshiftError if any free index below n appears — such an index would
// refer to a binder that no longer exists once the term leaves this
// scope.
func Unshift(n int, t Term) (Term, error) {
	return unshiftAt(t, 0, n)
}

func unshiftAt(t Term, depth, n int) (Term, error) {
	switch v := t.(type) {
	case *DB:
		if v.Index < depth {
			return v, nil
		}
		if v.Index-depth < n {
			return nil, &UnshiftError{Index: v.Index, N: n}
		}
		return &DB{Hint: v.Hint, Index: v.Index - n}, nil
	case *App:
		head, err := unshiftAt(v.Head, depth, n)
		if err != nil {
			return nil, err
		}
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			shifted, err := unshiftAt(a, depth, n)
			if err != nil {
				return nil, err
			}
			args[i] = shifted
		}
		return NewApp(head, args...), nil
	case *Lam:
		var dom Term
		if v.Domain != nil {
			d, err := unshiftAt(v.Domain, depth, n)
			if err != nil {
				return nil, err
			}
			dom = d
		}
		body, err := unshiftAt(v.Body, depth+1, n)
		if err != nil {
			return nil, err
		}
		return &Lam{Hint: v.Hint, Domain: dom, Body: body}, nil
	case *Pi:
		dom, err := unshiftAt(v.Domain, depth, n)
		if err != nil {
			return nil, err
		}
		cod, err := unshiftAt(v.Codomain, depth+1, n)
		if err != nil {
			return nil, err
		}
		return &Pi{Hint: v.Hint, Domain: dom, Codomain: cod}, nil
	default:
		return v, nil
	}
}
