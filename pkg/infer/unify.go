package infer

import "lambdapi/pkg/term"

// Equation is one constraint accumulated while elaborating an LHS:
// Left and Right must unify once every pattern variable's type has
// been discovered.
type Equation struct {
	Left, Right term.Term
}

// substitution is a first-order unifier's growing solution: a mapping
// from Meta index to its resolved term. Unlike pkg/match's
// higher-order Miller solver, this unifier never needs to reason about
// bound-variable scope — metavariables here stand for the as-yet
// undiscovered *types* of pattern variables, and types accumulated
// this way are always closed with respect to the rule's own binders.
type substitution struct {
	bindings map[int]term.Term
}

func newSubstitution() *substitution {
	return &substitution{bindings: map[int]term.Term{}}
}

// resolve deeply replaces every solved Meta in t with its binding.
func (s *substitution) resolve(t term.Term) term.Term {
	switch v := t.(type) {
	case *term.Meta:
		if bound, ok := s.bindings[v.Index]; ok {
			return s.resolve(bound)
		}
		return v
	case *term.App:
		args := make([]term.Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = s.resolve(a)
		}
		return term.NewApp(s.resolve(v.Head), args...)
	case *term.Lam:
		var dom term.Term
		if v.Domain != nil {
			dom = s.resolve(v.Domain)
		}
		return term.NewLam(v.Hint, dom, s.resolve(v.Body))
	case *term.Pi:
		return term.NewPi(v.Hint, s.resolve(v.Domain), s.resolve(v.Codomain))
	default:
		return t
	}
}

func (s *substitution) bind(index int, t term.Term) error {
	if occursCheck(index, t) {
		return &OccursCheckError{Index: index}
	}
	s.bindings[index] = t
	return nil
}

func occursCheck(index int, t term.Term) bool {
	switch v := t.(type) {
	case *term.Meta:
		return v.Index == index
	case *term.App:
		if occursCheck(index, v.Head) {
			return true
		}
		for _, a := range v.Args {
			if occursCheck(index, a) {
				return true
			}
		}
		return false
	case *term.Lam:
		if v.Domain != nil && occursCheck(index, v.Domain) {
			return true
		}
		return occursCheck(index, v.Body)
	case *term.Pi:
		return occursCheck(index, v.Domain) || occursCheck(index, v.Codomain)
	default:
		return false
	}
}

// unifyAll solves eqs in order, returning the accumulated solution or
// the first unsatisfiable constraint.
func unifyAll(eqs []Equation) (*substitution, error) {
	s := newSubstitution()
	for _, eq := range eqs {
		if err := s.unifyOne(eq.Left, eq.Right); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *substitution) unifyOne(a, b term.Term) error {
	a = s.resolve(a)
	b = s.resolve(b)

	if ma, ok := a.(*term.Meta); ok {
		if mb, ok := b.(*term.Meta); ok && ma.Index == mb.Index {
			return nil
		}
		return s.bind(ma.Index, b)
	}
	if mb, ok := b.(*term.Meta); ok {
		return s.bind(mb.Index, a)
	}

	switch x := a.(type) {
	case *term.KindSort:
		if _, ok := b.(*term.KindSort); ok {
			return nil
		}
	case *term.TypeSort:
		if _, ok := b.(*term.TypeSort); ok {
			return nil
		}
	case *term.DB:
		if y, ok := b.(*term.DB); ok && x.Index == y.Index {
			return nil
		}
	case *term.Const:
		if y, ok := b.(*term.Const); ok && x.Name.Equal(y.Name) {
			return nil
		}
	case *term.App:
		y, ok := b.(*term.App)
		if !ok || len(x.Args) != len(y.Args) {
			break
		}
		if err := s.unifyOne(x.Head, y.Head); err != nil {
			return err
		}
		for i := range x.Args {
			if err := s.unifyOne(x.Args[i], y.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *term.Lam:
		y, ok := b.(*term.Lam)
		if !ok || (x.Domain == nil) != (y.Domain == nil) {
			break
		}
		if x.Domain != nil {
			if err := s.unifyOne(x.Domain, y.Domain); err != nil {
				return err
			}
		}
		return s.unifyOne(x.Body, y.Body)
	case *term.Pi:
		y, ok := b.(*term.Pi)
		if !ok {
			break
		}
		if err := s.unifyOne(x.Domain, y.Domain); err != nil {
			return err
		}
		return s.unifyOne(x.Codomain, y.Codomain)
	}
	return &UnsatisfiableConstraintsError{Left: a, Right: b}
}
