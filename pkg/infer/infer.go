// Package infer elaborates a rule's surface left-hand side into the
// term.Pattern algebra, inferring the type of every pattern variable
// it discovers along the way (spec.md §4.F). It is purely a
// structural, equation-gathering pass: the only term-level operation
// it performs is forcing an expected type to whnf, injected by the
// caller (pkg/typing) so this package never depends on pkg/reduce's
// concrete signature wiring.
package infer

import (
	"fmt"

	"lambdapi/pkg/term"
)

// TypeLookup resolves a signature symbol's declared type, mirroring
// pkg/sig.Signature.GetType without introducing an import on pkg/sig.
type TypeLookup func(name term.QName) (typ term.Term, ok bool, err error)

// Whnf reduces t to weak-head normal form, mirroring pkg/reduce.Whnf
// without introducing an import on pkg/reduce.
type Whnf func(t term.Term) (term.Term, error)

// Result is the outcome of elaborating one rule's LHS: the elaborated
// argument patterns, the type of the fully-applied LHS, and the
// resolved type of every declared pattern variable.
type Result struct {
	Patterns   []term.Pattern
	ResultType term.Term
	VarTypes   []term.Term
}

type inferState struct {
	lookup    TypeLookup
	whnf      Whnf
	declared  []string
	declTypes []term.Term
	equations []Equation
	metaCount int
	jokerSeq  int
	standInSeq int
}

func (st *inferState) freshMeta() *term.Meta {
	m := &term.Meta{Index: st.metaCount}
	st.metaCount++
	return m
}

func (st *inferState) freshJoker() *term.PatJoker {
	j := &term.PatJoker{Index: st.jokerSeq}
	st.jokerSeq++
	return j
}

// patternStandIn builds a term-level placeholder for an elaborated
// pattern, used solely to substitute into a dependent Pi codomain so
// elaboration of later LHS arguments can proceed. This is a deliberate
// approximation: the stand-in is always a fresh opaque local constant,
// never a reconstruction of the pattern's actual shape, so a codomain
// that inspects the *value* the pattern destructures (e.g. indexing on
// an earlier argument's head symbol) will not refine any further than
// this opaque placeholder. Elaboration still succeeds in that case —
// the refinement is simply deferred to pkg/typing's check on the RHS,
// which works with genuinely substituted values, not stand-ins.
func (st *inferState) patternStandIn(term.Pattern) term.Term {
	name := term.NewQName("$arg", fmt.Sprintf("%d", st.standInSeq))
	st.standInSeq++
	return term.NewConst(name)
}

func (st *inferState) indexOfDeclared(name string) int {
	for i, d := range st.declared {
		if d == name {
			return i
		}
	}
	return -1
}

// resolveBoundRef reports whether s is a bare reference to one of
// boundNames, returning its pattern-level De-Bruijn depth (0 =
// innermost enclosing pattern-lambda).
func resolveBoundRef(boundNames []string, s Surface) (int, bool) {
	atom, ok := s.(SAtom)
	if !ok || len(atom.Args) != 0 {
		return 0, false
	}
	for i := len(boundNames) - 1; i >= 0; i-- {
		if boundNames[i] == atom.Name {
			return len(boundNames) - 1 - i, true
		}
	}
	return 0, false
}

func indexOfBound(boundNames []string, name string) bool {
	for _, b := range boundNames {
		if b == name {
			return true
		}
	}
	return false
}

// InferLHS elaborates a rule's LHS arguments against its head symbol's
// declared type, following spec.md §4.F: fold over args forcing the
// running expected type to whnf and peeling off one Pi per argument,
// then solve the accumulated equation set with a first-order unifier.
//
// declared/declTypes is the rule's pattern-variable context, built by
// the caller (pkg/typing, checking each declaration in sequence)
// before this runs.
func InferLHS(lookup TypeLookup, whnf Whnf, declared []string, declTypes []term.Term, headType term.Term, args []Surface) (*Result, error) {
	st := &inferState{lookup: lookup, whnf: whnf, declared: declared, declTypes: declTypes}

	patterns, resultType, err := st.foldArgs(nil, 0, headType, args)
	if err != nil {
		return nil, err
	}

	sub, err := unifyAll(st.equations)
	if err != nil {
		return nil, err
	}

	varTypes := make([]term.Term, len(declTypes))
	for i, t := range declTypes {
		varTypes[i] = sub.resolve(t)
	}

	return &Result{
		Patterns:   patterns,
		ResultType: sub.resolve(resultType),
		VarTypes:   varTypes,
	}, nil
}

// foldArgs implements the fold described in §4.F: at each step force
// expected to whnf, require a Pi, elaborate the next argument against
// its domain, and substitute a stand-in for that argument into the
// codomain to get the next expected type.
func (st *inferState) foldArgs(boundNames []string, depth int, headType term.Term, args []Surface) ([]term.Pattern, term.Term, error) {
	expected := headType
	patterns := make([]term.Pattern, 0, len(args))
	for _, a := range args {
		w, err := st.whnf(expected)
		if err != nil {
			return nil, nil, err
		}
		pi, ok := w.(*term.Pi)
		if !ok {
			return nil, nil, &ProductExpectedError{Got: w}
		}
		pat, err := st.checkPattern(boundNames, depth, pi.Domain, a)
		if err != nil {
			return nil, nil, err
		}
		standIn := st.patternStandIn(pat)
		expected = term.Subst(pi.Codomain, standIn)
		patterns = append(patterns, pat)
	}
	return patterns, expected, nil
}

// checkPattern elaborates one surface sub-pattern against expected,
// per §4.F's check_pattern, extended (see DESIGN.md) to accept
// higher-order pattern-variable occurrences applied to distinct
// enclosing binders.
func (st *inferState) checkPattern(boundNames []string, depth int, expected term.Term, s Surface) (term.Pattern, error) {
	switch v := s.(type) {
	case SJoker:
		return st.freshJoker(), nil

	case SBrackets:
		return &term.PatBrackets{Term: v.Term}, nil

	case SLambda:
		w, err := st.whnf(expected)
		if err != nil {
			return nil, err
		}
		pi, ok := w.(*term.Pi)
		if !ok {
			return nil, &ProductExpectedError{Got: w}
		}
		body, err := st.checkPattern(append(append([]string(nil), boundNames...), v.Hint), depth+1, pi.Codomain, v.Body)
		if err != nil {
			return nil, err
		}
		return &term.PatLambda{Hint: v.Hint, Body: body}, nil

	case SAtom:
		return st.checkAtom(boundNames, depth, expected, v)

	default:
		return nil, fmt.Errorf("infer: unknown surface node %T", s)
	}
}

func (st *inferState) checkAtom(boundNames []string, depth int, expected term.Term, a SAtom) (term.Pattern, error) {
	if idx := st.indexOfDeclared(a.Name); idx >= 0 {
		if len(a.Args) == 0 {
			st.equations = append(st.equations, Equation{
				Left:  expected,
				Right: term.Shift(depth, 0, st.declTypes[idx]),
			})
			return &term.PatVar{Hint: a.Name, Index: idx}, nil
		}
		return st.checkHigherOrderVar(boundNames, depth, expected, idx, a)
	}

	name := term.Local(a.Name)
	sigType, ok, err := st.lookup(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		if len(a.Args) == 0 && indexOfBound(boundNames, a.Name) {
			return nil, &NotAPatternError{Name: a.Name}
		}
		return nil, &UnboundVariableError{Name: a.Name}
	}

	argPatterns, resultType, err := st.foldArgs(boundNames, depth, sigType, a.Args)
	if err != nil {
		return nil, err
	}
	st.equations = append(st.equations, Equation{Left: expected, Right: resultType})
	return &term.PatCons{Name: name, Args: argPatterns}, nil
}

// checkHigherOrderVar elaborates `id(args...)` where id names a
// declared pattern variable: the Miller restriction requires every
// argument to be a distinct enclosing pattern-lambda binder. The
// variable's own type is constrained to be a chain of Pis ending in
// expected, one fresh Meta domain per argument — the domains
// themselves are never recovered precisely (see DESIGN.md), only
// enough to let unification propagate expected's shape backward.
func (st *inferState) checkHigherOrderVar(boundNames []string, depth int, expected term.Term, idx int, a SAtom) (term.Pattern, error) {
	patArgs := make([]term.Pattern, len(a.Args))
	seen := map[int]bool{}
	for i, argSurface := range a.Args {
		bDepth, ok := resolveBoundRef(boundNames, argSurface)
		if !ok || seen[bDepth] {
			return nil, &PatternVariableApplicationError{Name: a.Name}
		}
		seen[bDepth] = true
		patArgs[i] = &term.PatBound{Depth: bDepth}
	}

	chain := expected
	for i := len(a.Args) - 1; i >= 0; i-- {
		chain = term.NewPi("_", st.freshMeta(), chain)
	}
	st.equations = append(st.equations, Equation{
		Left:  chain,
		Right: term.Shift(depth, 0, st.declTypes[idx]),
	})
	return &term.PatVar{Hint: a.Name, Index: idx, Args: patArgs}, nil
}
