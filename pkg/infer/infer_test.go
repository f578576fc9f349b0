package infer

import (
	"testing"

	"lambdapi/pkg/term"
)

func identityWhnf(t term.Term) (term.Term, error) { return t, nil }

func noSymbols(term.QName) (term.Term, bool, error) { return nil, false, nil }

// TestInferLHSSimpleVariable mirrors spec.md §8 S1: `id x` against
// `id : A -> A` elaborates x to a plain pattern variable of type A.
func TestInferLHSSimpleVariable(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	headType := term.NewPi("_", a, a)

	res, err := InferLHS(noSymbols, identityWhnf, []string{"x"}, []term.Term{a}, headType, []Surface{SAtom{Name: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(res.Patterns))
	}
	pv, ok := res.Patterns[0].(*term.PatVar)
	if !ok || pv.Index != 0 {
		t.Fatalf("expected PatVar{Index:0}, got %#v", res.Patterns[0])
	}
	if !term.Eq(res.ResultType, a) {
		t.Fatalf("result type = %v, want %v", res.ResultType, a)
	}
	if !term.Eq(res.VarTypes[0], a) {
		t.Fatalf("var type = %v, want %v", res.VarTypes[0], a)
	}
}

// TestInferLHSHigherOrderVariable mirrors spec.md §8 S4:
// `apply (x => F x) a` against `apply : (A -> B) -> A -> B` elaborates
// the lambda-wrapped application of F to its own binder into a Miller
// PatVar carrying a PatBound argument, resolving F's declared (A -> B)
// type down to its pieces.
func TestInferLHSHigherOrderVariable(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	b := term.NewConst(term.Local("B"))
	headType := term.NewPi("_", term.NewPi("_", a, b), term.NewPi("_", a, b))
	declared := []string{"F", "a"}
	declTypes := []term.Term{term.NewPi("_", a, b), a}
	args := []Surface{
		SLambda{Hint: "x", Body: SAtom{Name: "F", Args: []Surface{SAtom{Name: "x"}}}},
		SAtom{Name: "a"},
	}

	res, err := InferLHS(noSymbols, identityWhnf, declared, declTypes, headType, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lam, ok := res.Patterns[0].(*term.PatLambda)
	if !ok {
		t.Fatalf("expected PatLambda, got %#v", res.Patterns[0])
	}
	inner, ok := lam.Body.(*term.PatVar)
	if !ok || inner.Index != 0 {
		t.Fatalf("expected PatVar{Index:0} under the binder, got %#v", lam.Body)
	}
	if len(inner.Args) != 1 {
		t.Fatalf("expected F applied to one bound argument, got %d", len(inner.Args))
	}
	bound, ok := inner.Args[0].(*term.PatBound)
	if !ok || bound.Depth != 0 {
		t.Fatalf("expected PatBound{Depth:0}, got %#v", inner.Args[0])
	}
	if !term.Eq(res.ResultType, b) {
		t.Fatalf("result type = %v, want %v", res.ResultType, b)
	}
	if !term.Eq(res.VarTypes[0], term.NewPi("_", a, b)) {
		t.Fatalf("F's resolved type = %v, want A -> B", res.VarTypes[0])
	}
}

// TestInferLHSRigidConstructor elaborates `S x` against a Nat-headed
// type, exercising the signature-lookup branch of checkAtom.
func TestInferLHSRigidConstructor(t *testing.T) {
	nat := term.NewConst(term.Local("Nat"))
	headType := term.NewPi("_", nat, nat) // type of `S` itself, as the head
	sType := term.NewPi("_", nat, nat)
	lookup := func(name term.QName) (term.Term, bool, error) {
		if name.Equal(term.Local("S")) {
			return sType, true, nil
		}
		return nil, false, nil
	}

	arg := SAtom{Name: "S", Args: []Surface{SAtom{Name: "n"}}}
	res, err := InferLHS(lookup, identityWhnf, []string{"n"}, []term.Term{nat}, headType, []Surface{arg})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cons, ok := res.Patterns[0].(*term.PatCons)
	if !ok || !cons.Name.Equal(term.Local("S")) {
		t.Fatalf("expected PatCons{S}, got %#v", res.Patterns[0])
	}
	if len(cons.Args) != 1 {
		t.Fatalf("expected one sub-pattern, got %d", len(cons.Args))
	}
	if _, ok := cons.Args[0].(*term.PatVar); !ok {
		t.Fatalf("expected a pattern variable under S, got %#v", cons.Args[0])
	}
}

// TestInferLHSRejectsNonBoundHigherOrderArgument checks that a
// pattern-variable application whose argument is not an enclosing
// binder is rejected, per the Miller restriction.
func TestInferLHSRejectsNonBoundHigherOrderArgument(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	b := term.NewConst(term.Local("B"))
	headType := term.NewPi("_", term.NewPi("_", a, b), term.NewPi("_", a, b))
	declared := []string{"F", "a"}
	declTypes := []term.Term{term.NewPi("_", a, b), a}
	args := []Surface{
		SLambda{Hint: "x", Body: SAtom{Name: "F", Args: []Surface{SAtom{Name: "a"}}}},
		SAtom{Name: "a"},
	}

	_, err := InferLHS(noSymbols, identityWhnf, declared, declTypes, headType, args)
	if _, ok := err.(*PatternVariableApplicationError); !ok {
		t.Fatalf("expected PatternVariableApplicationError, got %v", err)
	}
}

// TestInferLHSRejectsNonProductHead checks that a head type which
// whnfs to something other than a Pi fails with ProductExpectedError.
func TestInferLHSRejectsNonProductHead(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	_, err := InferLHS(noSymbols, identityWhnf, []string{"x"}, []term.Term{a}, a, []Surface{SAtom{Name: "x"}})
	if _, ok := err.(*ProductExpectedError); !ok {
		t.Fatalf("expected ProductExpectedError, got %v", err)
	}
}

// TestInferLHSJokerAddsNoConstraint checks that an Unknown placeholder
// elaborates to a PatJoker without contributing any equation.
func TestInferLHSJokerAddsNoConstraint(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	headType := term.NewPi("_", a, a)
	res, err := InferLHS(noSymbols, identityWhnf, nil, nil, headType, []Surface{SJoker{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Patterns[0].(*term.PatJoker); !ok {
		t.Fatalf("expected PatJoker, got %#v", res.Patterns[0])
	}
}
