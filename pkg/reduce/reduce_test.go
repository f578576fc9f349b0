package reduce

import (
	"testing"

	"lambdapi/pkg/dtree"
	"lambdapi/pkg/term"
)

type fakeSignature struct {
	trees map[string]treeEntry
}

type treeEntry struct {
	pivot int
	tree  dtree.Node
}

func newFakeSignature() *fakeSignature {
	return &fakeSignature{trees: map[string]treeEntry{}}
}

func (f *fakeSignature) addRules(t *testing.T, rules ...*term.TypedRule) {
	t.Helper()
	tree, err := dtree.CompileRules(rules)
	if err != nil {
		t.Fatalf("compiling rules: %v", err)
	}
	pivot := 0
	for _, r := range rules {
		if r.Arity() > pivot {
			pivot = r.Arity()
		}
	}
	f.trees[rules[0].LHSHead.String()] = treeEntry{pivot: pivot, tree: tree}
}

func (f *fakeSignature) GetTree(name term.QName) (int, dtree.Node, bool, error) {
	e, ok := f.trees[name.String()]
	if !ok {
		return 0, nil, false, nil
	}
	return e.pivot, e.tree, true, nil
}

func baseConfig(sig TreeLookup) Config {
	return Config{Signature: sig, Beta: true, Target: TargetWhnf}
}

// TestWhnfReducesBetaRedex checks plain beta reduction with no rewrite
// rules involved: (λx. x) a --> a.
func TestWhnfReducesBetaRedex(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	redex := term.NewApp(term.NewLam("x", nil, term.NewDB("x", 0)), a)

	got, err := Whnf(baseConfig(sig), redex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, a) {
		t.Fatalf("whnf = %v, want %v", got, a)
	}
}

// TestWhnfBetaDisabledLeavesRedex checks that disabling beta via
// Config.Beta leaves an application over a lambda untouched.
func TestWhnfBetaDisabledLeavesRedex(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	redex := term.NewApp(term.NewLam("x", nil, term.NewDB("x", 0)), a)

	cfg := baseConfig(sig)
	cfg.Beta = false
	got, err := Whnf(cfg, redex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, redex) {
		t.Fatalf("whnf = %v, want unreduced %v", got, redex)
	}
}

// TestWhnfRewritesIdentityRule mirrors spec.md §8 scenario S1: a
// one-rule decision tree for `id x --> x` fires through gamma_rewrite.
func TestWhnfRewritesIdentityRule(t *testing.T) {
	sig := newFakeSignature()
	sig.addRules(t, &term.TypedRule{
		Name:    "id_x",
		Context: []term.CtxEntry{{Hint: "x"}},
		LHSHead: term.Local("id"),
		LHSArgs: []term.Pattern{&term.PatVar{Hint: "x", Index: 0}},
		RHS:     term.NewDB("x", 0),
	})

	a := term.NewConst(term.Local("a"))
	call := term.NewApp(term.NewConst(term.Local("id")), a)

	got, err := Whnf(baseConfig(sig), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, a) {
		t.Fatalf("whnf(id a) = %v, want %v", got, a)
	}
}

// TestSnfRewritesPeanoAddition mirrors spec.md §8 scenario S2, fully
// normalising `plus (S (S Z)) Z` down to `S (S Z)` across repeated
// gamma/beta firings.
func TestSnfRewritesPeanoAddition(t *testing.T) {
	sig := newFakeSignature()
	zero := mustRuleReduce("plus_Z", []term.CtxEntry{{Hint: "y"}}, "plus",
		[]term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		term.NewDB("y", 0))
	succ := mustRuleReduce("plus_S", []term.CtxEntry{{Hint: "x"}, {Hint: "y"}}, "plus",
		[]term.Pattern{
			&term.PatCons{Name: term.Local("S"), Args: []term.Pattern{&term.PatVar{Hint: "x", Index: 0}}},
			&term.PatVar{Hint: "y", Index: 1},
		},
		term.NewApp(term.NewConst(term.Local("S")),
			term.NewApp(term.NewConst(term.Local("plus")), term.NewDB("x", 0), term.NewDB("y", 1))))
	sig.addRules(t, zero, succ)

	z := term.NewConst(term.Local("Z"))
	s := func(n term.Term) term.Term { return term.NewApp(term.NewConst(term.Local("S")), n) }
	two := s(s(z))
	expr := term.NewApp(term.NewConst(term.Local("plus")), two, z)

	got, err := Snf(baseConfig(sig), expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, two) {
		t.Fatalf("snf(plus 2 0) = %v, want %v", got, two)
	}
}

func mustRuleReduce(name string, ctx []term.CtxEntry, head string, args []term.Pattern, rhs term.Term) *term.TypedRule {
	return &term.TypedRule{Name: name, Context: ctx, LHSHead: term.Local(head), LHSArgs: args, RHS: rhs}
}

// TestNStepsStopsEarly checks that a zero-step budget blocks even a
// single beta firing.
func TestNStepsStopsEarly(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	redex := term.NewApp(term.NewLam("x", nil, term.NewDB("x", 0)), a)

	got, err := NSteps(baseConfig(sig), 0, redex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, redex) {
		t.Fatalf("nsteps(0, redex) = %v, want unreduced %v", got, redex)
	}
}

// TestAreConvertibleAlphaEquivalence checks that convertibility ignores
// bound-variable hints and reduces both sides before comparing roots.
func TestAreConvertibleAlphaEquivalence(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	lhs := term.NewApp(term.NewLam("x", nil, term.NewDB("x", 0)), a)
	rhs := a

	ok, err := AreConvertible(baseConfig(sig), lhs, rhs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected lhs and rhs to be convertible")
	}
}

// TestSelectorExcludesRuleFallsThroughToDefault mirrors plus_Z/plus_S
// but excludes plus_S via Config.Selector: the Z row still fires for
// `plus Z y`, while the S row falls through to the tree's default
// instead of rewriting `plus (S x) y`.
func TestSelectorExcludesRuleFallsThroughToDefault(t *testing.T) {
	sig := newFakeSignature()
	sig.addRules(t,
		mustRuleReduce("plus_Z", []term.CtxEntry{{Hint: "y"}}, "plus",
			[]term.Pattern{
				&term.PatCons{Name: term.Local("Z")},
				&term.PatVar{Hint: "y", Index: 0},
			},
			term.NewDB("y", 0)),
		mustRuleReduce("plus_S", []term.CtxEntry{{Hint: "x"}, {Hint: "y"}}, "plus",
			[]term.Pattern{
				&term.PatCons{Name: term.Local("S"), Args: []term.Pattern{&term.PatVar{Hint: "x", Index: 0}}},
				&term.PatVar{Hint: "y", Index: 1},
			},
			term.NewApp(term.NewConst(term.Local("S")),
				term.NewApp(term.NewConst(term.Local("plus")), term.NewDB("x", 0), term.NewDB("y", 1)))),
	)

	cfg := baseConfig(sig)
	cfg.Selector = func(ruleName string) bool { return ruleName != "plus_S" }

	z := term.NewConst(term.Local("Z"))
	y := term.NewConst(term.Local("y"))
	zeroCall := term.NewApp(term.NewConst(term.Local("plus")), z, y)
	got, err := Whnf(cfg, zeroCall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, y) {
		t.Fatalf("whnf(plus Z y) = %v, want %v (plus_Z still selected)", got, y)
	}

	one := term.NewApp(term.NewConst(term.Local("S")), z)
	succCall := term.NewApp(term.NewConst(term.Local("plus")), one, y)
	got, err = Whnf(cfg, succCall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, succCall) {
		t.Fatalf("whnf(plus (S Z) y) = %v, want unreduced %v (plus_S excluded)", got, succCall)
	}
}

// TestByValueForcesArgumentsEagerly checks that Strategy: ByValue whnf's
// an application's arguments even when the head never consumes them.
func TestByValueForcesArgumentsEagerly(t *testing.T) {
	sig := newFakeSignature()
	sig.addRules(t, mustRuleReduce("id_x", []term.CtxEntry{{Hint: "x"}}, "id",
		[]term.Pattern{&term.PatVar{Hint: "x", Index: 0}}, term.NewDB("x", 0)))

	a := term.NewConst(term.Local("a"))
	redex := term.NewApp(term.NewLam("y", nil, term.NewDB("y", 0)), a)
	idRedex := term.NewApp(term.NewConst(term.Local("id")), redex)

	cfg := baseConfig(sig)
	cfg.Strategy = ByValue
	got, err := Whnf(cfg, idRedex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, a) {
		t.Fatalf("whnf(id ((\\y.y) a)) under ByValue = %v, want %v", got, a)
	}
}

// TestByStrongValueReducesLamDomain checks that Strategy: ByStrongValue
// normalises a Lam's type annotation even when the Lam itself is
// returned as a value (no argument to apply it to).
func TestByStrongValueReducesLamDomain(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	domainRedex := term.NewApp(term.NewLam("z", nil, term.NewDB("z", 0)), a)
	lam := term.NewLam("x", domainRedex, term.NewDB("x", 0))

	cfg := baseConfig(sig)
	cfg.Strategy = ByStrongValue
	got, err := Whnf(cfg, lam)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotLam, ok := got.(*term.Lam)
	if !ok {
		t.Fatalf("expected *term.Lam, got %T", got)
	}
	if !term.Eq(gotLam.Domain, a) {
		t.Fatalf("lam domain = %v, want reduced %v", gotLam.Domain, a)
	}
}

// TestReduceDispatchesOnTarget checks that Reduce picks Whnf or Snf
// according to Config.Target, rather than callers having to choose.
func TestReduceDispatchesOnTarget(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	inner := term.NewApp(term.NewLam("x", nil, term.NewDB("x", 0)), a)
	outer := term.NewLam("y", nil, inner)

	cfg := baseConfig(sig)
	cfg.Target = TargetWhnf
	got, err := Reduce(cfg, outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !term.Eq(got, outer) {
		t.Fatalf("Reduce(TargetWhnf) = %v, want unreduced %v (only head-reduced)", got, outer)
	}

	cfg.Target = TargetSnf
	got, err = Reduce(cfg, outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := term.NewLam("y", nil, a)
	if !term.Eq(got, want) {
		t.Fatalf("Reduce(TargetSnf) = %v, want fully reduced %v", got, want)
	}
}

func TestAreConvertibleRejectsDistinctConstants(t *testing.T) {
	sig := newFakeSignature()
	a := term.NewConst(term.Local("a"))
	b := term.NewConst(term.Local("b"))

	ok, err := AreConvertible(baseConfig(sig), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected a and b not to be convertible")
	}
}
