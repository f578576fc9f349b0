package term

import "testing"

func TestNewAppFlattensNestedApplications(t *testing.T) {
	f := NewConst(Local("f"))
	a := NewConst(Local("a"))
	b := NewConst(Local("b"))
	c := NewConst(Local("c"))

	inner := NewApp(f, a, b)
	outer := NewApp(inner, c)

	app, ok := outer.(*App)
	if !ok {
		t.Fatalf("expected *App, got %T", outer)
	}
	if app.Head != Term(f) {
		t.Fatalf("flattened head = %v, want f", app.Head)
	}
	if len(app.Args) != 3 {
		t.Fatalf("flattened args = %v, want 3 args", app.Args)
	}
}

func TestNewAppNoArgsReturnsHead(t *testing.T) {
	f := NewConst(Local("f"))
	if got := NewApp(f); got != Term(f) {
		t.Fatalf("NewApp(f) = %v, want f unchanged", got)
	}
}

func TestEqIgnoresNameHints(t *testing.T) {
	a := NewDB("x", 0)
	b := NewDB("y", 0)
	if !Eq(a, b) {
		t.Fatalf("DB(x,0) and DB(y,0) should be equal modulo hints")
	}
}

func TestEqDistinguishesIndices(t *testing.T) {
	if Eq(NewDB("x", 0), NewDB("x", 1)) {
		t.Fatalf("DB(0) and DB(1) must not be equal")
	}
}

func TestEqConstByQualifiedName(t *testing.T) {
	c1 := NewConst(NewQName("M", "f"))
	c2 := NewConst(NewQName("M", "f"))
	c3 := NewConst(NewQName("N", "f"))
	if !Eq(c1, c2) {
		t.Fatalf("identical qualified names should be equal")
	}
	if Eq(c1, c3) {
		t.Fatalf("different modules should not be equal")
	}
}

func TestEqLambdaIgnoresDomain(t *testing.T) {
	l1 := NewLam("x", NewConst(Local("A")), NewDB("x", 0))
	l2 := NewLam("x", NewConst(Local("B")), NewDB("x", 0))
	if !Eq(l1, l2) {
		t.Fatalf("Lam equality must not require convertible domains")
	}
}
