package sig

import (
	"context"
	"errors"
	"testing"

	"lambdapi/internal/confluence"
	"lambdapi/pkg/term"
)

func declareNat(t *testing.T, s *Signature) {
	t.Helper()
	if err := s.AddDeclaration(term.Local("Nat"), Static, term.Type); err != nil {
		t.Fatalf("declare Nat: %v", err)
	}
	if err := s.AddDeclaration(term.Local("Z"), Static, term.NewConst(term.Local("Nat"))); err != nil {
		t.Fatalf("declare Z: %v", err)
	}
	if err := s.AddDeclaration(term.Local("plus"), Definable,
		term.NewPi("", term.NewConst(term.Local("Nat")),
			term.NewPi("", term.NewConst(term.Local("Nat")), term.NewConst(term.Local("Nat"))))); err != nil {
		t.Fatalf("declare plus: %v", err)
	}
}

func TestAddRulesMergesAndCompiles(t *testing.T) {
	s := New(nil, confluence.Fatal, nil)
	declareNat(t, s)

	r := &term.TypedRule{
		Name:    "plus_Z",
		Context: []term.CtxEntry{{Hint: "y"}},
		LHSHead: term.Local("plus"),
		LHSArgs: []term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		RHS: term.NewDB("y", 0),
	}
	if err := s.AddRules(context.Background(), []*term.TypedRule{r}); err != nil {
		t.Fatalf("AddRules: %v", err)
	}

	pivot, tree, ok, err := s.GetTree(term.Local("plus"))
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if !ok || tree == nil {
		t.Fatalf("expected a compiled tree, got ok=%v tree=%v", ok, tree)
	}
	if pivot != 2 {
		t.Fatalf("pivot = %d, want 2", pivot)
	}
}

func TestAddRulesRejectsStaticSymbol(t *testing.T) {
	s := New(nil, confluence.Fatal, nil)
	declareNat(t, s)

	r := &term.TypedRule{
		Name:    "bad",
		LHSHead: term.Local("Z"),
	}
	err := s.AddRules(context.Background(), []*term.TypedRule{r})
	var want *CannotRewriteStaticSymbolError
	if !errors.As(err, &want) {
		t.Fatalf("expected CannotRewriteStaticSymbolError, got %v", err)
	}
}

func TestAddRulesRejectsUndeclaredSymbol(t *testing.T) {
	s := New(nil, confluence.Fatal, nil)
	r := &term.TypedRule{
		Name:    "mystery",
		LHSHead: term.Local("ghost"),
	}
	err := s.AddRules(context.Background(), []*term.TypedRule{r})
	var want *SymbolNotFoundError
	if !errors.As(err, &want) {
		t.Fatalf("expected SymbolNotFoundError, got %v", err)
	}
}

func TestAddDeclarationRejectsRedefinition(t *testing.T) {
	s := New(nil, confluence.Fatal, nil)
	if err := s.AddDeclaration(term.Local("x"), Static, term.Type); err != nil {
		t.Fatalf("first declare: %v", err)
	}
	err := s.AddDeclaration(term.Local("x"), Static, term.Type)
	var want *AlreadyDefinedError
	if !errors.As(err, &want) {
		t.Fatalf("expected AlreadyDefinedError, got %v", err)
	}
}

type failingChecker struct{}

func (failingChecker) Check(context.Context, string, string) (confluence.Report, error) {
	return confluence.Report{Confluent: false, Detail: "rules overlap without a common reduct"}, nil
}

func TestAddRulesFatalModeRejectsNonConfluentReport(t *testing.T) {
	s := New(failingChecker{}, confluence.Fatal, nil)
	declareNat(t, s)

	r := &term.TypedRule{
		Name:    "plus_Z",
		Context: []term.CtxEntry{{Hint: "y"}},
		LHSHead: term.Local("plus"),
		LHSArgs: []term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		RHS: term.NewDB("y", 0),
	}
	err := s.AddRules(context.Background(), []*term.TypedRule{r})
	var want *ConfluenceCheckFailedError
	if !errors.As(err, &want) {
		t.Fatalf("expected ConfluenceCheckFailedError, got %v", err)
	}
}

func TestExportPreservesDeclarationOrder(t *testing.T) {
	s := New(nil, confluence.Fatal, nil)
	declareNat(t, s)

	r := &term.TypedRule{
		Name:    "plus_Z",
		Context: []term.CtxEntry{{Hint: "y"}},
		LHSHead: term.Local("plus"),
		LHSArgs: []term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		RHS: term.NewDB("y", 0),
	}
	if err := s.AddRules(context.Background(), []*term.TypedRule{r}); err != nil {
		t.Fatalf("AddRules: %v", err)
	}

	entries := s.Export()
	if len(entries) != 3 {
		t.Fatalf("expected 3 exported entries, got %d", len(entries))
	}
	wantOrder := []string{"Nat", "Z", "plus"}
	for i, want := range wantOrder {
		if entries[i].Name.String() != want {
			t.Fatalf("entries[%d].Name = %q, want %q", i, entries[i].Name.String(), want)
		}
	}
	if len(entries[2].Rules) != 1 {
		t.Fatalf("expected plus to carry its one rule, got %d", len(entries[2].Rules))
	}
}

func TestAddRulesAdvisoryModeProceedsOnNonConfluentReport(t *testing.T) {
	s := New(failingChecker{}, confluence.Advisory, nil)
	declareNat(t, s)

	r := &term.TypedRule{
		Name:    "plus_Z",
		Context: []term.CtxEntry{{Hint: "y"}},
		LHSHead: term.Local("plus"),
		LHSArgs: []term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		RHS: term.NewDB("y", 0),
	}
	if err := s.AddRules(context.Background(), []*term.TypedRule{r}); err != nil {
		t.Fatalf("AddRules in advisory mode: %v", err)
	}
}
