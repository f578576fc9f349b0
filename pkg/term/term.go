package term

import (
	"fmt"
	"strings"
)

// Term is the core tagged variant: Kind, Type, a De-Bruijn-indexed bound
// variable, a signature constant reference, a flattened application, a
// lambda abstraction, or a dependent product.
//
// Every concrete Term is an immutable value tree; substitution and
// normalisation always build new trees, never mutate in place, so Terms
// may be freely shared (see DESIGN.md "Ownership").
type Term interface {
	fmt.Stringer
	isTerm()
}

// KindSort is the sort of Type. It may only appear as the inferred type
// of Type itself, never as a user-written sub-term (invariant iii of
// spec.md §3).
type KindSort struct{}

func (*KindSort) isTerm() {}
func (*KindSort) String() string { return "Kind" }

// TypeSort is the sort of types.
type TypeSort struct{}

func (*TypeSort) isTerm() {}
func (*TypeSort) String() string { return "Type" }

// DB is a bound variable referenced by De-Bruijn index. Hint is purely a
// display aid and is ignored by Equal and by every structural comparison
// in this module.
type DB struct {
	Hint  string
	Index int
}

func (*DB) isTerm() {}
func (d *DB) String() string {
	if d.Hint != "" {
		return d.Hint
	}
	return fmt.Sprintf("#%d", d.Index)
}

// NewDB builds a bound-variable reference.
func NewDB(hint string, index int) *DB { return &DB{Hint: hint, Index: index} }

// Const references a symbol in the signature.
type Const struct {
	Name QName
}

func (*Const) isTerm() {}
func (c *Const) String() string { return c.Name.String() }

// NewConst builds a constant reference.
func NewConst(name QName) *Const { return &Const{Name: name} }

// App is an application with at least one argument. The smart
// constructor NewApp is the only legal way to build one: it flattens
// nested applications so that Head is never itself an *App, per spec.md
// §3 invariant (i).
type App struct {
	Head Term
	Args []Term
}

func (*App) isTerm() {}
func (a *App) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(a.Head.String())
	for _, arg := range a.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// NewApp applies head to args, flattening if head is itself an
// application and returning head unchanged when args is empty.
func NewApp(head Term, args ...Term) Term {
	if len(args) == 0 {
		return head
	}
	if inner, ok := head.(*App); ok {
		flat := make([]Term, 0, len(inner.Args)+len(args))
		flat = append(flat, inner.Args...)
		flat = append(flat, args...)
		return &App{Head: inner.Head, Args: flat}
	}
	return &App{Head: head, Args: append([]Term(nil), args...)}
}

// Lam is an abstraction. Domain may be nil for a domain-free lambda,
// legal only in a rule RHS, never in a type used for checking.
type Lam struct {
	Hint   string
	Domain Term // optional
	Body   Term
}

func (*Lam) isTerm() {}
func (l *Lam) String() string {
	dom := "_"
	if l.Domain != nil {
		dom = l.Domain.String()
	}
	return fmt.Sprintf("(λ%s:%s. %s)", hintOr(l.Hint, "_"), dom, l.Body.String())
}

// NewLam builds an abstraction. Pass a nil domain for a domain-free
// lambda.
func NewLam(hint string, domain Term, body Term) *Lam {
	return &Lam{Hint: hint, Domain: domain, Body: body}
}

// Pi is a dependent product.
type Pi struct {
	Hint      string
	Domain    Term
	Codomain  Term
}

func (*Pi) isTerm() {}
func (p *Pi) String() string {
	return fmt.Sprintf("(%s:%s -> %s)", hintOr(p.Hint, "_"), p.Domain.String(), p.Codomain.String())
}

// NewPi builds a dependent product.
func NewPi(hint string, domain, codomain Term) *Pi {
	return &Pi{Hint: hint, Domain: domain, Codomain: codomain}
}

// Meta is an unsolved type placeholder introduced while elaborating a
// rule's left-hand side (pkg/infer): the type of a newly-discovered
// pattern variable is not yet known, only constrained by the
// equations its later occurrences and its use as an argument accrue.
// A fully checked term or type never contains a Meta — pkg/infer's
// unifier eliminates every one before pkg/typing ever sees the rule.
type Meta struct {
	Index int
}

func (*Meta) isTerm() {}
func (m *Meta) String() string { return fmt.Sprintf("?%d", m.Index) }

func hintOr(hint, fallback string) string {
	if hint == "" {
		return fallback
	}
	return hint
}

// Singletons for the two sorts; there is never a reason to allocate more
// than one of each.
var (
	Kind = &KindSort{}
	Type = &TypeSort{}
)
