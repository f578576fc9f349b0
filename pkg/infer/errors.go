package infer

import (
	"fmt"

	"lambdapi/pkg/term"
)

// ProductExpectedError is raised when an LHS argument is checked
// against a head (or rigid-constructor) type that does not whnf to a
// Pi — there is no domain to check the next argument against.
type ProductExpectedError struct {
	Got term.Term
}

func (e *ProductExpectedError) Error() string {
	return fmt.Sprintf("infer: expected a product type, got %s", e.Got)
}

// PatternVariableApplicationError is raised when a context-bound
// pattern variable is applied to arguments that do not each resolve to
// a distinct enclosing pattern-lambda binder — the Miller restriction
// (spec.md §4.C) that every higher-order pattern occurrence must obey.
type PatternVariableApplicationError struct {
	Name string
}

func (e *PatternVariableApplicationError) Error() string {
	return fmt.Sprintf("infer: pattern variable %q is applied to arguments that are not distinct bound variables", e.Name)
}

// UnsatisfiableConstraintsError is raised when the equation set
// accumulated while elaborating an LHS has no unifier.
type UnsatisfiableConstraintsError struct {
	Left, Right term.Term
}

func (e *UnsatisfiableConstraintsError) Error() string {
	return fmt.Sprintf("infer: unsatisfiable constraint %s ≡ %s", e.Left, e.Right)
}

// OccursCheckError is raised when binding a metavariable would build a
// cyclic term.
type OccursCheckError struct {
	Index int
}

func (e *OccursCheckError) Error() string {
	return fmt.Sprintf("infer: occurs check failed for ?%d", e.Index)
}

// NotAPatternError is raised when a bare reference to an enclosing
// pattern-lambda binder is used directly as an LHS sub-pattern: the
// pattern algebra (pkg/term) has no rigid bound-variable constructor
// outside a higher-order pattern variable's argument list, so such an
// occurrence is out of the supported fragment.
type NotAPatternError struct {
	Name string
}

func (e *NotAPatternError) Error() string {
	return fmt.Sprintf("infer: %q names a bound variable and cannot stand alone as a pattern here", e.Name)
}

// UnboundVariableError is raised when an atom resolves neither to a
// declared pattern variable, an enclosing binder, nor a signature
// symbol.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("infer: unbound symbol %q", e.Name)
}
