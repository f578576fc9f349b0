package typing

import (
	"fmt"

	"lambdapi/pkg/term"
)

// KindIsNotTypableError is raised when Kind itself is checked or
// inferred as a term — invariant (iii) of spec.md §3.
type KindIsNotTypableError struct{}

func (e *KindIsNotTypableError) Error() string { return "typing: Kind has no type" }

// ConvertibilityError is raised by Check when the inferred type is not
// convertible with the expected one, pinpointing the offending
// sub-term and context.
type ConvertibilityError struct {
	Term     term.Term
	Expected term.Term
	Inferred term.Term
}

func (e *ConvertibilityError) Error() string {
	return fmt.Sprintf("typing: %s has type %s, expected %s", e.Term, e.Inferred, e.Expected)
}

// VariableNotFoundError is raised when a DB index has no entry in the
// current context.
type VariableNotFoundError struct {
	Index int
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("typing: variable #%d is not bound in this context", e.Index)
}

// SortExpectedError is raised when a Pi's codomain does not infer to
// Type or Kind.
type SortExpectedError struct {
	Got term.Term
}

func (e *SortExpectedError) Error() string {
	return fmt.Sprintf("typing: expected Type or Kind, got %s", e.Got)
}

// ProductExpectedError is raised when an application's head does not
// have a Pi type.
type ProductExpectedError struct {
	Got term.Term
}

func (e *ProductExpectedError) Error() string {
	return fmt.Sprintf("typing: expected a product type, got %s", e.Got)
}

// InexpectedKindError is raised when a Lam's body has type Kind — a
// lambda may never produce a Kind-sorted value.
type InexpectedKindError struct{}

func (e *InexpectedKindError) Error() string { return "typing: a lambda's body may not have type Kind" }

// DomainFreeLambdaError is raised when Infer encounters a Lam with no
// declared domain — inference has nothing to guess it from.
type DomainFreeLambdaError struct{}

func (e *DomainFreeLambdaError) Error() string {
	return "typing: cannot infer the type of a domain-free lambda"
}

// CannotInferTypeOfPatternError is raised when a rule's LHS cannot be
// elaborated well enough to assign it a type (pkg/infer failed in a
// way that typing treats as a hard stop rather than forwarding
// pkg/infer's own error verbatim).
type CannotInferTypeOfPatternError struct {
	Detail string
}

func (e *CannotInferTypeOfPatternError) Error() string {
	return fmt.Sprintf("typing: cannot infer the type of this pattern: %s", e.Detail)
}

// NotEnoughArgumentsError is raised when a rule's RHS applies a
// pattern variable to fewer arguments than it carried on the LHS.
type NotEnoughArgumentsError struct {
	Var           string
	DeclaredArity int
	UsedArity     int
}

func (e *NotEnoughArgumentsError) Error() string {
	return fmt.Sprintf("typing: %q is applied to %d argument(s) on the right-hand side, but appeared with %d on the left",
		e.Var, e.UsedArity, e.DeclaredArity)
}

// KindLevelDefinitionError is raised when a Def entry's declared or
// inferred type is Kind — the environment façade (spec.md §4.H) rejects
// Kind-level definitions outright.
type KindLevelDefinitionError struct {
	Name string
}

func (e *KindLevelDefinitionError) Error() string {
	return fmt.Sprintf("typing: %q may not be defined at the Kind level", e.Name)
}
