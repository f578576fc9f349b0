package infer

import (
	"fmt"
	"strings"

	"lambdapi/pkg/term"
)

// Surface is the pre-elaboration shape of a rule's left-hand side
// arguments, as written by a user: an identifier (bare, or applied to
// further Surface arguments), an `Unknown` placeholder, a binding
// pattern, or a bracket guard. InferLHS turns a list of these into
// elaborated term.Patterns, resolving each SAtom against the rule's
// declared pattern-variable context or the signature.
type Surface interface {
	fmt.Stringer
	isSurface()
}

// SJoker is the `Unknown` placeholder: a position the rule does not
// constrain at all, elaborating unconditionally to a term.PatJoker.
type SJoker struct{}

func (SJoker) isSurface()    {}
func (SJoker) String() string { return "_" }

// SAtom is an identifier, optionally applied to further Surface
// arguments. A bare SAtom (no Args) may resolve to a pattern variable,
// an enclosing binder reference, or a nullary signature constant; one
// with Args is either a higher-order pattern-variable occurrence (its
// Args must be distinct enclosing binders) or a rigid constructor
// application.
type SAtom struct {
	Name string
	Args []Surface
}

func (SAtom) isSurface() {}
func (a SAtom) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(parts, " "))
}

// SLambda is a binding pattern: it matches a Lam value and recurses
// into Body under one more pattern-level abstraction.
type SLambda struct {
	Hint string
	Body Surface
}

func (SLambda) isSurface() {}
func (l SLambda) String() string { return fmt.Sprintf("%s => %s", l.Hint, l.Body) }

// SBrackets carries an already-elaborated closed term guard; its
// convertibility with the matched value is checked at reduction time,
// never during inference.
type SBrackets struct {
	Term term.Term
}

func (SBrackets) isSurface() {}
func (b SBrackets) String() string { return fmt.Sprintf("{%s}", b.Term) }
