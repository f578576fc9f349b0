package term

// CtxEntry is one pattern-variable declaration in a typed rule's
// context: its display hint and its inferred type.
type CtxEntry struct {
	Hint string
	Type Term
}

// TypedRule is a rewrite rule that has passed pkg/typing's check_rule:
// its context of pattern variables is typed, its LHS is elaborated into
// Patterns, and its RHS has been checked against the LHS's inferred
// type.
//
// ArityPerVar records, for each context entry by index, the number of
// arguments it was applied to on the LHS — the invariant pkg/typing
// checks the RHS against (every occurrence in the RHS must apply it to
// at least that many arguments).
type TypedRule struct {
	Name        string
	Context     []CtxEntry
	LHSHead     QName
	LHSArgs     []Pattern
	RHS         Term
	ArityPerVar []int
}

// Arity is the number of LHS arguments under the head symbol.
func (r *TypedRule) Arity() int { return len(r.LHSArgs) }
