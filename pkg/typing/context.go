package typing

import "lambdapi/pkg/term"

// Context is a typing context: an ordered list of bound-variable
// types, addressed by De-Bruijn index.
//
// Two distinct addressing schemes live under this one type, for two
// distinct uses:
//
//   - FromRuleContext builds the flat context of a rule's declared
//     pattern variables: DB(i) always addresses the i-th declared
//     variable, unconditionally — pattern variables are simultaneous
//     siblings of one rule, not a nested telescope of binders, and
//     pkg/term's TypedRule.Context / Pattern.Index / a rule's RHS all
//     already assume this fixed, append-order addressing (see
//     pkg/reduce's rule-driven tests).
//   - Extend introduces one genuine nested binder (a Pi domain or Lam
//     parameter encountered while recursing through an ordinary term):
//     standard telescoping, shifting every existing entry up by one.
//
// Extending a rule-context built by FromRuleContext is still correct:
// Extend's shift-and-prepend treats the existing flat entries as any
// other in-scope types, exactly as if they had been telescoped in
// declaration order.
type Context struct {
	types []term.Term
}

// FromRuleContext builds Γ for a rule: types[i] is the i-th declared
// pattern variable's type, addressed directly as DB(i).
func FromRuleContext(types []term.Term) Context {
	return Context{types: append([]term.Term(nil), types...)}
}

// Extend introduces one new innermost binder of the given domain type.
func (c Context) Extend(domain term.Term) Context {
	shifted := make([]term.Term, len(c.types))
	for i, t := range c.types {
		shifted[i] = term.Shift(1, 0, t)
	}
	return Context{types: append([]term.Term{domain}, shifted...)}
}

// Lookup returns the type of DB(i), or ok=false if i is out of range.
func (c Context) Lookup(i int) (term.Term, bool) {
	if i < 0 || i >= len(c.types) {
		return nil, false
	}
	return c.types[i], true
}

// Len is the number of entries currently in scope.
func (c Context) Len() int { return len(c.types) }
