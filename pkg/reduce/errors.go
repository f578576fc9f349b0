package reduce

import "fmt"

// GuardNotSatisfiedError is a hard failure: a Test leaf's guards did
// not hold even though its matching problem solved. Unlike an ordinary
// non-match (which falls through to the next candidate rule), a
// violated guard aborts the reduction, since the rule author's
// bracket annotation asserted the guarded value as non-negotiable.
type GuardNotSatisfiedError struct {
	RuleName string
	Detail   string
}

func (e *GuardNotSatisfiedError) Error() string {
	return fmt.Sprintf("reduce: rule %q: guard not satisfied: %s", e.RuleName, e.Detail)
}
