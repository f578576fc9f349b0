package dtree

import "fmt"

// HeadSymbolMismatchError is raised when CompileRules is given rules
// that do not all share the same head symbol.
type HeadSymbolMismatchError struct {
	Expected string
	Got      string
}

func (e *HeadSymbolMismatchError) Error() string {
	return fmt.Sprintf("decision tree: rule head %q does not match %q", e.Got, e.Expected)
}

// ArityInnerMismatchError is raised when a definable symbol appears in
// the same column under different arities across rules — compiling a
// Switch on it would not be sound, since the same CaseShape would need
// two different destructurings.
type ArityInnerMismatchError struct {
	Column int
	Name   string
}

func (e *ArityInnerMismatchError) Error() string {
	return fmt.Sprintf("decision tree: column %d uses %q at inconsistent arities across rules", e.Column, e.Name)
}
