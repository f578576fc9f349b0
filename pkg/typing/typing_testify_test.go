package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambdapi/pkg/term"
)

// TestCheckS6TypeErrorPinpointsMismatch mirrors spec.md §8 scenario S6
// with testify's assertion style: checking λx:A. x against B -> B with
// A ≢ B must surface ConvertibilityError naming the mismatched
// sub-term.
func TestCheckS6TypeErrorPinpointsMismatch(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	b := term.NewConst(term.Local("B"))
	types := fakeTypes{"A": term.Type, "B": term.Type}

	lam := term.NewLam("x", a, term.NewDB("x", 0))
	arrow := term.NewPi("_", b, b)

	err := Check(baseConfig(types), Context{}, lam, arrow)
	require.Error(t, err)

	var convErr *ConvertibilityError
	require.ErrorAs(t, err, &convErr)
	assert.True(t, term.Eq(convErr.Term, lam))
	assert.True(t, term.Eq(convErr.Expected, arrow))
}

// TestInferAppChainedArguments checks Infer over a multi-argument
// application, exercising InferApp's fold.
func TestInferAppChainedArguments(t *testing.T) {
	a := term.NewConst(term.Local("A"))
	b := term.NewConst(term.Local("B"))
	c := term.NewConst(term.Local("C"))
	types := fakeTypes{
		"A": term.Type, "B": term.Type, "C": term.Type,
		"f": term.NewPi("_", a, term.NewPi("_", b, c)),
		"x": a, "y": b,
	}
	app := term.NewApp(term.NewConst(term.Local("f")), term.NewConst(term.Local("x")), term.NewConst(term.Local("y")))

	got, err := Infer(baseConfig(types), Context{}, app)
	require.NoError(t, err)
	assert.True(t, term.Eq(got, c), "infer(f x y) = %v, want C", got)
}
