package dtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambdapi/pkg/term"
)

// TestCompileSwitchesOnFirstConstructorTestify mirrors spec.md §8
// scenario S2 using testify's assertion style (grailbio-gql's
// preferred test idiom), checking the compiled Switch's column and
// case shapes directly rather than only its type.
func TestCompileSwitchesOnFirstConstructorTestify(t *testing.T) {
	plusZ := mustRule("plus_Z", []term.CtxEntry{{Hint: "y"}}, "plus",
		[]term.Pattern{
			&term.PatCons{Name: term.Local("Z")},
			&term.PatVar{Hint: "y", Index: 0},
		},
		term.NewDB("y", 0))
	plusS := mustRule("plus_S", []term.CtxEntry{{Hint: "x"}, {Hint: "y"}}, "plus",
		[]term.Pattern{
			&term.PatCons{Name: term.Local("S"), Args: []term.Pattern{&term.PatVar{Hint: "x", Index: 0}}},
			&term.PatVar{Hint: "y", Index: 1},
		},
		term.NewApp(term.NewConst(term.Local("S")),
			term.NewApp(term.NewConst(term.Local("plus")), term.NewDB("x", 0), term.NewDB("y", 1))))

	node, err := CompileRules([]*term.TypedRule{plusZ, plusS})
	require.NoError(t, err)

	sw, ok := node.(*Switch)
	require.True(t, ok, "expected a *Switch at the root, got %T", node)
	assert.Equal(t, 0, sw.Column)
	assert.Len(t, sw.Cases, 2)

	zShape := CaseShape{Kind: CaseConst, Name: term.Local("Z")}
	sShape := CaseShape{Kind: CaseConst, Name: term.Local("S"), Arity: 1}
	assert.Contains(t, sw.Cases, zShape)
	assert.Contains(t, sw.Cases, sShape)
}

// TestCompileRejectsHeadSymbolMismatch checks that two rules whose
// heads disagree never reach a shared tree.
func TestCompileRejectsHeadSymbolMismatch(t *testing.T) {
	a := mustRule("a", nil, "f", []term.Pattern{&term.PatVar{Hint: "x", Index: 0}}, term.NewDB("x", 0))
	b := mustRule("b", nil, "g", []term.Pattern{&term.PatVar{Hint: "x", Index: 0}}, term.NewDB("x", 0))

	_, err := CompileRules([]*term.TypedRule{a, b})
	var want *HeadSymbolMismatchError
	require.ErrorAs(t, err, &want)
}
