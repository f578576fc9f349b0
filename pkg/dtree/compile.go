package dtree

import (
	"fmt"

	"lambdapi/pkg/term"
)

// row is one rule's LHS during compilation: cols holds the (possibly
// already-specialised, always padded-to-width) argument patterns, and
// depths[i] is the abstraction depth cols[i] sits at, for Unshift
// bookkeeping once it becomes a Problem position.
type row struct {
	rule   *term.TypedRule
	cols   []term.Pattern
	depths []int
}

// CompileRules compiles every rule in rules — which must all share the
// same head symbol — into a single decision tree, trying rules in the
// order given (earlier rules shadow later ones on overlap), per
// spec.md §4.E.
func CompileRules(rules []*term.TypedRule) (Node, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	head := rules[0].LHSHead.String()
	pivot := rules[0].Arity()
	for _, r := range rules[1:] {
		if r.LHSHead.String() != head {
			return nil, &HeadSymbolMismatchError{Expected: head, Got: r.LHSHead.String()}
		}
		if r.Arity() > pivot {
			pivot = r.Arity()
		}
	}

	rows := make([]row, len(rules))
	for i, r := range rules {
		rows[i] = newRowFromRule(r, pivot)
	}
	return compileRows(rows)
}

// newRowFromRule pads r's argument list to width with fresh jokers, so
// every row compileRows sees has the same column count to start.
func newRowFromRule(r *term.TypedRule, width int) row {
	cols := make([]term.Pattern, width)
	depths := make([]int, width)
	copy(cols, r.LHSArgs)
	for i := len(r.LHSArgs); i < width; i++ {
		cols[i] = &term.PatJoker{Index: i}
	}
	return row{rule: r, cols: cols, depths: depths}
}

// dropColumn removes column c, leaving the remaining columns in place.
func dropColumn(rw row, c int) row {
	cols := make([]term.Pattern, 0, len(rw.cols)-1)
	depths := make([]int, 0, len(rw.depths)-1)
	cols = append(cols, rw.cols[:c]...)
	cols = append(cols, rw.cols[c+1:]...)
	depths = append(depths, rw.depths[:c]...)
	depths = append(depths, rw.depths[c+1:]...)
	return row{rule: rw.rule, cols: cols, depths: depths}
}

// specialize removes column c and appends subs as new trailing columns,
// each tagged with subDepth — the destructuring step a rigid pattern or
// a padded joined var/joker row goes through when a Switch branch is
// taken.
func specialize(rw row, c int, subs []term.Pattern, subDepth int) row {
	dropped := dropColumn(rw, c)
	cols := append(dropped.cols, subs...)
	depths := dropped.depths
	for range subs {
		depths = append(depths, subDepth)
	}
	return row{rule: rw.rule, cols: cols, depths: depths}
}

// shapeOf extracts a rigid pattern's CaseShape, its sub-patterns to
// append as new columns, and the abstraction depth those sub-patterns
// sit at (one deeper than parentDepth for Lambda, unchanged for Const).
func shapeOf(p term.Pattern, parentDepth int) (CaseShape, []term.Pattern, int, error) {
	switch v := p.(type) {
	case *term.PatCons:
		return CaseShape{Kind: CaseConst, Name: v.Name, Arity: len(v.Args)}, v.Args, parentDepth, nil
	case *term.PatLambda:
		return CaseShape{Kind: CaseLambda, Arity: 1}, []term.Pattern{v.Body}, parentDepth + 1, nil
	default:
		return CaseShape{}, nil, 0, fmt.Errorf("dtree: %T cannot head a switch branch", p)
	}
}

func shapeKey(s CaseShape) any {
	switch s.Kind {
	case CaseConst:
		return s.Name.String()
	case CaseDB:
		return s.DBIndex
	default:
		return "lambda"
	}
}

func shapeName(s CaseShape) string {
	switch s.Kind {
	case CaseConst:
		return s.Name.String()
	case CaseDB:
		return fmt.Sprintf("DB(%d)", s.DBIndex)
	default:
		return "Lambda"
	}
}

// compileRows is the recursive core: pick a column to switch on (or, if
// every column is uniformly uninformative, emit a leaf), partition rows
// by the chosen column's shape, and recurse.
func compileRows(rows []row) (Node, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	width := len(rows[0].cols)

	col := -1
	for c := 0; c < width; c++ {
		uniform := true
		for _, rw := range rows {
			if !term.IsVarOrJoker(rw.cols[c]) {
				uniform = false
				break
			}
		}
		if !uniform {
			col = c
			break
		}
	}

	if col == -1 {
		leaf, err := buildLeaf(rows[0])
		if err != nil {
			return nil, err
		}
		rest, err := compileRows(rows[1:])
		if err != nil {
			return nil, err
		}
		leaf.Default = rest
		return leaf, nil
	}

	var order []CaseShape
	rigid := map[any][]row{}
	shapeOf_ := map[any]CaseShape{}
	subDepthOf := map[any]int{}
	arity := map[any]int{}
	var joinRows []row

	for _, rw := range rows {
		p := rw.cols[col]
		if term.IsVarOrJoker(p) {
			joinRows = append(joinRows, rw)
			continue
		}
		shape, subs, subDepth, err := shapeOf(p, rw.depths[col])
		if err != nil {
			return nil, err
		}
		key := shapeKey(shape)
		if prev, ok := arity[key]; ok && prev != shape.Arity {
			return nil, &ArityInnerMismatchError{Column: col, Name: shapeName(shape)}
		}
		arity[key] = shape.Arity
		if _, seen := rigid[key]; !seen {
			order = append(order, shape)
			shapeOf_[key] = shape
			subDepthOf[key] = subDepth
		}
		rigid[key] = append(rigid[key], specialize(rw, col, subs, subDepth))
	}

	cases := map[CaseShape]Node{}
	for _, shape := range order {
		key := shapeKey(shape)
		bucket := append([]row{}, rigid[key]...)
		subDepth := subDepthOf[key]
		for _, jr := range joinRows {
			padded := make([]term.Pattern, shape.Arity)
			for i := range padded {
				padded[i] = &term.PatJoker{}
			}
			bucket = append(bucket, specialize(jr, col, padded, subDepth))
		}
		node, err := compileRows(bucket)
		if err != nil {
			return nil, err
		}
		cases[shape] = node
	}

	var defaultNode Node
	if len(joinRows) > 0 {
		defRows := make([]row, len(joinRows))
		for i, jr := range joinRows {
			defRows[i] = dropColumn(jr, col)
		}
		n, err := compileRows(defRows)
		if err != nil {
			return nil, err
		}
		defaultNode = n
	}

	return &Switch{Column: col, Cases: cases, Default: defaultNode}, nil
}

// buildLeaf turns a fully-specialised row — every remaining column a
// PatVar, PatJoker, or PatBrackets — into a Test: the rule's context is
// read off Problem (one slot per declared variable, first occurrence
// wins), and every later occurrence or bracket becomes a Guard.
func buildLeaf(rw row) (*Test, error) {
	numVars := len(rw.rule.Context)
	positions := make([]Position, numVars)
	miller := make([]AbstractProblem, numVars)
	seen := make([]bool, numVars)
	useMiller := false
	var guards []Guard

	for c, p := range rw.cols {
		switch v := p.(type) {
		case *term.PatVar:
			if v.Index < 0 || v.Index >= numVars {
				return nil, fmt.Errorf("dtree: rule %s: pattern variable index %d out of range", rw.rule.Name, v.Index)
			}
			if !seen[v.Index] {
				seen[v.Index] = true
				positions[v.Index] = Position{Depth: rw.depths[c], StackIndex: c}
				bound := make([]int, len(v.Args))
				for i, a := range v.Args {
					pb, ok := a.(*term.PatBound)
					if !ok {
						return nil, fmt.Errorf("dtree: rule %s: pattern variable %s applied to non-bound argument %v", rw.rule.Name, v.Hint, a)
					}
					bound[i] = pb.Depth
				}
				if len(bound) > 0 {
					useMiller = true
				}
				miller[v.Index] = AbstractProblem{Depth: rw.depths[c], BoundVars: bound, StackIndex: c}
			} else {
				guards = append(guards, Guard{
					Kind:         GuardLinearity,
					ContextIndex: v.Index,
					Read:         StackRead{Column: c, Depth: rw.depths[c]},
				})
			}
		case *term.PatBrackets:
			guards = append(guards, Guard{
				Kind:     GuardBracket,
				Read:     StackRead{Column: c, Depth: rw.depths[c]},
				Expected: v.Term,
			})
		case *term.PatJoker:
			// Carries no context obligation.
		default:
			return nil, fmt.Errorf("dtree: rule %s: column %d (%T) reached a leaf unspecialised", rw.rule.Name, c, p)
		}
	}

	var problem MatchingProblem
	if useMiller {
		problem = MatchingProblem{Miller: &MillerProblem{Problems: miller}}
	} else {
		problem = MatchingProblem{Syntactic: &SyntacticProblem{Positions: positions}}
	}

	return &Test{
		RuleName: rw.rule.Name,
		Problem:  problem,
		Guards:   guards,
		RHS:      rw.rule.RHS,
		NumVars:  numVars,
	}, nil
}
