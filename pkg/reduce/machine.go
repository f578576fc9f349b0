package reduce

import (
	"fmt"

	"lambdapi/pkg/dtree"
	"lambdapi/pkg/match"
	"lambdapi/pkg/term"
)

// stateWHNF runs the six-rule weak-head machine (spec.md §4.D) to a
// fixpoint: a state whose head cannot be reduced any further (a sort,
// a product, an irreducible lambda, a free/neutral variable, or a
// constant whose decision tree does not fire).
func stateWHNF(sess *session, s State) (State, error) {
	for {
		switch t := s.Term.(type) {
		case *term.TypeSort, *term.KindSort:
			return s, nil

		case *term.Pi:
			if sess.cfg.Strategy != ByStrongValue {
				return s, nil
			}
			closed, err := strongValueClose(sess, s.Env, t)
			if err != nil {
				return State{}, err
			}
			dom, err := whnfTerm(sess, closed.Domain)
			if err != nil {
				return State{}, err
			}
			return State{Term: term.NewPi(closed.Hint, dom, closed.Codomain), Stack: s.Stack}, nil

		case *term.Lam:
			if len(s.Stack) == 0 || !sess.cfg.Beta || !sess.takeStep() {
				if sess.cfg.Strategy == ByStrongValue && t.Domain != nil {
					closed, err := strongValueClose(sess, s.Env, t)
					if err != nil {
						return State{}, err
					}
					dom, err := whnfTerm(sess, closed.Domain)
					if err != nil {
						return State{}, err
					}
					return State{Term: term.NewLam(closed.Hint, dom, closed.Body), Stack: s.Stack}, nil
				}
				return s, nil
			}
			p := s.Stack[0]
			rest := s.Stack[1:]
			newEnv := make([]*Thunk, 0, len(s.Env)+1)
			newEnv = append(newEnv, p)
			newEnv = append(newEnv, s.Env...)
			s = State{Env: newEnv, Term: t.Body, Stack: rest}

		case *term.DB:
			if t.Index < len(s.Env) {
				v, err := s.Env[t.Index].Force(sess)
				if err != nil {
					return State{}, err
				}
				s = State{Env: nil, Term: v, Stack: s.Stack}
				continue
			}
			return State{Env: nil, Term: term.NewDB(t.Hint, t.Index-len(s.Env)), Stack: s.Stack}, nil

		case *term.Const:
			pivot, tree, ok, err := sess.cfg.Signature.GetTree(t.Name)
			if err != nil || !ok || tree == nil || pivot > len(s.Stack) {
				return s, nil
			}
			s1, s2 := s.Stack[:pivot], s.Stack[pivot:]
			rhsEnv, rhsTerm, ruleName, matched, err := gammaRewrite(sess, s1, tree)
			if err != nil {
				return State{}, err
			}
			if !matched || !sess.takeStep() {
				return s, nil
			}
			if sess.cfg.Logger != nil {
				capturedEnv, capturedTerm := rhsEnv, rhsTerm
				sess.cfg.Logger(LogEntry{
					Position: t.Name.String(),
					RuleName: ruleName,
					RHS: func() term.Term {
						v, _ := TermOfState(sess, State{Env: capturedEnv, Term: capturedTerm})
						return v
					},
				})
			}
			s = State{Env: rhsEnv, Term: rhsTerm, Stack: s2}

		case *term.App:
			argThunks := make([]*Thunk, len(t.Args))
			for i, a := range t.Args {
				th := NewThunk(closureOf(s.Env, a))
				if sess.cfg.Strategy != ByName {
					if _, err := th.WHNF(sess); err != nil {
						return State{}, err
					}
				}
				argThunks[i] = th
			}
			s = State{Env: s.Env, Term: t.Head, Stack: append(argThunks, s.Stack...)}

		default:
			return s, nil
		}
	}
}

// strongValueClose applies env into t's outer De Bruijn indices (the
// same parallel substitution TermOfState performs) without disturbing
// t's own binder, so a Lam/Pi's domain annotation can be whnf'd on its
// own afterwards under ByStrongValue without losing the bindings it
// closes over.
func strongValueClose[T term.Term](sess *session, env []*Thunk, t T) (T, error) {
	full, err := TermOfState(sess, State{Env: env, Term: t})
	var zero T
	if err != nil {
		return zero, err
	}
	closed, ok := full.(T)
	if !ok {
		return zero, fmt.Errorf("reduce: strong-value closure changed shape: %T", full)
	}
	return closed, nil
}

// gammaRewrite walks tree against stack, returning the matched rule's
// (context-env, rhs-term, rule-name) or matched=false.
func gammaRewrite(sess *session, stack []*Thunk, node dtree.Node) ([]*Thunk, term.Term, string, bool, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil, "", false, nil

	case *dtree.Test:
		return tryTest(sess, stack, n)

	case *dtree.Switch:
		if n.Column < 0 || n.Column >= len(stack) {
			return nil, nil, "", false, fmt.Errorf("reduce: decision tree column %d out of range (stack width %d)", n.Column, len(stack))
		}
		elemState, err := stack[n.Column].WHNF(sess)
		if err != nil {
			return nil, nil, "", false, err
		}
		if branch, extra, ok := switchBranch(n, elemState); ok {
			newStack := append(removeAt(stack, n.Column), extra...)
			env, rhs, name, matched, err := gammaRewrite(sess, newStack, branch)
			if err != nil || matched {
				return env, rhs, name, matched, err
			}
		}
		if n.Default != nil {
			return gammaRewrite(sess, removeAt(stack, n.Column), n.Default)
		}
		return nil, nil, "", false, nil

	default:
		return nil, nil, "", false, fmt.Errorf("reduce: unknown decision tree node %T", node)
	}
}

// switchBranch matches st's head shape against n's cases, returning
// the chosen subtree plus the extra stack columns its destructuring
// contributes (the scrutinee's own arguments for Const/DB, its body
// for Lambda).
func switchBranch(n *dtree.Switch, st State) (dtree.Node, []*Thunk, bool) {
	switch hv := st.Term.(type) {
	case *term.Const:
		shape := dtree.CaseShape{Kind: dtree.CaseConst, Name: hv.Name, Arity: len(st.Stack)}
		if node, ok := n.Cases[shape]; ok {
			return node, st.Stack, true
		}
	case *term.DB:
		shape := dtree.CaseShape{Kind: dtree.CaseDB, DBIndex: hv.Index, Arity: len(st.Stack)}
		if node, ok := n.Cases[shape]; ok {
			return node, st.Stack, true
		}
	case *term.Lam:
		if len(st.Stack) == 0 {
			shape := dtree.CaseShape{Kind: dtree.CaseLambda, Arity: 1}
			if node, ok := n.Cases[shape]; ok {
				return node, []*Thunk{NewThunk(State{Env: st.Env, Term: hv.Body})}, true
			}
		}
	}
	return nil, nil, false
}

func removeAt(stack []*Thunk, i int) []*Thunk {
	out := make([]*Thunk, 0, len(stack)-1)
	out = append(out, stack[:i]...)
	out = append(out, stack[i+1:]...)
	return out
}

// tryTest solves test's matching problem against stack, checks its
// guards, and returns the rule's context environment and RHS on
// success.
func tryTest(sess *session, stack []*Thunk, test *dtree.Test) ([]*Thunk, term.Term, string, bool, error) {
	ctx, ok, err := solveProblem(sess, stack, test.Problem, test.NumVars)
	if err != nil {
		return nil, nil, "", false, err
	}
	if !ok {
		if test.Default != nil {
			return gammaRewrite(sess, stack, test.Default)
		}
		return nil, nil, "", false, nil
	}
	for _, g := range test.Guards {
		holds, err := checkGuard(sess, stack, ctx, g)
		if err != nil {
			return nil, nil, "", false, err
		}
		if !holds {
			return nil, nil, "", false, &GuardNotSatisfiedError{
				RuleName: test.RuleName,
				Detail:   fmt.Sprintf("guard kind %d failed reading stack column %d", g.Kind, g.Read.Column),
			}
		}
	}
	if sess.cfg.Selector != nil && !sess.cfg.Selector(test.RuleName) {
		if test.Default != nil {
			return gammaRewrite(sess, stack, test.Default)
		}
		return nil, nil, "", false, nil
	}
	return ctx, test.RHS, test.RuleName, true, nil
}

// solveProblem builds the context environment a Test's RHS substitutes
// into, per spec.md §4.D's unshift/match-and-retry discipline: a first
// attempt reads the raw forced value; on an UnshiftError or
// match.ErrNotUnifiable, the value is normalised harder and retried
// once before the whole Test falls through as a non-match.
func solveProblem(sess *session, stack []*Thunk, problem dtree.MatchingProblem, numVars int) ([]*Thunk, bool, error) {
	ctx := make([]*Thunk, numVars)

	if problem.Syntactic != nil {
		for i, pos := range problem.Syntactic.Positions {
			if pos.StackIndex >= len(stack) {
				// The rule's context declares a variable that never
				// occurs in this particular LHS row; nothing to read.
				continue
			}
			raw, err := stack[pos.StackIndex].Force(sess)
			if err != nil {
				return nil, false, err
			}
			val, uerr := term.Unshift(pos.Depth, raw)
			if uerr != nil {
				deep, err := snfTerm(sess, raw)
				if err != nil {
					return nil, false, err
				}
				val, uerr = term.Unshift(pos.Depth, deep)
				if uerr != nil {
					return nil, false, nil
				}
			}
			ctx[i] = NewThunk(State{Term: val})
		}
		return ctx, true, nil
	}

	for i, ap := range problem.Miller.Problems {
		if ap.StackIndex >= len(stack) {
			continue
		}
		raw, err := stack[ap.StackIndex].Force(sess)
		if err != nil {
			return nil, false, err
		}
		u, merr := match.Solve(match.Problem{Depth: ap.Depth, BoundVars: ap.BoundVars}, raw)
		if merr != nil {
			deep, err := snfTerm(sess, raw)
			if err != nil {
				return nil, false, err
			}
			u, merr = match.Solve(match.Problem{Depth: ap.Depth, BoundVars: ap.BoundVars}, deep)
			if merr != nil {
				return nil, false, nil
			}
		}
		ctx[i] = NewThunk(State{Term: match.WrapSolution(len(ap.BoundVars), u)})
	}
	return ctx, true, nil
}

func checkGuard(sess *session, stack []*Thunk, ctx []*Thunk, g dtree.Guard) (bool, error) {
	raw, err := stack[g.Read.Column].Force(sess)
	if err != nil {
		return false, err
	}
	val, uerr := term.Unshift(g.Read.Depth, raw)
	if uerr != nil {
		val = raw
	}
	switch g.Kind {
	case dtree.GuardLinearity:
		if g.ContextIndex < 0 || g.ContextIndex >= len(ctx) || ctx[g.ContextIndex] == nil {
			return false, nil
		}
		canon, err := ctx[g.ContextIndex].Force(sess)
		if err != nil {
			return false, err
		}
		return areConvertible(sess, canon, val)
	case dtree.GuardBracket:
		return areConvertible(sess, g.Expected, val)
	default:
		return false, nil
	}
}
