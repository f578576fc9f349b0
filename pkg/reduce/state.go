// Package reduce implements the reducer (spec.md §4.D): the weak-head
// abstract machine over {env, term, stack} triples, its decision-tree
// walker gamma_rewrite, and the derived whnf/snf/hnf/nsteps/
// are_convertible operations.
//
// Grounded on gitrdm-gokando/pkg/minikanren/stream.go's Stream/Goal
// machinery (a resumable computation threaded through a mutable store)
// and core.go's Substitution.Walk (follow bindings, force lazily,
// memoize) — generalised here from a single binding lookup into a full
// closure-producing thunk so repeated forces of the same environment
// slot share reduction work, per the call-by-need discipline spec.md
// §5 assumes.
package reduce

import "lambdapi/pkg/term"

// State is the reducer's {env; term; stack} triple. Env binds the
// outer De-Bruijn indices of Term to (lazily reduced) values; Stack is
// the list of pending arguments, nearest first.
type State struct {
	Env   []*Thunk
	Term  term.Term
	Stack []*Thunk
}

// closureOf builds the trivial suspended state {env; t; []} spec.md
// §4.D rule 5 pushes for each unloaded application argument.
func closureOf(env []*Thunk, t term.Term) State {
	return State{Env: env, Term: t}
}

// TermOfState forces s's closure by parallel-substituting its
// (forced) environment into its term, then reapplying every pending
// stack element in order.
func TermOfState(sess *session, s State) (term.Term, error) {
	forcedEnv := make([]term.Term, len(s.Env))
	for i, c := range s.Env {
		v, err := c.Force(sess)
		if err != nil {
			return nil, err
		}
		forcedEnv[i] = v
	}
	base := term.PSubstL(forcedEnv, s.Term)
	if len(s.Stack) == 0 {
		return base, nil
	}
	args := make([]term.Term, len(s.Stack))
	for i, c := range s.Stack {
		v, err := c.Force(sess)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return term.NewApp(base, args...), nil
}

// session threads the reduction configuration plus a shared step
// budget through one top-level reduction call and everything it
// forces transitively (env lookups, stack inspection inside
// gamma_rewrite all draw on the same budget).
type session struct {
	cfg       *Config
	remaining *int // nil: unlimited
}

func newSession(cfg Config) *session {
	s := &session{cfg: &cfg}
	if cfg.StepLimit > 0 {
		n := cfg.StepLimit
		s.remaining = &n
	}
	return s
}

func newBoundedSession(cfg Config, n int) *session {
	s := &session{cfg: &cfg}
	s.remaining = &n
	return s
}

// takeStep reports whether a further beta/gamma firing is permitted,
// consuming one unit of budget if so. An unlimited session always
// permits.
func (sess *session) takeStep() bool {
	if sess.remaining == nil {
		return true
	}
	if *sess.remaining <= 0 {
		return false
	}
	*sess.remaining--
	return true
}
