package reduce

import (
	"sync"

	"lambdapi/pkg/term"
)

// Thunk is a memoizing suspended computation: a State not yet reduced
// to weak-head form. Once forced, both the WHNF'd State (needed by
// gamma_rewrite's Switch to inspect a scrutinee's shape) and its
// term.Term rendering (needed to bind an environment slot or
// reconstruct an application) are cached, so a shared binding looked
// up from multiple places in a term only does the reduction work once
// — the sharing call-by-need rewriting depends on for termination in
// practice.
type Thunk struct {
	mu    sync.Mutex
	done  bool
	state State
	err   error
	orig  State
}

// NewThunk suspends s, to be reduced only when first forced.
func NewThunk(s State) *Thunk {
	return &Thunk{orig: s}
}

// WHNF reduces the thunk's state to weak-head normal form, memoizing
// the result.
func (t *Thunk) WHNF(sess *session) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		s, err := stateWHNF(sess, t.orig)
		t.state, t.err, t.done = s, err, true
	}
	return t.state, t.err
}

// Force reduces the thunk to weak-head form and renders it as a term,
// for use as a substituted value.
func (t *Thunk) Force(sess *session) (term.Term, error) {
	s, err := t.WHNF(sess)
	if err != nil {
		return nil, err
	}
	return TermOfState(sess, s)
}
