package reduce

import "lambdapi/pkg/term"

// Whnf reduces t to weak-head normal form under cfg.
func Whnf(cfg Config, t term.Term) (term.Term, error) {
	sess := newSession(cfg)
	return whnfTerm(sess, t)
}

// Snf reduces t to full (strong) normal form under cfg.
func Snf(cfg Config, t term.Term) (term.Term, error) {
	sess := newSession(cfg)
	return snfTerm(sess, t)
}

// Reduce normalises t according to cfg.Target, so a caller that only
// has a Config in hand (cmd/lambdapi's session setup, pkg/env's
// façade) doesn't have to duplicate the Whnf/Snf choice itself.
func Reduce(cfg Config, t term.Term) (term.Term, error) {
	switch cfg.Target {
	case TargetSnf:
		return Snf(cfg, t)
	default:
		return Whnf(cfg, t)
	}
}

// Hnf reduces t to head normal form: whnf, then recursively hnf each
// argument of the (possibly still-neutral) application that results.
func Hnf(cfg Config, t term.Term) (term.Term, error) {
	sess := newSession(cfg)
	return hnfTerm(sess, t)
}

// NSteps reduces t to weak-head form, but fires at most n beta/gamma
// steps regardless of cfg.StepLimit, returning whatever state it
// reaches when the budget runs out.
func NSteps(cfg Config, n int, t term.Term) (term.Term, error) {
	sess := newBoundedSession(cfg, n)
	return whnfTerm(sess, t)
}

// AreConvertible reports whether a and b are convertible under cfg: a
// worklist of term pairs, each compared structurally first and, on
// mismatch, whnf-reduced and compared root-to-root.
func AreConvertible(cfg Config, a, b term.Term) (bool, error) {
	sess := newSession(cfg)
	return areConvertible(sess, a, b)
}

func whnfTerm(sess *session, t term.Term) (term.Term, error) {
	s, err := stateWHNF(sess, State{Term: t})
	if err != nil {
		return nil, err
	}
	return TermOfState(sess, s)
}

func snfTerm(sess *session, t term.Term) (term.Term, error) {
	w, err := whnfTerm(sess, t)
	if err != nil {
		return nil, err
	}
	switch v := w.(type) {
	case *term.App:
		head, err := snfTerm(sess, v.Head)
		if err != nil {
			return nil, err
		}
		args := make([]term.Term, len(v.Args))
		for i, a := range v.Args {
			args[i], err = snfTerm(sess, a)
			if err != nil {
				return nil, err
			}
		}
		return term.NewApp(head, args...), nil
	case *term.Pi:
		dom, err := snfTerm(sess, v.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := snfTerm(sess, v.Codomain)
		if err != nil {
			return nil, err
		}
		return term.NewPi(v.Hint, dom, cod), nil
	case *term.Lam:
		var dom term.Term
		var err error
		if v.Domain != nil {
			dom, err = snfTerm(sess, v.Domain)
			if err != nil {
				return nil, err
			}
		}
		body, err := snfTerm(sess, v.Body)
		if err != nil {
			return nil, err
		}
		return term.NewLam(v.Hint, dom, body), nil
	default:
		return w, nil
	}
}

func hnfTerm(sess *session, t term.Term) (term.Term, error) {
	w, err := whnfTerm(sess, t)
	if err != nil {
		return nil, err
	}
	app, ok := w.(*term.App)
	if !ok {
		return w, nil
	}
	args := make([]term.Term, len(app.Args))
	for i, a := range app.Args {
		args[i], err = hnfTerm(sess, a)
		if err != nil {
			return nil, err
		}
	}
	return term.NewApp(app.Head, args...), nil
}

type termPair struct{ a, b term.Term }

func areConvertible(sess *session, a, b term.Term) (bool, error) {
	work := []termPair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if term.Eq(p.a, p.b) {
			continue
		}
		wa, err := whnfTerm(sess, p.a)
		if err != nil {
			return false, err
		}
		wb, err := whnfTerm(sess, p.b)
		if err != nil {
			return false, err
		}
		if term.Eq(wa, wb) {
			continue
		}
		switch va := wa.(type) {
		case *term.TypeSort:
			if _, ok := wb.(*term.TypeSort); !ok {
				return false, nil
			}
		case *term.KindSort:
			if _, ok := wb.(*term.KindSort); !ok {
				return false, nil
			}
		case *term.Const:
			vb, ok := wb.(*term.Const)
			if !ok || !va.Name.Equal(vb.Name) {
				return false, nil
			}
		case *term.DB:
			vb, ok := wb.(*term.DB)
			if !ok || va.Index != vb.Index {
				return false, nil
			}
		case *term.App:
			vb, ok := wb.(*term.App)
			if !ok || len(va.Args) != len(vb.Args) {
				return false, nil
			}
			work = append(work, termPair{va.Head, vb.Head})
			for i := range va.Args {
				work = append(work, termPair{va.Args[i], vb.Args[i]})
			}
		case *term.Lam:
			// No eta: a Lam is only ever convertible with another Lam.
			vb, ok := wb.(*term.Lam)
			if !ok {
				return false, nil
			}
			work = append(work, termPair{va.Body, vb.Body})
		case *term.Pi:
			vb, ok := wb.(*term.Pi)
			if !ok {
				return false, nil
			}
			work = append(work, termPair{va.Domain, vb.Domain})
			work = append(work, termPair{va.Codomain, vb.Codomain})
		default:
			return false, nil
		}
	}
	return true, nil
}
