package sigfile

import (
	"fmt"

	"lambdapi/pkg/sig"
	"lambdapi/pkg/term"
)

// EncodeSignature builds an Image from every entry currently exported
// by s, ready to be written with Save.
func EncodeSignature(s *sig.Signature) (Image, error) {
	entries := s.Export()
	records := make([]Record, len(entries))
	for i, e := range entries {
		wt, err := encodeTerm(e.Type)
		if err != nil {
			return Image{}, fmt.Errorf("sigfile: encode %s's type: %w", e.Name, err)
		}
		rules := make([]wireRule, len(e.Rules))
		for j, r := range e.Rules {
			wr, err := encodeRule(r)
			if err != nil {
				return Image{}, fmt.Errorf("sigfile: encode rule %q: %w", r.Name, err)
			}
			rules[j] = wr
		}
		records[i] = Record{
			Module: e.Name.Module,
			Name:   e.Name.Name,
			Static: e.Staticity == sig.Static,
			Type:   wt,
			Rules:  rules,
		}
	}
	return Image{Magic: magic, Version: version, Records: records}, nil
}

func encodeRule(r *term.TypedRule) (wireRule, error) {
	ctx := make([]wireCtxEntry, len(r.Context))
	for i, c := range r.Context {
		wt, err := encodeTerm(c.Type)
		if err != nil {
			return wireRule{}, err
		}
		ctx[i] = wireCtxEntry{Hint: c.Hint, Type: wt}
	}
	args := make([]wirePattern, len(r.LHSArgs))
	for i, p := range r.LHSArgs {
		wp, err := encodePattern(p)
		if err != nil {
			return wireRule{}, err
		}
		args[i] = wp
	}
	rhs, err := encodeTerm(r.RHS)
	if err != nil {
		return wireRule{}, err
	}
	return wireRule{
		Name:          r.Name,
		Context:       ctx,
		LHSHeadModule: r.LHSHead.Module,
		LHSHeadName:   r.LHSHead.Name,
		LHSArgs:       args,
		RHS:           rhs,
		ArityPerVar:   r.ArityPerVar,
	}, nil
}

func encodeTerm(t term.Term) (wireTerm, error) {
	switch v := t.(type) {
	case *term.KindSort:
		return wireTerm{Kind: kindKind}, nil
	case *term.TypeSort:
		return wireTerm{Kind: kindType}, nil
	case *term.DB:
		return wireTerm{Kind: kindDB, Hint: v.Hint, Index: v.Index}, nil
	case *term.Const:
		return wireTerm{Kind: kindConst, Module: v.Name.Module, Name: v.Name.Name}, nil
	case *term.App:
		head, err := encodeTerm(v.Head)
		if err != nil {
			return wireTerm{}, err
		}
		args := make([]wireTerm, len(v.Args))
		for i, a := range v.Args {
			wa, err := encodeTerm(a)
			if err != nil {
				return wireTerm{}, err
			}
			args[i] = wa
		}
		return wireTerm{Kind: kindApp, Head: &head, Args: args}, nil
	case *term.Lam:
		var dom *wireTerm
		if v.Domain != nil {
			wd, err := encodeTerm(v.Domain)
			if err != nil {
				return wireTerm{}, err
			}
			dom = &wd
		}
		body, err := encodeTerm(v.Body)
		if err != nil {
			return wireTerm{}, err
		}
		return wireTerm{Kind: kindLam, Hint: v.Hint, Domain: dom, Body: &body}, nil
	case *term.Pi:
		dom, err := encodeTerm(v.Domain)
		if err != nil {
			return wireTerm{}, err
		}
		cod, err := encodeTerm(v.Codomain)
		if err != nil {
			return wireTerm{}, err
		}
		return wireTerm{Kind: kindPi, Hint: v.Hint, Domain: &dom, Codomain: &cod}, nil
	case *term.Meta:
		return wireTerm{Kind: kindMeta, Index: v.Index}, nil
	default:
		return wireTerm{}, fmt.Errorf("sigfile: unknown term kind %T", t)
	}
}

func encodePattern(p term.Pattern) (wirePattern, error) {
	switch v := p.(type) {
	case *term.PatVar:
		args := make([]wirePattern, len(v.Args))
		for i, a := range v.Args {
			wa, err := encodePattern(a)
			if err != nil {
				return wirePattern{}, err
			}
			args[i] = wa
		}
		return wirePattern{Kind: patKindVar, Hint: v.Hint, Index: v.Index, Args: args}, nil
	case *term.PatBound:
		return wirePattern{Kind: patKindBound, Depth: v.Depth}, nil
	case *term.PatCons:
		args := make([]wirePattern, len(v.Args))
		for i, a := range v.Args {
			wa, err := encodePattern(a)
			if err != nil {
				return wirePattern{}, err
			}
			args[i] = wa
		}
		return wirePattern{Kind: patKindCons, Module: v.Name.Module, Name: v.Name.Name, Args: args}, nil
	case *term.PatLambda:
		body, err := encodePattern(v.Body)
		if err != nil {
			return wirePattern{}, err
		}
		return wirePattern{Kind: patKindLambda, Hint: v.Hint, Body: &body}, nil
	case *term.PatBrackets:
		wt, err := encodeTerm(v.Term)
		if err != nil {
			return wirePattern{}, err
		}
		return wirePattern{Kind: patKindBrackets, Term: &wt}, nil
	case *term.PatJoker:
		return wirePattern{Kind: patKindJoker, Index: v.Index}, nil
	default:
		return wirePattern{}, fmt.Errorf("sigfile: unknown pattern kind %T", p)
	}
}
