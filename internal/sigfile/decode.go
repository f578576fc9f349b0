package sigfile

import (
	"fmt"

	"lambdapi/pkg/sig"
	"lambdapi/pkg/term"
)

// DecodeSignature converts an Image's records into pkg/env.SignatureRecord
// values, ready for Env.Require — returned as a plain slice rather than
// importing pkg/env directly, since pkg/env already depends on neither
// msgpack nor this package (cmd/lambdapi is the only caller that needs
// both).
type DecodedRecord struct {
	Name   term.QName
	Static bool
	Type   term.Term
	Rules  []*term.TypedRule
}

// Decode rebuilds every record in img into its live term representation.
func Decode(img Image) ([]DecodedRecord, error) {
	if img.Magic != magic {
		return nil, fmt.Errorf("sigfile: bad magic %q, want %q", img.Magic, magic)
	}
	if img.Version != version {
		return nil, fmt.Errorf("sigfile: version %d does not match reader version %d", img.Version, version)
	}
	out := make([]DecodedRecord, len(img.Records))
	for i, r := range img.Records {
		typ, err := decodeTerm(r.Type)
		if err != nil {
			return nil, fmt.Errorf("sigfile: decode %s's type: %w", r.Name, err)
		}
		rules := make([]*term.TypedRule, len(r.Rules))
		for j, wr := range r.Rules {
			rule, err := decodeRule(wr)
			if err != nil {
				return nil, fmt.Errorf("sigfile: decode rule %q: %w", wr.Name, err)
			}
			rules[j] = rule
		}
		out[i] = DecodedRecord{
			Name:   term.NewQName(r.Module, r.Name),
			Static: r.Static,
			Type:   typ,
			Rules:  rules,
		}
	}
	return out, nil
}

// Staticity converts a decoded record's Static flag into pkg/sig's
// Staticity enum, for callers rebuilding a live Signature.
func (r DecodedRecord) Staticity() sig.Staticity {
	if r.Static {
		return sig.Static
	}
	return sig.Definable
}

func decodeRule(wr wireRule) (*term.TypedRule, error) {
	ctx := make([]term.CtxEntry, len(wr.Context))
	for i, c := range wr.Context {
		typ, err := decodeTerm(c.Type)
		if err != nil {
			return nil, err
		}
		ctx[i] = term.CtxEntry{Hint: c.Hint, Type: typ}
	}
	args := make([]term.Pattern, len(wr.LHSArgs))
	for i, wp := range wr.LHSArgs {
		p, err := decodePattern(wp)
		if err != nil {
			return nil, err
		}
		args[i] = p
	}
	rhs, err := decodeTerm(wr.RHS)
	if err != nil {
		return nil, err
	}
	return &term.TypedRule{
		Name:        wr.Name,
		Context:     ctx,
		LHSHead:     term.NewQName(wr.LHSHeadModule, wr.LHSHeadName),
		LHSArgs:     args,
		RHS:         rhs,
		ArityPerVar: wr.ArityPerVar,
	}, nil
}

func decodeTerm(w wireTerm) (term.Term, error) {
	switch w.Kind {
	case kindKind:
		return term.Kind, nil
	case kindType:
		return term.Type, nil
	case kindDB:
		return term.NewDB(w.Hint, w.Index), nil
	case kindConst:
		return term.NewConst(term.NewQName(w.Module, w.Name)), nil
	case kindApp:
		if w.Head == nil {
			return nil, fmt.Errorf("sigfile: app with no head")
		}
		head, err := decodeTerm(*w.Head)
		if err != nil {
			return nil, err
		}
		args := make([]term.Term, len(w.Args))
		for i, a := range w.Args {
			da, err := decodeTerm(a)
			if err != nil {
				return nil, err
			}
			args[i] = da
		}
		return term.NewApp(head, args...), nil
	case kindLam:
		var dom term.Term
		if w.Domain != nil {
			d, err := decodeTerm(*w.Domain)
			if err != nil {
				return nil, err
			}
			dom = d
		}
		if w.Body == nil {
			return nil, fmt.Errorf("sigfile: lam with no body")
		}
		body, err := decodeTerm(*w.Body)
		if err != nil {
			return nil, err
		}
		return term.NewLam(w.Hint, dom, body), nil
	case kindPi:
		if w.Domain == nil || w.Codomain == nil {
			return nil, fmt.Errorf("sigfile: pi with missing domain/codomain")
		}
		dom, err := decodeTerm(*w.Domain)
		if err != nil {
			return nil, err
		}
		cod, err := decodeTerm(*w.Codomain)
		if err != nil {
			return nil, err
		}
		return term.NewPi(w.Hint, dom, cod), nil
	case kindMeta:
		return &term.Meta{Index: w.Index}, nil
	default:
		return nil, fmt.Errorf("sigfile: unknown wire term kind %q", w.Kind)
	}
}

func decodePattern(w wirePattern) (term.Pattern, error) {
	switch w.Kind {
	case patKindVar:
		args := make([]term.Pattern, len(w.Args))
		for i, a := range w.Args {
			pa, err := decodePattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = pa
		}
		return &term.PatVar{Hint: w.Hint, Index: w.Index, Args: args}, nil
	case patKindBound:
		return &term.PatBound{Depth: w.Depth}, nil
	case patKindCons:
		args := make([]term.Pattern, len(w.Args))
		for i, a := range w.Args {
			pa, err := decodePattern(a)
			if err != nil {
				return nil, err
			}
			args[i] = pa
		}
		return &term.PatCons{Name: term.NewQName(w.Module, w.Name), Args: args}, nil
	case patKindLambda:
		if w.Body == nil {
			return nil, fmt.Errorf("sigfile: patlambda with no body")
		}
		body, err := decodePattern(*w.Body)
		if err != nil {
			return nil, err
		}
		return &term.PatLambda{Hint: w.Hint, Body: body}, nil
	case patKindBrackets:
		if w.Term == nil {
			return nil, fmt.Errorf("sigfile: patbrackets with no term")
		}
		t, err := decodeTerm(*w.Term)
		if err != nil {
			return nil, err
		}
		return &term.PatBrackets{Term: t}, nil
	case patKindJoker:
		return &term.PatJoker{Index: w.Index}, nil
	default:
		return nil, fmt.Errorf("sigfile: unknown wire pattern kind %q", w.Kind)
	}
}
