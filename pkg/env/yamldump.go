package env

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"lambdapi/pkg/dtree"
)

// treeDump is the YAML-serialisable shape of a dtree.Node, used only
// for the DTree entry's human-readable debug dump — never round-
// tripped back into a live dtree.Node.
type treeDump struct {
	Symbol  string     `yaml:"symbol"`
	Kind    string     `yaml:"kind"`
	Column  int        `yaml:"column,omitempty"`
	Cases   []caseDump `yaml:"cases,omitempty"`
	Default *treeDump  `yaml:"default,omitempty"`
	Rule    string     `yaml:"rule,omitempty"`
	RHS     string     `yaml:"rhs,omitempty"`
}

type caseDump struct {
	Shape string    `yaml:"shape"`
	Node  *treeDump `yaml:"node"`
}

// DumpTreeYAML renders node as a YAML document for symbol, following
// the same Switch/Test shape pkg/dtree compiles, for DTree entries and
// offline inspection (internal/sigfile's companion dumps use the same
// renderer).
func DumpTreeYAML(symbol string, node dtree.Node) ([]byte, error) {
	return yaml.Marshal(convertNode(symbol, node))
}

func convertNode(symbol string, node dtree.Node) *treeDump {
	switch n := node.(type) {
	case *dtree.Switch:
		d := &treeDump{Symbol: symbol, Kind: "switch", Column: n.Column}
		for shape, child := range n.Cases {
			d.Cases = append(d.Cases, caseDump{Shape: shapeString(shape), Node: convertNode(symbol, child)})
		}
		if n.Default != nil {
			d.Default = convertNode(symbol, n.Default)
		}
		return d
	case *dtree.Test:
		return &treeDump{
			Symbol: symbol,
			Kind:   "test",
			Rule:   n.RuleName,
			RHS:    n.RHS.String(),
		}
	default:
		return &treeDump{Symbol: symbol, Kind: "unknown"}
	}
}

func shapeString(s dtree.CaseShape) string {
	switch s.Kind {
	case dtree.CaseConst:
		return s.Name.String()
	case dtree.CaseDB:
		return "#" + strconv.Itoa(s.DBIndex)
	case dtree.CaseLambda:
		return "=>"
	default:
		return "?"
	}
}
