package op

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
)

// ArgDef describes one input or output argument of an operation. The
// argument's data type is either fixed (Type) or read from a type
// attribute of the node (TypeAttr).
type ArgDef struct {
	Name     string
	Type     graph.DataType
	TypeAttr string
}

// AttrDef describes an attribute an operation accepts. A nil Default
// marks the attribute as required.
type AttrDef struct {
	Name    string
	Kind    string
	Default graph.AttrValue
}

// Attribute kinds.
const (
	KindString = "string"
	KindInt    = "int"
	KindFloat  = "float"
	KindBool   = "bool"
	KindType   = "type"
	KindShape  = "shape"
	KindFunc   = "func"
)

// Def declares an operation: its arguments and attributes.
type Def struct {
	Name    string
	Inputs  []ArgDef
	Outputs []ArgDef
	Attrs   []AttrDef
}

// AddDefaultAttrs fills declared defaults into nd and verifies that
// required attributes are present and that present attributes have the
// declared kind. Attributes not declared by the operation are left
// alone.
func (d *Def) AddDefaultAttrs(nd *graph.NodeDef) error {
	for _, ad := range d.Attrs {
		v, ok := nd.Attrs[ad.Name]
		if !ok {
			if ad.Default == nil {
				return fmt.Errorf("%w: operation %s requires attr %q", graph.ErrInvalidArgument, d.Name, ad.Name)
			}
			if nd.Attrs == nil {
				nd.Attrs = make(graph.AttrMap)
			}
			nd.Attrs[ad.Name] = graph.CloneAttr(ad.Default)
			continue
		}
		if kind := kindOf(v); kind != ad.Kind {
			return fmt.Errorf("%w: operation %s attr %q must be %s, got %s",
				graph.ErrInvalidArgument, d.Name, ad.Name, ad.Kind, kind)
		}
	}
	return nil
}

// OutputTypes resolves the declared output types of nd.
func (d *Def) OutputTypes(nd *graph.NodeDef) ([]graph.DataType, error) {
	types := make([]graph.DataType, len(d.Outputs))
	for i, out := range d.Outputs {
		switch {
		case out.Type != graph.Invalid:
			types[i] = out.Type
		case out.TypeAttr != "":
			v, ok := nd.Attrs[out.TypeAttr]
			if !ok {
				return nil, fmt.Errorf("%w: operation %s output %q needs type attr %q",
					graph.ErrInvalidArgument, d.Name, out.Name, out.TypeAttr)
			}
			ta, ok := v.(graph.TypeAttr)
			if !ok {
				return nil, fmt.Errorf("%w: operation %s attr %q is not a type",
					graph.ErrInvalidArgument, d.Name, out.TypeAttr)
			}
			types[i] = graph.DataType(ta)
		default:
			return nil, fmt.Errorf("%w: operation %s output %q declares no type source",
				graph.ErrInvariant, d.Name, out.Name)
		}
	}
	return types, nil
}

func kindOf(v graph.AttrValue) string {
	switch v.(type) {
	case graph.StringAttr:
		return KindString
	case graph.IntAttr:
		return KindInt
	case graph.FloatAttr:
		return KindFloat
	case graph.BoolAttr:
		return KindBool
	case graph.TypeAttr:
		return KindType
	case graph.ShapeAttr:
		return KindShape
	case graph.FuncAttr:
		return KindFunc
	default:
		return "unknown"
	}
}
