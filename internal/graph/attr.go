package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AttrValue is a node attribute value. Exactly one concrete variant
// backs each value: string, int, float, bool, data type, shape, or
// function reference.
type AttrValue interface {
	isAttrValue()
	// String returns a canonical rendering, used for deterministic
	// attribute summaries and instantiation cache keys.
	String() string
}

// StringAttr holds a string attribute.
type StringAttr string

// IntAttr holds an integer attribute.
type IntAttr int64

// FloatAttr holds a floating-point attribute.
type FloatAttr float64

// BoolAttr holds a boolean attribute.
type BoolAttr bool

// TypeAttr holds a data type attribute.
type TypeAttr DataType

// ShapeAttr holds a shape attribute.
type ShapeAttr Shape

// FuncAttr names a function together with instantiation attributes.
type FuncAttr struct {
	Name  string
	Attrs AttrMap
}

func (StringAttr) isAttrValue() {}
func (IntAttr) isAttrValue()    {}
func (FloatAttr) isAttrValue()  {}
func (BoolAttr) isAttrValue()   {}
func (TypeAttr) isAttrValue()   {}
func (ShapeAttr) isAttrValue()  {}
func (FuncAttr) isAttrValue()   {}

func (a StringAttr) String() string { return strconv.Quote(string(a)) }
func (a IntAttr) String() string    { return strconv.FormatInt(int64(a), 10) }
func (a FloatAttr) String() string  { return strconv.FormatFloat(float64(a), 'g', -1, 64) }
func (a BoolAttr) String() string   { return strconv.FormatBool(bool(a)) }
func (a TypeAttr) String() string   { return DataType(a).String() }
func (a ShapeAttr) String() string  { return Shape(a).String() }
func (a FuncAttr) String() string   { return a.Name + a.Attrs.String() }

// AttrMap maps attribute names to values.
type AttrMap map[string]AttrValue

// Clone returns a deep copy of the map.
func (m AttrMap) Clone() AttrMap {
	if m == nil {
		return nil
	}
	clone := make(AttrMap, len(m))
	for k, v := range m {
		clone[k] = CloneAttr(v)
	}
	return clone
}

// CloneAttr returns a deep copy of a single attribute value.
func CloneAttr(v AttrValue) AttrValue {
	switch a := v.(type) {
	case ShapeAttr:
		return ShapeAttr(Shape(a).Clone())
	case FuncAttr:
		return FuncAttr{Name: a.Name, Attrs: a.Attrs.Clone()}
	default:
		return v
	}
}

// String renders the map as "[k=v,...]" with keys sorted.
func (m AttrMap) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k].String())
	}
	b.WriteByte(']')
	return b.String()
}

// attrSpec is the JSON wire form of an AttrValue: an object with
// exactly one of its fields set.
type attrSpec struct {
	S     *string   `json:"s,omitempty"`
	I     *int64    `json:"i,omitempty"`
	F     *float64  `json:"f,omitempty"`
	B     *bool     `json:"b,omitempty"`
	Type  *string   `json:"type,omitempty"`
	Shape *[]int64  `json:"shape,omitempty"`
	Func  *funcSpec `json:"func,omitempty"`
}

type funcSpec struct {
	Name  string  `json:"name"`
	Attrs AttrMap `json:"attrs,omitempty"`
}

// MarshalJSON encodes the map with each value as a one-field object,
// for example {"dtype":{"type":"float32"},"shape":{"shape":[2,3]}}.
func (m AttrMap) MarshalJSON() ([]byte, error) {
	wire := make(map[string]attrSpec, len(m))
	for k, v := range m {
		wire[k] = encodeAttr(v)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (m *AttrMap) UnmarshalJSON(data []byte) error {
	var wire map[string]attrSpec
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(AttrMap, len(wire))
	for k, spec := range wire {
		v, err := decodeAttr(spec)
		if err != nil {
			return fmt.Errorf("attr %q: %w", k, err)
		}
		out[k] = v
	}
	*m = out
	return nil
}

func encodeAttr(v AttrValue) attrSpec {
	switch a := v.(type) {
	case StringAttr:
		s := string(a)
		return attrSpec{S: &s}
	case IntAttr:
		i := int64(a)
		return attrSpec{I: &i}
	case FloatAttr:
		f := float64(a)
		return attrSpec{F: &f}
	case BoolAttr:
		b := bool(a)
		return attrSpec{B: &b}
	case TypeAttr:
		t := DataType(a).String()
		return attrSpec{Type: &t}
	case ShapeAttr:
		dims := []int64(a)
		if dims == nil {
			dims = []int64{}
		}
		return attrSpec{Shape: &dims}
	case FuncAttr:
		return attrSpec{Func: &funcSpec{Name: a.Name, Attrs: a.Attrs}}
	default:
		panic(fmt.Sprintf("unknown attr value type %T", v))
	}
}

func decodeAttr(spec attrSpec) (AttrValue, error) {
	var vals []AttrValue
	if spec.S != nil {
		vals = append(vals, StringAttr(*spec.S))
	}
	if spec.I != nil {
		vals = append(vals, IntAttr(*spec.I))
	}
	if spec.F != nil {
		vals = append(vals, FloatAttr(*spec.F))
	}
	if spec.B != nil {
		vals = append(vals, BoolAttr(*spec.B))
	}
	if spec.Type != nil {
		dt, err := ParseDataType(*spec.Type)
		if err != nil {
			return nil, err
		}
		vals = append(vals, TypeAttr(dt))
	}
	if spec.Shape != nil {
		vals = append(vals, ShapeAttr(Shape(*spec.Shape).Clone()))
	}
	if spec.Func != nil {
		vals = append(vals, FuncAttr{Name: spec.Func.Name, Attrs: spec.Func.Attrs})
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("%w: attr must set exactly one of s, i, f, b, type, shape, func", ErrInvalidArgument)
	}
	return vals[0], nil
}
