package graph

import "fmt"

// DataType identifies the element type carried on a graph edge.
type DataType int

// Supported data types. Invalid is the zero value and marks an unset type.
const (
	Invalid DataType = iota
	Float32
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Invalid:
		return "invalid"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseDataType maps a type name to its DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "uint8":
		return Uint8, nil
	case "bool":
		return Bool, nil
	default:
		return Invalid, fmt.Errorf("%w: unknown data type %q", ErrInvalidArgument, s)
	}
}
