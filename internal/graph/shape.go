package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownDim marks a dimension whose size is not known.
const UnknownDim int64 = -1

// Shape represents the dimensions of a tensor. An empty shape is a scalar.
type Shape []int64

// Validate checks that every dimension is non-negative or UnknownDim
// and that the known element count fits in an int64.
func (s Shape) Validate() error {
	n := int64(1)
	for i, dim := range s {
		if dim < UnknownDim {
			return fmt.Errorf("%w: invalid dimension at index %d: %d", ErrInvalidArgument, i, dim)
		}
		if dim > 0 {
			if n > math.MaxInt64/dim {
				return fmt.Errorf("%w: shape %s has too many elements", ErrInvalidArgument, s)
			}
			n *= dim
		}
	}
	return nil
}

// NumElements returns the total number of elements, or -1 if any
// dimension is unknown.
func (s Shape) NumElements() int64 {
	n := int64(1)
	for _, dim := range s {
		if dim == UnknownDim {
			return -1
		}
		n *= dim
	}
	return n
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String renders the shape as "[2,?,3]", with "?" for unknown dimensions.
func (s Shape) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, dim := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		if dim == UnknownDim {
			b.WriteByte('?')
		} else {
			b.WriteString(strconv.FormatInt(dim, 10))
		}
	}
	b.WriteByte(']')
	return b.String()
}
