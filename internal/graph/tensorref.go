package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// TensorRef names a single output of a node: the pair (node name,
// output index).
type TensorRef struct {
	Node  string
	Index int
}

// String returns the canonical "name:index" form used as a map key by
// feed deduplication and remapping.
func (r TensorRef) String() string {
	return r.Node + ":" + strconv.Itoa(r.Index)
}

// ParseTensorRef parses a tensor reference string. Accepted forms:
//
//	"name"       output 0 of node "name"
//	"name:3"     output 3 of node "name"
//	"^name"      a control dependency on node "name" (Index == ControlSlot)
//
// Everything after the last colon must be decimal digits; a node name
// containing colons is written with an explicit index ("x:y:0"). An
// empty string parses to an empty ref so that content checks stay with
// config validation.
func ParseTensorRef(s string) (TensorRef, error) {
	if strings.HasPrefix(s, "^") {
		name := s[1:]
		if strings.Contains(name, ":") {
			return TensorRef{}, fmt.Errorf("%w: control ref %q must not carry an output index", ErrInvalidArgument, s)
		}
		return TensorRef{Node: name, Index: ControlSlot}, nil
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return TensorRef{Node: s}, nil
	}
	suffix := s[i+1:]
	if !allDigits(suffix) {
		return TensorRef{}, fmt.Errorf("%w: malformed output index in ref %q", ErrInvalidArgument, s)
	}
	idx, err := strconv.Atoi(suffix)
	if err != nil {
		return TensorRef{}, fmt.Errorf("%w: malformed output index in ref %q", ErrInvalidArgument, s)
	}
	return TensorRef{Node: s[:i], Index: idx}, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
