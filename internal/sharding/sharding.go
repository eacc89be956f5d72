// Package sharding parses device placement strings into core sharding
// annotations for ahead-of-time compilation.
package sharding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loom-ml/loom/internal/graph"
)

// Kind is the sharding form of a placement.
type Kind int

const (
	// Maximal pins the computation to a single core.
	Maximal Kind = iota
	// Replicated runs the computation on every core.
	Replicated
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Maximal:
		return "maximal"
	case Replicated:
		return "replicated"
	default:
		return "unknown"
	}
}

// Sharding is a placement annotation parsed from a device string.
type Sharding struct {
	Kind Kind
	Core int
}

// FromDevice projects a device placement string to an optional
// sharding. Device strings take the form
//
//	/job:<job>/replica:<r>/task:<t>/device:<TYPE>:<id>
//
// with any prefix fields optional. A "device:CORE:<n>" component maps
// to a maximal sharding pinned to core n, "device:CORE:all" to a
// replicated sharding, and any other device type to no sharding (nil).
// An empty string also carries no sharding. A CORE component with a
// malformed id is an error.
func FromDevice(device string) (*Sharding, error) {
	if device == "" {
		return nil, nil
	}
	for _, part := range strings.Split(device, "/") {
		rest, ok := strings.CutPrefix(part, "device:")
		if !ok {
			continue
		}
		devType, id, ok := strings.Cut(rest, ":")
		if devType != "CORE" {
			return nil, nil
		}
		if !ok {
			return nil, fmt.Errorf("%w: device %q is missing a core id", graph.ErrInvalidArgument, device)
		}
		if id == "all" {
			return &Sharding{Kind: Replicated}, nil
		}
		core, err := strconv.Atoi(id)
		if err != nil || core < 0 {
			return nil, fmt.Errorf("%w: malformed core %q in device %q", graph.ErrInvalidArgument, id, device)
		}
		return &Sharding{Kind: Maximal, Core: core}, nil
	}
	return nil, nil
}
