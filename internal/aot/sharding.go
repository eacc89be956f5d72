package aot

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/sharding"
)

// EdgeDirection selects which side of a node's edges to inspect when
// propagating sharding.
type EdgeDirection int

const (
	// Inbound inspects the producers feeding the node.
	Inbound EdgeDirection = iota
	// Outbound inspects the consumers reading the node.
	Outbound
)

// SetShardingFromNeighbors assigns n the device of the neighbor with
// the smallest core id, judged over data edges in the given direction.
// Neighbors whose devices carry no core placement are ignored. A
// neighbor on a non-maximal sharding is an error. When no neighbor
// carries a placement, n is left untouched.
func SetShardingFromNeighbors(g *graph.Graph, n *graph.Node, dir EdgeDirection) error {
	var edges []graph.Edge
	if dir == Inbound {
		edges = g.InEdges(n)
	} else {
		edges = g.OutEdges(n)
	}

	core := -1
	var match *graph.Node
	for _, e := range edges {
		if e.IsControl() {
			continue
		}
		var neighbor *graph.Node
		if dir == Inbound {
			neighbor = g.Node(e.Src)
		} else {
			neighbor = g.Node(e.Dst)
		}
		device := neighbor.AssignedDevice()
		if device == "" {
			device = neighbor.Device()
		}
		sh, err := sharding.FromDevice(device)
		if err != nil {
			return err
		}
		if sh == nil {
			continue
		}
		if sh.Kind != sharding.Maximal {
			return fmt.Errorf("%w: neighbor %s of node %s carries %s sharding, only maximal is supported",
				graph.ErrInvariant, neighbor.Name(), n.Name(), sh.Kind)
		}
		if core == -1 || sh.Core < core {
			core = sh.Core
			match = neighbor
		}
	}
	if match != nil {
		n.SetAssignedDevice(match.AssignedDevice())
		n.SetDevice(match.Device())
	}
	return nil
}
