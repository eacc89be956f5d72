package aot

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
)

// Prune returns a copy of g containing only the nodes reachable from
// the fetches by walking data edges backwards. Fed tensors are
// boundaries: an input read from a fed (node, index) pair is assumed
// supplied at runtime, so the walk does not continue through it.
// Control edges are not followed, but control edges between two kept
// nodes are preserved in the copy.
//
// Node order in the copy follows the original graph, so pruning is
// stable across runs.
func Prune(g *graph.Graph, cfg *Config) (*graph.Graph, error) {
	fed := make(map[graph.TensorRef]bool, len(cfg.Feeds))
	for i := range cfg.Feeds {
		fed[cfg.Feeds[i].Ref] = true
	}

	keep := make(map[string]bool)
	queue := make([]string, 0, len(cfg.Fetches))
	for i := range cfg.Fetches {
		queue = append(queue, cfg.Fetches[i].Ref.Node)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if keep[name] {
			continue
		}
		n, ok := g.NodeByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: while pruning graph, node %s needed but not found in the graph",
				graph.ErrNotFound, name)
		}
		keep[name] = true
		for _, e := range g.InEdges(n) {
			if e.IsControl() {
				continue
			}
			src := g.Node(e.Src)
			if fed[graph.TensorRef{Node: src.Name(), Index: e.SrcOutput}] {
				// The fed tensor arrives from outside; its producer
				// does not need to be computable.
				continue
			}
			queue = append(queue, src.Name())
		}
	}

	out := graph.New(g.Resolver())
	copies := make(map[graph.NodeID]*graph.Node, len(keep))
	for _, n := range g.Nodes() {
		if !keep[n.Name()] {
			continue
		}
		kept, err := out.AddNode(n.Def())
		if err != nil {
			return nil, err
		}
		kept.SetAssignedDevice(n.AssignedDevice())
		copies[n.ID()] = kept
	}
	for _, n := range g.Nodes() {
		dst, ok := copies[n.ID()]
		if !ok {
			continue
		}
		for _, e := range g.InEdges(n) {
			src, ok := copies[e.Src]
			if !ok {
				continue
			}
			if e.IsControl() {
				if _, err := out.AddControlEdge(src, dst); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := out.AddEdge(src, e.SrcOutput, dst, e.DstInput); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
