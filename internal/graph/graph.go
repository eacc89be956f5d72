// Package graph implements the dataflow graph model used for
// ahead-of-time compilation preparation: nodes with typed outputs,
// data and control edges, and a JSON-serializable graph definition.
package graph

import "fmt"

// NodeID identifies a node within its Graph. IDs are stable for the
// lifetime of the graph: removing a node never renumbers the others.
type NodeID int

// ControlSlot is the slot number marking control edge endpoints. A
// control edge orders execution without transferring a value.
const ControlSlot = -1

// Edge connects output SrcOutput of node Src to input slot DstInput of
// node Dst. Control edges use ControlSlot on both endpoints.
type Edge struct {
	Src       NodeID
	SrcOutput int
	Dst       NodeID
	DstInput  int
}

// IsControl reports whether the edge is a control edge.
func (e Edge) IsControl() bool { return e.SrcOutput == ControlSlot }

// OpResolver supplies the operation metadata a graph needs when nodes
// are added: declared default attributes and declared output types.
type OpResolver interface {
	// AddDefaultAttrs fills attributes that have declared defaults and
	// fails if a required attribute is missing.
	AddDefaultAttrs(def *NodeDef) error
	// OutputTypes resolves the declared output types of the node.
	OutputTypes(def *NodeDef) ([]DataType, error)
}

// Graph is a mutable dataflow graph. It is not safe for concurrent
// mutation; callers serialize access.
type Graph struct {
	resolver OpResolver
	nodes    []*Node
	byName   map[string]*Node
}

// New returns an empty graph resolving operations through r.
func New(r OpResolver) *Graph {
	return &Graph{
		resolver: r,
		byName:   make(map[string]*Node),
	}
}

// Resolver returns the graph's operation resolver.
func (g *Graph) Resolver() OpResolver { return g.resolver }

// AddNode adds a node for def. The name must be non-empty and unique
// within the graph. Output types are resolved immediately through the
// graph's resolver.
func (g *Graph) AddNode(def NodeDef) (*Node, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: node name must be non-empty", ErrInvalidArgument)
	}
	if _, ok := g.byName[def.Name]; ok {
		return nil, fmt.Errorf("%w: duplicate node name %q", ErrInvalidArgument, def.Name)
	}
	outTypes, err := g.resolver.OutputTypes(&def)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", def.Name, err)
	}
	n := &Node{
		id:       NodeID(len(g.nodes)),
		def:      def.Clone(),
		outTypes: outTypes,
	}
	g.nodes = append(g.nodes, n)
	g.byName[def.Name] = n
	return n, nil
}

// RemoveNode removes n and all its incident edges. Removing a node
// that is no longer in the graph is a no-op.
func (g *Graph) RemoveNode(n *Node) {
	if !g.owns(n) {
		return
	}
	for _, e := range n.out {
		dst := g.nodes[e.Dst]
		dst.in = dropEdge(dst.in, e)
	}
	for _, e := range n.in {
		src := g.nodes[e.Src]
		src.out = dropEdge(src.out, e)
	}
	n.in, n.out = nil, nil
	g.nodes[n.id] = nil
	if g.byName[n.def.Name] == n {
		delete(g.byName, n.def.Name)
	}
}

// AddEdge connects output srcOutput of src to input slot dstInput of
// dst. The source output must be within the node's declared outputs.
// A second producer for an occupied input slot is permitted here and
// reported by Validate, so that rewrites can pass through transient
// states.
func (g *Graph) AddEdge(src *Node, srcOutput int, dst *Node, dstInput int) (Edge, error) {
	if !g.owns(src) || !g.owns(dst) {
		return Edge{}, fmt.Errorf("%w: edge endpoints must be nodes of this graph", ErrInvalidArgument)
	}
	if srcOutput < 0 || srcOutput >= src.NumOutputs() {
		return Edge{}, fmt.Errorf("%w: output index %d out of range for node %q", ErrInvalidArgument, srcOutput, src.Name())
	}
	if dstInput < 0 {
		return Edge{}, fmt.Errorf("%w: input slot %d out of range for node %q", ErrInvalidArgument, dstInput, dst.Name())
	}
	e := Edge{Src: src.id, SrcOutput: srcOutput, Dst: dst.id, DstInput: dstInput}
	src.out = append(src.out, e)
	dst.in = append(dst.in, e)
	return e, nil
}

// AddControlEdge adds a control edge from src to dst. Duplicate
// control edges collapse to the existing edge.
func (g *Graph) AddControlEdge(src, dst *Node) (Edge, error) {
	if !g.owns(src) || !g.owns(dst) {
		return Edge{}, fmt.Errorf("%w: edge endpoints must be nodes of this graph", ErrInvalidArgument)
	}
	e := Edge{Src: src.id, SrcOutput: ControlSlot, Dst: dst.id, DstInput: ControlSlot}
	for _, have := range src.out {
		if have == e {
			return have, nil
		}
	}
	src.out = append(src.out, e)
	dst.in = append(dst.in, e)
	return e, nil
}

// RemoveEdge removes e from the graph.
func (g *Graph) RemoveEdge(e Edge) error {
	src := g.Node(e.Src)
	dst := g.Node(e.Dst)
	if src == nil || dst == nil {
		return fmt.Errorf("%w: edge references a removed node", ErrNotFound)
	}
	out := dropEdge(src.out, e)
	in := dropEdge(dst.in, e)
	if len(out) == len(src.out) || len(in) == len(dst.in) {
		return fmt.Errorf("%w: edge %v not in graph", ErrNotFound, e)
	}
	src.out = out
	dst.in = in
	return nil
}

// Node returns the node with the given ID, or nil if it was removed or
// never existed.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// NodeByName returns the node with the given name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int { return len(g.byName) }

// Nodes returns the live nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.byName))
	for _, n := range g.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// InEdges returns a copy of n's inbound edges.
func (g *Graph) InEdges(n *Node) []Edge {
	return append([]Edge(nil), n.in...)
}

// OutEdges returns a copy of n's outbound edges.
func (g *Graph) OutEdges(n *Node) []Edge {
	return append([]Edge(nil), n.out...)
}

// Validate checks structural invariants: every input slot has at most
// one producer and no edge references a removed node.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		seen := make(map[int]bool)
		for _, e := range n.in {
			if g.Node(e.Src) == nil {
				return fmt.Errorf("%w: node %q has an input edge from a removed node", ErrInvariant, n.Name())
			}
			if e.IsControl() {
				continue
			}
			if seen[e.DstInput] {
				return fmt.Errorf("%w: node %q input slot %d has multiple producers", ErrInvariant, n.Name(), e.DstInput)
			}
			seen[e.DstInput] = true
		}
	}
	return nil
}

// ReplaceNode replaces n with a new node built from def, splicing all
// edges across. The original node's outbound edges are recorded and
// removed before the replacement's are added, so no input slot ever
// sees two producers at once. The replacement may reuse the original's
// name.
func (g *Graph) ReplaceNode(n *Node, def NodeDef) (*Node, error) {
	if !g.owns(n) {
		return nil, fmt.Errorf("%w: node is not in this graph", ErrInvalidArgument)
	}
	sameName := def.Name == n.def.Name
	if sameName {
		delete(g.byName, n.def.Name)
	}
	repl, err := g.AddNode(def)
	if err != nil {
		if sameName {
			g.byName[n.def.Name] = n
		}
		return nil, err
	}

	outs := g.OutEdges(n)
	for _, e := range outs {
		if err := g.RemoveEdge(e); err != nil {
			return nil, err
		}
	}
	for _, e := range g.InEdges(n) {
		if err := g.copyEdge(g.Node(e.Src), e.SrcOutput, repl, e.DstInput); err != nil {
			return nil, err
		}
	}
	for _, e := range outs {
		if err := g.copyEdge(repl, e.SrcOutput, g.Node(e.Dst), e.DstInput); err != nil {
			return nil, err
		}
	}
	g.RemoveNode(n)
	return repl, nil
}

func (g *Graph) copyEdge(src *Node, srcOutput int, dst *Node, dstInput int) error {
	var err error
	if srcOutput == ControlSlot {
		_, err = g.AddControlEdge(src, dst)
	} else {
		_, err = g.AddEdge(src, srcOutput, dst, dstInput)
	}
	return err
}

func (g *Graph) owns(n *Node) bool {
	return n != nil && int(n.id) < len(g.nodes) && g.nodes[n.id] == n
}

func dropEdge(edges []Edge, e Edge) []Edge {
	for i, have := range edges {
		if have == e {
			return append(edges[:i:i], edges[i+1:]...)
		}
	}
	return edges
}
