package graph

import (
	"fmt"
	"sort"
)

// NodeSpec is the serialized form of a node: definition plus input
// references. Data inputs ("name" or "name:2") must precede control
// inputs ("^name").
type NodeSpec struct {
	Name   string   `json:"name"`
	Op     string   `json:"op"`
	Inputs []string `json:"inputs,omitempty"`
	Device string   `json:"device,omitempty"`
	Attrs  AttrMap  `json:"attrs,omitempty"`
}

// GraphDef is the serialized form of a graph.
type GraphDef struct {
	Nodes []NodeSpec `json:"nodes"`
}

// FromDef builds a graph from def, resolving operations through r.
// Declared default attributes are applied to every node before it is
// added. Input references are wired after all nodes exist, so forward
// references are fine.
func FromDef(def *GraphDef, r OpResolver) (*Graph, error) {
	g := New(r)
	for _, spec := range def.Nodes {
		nd := NodeDef{
			Name:   spec.Name,
			Op:     spec.Op,
			Device: spec.Device,
			Attrs:  spec.Attrs.Clone(),
		}
		if err := r.AddDefaultAttrs(&nd); err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}
		if _, err := g.AddNode(nd); err != nil {
			return nil, err
		}
	}
	for _, spec := range def.Nodes {
		if err := wireInputs(g, spec); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func wireInputs(g *Graph, spec NodeSpec) error {
	dst, _ := g.NodeByName(spec.Name)
	slot := 0
	seenControl := false
	for _, input := range spec.Inputs {
		ref, err := ParseTensorRef(input)
		if err != nil {
			return fmt.Errorf("node %q: %w", spec.Name, err)
		}
		src, ok := g.NodeByName(ref.Node)
		if !ok {
			return fmt.Errorf("%w: node %q: input node %q", ErrNotFound, spec.Name, ref.Node)
		}
		if ref.Index == ControlSlot {
			seenControl = true
			if _, err := g.AddControlEdge(src, dst); err != nil {
				return fmt.Errorf("node %q: %w", spec.Name, err)
			}
			continue
		}
		if seenControl {
			return fmt.Errorf("%w: node %q: data input %q after control inputs", ErrInvalidArgument, spec.Name, input)
		}
		if _, err := g.AddEdge(src, ref.Index, dst, slot); err != nil {
			return fmt.Errorf("node %q: %w", spec.Name, err)
		}
		slot++
	}
	return nil
}

// ToDef serializes the graph. Nodes appear in graph order; each node's
// data inputs are ordered by input slot and followed by its control
// inputs ordered by source name. A node whose data input slots have a
// gap is not serializable and yields an error.
func (g *Graph) ToDef() (*GraphDef, error) {
	def := &GraphDef{Nodes: make([]NodeSpec, 0, g.NumNodes())}
	for _, n := range g.Nodes() {
		inputs, err := g.inputStrings(n)
		if err != nil {
			return nil, err
		}
		def.Nodes = append(def.Nodes, NodeSpec{
			Name:   n.Name(),
			Op:     n.Op(),
			Inputs: inputs,
			Device: n.Device(),
			Attrs:  n.Attrs().Clone(),
		})
	}
	return def, nil
}

func (g *Graph) inputStrings(n *Node) ([]string, error) {
	var data []Edge
	var control []Edge
	for _, e := range n.in {
		if e.IsControl() {
			control = append(control, e)
		} else {
			data = append(data, e)
		}
	}
	sort.Slice(data, func(i, j int) bool { return data[i].DstInput < data[j].DstInput })
	sort.Slice(control, func(i, j int) bool {
		return g.Node(control[i].Src).Name() < g.Node(control[j].Src).Name()
	})

	inputs := make([]string, 0, len(data)+len(control))
	for i, e := range data {
		switch {
		case e.DstInput < i:
			return nil, fmt.Errorf("%w: node %q input slot %d has multiple producers", ErrInvariant, n.Name(), e.DstInput)
		case e.DstInput > i:
			return nil, fmt.Errorf("%w: node %q input slot %d has no producer", ErrInvariant, n.Name(), i)
		}
		src := g.Node(e.Src)
		if e.SrcOutput == 0 {
			inputs = append(inputs, src.Name())
		} else {
			inputs = append(inputs, TensorRef{Node: src.Name(), Index: e.SrcOutput}.String())
		}
	}
	for _, e := range control {
		inputs = append(inputs, "^"+g.Node(e.Src).Name())
	}
	return inputs, nil
}
