package aot

import (
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

// BuildIdentityNode adds an identity node named name to g, forwarding
// dtype values. When input is non-nil its first output is wired to the
// identity's input; otherwise the node is left unwired for the caller
// to connect.
func BuildIdentityNode(g *graph.Graph, name string, dtype graph.DataType, input *graph.Node, device string) (*graph.Node, error) {
	n, err := g.AddNode(graph.NodeDef{
		Name:   name,
		Op:     op.Identity,
		Device: device,
		Attrs: graph.AttrMap{
			"T": graph.TypeAttr(dtype),
		},
	})
	if err != nil {
		return nil, err
	}
	if input != nil {
		if _, err := g.AddEdge(input, 0, n, 0); err != nil {
			return nil, err
		}
	}
	return n, nil
}
