package aot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

func newAotGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.New(op.NewRegistry())
}

func addFloatConst(t *testing.T, g *graph.Graph, name string) *graph.Node {
	t.Helper()
	n, err := g.AddNode(graph.NodeDef{
		Name:  name,
		Op:    op.Const,
		Attrs: graph.AttrMap{"dtype": graph.TypeAttr(graph.Float32)},
	})
	require.NoError(t, err)
	return n
}

func addIdentity(t *testing.T, g *graph.Graph, name string, input *graph.Node) *graph.Node {
	t.Helper()
	n, err := g.AddNode(graph.NodeDef{
		Name:  name,
		Op:    op.Identity,
		Attrs: graph.AttrMap{"T": graph.TypeAttr(graph.Float32)},
	})
	require.NoError(t, err)
	if input != nil {
		_, err = g.AddEdge(input, 0, n, 0)
		require.NoError(t, err)
	}
	return n
}

func TestAddPlaceholders(t *testing.T) {
	g := newAotGraph(t)
	x := addFloatConst(t, g, "x")
	y := addIdentity(t, g, "y", x)

	cfg := &Config{
		Feeds:   []Feed{{Ref: graph.TensorRef{Node: "x"}, Shape: graph.Shape{2, 3}}},
		Fetches: []Fetch{{Ref: graph.TensorRef{Node: "y"}}},
	}
	remap, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)
	assert.Equal(t, FeedRemap{"x:0": "aot_feed_0/x"}, remap)

	ph, ok := g.NodeByName("aot_feed_0/x")
	require.True(t, ok)
	assert.Equal(t, op.Placeholder, ph.Op())
	dtype, ok := ph.Attr("dtype")
	require.True(t, ok)
	assert.Equal(t, graph.TypeAttr(graph.Float32), dtype)
	shape, ok := ph.Attr("shape")
	require.True(t, ok)
	assert.Equal(t, graph.ShapeAttr(graph.Shape{2, 3}), shape)

	ins := g.InEdges(y)
	require.Len(t, ins, 1)
	assert.Equal(t, ph.ID(), ins[0].Src)
	assert.Empty(t, g.OutEdges(x))
}

// Two feeds naming the same tensor share one placeholder; the later
// feed supplies the declared type.
func TestAddPlaceholdersSharedRef(t *testing.T) {
	g := newAotGraph(t)
	addFloatConst(t, g, "x")

	cfg := &Config{
		Feeds: []Feed{
			{Ref: graph.TensorRef{Node: "x"}},
			{Ref: graph.TensorRef{Node: "x"}, Type: graph.Float64},
		},
	}
	remap, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)
	require.Len(t, remap, 1)

	ph, ok := g.NodeByName("aot_feed_0/x")
	require.True(t, ok)
	dtype, _ := ph.Attr("dtype")
	assert.Equal(t, graph.TypeAttr(graph.Float64), dtype)
}

// Placeholders are added in sorted ref order so graphs come out the
// same across runs.
func TestAddPlaceholdersDeterministicOrder(t *testing.T) {
	g := newAotGraph(t)
	addFloatConst(t, g, "b")
	addFloatConst(t, g, "a")

	cfg := &Config{
		Feeds: []Feed{
			{Ref: graph.TensorRef{Node: "b"}},
			{Ref: graph.TensorRef{Node: "a"}},
		},
	}
	_, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)

	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"b", "a", "aot_feed_0/a", "aot_feed_0/b"}, names)
}

func TestAddPlaceholdersInferredType(t *testing.T) {
	r := op.NewRegistry()
	require.NoError(t, r.Register(&op.Def{
		Name: "Pair",
		Outputs: []op.ArgDef{
			{Name: "first", Type: graph.Float32},
			{Name: "second", Type: graph.Int64},
		},
	}))
	g := graph.New(r)
	pair, err := g.AddNode(graph.NodeDef{Name: "pair", Op: "Pair"})
	require.NoError(t, err)
	first, err := g.AddNode(graph.NodeDef{
		Name:  "first",
		Op:    op.Identity,
		Attrs: graph.AttrMap{"T": graph.TypeAttr(graph.Float32)},
	})
	require.NoError(t, err)
	second, err := g.AddNode(graph.NodeDef{
		Name:  "second",
		Op:    op.Identity,
		Attrs: graph.AttrMap{"T": graph.TypeAttr(graph.Int64)},
	})
	require.NoError(t, err)
	_, err = g.AddEdge(pair, 0, first, 0)
	require.NoError(t, err)
	_, err = g.AddEdge(pair, 1, second, 0)
	require.NoError(t, err)

	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "pair", Index: 1}}}}
	remap, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)
	assert.Equal(t, FeedRemap{"pair:1": "aot_feed_1/pair"}, remap)

	ph, ok := g.NodeByName("aot_feed_1/pair")
	require.True(t, ok)
	dtype, _ := ph.Attr("dtype")
	assert.Equal(t, graph.TypeAttr(graph.Int64), dtype)

	// Only edges reading output 1 move; output 0 still flows from pair.
	ins := g.InEdges(second)
	require.Len(t, ins, 1)
	assert.Equal(t, ph.ID(), ins[0].Src)
	ins = g.InEdges(first)
	require.Len(t, ins, 1)
	assert.Equal(t, pair.ID(), ins[0].Src)
}

func TestAddPlaceholdersMissingFeedNode(t *testing.T) {
	g := newAotGraph(t)
	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "ghost"}}}}
	_, err := AddPlaceholders(g, cfg)
	require.ErrorIs(t, err, graph.ErrNotFound)
	assert.ErrorContains(t, err, "can't find feed node: ghost:0")
}

// A feed with a declared type never looks up the fed node, so the
// node may be absent from the graph entirely.
func TestAddPlaceholdersDeclaredTypeSkipsLookup(t *testing.T) {
	g := newAotGraph(t)
	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "ghost"}, Type: graph.Float32}}}
	remap, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)
	assert.Equal(t, FeedRemap{"ghost:0": "aot_feed_0/ghost"}, remap)
	_, ok := g.NodeByName("aot_feed_0/ghost")
	assert.True(t, ok)
}

func TestAddPlaceholdersIndexOutOfRange(t *testing.T) {
	g := newAotGraph(t)
	addFloatConst(t, g, "x")
	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "x", Index: 3}}}}
	_, err := AddPlaceholders(g, cfg)
	require.ErrorIs(t, err, graph.ErrInvalidArgument)
	assert.ErrorContains(t, err, "invalid output index 3")
}

func TestAddPlaceholdersKeepsControlEdges(t *testing.T) {
	g := newAotGraph(t)
	x := addFloatConst(t, g, "x")
	y := addIdentity(t, g, "y", x)
	z, err := g.AddNode(graph.NodeDef{Name: "z", Op: op.NoOp})
	require.NoError(t, err)
	_, err = g.AddControlEdge(x, z)
	require.NoError(t, err)

	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "x"}}}}
	_, err = AddPlaceholders(g, cfg)
	require.NoError(t, err)

	// The data edge moved to the placeholder; the control edge stays.
	outs := g.OutEdges(x)
	require.Len(t, outs, 1)
	assert.True(t, outs[0].IsControl())
	assert.Equal(t, z.ID(), outs[0].Dst)

	ph, _ := g.NodeByName("aot_feed_0/x")
	ins := g.InEdges(y)
	require.Len(t, ins, 1)
	assert.Equal(t, ph.ID(), ins[0].Src)
}

// Feeding a node that is already a placeholder still adds a fresh one.
func TestAddPlaceholdersNoDedup(t *testing.T) {
	g := newAotGraph(t)
	p, err := g.AddNode(graph.NodeDef{
		Name: "p",
		Op:   op.Placeholder,
		Attrs: graph.AttrMap{
			"dtype": graph.TypeAttr(graph.Float32),
			"shape": graph.ShapeAttr(nil),
		},
	})
	require.NoError(t, err)
	y := addIdentity(t, g, "y", p)

	cfg := &Config{Feeds: []Feed{{Ref: graph.TensorRef{Node: "p"}}}}
	remap, err := AddPlaceholders(g, cfg)
	require.NoError(t, err)
	assert.Equal(t, FeedRemap{"p:0": "aot_feed_0/p"}, remap)

	ph, ok := g.NodeByName("aot_feed_0/p")
	require.True(t, ok)
	ins := g.InEdges(y)
	require.Len(t, ins, 1)
	assert.Equal(t, ph.ID(), ins[0].Src)
}
