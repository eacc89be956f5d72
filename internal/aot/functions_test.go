package aot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/function"
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

func newFuncLibrary(t *testing.T, names ...string) *function.Library {
	t.Helper()
	lib := function.NewLibrary(op.NewRegistry())
	for _, name := range names {
		require.NoError(t, lib.Add(&function.Def{
			Signature: &op.Def{
				Name:    name,
				Outputs: []op.ArgDef{{Name: "out", Type: graph.Float32}},
			},
		}))
	}
	return lib
}

func TestHasAssociatedFunction(t *testing.T) {
	lib := newFuncLibrary(t, "square")
	tests := []struct {
		name string
		def  graph.NodeDef
		want bool
	}{
		{"library call", graph.NodeDef{Op: "square"}, true},
		{"gradient", graph.NodeDef{Op: function.GradientOp}, true},
		{"function attr", graph.NodeDef{Op: op.NoOp, Attrs: graph.AttrMap{"body": graph.FuncAttr{Name: "square"}}}, true},
		{"plain op", graph.NodeDef{Op: op.Const}, false},
		{"non-function attrs", graph.NodeDef{Op: op.Const, Attrs: graph.AttrMap{"dtype": graph.TypeAttr(graph.Float32)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAssociatedFunction(tt.def, lib))
		})
	}
}

func TestAssociatedFunctionsCall(t *testing.T) {
	lib := newFuncLibrary(t, "square")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name:  "call",
		Op:    "square",
		Attrs: graph.AttrMap{"T": graph.TypeAttr(graph.Float32)},
	})
	require.NoError(t, err)

	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 1)
	call, ok := assoc[0].(FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "square", call.Name)
	assert.Equal(t, graph.AttrMap{"T": graph.TypeAttr(graph.Float32)}, call.Attrs)
}

// A node is classified exactly one way: its op being a library
// function wins over any function-valued attrs it carries.
func TestAssociatedFunctionsCallBeatsAttr(t *testing.T) {
	lib := newFuncLibrary(t, "square", "helper")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name:  "call",
		Op:    "square",
		Attrs: graph.AttrMap{"body": graph.FuncAttr{Name: "helper"}},
	})
	require.NoError(t, err)

	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 1)
	_, ok := assoc[0].(FunctionCall)
	assert.True(t, ok)
}

func TestAssociatedFunctionsGradient(t *testing.T) {
	lib := newFuncLibrary(t, "square")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name:  "grad",
		Op:    function.GradientOp,
		Attrs: graph.AttrMap{function.GradientFuncAttr: graph.FuncAttr{Name: "square"}},
	})
	require.NoError(t, err)

	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 1)
	sg, ok := assoc[0].(SymbolicGradient)
	require.True(t, ok)
	assert.Equal(t, graph.FuncAttr{Name: "square"}, sg.Attrs[function.GradientFuncAttr])
}

func TestAssociatedFunctionsAttrsSorted(t *testing.T) {
	lib := newFuncLibrary(t, "f1", "f2")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name: "loop",
		Op:   op.NoOp,
		Attrs: graph.AttrMap{
			"z_fn": graph.FuncAttr{Name: "f2"},
			"a_fn": graph.FuncAttr{Name: "f1"},
			"T":    graph.TypeAttr(graph.Float32),
		},
	})
	require.NoError(t, err)

	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 2)
	first, ok := assoc[0].(FunctionAttr)
	require.True(t, ok)
	assert.Equal(t, "a_fn", first.AttrName)
	assert.Equal(t, "f1", first.Name)
	second, ok := assoc[1].(FunctionAttr)
	require.True(t, ok)
	assert.Equal(t, "z_fn", second.AttrName)
	assert.Equal(t, "f2", second.Name)
}

func TestRewriteFunctionCall(t *testing.T) {
	lib := newFuncLibrary(t, "square", "square_v2")
	g := graph.New(lib)
	x := addFloatConst(t, g, "x")
	call, err := g.AddNode(graph.NodeDef{Name: "sq", Op: "square"})
	require.NoError(t, err)
	_, err = g.AddEdge(x, 0, call, 0)
	require.NoError(t, err)
	read := addIdentity(t, g, "read", call)
	call.SetAssignedDevice("/job:w/replica:0/task:0/device:CORE:0")

	assoc := AssociatedFunctions(call, lib)
	require.Len(t, assoc, 1)
	require.NoError(t, RewriteAssociatedFunction(g, call, lib, assoc[0], "square_v2"))

	repl, ok := g.NodeByName("sq")
	require.True(t, ok)
	assert.Equal(t, "square_v2", repl.Op())
	assert.Equal(t, "/job:w/replica:0/task:0/device:CORE:0", repl.Device())

	ins := g.InEdges(read)
	require.Len(t, ins, 1)
	assert.Equal(t, repl.ID(), ins[0].Src)
	outs := g.OutEdges(x)
	require.Len(t, outs, 1)
	assert.Equal(t, repl.ID(), outs[0].Dst)
	assert.NoError(t, g.Validate())
}

func TestRewriteGradient(t *testing.T) {
	lib := newFuncLibrary(t, "square")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name:  "grad",
		Op:    function.GradientOp,
		Attrs: graph.AttrMap{function.GradientFuncAttr: graph.FuncAttr{Name: "square"}},
	})
	require.NoError(t, err)
	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 1)

	// No gradient registered yet, so the rewrite adds one.
	require.NoError(t, RewriteAssociatedFunction(g, n, lib, assoc[0], "square_grad"))
	assert.Equal(t, "square_grad", lib.FindGradient("square"))

	// A different name replaces the existing mapping.
	require.NoError(t, RewriteAssociatedFunction(g, n, lib, assoc[0], "square_grad_fused"))
	assert.Equal(t, "square_grad_fused", lib.FindGradient("square"))

	// The same name is a no-op.
	require.NoError(t, RewriteAssociatedFunction(g, n, lib, assoc[0], "square_grad_fused"))
	assert.Equal(t, "square_grad_fused", lib.FindGradient("square"))
}

func TestRewriteGradientErrors(t *testing.T) {
	lib := newFuncLibrary(t)
	g := graph.New(lib)

	bare, err := g.AddNode(graph.NodeDef{Name: "bare", Op: function.GradientOp})
	require.NoError(t, err)
	err = RewriteAssociatedFunction(g, bare, lib, SymbolicGradient{}, "g")
	require.ErrorIs(t, err, graph.ErrInvalidArgument)
	assert.ErrorContains(t, err, `has no "f" attr`)

	wrong, err := g.AddNode(graph.NodeDef{
		Name:  "wrong",
		Op:    function.GradientOp,
		Attrs: graph.AttrMap{function.GradientFuncAttr: graph.StringAttr("square")},
	})
	require.NoError(t, err)
	err = RewriteAssociatedFunction(g, wrong, lib, SymbolicGradient{}, "g")
	require.ErrorIs(t, err, graph.ErrInvalidArgument)
	assert.ErrorContains(t, err, "is not a function")
}

func TestRewriteFunctionAttr(t *testing.T) {
	lib := newFuncLibrary(t, "loop_body")
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{
		Name: "while",
		Op:   op.NoOp,
		Attrs: graph.AttrMap{
			"body": graph.FuncAttr{
				Name:  "loop_body",
				Attrs: graph.AttrMap{"T": graph.TypeAttr(graph.Float32)},
			},
		},
	})
	require.NoError(t, err)

	assoc := AssociatedFunctions(n, lib)
	require.Len(t, assoc, 1)
	require.NoError(t, RewriteAssociatedFunction(g, n, lib, assoc[0], "loop_body_v2"))

	v, ok := n.Attr("body")
	require.True(t, ok)
	fa, ok := v.(graph.FuncAttr)
	require.True(t, ok)
	assert.Equal(t, "loop_body_v2", fa.Name)
	assert.Equal(t, graph.AttrMap{"T": graph.TypeAttr(graph.Float32)}, fa.Attrs)
}

func TestRewriteFunctionAttrErrors(t *testing.T) {
	lib := newFuncLibrary(t)
	g := graph.New(lib)
	n, err := g.AddNode(graph.NodeDef{Name: "n", Op: op.NoOp})
	require.NoError(t, err)

	err = RewriteAssociatedFunction(g, n, lib, FunctionAttr{AttrName: "body"}, "g")
	require.ErrorIs(t, err, graph.ErrInvalidArgument)
	assert.ErrorContains(t, err, `has no "body" attr`)
}
