// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for dataflow graphs in the
// Loom ML framework.
//
// A Graph is a mutable multigraph of operation nodes connected by data
// and control edges. Node definitions resolve their output types
// through an OpResolver, typically an operation registry or a function
// library layered on one:
//
//	r := op.NewRegistry()
//	g := graph.New(r)
//	x, _ := g.AddNode(graph.NodeDef{
//	    Name:  "x",
//	    Op:    op.Placeholder,
//	    Attrs: graph.AttrMap{"dtype": graph.TypeAttr(graph.Float32)},
//	})
//
// Graphs convert to and from GraphDef, a flat JSON-friendly form whose
// inputs use tensor reference strings ("x", "x:1", "^init").
package graph

import (
	"github.com/loom-ml/loom/internal/graph"
)

// Common errors. Match with errors.Is.
var (
	ErrInvalidArgument = graph.ErrInvalidArgument
	ErrNotFound        = graph.ErrNotFound
	ErrInvariant       = graph.ErrInvariant
)

// DataType identifies the element type carried on a graph edge.
type DataType = graph.DataType

// Data type constants.
const (
	Invalid DataType = graph.Invalid
	Float32 DataType = graph.Float32
	Float64 DataType = graph.Float64
	Int32   DataType = graph.Int32
	Int64   DataType = graph.Int64
	Uint8   DataType = graph.Uint8
	Bool    DataType = graph.Bool
)

// ParseDataType maps a type name to its DataType.
func ParseDataType(s string) (DataType, error) {
	return graph.ParseDataType(s)
}

// Shape represents the dimensions of a tensor. An empty shape is a scalar.
type Shape = graph.Shape

// UnknownDim marks a dimension whose size is not known.
const UnknownDim = graph.UnknownDim

// TensorRef names a single output of a node.
type TensorRef = graph.TensorRef

// ParseTensorRef parses a tensor reference string ("x", "x:1", "^init").
func ParseTensorRef(s string) (TensorRef, error) {
	return graph.ParseTensorRef(s)
}

// ControlSlot is the edge slot value marking a control edge.
const ControlSlot = graph.ControlSlot

// AttrValue is one attribute value on a node definition.
type AttrValue = graph.AttrValue

// Attribute value variants.
type (
	StringAttr = graph.StringAttr
	IntAttr    = graph.IntAttr
	FloatAttr  = graph.FloatAttr
	BoolAttr   = graph.BoolAttr
	TypeAttr   = graph.TypeAttr
	ShapeAttr  = graph.ShapeAttr
	FuncAttr   = graph.FuncAttr
)

// AttrMap holds a node's attributes by name.
type AttrMap = graph.AttrMap

// CloneAttr deep-copies an attribute value.
func CloneAttr(v AttrValue) AttrValue {
	return graph.CloneAttr(v)
}

// NodeID identifies a node within one Graph.
type NodeID = graph.NodeID

// Edge connects an output slot of one node to an input slot of another.
type Edge = graph.Edge

// NodeDef is the serializable definition of one node.
type NodeDef = graph.NodeDef

// Node is one operation instance in a Graph.
type Node = graph.Node

// Graph is a mutable dataflow graph.
type Graph = graph.Graph

// OpResolver resolves node definitions to their default attributes and
// output types.
type OpResolver = graph.OpResolver

// New creates an empty graph resolving operations through r.
func New(r OpResolver) *Graph {
	return graph.New(r)
}

// NodeSpec is the flat form of one node in a GraphDef.
type NodeSpec = graph.NodeSpec

// GraphDef is the flat, serializable form of a Graph.
type GraphDef = graph.GraphDef

// FromDef builds a Graph from its flat form, applying default
// attributes from r.
func FromDef(def *GraphDef, r OpResolver) (*Graph, error) {
	return graph.FromDef(def, r)
}
