// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package op provides the public API for operation definitions and the
// operation registry of the Loom ML framework.
//
// A Registry maps operation names to their definitions and implements
// graph.OpResolver, so it plugs directly into graph construction:
//
//	r := op.NewRegistry()
//	g := graph.New(r)
package op

import (
	"github.com/loom-ml/loom/internal/op"
)

// ArgDef declares one input or output of an operation.
type ArgDef = op.ArgDef

// AttrDef declares one attribute of an operation. A nil Default marks
// the attribute required.
type AttrDef = op.AttrDef

// Attribute kinds.
const (
	KindString = op.KindString
	KindInt    = op.KindInt
	KindFloat  = op.KindFloat
	KindBool   = op.KindBool
	KindType   = op.KindType
	KindShape  = op.KindShape
	KindFunc   = op.KindFunc
)

// Def declares an operation: its arguments and attributes.
type Def = op.Def

// Registry maps operation names to definitions.
type Registry = op.Registry

// NewRegistry creates a registry with the core operations registered.
func NewRegistry() *Registry {
	return op.NewRegistry()
}

// Core operation names.
const (
	NoOp             = op.NoOp
	Placeholder      = op.Placeholder
	Const            = op.Const
	Identity         = op.Identity
	Add              = op.Add
	Mul              = op.Mul
	MatMul           = op.MatMul
	SymbolicGradient = op.SymbolicGradient
)
