// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package function provides the public API for function libraries and
// runtimes in the Loom ML framework.
//
// A Library holds named sub-computations and their gradient mappings
// on top of an operation registry; it implements graph.OpResolver so
// graphs may contain function-call nodes. A Runtime instantiates
// functions into handles, and CachedHandles shares handles across
// repeated instantiations:
//
//	lib := function.NewLibrary(op.NewRegistry())
//	rt := function.NewLocalRuntime(lib)
//	cache := function.NewCachedHandles(rt)
//	h, _ := cache.GetOrInstantiate("square", nil)
//	defer cache.ReleaseAll()
package function

import (
	"github.com/loom-ml/loom/internal/function"
	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

// GradientOp is the operation name of gradient nodes; GradientFuncAttr
// is the attribute naming the function a gradient node differentiates.
const (
	GradientOp       = function.GradientOp
	GradientFuncAttr = function.GradientFuncAttr
)

// Def is a function definition.
type Def = function.Def

// Library holds function definitions and gradient mappings.
type Library = function.Library

// NewLibrary creates an empty library over the base registry.
func NewLibrary(base *op.Registry) *Library {
	return function.NewLibrary(base)
}

// Handle identifies one instantiation of a function within a Runtime.
type Handle = function.Handle

// Runtime instantiates functions and releases the resulting handles.
type Runtime = function.Runtime

// LocalRuntime is an in-process Runtime over a Library.
type LocalRuntime = function.LocalRuntime

// NewLocalRuntime creates a runtime instantiating functions from lib.
func NewLocalRuntime(lib *Library) *LocalRuntime {
	return function.NewLocalRuntime(lib)
}

// CachedHandles shares function handles across repeated instantiations.
type CachedHandles = function.CachedHandles

// NewCachedHandles creates an empty cache over rt.
func NewCachedHandles(rt Runtime) *CachedHandles {
	return function.NewCachedHandles(rt)
}

// Canonicalize builds the cache key for one instantiation of a
// function, e.g. `f[T=float32,n=2]`.
func Canonicalize(name string, attrs graph.AttrMap) string {
	return function.Canonicalize(name, attrs)
}
