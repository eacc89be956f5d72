// Package function models named sub-computations: a library mapping
// function names to definitions and gradients, and a runtime that
// instantiates functions into releasable handles.
package function

import (
	"fmt"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

// GradientOp is the operation name of gradient nodes. A gradient node
// names the function it differentiates in its GradientFuncAttr attr.
const (
	GradientOp       = op.SymbolicGradient
	GradientFuncAttr = "f"
)

// Def is a function definition: a signature declared like an
// operation, plus an optional body of node definitions.
type Def struct {
	Signature *op.Def
	Body      []*graph.NodeDef
}

// Name returns the function name.
func (d *Def) Name() string { return d.Signature.Name }

// Library holds function definitions and gradient mappings on top of a
// base operation registry. It implements graph.OpResolver, so graphs
// containing function-call nodes resolve through it: function
// signatures take precedence, everything else falls through to the
// base registry.
type Library struct {
	base  *op.Registry
	funcs map[string]*Def
	grads map[string]string
}

// NewLibrary creates an empty library over the base registry.
func NewLibrary(base *op.Registry) *Library {
	return &Library{
		base:  base,
		funcs: make(map[string]*Def),
		grads: make(map[string]string),
	}
}

// Add registers a function definition.
func (l *Library) Add(def *Def) error {
	if def == nil || def.Signature == nil || def.Signature.Name == "" {
		return fmt.Errorf("%w: function definition must have a named signature", graph.ErrInvalidArgument)
	}
	name := def.Signature.Name
	if _, ok := l.funcs[name]; ok {
		return fmt.Errorf("%w: function %q already defined", graph.ErrInvalidArgument, name)
	}
	l.funcs[name] = def
	return nil
}

// Contains reports whether a function with the given name is defined.
func (l *Library) Contains(name string) bool {
	_, ok := l.funcs[name]
	return ok
}

// Find returns the definition of the named function.
func (l *Library) Find(name string) (*Def, bool) {
	def, ok := l.funcs[name]
	return def, ok
}

// FindGradient returns the name of the gradient function registered
// for fn, or "" if none is.
func (l *Library) FindGradient(fn string) string {
	return l.grads[fn]
}

// AddGradient registers grad as the gradient function of fn. It is an
// error if fn already has a gradient.
func (l *Library) AddGradient(fn, grad string) error {
	if _, ok := l.grads[fn]; ok {
		return fmt.Errorf("%w: function %q already has a gradient", graph.ErrInvalidArgument, fn)
	}
	l.grads[fn] = grad
	return nil
}

// ReplaceGradient replaces the gradient function of fn. It is an error
// if fn has no gradient yet.
func (l *Library) ReplaceGradient(fn, grad string) error {
	if _, ok := l.grads[fn]; !ok {
		return fmt.Errorf("%w: function %q has no gradient to replace", graph.ErrNotFound, fn)
	}
	l.grads[fn] = grad
	return nil
}

// AddDefaultAttrs implements graph.OpResolver.
func (l *Library) AddDefaultAttrs(nd *graph.NodeDef) error {
	if def, ok := l.funcs[nd.Op]; ok {
		return def.Signature.AddDefaultAttrs(nd)
	}
	return l.base.AddDefaultAttrs(nd)
}

// OutputTypes implements graph.OpResolver.
func (l *Library) OutputTypes(nd *graph.NodeDef) ([]graph.DataType, error) {
	if def, ok := l.funcs[nd.Op]; ok {
		return def.Signature.OutputTypes(nd)
	}
	return l.base.OutputTypes(nd)
}
