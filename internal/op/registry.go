// Package op declares the operation registry used to resolve node
// definitions: attribute defaults and declared output types. The
// registry deliberately stops at declared types; it performs no
// inference over graph structure.
package op

import (
	"fmt"
	"sort"

	"github.com/loom-ml/loom/internal/graph"
)

// Registry maps operation names to their declarations. It implements
// graph.OpResolver.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates a registry with the core operations registered.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*Def)}
	r.registerCoreOps()
	return r
}

// Register adds an operation declaration.
func (r *Registry) Register(def *Def) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("%w: operation declaration must be named", graph.ErrInvalidArgument)
	}
	if _, ok := r.defs[def.Name]; ok {
		return fmt.Errorf("%w: operation %q already registered", graph.ErrInvalidArgument, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// LookUp returns the declaration for an operation name.
func (r *Registry) LookUp(name string) (*Def, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported operation %q", graph.ErrNotFound, name)
	}
	return def, nil
}

// AddDefaultAttrs implements graph.OpResolver.
func (r *Registry) AddDefaultAttrs(nd *graph.NodeDef) error {
	def, err := r.LookUp(nd.Op)
	if err != nil {
		return err
	}
	return def.AddDefaultAttrs(nd)
}

// OutputTypes implements graph.OpResolver.
func (r *Registry) OutputTypes(nd *graph.NodeDef) ([]graph.DataType, error) {
	def, err := r.LookUp(nd.Op)
	if err != nil {
		return nil, err
	}
	return def.OutputTypes(nd)
}

// SupportedOps returns all registered operation names, sorted.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.defs))
	for name := range r.defs {
		ops = append(ops, name)
	}
	sort.Strings(ops)
	return ops
}
