// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package aot provides the public API for preparing dataflow graphs
// for ahead-of-time compilation in the Loom ML framework.
//
// Preparation takes a graph and a compile config naming the feeds
// (inputs supplied at execution time) and fetches (outputs read back),
// and produces a pruned graph whose feeds are placeholder nodes:
//
//	cfg, _ := aot.LoadConfig(f)
//	pruned, remap, err := aot.Prepare(ctx, g, cfg)
//
// The package also propagates device sharding between neighboring
// nodes and discovers and rewrites the functions a graph references.
package aot

import (
	"context"
	"io"

	"github.com/loom-ml/loom/internal/aot"
	"github.com/loom-ml/loom/internal/function"
	"github.com/loom-ml/loom/internal/graph"
)

// Feed marks a graph tensor supplied as an input at execution time.
type Feed = aot.Feed

// Fetch marks a graph tensor read back as an output.
type Fetch = aot.Fetch

// Config lists the feeds and fetches of one compilation.
type Config = aot.Config

// ParseConfig decodes a YAML compile config.
func ParseConfig(data []byte) (*Config, error) {
	return aot.ParseConfig(data)
}

// LoadConfig reads and parses a YAML compile config.
func LoadConfig(r io.Reader) (*Config, error) {
	return aot.LoadConfig(r)
}

// ValidateConfig checks the config invariants.
func ValidateConfig(cfg *Config) error {
	return aot.ValidateConfig(cfg)
}

// FeedRemap maps each fed tensor to the placeholder node replacing it.
type FeedRemap = aot.FeedRemap

// Prepare validates cfg, swaps feeds for placeholders, and prunes g
// down to what the fetches need. The input graph is mutated by
// placeholder insertion; the returned graph is a pruned copy.
func Prepare(ctx context.Context, g *graph.Graph, cfg *Config) (*graph.Graph, FeedRemap, error) {
	return aot.Prepare(ctx, g, cfg)
}

// AddPlaceholders inserts one placeholder node per distinct fed tensor
// and re-points the edges reading fed tensors.
func AddPlaceholders(g *graph.Graph, cfg *Config) (FeedRemap, error) {
	return aot.AddPlaceholders(g, cfg)
}

// Prune returns a copy of g containing only the nodes the fetches
// need, treating fed tensors as boundaries.
func Prune(g *graph.Graph, cfg *Config) (*graph.Graph, error) {
	return aot.Prune(g, cfg)
}

// EdgeDirection selects which side of a node's edges to inspect when
// propagating sharding.
type EdgeDirection = aot.EdgeDirection

// Edge directions.
const (
	Inbound  EdgeDirection = aot.Inbound
	Outbound EdgeDirection = aot.Outbound
)

// SetShardingFromNeighbors assigns n the device of the neighbor with
// the smallest core id.
func SetShardingFromNeighbors(g *graph.Graph, n *graph.Node, dir EdgeDirection) error {
	return aot.SetShardingFromNeighbors(g, n, dir)
}

// AssociatedFunction describes one way a node references a function.
type AssociatedFunction = aot.AssociatedFunction

// Associated function variants.
type (
	FunctionCall     = aot.FunctionCall
	SymbolicGradient = aot.SymbolicGradient
	FunctionAttr     = aot.FunctionAttr
)

// HasAssociatedFunction reports whether def references any function.
func HasAssociatedFunction(def graph.NodeDef, lib *function.Library) bool {
	return aot.HasAssociatedFunction(def, lib)
}

// AssociatedFunctions returns the functions n references.
func AssociatedFunctions(n *graph.Node, lib *function.Library) []AssociatedFunction {
	return aot.AssociatedFunctions(n, lib)
}

// RewriteAssociatedFunction re-points one function reference on n to
// newName.
func RewriteAssociatedFunction(g *graph.Graph, n *graph.Node, lib *function.Library, assoc AssociatedFunction, newName string) error {
	return aot.RewriteAssociatedFunction(g, n, lib, assoc, newName)
}

// BuildIdentityNode adds an identity node forwarding dtype values.
func BuildIdentityNode(g *graph.Graph, name string, dtype graph.DataType, input *graph.Node, device string) (*graph.Node, error) {
	return aot.BuildIdentityNode(g, name, dtype, input, device)
}

// NextRandomSeed returns a fresh seed for graph-level random ops.
func NextRandomSeed() uint32 {
	return aot.NextRandomSeed()
}
