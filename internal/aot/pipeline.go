// Package aot prepares dataflow graphs for ahead-of-time compilation:
// validating feed/fetch configs, swapping feeds for placeholders,
// pruning unreachable nodes, propagating device sharding, and tracking
// the functions graphs reference.
package aot

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/loom-ml/loom/internal/graph"
)

// Prepare runs the full preparation pipeline: validate cfg, insert
// placeholders for every feed, then prune g down to what the fetches
// need. The placeholders are kept alive by fetching them during the
// prune, with the feeds cleared so the walk passes through them.
//
// The input graph is mutated by placeholder insertion; the returned
// graph is a pruned copy. The remap names the placeholder standing in
// for each fed tensor.
func Prepare(ctx context.Context, g *graph.Graph, cfg *Config) (*graph.Graph, FeedRemap, error) {
	ctx, span := startPrepareSpan(ctx, len(cfg.Feeds), len(cfg.Fetches))
	defer span.End()
	start := time.Now()

	if err := ValidateConfig(cfg); err != nil {
		span.RecordError(err)
		recordPrepareMetrics(ctx, time.Since(start), 0, false)
		return nil, nil, err
	}
	remap, err := AddPlaceholders(g, cfg)
	if err != nil {
		span.RecordError(err)
		recordPrepareMetrics(ctx, time.Since(start), 0, false)
		return nil, nil, err
	}

	before := g.NumNodes()
	pruneCfg := &Config{Fetches: append([]Fetch(nil), cfg.Fetches...)}
	names := make([]string, 0, len(remap))
	for _, name := range remap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pruneCfg.Fetches = append(pruneCfg.Fetches, Fetch{Ref: graph.TensorRef{Node: name}})
	}
	pruned, err := Prune(g, pruneCfg)
	if err != nil {
		span.RecordError(err)
		recordPrepareMetrics(ctx, time.Since(start), 0, false)
		return nil, nil, err
	}

	removed := before - pruned.NumNodes()
	span.SetAttributes(attribute.Int("aot.nodes_pruned", removed))
	recordPrepareMetrics(ctx, time.Since(start), removed, true)
	slog.Debug("prepared graph",
		"nodes_before", before,
		"nodes_after", pruned.NumNodes(),
		"placeholders", len(remap))
	return pruned, remap, nil
}
