package aot

import (
	"fmt"
	"sort"

	"github.com/loom-ml/loom/internal/graph"
	"github.com/loom-ml/loom/internal/op"
)

// FeedRemap maps the canonical string of each fed tensor to the name
// of the placeholder node now producing its value.
type FeedRemap map[string]string

func placeholderName(ref graph.TensorRef) string {
	return fmt.Sprintf("aot_feed_%d/%s", ref.Index, ref.Node)
}

type placeholderInfo struct {
	feed  *Feed
	name  string
	dtype graph.DataType
}

// AddPlaceholders inserts one placeholder node per distinct fed tensor
// and re-points every data edge reading a fed tensor to the new
// placeholder's output. Feeds sharing a ref share a placeholder. The
// returned remap records the placeholder node name for each canonical
// fed ref string.
//
// Feeds that already point at placeholder nodes are not deduplicated;
// they get a fresh placeholder like any other feed.
func AddPlaceholders(g *graph.Graph, cfg *Config) (FeedRemap, error) {
	// Group feeds by canonical ref. The last feed for a ref supplies
	// the declared type and shape.
	infos := make(map[string]*placeholderInfo)
	for i := range cfg.Feeds {
		feed := &cfg.Feeds[i]
		key := feed.Ref.String()
		info := infos[key]
		if info == nil {
			info = &placeholderInfo{}
			infos[key] = info
		}
		info.feed = feed
		info.name = placeholderName(feed.Ref)
	}

	keys := make([]string, 0, len(infos))
	for key := range infos {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Resolve every data type before mutating the graph.
	for _, key := range keys {
		info := infos[key]
		if info.feed.Type != graph.Invalid {
			info.dtype = info.feed.Type
			continue
		}
		dtype, err := feedType(g, info.feed)
		if err != nil {
			return nil, err
		}
		info.dtype = dtype
	}

	remap := make(FeedRemap, len(infos))
	for _, key := range keys {
		info := infos[key]
		ph, err := g.AddNode(graph.NodeDef{
			Name: info.name,
			Op:   op.Placeholder,
			Attrs: graph.AttrMap{
				"dtype": graph.TypeAttr(info.dtype),
				"shape": graph.ShapeAttr(info.feed.Shape.Clone()),
			},
		})
		if err != nil {
			return nil, err
		}
		remap[key] = info.name

		src, ok := g.NodeByName(info.feed.Ref.Node)
		if !ok {
			// A feed with a declared type does not need its node to
			// exist; there are simply no edges to re-point.
			continue
		}
		for _, e := range g.OutEdges(src) {
			if e.IsControl() || e.SrcOutput != info.feed.Ref.Index {
				continue
			}
			if err := g.RemoveEdge(e); err != nil {
				return nil, err
			}
			if _, err := g.AddEdge(ph, 0, g.Node(e.Dst), e.DstInput); err != nil {
				return nil, err
			}
		}
	}
	return remap, nil
}

// feedType resolves a feed's data type from the fed node's declared
// output types. The node definition is instantiated alone in a scratch
// graph with default attributes applied, mirroring how it would
// resolve on load.
func feedType(g *graph.Graph, feed *Feed) (graph.DataType, error) {
	src, ok := g.NodeByName(feed.Ref.Node)
	if !ok {
		return graph.Invalid, fmt.Errorf("%w: can't find feed node: %s", graph.ErrNotFound, feed.Ref)
	}
	def := src.Def()
	if err := g.Resolver().AddDefaultAttrs(&def); err != nil {
		return graph.Invalid, err
	}
	scratch := graph.New(g.Resolver())
	n, err := scratch.AddNode(def)
	if err != nil {
		return graph.Invalid, err
	}
	if feed.Ref.Index < 0 || feed.Ref.Index >= n.NumOutputs() {
		return graph.Invalid, fmt.Errorf("%w: invalid output index %d for feed node %s",
			graph.ErrInvalidArgument, feed.Ref.Index, feed.Ref.Node)
	}
	return n.OutputType(feed.Ref.Index), nil
}
