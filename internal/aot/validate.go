package aot

import (
	"fmt"
	"sort"

	"github.com/loom-ml/loom/internal/graph"
)

// ValidateConfig checks the config invariants: every ref names a node
// and has a non-negative output index, feed shapes are valid,
// non-empty names are unique within the feeds and within the fetches,
// neither name set contains both "x" and "x_data", and at least one
// fetch is present. The first violation is reported. Feed names are
// never checked against fetch names.
func ValidateConfig(cfg *Config) error {
	names := make(map[string]bool)
	for _, feed := range cfg.Feeds {
		if err := validateRef(feed.Ref); err != nil {
			return err
		}
		if err := feed.Shape.Validate(); err != nil {
			return err
		}
		if err := checkNameDuplicates("feed", feed.Name, names); err != nil {
			return err
		}
	}
	if err := checkNameSuffixConflicts("feed", names); err != nil {
		return err
	}

	names = make(map[string]bool)
	for _, fetch := range cfg.Fetches {
		if err := validateRef(fetch.Ref); err != nil {
			return err
		}
		if err := checkNameDuplicates("fetch", fetch.Name, names); err != nil {
			return err
		}
	}
	if err := checkNameSuffixConflicts("fetch", names); err != nil {
		return err
	}

	if len(cfg.Fetches) == 0 {
		return fmt.Errorf("%w: fetches must be specified", graph.ErrInvalidArgument)
	}
	return nil
}

func validateRef(ref graph.TensorRef) error {
	if ref.Node == "" {
		return fmt.Errorf("%w: tensor ref node name must be non-empty", graph.ErrInvalidArgument)
	}
	if ref.Index < 0 {
		return fmt.Errorf("%w: tensor ref %s output index must be non-negative", graph.ErrInvalidArgument, ref)
	}
	return nil
}

// checkNameDuplicates rejects reuse of a non-empty name within one
// kind. Empty names stay anonymous and may repeat.
func checkNameDuplicates(kind, name string, names map[string]bool) error {
	if name == "" {
		return nil
	}
	if names[name] {
		return fmt.Errorf("%w: duplicate %s name: %s", graph.ErrInvalidArgument, kind, name)
	}
	names[name] = true
	return nil
}

// checkNameSuffixConflicts rejects a name set containing both "x" and
// "x_data"; the two collide in generated interface symbols.
func checkNameSuffixConflicts(kind string, names map[string]bool) error {
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	for _, name := range sorted {
		if names[name+"_data"] {
			return fmt.Errorf("%w: conflicting %s name: %s and %s_data", graph.ErrInvalidArgument, kind, name, name)
		}
	}
	return nil
}
