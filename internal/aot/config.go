package aot

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/loom-ml/loom/internal/graph"
)

// Feed marks a graph tensor supplied as an input at execution time.
type Feed struct {
	// Ref names the fed tensor.
	Ref graph.TensorRef
	// Type optionally declares the fed data type. When unset it is
	// resolved from the fed node's declared output type.
	Type graph.DataType
	// Shape is the concrete shape of the fed value.
	Shape graph.Shape
	// Name optionally names the feed in generated interfaces.
	Name string
}

// Fetch marks a graph tensor read back as an output.
type Fetch struct {
	Ref  graph.TensorRef
	Name string
}

// Config lists the feeds and fetches of one compilation.
type Config struct {
	Feeds   []Feed
	Fetches []Fetch
}

// YAML document types. The wire form carries refs as canonical strings
// and data types by name.
type feedDoc struct {
	Ref   string  `yaml:"ref"`
	DType string  `yaml:"dtype,omitempty"`
	Shape []int64 `yaml:"shape,omitempty"`
	Name  string  `yaml:"name,omitempty"`
}

type fetchDoc struct {
	Ref  string `yaml:"ref"`
	Name string `yaml:"name,omitempty"`
}

type configDoc struct {
	Feeds   []feedDoc  `yaml:"feeds,omitempty"`
	Fetches []fetchDoc `yaml:"fetches,omitempty"`
}

// ParseConfig decodes a YAML compile config:
//
//	feeds:
//	  - ref: x:0
//	    dtype: float32
//	    shape: [2, 2]
//	fetches:
//	  - ref: y:0
//
// Decoding is lenient about content; ValidateConfig enforces the
// config invariants.
func ParseConfig(data []byte) (*Config, error) {
	var doc configDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %v", graph.ErrInvalidArgument, err)
	}
	cfg := &Config{}
	for _, fd := range doc.Feeds {
		ref, err := graph.ParseTensorRef(fd.Ref)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", fd.Ref, err)
		}
		feed := Feed{Ref: ref, Shape: graph.Shape(fd.Shape), Name: fd.Name}
		if fd.DType != "" {
			dt, err := graph.ParseDataType(fd.DType)
			if err != nil {
				return nil, fmt.Errorf("feed %q: %w", fd.Ref, err)
			}
			feed.Type = dt
		}
		cfg.Feeds = append(cfg.Feeds, feed)
	}
	for _, fd := range doc.Fetches {
		ref, err := graph.ParseTensorRef(fd.Ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: %w", fd.Ref, err)
		}
		cfg.Fetches = append(cfg.Fetches, Fetch{Ref: ref, Name: fd.Name})
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML compile config.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}
