package pipeline

import (
	"fmt"

	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/parse"
)

// Parse turns the spec text into a parsed specification.
func Parse(opts Options) (*parse.Spec, error) {
	spec, err := parse.Parse(opts.Spec, opts.parseConfig())
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// BuildGraph parses the spec and builds the validated graph.
func BuildGraph(opts Options) (*parse.Spec, *graph.Graph, error) {
	spec, err := Parse(opts)
	if err != nil {
		return nil, nil, err
	}
	g, err := spec.Graph()
	if err != nil {
		return nil, nil, fmt.Errorf("build graph: %w", err)
	}
	return spec, g, nil
}
