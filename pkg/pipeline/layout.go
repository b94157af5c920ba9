package pipeline

import (
	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/layout"
)

// GenerateLayout computes the deterministic layout for a graph.
// The same graph and options always produce the same result.
func GenerateLayout(g *graph.Graph, opts Options) *layout.Result {
	opts.SetLayoutDefaults()
	return layout.Build(g, opts.LayoutConfig())
}
