// Package render provides the output sinks for laid-out diagrams.
//
// # Overview
//
// This package groups the renderers that turn a computed layout into
// artifacts. It provides:
//
//   - Themed vector output (in [svg] subpackage)
//   - Graphviz DOT output and PNG rasterization (in [dot] subpackage)
//
// # SVG Rendering
//
// The [svg] subpackage draws the native renderer's output: node boxes
// with kind-dependent shapes, orthogonal edge paths with arrowheads,
// and optional title text, all styled by a theme.
//
//	doc := svg.Render(res, svg.WithTheme(theme))
//
// # DOT and PNG
//
// The [dot] subpackage emits Graphviz DOT source from the graph and,
// for the graphviz engine, rasterizes it to PNG via go-graphviz.
//
//	src := dot.ToDOT(g, dot.Options{})
//	png, err := dot.RenderPNG(ctx, src)
//
// [svg]: github.com/flowsketch/flowsketch/pkg/render/svg
// [dot]: github.com/flowsketch/flowsketch/pkg/render/dot
package render
