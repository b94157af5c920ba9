// Package pkg provides the core libraries for Flowsketch diagram generation.
//
// # Overview
//
// Flowsketch turns a small markdown-flavored text notation into deterministic
// flow diagrams. The pkg directory is organized along the pipeline stages:
//
//  1. [parse] - Text notation parsing into a diagram spec
//  2. [graph] - Graph model and serialization (JSON, YAML)
//  3. [layout] - Deterministic layered layout
//  4. [render] - Output formats (SVG, DOT, PNG via Graphviz)
//  5. [pipeline] - Orchestration with per-stage caching
//
// # Architecture
//
// The typical data flow through Flowsketch:
//
//	Spec text
//	     ↓
//	[parse] package (notation → nodes and edges)
//	     ↓
//	[graph] package (validated directed graph)
//	     ↓
//	[layout] package (layers, ordering, coordinates, edge routes)
//	     ↓
//	[render] package (SVG / DOT / PNG / JSON output)
//
// # Quick Start
//
// Parse a spec and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/flowsketch/flowsketch/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Spec:    specText,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Or drive the stages individually:
//
//	spec, _ := parse.Parse(specText, parse.Config{})
//	g, _ := spec.Graph()
//	res := layout.Build(g, layout.Config{})
//	doc := svg.Render(res)
//
// # Main Packages
//
// [parse] - Parser for the diagram notation: title and description
// sections, node declarations with kinds and attributes, edge lines
// with labels.
//
// [graph] - Directed graph with typed nodes and labeled edges. Validates
// IDs, detects duplicate edges, and serializes to JSON and YAML.
//
// [layout] - Layered layout engine: longest-path layering, barycenter
// crossing reduction with refinement passes, coordinate assignment, and
// orthogonal edge routing including back edges.
//
// [render] - Output sinks. [render/svg] draws themed vector output,
// [render/dot] emits Graphviz DOT and drives the graphviz engine for PNG.
//
// [pipeline] - Complete parse → layout → render pipeline used by CLI and
// API. Each stage is cached by content hash so repeated runs are cheap.
//
// [cache] - Stage cache with file, Redis, and null backends plus key
// derivation from content hashes and stage options.
//
// [store] - Diagram persistence for the serve mode: in-memory and
// MongoDB backends.
//
// [errors] - Structured error codes shared across stages.
//
// [observability] - Hook interfaces for instrumenting pipeline stages
// and cache traffic without coupling the core packages to a metrics
// implementation.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/layout/...      # Specific package
//	go test -run Example          # Examples only
//
// [parse]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/parse
// [graph]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/graph
// [layout]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/layout
// [render]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/render/svg
// [render/dot]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/cache
// [store]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/store
// [errors]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/errors
// [observability]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/flowsketch/flowsketch/pkg/buildinfo
package pkg
