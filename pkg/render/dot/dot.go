// Package dot exports graphs as Graphviz DOT and renders them through the
// graphviz engine. This is an alternative visualization path; the native
// layout engine remains the default and keeps its geometric guarantees.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowsketch/flowsketch/pkg/graph"
)

// Options configures DOT export.
type Options struct {
	// Detailed includes node IDs and kinds in labels.
	// When false, only the display label is shown.
	Detailed bool

	// Rankdir sets the graphviz layout direction. Empty means "LR" to match
	// the native left-to-right layout.
	Rankdir string
}

// kindShapes maps node kinds onto graphviz shapes.
var kindShapes = map[string]string{
	graph.KindProcess:  "box",
	graph.KindIO:       "parallelogram",
	graph.KindDecision: "diamond",
	graph.KindGeneric:  "box",
}

// kindFills mirrors the SVG sink palette.
var kindFills = map[string]string{
	graph.KindProcess:  "#e0f2fe",
	graph.KindIO:       "#ede9fe",
	graph.KindDecision: "#fef3c7",
	graph.KindGeneric:  "#f1f5f9",
}

// ToDOT converts a graph to Graphviz DOT format. Nodes and edges appear in
// declaration order, so the output is deterministic.
func ToDOT(g *graph.Graph, opts Options) string {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontsize=16, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\nid: %s\nkind: %s", n.DisplayLabel(), n.ID, graph.NormalizeKind(n.Kind))
}

func fmtAttrs(n graph.Node, label string) []string {
	kind := graph.NormalizeKind(n.Kind)
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", kindShapes[kind]),
		fmt.Sprintf("fillcolor=%q", kindFills[kind]),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, dot string, format graphviz.Format, buf *bytes.Buffer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the graphviz SVG header so the document uses an
// origin-based viewBox with explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
