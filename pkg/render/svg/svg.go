// Package svg materializes layout results as SVG documents.
//
// The renderer consumes geometry verbatim: node boxes and connector
// polylines come straight from the layout result and are only translated to
// make room for the margin and any left-side back-edge rails.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/flowsketch/flowsketch/pkg/layout"
)

const (
	defaultMargin = 24.0
	labelWrapLen  = 22
	lineSpacing   = "1.2em"
)

// Option configures the SVG renderer.
type Option func(*renderer)

type renderer struct {
	theme  Theme
	margin float64
}

// WithTheme overrides the default palette.
func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t } }

// WithMargin sets the padding around the diagram in SVG units.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// Render produces a complete SVG document for the layout result.
// Output is deterministic: nodes render in placement order, edges in
// declaration order.
func Render(res *layout.Result, opts ...Option) []byte {
	r := renderer{theme: DefaultTheme(), margin: defaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	offX, offY, width, height := r.frame(res)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="%s"/>`+"\n",
		width, height, r.theme.Background)

	for _, n := range res.NodesInOrder() {
		r.renderNode(&buf, n, offX, offY)
	}
	for _, e := range res.Edges {
		r.renderEdge(&buf, e, offX, offY)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frame computes the translation offsets and the outer document size.
// Left-side rails and node boxes can have negative coordinates, so the
// offset absorbs the most negative extent in addition to the margin.
func (r renderer) frame(res *layout.Result) (offX, offY, width, height float64) {
	minX, minY := 0.0, 0.0
	for _, n := range res.Nodes {
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
	}
	for _, e := range res.Edges {
		for _, p := range e.Points {
			if p.X < minX {
				minX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
		}
	}
	offX = r.margin - minX
	offY = r.margin - minY
	width = res.Width - minX + 2*r.margin
	height = res.Height - minY + 2*r.margin
	return offX, offY, width, height
}

func (r renderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" markerWidth="10" markerHeight="7" refX="10" refY="3.5" orient="auto" markerUnits="strokeWidth">
      <path d="M0,0 L0,7 L10,3.5 z" fill="%s"/>
    </marker>
  </defs>
`, r.theme.Edge.Stroke)
}

func (r renderer) renderNode(buf *bytes.Buffer, n layout.PlacedNode, offX, offY float64) {
	style := r.theme.styleFor(n.Kind)

	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
		n.X+offX, n.Y+offY, n.Width, n.Height,
		r.theme.CornerRadius, r.theme.CornerRadius,
		style.Fill, style.Stroke, style.StrokeWidth)

	r.renderLabel(buf, n, style, offX, offY)
}

func (r renderer) renderLabel(buf *bytes.Buffer, n layout.PlacedNode, style KindStyle, offX, offY float64) {
	cx, cy := n.CenterX()+offX, n.CenterY()+offY
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="%gpx" text-anchor="middle" dominant-baseline="middle">`,
		cx, cy, style.Text, r.theme.FontFamily, r.theme.FontSize)

	lines := wrapLabel(n.Label, labelWrapLen)
	if len(lines) == 1 {
		buf.WriteString(escape(lines[0]))
	} else {
		for i, line := range lines {
			dy := "0"
			if i > 0 {
				dy = lineSpacing
			}
			fmt.Fprintf(buf, `<tspan x="%.2f" dy="%s">%s</tspan>`, cx, dy, escape(line))
		}
	}
	buf.WriteString("</text>\n")
}

func (r renderer) renderEdge(buf *bytes.Buffer, e layout.RoutedEdge, offX, offY float64) {
	points := make([]string, len(e.Points))
	for i, p := range e.Points {
		points[i] = fmt.Sprintf("%.2f,%.2f", p.X+offX, p.Y+offY)
	}

	dash := ""
	if e.Back && r.theme.Edge.BackDash != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, r.theme.Edge.BackDash)
	}
	fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%g"%s marker-end="url(#arrow)"/>`+"\n",
		strings.Join(points, " "), r.theme.Edge.Stroke, r.theme.Edge.StrokeWidth, dash)

	if e.Label != "" {
		r.renderEdgeLabel(buf, e, offX, offY)
	}
}

// renderEdgeLabel places the label above the midpoint of the middle segment.
func (r renderer) renderEdgeLabel(buf *bytes.Buffer, e layout.RoutedEdge, offX, offY float64) {
	mid := len(e.Points) / 2
	a, b := e.Points[mid-1], e.Points[mid]
	x := (a.X+b.X)/2 + offX
	y := (a.Y+b.Y)/2 + offY - 6

	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="%gpx" text-anchor="middle">%s</text>`+"\n",
		x, y, r.theme.Edge.LabelColor, r.theme.FontFamily, r.theme.FontSize*0.75, escape(e.Label))
}

// wrapLabel greedily packs words into lines of at most maxLen characters.
// A single word longer than maxLen becomes its own line.
func wrapLabel(label string, maxLen int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current []string
	for _, word := range words {
		tentative := strings.Join(append(current, word), " ")
		if len(tentative) <= maxLen {
			current = append(current, word)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		} else {
			lines = append(lines, word)
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
