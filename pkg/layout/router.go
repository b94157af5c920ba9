package layout

import (
	"math"

	"github.com/flowsketch/flowsketch/pkg/graph"
)

// routeEdges computes a polyline path for every edge, in declaration order.
// Forward edges run right-center to left-center with horizontal-then-vertical
// bends; same-layer edges bulge out beside the column; back-edges travel on a
// rail along the configured diagram side. Every path has at least two points.
func routeEdges(g *graph.Graph, placed map[string]PlacedNode, t traversal, cfg Config) []RoutedEdge {
	maxRight := 0.0
	minLeft := 0.0
	for _, n := range placed {
		if r := n.Right(); r > maxRight {
			maxRight = r
		}
		if n.X < minLeft {
			minLeft = n.X
		}
	}

	edges := g.Edges()
	routed := make([]RoutedEdge, len(edges))
	for i, e := range edges {
		src := placed[e.From]
		tgt := placed[e.To]

		re := RoutedEdge{From: e.From, To: e.To, Label: e.Label}
		switch {
		case t.back[i]:
			re.Back = true
			re.Points = routeBack(src, tgt, maxRight, minLeft, i, cfg)
		case src.Layer == tgt.Layer:
			re.Points = routeSameLayer(src, tgt, cfg)
		default:
			re.Points = routeForward(src, tgt, placed, cfg)
		}
		routed[i] = re
	}
	return routed
}

// routeForward connects the source's right-center to the target's
// left-center. When the endpoints share a y-coordinate the path is a
// straight segment; otherwise two bend points at the horizontal midpoint
// make an orthogonal dogleg. If the dogleg crosses a node box in a layer
// strictly between the endpoints, the bends are offset vertically by half a
// row pitch and re-tested once. The avoidance is best-effort, not a
// planarity guarantee.
func routeForward(src, tgt PlacedNode, placed map[string]PlacedNode, cfg Config) []Point {
	start := Point{X: src.Right(), Y: src.CenterY()}
	end := Point{X: tgt.X, Y: tgt.CenterY()}
	midX := (start.X + end.X) / 2

	if start.Y == end.Y {
		straight := []Point{start, end}
		if !pathHitsIntermediate(straight, src, tgt, placed) {
			return straight
		}
		// Detour around whatever sits on the straight line. The single
		// vertical offset is the whole avoidance budget; if the detour
		// still collides it is kept anyway, since the straight line is
		// known to be worse.
		return []Point{start, {X: midX, Y: start.Y + cfg.rowPitch()/2}, end}
	}

	path := []Point{start, {X: midX, Y: start.Y}, {X: midX, Y: end.Y}, end}
	if !pathHitsIntermediate(path, src, tgt, placed) {
		return path
	}

	dy := cfg.rowPitch() / 2
	if end.Y < start.Y {
		dy = -dy
	}
	shifted := []Point{start, {X: midX, Y: start.Y + dy}, {X: midX, Y: end.Y + dy}, end}
	if !pathHitsIntermediate(shifted, src, tgt, placed) {
		return shifted
	}
	return path
}

// routeSameLayer connects two nodes in the same column with a bulge beside
// it, sized proportionally to the row distance so nested arcs stay apart.
func routeSameLayer(src, tgt PlacedNode, cfg Config) []Point {
	rowDist := math.Abs(float64(tgt.Row - src.Row))
	bulge := cfg.LayerGap/2 + rowDist*cfg.LayerGap/4

	edge := math.Max(src.Right(), tgt.Right())
	x := edge + bulge
	return []Point{
		{X: src.Right(), Y: src.CenterY()},
		{X: x, Y: src.CenterY()},
		{X: x, Y: tgt.CenterY()},
		{X: tgt.Right(), Y: tgt.CenterY()},
	}
}

// routeBack routes a cycle-closing edge as a wide arc on the configured
// diagram side, from the source's boundary back to the target's. The edge
// index spaces parallel rails apart so stacked back-edges stay legible.
func routeBack(src, tgt PlacedNode, maxRight, minLeft float64, idx int, cfg Config) []Point {
	spacing := cfg.LayerGap / 2
	if cfg.BackEdgeSide == SideLeft {
		rail := minLeft - spacing - float64(idx%4)*spacing/2
		return []Point{
			{X: src.X, Y: src.CenterY()},
			{X: rail, Y: src.CenterY()},
			{X: rail, Y: tgt.CenterY()},
			{X: tgt.X, Y: tgt.CenterY()},
		}
	}
	rail := maxRight + spacing + float64(idx%4)*spacing/2
	return []Point{
		{X: src.Right(), Y: src.CenterY()},
		{X: rail, Y: src.CenterY()},
		{X: rail, Y: tgt.CenterY()},
		{X: tgt.Right(), Y: tgt.CenterY()},
	}
}

// pathHitsIntermediate tests every path segment against the bounding boxes
// of nodes in layers strictly between src and tgt.
func pathHitsIntermediate(path []Point, src, tgt PlacedNode, placed map[string]PlacedNode) bool {
	lo, hi := src.Layer, tgt.Layer
	if lo > hi {
		lo, hi = hi, lo
	}
	for _, n := range placed {
		if n.Layer <= lo || n.Layer >= hi {
			continue
		}
		for s := 0; s+1 < len(path); s++ {
			if segmentHitsBox(path[s], path[s+1], n) {
				return true
			}
		}
	}
	return false
}

// segmentHitsBox reports whether the axis-aligned segment a→b intersects
// the node's bounding box. The router only produces horizontal and vertical
// segments, so an interval overlap test suffices.
func segmentHitsBox(a, b Point, n PlacedNode) bool {
	x1, x2 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y1, y2 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return x1 < n.Right() && x2 > n.X && y1 < n.Bottom() && y2 > n.Y
}
