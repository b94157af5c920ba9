package layout

import "github.com/flowsketch/flowsketch/pkg/graph"

// Build runs the full layout pipeline on a validated graph: back-edge
// marking, layer assignment, row placement, and connector routing.
//
// Build is a pure function of its inputs. It never fails: an empty graph
// yields an empty Result, and every validated graph has a defined layout.
// Repeated calls with the same graph and config produce bit-identical
// geometry.
func Build(g *graph.Graph, cfg Config) *Result {
	cfg = cfg.withDefaults()

	if g.NodeCount() == 0 {
		return &Result{Nodes: map[string]PlacedNode{}}
	}

	t := traverse(g)
	layers := assignLayers(g, t)
	placed := placeRows(g, layers, t, cfg)
	edges := routeEdges(g, placed, t, cfg)

	res := &Result{
		Nodes: placed,
		Edges: edges,
		order: placementOrder(placed),
	}
	res.Width, res.Height = bounds(placed, edges)
	return res
}

// bounds returns the extent of all node boxes and connector points.
// Back-edge rails can reach past the last column, so edge points count too.
func bounds(placed map[string]PlacedNode, edges []RoutedEdge) (w, h float64) {
	for _, n := range placed {
		if r := n.Right(); r > w {
			w = r
		}
		if b := n.Bottom(); b > h {
			h = b
		}
	}
	for _, e := range edges {
		for _, p := range e.Points {
			if p.X > w {
				w = p.X
			}
			if p.Y > h {
				h = p.Y
			}
		}
	}
	return w, h
}
