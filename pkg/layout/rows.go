package layout

import (
	"sort"

	"github.com/flowsketch/flowsketch/pkg/graph"
)

// placeRows orders each layer and converts layer/row indices to pixel
// geometry. Layers are processed left to right exactly once (plus optional
// refinement sweeps): the initial in-layer order is first-encounter order
// from the marking traversal, then a single barycenter pass reorders nodes
// by the mean row of their predecessors in the immediately preceding layer.
// Nodes with no such predecessor keep their relative order and are placed
// after all nodes that have a barycenter.
//
// The returned map assigns every node a contiguous 0-based row within its
// layer and a bounding box on the Config grid.
func placeRows(g *graph.Graph, layers map[string]int, t traversal, cfg Config) map[string]PlacedNode {
	byLayer := groupByLayer(layers, t.preorder)
	backSet := backEdgeSet(g, t)

	for pass := 0; pass <= cfg.RefinePasses; pass++ {
		for l := 1; l < len(byLayer); l++ {
			reorderByBarycenter(g, byLayer, layers, backSet, l)
		}
	}

	// Column widths grow to the widest node in each layer, so label-derived
	// boxes never spill into the neighboring column.
	sizes := make(map[string]Size, g.NodeCount())
	colWidth := make([]float64, len(byLayer))
	for l, ids := range byLayer {
		colWidth[l] = cfg.NodeWidth
		for _, id := range ids {
			n, _ := g.Node(id)
			s := cfg.sizeFor(n)
			sizes[id] = s
			if s.Width > colWidth[l] {
				colWidth[l] = s.Width
			}
		}
	}
	colX := make([]float64, len(byLayer))
	for l := 1; l < len(byLayer); l++ {
		colX[l] = colX[l-1] + colWidth[l-1] + cfg.LayerGap
	}

	placed := make(map[string]PlacedNode, g.NodeCount())
	for l, ids := range byLayer {
		for row, id := range ids {
			n, _ := g.Node(id)
			size := sizes[id]
			placed[id] = PlacedNode{
				ID:     n.ID,
				Kind:   n.Kind,
				Label:  n.DisplayLabel(),
				Layer:  l,
				Row:    row,
				X:      colX[l] + (colWidth[l]-size.Width)/2,
				Y:      float64(row) * cfg.rowPitch(),
				Width:  size.Width,
				Height: size.Height,
			}
		}
	}
	return placed
}

// groupByLayer buckets node IDs by layer in traversal preorder.
func groupByLayer(layers map[string]int, preorder []string) [][]string {
	byLayer := make([][]string, maxLayer(layers)+1)
	for _, id := range preorder {
		l := layers[id]
		byLayer[l] = append(byLayer[l], id)
	}
	return byLayer
}

// reorderByBarycenter sorts layer l by the mean row index of each node's
// forward predecessors in layer l-1. The sort is stable, so equal
// barycenters and nodes without one keep their initial relative order.
func reorderByBarycenter(g *graph.Graph, byLayer [][]string, layers map[string]int, backSet map[edgeKey]bool, l int) {
	prevRow := make(map[string]int, len(byLayer[l-1]))
	for row, id := range byLayer[l-1] {
		prevRow[id] = row
	}

	type keyed struct {
		id   string
		bary float64
		has  bool
	}
	ids := byLayer[l]
	keys := make([]keyed, len(ids))
	for i, id := range ids {
		sum, count := 0.0, 0
		for _, parent := range g.Parents(id) {
			if layers[parent] != l-1 || backSet[edgeKey{parent, id}] {
				continue
			}
			sum += float64(prevRow[parent])
			count++
		}
		keys[i] = keyed{id: id}
		if count > 0 {
			keys[i].bary = sum / float64(count)
			keys[i].has = true
		}
	}

	sort.SliceStable(keys, func(a, b int) bool {
		if keys[a].has != keys[b].has {
			return keys[a].has
		}
		if !keys[a].has {
			return false
		}
		return keys[a].bary < keys[b].bary
	})

	for i, k := range keys {
		ids[i] = k.id
	}
}

// edgeKey identifies an edge by its endpoints for barycenter filtering.
// Parallel edges collapse to one key, which is harmless here: if any edge
// between a pair is a back-edge, layering already placed the pair so that
// no forward edge between them spans l-1 → l.
type edgeKey struct {
	from, to string
}

func backEdgeSet(g *graph.Graph, t traversal) map[edgeKey]bool {
	set := make(map[edgeKey]bool)
	for i, e := range g.Edges() {
		if t.back[i] {
			set[edgeKey{e.From, e.To}] = true
		}
	}
	return set
}
