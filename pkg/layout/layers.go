package layout

import "github.com/flowsketch/flowsketch/pkg/graph"

// assignLayers computes the longest-path layer for every node over the
// forward (non-back) edge subset: layer(v) = 0 when v has no incoming
// forward edge, otherwise 1 + max(layer(u)) over all forward edges u→v.
//
// Nodes are processed in reverse postorder of the marking traversal, which
// is a topological order of the forward subset, so every predecessor layer
// is final before it is read. Isolated nodes and nodes reachable only via
// back-edges stay at layer 0.
func assignLayers(g *graph.Graph, t traversal) map[string]int {
	incoming := make(map[string][]string, g.NodeCount())
	for i, e := range g.Edges() {
		if t.back[i] {
			continue
		}
		incoming[e.To] = append(incoming[e.To], e.From)
	}

	layers := make(map[string]int, g.NodeCount())
	for i := len(t.postorder) - 1; i >= 0; i-- {
		id := t.postorder[i]
		layer := 0
		for _, parent := range incoming[id] {
			if l := layers[parent] + 1; l > layer {
				layer = l
			}
		}
		layers[id] = layer
	}
	return layers
}

// maxLayer returns the highest assigned layer, or -1 for an empty map.
func maxLayer(layers map[string]int) int {
	max := -1
	for _, l := range layers {
		if l > max {
			max = l
		}
	}
	return max
}
