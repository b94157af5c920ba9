package layout

import "github.com/flowsketch/flowsketch/pkg/graph"

// traversal is the result of the single depth-first pass over the graph.
// Everything downstream derives its ordering from it: back marks which edge
// indices close a cycle, preorder is the first-encounter order of node IDs
// (the initial in-layer ordering), and postorder reversed is a topological
// order of the forward edge subset.
type traversal struct {
	back      []bool
	preorder  []string
	postorder []string
}

// halfEdge pairs an adjacency target with its index into the declaration
// edge list, so back-edge marking refers to concrete edges rather than node
// pairs (parallel edges are classified independently).
type halfEdge struct {
	to  string
	idx int
}

// traverse runs a depth-first search over all nodes in declaration order,
// tracking the active recursion path. An edge whose target is currently on
// the path is marked back. Every node is visited exactly once, including
// isolated nodes, so preorder covers the whole graph.
func traverse(g *graph.Graph) traversal {
	const (
		white = iota
		gray
		black
	)

	edges := g.Edges()
	adj := make(map[string][]halfEdge, g.NodeCount())
	for i, e := range edges {
		adj[e.From] = append(adj[e.From], halfEdge{to: e.To, idx: i})
	}

	t := traversal{
		back:      make([]bool, len(edges)),
		preorder:  make([]string, 0, g.NodeCount()),
		postorder: make([]string, 0, g.NodeCount()),
	}
	color := make(map[string]int, g.NodeCount())

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		t.preorder = append(t.preorder, id)
		for _, he := range adj[id] {
			switch color[he.to] {
			case white:
				dfs(he.to)
			case gray:
				t.back[he.idx] = true
			}
		}
		color[id] = black
		t.postorder = append(t.postorder, id)
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return t
}
