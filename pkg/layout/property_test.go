package layout

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/flowsketch/flowsketch/pkg/graph"
)

// genGraph decodes a node count and a slice of encoded endpoint pairs into
// a valid graph, skipping self-loops.
func genGraph(numNodes int, rawEdges []int) (*graph.Graph, error) {
	nodes := make([]graph.Node, numNodes)
	for i := range nodes {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
	}
	var edges []graph.Edge
	for _, raw := range rawEdges {
		from := (raw / numNodes) % numNodes
		to := raw % numNodes
		if from == to {
			continue
		}
		edges = append(edges, graph.Edge{
			From: fmt.Sprintf("n%d", from),
			To:   fmt.Sprintf("n%d", to),
		})
	}
	return graph.Build(nodes, edges)
}

func TestLayoutInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	// Property 1: rows within each layer are contiguous from zero.
	properties.Property("rows are contiguous per layer", prop.ForAll(
		func(numNodes int, rawEdges []int) bool {
			g, err := genGraph(numNodes, rawEdges)
			if err != nil {
				return true
			}
			res := Build(g, Config{})

			rows := make(map[int]map[int]bool)
			for _, n := range res.Nodes {
				if rows[n.Layer] == nil {
					rows[n.Layer] = make(map[int]bool)
				}
				if rows[n.Layer][n.Row] {
					return false // duplicate row in layer
				}
				rows[n.Layer][n.Row] = true
			}
			for _, seen := range rows {
				for r := 0; r < len(seen); r++ {
					if !seen[r] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.SliceOf(gen.IntRange(0, 143)),
	))

	// Property 2: every non-back edge goes to a strictly later layer, and
	// every back edge to an earlier or equal one.
	properties.Property("non-back edges advance layers", prop.ForAll(
		func(numNodes int, rawEdges []int) bool {
			g, err := genGraph(numNodes, rawEdges)
			if err != nil {
				return true
			}
			res := Build(g, Config{})

			for _, e := range res.Edges {
				from, okFrom := res.Node(e.From)
				to, okTo := res.Node(e.To)
				if !okFrom || !okTo {
					return false
				}
				if e.Back {
					if to.Layer > from.Layer {
						return false
					}
				} else if to.Layer <= from.Layer {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.SliceOf(gen.IntRange(0, 143)),
	))

	// Property 3: layout is deterministic, repeated builds serialize to
	// identical bytes.
	properties.Property("repeated builds are bit-identical", prop.ForAll(
		func(numNodes int, rawEdges []int) bool {
			g, err := genGraph(numNodes, rawEdges)
			if err != nil {
				return true
			}
			first, err := MarshalResult(Build(g, Config{}))
			if err != nil {
				return false
			}
			second, err := MarshalResult(Build(g, Config{}))
			if err != nil {
				return false
			}
			return bytes.Equal(first, second)
		},
		gen.IntRange(1, 12),
		gen.SliceOf(gen.IntRange(0, 143)),
	))

	// Property 4: every input edge is routed with at least two points, and
	// the route starts and ends on the endpoints' bounding boxes.
	properties.Property("every edge is routed between its endpoints", prop.ForAll(
		func(numNodes int, rawEdges []int) bool {
			g, err := genGraph(numNodes, rawEdges)
			if err != nil {
				return true
			}
			res := Build(g, Config{})

			if len(res.Edges) != g.EdgeCount() {
				return false
			}
			for _, e := range res.Edges {
				if len(e.Points) < 2 {
					return false
				}
				from, okFrom := res.Node(e.From)
				to, okTo := res.Node(e.To)
				if !okFrom || !okTo {
					return false
				}
				if !onBoundary(from, e.Points[0]) || !onBoundary(to, e.Points[len(e.Points)-1]) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.SliceOf(gen.IntRange(0, 143)),
	))

	// Property 5: no two nodes overlap.
	properties.Property("node boxes are disjoint", prop.ForAll(
		func(numNodes int, rawEdges []int) bool {
			g, err := genGraph(numNodes, rawEdges)
			if err != nil {
				return true
			}
			res := Build(g, Config{})

			placed := res.NodesInOrder()
			for i := 0; i < len(placed); i++ {
				for j := i + 1; j < len(placed); j++ {
					a, b := placed[i], placed[j]
					if a.X < b.Right() && b.X < a.Right() &&
						a.Y < b.Bottom() && b.Y < a.Bottom() {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.SliceOf(gen.IntRange(0, 143)),
	))

	properties.TestingRun(t)
}

func onBoundary(n PlacedNode, p Point) bool {
	const eps = 1e-9
	onX := p.X >= n.X-eps && p.X <= n.Right()+eps
	onY := p.Y >= n.Y-eps && p.Y <= n.Bottom()+eps
	return onX && onY
}
