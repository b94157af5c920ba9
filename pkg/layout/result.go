package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Point is a single coordinate on a connector path.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacedNode is a node with final layout geometry. It carries kind and label
// so the renderer never needs the original Graph.
type PlacedNode struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind,omitempty"`
	Label  string  `json:"label"`
	Layer  int     `json:"layer"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x-coordinate of the node's right edge.
func (n PlacedNode) Right() float64 { return n.X + n.Width }

// Bottom returns the y-coordinate of the node's bottom edge.
func (n PlacedNode) Bottom() float64 { return n.Y + n.Height }

// CenterX returns the horizontal center of the node box.
func (n PlacedNode) CenterX() float64 { return n.X + n.Width/2 }

// CenterY returns the vertical center of the node box.
func (n PlacedNode) CenterY() float64 { return n.Y + n.Height/2 }

// RoutedEdge is an edge with a computed connector path. Points always run
// in the edge's logical direction (source first), even for back-edges,
// whose distinct arc rendering is a style concern.
type RoutedEdge struct {
	From   string  `json:"source"`
	To     string  `json:"target"`
	Label  string  `json:"label,omitempty"`
	Points []Point `json:"points"`
	Back   bool    `json:"isBackEdge,omitempty"`
}

// Result is the immutable output of a layout run: final node geometry and
// routed connector paths, decoupled from the input Graph. It is the sole
// artifact handed to renderers; geometry is never re-derived downstream.
type Result struct {
	// Nodes maps node ID to its placed geometry.
	Nodes map[string]PlacedNode `json:"nodes"`
	// Edges holds routed edges in declaration order.
	Edges []RoutedEdge `json:"edges"`
	// Width and Height are the extents of the occupied area, including
	// back-edge rails.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	order []string // node IDs sorted by (layer, row)
}

// Node returns the placed node with the given ID and true, or false.
func (r *Result) Node(id string) (PlacedNode, bool) {
	n, ok := r.Nodes[id]
	return n, ok
}

// NodesInOrder returns all placed nodes sorted by layer, then row.
// The order is deterministic and matches render stacking order.
func (r *Result) NodesInOrder() []PlacedNode {
	nodes := make([]PlacedNode, len(r.order))
	for i, id := range r.order {
		nodes[i] = r.Nodes[id]
	}
	return nodes
}

// Empty reports whether the layout contains no nodes.
func (r *Result) Empty() bool { return len(r.Nodes) == 0 }

// resultDoc is the serialization shape. The node IDs list pins the
// deterministic (layer, row) iteration order across a round trip.
type resultDoc struct {
	Nodes  map[string]PlacedNode `json:"nodes"`
	Edges  []RoutedEdge          `json:"edges"`
	Width  float64               `json:"width"`
	Height float64               `json:"height"`
	Order  []string              `json:"order,omitempty"`
}

// MarshalResult converts a Result to JSON bytes. Map keys are emitted
// sorted, so output for identical layouts is byte-identical.
func MarshalResult(r *Result) ([]byte, error) {
	doc := resultDoc{
		Nodes:  r.Nodes,
		Edges:  r.Edges,
		Width:  r.Width,
		Height: r.Height,
		Order:  r.order,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadResult decodes a serialized Result from r.
func ReadResult(rd io.Reader) (*Result, error) {
	var doc resultDoc
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	res := &Result{
		Nodes:  doc.Nodes,
		Edges:  doc.Edges,
		Width:  doc.Width,
		Height: doc.Height,
		order:  doc.Order,
	}
	if res.Nodes == nil {
		res.Nodes = map[string]PlacedNode{}
	}
	if len(res.order) != len(res.Nodes) {
		res.order = placementOrder(res.Nodes)
	}
	return res, nil
}

// placementOrder sorts node IDs by (layer, row). Layer assignment guarantees
// the pair is unique per node, so the order is total and deterministic.
func placementOrder(nodes map[string]PlacedNode) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		na, nb := nodes[a], nodes[b]
		if na.Layer != nb.Layer {
			return na.Layer - nb.Layer
		}
		return na.Row - nb.Row
	})
	return ids
}
