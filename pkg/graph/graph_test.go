package graph

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBuild_Valid(t *testing.T) {
	g, err := Build(
		[]Node{{ID: "a", Kind: KindIO}, {ID: "b"}, {ID: "c", Kind: "decision", Label: "Check"}},
		[]Edge{{From: "a", To: "b"}, {From: "b", To: "c", Label: "ok"}},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBuild_DuplicateNodeID(t *testing.T) {
	_, err := Build([]Node{{ID: "a"}, {ID: "a"}}, nil)
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("Build() error = %v, want ErrDuplicateNodeID", err)
	}
}

func TestBuild_EmptyNodeID(t *testing.T) {
	_, err := Build([]Node{{ID: ""}}, nil)
	if !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("Build() error = %v, want ErrInvalidNodeID", err)
	}
}

func TestBuild_DanglingEdge(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "a"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]Node{{ID: "a"}}, []Edge{tt.edge})
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild_SelfLoop(t *testing.T) {
	_, err := Build([]Node{{ID: "a"}}, []Edge{{From: "a", To: "a"}})
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Build() error = %v, want ErrSelfLoop", err)
	}
}

func TestGraph_OrderPreservation(t *testing.T) {
	g, err := Build(
		[]Node{{ID: "z"}, {ID: "a"}, {ID: "m"}},
		[]Edge{{From: "z", To: "m"}, {From: "a", To: "m"}},
	)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantIDs := []string{"z", "a", "m"}
	for i, id := range g.NodeIDs() {
		if id != wantIDs[i] {
			t.Errorf("NodeIDs()[%d] = %q, want %q", i, id, wantIDs[i])
		}
	}

	edges := g.Edges()
	if edges[0].From != "z" || edges[1].From != "a" {
		t.Errorf("Edges() order = %v, want declaration order", edges)
	}

	parents := g.Parents("m")
	if len(parents) != 2 || parents[0] != "z" || parents[1] != "a" {
		t.Errorf("Parents(m) = %v, want [z a]", parents)
	}
}

func TestGraph_Sources(t *testing.T) {
	g, _ := Build(
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Edge{{From: "a", To: "c"}, {From: "b", To: "c"}},
	)
	sources := g.Sources()
	if len(sources) != 2 || sources[0] != "a" || sources[1] != "b" {
		t.Errorf("Sources() = %v, want [a b]", sources)
	}
}

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"process", KindProcess},
		{"io", KindIO},
		{"decision", KindDecision},
		{"database", KindGeneric},
		{"", KindGeneric},
	}
	for _, tt := range tests {
		if got := NormalizeKind(tt.in); got != tt.want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNode_DisplayLabel(t *testing.T) {
	if got := (Node{ID: "a", Label: "Alpha"}).DisplayLabel(); got != "Alpha" {
		t.Errorf("DisplayLabel() = %q, want Alpha", got)
	}
	if got := (Node{ID: "a"}).DisplayLabel(); got != "a" {
		t.Errorf("DisplayLabel() = %q, want a", got)
	}
}

func TestReadJSON_RoundTrip(t *testing.T) {
	g, _ := Build(
		[]Node{{ID: "in", Kind: "io", Label: "Input"}, {ID: "proc"}},
		[]Edge{{From: "in", To: "proc", Label: "raw"}},
	)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Errorf("round trip lost data: %d nodes, %d edges", got.NodeCount(), got.EdgeCount())
	}
	n, ok := got.Node("in")
	if !ok || n.Kind != "io" || n.Label != "Input" {
		t.Errorf("Node(in) = %+v, want kind=io label=Input", n)
	}
	if got.Edges()[0].Label != "raw" {
		t.Errorf("edge label = %q, want raw", got.Edges()[0].Label)
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"nodes": [{"id": "a"}, {"id": "a"}]}`))
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("ReadJSON() error = %v, want ErrDuplicateNodeID", err)
	}
}

func TestReadYAML(t *testing.T) {
	in := `
nodes:
  - id: ingest
    kind: io
  - id: train
edges:
  - source: ingest
    target: train
`
	g, err := ReadYAML(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("ReadYAML() = %d nodes, %d edges, want 2/1", g.NodeCount(), g.EdgeCount())
	}
}
