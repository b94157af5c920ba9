package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/layout"
)

func buildResult(t *testing.T, nodes []graph.Node, edges []graph.Edge) *layout.Result {
	t.Helper()
	g, err := graph.Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return layout.Build(g, layout.Config{})
}

func TestRender_Document(t *testing.T) {
	res := buildResult(t,
		[]graph.Node{
			{ID: "in", Kind: "io", Label: "Input"},
			{ID: "work", Kind: "process", Label: "Work"},
		},
		[]graph.Edge{{From: "in", To: "work", Label: "raw"}},
	)

	out := string(Render(res))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<marker id="arrow"`,
		`marker-end="url(#arrow)"`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Two node rects plus the background rect.
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Errorf("got %d rects, want 3", got)
	}
	if got := strings.Count(out, "<polyline"); got != 1 {
		t.Errorf("got %d polylines, want 1", got)
	}

	// Kind palette is applied.
	if !strings.Contains(out, `fill="#ede9fe"`) {
		t.Error("io node missing its fill")
	}
	if !strings.Contains(out, `fill="#e0f2fe"`) {
		t.Error("process node missing its fill")
	}

	// Edge label is rendered.
	if !strings.Contains(out, ">raw</text>") {
		t.Error("edge label not rendered")
	}
}

func TestRender_UnknownKindFallsBack(t *testing.T) {
	res := buildResult(t, []graph.Node{{ID: "a", Kind: "satellite", Label: "A"}}, nil)
	out := string(Render(res))
	if !strings.Contains(out, `fill="#f1f5f9"`) {
		t.Error("unknown kind did not fall back to the generic style")
	}
}

func TestRender_BackEdgeDashed(t *testing.T) {
	res := buildResult(t,
		[]graph.Node{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		[]graph.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	)
	out := string(Render(res))
	if got := strings.Count(out, `stroke-dasharray="6 4"`); got != 1 {
		t.Errorf("got %d dashed edges, want 1", got)
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	res := buildResult(t, []graph.Node{{ID: "a", Label: "Fetch <orders> & more"}}, nil)
	out := string(Render(res))
	if strings.Contains(out, "<orders>") {
		t.Error("label was not escaped")
	}
	if !strings.Contains(out, "&lt;orders&gt; &amp; more") {
		t.Error("escaped label not found")
	}
}

func TestRender_MultiLineLabelUsesTspans(t *testing.T) {
	res := buildResult(t, []graph.Node{{ID: "a", Label: "a rather long pipeline stage label"}}, nil)
	out := string(Render(res))
	if !strings.Contains(out, "<tspan") {
		t.Error("long label not wrapped into tspans")
	}
}

func TestRender_Deterministic(t *testing.T) {
	res := buildResult(t,
		[]graph.Node{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}},
		[]graph.Edge{{From: "a", To: "b"}, {From: "a", To: "c"}},
	)
	first := Render(res)
	for i := 0; i < 5; i++ {
		if !bytes.Equal(first, Render(res)) {
			t.Fatal("render output differs between runs")
		}
	}
}

func TestRender_LeftRailShiftsFrame(t *testing.T) {
	g, err := graph.Build(
		[]graph.Node{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		[]graph.Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	cfg.BackEdgeSide = layout.SideLeft
	res := layout.Build(g, cfg)

	out := string(Render(res))
	if strings.Contains(out, `points="-`) {
		t.Error("negative coordinates leaked into the document")
	}
}

func TestRender_WideLabelsStayInFrame(t *testing.T) {
	wide := "a pipeline stage label of forty glyphs!!"
	g, err := graph.Build(
		[]graph.Node{{ID: "a", Label: wide}, {ID: "b", Label: wide}},
		[]graph.Edge{{From: "a", To: "b"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	cfg.SizeFromLabel = true
	res := layout.Build(g, cfg)

	out := string(Render(res))
	if strings.Contains(out, `x="-`) {
		t.Error("node box rendered left of the document edge")
	}
}

func TestRender_NegativeNodeBoxShiftsFrame(t *testing.T) {
	// Loaded layouts can carry arbitrary geometry; a box left of the
	// origin must be absorbed by the frame offset like rail points are.
	doc := `{
		"nodes": {"a": {"id": "a", "label": "A", "layer": 0, "row": 0,
			"x": -80, "y": 0, "width": 320, "height": 60}},
		"edges": [],
		"width": 240,
		"height": 60
	}`
	res, err := layout.ReadResult(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	out := string(Render(res))
	if strings.Contains(out, `x="-`) {
		t.Error("negative node coordinates leaked into the document")
	}
	// offX = margin - minX, so the box lands exactly on the margin.
	if !strings.Contains(out, `<rect x="24.00"`) {
		t.Error("node box not shifted to the margin")
	}
}

func TestWrapLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  []string
	}{
		{"empty", "", []string{""}},
		{"short", "Load data", []string{"Load data"}},
		{"wraps at limit", "a rather long pipeline stage label", []string{"a rather long pipeline", "stage label"}},
		{"single oversize word", "supercalifragilisticexpialidocious", []string{"supercalifragilisticexpialidocious"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapLabel(tt.label, 22)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapLabel() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
