package graph_test

import (
	"fmt"

	"github.com/flowsketch/flowsketch/pkg/graph"
)

func ExampleBuild() {
	// A three-stage workflow: ingest → train → evaluate
	g, err := graph.Build(
		[]graph.Node{
			{ID: "ingest", Kind: graph.KindIO, Label: "Data Ingest"},
			{ID: "train", Kind: graph.KindProcess, Label: "Model Training"},
			{ID: "evaluate", Kind: graph.KindDecision, Label: "Evaluation"},
		},
		[]graph.Edge{
			{From: "ingest", To: "train"},
			{From: "train", To: "evaluate", Label: "checkpoints"},
		},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of ingest:", g.Children("ingest"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of ingest: [train]
}

func ExampleBuild_selfLoop() {
	// Self-loops are configuration errors, caught at construction
	_, err := graph.Build(
		[]graph.Node{{ID: "retry"}},
		[]graph.Edge{{From: "retry", To: "retry"}},
	)
	fmt.Println(err)
	// Output:
	// edge retry→retry: self-loop edge
}

func ExampleNormalizeKind() {
	fmt.Println(graph.NormalizeKind("decision"))
	fmt.Println(graph.NormalizeKind("spaceship"))
	// Output:
	// decision
	// generic
}
