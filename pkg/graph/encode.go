package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// graphDoc is the canonical wire format for diagram graphs.
// It is human-readable and round-trips exactly: read → write → re-read
// produces an identical graph.
type graphDoc struct {
	Title string    `json:"title,omitempty" yaml:"title,omitempty"`
	Nodes []nodeDoc `json:"nodes" yaml:"nodes"`
	Edges []edgeDoc `json:"edges,omitempty" yaml:"edges,omitempty"`
}

type nodeDoc struct {
	ID    string `json:"id" yaml:"id"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

type edgeDoc struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

func toDoc(g *Graph) graphDoc {
	doc := graphDoc{
		Nodes: make([]nodeDoc, 0, g.NodeCount()),
		Edges: make([]edgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeDoc{ID: n.ID, Kind: n.Kind, Label: n.Label})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edgeDoc{Source: e.From, Target: e.To, Label: e.Label})
	}
	return doc
}

func fromDoc(doc graphDoc) (*Graph, error) {
	nodes := make([]Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = Node{ID: n.ID, Kind: n.Kind, Label: n.Label}
	}
	edges := make([]Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		edges[i] = Edge{From: e.Source, To: e.Target, Label: e.Label}
	}
	return Build(nodes, edges)
}

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "kind": "io", "label": "Ingest"}],
//	  "edges": [{"source": "a", "target": "b", "label": "raw"}]
//	}
//
// Each node must have an "id"; "kind" and "label" are optional. Each edge
// references node IDs via "source" and "target". Validation errors from
// Build are returned unchanged, so errors.Is works against the pkg/graph
// sentinels.
func ReadJSON(r io.Reader) (*Graph, error) {
	var doc graphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromDoc(doc)
}

// WriteJSON writes the graph as indented JSON to w.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDoc(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadYAML decodes a YAML graph from r. The document shape matches ReadJSON.
func ReadYAML(r io.Reader) (*Graph, error) {
	var doc graphDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromDoc(doc)
}

// WriteYAML writes the graph as YAML to w.
func WriteYAML(g *Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(toDoc(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadFile reads a graph from path, choosing the decoder by file extension
// (.yaml/.yml for YAML, anything else JSON).
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

// WriteFile writes a graph to path, choosing the encoder by file extension.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAML(g, f)
	default:
		return WriteJSON(g, f)
	}
}

// MarshalJSON converts a graph to JSON bytes. Output is deterministic:
// nodes in insertion order, edges in declaration order.
func MarshalJSON(g *Graph) ([]byte, error) {
	var sb strings.Builder
	if err := WriteJSON(g, &sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
