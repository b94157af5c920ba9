// Package parse turns textual diagram specs into graphs.
//
// The spec format is a small markdown dialect, so diagrams can live inside a
// README or a prompt without extra tooling:
//
//	# Title
//	Scientific Workflow
//
//	## Nodes
//	- ingest | Data Ingest | io
//	- train | Model Training
//	- evaluate | Evaluation | decision
//
//	## Edges
//	- ingest -> train
//	- train -> evaluate | accuracy report
//
// Node bullets are "id | label | kind" with the kind optional, edge bullets
// are "src -> tgt | label" with the label optional. Free text before the
// first section becomes the description unless an explicit "## Description"
// section is present.
package parse

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/flowsketch/flowsketch/pkg/errors"
	"github.com/flowsketch/flowsketch/pkg/graph"
)

// Config controls how textual specs are interpreted.
type Config struct {
	// DefaultKind is assigned to node bullets that omit a kind.
	// Empty means "process".
	DefaultKind string
}

func (c Config) defaultKind() string {
	if c.DefaultKind == "" {
		return graph.KindProcess
	}
	return c.DefaultKind
}

// Spec is a parsed diagram specification.
type Spec struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Nodes       []graph.Node `json:"nodes"`
	Edges       []graph.Edge `json:"edges"`
}

// Graph builds a validated graph from the spec's nodes and edges.
func (s *Spec) Graph() (*graph.Graph, error) {
	return graph.Build(s.Nodes, s.Edges)
}

var (
	nodeLineRegex = regexp.MustCompile(`^[-*]\s*(?P<id>[\w-]+)\s*\|\s*(?P<label>[^|]+?)(?:\s*\|\s*(?P<kind>[^|]+))?\s*$`)
	edgeLineRegex = regexp.MustCompile(`^[-*]\s*(?P<src>[\w-]+)\s*->\s*(?P<tgt>[\w-]+)(?:\s*\|\s*(?P<label>.+))?\s*$`)
)

// line is a spec line with its 1-based position, kept for error reporting.
type line struct {
	num  int
	text string
}

// Parse parses a diagram spec. A spec without a Nodes section is invalid.
func Parse(text string, cfg Config) (*Spec, error) {
	sections := splitSections(text)

	spec := &Spec{
		Title:       joinSection(sections["title"]),
		Description: joinSection(sections["description"]),
	}
	if err := errors.ValidateDiagramTitle(spec.Title); err != nil {
		return nil, err
	}

	nodeLines, ok := sections["nodes"]
	if !ok || len(bulletLines(nodeLines)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "spec must include a Nodes section")
	}

	for _, l := range bulletLines(nodeLines) {
		n, err := parseNodeLine(l, cfg)
		if err != nil {
			return nil, err
		}
		spec.Nodes = append(spec.Nodes, n)
	}
	for _, l := range bulletLines(sections["edges"]) {
		e, err := parseEdgeLine(l)
		if err != nil {
			return nil, err
		}
		spec.Edges = append(spec.Edges, e)
	}

	if _, err := graph.Build(spec.Nodes, spec.Edges); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid spec graph")
	}
	return spec, nil
}

// ParseFile reads and parses a spec file.
func ParseFile(path string, cfg Config) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read spec %s", path)
	}
	spec, err := Parse(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

func parseNodeLine(l line, cfg Config) (graph.Node, error) {
	m := nodeLineRegex.FindStringSubmatch(l.text)
	if m == nil {
		return graph.Node{}, errors.New(errors.ErrCodeParse, "line %d: invalid node line: %q", l.num, l.text)
	}
	// The bullet regex constrains the ID charset but not its length or
	// first character.
	id := m[nodeLineRegex.SubexpIndex("id")]
	if err := errors.ValidateNodeID(id); err != nil {
		return graph.Node{}, fmt.Errorf("line %d: %w", l.num, err)
	}
	kind := strings.TrimSpace(m[nodeLineRegex.SubexpIndex("kind")])
	if kind == "" {
		kind = cfg.defaultKind()
	}
	return graph.Node{
		ID:    id,
		Label: strings.TrimSpace(m[nodeLineRegex.SubexpIndex("label")]),
		Kind:  kind,
	}, nil
}

func parseEdgeLine(l line) (graph.Edge, error) {
	m := edgeLineRegex.FindStringSubmatch(l.text)
	if m == nil {
		return graph.Edge{}, errors.New(errors.ErrCodeParse, "line %d: invalid edge line: %q", l.num, l.text)
	}
	return graph.Edge{
		From:  m[edgeLineRegex.SubexpIndex("src")],
		To:    m[edgeLineRegex.SubexpIndex("tgt")],
		Label: strings.TrimSpace(m[edgeLineRegex.SubexpIndex("label")]),
	}, nil
}

// splitSections groups spec lines by their markdown heading. "## Name" opens
// the section "name", "# Text" opens the title section seeded with Text, and
// untitled leading text lands in "body", which doubles as the description
// when no explicit Description section exists.
func splitSections(text string) map[string][]line {
	current := "body"
	sections := map[string][]line{current: nil}

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(trimmed, "## "):
			current = strings.ToLower(strings.TrimSpace(trimmed[3:]))
			if _, ok := sections[current]; !ok {
				sections[current] = nil
			}
		case strings.HasPrefix(trimmed, "# "):
			current = "title"
			sections[current] = []line{{num: i + 1, text: strings.TrimSpace(trimmed[2:])}}
		default:
			sections[current] = append(sections[current], line{num: i + 1, text: raw})
		}
	}

	if _, ok := sections["description"]; !ok {
		sections["description"] = sections["body"]
	}
	return sections
}

// bulletLines filters a section down to its non-empty, non-comment lines.
func bulletLines(lines []line) []line {
	var out []line
	for _, l := range lines {
		trimmed := strings.TrimSpace(l.text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line{num: l.num, text: trimmed})
	}
	return out
}

func joinSection(lines []line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.text
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
