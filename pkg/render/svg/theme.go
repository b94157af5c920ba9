package svg

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/flowsketch/flowsketch/pkg/errors"
	"github.com/flowsketch/flowsketch/pkg/graph"
)

// KindStyle is the fill and stroke palette for a node kind.
type KindStyle struct {
	Fill        string  `toml:"fill"`
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke-width"`
	Text        string  `toml:"text"`
}

// EdgeStyle controls connector appearance.
type EdgeStyle struct {
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke-width"`
	BackDash    string  `toml:"back-dash"`
	LabelColor  string  `toml:"label-color"`
}

// Theme is the complete visual configuration for the SVG sink.
type Theme struct {
	Background   string               `toml:"background"`
	FontFamily   string               `toml:"font-family"`
	FontSize     float64              `toml:"font-size"`
	CornerRadius float64              `toml:"corner-radius"`
	Kind         map[string]KindStyle `toml:"kind"`
	Edge         EdgeStyle            `toml:"edge"`
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Background:   "#ffffff",
		FontFamily:   "Inter, Helvetica, Arial, sans-serif",
		FontSize:     16,
		CornerRadius: 12,
		Kind: map[string]KindStyle{
			graph.KindProcess:  {Fill: "#e0f2fe", Stroke: "#0284c7", StrokeWidth: 2, Text: "#0f172a"},
			graph.KindIO:       {Fill: "#ede9fe", Stroke: "#7c3aed", StrokeWidth: 2, Text: "#0f172a"},
			graph.KindDecision: {Fill: "#fef3c7", Stroke: "#f59e0b", StrokeWidth: 2, Text: "#0f172a"},
			graph.KindGeneric:  {Fill: "#f1f5f9", Stroke: "#475569", StrokeWidth: 2, Text: "#0f172a"},
		},
		Edge: EdgeStyle{
			Stroke:      "#334155",
			StrokeWidth: 2,
			BackDash:    "6 4",
			LabelColor:  "#475569",
		},
	}
}

// LoadTheme reads a TOML theme file and merges it over the defaults.
// Only the fields present in the file override the built-ins.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read theme %s", path)
	}

	var overlay Theme
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme %s", path)
	}

	theme := DefaultTheme()
	theme.merge(overlay)
	return theme, nil
}

func (t *Theme) merge(o Theme) {
	if o.Background != "" {
		t.Background = o.Background
	}
	if o.FontFamily != "" {
		t.FontFamily = o.FontFamily
	}
	if o.FontSize > 0 {
		t.FontSize = o.FontSize
	}
	if o.CornerRadius > 0 {
		t.CornerRadius = o.CornerRadius
	}
	for kind, style := range o.Kind {
		base := t.Kind[kind]
		if style.Fill != "" {
			base.Fill = style.Fill
		}
		if style.Stroke != "" {
			base.Stroke = style.Stroke
		}
		if style.StrokeWidth > 0 {
			base.StrokeWidth = style.StrokeWidth
		}
		if style.Text != "" {
			base.Text = style.Text
		}
		t.Kind[kind] = base
	}
	if o.Edge.Stroke != "" {
		t.Edge.Stroke = o.Edge.Stroke
	}
	if o.Edge.StrokeWidth > 0 {
		t.Edge.StrokeWidth = o.Edge.StrokeWidth
	}
	if o.Edge.BackDash != "" {
		t.Edge.BackDash = o.Edge.BackDash
	}
	if o.Edge.LabelColor != "" {
		t.Edge.LabelColor = o.Edge.LabelColor
	}
}

// styleFor resolves a node kind to its style, normalizing unknown kinds.
func (t Theme) styleFor(kind string) KindStyle {
	if s, ok := t.Kind[kind]; ok {
		return s
	}
	if s, ok := t.Kind[graph.NormalizeKind(kind)]; ok {
		return s
	}
	return t.Kind[graph.KindGeneric]
}
