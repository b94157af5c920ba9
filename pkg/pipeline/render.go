package pipeline

import (
	"context"
	"fmt"

	apperrors "github.com/flowsketch/flowsketch/pkg/errors"
	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/layout"
	"github.com/flowsketch/flowsketch/pkg/render/dot"
	"github.com/flowsketch/flowsketch/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, res *layout.Result, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsNative() {
		return renderNative(res, g, opts)
	}
	return renderGraphviz(ctx, res, g, opts)
}

// renderNative renders with the deterministic layout and SVG sink.
func renderNative(res *layout.Result, g *graph.Graph, opts Options) (map[string][]byte, error) {
	theme, err := resolveTheme(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			data = svg.Render(res, svg.WithTheme(theme))
		case FormatJSON:
			data, err = layout.MarshalResult(res)
		case FormatDOT:
			data = []byte(dot.ToDOT(g, dot.Options{}))
		default:
			return nil, fmt.Errorf("unsupported native format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderGraphviz renders through DOT and the graphviz engine.
func renderGraphviz(ctx context.Context, res *layout.Result, g *graph.Graph, opts Options) (map[string][]byte, error) {
	dotText := dot.ToDOT(g, dot.Options{})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data, err = dot.RenderSVG(ctx, dotText)
		case FormatPNG:
			data, err = dot.RenderPNG(ctx, dotText)
		case FormatDOT:
			data = []byte(dotText)
		case FormatJSON:
			data, err = layout.MarshalResult(res)
		default:
			return nil, fmt.Errorf("unsupported graphviz format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// resolveTheme loads the theme file when a path is given, otherwise uses the
// built-in palette. Theme names arrive from the serve API and paths from
// CLI flags, so both are validated before touching the filesystem.
func resolveTheme(opts Options) (svg.Theme, error) {
	if opts.ThemePath != "" {
		if err := apperrors.ValidatePath(opts.ThemePath); err != nil {
			return svg.Theme{}, err
		}
		return svg.LoadTheme(opts.ThemePath)
	}
	if opts.Theme != "" {
		if err := apperrors.ValidateThemeName(opts.Theme); err != nil {
			return svg.Theme{}, err
		}
		if opts.Theme != DefaultTheme {
			return svg.Theme{}, fmt.Errorf("unknown theme: %q (use --theme-path for custom themes)", opts.Theme)
		}
	}
	return svg.DefaultTheme(), nil
}
