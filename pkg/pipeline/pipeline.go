// Package pipeline provides the core diagram pipeline for Flowsketch.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Turn a textual diagram spec into a validated graph
//  2. Layout: Compute deterministic positions and connector routes
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Spec:    specText,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	spec, err := runner.Parse(ctx, opts)
//
//	// Layout with existing graph
//	res, err := runner.ComputeLayout(ctx, g, opts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, res, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowsketch/flowsketch/pkg/cache"
	apperrors "github.com/flowsketch/flowsketch/pkg/errors"
	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/layout"
	"github.com/flowsketch/flowsketch/pkg/parse"
)

// Default values shared by CLI, API, and worker entry points.
const (
	// DefaultEngine is the default render engine.
	DefaultEngine = EngineNative

	// DefaultTheme is the built-in theme name.
	DefaultTheme = "default"
)

// Engine constants for the render path.
const (
	// EngineNative uses the deterministic layered layout and SVG sink.
	EngineNative = "native"

	// EngineGraphviz routes through DOT and the graphviz engine.
	EngineGraphviz = "graphviz"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// nativeFormats is the subset of formats the native engine can produce.
var nativeFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Spec        string `json:"spec"`
	DefaultKind string `json:"default_kind,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Layout options
	NodeWidth          float64 `json:"node_width,omitempty"`
	NodeHeight         float64 `json:"node_height,omitempty"`
	LayerGap           float64 `json:"layer_gap,omitempty"`
	RowGap             float64 `json:"row_gap,omitempty"`
	SizeFromLabel      bool    `json:"size_from_label,omitempty"`
	GlyphWidthEstimate float64 `json:"glyph_width_estimate,omitempty"`
	MinNodeWidth       float64 `json:"min_node_width,omitempty"`
	BackEdgeSide       string  `json:"back_edge_side,omitempty"`
	RefinePasses       int     `json:"refine_passes,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Engine    string   `json:"engine,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	ThemePath string   `json:"theme_path,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the parsed diagram specification.
	Spec *parse.Spec

	// Graph is the validated graph built from the spec.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed geometry.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed spec came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid. Matching is
// case-insensitive.
func ValidateFormat(format string) error {
	return apperrors.ValidateFormat(format)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Spec == "" {
		return fmt.Errorf("spec is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	cfg := layout.DefaultConfig()
	if o.NodeWidth == 0 {
		o.NodeWidth = cfg.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = cfg.NodeHeight
	}
	if o.LayerGap == 0 {
		o.LayerGap = cfg.LayerGap
	}
	if o.RowGap == 0 {
		o.RowGap = cfg.RowGap
	}
	if o.GlyphWidthEstimate == 0 {
		o.GlyphWidthEstimate = cfg.GlyphWidthEstimate
	}
	if o.MinNodeWidth == 0 {
		o.MinNodeWidth = cfg.MinNodeWidth
	}
	if o.BackEdgeSide == "" {
		o.BackEdgeSide = string(cfg.BackEdgeSide)
	}
	if o.RefinePasses == 0 {
		o.RefinePasses = cfg.RefinePasses
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Theme == "" && o.ThemePath == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Engine == EngineNative {
		for _, f := range o.Formats {
			if !nativeFormats[f] {
				return fmt.Errorf("format %q requires the graphviz engine", f)
			}
		}
	}
	return nil
}

// IsNative returns true if the native layout engine is selected.
func (o *Options) IsNative() bool {
	return o.Engine == "" || o.Engine == EngineNative
}

// LayoutConfig builds the layout configuration from the options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		NodeWidth:          o.NodeWidth,
		NodeHeight:         o.NodeHeight,
		LayerGap:           o.LayerGap,
		RowGap:             o.RowGap,
		SizeFromLabel:      o.SizeFromLabel,
		GlyphWidthEstimate: o.GlyphWidthEstimate,
		MinNodeWidth:       o.MinNodeWidth,
		BackEdgeSide:       layout.Side(o.BackEdgeSide),
		RefinePasses:       o.RefinePasses,
	}
}

// GraphKeyOpts returns cache key options for the parse stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		DefaultKind: o.DefaultKind,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:          o.NodeWidth,
		NodeHeight:         o.NodeHeight,
		LayerGap:           o.LayerGap,
		RowGap:             o.RowGap,
		SizeFromLabel:      o.SizeFromLabel,
		GlyphWidthEstimate: o.GlyphWidthEstimate,
		MinNodeWidth:       o.MinNodeWidth,
		BackEdgeSide:       o.BackEdgeSide,
		RefinePasses:       o.RefinePasses,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	theme := o.Theme
	if o.ThemePath != "" {
		theme = "path:" + o.ThemePath
	}
	return cache.ArtifactKeyOpts{
		Format: format,
		Theme:  theme,
	}
}

// parseConfig builds the spec parser configuration.
func (o *Options) parseConfig() parse.Config {
	return parse.Config{DefaultKind: o.DefaultKind}
}
