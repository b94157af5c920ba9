package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsketch/flowsketch/pkg/cache"
	apperrors "github.com/flowsketch/flowsketch/pkg/errors"
)

const sampleSpec = `# Sample Pipeline

## Nodes
- read | Read input | io
- work | Transform records
- check | Valid? | decision
- write | Write output | io

## Edges
- read -> work
- work -> check
- check -> write | yes
- check -> work | no
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"SVG", false}, // case-insensitive
		{"pdf", true},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if tt.wantErr {
			assert.Error(t, err, "ValidateFormat(%q)", tt.format)
		} else {
			assert.NoError(t, err, "ValidateFormat(%q)", tt.format)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	assert.NoError(t, ValidateFormats([]string{"svg", "png"}))
	assert.Error(t, ValidateFormats([]string{"svg", "invalid"}))

	// Empty slice is valid
	assert.NoError(t, ValidateFormats(nil))
}

func TestValidateEngine(t *testing.T) {
	assert.NoError(t, ValidateEngine(EngineNative))
	assert.NoError(t, ValidateEngine(EngineGraphviz))
	assert.Error(t, ValidateEngine("dot"))
	assert.Error(t, ValidateEngine(""))
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Spec: sampleSpec}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, EngineNative, opts.Engine)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.Equal(t, DefaultTheme, opts.Theme)
	assert.Greater(t, opts.NodeWidth, 0.0)
	assert.Greater(t, opts.GlyphWidthEstimate, 0.0)
	assert.Greater(t, opts.MinNodeWidth, 0.0)
	assert.NotNil(t, opts.Logger)

	// Calling again is a no-op
	before := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, before.Formats, opts.Formats)
}

func TestValidateAndSetDefaults_NormalizesFormats(t *testing.T) {
	opts := Options{Spec: sampleSpec, Formats: []string{"SVG", "Json"}}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, []string{FormatSVG, FormatJSON}, opts.Formats)
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	opts := Options{}
	assert.Error(t, opts.ValidateAndSetDefaults(), "empty spec")

	opts = Options{Spec: sampleSpec, Formats: []string{"bmp"}}
	assert.Error(t, opts.ValidateAndSetDefaults())

	opts = Options{Spec: sampleSpec, Engine: "inkscape"}
	assert.Error(t, opts.ValidateAndSetDefaults())
}

func TestValidateForRender_NativeFormats(t *testing.T) {
	opts := Options{Spec: sampleSpec, Formats: []string{FormatPNG}}
	opts.SetRenderDefaults()
	err := opts.ValidateForRender()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphviz engine")

	opts = Options{Spec: sampleSpec, Engine: EngineGraphviz, Formats: []string{FormatPNG}}
	opts.SetRenderDefaults()
	assert.NoError(t, opts.ValidateForRender())

	// dot export needs no graphviz binary, so native allows it
	opts = Options{Spec: sampleSpec, Formats: []string{FormatDOT, FormatJSON, FormatSVG}}
	opts.SetRenderDefaults()
	assert.NoError(t, opts.ValidateForRender())
}

func TestResolveTheme(t *testing.T) {
	theme, err := resolveTheme(Options{Theme: DefaultTheme})
	require.NoError(t, err)
	assert.NotEmpty(t, theme.Background)

	_, err = resolveTheme(Options{ThemePath: "../../../etc/passwd"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidPath))

	_, err = resolveTheme(Options{Theme: "Dark Mode"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidTheme))
}

func TestParse(t *testing.T) {
	spec, err := Parse(Options{Spec: sampleSpec})
	require.NoError(t, err)

	assert.Contains(t, spec.Title, "Sample Pipeline")
	assert.Len(t, spec.Nodes, 4)
	assert.Len(t, spec.Edges, 4)
}

func TestBuildGraph(t *testing.T) {
	spec, g, err := BuildGraph(Options{Spec: sampleSpec})
	require.NoError(t, err)
	require.NotNil(t, spec)

	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestGenerateLayout(t *testing.T) {
	_, g, err := BuildGraph(Options{Spec: sampleSpec})
	require.NoError(t, err)

	opts := Options{Spec: sampleSpec}
	opts.SetLayoutDefaults()
	res := GenerateLayout(g, opts)

	assert.Len(t, res.Nodes, 4)
	assert.Greater(t, res.Width, 0.0)
	assert.Greater(t, res.Height, 0.0)
}

func TestRunner_Execute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{Spec: sampleSpec})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.NodeCount)
	assert.Equal(t, 4, result.Stats.EdgeCount)
	assert.NotEmpty(t, result.GraphHash)
	require.Contains(t, result.Artifacts, FormatSVG)
	assert.Contains(t, string(result.Artifacts[FormatSVG]), "<svg")

	// NullCache never hits
	assert.False(t, result.CacheInfo.ParseHit)
	assert.False(t, result.CacheInfo.LayoutHit)
	assert.False(t, result.CacheInfo.RenderHit)
}

func TestRunner_ExecuteMultipleFormats(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Spec:    sampleSpec,
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	require.NoError(t, err)

	assert.Len(t, result.Artifacts, 3)
	assert.Contains(t, string(result.Artifacts[FormatDOT]), "digraph")
	assert.Contains(t, string(result.Artifacts[FormatJSON]), `"nodes"`)
}

func TestRunner_ExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := Options{Spec: sampleSpec, Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.ParseHit)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.RenderHit)

	second, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.ParseHit)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.RenderHit)

	// Cached artifacts are byte-identical to the originals
	for format, data := range first.Artifacts {
		assert.True(t, bytes.Equal(data, second.Artifacts[format]),
			"artifact %s differs between runs", format)
	}

	// Refresh bypasses the cache
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.ParseHit)
	assert.False(t, third.CacheInfo.LayoutHit)
	assert.False(t, third.CacheInfo.RenderHit)
}

func TestRunner_LayoutCacheKeyedByConfig(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()

	first, err := runner.Execute(ctx, Options{Spec: sampleSpec})
	require.NoError(t, err)
	require.False(t, first.CacheInfo.LayoutHit)

	// Different layout geometry must not reuse the cached layout
	second, err := runner.Execute(ctx, Options{Spec: sampleSpec, LayerGap: 500})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.ParseHit)
	assert.False(t, second.CacheInfo.LayoutHit)
	assert.NotEqual(t, first.Layout.Width, second.Layout.Width)
}

func TestRunner_GlyphWidthShapesLayout(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()

	first, err := runner.Execute(ctx, Options{Spec: sampleSpec, SizeFromLabel: true})
	require.NoError(t, err)
	require.False(t, first.CacheInfo.LayoutHit)

	// A coarser glyph estimate widens label-sized boxes and must not
	// reuse the cached layout.
	second, err := runner.Execute(ctx, Options{
		Spec:               sampleSpec,
		SizeFromLabel:      true,
		GlyphWidthEstimate: 20,
	})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.ParseHit)
	assert.False(t, second.CacheInfo.LayoutHit)
	assert.Greater(t, second.Layout.Width, first.Layout.Width)

	// MinNodeWidth is part of the layout key too.
	third, err := runner.Execute(ctx, Options{
		Spec:          sampleSpec,
		SizeFromLabel: true,
		MinNodeWidth:  150,
	})
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
}

func TestRunner_ExecuteInvalidSpec(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{Spec: "just prose, no sections"})
	require.Error(t, err)

	_, err = runner.Execute(context.Background(), Options{Spec: "## Nodes\n- a | A\n## Edges\n- a -> ghost\n"})
	require.Error(t, err)
}

func TestRunner_Deterministic(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{Spec: sampleSpec, Formats: []string{FormatSVG, FormatDOT, FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)
	second, err := runner.Execute(context.Background(), opts)
	require.NoError(t, err)

	for format, data := range first.Artifacts {
		assert.True(t, bytes.Equal(data, second.Artifacts[format]),
			"artifact %s is not deterministic", format)
	}
}
