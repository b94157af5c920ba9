package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowsketch/flowsketch/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path (multiple)
	noCache   bool   // disable the stage cache
	redisAddr string // Redis address for the stage cache
}

// renderCommand creates the render command for the full pipeline.
// It parses the spec, computes the layout, and writes one artifact per
// requested format.
//
// Default settings:
//   - engine: native (deterministic layered layout)
//   - format: svg
//   - theme: default (sky/violet/amber palette)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	cliOpts := renderOpts{}
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [spec.md]",
		Short: "Render a diagram spec to SVG and other formats",
		Long: `Render a diagram spec to one or more artifact formats.

The render command runs the full pipeline: parse the markdown spec, compute
the deterministic layered layout, and write artifacts. The native engine
produces svg, dot, and json; the graphviz engine adds png and delegates
geometry to graphviz instead of the native layout.

Examples:
  flowsketch render pipeline.md
  flowsketch render pipeline.md -f svg,json -o build/pipeline
  flowsketch render pipeline.md --engine graphviz -f png
  flowsketch render pipeline.md --theme-path brand.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(opts.Engine); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, cliOpts)
		},
	}

	cmd.Flags().StringVarP(&cliOpts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&cliOpts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cliOpts.redisAddr, "redis", "", "Redis address for the stage cache (host:port)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", opts.Engine, "render engine: native (default), graphviz")
	cmd.Flags().StringVar(&opts.Theme, "theme", opts.Theme, "built-in theme name")
	cmd.Flags().StringVar(&opts.ThemePath, "theme-path", "", "TOML theme file overriding the default palette")
	cmd.Flags().StringVar(&opts.DefaultKind, "default-kind", "", "kind assigned to nodes that omit one")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached stages")

	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", opts.NodeWidth, "default node box width")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", opts.NodeHeight, "default node box height")
	cmd.Flags().Float64Var(&opts.LayerGap, "layer-gap", opts.LayerGap, "horizontal gap between layers")
	cmd.Flags().Float64Var(&opts.RowGap, "row-gap", opts.RowGap, "vertical gap between rows")
	cmd.Flags().BoolVar(&opts.SizeFromLabel, "size-from-label", opts.SizeFromLabel, "widen node boxes to fit their labels")
	cmd.Flags().Float64Var(&opts.GlyphWidthEstimate, "glyph-width", opts.GlyphWidthEstimate, "estimated glyph width for label sizing")
	cmd.Flags().Float64Var(&opts.MinNodeWidth, "min-node-width", opts.MinNodeWidth, "lower bound for label-sized node boxes")
	cmd.Flags().StringVar(&opts.BackEdgeSide, "back-edge-side", opts.BackEdgeSide, "side for back-edge rails: right (default), left")
	cmd.Flags().IntVar(&opts.RefinePasses, "refine-passes", opts.RefinePasses, "row ordering refinement sweeps")

	return cmd
}

// runRender executes the pipeline and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, cliOpts renderOpts) error {
	text, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read spec %s: %w", input, err)
	}
	opts.Spec = string(text)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cliOpts.noCache, cliOpts.redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, cliOpts.output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	printTimings(result.Stats)

	return nil
}

// writeArtifacts writes each rendered artifact to its own file and returns
// the written paths in format order. With a single format the output flag
// names the file directly; with several it acts as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string

	if len(formats) == 1 {
		format := formats[0]
		path := output
		if path == "" {
			path = basePath("", input) + "." + format
		}
		if err := writeArtifact(artifacts[format], path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	base := basePath(output, input)
	sorted := make([]string, len(formats))
	copy(sorted, formats)
	sort.Strings(sorted)

	for _, format := range sorted {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := writeArtifact(data, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeArtifact(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printTimings prints per-stage durations as a detail line.
func printTimings(stats pipeline.Stats) {
	printDetail("parse %s · layout %s · render %s",
		stats.ParseTime.Round(time.Millisecond),
		stats.LayoutTime.Round(time.Millisecond),
		stats.RenderTime.Round(time.Millisecond))
}
