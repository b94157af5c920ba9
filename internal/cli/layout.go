package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/layout"
	"github.com/flowsketch/flowsketch/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute layout geometry from a graph file",
		Long: `Compute layout geometry from a graph file.

The layout command takes a graph file (produced by 'parse', JSON or YAML)
and computes layer assignments, row placements, and edge routes. The output
is a layout.json file with all node and connector geometry, the same
document 'render -f json' produces.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached layouts")

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

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	data, err := layout.MarshalResult(res)
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}
	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}
