package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowsketch/flowsketch/pkg/graph"
	"github.com/flowsketch/flowsketch/pkg/pipeline"
)

// graphFormats is the set of supported graph file formats.
var graphFormats = map[string]bool{"json": true, "yaml": true}

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output      string // output file path (stdout if empty)
	format      string // graph file format: json or yaml
	defaultKind string // kind assigned to nodes without one
	noCache     bool   // disable the stage cache
	refresh     bool   // bypass cached parse results
}

// parseCommand creates the parse command for converting specs to graph files.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "parse [spec.md]",
		Short: "Parse a diagram spec into a graph file",
		Long: `Parse a markdown diagram spec into a graph file.

The spec declares nodes and edges in markdown sections:

  # Order flow
  ## Nodes
  - intake | Accept order | io
  - verify | Verify stock
  ## Edges
  - intake -> verify

The resulting graph is written as JSON (default) or YAML and can be fed
to 'flowsketch layout' or rendered directly with 'flowsketch render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !graphFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'json' or 'yaml')", opts.format)
			}
			return c.runParse(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "graph file format: json (default), yaml")
	cmd.Flags().StringVar(&opts.defaultKind, "default-kind", "", "kind assigned to nodes that omit one")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached parse results")

	return cmd
}

// runParse reads the spec file, parses it, and writes the graph.
func (c *CLI) runParse(ctx context.Context, input string, opts parseOpts) error {
	text, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read spec %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, opts.noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spec, cacheHit, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{
		Spec:        string(text),
		DefaultKind: opts.defaultKind,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}
	g, err := spec.Graph()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d nodes with %d edges", g.NodeCount(), g.EdgeCount()))

	if err := writeGraph(g, opts.output, opts.format); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Parse complete")
		printFile(opts.output)
		printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
		printNewline()
		printNextStep("Compute layout", appName+" layout "+opts.output)
	}
	return nil
}

// writeGraph serializes g to the specified path (or stdout if empty).
func writeGraph(g *graph.Graph, path, format string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == "yaml" {
		return graph.WriteYAML(g, out)
	}
	return graph.WriteJSON(g, out)
}
