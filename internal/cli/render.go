package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string
	formats []string
	labels  bool
	title   string
}

// renderCommand turns a saved layout snapshot into images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{labels: true}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout snapshot to SVG, PNG or HTML",
		Long: `Render reads a layout snapshot written by "topolayout settle -f json" and
draws it without running the simulation again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := render.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, html, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw node labels")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title for html output")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	snap, err := layout.ReadSnapshotFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded snapshot", "topology", snap.TopologyID, "nodes", len(snap.Nodes), "links", len(snap.Links))

	paths := outputPaths(opts.output, input, opts.formats)

	prog := newProgress(logger)
	if err := writeFormats(ctx, snap, paths, opts.formats, render.Options{Labels: opts.labels, Title: opts.title}); err != nil {
		return err
	}
	prog.done("rendered", "topology", snap.TopologyID, "formats", len(paths))
	printSuccess("Rendered %s", snap.TopologyID)
	return nil
}
