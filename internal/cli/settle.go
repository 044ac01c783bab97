package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/render"
)

// settleOpts holds the flags of the settle command.
type settleOpts struct {
	topologyID string
	output     string
	formats    []string
	maxTicks   int
	gravity    string // "", "on" or "off"
	width      float64
	labels     bool
	noStore    bool
}

// settleCommand runs a payload to rest and writes the layout.
func (c *CLI) settleCommand() *cobra.Command {
	var formatsStr string
	opts := settleOpts{labels: true}

	cmd := &cobra.Command{
		Use:   "settle [payload]",
		Short: "Run a topology payload to rest and write its layout",
		Long: `Settle loads a JSON or YAML discovery payload, applies any positions saved
for the topology, runs the force simulation until it cools and writes the
resulting layout. Positions are saved back to the layout store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := render.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			switch opts.gravity {
			case "", "on", "off":
			default:
				return fmt.Errorf("invalid --gravity %q (must be 'on' or 'off')", opts.gravity)
			}
			return c.runSettle(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.topologyID, "topology", "t", "", "topology id (default: payload file name)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, html (comma-separated)")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 0, "stop after this many ticks (default from config)")
	cmd.Flags().StringVar(&opts.gravity, "gravity", "", "force gravity on or off before settling")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "drawing surface width (default from config)")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw node labels")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "do not read or save positions")

	return cmd
}

func (c *CLI) runSettle(ctx context.Context, input string, opts settleOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.width > 0 {
		cfg.Viewport.Width = opts.width
		cfg.Viewport.Height = 0
	}
	if opts.noStore {
		cfg.Store.URL = kv.SchemeNull + ":"
	}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	g, err := c.openGraph(ctx, cfg, store, input, opts.topologyID, layout.Options{})
	if err != nil {
		return err
	}
	if opts.gravity != "" {
		g.SetGravity(ctx, opts.gravity == "on")
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d nodes...", len(g.Nodes())))
	spinner.Start()
	ticks, err := settleWithProgress(ctx, g, opts.maxTicks, spinner)
	if err != nil {
		spinner.StopWithError("Settle interrupted after %d ticks", ticks)
		return err
	}
	spinner.StopWithSuccess("Settled %s", g.Config().TopologyID)
	prog.done("settled", "topology", g.Config().TopologyID, "ticks", ticks, "alpha", g.Simulation().Alpha())

	snap := g.Snapshot()
	printCounts(len(snap.Nodes), len(snap.Links), ticks, snap.Gravity)
	if g.Active() {
		printWarning("Stopped at tick limit before cooling (alpha %.4f)", g.Simulation().Alpha())
	}

	if err := writeFormats(ctx, snap, outputPaths(opts.output, input, opts.formats), opts.formats, render.Options{Labels: opts.labels}); err != nil {
		return err
	}
	if !opts.noStore {
		printNextStep("Open interactively", "topolayout view "+input)
	}
	return nil
}

// settleChunk is how many ticks run between spinner updates.
const settleChunk = 50

// settleWithProgress settles g in chunks so the spinner can show the tick
// count and alpha as it cools.
func settleWithProgress(ctx context.Context, g *layout.Graph, maxTicks int, s *Spinner) (int, error) {
	if maxTicks <= 0 {
		maxTicks = g.Config().MaxTicks
	}
	total := 0
	for total < maxTicks {
		n, err := g.Settle(ctx, min(settleChunk, maxTicks-total))
		total += n
		if err != nil {
			return total, err
		}
		s.Update("Settling %d nodes... tick %d, alpha %.3f", len(g.Nodes()), total, g.Simulation().Alpha())
		if !g.Active() || n == 0 {
			break
		}
	}
	return total, nil
}

// writeSnapshotFile writes s as indented JSON.
func writeSnapshotFile(path string, s layout.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := layout.WriteSnapshot(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
