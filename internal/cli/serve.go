package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/server"
)

// serveCommand runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var maxViews int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve topology views over HTTP and websockets",
		Long: `Serve hosts live topology views. Each view runs its own simulation and
streams frames to websocket subscribers at the configured frame rate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, maxViews)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxViews, "max-views", 0, "maximum open views (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxViews int) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if maxViews > 0 {
		cfg.Server.MaxViews = maxViews
	}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("Layout store: %s", kv.Describe(cfg.Store.URL))

	srv := server.New(server.Options{Config: cfg, Store: store, Logger: logger})
	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
	}
	return err
}
