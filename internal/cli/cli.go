// Package cli implements the topolayout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/buildinfo"
	"github.com/matzehuels/topolayout/pkg/config"
	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/render"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config
	storeURL   string // --store, overrides the config file
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "topolayout",
		Short:        "Topolayout lays out network topologies with a force simulation",
		Long:         `Topolayout places discovered hosts, routers and network devices with a force-directed simulation, remembers where you put them, and renders the result as SVG, PNG, HTML or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")
	root.PersistentFlags().StringVar(&c.storeURL, "store", "", "layout store URL: memory:, file://dir, sqlite://path, redis://..., mongodb://...")

	root.AddCommand(c.settleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Store
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			cfg := config.Default()
			return c.override(cfg), nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	return c.override(cfg), nil
}

func (c *CLI) override(cfg config.Config) config.Config {
	if c.storeURL != "" {
		cfg.Store.URL = c.storeURL
	}
	return cfg
}

// openStore opens the configured layout store, namespaced by its prefix.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (kv.Store, error) {
	s, err := kv.Open(ctx, cfg.Store.URL)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened layout store", "url", kv.Describe(cfg.Store.URL))
	if cfg.Store.Prefix != "" {
		s = kv.WithPrefix(s, cfg.Store.Prefix)
	}
	return s, nil
}

// openGraph loads a payload file and builds a view over it. The store and
// logger of opts are filled in.
func (c *CLI) openGraph(ctx context.Context, cfg config.Config, store kv.Store, path, topologyID string, opts layout.Options) (*layout.Graph, error) {
	p, err := topology.ReadPayloadFile(path)
	if err != nil {
		return nil, err
	}
	if topologyID == "" {
		topologyID = topologyFromPath(path)
	}
	nodes, links := topology.Ingest(p)
	opts.Store, opts.Logger = store, c.Logger
	return layout.New(ctx, cfg.Layout(topologyID), nodes, links, opts)
}

// =============================================================================
// Helpers
// =============================================================================

// topologyFromPath derives a topology id from a payload file name:
// "site/office.yaml" becomes "office".
func topologyFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputPaths returns one output path per format. A single format writes
// exactly to output; several formats treat output as a base name. A path
// that would overwrite input gets a ".layout" infix.
func outputPaths(output, input string, formats []string) map[string]string {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
		if paths[f] == input {
			paths[f] = base + ".layout." + f
		}
	}
	return paths
}

// writeFormats renders the snapshot into every requested format.
func writeFormats(ctx context.Context, snap layout.Snapshot, paths map[string]string, formats []string, opts render.Options) error {
	for _, f := range formats {
		data, err := render.Render(ctx, snap, f, opts)
		if err != nil {
			return err
		}
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return err
		}
		printFile(paths[f])
	}
	return nil
}

func defaultConfigHint() string {
	if p, err := config.Path(); err == nil {
		return p
	}
	return "$XDG_CONFIG_HOME/" + config.AppName + "/config.toml"
}
