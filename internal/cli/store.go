package cli

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout/store"
)

// storeCommand manages saved node positions.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and clear saved layouts",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// withLayoutStore opens the configured backend for the duration of fn.
func (c *CLI) withLayoutStore(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	backend, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(store.New(backend, store.WithLogger(c.Logger)))
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topologies with saved positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayoutStore(cmd.Context(), func(s *store.Store) error {
				all, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(all) == 0 {
					printInfo("No saved layouts")
					return nil
				}
				sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
				rows := make([][]string, len(all))
				for i, t := range all {
					rows[i] = []string{t.ID, strconv.Itoa(len(t.IPs)), onOff(t.Gravity)}
				}
				fmt.Println(renderTable([]string{"Topology", "Positions", "Gravity"}, rows))
				return nil
			})
		},
	}
}

func (c *CLI) storeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [topology]",
		Short: "Show the saved positions of one topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayoutStore(cmd.Context(), func(s *store.Store) error {
				all, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				i := slices.IndexFunc(all, func(t store.SavedTopology) bool { return t.ID == args[0] })
				if i < 0 {
					printWarning("No saved layout for %s", args[0])
					return nil
				}
				rec := all[i]
				printKeyValue("Topology", rec.ID)
				printKeyValue("Gravity", onOff(rec.Gravity))
				if len(rec.IPs) == 0 {
					printDetail("no saved positions")
					return nil
				}
				rows := make([][]string, len(rec.IPs))
				for i, e := range rec.IPs {
					rows[i] = []string{e.IP, strconv.FormatFloat(e.X, 'f', 0, 64), strconv.FormatFloat(e.Y, 'f', 0, 64)}
				}
				fmt.Println(renderTable([]string{"IP", "X", "Y"}, rows))
				return nil
			})
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [topology]",
		Short: "Forget the saved positions of one topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayoutStore(cmd.Context(), func(s *store.Store) error {
				ok, err := s.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					printWarning("No saved layout for %s", args[0])
					return nil
				}
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every saved layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLayoutStore(cmd.Context(), func(s *store.Store) error {
				all, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if err := s.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared %d saved layouts", len(all))
				return nil
			})
		},
	}
}

func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the layout store URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(kv.Describe(cfg.Store.URL))
			return nil
		},
	}
}
