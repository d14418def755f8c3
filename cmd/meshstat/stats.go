package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meshstat/internal/api"
	"meshstat/internal/mesh"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print node, router and packet counters for the mesh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(a.cfg.APIBase, a.cfg.Timeout, a.log)
			stats, err := mesh.NewCollector(client, a.cfg, a.log).Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "%-24s %d\n", "Nodes (7 days)", stats.TotalNodes)
			fmt.Fprintf(a.stdout, "%-24s %d\n", fmt.Sprintf("Active (%d days)", a.cfg.DaysActive), stats.ActiveNodes)
			fmt.Fprintf(a.stdout, "%-24s %d\n", "Routers", stats.Routers)
			fmt.Fprintf(a.stdout, "%-24s %d\n", "Packets (24 hours)", stats.Packets24h)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("api", "", "Meshview API base URL")
	flags.Int("days", 0, "window for the active node count")
	flags.StringSlice("roles", nil, "router roles to count")
	return cmd
}
