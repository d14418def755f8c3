package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"meshstat/internal/api"
	"meshstat/internal/mesh"
	"meshstat/internal/metrics"
	"meshstat/internal/model"
)

func newChannelsCmd(a *app) *cobra.Command {
	var (
		format string
		node   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Report channel utilization and airtime per router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "csv" {
				return errors.Errorf("unknown format %q", format)
			}
			var only int64
			if node != "" {
				id, err := model.ParseHexID(node)
				if err != nil {
					return err
				}
				only = id
			}

			a.log.WithField("api", a.cfg.APIBase).Info("fetching active routers")
			client := api.NewClient(a.cfg.APIBase, a.cfg.Timeout, a.log)
			report, err := mesh.NewCollector(client, a.cfg, a.log).Run(cmd.Context(), only)
			if err != nil {
				return err
			}

			w, closeFn, err := a.output(out)
			if err != nil {
				return err
			}
			if format == "csv" {
				err = metrics.WriteCSV(w, report.Routers)
			} else {
				fmt.Fprintf(w, "Found %d routers\n\n", len(report.Routers))
				err = metrics.WriteTable(w, report.Routers, report.Network)
			}
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&format, "format", "table", "output format: table|csv")
	flags.StringVar(&node, "node", "", "only report this node (!a5060ad0 or a5060ad0)")
	flags.StringVarP(&out, "out", "o", "", "write the report to a file instead of stdout")
	flags.String("api", "", "Meshview API base URL")
	flags.Int("days", 0, "only count nodes and samples from the last N days")
	flags.StringSlice("roles", nil, "router roles to include")
	flags.Int("page-size", 0, "telemetry packets fetched per router")
	flags.Int("telemetry-port", 0, "packet port number carrying telemetry")
	return cmd
}
