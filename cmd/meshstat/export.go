package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"meshstat/internal/api"
	"meshstat/internal/config"
	"meshstat/internal/directory"
	"meshstat/internal/execx"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export directory nodes of the selected tiers as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fetcher directory.Fetcher
			switch a.cfg.DirectoryFetcher {
			case config.FetcherCurl:
				fetcher = directory.CurlFetcher{
					URL:     a.cfg.DirectoryURL,
					Runner:  execx.OSRunner{},
					Timeout: directory.DefaultCurlTimeout,
					Log:     a.log,
				}
			default:
				fetcher = directory.HTTPFetcher{Client: api.NewClient(a.cfg.DirectoryURL, a.cfg.Timeout, a.log)}
			}

			nodes, err := directory.Select(cmd.Context(), fetcher, a.cfg.ExportTiers, a.log)
			if err != nil {
				return err
			}

			w, closeFn, err := a.output(out)
			if err != nil {
				return err
			}
			err = errors.Wrap(directory.WriteCSV(w, nodes), "write csv")
			if cerr := closeFn(); err == nil {
				err = cerr
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "", "write CSV to a file instead of stdout")
	flags.String("directory-url", "", "node directory URL")
	flags.StringSlice("tiers", nil, "node tiers to export")
	flags.String("fetcher", "", "directory fetcher: http|curl")
	return cmd
}
