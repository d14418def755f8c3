package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"meshstat/internal/config"
)

const usage = `meshstat - channel metrics and node directory tools for a Meshview mesh

Usage:
  meshstat channels [--format table|csv] [--node <id>] [--days 3] [--api <url>]
  meshstat stats [--days 3] [--api <url>]
  meshstat export [--out <file>] [--tiers core_router,supplemental] [--fetcher http|curl]
  meshstat config init --out <path>

Every command accepts --config <path> (YAML) and --log-level error|warn|info|debug.
Settings can also come from MESHSTAT_* environment variables, e.g. MESHSTAT_API_BASE.
`

// app carries what the subcommands share once flags are parsed.
type app struct {
	configPath string
	cfg        config.Config
	log        *logrus.Logger
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "meshstat",
		Short:         "Channel metrics and node directory tools for a Meshview mesh",
		Long:          usage,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pFlags := root.PersistentFlags()
	pFlags.StringVarP(&a.configPath, "config", "c", "", "path to YAML config")
	pFlags.StringP("log-level", "v", "", "log level: error|warn|info|debug")
	pFlags.Duration("timeout", 0, "per-request timeout (default 10s)")

	root.AddCommand(
		newChannelsCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads and validates configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logrus.New()
	a.log.SetOutput(a.stderr)
	a.log.SetLevel(level)
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// output returns stdout, or a created file when path is set.
func (a *app) output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
