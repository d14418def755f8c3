package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meshstat/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(out, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "wrote %s\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&out, "out", "o", "", "config file to write")
	_ = initCmd.MarkFlagRequired("out")

	cmd.AddCommand(initCmd)
	return cmd
}
