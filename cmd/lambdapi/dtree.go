package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lambdapi/pkg/env"
)

var dtreeModule string

func init() {
	dtreeCmd.Flags().StringVar(&dtreeModule, "module", "", "qualify symbol with this module prefix")
}

var dtreeCmd = &cobra.Command{
	Use:   "dtree <sigfile> <symbol>",
	Short: "Dump a compiled symbol's decision tree as YAML",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := rebuildSignature(args[0])
		if err != nil {
			return coreError(err)
		}
		e := env.New(s, defaultReduceConfig(s, cfg.Reduction), cmd.OutOrStdout(), slog.Default())
		if err := e.DTree(dtreeModule, args[1]); err != nil {
			return coreError(err)
		}
		return nil
	},
}
