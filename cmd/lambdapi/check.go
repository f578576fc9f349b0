package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lambdapi/pkg/typing"
)

var checkCmd = &cobra.Command{
	Use:   "check <sigfile>",
	Short: "Rebuild a compiled signature and re-verify every declared type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, pcfg, err := rebuildSignature(args[0])
		if err != nil {
			return coreError(err)
		}
		cfg := typing.Config{Types: s, Reduce: defaultReduceConfig(s, pcfg.Reduction)}
		ok := color.New(color.FgGreen, color.Bold)
		for _, e := range s.Export() {
			if _, err := typing.Infer(cfg, typing.Context{}, e.Type); err != nil {
				return coreError(fmt.Errorf("%s: %w", e.Name, err))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok.Sprint("ok"), "—", len(s.Export()), "declarations re-verified")
		return nil
	},
}
