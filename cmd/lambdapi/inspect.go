package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lambdapi/internal/sigfile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <sigfile>",
	Short: "Print every declaration in a compiled signature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := sigfile.Load(args[0])
		if err != nil {
			return ioError(err)
		}
		nameColor := color.New(color.FgCyan, color.Bold)
		staticColor := color.New(color.FgMagenta)
		out := cmd.OutOrStdout()
		for _, r := range records {
			staticity := "Definable"
			if r.Static {
				staticity = "Static"
			}
			fmt.Fprintf(out, "%s : %s  [%s]", nameColor.Sprint(r.Name), r.Type, staticColor.Sprint(staticity))
			if len(r.Rules) > 0 {
				fmt.Fprintf(out, "  (%d rule(s))", len(r.Rules))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
