package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// buildVersion is overridden at link time with -ldflags
// "-X main.buildVersion=...", following vovakirdan-surge/internal/version's
// pattern of unset-by-default build metadata.
var buildVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lambdapi tool version",
	RunE: func(cmd *cobra.Command, args []string) error {
		tagline := color.New(color.FgWhite, color.Italic).Sprint("\"well-typed programs don't go wrong\"")
		fmt.Fprintf(cmd.OutOrStdout(), "lambdapi %s — %s\n", buildVersion, tagline)
		return nil
	},
}
