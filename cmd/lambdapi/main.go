// Command lambdapi is the tooling layer around the core (spec.md §6):
// inspecting and checking compiled signatures. The core itself never
// imports this package or any of its dependencies — grounded on
// vovakirdan-surge/cmd/surge's one-subcommand-per-file layout, with
// the root command wiring persistent flags and delegating to each.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lambdapi",
	Short: "A λΠ-modulo proof-checker core and its compiled-signature tooling",
}

var colorMode string

func main() {
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		applyColorMode(colorMode)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(dtreeCmd)
	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// applyColorMode resolves "auto" against whether stdout is a terminal
// (github.com/mattn/go-isatty, the same TTY check vovakirdan-surge uses
// for its own coloured diagnostics) and toggles fatih/color globally.
func applyColorMode(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	}
}

// exitCode is a CLI error tagged with one of §6's exit codes; an
// untagged error falls back to 42 ("generic error").
type exitCode struct {
	code int
	err  error
}

func (e *exitCode) Error() string { return e.err.Error() }
func (e *exitCode) Unwrap() error { return e.err }

func ioError(err error) error   { return &exitCode{code: 1, err: err} }
func coreError(err error) error { return &exitCode{code: 3, err: err} }

func exitCodeFor(err error) int {
	var ec *exitCode
	if e, ok := err.(*exitCode); ok {
		ec = e
	}
	if ec != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error:"), ec.err)
		return ec.code
	}
	fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	return 42
}
