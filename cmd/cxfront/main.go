package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cxfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cxfront",
	Short: "C++ template frontend toolchain",
	Long:  `cxfront drives the template instantiation engine and its cache tooling`,
}

func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("manifest", "cxfront.toml", "path to the frontend manifest")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal; used for
// the color=auto mode.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color tristate against the output terminal.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
