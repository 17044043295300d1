// helix audits structure-prediction outputs against curated target
// manifests: per-target Structural Audit Reports, decision gates,
// calibration statistics, and a pass/fail run rubric.
//
// Usage:
//
//	helix audit --manifest=<path> --output-dir=<dir> [--source=stub|artifacts]
//	helix verify --manifest=<path> [--expected=<sha256>]
//	helix history [--run=<run-id>] [--db=<path>]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helix/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "helix",
	Short: "Structural audit reports for protein structure predictions",
	Long: "Helix classifies prediction failures, applies decision gates, and\n" +
		"compiles calibration and provenance reports for a benchmark run.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
