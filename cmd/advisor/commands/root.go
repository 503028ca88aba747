// Package commands implements the advisor command line.
package commands

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/advisor/pkg/logger"
)

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Portfolio risk and performance metrics",
		Long: `Advisor computes portfolio risk and performance metrics from daily return series.

Examples:
  advisor report --input series.json
  advisor report --input series.json --format text
  advisor mock --days 252 --seed 7 > series.json`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	newLog := func(w io.Writer) zerolog.Logger {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.New(logger.Config{Level: level, Pretty: true, Output: w})
	}

	rootCmd.AddCommand(newReportCmd(newLog), newMockCmd())
	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
