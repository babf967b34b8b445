package cmd

import (
	"fmt"
	"os"

	"github.com/JessHua159/inconsistency-checker/analytics"
	"github.com/JessHua159/inconsistency-checker/output"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	Version     = "0.1.0"
	GitCommit   = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "inconsistency-checker",
	Short: "Resolve and verify class-hierarchy consistency across a Python codebase",
	Long: `inconsistency-checker resolves class base references across a module-based
codebase (handling aliases, re-exports, wildcard imports, and relative
imports) and checks the result for inheritance cycles and C3 linearization
conflicts.

Use "graph" to build the class hierarchy graph and "check" to verify it.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		verboseFlag, _ = cmd.Flags().GetBool("verbose")             //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)

		// Show banner for help command
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// verbosityFromFlags maps --verbose/--debug flags to a VerbosityLevel, the
// way every subcommand configures its logger.
func verbosityFromFlags(cmd *cobra.Command) output.VerbosityLevel {
	debug, _ := cmd.Flags().GetBool("debug")
	verbose, _ := cmd.Flags().GetBool("verbose")
	switch {
	case debug:
		return output.VerbosityDebug
	case verbose:
		return output.VerbosityVerbose
	default:
		return output.VerbosityDefault
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
