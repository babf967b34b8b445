package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JessHua159/inconsistency-checker/analytics"
	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/mro"
	"github.com/JessHua159/inconsistency-checker/output"
	"github.com/spf13/cobra"
)

var (
	checkOutDir string
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check <graph-file>",
	Short: "Check a serialized class hierarchy graph for inheritance consistency",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkOutDir, "out", ".", "directory to write inconsistency reports to")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	graphPath := args[0]
	logger := output.NewLogger(verbosityFromFlags(cmd))

	analytics.ReportEvent(analytics.CheckStarted)

	data, err := os.ReadFile(graphPath)
	if err != nil {
		analytics.ReportEvent(analytics.CheckFailed)
		setExitCode(output.ExitCodeError)
		return fmt.Errorf("%s: %w", graphPath, err)
	}

	g, err := hierarchy.Load(data)
	if err != nil {
		analytics.ReportEvent(analytics.CheckFailed)
		setExitCode(output.ExitCodeError)
		return err
	}

	logger.Progress("Checking %d classes...", len(g.Classes))
	results := mro.Check(g)

	summary := logger.ClassificationSummary(g, results)
	inconsistentIDs := logger.InconsistentClassIDs(g, results)

	if len(inconsistentIDs) > 0 {
		if err := writeReports(logger, g, results, inconsistentIDs); err != nil {
			analytics.ReportEvent(analytics.CheckFailed)
			setExitCode(output.ExitCodeError)
			return err
		}
	}

	if checkFormat == "json" {
		jf := output.NewJSONFormatter(nil)
		if err := jf.Format(g, results, summary); err != nil {
			analytics.ReportEvent(analytics.CheckFailed)
			setExitCode(output.ExitCodeError)
			return err
		}
	} else {
		tf := output.NewTextFormatter(nil)
		tf.WriteSummary(summary)
	}

	setExitCode(output.DetermineExitCode(summary.Inconsistent, false))
	analytics.ReportEvent(analytics.CheckCompleted)
	return nil
}

func writeReports(logger *output.Logger, g *hierarchy.ClassGraph, results map[string]*mro.Result, ids []string) error {
	tf := output.NewTextFormatter(nil)

	for _, id := range ids {
		res := results[id]
		var dir, report string
		switch res.Status {
		case mro.StatusCycleInconsistent:
			dir = "cycle_inconsistent_info"
			report = tf.FormatCycleInconsistent(id, g)
		case mro.StatusSourceLogicalInconsistent:
			dir = "source_logical_inconsistent_info"
			report = tf.FormatSourceLogicalInconsistent(id, res, g)
		case mro.StatusInheritedLogicalInconsistent:
			dir = "inherited_logical_inconsistent_info"
			report = tf.FormatInheritedLogicalInconsistent(id, g)
		default:
			continue
		}

		fullDir := filepath.Join(checkOutDir, dir)
		if err := os.MkdirAll(fullDir, 0o755); err != nil {
			return err
		}
		reportPath := filepath.Join(fullDir, id+".txt")
		if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
			return err
		}
		logger.Debug("%s: %s -> %s", res.Status, id, reportPath)
	}

	return nil
}
