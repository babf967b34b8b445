package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JessHua159/inconsistency-checker/analytics"
	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/scope"
	"github.com/JessHua159/inconsistency-checker/graph/walk"
	"github.com/JessHua159/inconsistency-checker/output"
	"github.com/spf13/cobra"
)

var graphOutDir string

var graphCmd = &cobra.Command{
	Use:   "graph <path>",
	Short: "Build the class hierarchy graph for a Python codebase",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphOutDir, "out", ".", "directory to write the serialized class hierarchy graph to")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	projectPath := args[0]
	logger := output.NewLogger(verbosityFromFlags(cmd))

	analytics.ReportEvent(analytics.GraphBuildStarted)

	info, err := os.Stat(projectPath)
	if err != nil {
		analytics.ReportEvent(analytics.GraphBuildFailed)
		return fmt.Errorf("%s: %w", projectPath, err)
	}

	logger.Progress("Walking %s...", projectPath)
	walkResult, err := walk.Walk(logger, projectPath)
	if err != nil {
		analytics.ReportEvent(analytics.GraphBuildFailed)
		return err
	}

	rootName := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	sc := scope.New(walkResult, rootName)

	logger.Progress("Resolving class hierarchy...")
	g := hierarchy.Build(logger, walkResult, sc, rootName)

	logger.Statistic("%d modules walked, %d classes, %d resolved base edges", len(walkResult.Modules), len(g.Classes), g.NumResolvedBases())

	data, err := hierarchy.Save(g)
	if err != nil {
		analytics.ReportEvent(analytics.GraphBuildFailed)
		return err
	}

	baseName := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	if info.IsDir() {
		baseName = filepath.Base(filepath.Clean(projectPath))
	}
	outPath := filepath.Join(graphOutDir, baseName+"_class_hierarchy_graph.gob")

	if err := os.MkdirAll(graphOutDir, 0o755); err != nil {
		analytics.ReportEvent(analytics.GraphBuildFailed)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		analytics.ReportEvent(analytics.GraphBuildFailed)
		return err
	}

	logger.Progress("Wrote %s", outPath)
	analytics.ReportEvent(analytics.GraphBuildCompleted)
	return nil
}
