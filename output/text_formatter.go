package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/mro"
)

// TextFormatter renders per-class consistency results as human-readable
// reports, one per inconsistent class, in the text layout the reference
// checker used for its own diagnostic dumps.
type TextFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewTextFormatter creates a text formatter writing to stdout.
func NewTextFormatter(opts *OutputOptions) *TextFormatter {
	if opts == nil {
		defaults := NewDefaultOptions()
		opts = &defaults
	}
	return &TextFormatter{writer: os.Stdout, options: opts}
}

// NewTextFormatterWithWriter creates a formatter with a custom writer, for testing.
func NewTextFormatterWithWriter(w io.Writer, opts *OutputOptions) *TextFormatter {
	tf := NewTextFormatter(opts)
	tf.writer = w
	return tf
}

// FormatCycleInconsistent renders the report for one class found on an
// inheritance cycle.
func (f *TextFormatter) FormatCycleInconsistent(classID string, g *hierarchy.ClassGraph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Class %s participates in an inheritance cycle.\n", classID)
	fmt.Fprintf(&b, "class %s from %s\n", classID, sourceOf(g, classID))
	return b.String()
}

// FormatSourceLogicalInconsistent renders the conflict-witness report for
// one class whose own direct bases could not be merged into a single
// linearization.
func (f *TextFormatter) FormatSourceLogicalInconsistent(classID string, res *mro.Result, g *hierarchy.ClassGraph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Linearization of class %s cannot be computed.\n", classID)

	if res.Conflict != nil && res.Conflict.Y != "" {
		c := res.Conflict
		fmt.Fprintf(&b, "class %s before class %s in local precedence order of class %s,\n", c.X, c.Y, classID)
		fmt.Fprintf(&b, "class %s before class %s in precedence order of class %s.\n", c.Y, c.X, c.Via)
	}

	fmt.Fprintf(&b, "class %s from %s\n", classID, sourceOf(g, classID))
	if res.Conflict != nil {
		if res.Conflict.X != "" {
			fmt.Fprintf(&b, "class %s from %s\n", res.Conflict.X, sourceOf(g, res.Conflict.X))
		}
		if res.Conflict.Y != "" {
			fmt.Fprintf(&b, "class %s from %s\n", res.Conflict.Y, sourceOf(g, res.Conflict.Y))
		}
	}
	fmt.Fprintln(&b)
	return b.String()
}

// FormatInheritedLogicalInconsistent renders the short report for a class
// whose own bases would merge fine, but which inherits an inconsistency
// from one of its ancestors.
func (f *TextFormatter) FormatInheritedLogicalInconsistent(classID string, g *hierarchy.ClassGraph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Class %s is inconsistent because one of its ancestors is.\n", classID)
	fmt.Fprintf(&b, "class %s from %s\n", classID, sourceOf(g, classID))
	return b.String()
}

func sourceOf(g *hierarchy.ClassGraph, classID string) string {
	if entry, ok := g.Classes[classID]; ok && entry.SourceFile != "" {
		return entry.SourceFile
	}
	return "<external>"
}

// WriteSummary prints the always-shown final result line, preceded by a
// terminal-width rule when writing to an interactive terminal.
func (f *TextFormatter) WriteSummary(s *Summary) {
	if IsTTY(f.writer) {
		fmt.Fprintln(f.writer, strings.Repeat("-", GetTerminalWidth(f.writer)))
	}
	fmt.Fprintf(f.writer, "%d classes, %d modules, %d resolved base edges\n", s.ClassCount, s.ModuleCount, s.EdgeCount)
	if s.Inconsistent == 0 {
		fmt.Fprintln(f.writer, "No inheritance inconsistencies found.")
		return
	}
	fmt.Fprintf(f.writer, "%d inconsistent classes (%d on an inheritance cycle)\n", s.Inconsistent, s.CycleCount)
}
