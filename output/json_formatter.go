package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/mro"
)

// JSONFormatter renders the class graph and its consistency results as
// JSON, an auxiliary report format alongside the default text reports.
type JSONFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewJSONFormatter creates a JSON formatter writing to stdout.
func NewJSONFormatter(opts *OutputOptions) *JSONFormatter {
	if opts == nil {
		defaults := NewDefaultOptions()
		opts = &defaults
	}
	return &JSONFormatter{writer: os.Stdout, options: opts}
}

// NewJSONFormatterWithWriter creates a formatter with a custom writer, for testing.
func NewJSONFormatterWithWriter(w io.Writer, opts *OutputOptions) *JSONFormatter {
	jf := NewJSONFormatter(opts)
	jf.writer = w
	return jf
}

// JSONReport is the top-level document written by the checker CLI's
// --format json mode.
type JSONReport struct {
	Classes []JSONClass `json:"classes"`
	Summary JSONSummary `json:"summary"`
}

// JSONClass is one class's resolved bases and consistency classification.
type JSONClass struct {
	ID            string         `json:"id"`
	SourceFile    string         `json:"source_file,omitempty"`
	Bases         []string       `json:"bases,omitempty"`
	Status        string         `json:"status"`
	Linearization []string       `json:"linearization,omitempty"`
	Conflict      *JSONConflict  `json:"conflict,omitempty"`
}

// JSONConflict mirrors mro.Conflict for serialization.
type JSONConflict struct {
	X   string `json:"x"`
	Y   string `json:"y"`
	Via string `json:"via"`
}

// JSONSummary is the aggregated counts also shown in the text report.
type JSONSummary struct {
	ClassCount   int `json:"class_count"`
	ModuleCount  int `json:"module_count"`
	EdgeCount    int `json:"edge_count"`
	Inconsistent int `json:"inconsistent"`
	CycleCount   int `json:"cycle_count"`
}

// Format writes the full class graph and classification results as
// indented JSON.
func (f *JSONFormatter) Format(g *hierarchy.ClassGraph, results map[string]*mro.Result, summary *Summary) error {
	report := JSONReport{
		Summary: JSONSummary{
			ClassCount:   summary.ClassCount,
			ModuleCount:  summary.ModuleCount,
			EdgeCount:    summary.EdgeCount,
			Inconsistent: summary.Inconsistent,
			CycleCount:   summary.CycleCount,
		},
	}

	for _, id := range g.SortedIDs() {
		entry := g.Classes[id]
		res := results[id]

		jc := JSONClass{
			ID:         id,
			SourceFile: entry.SourceFile,
			Bases:      entry.Bases,
		}
		if res != nil {
			jc.Status = res.Status.String()
			jc.Linearization = res.Linearization
			if res.Conflict != nil {
				jc.Conflict = &JSONConflict{X: res.Conflict.X, Y: res.Conflict.Y, Via: res.Conflict.Via}
			}
		}
		report.Classes = append(report.Classes, jc)
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
