package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/mro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestGraph() *hierarchy.ClassGraph {
	g := hierarchy.New()
	g.Classes["pkg.A"] = &hierarchy.Entry{SourceFile: "pkg/a.py"}
	g.Classes["pkg.B"] = &hierarchy.Entry{SourceFile: "pkg/b.py", Bases: []string{"pkg.A"}}
	return g
}

func TestNewJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter(nil)
	require.NotNil(t, jf)
	require.NotNil(t, jf.options)
}

func TestJSONFormatterStructure(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	g := buildTestGraph()
	results := map[string]*mro.Result{
		"pkg.A": {Status: mro.StatusConsistent, Linearization: []string{"pkg.A"}},
		"pkg.B": {Status: mro.StatusConsistent, Linearization: []string{"pkg.B", "pkg.A"}},
	}
	summary := &Summary{ClassCount: 2, EdgeCount: 1}

	err := jf.Format(g, results, summary)
	require.NoError(t, err)

	var report JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	require.Len(t, report.Classes, 2)
	assert.Equal(t, "pkg.A", report.Classes[0].ID)
	assert.Equal(t, "pkg/a.py", report.Classes[0].SourceFile)
	assert.Equal(t, "consistent", report.Classes[0].Status)
	assert.Equal(t, "pkg.B", report.Classes[1].ID)
	assert.Equal(t, []string{"pkg.A"}, report.Classes[1].Bases)
	assert.Equal(t, 2, report.Summary.ClassCount)
	assert.Equal(t, 1, report.Summary.EdgeCount)
}

func TestJSONFormatterConflict(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	g := hierarchy.New()
	g.Classes["pkg.X"] = &hierarchy.Entry{SourceFile: "pkg/x.py", Bases: []string{"pkg.A", "pkg.B"}}
	results := map[string]*mro.Result{
		"pkg.X": {Status: mro.StatusSourceLogicalInconsistent, Conflict: &mro.Conflict{X: "pkg.A", Y: "pkg.B", Via: "pkg.B"}},
	}
	summary := &Summary{ClassCount: 1, Inconsistent: 1}

	require.NoError(t, jf.Format(g, results, summary))

	var report JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	require.Len(t, report.Classes, 1)
	require.NotNil(t, report.Classes[0].Conflict)
	assert.Equal(t, "pkg.A", report.Classes[0].Conflict.X)
	assert.Equal(t, "pkg.B", report.Classes[0].Conflict.Y)
	assert.Equal(t, "source_logical_inconsistent", report.Classes[0].Status)
}

func TestJSONFormatterEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	jf := NewJSONFormatterWithWriter(&buf, nil)

	err := jf.Format(hierarchy.New(), map[string]*mro.Result{}, &Summary{})
	require.NoError(t, err)

	var report JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Empty(t, report.Classes)
}
