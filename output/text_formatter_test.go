package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
	"github.com/JessHua159/inconsistency-checker/graph/mro"
	"github.com/stretchr/testify/assert"
)

func TestNewTextFormatter(t *testing.T) {
	tf := NewTextFormatter(nil)
	assert.NotNil(t, tf)
	assert.NotNil(t, tf.options)
}

func TestFormatCycleInconsistent(t *testing.T) {
	g := hierarchy.New()
	g.Classes["pkg.A"] = &hierarchy.Entry{SourceFile: "pkg/a.py", Bases: []string{"pkg.A"}}

	tf := NewTextFormatter(nil)
	report := tf.FormatCycleInconsistent("pkg.A", g)

	assert.Contains(t, report, "pkg.A")
	assert.Contains(t, report, "inheritance cycle")
	assert.Contains(t, report, "pkg/a.py")
}

func TestFormatSourceLogicalInconsistent(t *testing.T) {
	g := hierarchy.New()
	g.Classes["pkg.X"] = &hierarchy.Entry{SourceFile: "pkg/x.py", Bases: []string{"pkg.A", "pkg.B"}}
	g.Classes["pkg.A"] = &hierarchy.Entry{SourceFile: "pkg/a.py"}
	g.Classes["pkg.B"] = &hierarchy.Entry{SourceFile: "pkg/b.py"}

	res := &mro.Result{
		Status:   mro.StatusSourceLogicalInconsistent,
		Conflict: &mro.Conflict{X: "pkg.A", Y: "pkg.B", Via: "pkg.B"},
	}

	tf := NewTextFormatter(nil)
	report := tf.FormatSourceLogicalInconsistent("pkg.X", res, g)

	assert.Contains(t, report, "Linearization of class pkg.X cannot be computed.")
	assert.Contains(t, report, "class pkg.A before class pkg.B in local precedence order of class pkg.X")
	assert.Contains(t, report, "class pkg.B before class pkg.A in precedence order of class pkg.B")
	assert.Contains(t, report, "pkg/x.py")
	assert.Contains(t, report, "pkg/a.py")
	assert.Contains(t, report, "pkg/b.py")
}

func TestFormatInheritedLogicalInconsistent(t *testing.T) {
	g := hierarchy.New()
	g.Classes["pkg.C"] = &hierarchy.Entry{SourceFile: "pkg/c.py"}

	tf := NewTextFormatter(nil)
	report := tf.FormatInheritedLogicalInconsistent("pkg.C", g)

	assert.Contains(t, report, "pkg.C")
	assert.Contains(t, report, "ancestor")
}

func TestSourceOfUnknownClass(t *testing.T) {
	g := hierarchy.New()
	assert.Equal(t, "<external>", sourceOf(g, "not.there"))
}

func TestWriteSummaryClean(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil)

	tf.WriteSummary(&Summary{ClassCount: 5, ModuleCount: 2, EdgeCount: 4})

	output := buf.String()
	assert.Contains(t, output, "5 classes, 2 modules, 4 resolved base edges")
	assert.Contains(t, output, "No inheritance inconsistencies found.")
}

func TestWriteSummaryWithInconsistencies(t *testing.T) {
	var buf bytes.Buffer
	tf := NewTextFormatterWithWriter(&buf, nil)

	tf.WriteSummary(&Summary{ClassCount: 5, ModuleCount: 2, EdgeCount: 4, Inconsistent: 2, CycleCount: 1})

	output := buf.String()
	assert.True(t, strings.Contains(output, "2 inconsistent classes (1 on an inheritance cycle)"))
}
