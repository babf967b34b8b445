package mro

import (
	"testing"

	"github.com/JessHua159/inconsistency-checker/graph/hierarchy"
)

func graphOf(entries map[string][]string) *hierarchy.ClassGraph {
	g := hierarchy.New()
	for id, bases := range entries {
		g.Classes[id] = &hierarchy.Entry{Bases: bases}
	}
	return g
}

func TestFindSCCsAcyclicGraph(t *testing.T) {
	g := graphOf(map[string][]string{
		"O": nil,
		"A": {"O"},
		"B": {"O"},
		"C": {"A", "B"},
	})

	sccOf, sccs := findSCCs(g)
	for _, id := range []string{"O", "A", "B", "C"} {
		if len(sccs[sccOf[id]]) != 1 {
			t.Errorf("%s should be in a singleton SCC", id)
		}
	}
}

func TestCycleInconsistentSelfLoop(t *testing.T) {
	g := graphOf(map[string][]string{
		"X": {"X"},
	})
	sccOf, sccs := findSCCs(g)
	cyc := cycleInconsistent(g, sccOf, sccs)
	if !cyc["X"] {
		t.Error("expected X (self-loop) to be cycle-inconsistent")
	}
}

func TestCycleInconsistentTwoNodeCycle(t *testing.T) {
	g := graphOf(map[string][]string{
		"Y": {"Z"},
		"Z": {"Y"},
	})
	sccOf, sccs := findSCCs(g)
	cyc := cycleInconsistent(g, sccOf, sccs)
	if !cyc["Y"] || !cyc["Z"] {
		t.Errorf("expected both Y and Z to be cycle-inconsistent, got %+v", cyc)
	}
}

func TestCycleInconsistentNoFalsePositives(t *testing.T) {
	g := graphOf(map[string][]string{
		"O": nil,
		"A": {"O"},
		"B": {"A"},
	})
	sccOf, sccs := findSCCs(g)
	cyc := cycleInconsistent(g, sccOf, sccs)
	if len(cyc) != 0 {
		t.Errorf("expected no cycle-inconsistent classes, got %+v", cyc)
	}
}

func TestFindSCCsIgnoresUnresolvedBaseEdges(t *testing.T) {
	g := graphOf(map[string][]string{
		"A": {"pkg.Unresolved"},
	})
	sccOf, sccs := findSCCs(g)
	if len(sccs[sccOf["A"]]) != 1 {
		t.Error("A should form its own singleton SCC despite an unresolved base edge")
	}
}
