// Package mro implements the consistency checker: Tarjan's algorithm to
// find strongly connected components of the class hierarchy graph (any
// class in a non-trivial SCC, or a single class with a self-loop, sits on
// an inheritance cycle), and C3 linearization to determine, for every
// class not on a cycle, whether its full inheritance chain admits a
// single consistent method resolution order.
package mro

import "github.com/JessHua159/inconsistency-checker/graph/hierarchy"

// sccFinder runs Tarjan's strongly connected components algorithm over
// the class hierarchy graph's base-class edges (class -> base, the same
// direction bases are stored in Entry.Bases). Grounded on the classical
// recursive formulation: index/lowlink/onStack per node, a stack of nodes
// not yet assigned to a component, and a single DFS pass.
type sccFinder struct {
	graph *hierarchy.ClassGraph

	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	nextIdx int

	sccOf map[string]int
	sccs  [][]string
}

func newSCCFinder(g *hierarchy.ClassGraph) *sccFinder {
	return &sccFinder{
		graph:   g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
		sccOf:   make(map[string]int),
	}
}

// findSCCs computes the strongly connected components of every class in
// the graph, in deterministic order (classes visited in sorted order,
// each class's bases visited in the order they appear in Entry.Bases).
func findSCCs(g *hierarchy.ClassGraph) (sccOf map[string]int, sccs [][]string) {
	f := newSCCFinder(g)
	for _, id := range g.SortedIDs() {
		if _, visited := f.index[id]; !visited {
			f.strongconnect(id)
		}
	}
	return f.sccOf, f.sccs
}

func (f *sccFinder) strongconnect(v string) {
	f.index[v] = f.nextIdx
	f.lowlink[v] = f.nextIdx
	f.nextIdx++
	f.stack = append(f.stack, v)
	f.onStack[v] = true

	entry, ok := f.graph.Classes[v]
	if ok {
		for _, w := range entry.Bases {
			if _, ok := f.graph.Classes[w]; !ok {
				// Base resolved to something outside the analyzed class
				// set (should not normally happen since Build only
				// records resolved classes, but guards against it).
				continue
			}
			if _, visited := f.index[w]; !visited {
				f.strongconnect(w)
				if f.lowlink[w] < f.lowlink[v] {
					f.lowlink[v] = f.lowlink[w]
				}
			} else if f.onStack[w] {
				if f.index[w] < f.lowlink[v] {
					f.lowlink[v] = f.index[w]
				}
			}
		}
	}

	if f.lowlink[v] == f.index[v] {
		var component []string
		for {
			n := len(f.stack) - 1
			w := f.stack[n]
			f.stack = f.stack[:n]
			f.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		sccID := len(f.sccs)
		for _, w := range component {
			f.sccOf[w] = sccID
		}
		f.sccs = append(f.sccs, component)
	}
}

// cycleInconsistent reports which classes sit on an inheritance cycle: any
// class whose SCC has more than one member, or whose singleton SCC
// contains a self-loop (a class that (directly or via a resolved alias)
// lists itself as a base).
func cycleInconsistent(g *hierarchy.ClassGraph, sccOf map[string]int, sccs [][]string) map[string]bool {
	result := make(map[string]bool)
	for _, component := range sccs {
		if len(component) > 1 {
			for _, v := range component {
				result[v] = true
			}
			continue
		}
		v := component[0]
		entry, ok := g.Classes[v]
		if !ok {
			continue
		}
		for _, base := range entry.Bases {
			if base == v {
				result[v] = true
				break
			}
		}
	}
	return result
}
