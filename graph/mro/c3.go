package mro

import "github.com/JessHua159/inconsistency-checker/graph/hierarchy"

// Status classifies one class's inheritance consistency.
type Status int

const (
	// StatusConsistent means a C3 linearization was computed successfully
	// and no ancestor is cycle- or logical-inconsistent.
	StatusConsistent Status = iota
	// StatusCycleInconsistent means the class sits on an inheritance cycle.
	StatusCycleInconsistent
	// StatusSourceLogicalInconsistent means the class's own direct bases
	// cannot be merged into a single linearization, independent of any
	// ancestor's status.
	StatusSourceLogicalInconsistent
	// StatusInheritedLogicalInconsistent means the class's own merge would
	// succeed, but it inherits the inconsistency from a cycle- or
	// logical-inconsistent ancestor.
	StatusInheritedLogicalInconsistent
)

func (s Status) String() string {
	switch s {
	case StatusConsistent:
		return "consistent"
	case StatusCycleInconsistent:
		return "cycle_inconsistent"
	case StatusSourceLogicalInconsistent:
		return "source_logical_inconsistent"
	case StatusInheritedLogicalInconsistent:
		return "inherited_logical_inconsistent"
	default:
		return "unknown"
	}
}

// Conflict is the precedence-order witness returned when a class's direct
// bases cannot be merged: x and y are two classes whose relative order
// disagrees between the local precedence order (the last merge input
// still left when the merge fails, usually the direct bases list; see
// precedenceConflict) and Via's own linearization.
type Conflict struct {
	X   string
	Y   string
	Via string
}

// Result is one class's full consistency classification.
type Result struct {
	Status        Status
	Linearization []string
	Conflict      *Conflict
}

type classify struct {
	graph             *hierarchy.ClassGraph
	cycleInconsistent map[string]bool
	results           map[string]*Result
}

// Check runs the full Component E pipeline over g: SCC cycle detection,
// then a C3 linearization pass over every class not itself cycle-
// inconsistent, propagating inherited inconsistency from ancestors.
func Check(g *hierarchy.ClassGraph) map[string]*Result {
	sccOf, sccs := findSCCs(g)
	cyc := cycleInconsistent(g, sccOf, sccs)

	c := &classify{graph: g, cycleInconsistent: cyc, results: make(map[string]*Result)}

	for v := range cyc {
		c.results[v] = &Result{Status: StatusCycleInconsistent}
	}

	for _, root := range g.SortedIDs() {
		c.linearize(root, make(map[string]bool))
	}

	return c.results
}

// linearize computes (and memoizes) class v's Result, first recursing into
// every base so that an ancestor's status is always known before v's own
// merge is attempted — mirroring the reference checker's postorder
// traversal, where children are always linearized after their parents.
func (c *classify) linearize(v string, inProgress map[string]bool) *Result {
	if r, ok := c.results[v]; ok {
		return r
	}
	if inProgress[v] {
		// Guards against revisiting a class that's an ancestor of itself
		// through a path the cycle detector didn't already mark; should
		// not occur since every genuine cycle was already classified.
		return &Result{Status: StatusCycleInconsistent}
	}
	inProgress[v] = true
	defer delete(inProgress, v)

	entry, ok := c.graph.Classes[v]
	if !ok {
		r := &Result{Status: StatusConsistent, Linearization: []string{v}}
		c.results[v] = r
		return r
	}

	baseResults := make([]*Result, len(entry.Bases))
	for i, base := range entry.Bases {
		baseResults[i] = c.linearize(base, inProgress)
	}

	for _, br := range baseResults {
		switch br.Status {
		case StatusCycleInconsistent, StatusSourceLogicalInconsistent, StatusInheritedLogicalInconsistent:
			r := &Result{Status: StatusInheritedLogicalInconsistent}
			c.results[v] = r
			return r
		}
	}

	lists := make([]namedList, 0, len(entry.Bases)+1)
	for i, br := range baseResults {
		lists = append(lists, namedList{owner: entry.Bases[i], items: append([]string{}, br.Linearization...)})
	}
	lists = append(lists, namedList{owner: "", items: append([]string{}, entry.Bases...)})

	merged, conflict := c3Merge(lists)
	if conflict != nil {
		r := &Result{Status: StatusSourceLogicalInconsistent, Conflict: conflict}
		c.results[v] = r
		return r
	}

	full := append([]string{v}, merged...)
	r := &Result{Status: StatusConsistent, Linearization: full}
	c.results[v] = r
	return r
}

// namedList is one input list to the C3 merge, tagged with the class whose
// own linearization produced it (empty for the direct-bases list itself,
// which has no single "owner" other than the class being linearized).
type namedList struct {
	owner string
	items []string
}

// c3Merge implements the classical C3 linearization merge: repeatedly pick
// the first head of any list that does not appear in the tail of any
// other list, append it to the result, and remove it everywhere. If no
// such head exists while lists remain non-empty, linearization fails and
// the precedence-order conflict witness is computed from the lists as
// they stood at the point of failure.
func c3Merge(lists []namedList) ([]string, *Conflict) {
	var result []string

	for {
		lists = dropEmpty(lists)
		if len(lists) == 0 {
			return result, nil
		}

		var head string
		found := false
		for _, l := range lists {
			candidate := l.items[0]
			if !inAnyTail(lists, candidate) {
				head = candidate
				found = true
				break
			}
		}

		if !found {
			return nil, precedenceConflict(lists)
		}

		result = append(result, head)
		for i := range lists {
			lists[i].items = removeFirstOccurrence(lists[i].items, head)
		}
	}
}

func dropEmpty(lists []namedList) []namedList {
	out := lists[:0]
	for _, l := range lists {
		if len(l.items) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func inAnyTail(lists []namedList, name string) bool {
	for _, l := range lists {
		for _, n := range l.items[1:] {
			if n == name {
				return true
			}
		}
	}
	return false
}

func removeFirstOccurrence(list []string, name string) []string {
	out := make([]string, 0, len(list))
	removed := false
	for _, n := range list {
		if !removed && n == name {
			removed = true
			continue
		}
		out = append(out, n)
	}
	return out
}

// precedenceConflict computes the conflict witness when the merge gets
// stuck. The direct-bases list is appended last when linearize builds
// lists, and dropEmpty only ever filters lists out in place — it never
// reorders what survives — so whichever list is still last at the point
// of failure is the local precedence order: ordinarily that is still the
// direct-bases list itself, but a conflict can also surface only after the
// direct list's own classes have already been placed successfully, in
// which case the last surviving list is one of the ancestor linearizations
// that the remaining conflict actually traces back to. Either way x is
// that list's head; y is the nearest preceding class, scanning backward
// from x's position in another list, that appears in the local list
// strictly after x; Via names the base class whose own linearization
// contributed that list.
func precedenceConflict(lists []namedList) *Conflict {
	if len(lists) == 0 {
		return &Conflict{}
	}
	localIdx := len(lists) - 1
	local := lists[localIdx]
	x := local.items[0]

	afterX := make(map[string]bool, len(local.items)-1)
	for _, n := range local.items[1:] {
		afterX[n] = true
	}

	for i, l := range lists {
		if i == localIdx {
			continue
		}
		xi := indexOf(l.items, x)
		if xi <= 0 {
			continue
		}
		for j := xi - 1; j >= 0; j-- {
			if afterX[l.items[j]] {
				return &Conflict{X: x, Y: l.items[j], Via: l.owner}
			}
		}
	}

	return &Conflict{X: x}
}

func indexOf(list []string, name string) int {
	for i, n := range list {
		if n == name {
			return i
		}
	}
	return -1
}
