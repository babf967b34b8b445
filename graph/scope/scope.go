package scope

import (
	"strings"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
	"github.com/JessHua159/inconsistency-checker/graph/walk"
)

// Scope folds each module's alias events into a last-binding map on
// demand, and resolves dotted base-class names against those maps. It is
// the union of Components B and C: events are collected lazily, the first
// time a module's bindings are actually needed.
type Scope struct {
	walkResult *walk.Result
	rootName   string

	lastBindings map[pyast.ModulePath]map[string]Binding
	building     map[pyast.ModulePath]bool

	// derefCache memoizes BindingImportRef -> terminal Binding lookups,
	// keyed by "path|aliasName", the same memoization original resolvers
	// use to avoid re-walking long wildcard re-export chains.
	derefCache map[string]Binding
	derefOK    map[string]bool
}

// New builds a Scope over an already-walked codebase. rootName is the
// canonical name of the codebase root module (its basename), used to
// resolve absolute imports written as though the project were itself a
// top-level package.
func New(walkResult *walk.Result, rootName string) *Scope {
	return &Scope{
		walkResult:   walkResult,
		rootName:     rootName,
		lastBindings: make(map[pyast.ModulePath]map[string]Binding),
		building:     make(map[pyast.ModulePath]bool),
		derefCache:   make(map[string]Binding),
		derefOK:      make(map[string]bool),
	}
}

// LastBindings returns the fully-folded name -> Binding map for path,
// computing it (and recursively, anything it wildcard-imports from) on
// first use. The second return value is false if path is not part of the
// walked codebase, or if resolving it circled back into itself.
func (s *Scope) LastBindings(path pyast.ModulePath) (map[string]Binding, bool) {
	if cached, ok := s.lastBindings[path]; ok {
		return cached, true
	}
	if s.building[path] {
		// Import cycle: this module's bindings are not yet available to
		// whatever asked for them higher up the call stack. The caller
		// treats that the same as "nothing resolved from here".
		return nil, false
	}

	mod, ok := s.walkResult.ByPath[path]
	if !ok {
		return nil, false
	}

	s.building[path] = true
	defer delete(s.building, path)

	var events []Event
	if mod.Kind == pyast.PathKindPackage {
		events = syntheticPackageEvents(mod)
	} else {
		events = collectEvents(s.rootName, mod)
	}

	result := make(map[string]Binding)
	for _, ev := range events {
		switch ev.Kind {
		case EventDelete:
			delete(result, ev.AliasStr)
		case EventBind:
			result[ev.AliasStr] = ev.Binding
		case EventWildcardImport:
			s.expandWildcard(result, ev.WildcardModulePath)
		}
	}

	s.lastBindings[path] = result
	return result, true
}

// expandWildcard merges the names last-defined by `from <src> import *`
// into dst. A wildcard import only ever sees a package's __init__ module,
// never its synthetic submodule listing: `from pkg import *` does not
// implicitly re-export pkg's submodules the way `from pkg import sub`
// would resolve "sub" as an attribute.
func (s *Scope) expandWildcard(dst map[string]Binding, src string) {
	lookupPath := pyast.ModulePath(src)
	if mod, ok := s.walkResult.ByPath[lookupPath]; ok && mod.Kind == pyast.PathKindPackage {
		lookupPath = pyast.ModulePath(src + ".__init__")
	} else if !ok {
		lookupPath = pyast.ModulePath(src + ".__init__")
	}

	srcBindings, ok := s.LastBindings(lookupPath)
	if !ok {
		return
	}
	for name, b := range srcBindings {
		dst[name] = b
	}
}

// deref follows a chain of BindingImportRef bindings down to a terminal
// Binding (Class, Module, or Other), the way `from a import b as c` must
// look into a's own last-binding map to learn what `b` really is.
func (s *Scope) deref(b Binding) (Binding, bool) {
	visited := make(map[string]bool)
	return s.derefVisited(b, visited)
}

func (s *Scope) derefVisited(b Binding, visited map[string]bool) (Binding, bool) {
	for b.Kind == BindingImportRef {
		key := b.Path + "|" + b.AliasName
		if cached, ok := s.derefCache[key]; ok {
			if !s.derefOK[key] {
				return Binding{}, false
			}
			b = cached
			continue
		}
		if visited[key] {
			return Binding{}, false
		}
		visited[key] = true

		next, ok := s.lookupAcrossInit(b.Path, b.AliasName)
		if !ok {
			s.derefOK[key] = false
			return Binding{}, false
		}
		resolved, ok := s.derefVisited(next, visited)
		s.derefCache[key] = resolved
		s.derefOK[key] = ok
		if !ok {
			return Binding{}, false
		}
		b = resolved
	}
	return b, true
}

// lookupAcrossInit looks up name in modulePath's last-binding map,
// preferring modulePath + ".__init__" (an actual __init__.py file) over
// modulePath itself (a package's synthetic submodule listing).
func (s *Scope) lookupAcrossInit(modulePath string, name string) (Binding, bool) {
	for _, candidate := range []pyast.ModulePath{pyast.ModulePath(modulePath + ".__init__"), pyast.ModulePath(modulePath)} {
		bindings, ok := s.LastBindings(candidate)
		if !ok {
			continue
		}
		if b, ok := bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// ResolveClass resolves a dotted base-class expression (already reduced to
// its segments, e.g. ["pkg", "sub", "Base"]) written inside module `from`,
// to a fully qualified class identifier. It returns false if no such class
// can be found anywhere in the walked codebase.
func (s *Scope) ResolveClass(from pyast.ModulePath, segments []string) (string, bool) {
	if len(segments) == 0 {
		return "", false
	}

	if len(segments) == 1 {
		bindings, ok := s.LastBindings(from)
		if !ok {
			return "", false
		}
		b, ok := bindings[segments[0]]
		if !ok {
			return "", false
		}
		resolved, ok := s.deref(b)
		if !ok || resolved.Kind != BindingClass {
			return "", false
		}
		return resolved.Path, true
	}

	className := segments[len(segments)-1]
	prefixSegments := segments[:len(segments)-1]

	// Try progressively shorter left prefixes as "the part that's an alias
	// bound in `from`'s own scope", so `import pkg.sub as s` lets
	// `s.mod.Base` resolve even though only "s" (not "s.mod") is bound.
	for splitIdx := len(prefixSegments); splitIdx >= 1; splitIdx-- {
		aliasCandidate := strings.Join(prefixSegments[:splitIdx], ".")

		bindings, ok := s.LastBindings(from)
		if !ok {
			return "", false
		}
		b, ok := bindings[aliasCandidate]
		if !ok {
			continue
		}
		resolved, ok := s.deref(b)
		if !ok || resolved.Kind != BindingModule {
			continue
		}

		curModule := resolved.Path
		remaining := prefixSegments[splitIdx:]
		valid := true
		for _, seg := range remaining {
			nb, ok := s.lookupAcrossInit(curModule, seg)
			if !ok {
				valid = false
				break
			}
			nb, ok = s.deref(nb)
			if !ok || nb.Kind != BindingModule {
				valid = false
				break
			}
			curModule = nb.Path
		}
		if !valid {
			continue
		}

		classBinding, ok := s.lookupAcrossInit(curModule, className)
		if !ok {
			continue
		}
		classBinding, ok = s.deref(classBinding)
		if !ok || classBinding.Kind != BindingClass {
			continue
		}
		return classBinding.Path, true
	}

	return "", false
}
