// Package scope implements the alias collector and last-binding resolver:
// given a module's top-level statements, it tracks which name is bound to
// what, folding import/class/assignment/delete statements left to right,
// and resolves dotted base-class expressions against that binding state
// across module boundaries (including wildcard re-exports and relative
// imports).
package scope

import (
	"strings"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
	"github.com/JessHua159/inconsistency-checker/graph/walk"
)

// BindingKind classifies what a name in module scope ultimately refers to.
type BindingKind int

const (
	// BindingClass means Path is a fully resolved "<module>.<ClassName>" identifier.
	BindingClass BindingKind = iota
	// BindingModule means Path is a fully resolved dotted module path.
	BindingModule
	// BindingOther covers functions, plain variables, and anything else
	// that terminates a resolution chain without naming a class or module.
	BindingOther
	// BindingImportRef is not yet resolved: Path names the module to look
	// in (its last-binding map), AliasName the name to look up there.
	BindingImportRef
)

// Binding is one name's last-known meaning in a module's top-level scope.
type Binding struct {
	Kind      BindingKind
	Path      string
	AliasName string
}

// EventKind distinguishes the three ways a name's binding can change.
type EventKind int

const (
	EventBind EventKind = iota
	EventWildcardImport
	EventDelete
)

// Event is one alias mutation in source order, as produced by the
// collector (Component B) from a module's statements.
type Event struct {
	Kind               EventKind
	AliasStr           string
	Binding            Binding
	WildcardModulePath string
}

// collectEvents walks a file module's top-level statements and produces
// its ordered alias events. Nested statement bodies are never visited:
// the parser already dropped them.
func collectEvents(rootName string, mod *walk.Module) []Event {
	var events []Event

	for _, stmt := range mod.Statements {
		switch s := stmt.(type) {
		case *pyast.ClassDef:
			classID := string(mod.Path) + "." + s.Name
			events = append(events, Event{Kind: EventBind, AliasStr: s.Name, Binding: Binding{Kind: BindingClass, Path: classID}})

		case *pyast.FunctionDef:
			events = append(events, Event{Kind: EventBind, AliasStr: s.Name, Binding: Binding{Kind: BindingOther, Path: string(mod.Path) + "." + s.Name}})

		case *pyast.Import:
			for _, n := range s.Names {
				aliasStr := n.AsName
				if aliasStr == "" {
					aliasStr = n.Name
				}
				target := rootName + "." + n.Name
				b := Binding{Kind: BindingModule, Path: target}
				events = append(events, Event{Kind: EventBind, AliasStr: aliasStr, Binding: b})

				// `import x.y.__init__` binds "x.y" too, mirroring the
				// way Python resolves the qualified import target.
				if trimmed, ok := trimDunderInitSuffix(aliasStr); ok {
					events = append(events, Event{Kind: EventBind, AliasStr: trimmed, Binding: b})
				}
			}

		case *pyast.ImportFrom:
			basePath, ok := resolveImportFromBase(rootName, string(mod.Path), s.Level, s.Module)
			if !ok {
				continue
			}
			for _, n := range s.Names {
				if n.Name == "*" {
					events = append(events, Event{Kind: EventWildcardImport, WildcardModulePath: basePath})
					continue
				}
				aliasStr := n.AsName
				if aliasStr == "" {
					aliasStr = n.Name
				}
				b := Binding{Kind: BindingImportRef, Path: basePath, AliasName: n.Name}
				events = append(events, Event{Kind: EventBind, AliasStr: aliasStr, Binding: b})
				if trimmed, ok := trimDunderInitSuffix(aliasStr); ok {
					events = append(events, Event{Kind: EventBind, AliasStr: trimmed, Binding: b})
				}
			}

		case *pyast.Assign:
			for _, t := range s.Targets {
				appendOtherBindTargets(&events, mod.Path, t)
			}

		case *pyast.AnnAssign:
			appendOtherBindTargets(&events, mod.Path, s.Target)

		case *pyast.Delete:
			for _, t := range s.Targets {
				appendDeleteTargets(&events, t)
			}
		}
	}

	return events
}

// syntheticPackageEvents derives a package directory's implicit bindings:
// each immediate child file or subdirectory is bound as a module, the way
// "import pkg.sub" makes "sub" reachable as an attribute of "pkg" even
// without an explicit import inside pkg/__init__.py.
func syntheticPackageEvents(mod *walk.Module) []Event {
	var events []Event
	for _, child := range mod.Children {
		events = append(events, Event{
			Kind:     EventBind,
			AliasStr: child,
			Binding:  Binding{Kind: BindingModule, Path: string(mod.Path) + "." + child},
		})
	}
	return events
}

func appendOtherBindTargets(events *[]Event, modPath pyast.ModulePath, target pyast.Expr) {
	switch t := target.(type) {
	case *pyast.Name:
		*events = append(*events, Event{Kind: EventBind, AliasStr: t.Id, Binding: Binding{Kind: BindingOther, Path: string(modPath) + "." + t.Id}})
	case *pyast.Tuple:
		for _, e := range t.Elts {
			appendOtherBindTargets(events, modPath, e)
		}
	case *pyast.List:
		for _, e := range t.Elts {
			appendOtherBindTargets(events, modPath, e)
		}
	case *pyast.Attribute:
		if s, ok := dottedString(t); ok {
			*events = append(*events, Event{Kind: EventBind, AliasStr: s, Binding: Binding{Kind: BindingOther, Path: string(modPath) + "." + s}})
		}
	}
}

func appendDeleteTargets(events *[]Event, target pyast.Expr) {
	switch t := target.(type) {
	case *pyast.Name:
		*events = append(*events, Event{Kind: EventDelete, AliasStr: t.Id})
	case *pyast.Tuple:
		for _, e := range t.Elts {
			appendDeleteTargets(events, e)
		}
	case *pyast.Attribute:
		if s, ok := dottedString(t); ok {
			*events = append(*events, Event{Kind: EventDelete, AliasStr: s})
		}
	}
}

// dottedString reduces a Name/Attribute chain to its textual dotted form,
// e.g. Attribute{Attribute{Name{"a"},"b"},"c"} -> "a.b.c". Returns false
// for any expression that is not a pure name/attribute chain.
func dottedString(e pyast.Expr) (string, bool) {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id, true
	case *pyast.Attribute:
		base, ok := dottedString(v.Value)
		if !ok {
			return "", false
		}
		return base + "." + v.Attr, true
	default:
		return "", false
	}
}

func trimDunderInitSuffix(aliasStr string) (string, bool) {
	const suffix = ".__init__"
	if strings.HasSuffix(aliasStr, suffix) && len(aliasStr) > len(suffix) {
		return strings.TrimSuffix(aliasStr, suffix), true
	}
	return "", false
}

// resolveImportFromBase computes the dotted module path an `import from`
// clause's module reference points at, purely syntactically: whether or
// not that path actually exists in the codebase is decided later, by
// looking it up in the walk result.
//
// Absolute imports are resolved the way the codebase's own root package is
// named: `from pkg.sub import x` written anywhere in the tree is assumed
// to mean the project's own "pkg.sub", matching how this checker only
// ever analyzes a single rooted source tree.
func resolveImportFromBase(rootName string, fromModule string, level int, module string) (string, bool) {
	if level == 0 {
		if module == "" {
			return "", false
		}
		return rootName + "." + module, true
	}

	segments := strings.Split(fromModule, ".")
	if level > len(segments) {
		return "", false
	}
	base := strings.Join(segments[:len(segments)-level], ".")
	if base == "" {
		// Navigated to or past the codebase root's own parent: out of tree.
		return "", false
	}
	if module == "" {
		return base, true
	}
	return base + "." + module, true
}
