package hierarchy

import (
	"strings"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
	"github.com/JessHua159/inconsistency-checker/graph/scope"
	"github.com/JessHua159/inconsistency-checker/graph/walk"
)

// debugLogger is the one logging capability the graph builder needs.
// Declared locally (rather than importing *output.Logger directly) since
// output renders reports over this package's own ClassGraph/Entry types
// and therefore must import hierarchy, not the other way around.
// *output.Logger satisfies this interface already.
type debugLogger interface {
	Debug(format string, args ...interface{})
}

// reservedAttributeNames are attribute names that can never statically
// name a user class, even when they appear as the final segment of a
// dotted base expression (e.g. `SomeClass.__class__`). Lifted from the set
// of dunder attributes every Python object/type carries.
var reservedAttributeNames = map[string]bool{
	"__annotations__": true, "__base__": true, "__bases__": true,
	"__basicsize__": true, "__call__": true, "__class__": true,
	"__delattr__": true, "__dict__": true, "__dictoffset__": true,
	"__dir__": true, "__doc__": true, "__eq__": true,
	"__flags__": true, "__format__": true, "__getattribute__": true,
	"__getstate__": true, "__hash__": true, "__init__": true,
	"__init_subclass__": true, "__instancecheck__": true, "__itemsize__": true,
	"__module__": true, "__mro__": true, "mro": true,
	"__name__": true, "__ne__": true, "__new__": true,
	"__or__": true, "__prepare__": true, "__qualname__": true,
	"__reduce__": true, "__reduce_ex__": true, "__repr__": true,
	"__ror__": true, "__setattr__": true, "__sizeof__": true,
	"__str__": true, "__subclasscheck__": true, "__subclasses__": true,
	"__subclasshook__": true, "__text_signature__": true,
}

// Build walks every file module once, classifying and resolving each
// class definition's base list into the class hierarchy graph. Classes
// that fail to parse were already dropped by the module walker; bases
// that cannot be resolved are logged and simply omitted as edges, per the
// checker's policy of treating unresolvable references as data, not
// fatal errors.
func Build(logger debugLogger, walkResult *walk.Result, sc *scope.Scope, rootName string) *ClassGraph {
	graph := New()

	for _, mod := range walkResult.Modules {
		if mod.Kind != pyast.PathKindFile {
			continue
		}
		for _, stmt := range mod.Statements {
			classDef, ok := stmt.(*pyast.ClassDef)
			if !ok {
				continue
			}
			buildClass(logger, graph, sc, mod, classDef)
		}
	}

	return graph
}

func buildClass(logger debugLogger, graph *ClassGraph, sc *scope.Scope, mod *walk.Module, classDef *pyast.ClassDef) {
	classID := string(mod.Path) + "." + classDef.Name
	if _, exists := graph.Classes[classID]; exists {
		// Duplicate class name within the same file: the checker does not
		// attempt to distinguish same-named classes defined twice in one
		// module, matching the reference tool's documented limitation.
		return
	}

	entry := &Entry{SourceFile: mod.SourceFile}
	graph.Classes[classID] = entry

	for _, base := range classDef.Bases {
		segments, isAttribute, ok := classifyBase(base)
		if !ok {
			logger.Debug("class %s: unresolvable base expression shape, skipping", classID)
			continue
		}

		finalName := segments[len(segments)-1]
		if isAttribute && reservedAttributeNames[finalName] {
			logger.Debug("class %s: base ends in reserved attribute %q, skipping", classID, finalName)
			continue
		}

		resolved, ok := sc.ResolveClass(mod.Path, segments)
		if !ok {
			logger.Debug("class %s: could not resolve base %s", classID, strings.Join(segments, "."))
			continue
		}

		if lastSegment(resolved) == "object" {
			// Resolving to a class literally named (or whose identifier
			// ends in) "object" is never a meaningful inheritance edge in
			// this checker's model; the common `class Foo(object):` case
			// never reaches this far since bare "object" has no binding.
			continue
		}

		entry.Bases = append(entry.Bases, resolved)
	}
}

func lastSegment(dotted string) string {
	if idx := strings.LastIndex(dotted, "."); idx >= 0 {
		return dotted[idx+1:]
	}
	return dotted
}

// classifyBase reduces one base-class expression down to the dotted name
// segments the resolver should look up, along with whether the original
// syntactic form was a dotted attribute chain (as opposed to a bare name),
// since the reserved-attribute check only applies to the former. Returns
// ok=false for expression shapes that can never name a class: plain
// literals, lists, tuples, and slices used directly as a base.
func classifyBase(base pyast.Expr) (segments []string, isAttribute bool, ok bool) {
	switch b := base.(type) {
	case *pyast.Constant, *pyast.List, *pyast.SliceExpr, *pyast.Tuple:
		return nil, false, false

	case *pyast.Call:
		// Only the `X.__or__(X)` / `X.__ror__(X)` union-type forms are
		// meaningful as a base; anything else is an unresolvable call.
		target, ok := reduceUnionCall(b)
		if !ok {
			return nil, false, false
		}
		return classifyBase(target)

	case *pyast.Subscript:
		// `X[T]` is treated as plain `X`: generic parameters carry no
		// class-hierarchy information this checker tracks.
		switch b.Value.(type) {
		case *pyast.Name, *pyast.Attribute:
			return classifyBase(b.Value)
		default:
			return nil, false, false
		}

	case *pyast.Name:
		return []string{b.Id}, false, true

	case *pyast.Attribute:
		dotted, ok := attributeChain(b)
		if !ok {
			return nil, false, false
		}
		return dotted, true, true

	default:
		return nil, false, false
	}
}

// reduceUnionCall recognizes `V.__or__(V)` and `V.__ror__(V)`, the call
// forms a `V | V` PEP 604 union type reduces to in earlier Python
// versions' parse trees, and returns V when the call matches that exact
// shape (same operand on both sides, one argument).
func reduceUnionCall(call *pyast.Call) (pyast.Expr, bool) {
	attr, ok := call.Func.(*pyast.Attribute)
	if !ok {
		return nil, false
	}
	if attr.Attr != "__or__" && attr.Attr != "__ror__" {
		return nil, false
	}
	if len(call.Args) != 1 {
		return nil, false
	}

	leftStr, ok := exprDotted(attr.Value)
	if !ok {
		return nil, false
	}
	rightStr, ok := exprDotted(call.Args[0])
	if !ok {
		return nil, false
	}
	if leftStr != rightStr {
		return nil, false
	}
	return attr.Value, true
}

func exprDotted(e pyast.Expr) (string, bool) {
	switch v := e.(type) {
	case *pyast.Name:
		return v.Id, true
	case *pyast.Attribute:
		base, ok := exprDotted(v.Value)
		if !ok {
			return "", false
		}
		return base + "." + v.Attr, true
	default:
		return "", false
	}
}

func attributeChain(attr *pyast.Attribute) ([]string, bool) {
	var segments []string
	var walk func(e pyast.Expr) bool
	walk = func(e pyast.Expr) bool {
		switch v := e.(type) {
		case *pyast.Name:
			segments = append(segments, v.Id)
			return true
		case *pyast.Attribute:
			if !walk(v.Value) {
				return false
			}
			segments = append(segments, v.Attr)
			return true
		default:
			return false
		}
	}
	if !walk(attr) {
		return nil, false
	}
	return segments, true
}
