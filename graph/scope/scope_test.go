package scope

import (
	"testing"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
	"github.com/JessHua159/inconsistency-checker/graph/walk"
)

func newResult(modules ...*walk.Module) *walk.Result {
	r := &walk.Result{ByPath: make(map[pyast.ModulePath]*walk.Module)}
	for _, m := range modules {
		r.Modules = append(r.Modules, m)
		r.ByPath[m.Path] = m
	}
	return r
}

func TestResolveClassSameModule(t *testing.T) {
	base := &walk.Module{
		Path: "proj.base",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ClassDef{Name: "Base"},
			&pyast.ClassDef{Name: "Child", Bases: []pyast.Expr{&pyast.Name{Id: "Base"}}},
		},
	}
	result := newResult(base)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.base", []string{"Base"})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if id != "proj.base.Base" {
		t.Errorf("resolved = %q, want %q", id, "proj.base.Base")
	}
}

func TestResolveClassAcrossAbsoluteImport(t *testing.T) {
	base := &walk.Module{
		Path:       "proj.base",
		Kind:       pyast.PathKindFile,
		Statements: []pyast.Statement{&pyast.ClassDef{Name: "Base"}},
	}
	child := &walk.Module{
		Path: "proj.sub.child",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ImportFrom{Level: 0, Module: "base", Names: []pyast.ImportAlias{{Name: "Base"}}},
			&pyast.ClassDef{Name: "Child", Bases: []pyast.Expr{&pyast.Name{Id: "Base"}}},
		},
	}
	result := newResult(base, child)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.sub.child", []string{"Base"})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if id != "proj.base.Base" {
		t.Errorf("resolved = %q, want %q", id, "proj.base.Base")
	}
}

func TestResolveClassAliasedModuleAttributeChain(t *testing.T) {
	baseMod := &walk.Module{
		Path:       "proj.pkg.mod",
		Kind:       pyast.PathKindFile,
		Statements: []pyast.Statement{&pyast.ClassDef{Name: "Base"}},
	}
	user := &walk.Module{
		Path: "proj.user",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.Import{Names: []pyast.ImportAlias{{Name: "pkg.mod", AsName: "m"}}},
		},
	}
	result := newResult(baseMod, user)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.user", []string{"m", "Base"})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if id != "proj.pkg.mod.Base" {
		t.Errorf("resolved = %q, want %q", id, "proj.pkg.mod.Base")
	}
}

func TestResolveClassRelativeImport(t *testing.T) {
	base := &walk.Module{
		Path:       "proj.sub.base",
		Kind:       pyast.PathKindFile,
		Statements: []pyast.Statement{&pyast.ClassDef{Name: "Base"}},
	}
	child := &walk.Module{
		Path: "proj.sub.child",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ImportFrom{Level: 1, Module: "base", Names: []pyast.ImportAlias{{Name: "Base"}}},
		},
	}
	result := newResult(base, child)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.sub.child", []string{"Base"})
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if id != "proj.sub.base.Base" {
		t.Errorf("resolved = %q, want %q", id, "proj.sub.base.Base")
	}
}

func TestResolveClassWildcardFromPackage(t *testing.T) {
	utilsPkg := &walk.Module{
		Path:     "proj.utils",
		Kind:     pyast.PathKindPackage,
		Children: []string{"__init__"},
	}
	utilsInit := &walk.Module{
		Path:       "proj.utils.__init__",
		Kind:       pyast.PathKindFile,
		Statements: []pyast.Statement{&pyast.ClassDef{Name: "U"}},
	}
	user := &walk.Module{
		Path: "proj.user",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ImportFrom{Level: 0, Module: "utils", Names: []pyast.ImportAlias{{Name: "*"}}},
		},
	}
	result := newResult(utilsPkg, utilsInit, user)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.user", []string{"U"})
	if !ok {
		t.Fatal("expected wildcard-imported class to resolve")
	}
	if id != "proj.utils.__init__.U" {
		t.Errorf("resolved = %q, want %q", id, "proj.utils.__init__.U")
	}
}

func TestResolveClassImportCycleDoesNotRecurseForever(t *testing.T) {
	a := &walk.Module{
		Path: "proj.a",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ImportFrom{Level: 0, Module: "b", Names: []pyast.ImportAlias{{Name: "*"}}},
			&pyast.ClassDef{Name: "X"},
		},
	}
	b := &walk.Module{
		Path: "proj.b",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ImportFrom{Level: 0, Module: "a", Names: []pyast.ImportAlias{{Name: "*"}}},
			&pyast.ClassDef{Name: "Y"},
		},
	}
	result := newResult(a, b)
	sc := New(result, "proj")

	id, ok := sc.ResolveClass("proj.a", []string{"X"})
	if !ok {
		t.Fatal("expected own class to resolve despite import cycle")
	}
	if id != "proj.a.X" {
		t.Errorf("resolved = %q, want %q", id, "proj.a.X")
	}

	id, ok = sc.ResolveClass("proj.a", []string{"Y"})
	if !ok {
		t.Fatal("expected wildcard-imported class from cyclic partner to resolve")
	}
	if id != "proj.b.Y" {
		t.Errorf("resolved = %q, want %q", id, "proj.b.Y")
	}
}

func TestResolveClassUnknownNameFails(t *testing.T) {
	mod := &walk.Module{Path: "proj.a", Kind: pyast.PathKindFile}
	result := newResult(mod)
	sc := New(result, "proj")

	if _, ok := sc.ResolveClass("proj.a", []string{"Nope"}); ok {
		t.Error("expected resolution of unbound name to fail")
	}
}

func TestResolveClassEmptySegments(t *testing.T) {
	sc := New(newResult(), "proj")
	if _, ok := sc.ResolveClass("proj.a", nil); ok {
		t.Error("expected empty segments to fail")
	}
}

func TestResolveClassDeleteRemovesBinding(t *testing.T) {
	mod := &walk.Module{
		Path: "proj.a",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ClassDef{Name: "Base"},
			&pyast.Delete{Targets: []pyast.Expr{&pyast.Name{Id: "Base"}}},
		},
	}
	result := newResult(mod)
	sc := New(result, "proj")

	if _, ok := sc.ResolveClass("proj.a", []string{"Base"}); ok {
		t.Error("expected deleted binding to no longer resolve")
	}
}

func TestResolveClassRebindingUsesLastOccurrence(t *testing.T) {
	mod := &walk.Module{
		Path: "proj.a",
		Kind: pyast.PathKindFile,
		Statements: []pyast.Statement{
			&pyast.ClassDef{Name: "Base"},
			&pyast.Assign{Targets: []pyast.Expr{&pyast.Name{Id: "Base"}}},
		},
	}
	result := newResult(mod)
	sc := New(result, "proj")

	// Base is reassigned to a plain value after the class def: the last
	// binding is BindingOther, so it should no longer resolve as a class.
	if _, ok := sc.ResolveClass("proj.a", []string{"Base"}); ok {
		t.Error("expected rebound name to no longer resolve as a class")
	}
}
