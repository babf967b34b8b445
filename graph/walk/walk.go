// Package walk implements the module walker: a single-threaded, recursive
// traversal of a Python codebase that assigns every file and package
// directory its canonical dotted module path, grouped the way the rest of
// the pipeline consumes it.
//
// Unlike the teacher's directory walker (graph/initialize.go in the
// sast-engine source), this walk is intentionally not parallelized: the
// checker's correctness depends on alias events being collected in a
// stable, reproducible order, and the codebases this tool targets are
// source trees, not the multi-language repositories the teacher scans.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
	"github.com/JessHua159/inconsistency-checker/graph/pyparse"
)

// warningLogger is the one logging capability the walker needs. Declared
// locally rather than importing *output.Logger, since output imports
// graph/hierarchy, which imports this package. *output.Logger satisfies
// this interface already.
type warningLogger interface {
	Warning(format string, args ...interface{})
}

var skipDirs = map[string]bool{
	".git":          true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
}

// Module is one walked unit: either a single file or a package directory.
// Package modules carry no statements of their own (a package's bindings
// come from its __init__.py file, handled as a separate file module) but
// do carry Children, the immediate submodule names Python implicitly binds
// on the package.
type Module struct {
	Path       pyast.ModulePath
	Kind       pyast.PathKind
	SourceFile string
	Statements []pyast.Statement
	Children   []string
}

// Result is the complete output of walking one codebase root.
type Result struct {
	Modules []*Module
	ByPath  map[pyast.ModulePath]*Module
}

// Walk recursively walks rootPath (a file or a directory) and parses every
// Python source file it finds. Files that fail to parse are logged and
// dropped from the result entirely: spec's Component A treats a broken
// file as though it were never part of the codebase, rather than as a
// module with zero statements, so its classes cannot be named by anything
// that resolves against it.
func Walk(logger warningLogger, rootPath string) (*Result, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}

	result := &Result{ByPath: make(map[pyast.ModulePath]*Module)}

	if info.IsDir() {
		walkDir(logger, result, rootPath, "")
	} else {
		walkFile(logger, result, rootPath, "")
	}

	sort.Slice(result.Modules, func(i, j int) bool {
		return result.Modules[i].Path < result.Modules[j].Path
	})

	return result, nil
}

func baseModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func walkFile(logger warningLogger, result *Result, path string, relativePrefix string) {
	if !strings.HasSuffix(path, ".py") {
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		logger.Warning("could not read %s: %v", path, err)
		return
	}

	statements, err := pyparse.Parse(src)
	if err != nil {
		logger.Warning("could not parse %s: %v", path, err)
		return
	}

	modulePath := pyast.ModulePath(relativePrefix + baseModuleName(path))
	mod := &Module{
		Path:       modulePath,
		Kind:       pyast.PathKindFile,
		SourceFile: path,
		Statements: statements,
	}
	result.Modules = append(result.Modules, mod)
	result.ByPath[modulePath] = mod
}

func walkDir(logger warningLogger, result *Result, dirPath string, relativePrefix string) {
	name := baseModuleName(dirPath)
	if skipDirs[name] {
		return
	}

	packagePath := pyast.ModulePath(relativePrefix + name)

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		logger.Warning("could not read directory %s: %v", dirPath, err)
		return
	}

	var children []string
	for _, entry := range entries {
		childName := entry.Name()
		if entry.IsDir() {
			if skipDirs[childName] {
				continue
			}
			children = append(children, childName)
			continue
		}
		if strings.HasSuffix(childName, ".py") {
			children = append(children, strings.TrimSuffix(childName, ".py"))
		}
	}
	sort.Strings(children)

	pkgMod := &Module{
		Path:     packagePath,
		Kind:     pyast.PathKindPackage,
		Children: children,
	}
	result.Modules = append(result.Modules, pkgMod)
	result.ByPath[packagePath] = pkgMod

	childPrefix := string(packagePath) + "."
	for _, entry := range entries {
		childPath := filepath.Join(dirPath, entry.Name())
		if entry.IsDir() {
			if skipDirs[entry.Name()] {
				continue
			}
			walkDir(logger, result, childPath, childPrefix)
		} else if strings.HasSuffix(entry.Name(), ".py") {
			walkFile(logger, result, childPath, childPrefix)
		}
	}
}
