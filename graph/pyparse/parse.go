// Package pyparse converts Python source into the reduced graph/ast tagged
// union, using the same tree-sitter grammar the teacher's call-graph
// resolver used for import extraction.
package pyparse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	pyast "github.com/JessHua159/inconsistency-checker/graph/ast"
)

// Parse parses sourceCode and returns the top-level statements relevant to
// alias tracking and class-hierarchy analysis. Nested statements (inside
// function or class bodies, if/for/with/try blocks) are intentionally not
// traversed: the checker only reasons about module-level bindings.
func Parse(sourceCode []byte) ([]pyast.Statement, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("parsing python source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	var statements []pyast.Statement
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		stmt := convertTopLevelStatement(child, sourceCode)
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

func convertTopLevelStatement(node *sitter.Node, src []byte) pyast.Statement {
	if node == nil {
		return nil
	}

	switch node.Type() {
	case "decorated_definition":
		// Unwrap: the decorators themselves don't bind anything relevant.
		def := node.ChildByFieldName("definition")
		return convertTopLevelStatement(def, src)
	case "import_statement":
		return convertImportStatement(node, src)
	case "import_from_statement":
		return convertImportFromStatement(node, src)
	case "class_definition":
		return convertClassDefinition(node, src)
	case "function_definition":
		name := node.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		return &pyast.FunctionDef{Name: name.Content(src)}
	case "expression_statement":
		return convertExpressionStatement(node, src)
	case "delete_statement":
		return convertDeleteStatement(node, src)
	default:
		return nil
	}
}

func convertImportStatement(node *sitter.Node, src []byte) pyast.Statement {
	var names []pyast.ImportAlias
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "aliased_import":
			moduleNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if moduleNode == nil || aliasNode == nil {
				continue
			}
			names = append(names, pyast.ImportAlias{Name: moduleNode.Content(src), AsName: aliasNode.Content(src)})
		case "dotted_name":
			names = append(names, pyast.ImportAlias{Name: child.Content(src)})
		}
	}
	if len(names) == 0 {
		return nil
	}
	return &pyast.Import{Names: names}
}

func convertImportFromStatement(node *sitter.Node, src []byte) pyast.Statement {
	level := 0
	module := ""

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "relative_import" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				sub := child.NamedChild(j)
				switch sub.Type() {
				case "import_prefix":
					level = strings.Count(sub.Content(src), ".")
				case "dotted_name":
					module = sub.Content(src)
				}
			}
		}
	}

	if level == 0 {
		if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
			module = moduleNode.Content(src)
		}
	}

	moduleNameNode := node.ChildByFieldName("module_name")
	var names []pyast.ImportAlias
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == moduleNameNode {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			names = append(names, pyast.ImportAlias{Name: "*"})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			names = append(names, pyast.ImportAlias{Name: nameNode.Content(src), AsName: aliasNode.Content(src)})
		case "dotted_name":
			names = append(names, pyast.ImportAlias{Name: child.Content(src)})
		}
	}

	if len(names) == 0 {
		return nil
	}
	return &pyast.ImportFrom{Level: level, Module: module, Names: names}
}

func convertClassDefinition(node *sitter.Node, src []byte) pyast.Statement {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	var bases []pyast.Expr
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			child := superclasses.NamedChild(i)
			// keyword_argument handles metaclass=... and similar; not a base.
			if child.Type() == "keyword_argument" {
				continue
			}
			expr := convertExpr(child, src)
			if expr != nil {
				bases = append(bases, expr)
			}
		}
	}

	return &pyast.ClassDef{Name: nameNode.Content(src), Bases: bases}
}

func convertExpressionStatement(node *sitter.Node, src []byte) pyast.Statement {
	if node.NamedChildCount() == 0 {
		return nil
	}
	inner := node.NamedChild(0)
	switch inner.Type() {
	case "assignment":
		target := inner.ChildByFieldName("left")
		if target == nil {
			return nil
		}
		return &pyast.Assign{Targets: []pyast.Expr{convertTarget(target, src)}}
	default:
		return nil
	}
}

func convertDeleteStatement(node *sitter.Node, src []byte) pyast.Statement {
	var targets []pyast.Expr
	for i := 0; i < int(node.NamedChildCount()); i++ {
		targets = append(targets, convertTarget(node.NamedChild(i), src))
	}
	return &pyast.Delete{Targets: targets}
}

// convertTarget handles the narrower set of expression forms legal on the
// left of an assignment or inside a del statement: bare names, attribute
// chains, and tuples/lists of those.
func convertTarget(node *sitter.Node, src []byte) pyast.Expr {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "identifier":
		return &pyast.Name{Id: node.Content(src)}
	case "attribute":
		return convertExpr(node, src)
	case "tuple", "pattern_list":
		var elts []pyast.Expr
		for i := 0; i < int(node.NamedChildCount()); i++ {
			elts = append(elts, convertTarget(node.NamedChild(i), src))
		}
		return &pyast.Tuple{Elts: elts}
	case "list_pattern":
		var elts []pyast.Expr
		for i := 0; i < int(node.NamedChildCount()); i++ {
			elts = append(elts, convertTarget(node.NamedChild(i), src))
		}
		return &pyast.List{Elts: elts}
	default:
		return nil
	}
}

func convertExpr(node *sitter.Node, src []byte) pyast.Expr {
	if node == nil {
		return nil
	}

	switch node.Type() {
	case "identifier":
		return &pyast.Name{Id: node.Content(src)}
	case "attribute":
		value := convertExpr(node.ChildByFieldName("object"), src)
		attr := node.ChildByFieldName("attribute")
		if value == nil || attr == nil {
			return nil
		}
		return &pyast.Attribute{Value: value, Attr: attr.Content(src)}
	case "call":
		fn := convertExpr(node.ChildByFieldName("function"), src)
		if fn == nil {
			return nil
		}
		var args []pyast.Expr
		if argList := node.ChildByFieldName("arguments"); argList != nil {
			for i := 0; i < int(argList.NamedChildCount()); i++ {
				arg := convertExpr(argList.NamedChild(i), src)
				if arg != nil {
					args = append(args, arg)
				}
			}
		}
		return &pyast.Call{Func: fn, Args: args}
	case "subscript":
		value := convertExpr(node.ChildByFieldName("value"), src)
		if value == nil {
			return nil
		}
		var sliceExpr pyast.Expr
		// go-tree-sitter's python grammar exposes subscript indices as
		// unnamed "subscript" children; the first named subscript child
		// is the index expression in the common single-index case.
		if sub := node.ChildByFieldName("subscript"); sub != nil {
			sliceExpr = convertExpr(sub, src)
		} else if node.NamedChildCount() > 1 {
			sliceExpr = convertExpr(node.NamedChild(1), src)
		}
		return &pyast.Subscript{Value: value, Slice: sliceExpr}
	case "tuple":
		var elts []pyast.Expr
		for i := 0; i < int(node.NamedChildCount()); i++ {
			e := convertExpr(node.NamedChild(i), src)
			if e != nil {
				elts = append(elts, e)
			}
		}
		return &pyast.Tuple{Elts: elts}
	case "list":
		var elts []pyast.Expr
		for i := 0; i < int(node.NamedChildCount()); i++ {
			e := convertExpr(node.NamedChild(i), src)
			if e != nil {
				elts = append(elts, e)
			}
		}
		return &pyast.List{Elts: elts}
	case "slice":
		var lower, upper pyast.Expr
		if l := node.ChildByFieldName("lower"); l != nil {
			lower = convertExpr(l, src)
		}
		if u := node.ChildByFieldName("upper"); u != nil {
			upper = convertExpr(u, src)
		}
		return &pyast.SliceExpr{Lower: lower, Upper: upper}
	case "string", "integer", "float", "true", "false", "none":
		return &pyast.Constant{Repr: node.Content(src)}
	default:
		return nil
	}
}
