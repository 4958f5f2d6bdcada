package analysis

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonAnalyzer reports module-level assignments to plain identifiers.
// ALL_CAPS names follow the constant convention and are skipped, as are
// dunder attributes like __all__.
type PythonAnalyzer struct{}

func NewPythonAnalyzer() *PythonAnalyzer { return &PythonAnalyzer{} }

func (a *PythonAnalyzer) Name() string { return "python" }

func (a *PythonAnalyzer) Extensions() []string { return []string{".py"} }

func (a *PythonAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, python.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	var names []string
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			expr := stmt.NamedChild(j)
			if expr.Type() != "assignment" {
				continue
			}
			if left := expr.ChildByFieldName("left"); left != nil {
				names = append(names, pythonTargets(left, content)...)
			}
		}
	}
	return names, nil
}

func pythonTargets(n *sitter.Node, src []byte) []string {
	switch n.Type() {
	case "identifier":
		name := n.Content(src)
		if pythonConstant(name) || pythonDunder(name) {
			return nil
		}
		return []string{name}
	case "pattern_list", "tuple_pattern":
		var names []string
		for i := 0; i < int(n.NamedChildCount()); i++ {
			names = append(names, pythonTargets(n.NamedChild(i), src)...)
		}
		return names
	}
	return nil
}

// pythonConstant matches the ALL_CAPS naming convention.
func pythonConstant(name string) bool {
	hasUpper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			return false
		}
		if c >= 'A' && c <= 'Z' {
			hasUpper = true
		}
	}
	return hasUpper
}

func pythonDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
