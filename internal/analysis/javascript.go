package analysis

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScriptAnalyzer reports top-level var and let declarations. const
// bindings cannot be reassigned and are skipped, as are destructuring
// patterns.
type JavaScriptAnalyzer struct{}

func NewJavaScriptAnalyzer() *JavaScriptAnalyzer { return &JavaScriptAnalyzer{} }

func (a *JavaScriptAnalyzer) Name() string { return "javascript" }

func (a *JavaScriptAnalyzer) Extensions() []string { return []string{".js", ".mjs", ".cjs"} }

func (a *JavaScriptAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, javascript.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()
	return scriptDecls(tree.RootNode(), content), nil
}

// scriptDecls walks a program node; the JavaScript and TypeScript grammars
// share these declaration shapes. export statements unwrap to their inner
// declaration.
func scriptDecls(root *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		names = append(names, scriptDeclNames(root.NamedChild(i), src)...)
	}
	return names
}

func scriptDeclNames(n *sitter.Node, src []byte) []string {
	switch n.Type() {
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return scriptDeclNames(decl, src)
		}
		return nil
	case "variable_declaration":
		// var is always reassignable
	case "lexical_declaration":
		kw := n.Child(0)
		if kw == nil || kw.Type() != "let" {
			return nil
		}
	default:
		return nil
	}

	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		if id := d.ChildByFieldName("name"); id != nil && id.Type() == "identifier" {
			names = append(names, id.Content(src))
		}
	}
	return names
}
