package analysis

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoAnalyzer reports package-level var declarations. Consts are not facts,
// and the blank identifier never is.
type GoAnalyzer struct{}

func NewGoAnalyzer() *GoAnalyzer { return &GoAnalyzer{} }

func (a *GoAnalyzer) Name() string { return "go" }

func (a *GoAnalyzer) Extensions() []string { return []string{".go"} }

func (a *GoAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, golang.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	var names []string
	collectSpec := func(spec *sitter.Node) {
		for k := 0; k < int(spec.NamedChildCount()); k++ {
			id := spec.NamedChild(k)
			if id.Type() != "identifier" {
				continue
			}
			if name := id.Content(content); name != "_" {
				names = append(names, name)
			}
		}
	}

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "var_declaration" {
			continue
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			child := decl.NamedChild(j)
			switch child.Type() {
			case "var_spec":
				collectSpec(child)
			case "var_spec_list":
				// Grouped form: var ( ... )
				for k := 0; k < int(child.NamedChildCount()); k++ {
					if spec := child.NamedChild(k); spec.Type() == "var_spec" {
						collectSpec(spec)
					}
				}
			}
		}
	}
	return names, nil
}
