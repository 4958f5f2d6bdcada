package analysis

import (
	"context"
	"fmt"

	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptAnalyzer reports top-level var and let declarations, sharing the
// JavaScript walker.
type TypeScriptAnalyzer struct{}

func NewTypeScriptAnalyzer() *TypeScriptAnalyzer { return &TypeScriptAnalyzer{} }

func (a *TypeScriptAnalyzer) Name() string { return "typescript" }

func (a *TypeScriptAnalyzer) Extensions() []string { return []string{".ts"} }

func (a *TypeScriptAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, typescript.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()
	return scriptDecls(tree.RootNode(), content), nil
}
