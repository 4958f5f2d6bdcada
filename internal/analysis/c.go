package analysis

import (
	"context"
	"fmt"

	"github.com/smacker/go-tree-sitter/c"
)

// CAnalyzer reports mutable file-scope globals in C sources.
type CAnalyzer struct{}

func NewCAnalyzer() *CAnalyzer { return &CAnalyzer{} }

func (a *CAnalyzer) Name() string { return "c" }

func (a *CAnalyzer) Extensions() []string { return []string{".c", ".h"} }

func (a *CAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, c.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()
	return collectCDecls(tree.RootNode(), content), nil
}
