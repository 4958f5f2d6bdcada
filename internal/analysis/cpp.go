package analysis

import (
	"context"
	"fmt"

	"github.com/smacker/go-tree-sitter/cpp"
)

// CPPAnalyzer reports mutable file-scope globals in C++ sources. Namespaced
// variables, extern "C" blocks and class static members never surface because
// they are not direct children of the translation unit (or carry qualified
// names), matching the C walker's file-scope rule.
type CPPAnalyzer struct{}

func NewCPPAnalyzer() *CPPAnalyzer { return &CPPAnalyzer{} }

func (a *CPPAnalyzer) Name() string { return "cpp" }

func (a *CPPAnalyzer) Extensions() []string {
	return []string{".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx"}
}

func (a *CPPAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, cpp.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()
	return collectCDecls(tree.RootNode(), content), nil
}
