package analysis

import (
	"context"
	"fmt"

	"github.com/smacker/go-tree-sitter/rust"
)

// RustAnalyzer reports static mut items. Immutable statics and const items
// expose no mutable global state and are skipped.
type RustAnalyzer struct{}

func NewRustAnalyzer() *RustAnalyzer { return &RustAnalyzer{} }

func (a *RustAnalyzer) Name() string { return "rust" }

func (a *RustAnalyzer) Extensions() []string { return []string{".rs"} }

func (a *RustAnalyzer) Extract(ctx context.Context, path string, content []byte) ([]string, error) {
	tree, err := parseTree(ctx, rust.GetLanguage(), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	var names []string
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		item := root.NamedChild(i)
		if item.Type() != "static_item" {
			continue
		}
		mutable := false
		for j := 0; j < int(item.NamedChildCount()); j++ {
			if item.NamedChild(j).Type() == "mutable_specifier" {
				mutable = true
				break
			}
		}
		if !mutable {
			continue
		}
		if name := item.ChildByFieldName("name"); name != nil {
			names = append(names, name.Content(content))
		}
	}
	return names, nil
}
