package analysis

import sitter "github.com/smacker/go-tree-sitter"

// collectCDecls walks the direct children of a C or C++ translation unit and
// returns the names of mutable file-scope variable declarations. Anything
// nested in a namespace, extern "C" block, function body or type definition
// is not a direct child, so file scope falls out of the walk itself.
func collectCDecls(root *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "declaration" {
			continue
		}
		if hasStorageClass(decl, src, "static") || hasStorageClass(decl, src, "extern") {
			continue
		}
		declConst := hasConstQualifier(decl, src)
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			child := decl.NamedChild(j)
			switch child.Type() {
			case "identifier", "init_declarator", "pointer_declarator",
				"array_declarator", "reference_declarator", "parenthesized_declarator":
				if name, mutable := resolveDeclarator(child, src, declConst); mutable && name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return names
}

// resolveDeclarator unwraps a declarator chain to the declared identifier and
// decides whether the declared variable itself is mutable. A declaration
// level const binds to the variable unless a pointer sits between it and the
// name; a const inside a pointer_declarator binds to the pointer layer it
// sits in, and only the innermost layer is the variable's own type.
func resolveDeclarator(n *sitter.Node, src []byte, declConst bool) (string, bool) {
	pointer := false
	selfConst := false
	for {
		switch n.Type() {
		case "init_declarator":
			n = n.ChildByFieldName("declarator")
		case "pointer_declarator":
			pointer = true
			selfConst = hasConstQualifier(n, src)
			n = n.ChildByFieldName("declarator")
		case "array_declarator", "parenthesized_declarator":
			d := n.ChildByFieldName("declarator")
			if d == nil {
				d = n.NamedChild(0)
			}
			n = d
		case "reference_declarator":
			// A const view over something else is not a mutable global.
			if declConst {
				return "", false
			}
			n = n.NamedChild(0)
		case "identifier":
			return n.Content(src), !selfConst && !(declConst && !pointer)
		case "function_declarator":
			// Prototype, not a variable.
			return "", false
		default:
			// qualified_identifier (class members, namespaced definitions),
			// structured bindings, field identifiers.
			return "", false
		}
		if n == nil {
			return "", false
		}
	}
}

func hasStorageClass(decl *sitter.Node, src []byte, keyword string) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == "storage_class_specifier" && child.Content(src) == keyword {
			return true
		}
	}
	return false
}

// hasConstQualifier looks for a const family qualifier among n's direct named
// children. volatile and restrict leave a variable mutable.
func hasConstQualifier(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "type_qualifier" {
			continue
		}
		switch child.Content(src) {
		case "const", "constexpr", "constinit":
			return true
		}
	}
	return false
}
