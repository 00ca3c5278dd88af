package tagger

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pyExtractor finds Python classes, module-level functions and methods.
type pyExtractor struct{}

func (e *pyExtractor) Extract(root *tree_sitter.Node, source []byte) []symbol {
	var symbols []symbol

	cursor := root.Walk()
	defer cursor.Close()

	walk(cursor, func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "class_definition":
			if s, ok := named(node, source, KindClass); ok {
				symbols = append(symbols, s)
			}

		case "function_definition":
			kind := KindFunction
			if isPyMethod(node) {
				kind = KindMember
			}
			if s, ok := named(node, source, kind); ok {
				symbols = append(symbols, s)
			}
			// Nested functions are local.
			return false
		}
		return true
	})
	return symbols
}

// isPyMethod reports whether a function_definition sits directly in a
// class body, possibly behind decorators.
func isPyMethod(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Kind() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "block" {
		return false
	}
	owner := parent.Parent()
	return owner != nil && owner.Kind() == "class_definition"
}
