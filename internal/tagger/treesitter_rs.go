package tagger

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// rsExtractor finds Rust items and the methods of impl and trait blocks.
type rsExtractor struct{}

var rsItemKinds = map[string]Kind{
	"struct_item":      KindStruct,
	"enum_item":        KindEnum,
	"union_item":       KindStruct,
	"trait_item":       KindTrait,
	"type_item":        KindType,
	"const_item":       KindConstant,
	"static_item":      KindVariable,
	"macro_definition": KindFunction,
}

func (e *rsExtractor) Extract(root *tree_sitter.Node, source []byte) []symbol {
	var symbols []symbol

	cursor := root.Walk()
	defer cursor.Close()

	walk(cursor, func(node *tree_sitter.Node) bool {
		kind := node.Kind()
		switch kind {
		case "function_item", "function_signature_item":
			k := KindFunction
			if isRustAssociated(node) {
				k = KindMethod
			}
			if s, ok := named(node, source, k); ok {
				symbols = append(symbols, s)
			}
			return false
		}

		if k, ok := rsItemKinds[kind]; ok {
			if s, ok := named(node, source, k); ok {
				symbols = append(symbols, s)
			}
		}
		return true
	})
	return symbols
}

// isRustAssociated reports whether a function is declared inside an impl
// or trait body.
func isRustAssociated(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "declaration_list" {
		return false
	}
	owner := parent.Parent()
	return owner != nil && (owner.Kind() == "impl_item" || owner.Kind() == "trait_item")
}
