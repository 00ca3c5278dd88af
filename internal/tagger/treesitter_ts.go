package tagger

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsExtractor finds TypeScript declarations, class methods and functions
// bound with const or let.
type tsExtractor struct{}

var tsDeclKinds = map[string]Kind{
	"function_declaration":           KindFunction,
	"generator_function_declaration": KindFunction,
	"class_declaration":              KindClass,
	"abstract_class_declaration":     KindClass,
	"interface_declaration":          KindInterface,
	"type_alias_declaration":         KindType,
	"enum_declaration":               KindEnum,
}

func (e *tsExtractor) Extract(root *tree_sitter.Node, source []byte) []symbol {
	var symbols []symbol

	cursor := root.Walk()
	defer cursor.Close()

	walk(cursor, func(node *tree_sitter.Node) bool {
		kind := node.Kind()
		switch kind {
		case "method_definition", "abstract_method_signature":
			if s, ok := named(node, source, KindMethod); ok {
				symbols = append(symbols, s)
			}
			return false

		case "lexical_declaration":
			symbols = append(symbols, tsBoundFunctions(node, source)...)
		}

		if k, ok := tsDeclKinds[kind]; ok {
			if s, ok := named(node, source, k); ok {
				symbols = append(symbols, s)
			}
			// Function bodies hold only local declarations.
			return k != KindFunction
		}
		return true
	})
	return symbols
}

// tsBoundFunctions returns the names bound to arrow functions or function
// expressions in a lexical_declaration, e.g. "const f = () => {}".
func tsBoundFunctions(node *tree_sitter.Node, source []byte) []symbol {
	var out []symbol
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		value := child.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
		default:
			continue
		}
		if s, ok := named(child, source, KindFunction); ok {
			out = append(out, s)
		}
	}
	return out
}
