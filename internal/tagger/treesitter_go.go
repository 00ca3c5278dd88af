package tagger

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// goExtractor finds Go functions, methods, types and package-level
// constants and variables.
type goExtractor struct{}

func (e *goExtractor) Extract(root *tree_sitter.Node, source []byte) []symbol {
	var symbols []symbol

	cursor := root.Walk()
	defer cursor.Close()

	walk(cursor, func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "function_declaration":
			if s, ok := named(node, source, KindFunction); ok {
				symbols = append(symbols, s)
			}
			return false

		case "method_declaration":
			if s, ok := named(node, source, KindMethod); ok {
				symbols = append(symbols, s)
			}
			return false

		case "type_spec", "type_alias":
			if s, ok := named(node, source, goTypeKind(node)); ok {
				symbols = append(symbols, s)
			}

		case "const_spec":
			symbols = append(symbols, goSpecNames(node, source, KindConstant)...)
			return false

		case "var_spec":
			symbols = append(symbols, goSpecNames(node, source, KindVariable)...)
			return false
		}
		return true
	})
	return symbols
}

func goTypeKind(spec *tree_sitter.Node) Kind {
	typeNode := spec.ChildByFieldName("type")
	if typeNode == nil {
		return KindType
	}
	switch typeNode.Kind() {
	case "struct_type":
		return KindStruct
	case "interface_type":
		return KindInterface
	default:
		return KindType
	}
}

// goSpecNames returns every identifier declared by a const or var spec.
// Function bodies are never descended into, so only package-level specs
// reach here.
func goSpecNames(spec *tree_sitter.Node, source []byte, kind Kind) []symbol {
	var out []symbol
	for i := uint(0); i < spec.ChildCount(); i++ {
		child := spec.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "=" {
			break
		}
		if child.Kind() == "identifier" {
			name := child.Utf8Text(source)
			if name == "_" {
				continue
			}
			out = append(out, symbol{name: name, kind: kind, row: child.StartPosition().Row})
		}
	}
	return out
}
