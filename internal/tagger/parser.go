package tagger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// symbol is a definition found by an extractor. row is 0-based.
type symbol struct {
	name string
	kind Kind
	row  uint
}

// extractor finds definitions in a parsed tree-sitter AST.
type extractor interface {
	Extract(root *tree_sitter.Node, source []byte) []symbol
}

// Parser turns source files into tags using tree-sitter grammars. A new
// tree-sitter parser is created per Parse call, so Parse may be called
// from several goroutines at once.
type Parser struct {
	languages  map[Language]*tree_sitter.Language
	extractors map[Language]extractor
}

// NewParser creates a Parser with Go, TypeScript, Python and Rust grammars
// registered.
func NewParser() *Parser {
	return &Parser{
		languages: map[Language]*tree_sitter.Language{
			LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		},
		extractors: map[Language]extractor{
			LangGo:         &goExtractor{},
			LangTypeScript: &tsExtractor{},
			LangPython:     &pyExtractor{},
			LangRust:       &rsExtractor{},
		},
	}
}

// LanguageFor returns the language of path by extension.
func LanguageFor(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Parse extracts the tags defined in source. path is recorded verbatim in
// every tag.
func (p *Parser) Parse(path string, source []byte, lang Language) ([]Tag, error) {
	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	symbols := p.extractors[lang].Extract(tree.RootNode(), source)
	if len(symbols) == 0 {
		return nil, nil
	}

	lines := splitSourceLines(source)
	tags := make([]Tag, 0, len(symbols))
	for _, s := range symbols {
		if s.name == "" {
			continue
		}
		var pattern string
		if int(s.row) < len(lines) {
			pattern = lines[s.row]
		}
		tags = append(tags, Tag{
			Name:    s.name,
			Path:    path,
			Pattern: pattern,
			Kind:    s.kind,
			Line:    int(s.row) + 1,
		})
	}
	return tags, nil
}

func splitSourceLines(source []byte) []string {
	raw := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(bytes.TrimSuffix(l, []byte{'\r'}))
	}
	return lines
}

// walk visits node and its descendants in document order. visit returns
// false to skip a node's children.
func walk(cursor *tree_sitter.TreeCursor, visit func(*tree_sitter.Node) bool) {
	if !visit(cursor.Node()) {
		return
	}
	if cursor.GotoFirstChild() {
		walk(cursor, visit)
		for cursor.GotoNextSibling() {
			walk(cursor, visit)
		}
		cursor.GotoParent()
	}
}

// named returns a symbol for node using its "name" field.
func named(node *tree_sitter.Node, source []byte, kind Kind) (symbol, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return symbol{}, false
	}
	return symbol{name: nameNode.Utf8Text(source), kind: kind, row: nameNode.StartPosition().Row}, true
}
