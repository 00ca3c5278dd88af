package tagger

import (
	"fmt"
	"strings"
)

// Kind classifies a tag. Values follow the long kind names of Universal
// Ctags.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindMember    Kind = "member"
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
	KindConstant  Kind = "constant"
	KindVariable  Kind = "variable"
)

// Language identifies a grammar.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
)

// Languages lists every language the tagger understands.
var Languages = []Language{LangGo, LangTypeScript, LangPython, LangRust}

var extensions = map[string]Language{
	".go":  LangGo,
	".py":  LangPython,
	".pyi": LangPython,
	".rs":  LangRust,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
}

// Tag is one entry of an extended-format tag file.
type Tag struct {
	Name string
	Path string
	// Pattern is the full source line the tag was found on.
	Pattern string
	Kind    Kind
	// Line is 1-based.
	Line int
}

// String renders t as a tag file line without the trailing newline.
func (t Tag) String() string {
	return fmt.Sprintf("%s\t%s\t/^%s$/;\"\t%s\tline:%d", t.Name, t.Path, escapePattern(t.Pattern), t.Kind, t.Line)
}

var patternEscaper = strings.NewReplacer(`\`, `\\`, `/`, `\/`)

func escapePattern(s string) string {
	return patternEscaper.Replace(s)
}
