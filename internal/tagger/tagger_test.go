package tagger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const fixtures = "../../testdata/fixtures/"

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path   string
		lang   Language
		exists bool
	}{
		{"main.go", LangGo, true},
		{"pkg/mod.PY", LangPython, true},
		{"stubs.pyi", LangPython, true},
		{"src/lib.rs", LangRust, true},
		{"web/api.ts", LangTypeScript, true},
		{"web/app.tsx", "", false},
		{"README.md", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, ok := LanguageFor(tt.path)
			assert.Equal(t, tt.exists, ok)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestTag_String(t *testing.T) {
	tag := Tag{Name: "split", Path: "src/a.go", Pattern: `s := strings.Split(p, "/") // a\b`, Kind: KindFunction, Line: 7}
	assert.Equal(t, "split\tsrc/a.go\t/^s := strings.Split(p, \"\\/\") \\/\\/ a\\\\b$/;\"\tfunction\tline:7", tag.String())
}

func TestTagger_GenerateSorted(t *testing.T) {
	files := []string{
		fixtures + "go_project/service.go",
		fixtures + "go_project/model.go",
	}

	tags, err := New(Options{Sort: true}, nil).Generate(context.Background(), files)
	require.NoError(t, err)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"CreateUser", "GetUser", "NewUserService", "Repository", "User", "UserService", "newUser"}, names)
}

func TestTagger_GenerateUnsortedKeepsInputOrder(t *testing.T) {
	files := []string{
		fixtures + "go_project/service.go",
		fixtures + "go_project/model.go",
	}

	tags, err := New(Options{Workers: 2}, nil).Generate(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, tags, 7)
	assert.Equal(t, "UserService", tags[0].Name)
	assert.Equal(t, "User", tags[4].Name)
	assert.Equal(t, "newUser", tags[6].Name)
}

func TestTagger_SkipsUnknownAndExcluded(t *testing.T) {
	files := []string{
		fixtures + "go_project/model.go",
		fixtures + "py_project/shapes.py",
		fixtures + "rs_project/lib.rs",
		"README.md",
		"",
	}

	tags, err := New(Options{Sort: true, Exclude: []string{"py_project", "*.rs"}}, nil).Generate(context.Background(), files)
	require.NoError(t, err)
	for _, tag := range tags {
		assert.True(t, strings.HasSuffix(tag.Path, "model.go"), "unexpected tag from %s", tag.Path)
	}
	assert.Len(t, tags, 3)
}

func TestTagger_MissingFileIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	tags, err := New(Options{}, zap.New(core)).Generate(context.Background(), []string{"does/not/exist.go"})
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, 1, logs.FilterMessage("cannot read file").Len())
}

func TestTagger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}, nil).Generate(ctx, []string{fixtures + "go_project/model.go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExcluded(t *testing.T) {
	tg := New(Options{Exclude: []string{"vendor", "*_test.go", "gen/*.ts"}}, nil)
	assert.True(t, tg.excluded("vendor/x/y.go"))
	assert.True(t, tg.excluded("pkg/a_test.go"))
	assert.True(t, tg.excluded("gen/api.ts"))
	assert.False(t, tg.excluded("src/gen/api.ts"))
	assert.False(t, tg.excluded("pkg/a.go"))
}

func TestHeader(t *testing.T) {
	h := Header(true, "1.2.3")
	lines := strings.Split(strings.TrimSuffix(h, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "!_TAG_FILE_FORMAT\t2\t"))
	assert.Equal(t, "!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted, 2=foldcase/", lines[1])
	assert.Equal(t, "!_TAG_PROGRAM_NAME\tptags tagger\t//", lines[2])
	assert.Equal(t, "!_TAG_PROGRAM_VERSION\t1.2.3\t//", lines[3])

	assert.Contains(t, Header(false, "dev"), "!_TAG_FILE_SORTED\t0\t")
}

func TestWriteTags(t *testing.T) {
	var buf bytes.Buffer
	tags := []Tag{
		{Name: "a", Path: "x.go", Pattern: "func a() {}", Kind: KindFunction, Line: 1},
		{Name: "b", Path: "x.go", Pattern: "func b() {}", Kind: KindFunction, Line: 2},
	}
	require.NoError(t, WriteTags(&buf, "H\n", tags))
	assert.Equal(t, "H\n"+tags[0].String()+"\n"+tags[1].String()+"\n", buf.String())
}

func TestSortTags_RawByteOrder(t *testing.T) {
	tags := []Tag{
		{Name: "b", Path: "p", Kind: KindFunction, Line: 1},
		{Name: "B", Path: "p", Kind: KindFunction, Line: 1},
		{Name: "a", Path: "q", Kind: KindFunction, Line: 1},
		{Name: "a", Path: "p", Kind: KindFunction, Line: 9},
	}
	SortTags(tags)
	assert.Equal(t, []string{"B p", "a p", "a q", "b p"}, []string{
		tags[0].Name + " " + tags[0].Path,
		tags[1].Name + " " + tags[1].Path,
		tags[2].Name + " " + tags[2].Path,
		tags[3].Name + " " + tags[3].Path,
	})
}

func TestReadFileList(t *testing.T) {
	files, err := ReadFileList(strings.NewReader("a.go\r\n\nb/c.rs\nlast.py"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b/c.rs", "last.py"}, files)
}

func TestReadFileList_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list")
	require.NoError(t, os.WriteFile(path, []byte("x.go\ny.go\n"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	files, err := ReadFileList(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.go", "y.go"}, files)
}
