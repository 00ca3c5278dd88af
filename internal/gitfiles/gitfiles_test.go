package gitfiles

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// initRepo creates a git repository with a few committed files, one
// untracked file and one ignored file.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	write := func(name, body string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	git := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	git("init", "-q")
	write(".gitignore", "*.log\n")
	write("main.go", "package main\n")
	write("src/lib.rs", "fn main() {}\n")
	write("src/util.py", "def f(): pass\n")
	write("README.md", "# test\n")
	git("add", ".")
	git("commit", "-q", "-m", "init")

	write("scratch.go", "package main\n")
	write("debug.log", "noise\n")
	return dir
}

func TestLister_TrackedFiles(t *testing.T) {
	dir := initRepo(t)

	files, err := NewLister(Options{Dir: dir}, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "README.md", "main.go", "src/lib.rs", "src/util.py"}, files)
}

func TestLister_IncludeUntracked(t *testing.T) {
	dir := initRepo(t)

	files, err := NewLister(Options{Dir: dir, IncludeUntracked: true}, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "README.md", "main.go", "scratch.go", "src/lib.rs", "src/util.py"}, files)
}

func TestLister_IncludeIgnored(t *testing.T) {
	dir := initRepo(t)

	files, err := NewLister(Options{Dir: dir, IncludeIgnored: true}, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "README.md", "debug.log", "main.go", "src/lib.rs", "src/util.py"}, files)
}

func TestLister_Subdirectory(t *testing.T) {
	dir := initRepo(t)

	files, err := NewLister(Options{Dir: filepath.Join(dir, "src")}, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lib.rs", "util.py"}, files)
}

func TestLister_LogsCalls(t *testing.T) {
	dir := initRepo(t)

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := NewLister(Options{Dir: dir}, zap.New(core)).List(context.Background())
	require.NoError(t, err)

	calls := logs.FilterMessage("Call").All()
	require.Len(t, calls, 1)
	assert.Equal(t, "git ls-files --cached --exclude-standard", calls[0].ContextMap()["cmd"])
	assert.Equal(t, int64(5), logs.FilterMessage("Files").All()[0].ContextMap()["count"])
}

func TestLister_GitFailure(t *testing.T) {
	dir := initRepo(t)

	_, err := NewLister(Options{Dir: dir, GitArgs: []string{"-aaa"}}, nil).List(context.Background())
	var gitErr *GitError
	require.True(t, errors.As(err, &gitErr), "expected GitError, got %v", err)
	assert.Equal(t, "git ls-files --cached --exclude-standard -aaa", gitErr.Cmd)
	assert.Contains(t, err.Error(), "git failed: git ls-files --cached --exclude-standard -aaa\n")
	assert.NotErrorIs(t, err, ErrNotGitRepository)
}

func TestLister_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := NewLister(Options{Dir: dir}, nil).List(context.Background())
	assert.ErrorIs(t, err, ErrNotGitRepository)
}

func TestLister_MissingBinary(t *testing.T) {
	_, err := NewLister(Options{Dir: t.TempDir(), GitPath: "/nonexistent/git"}, nil).List(context.Background())
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr), "expected CommandError, got %v", err)
	assert.Equal(t, "/nonexistent/git", cmdErr.Path)
}

// fakeGit answers the invocations made for --exclude-lfs from inside the
// "src" directory of a repository.
const fakeGit = `#!/bin/sh
case "$1 $2" in
  "ls-files --cached") printf 'assets.bin\nlib.rs\nmodel.bin\n' ;;
  "lfs ls-files") printf '1a2b3c * src/model.bin\n4d5e6f - data/huge file.bin\n' ;;
  "rev-parse --show-cdup") printf '../\n' ;;
  "rev-parse --show-prefix") printf 'src/\n' ;;
  *) echo "unexpected: $*" >&2; exit 1 ;;
esac
`

func TestLister_ExcludeLFS(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake git is a POSIX shell script")
	}
	git := filepath.Join(t.TempDir(), "git")
	require.NoError(t, os.WriteFile(git, []byte(fakeGit), 0o755))

	files, err := NewLister(Options{GitPath: git, ExcludeLFS: true}, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"assets.bin", "lib.rs"}, files)
}

func TestReroot(t *testing.T) {
	tests := []struct {
		name, path, prefix, cdup, expect string
	}{
		{"at root", "a/b.bin", "", "", "a/b.bin"},
		{"inside dir", "src/model.bin", "src/", "../", "model.bin"},
		{"outside dir", "data/x.bin", "src/", "../", "../data/x.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, reroot(tt.path, tt.prefix, tt.cdup))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(nil))
	assert.Equal(t, []string{"a", "b"}, splitLines([]byte("a\r\nb\n")))
	assert.Equal(t, []string{"a", "b"}, splitLines([]byte("a\nb")))
}
