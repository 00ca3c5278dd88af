// Package gitfiles enumerates the files of a git work tree that should be
// tagged.
package gitfiles

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultGit is the git binary used when Options.GitPath is empty.
const DefaultGit = "git"

// Options selects which files are listed.
type Options struct {
	// Dir is the directory git runs in. Paths are relative to it.
	Dir     string
	GitPath string
	// GitArgs are appended to the ls-files invocation.
	GitArgs []string
	// LFSArgs are appended to the lfs ls-files invocation.
	LFSArgs []string

	ExcludeLFS       bool
	IncludeUntracked bool
	IncludeIgnored   bool
	IncludeSubmodule bool
}

// Lister runs git to build the file list.
type Lister struct {
	opts   Options
	logger *zap.Logger
}

// NewLister creates a Lister. A nil logger disables logging.
func NewLister(opts Options, logger *zap.Logger) *Lister {
	if opts.GitPath == "" {
		opts.GitPath = DefaultGit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lister{opts: opts, logger: logger}
}

// List returns the files to tag, sorted by byte order.
func (l *Lister) List(ctx context.Context) ([]string, error) {
	files, err := l.lsFiles(ctx)
	if err != nil {
		return nil, err
	}

	if l.opts.IncludeIgnored {
		ignored, err := l.lines(ctx, "ls-files", "--others", "--ignored", "--exclude-standard")
		if err != nil {
			return nil, err
		}
		files = append(files, ignored...)
		sort.Strings(files)
	}

	if l.opts.ExcludeLFS {
		lfs, err := l.lfsFiles(ctx)
		if err != nil {
			return nil, err
		}
		files = subtract(files, lfs)
	}

	l.logger.Info("Files", zap.Int("count", len(files)))
	return files, nil
}

func (l *Lister) lsFiles(ctx context.Context) ([]string, error) {
	args := []string{"ls-files", "--cached", "--exclude-standard"}
	switch {
	case l.opts.IncludeSubmodule:
		args = append(args, "--recurse-submodules")
	case l.opts.IncludeUntracked:
		args = append(args, "--other")
	}
	args = append(args, l.opts.GitArgs...)

	files, err := l.lines(ctx, args...)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// lfsFiles returns the LFS-managed files relative to Dir. git lfs prints
// paths relative to the repository root, so they are re-rooted using the
// prefix of Dir within the repository.
func (l *Lister) lfsFiles(ctx context.Context) (map[string]struct{}, error) {
	args := append([]string{"lfs", "ls-files"}, l.opts.LFSArgs...)
	out, err := l.lines(ctx, args...)
	if err != nil {
		return nil, err
	}
	cdup, err := l.firstLine(ctx, "rev-parse", "--show-cdup")
	if err != nil {
		return nil, err
	}
	prefix, err := l.firstLine(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(out))
	for _, line := range out {
		// "<oid> <*|-> <path>"
		fields := strings.SplitN(line, " ", 3)
		if len(fields) < 3 {
			continue
		}
		set[reroot(fields[2], prefix, cdup)] = struct{}{}
	}
	return set, nil
}

// reroot converts a repository-root-relative path into one relative to the
// directory identified by prefix (its path from the root) and cdup (its
// path back to the root).
func reroot(path, prefix, cdup string) string {
	if rest, ok := strings.CutPrefix(path, prefix); ok {
		return rest
	}
	return cdup + path
}

func subtract(files []string, drop map[string]struct{}) []string {
	if len(drop) == 0 {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		if _, ok := drop[f]; !ok {
			kept = append(kept, f)
		}
	}
	return kept
}

func (l *Lister) firstLine(ctx context.Context, args ...string) (string, error) {
	out, err := l.lines(ctx, args...)
	if err != nil || len(out) == 0 {
		return "", err
	}
	return out[0], nil
}

// lines runs git and splits its stdout into lines.
func (l *Lister) lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := l.call(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (l *Lister) call(ctx context.Context, args ...string) ([]byte, error) {
	cmdline := l.opts.GitPath + " " + strings.Join(args, " ")
	l.logger.Info("Call", zap.String("cmd", cmdline))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.opts.GitPath, args...)
	cmd.Dir = l.opts.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &GitError{Cmd: cmdline, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, &CommandError{Path: l.opts.GitPath, Err: err}
	}
	return stdout.Bytes(), nil
}

func splitLines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
