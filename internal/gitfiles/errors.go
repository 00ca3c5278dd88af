package gitfiles

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotGitRepository matches a GitError caused by running outside a work
// tree.
var ErrNotGitRepository = errors.New("not a git repository")

// CommandError reports that the git binary could not be started.
type CommandError struct {
	Path string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git command %q failed: %v", e.Path, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// GitError reports a git invocation that exited unsuccessfully.
type GitError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git failed: %s\n%s", e.Cmd, strings.TrimRight(e.Stderr, "\n"))
}

// Is reports whether target is ErrNotGitRepository and git said so.
func (e *GitError) Is(target error) bool {
	return target == ErrNotGitRepository &&
		strings.Contains(strings.ToLower(e.Stderr), "not a git repository")
}
