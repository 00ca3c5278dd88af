package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNoWorkers is returned when a FanOut is asked to run zero shards.
var ErrNoWorkers = errors.New("orchestrator: no shards to run")

// SpawnError reports that the tag tool binary could not be started.
type SpawnError struct {
	Path string
	Cmd  string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("tag tool command %q failed: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ToolError reports a tool process that ran but exited unsuccessfully.
type ToolError struct {
	Shard    int
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tag tool failed: %s\n%s", e.Cmd, strings.TrimRight(e.Stderr, "\n"))
}

func (e *ToolError) Unwrap() error { return e.Err }

// DecodeError reports tool output that is not valid UTF-8 while strict
// validation is enabled.
type DecodeError struct {
	Shard  int
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid utf-8 in output of shard %d at byte %d", e.Shard, e.Offset)
}

// SinkError reports a tag file that could not be created, written or
// moved into place.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("write tags %q: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// HeaderError reports a header probe whose output could not be read.
// The pipeline treats it as a warning.
type HeaderError struct {
	Cmd string
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("read tags header from %s: %v", e.Cmd, e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// ErrorAggregator keeps the first fatal error reported by concurrent
// workers. Later errors are only counted. Safe for concurrent use.
type ErrorAggregator struct {
	mu    sync.Mutex
	first error
	count int
}

// Record stores err if it is the first one seen. It reports whether err
// became the terminal error. A nil err is ignored.
func (a *ErrorAggregator) Record(err error) bool {
	if err == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	if a.first != nil {
		return false
	}
	a.first = err
	return true
}

// Err returns the first recorded error, or nil.
func (a *ErrorAggregator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.first
}

// Count returns how many errors were recorded, including the first.
func (a *ErrorAggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}
