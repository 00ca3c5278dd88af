package orchestrator

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// Sink is the destination of a merged tag stream. File sinks write to a
// temporary sibling that replaces the target only on Commit, so an
// aborted run leaves any existing tag file untouched.
type Sink struct {
	path string
	tmp  *os.File
	w    *bufio.Writer
}

// OpenSink opens path for writing. StdoutSink writes to stdout instead.
func OpenSink(path string, stdout io.Writer) (*Sink, error) {
	if path == StdoutSink {
		return &Sink{path: path, w: bufio.NewWriter(stdout)}, nil
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, &SinkError{Path: path, Err: err}
	}
	return &Sink{path: path, tmp: tmp, w: bufio.NewWriter(tmp)}, nil
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Commit flushes buffered data and, for file sinks, moves the temporary
// file over the target.
func (s *Sink) Commit() error {
	if err := s.w.Flush(); err != nil {
		s.Abort()
		return &SinkError{Path: s.path, Err: err}
	}
	if s.tmp == nil {
		return nil
	}

	name := s.tmp.Name()
	if err := s.tmp.Close(); err != nil {
		os.Remove(name)
		return &SinkError{Path: s.path, Err: err}
	}
	s.tmp = nil
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return &SinkError{Path: s.path, Err: err}
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return &SinkError{Path: s.path, Err: err}
	}
	return nil
}

// Abort discards everything written so far. It is a no-op after Commit.
func (s *Sink) Abort() {
	if s.tmp == nil {
		return
	}
	name := s.tmp.Name()
	s.tmp.Close()
	os.Remove(name)
	s.tmp = nil
}
