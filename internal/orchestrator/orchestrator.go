// Package orchestrator runs a tag tool over shards of a file list in
// parallel and merges the per-shard output into a single tag file.
package orchestrator

import (
	"context"
	"time"
)

// WorkerResult holds the outcome of one tool invocation over one shard.
type WorkerResult struct {
	// Shard is the index of the shard this result belongs to.
	Shard int

	// Files is the number of paths fed to the tool.
	Files int

	// Cmd is the exact command line used.
	Cmd string

	// Stdout is the raw tool output.
	Stdout []byte

	// Stderr is the tool's diagnostic output.
	Stderr []byte

	// ExitCode is the process exit status, -1 if it never ran or was killed.
	ExitCode int

	// Duration is the wall time from spawn to exit.
	Duration time.Duration

	// Err is non-nil if the worker failed.
	Err error
}

// RunResult summarises a completed run.
type RunResult struct {
	Files       int
	Shards      int
	Lines       int
	HeaderBytes int
	Output      string

	// CallDuration covers the parallel tool phase, MergeDuration the
	// header, merge and sink phase.
	CallDuration  time.Duration
	MergeDuration time.Duration

	Workers []WorkerResult
}

// ProgressEvent is emitted while shards are dispatched.
type ProgressEvent struct {
	Shard   int
	Files   int
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a shard's worker.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// Orchestrator generates a tag file from an ordered file list.
type Orchestrator interface {
	// Run shards files, runs the tool on every shard, and writes the
	// merged result to the configured output.
	Run(ctx context.Context, files []string) (*RunResult, error)

	// Progress returns a channel that emits per-shard progress events.
	Progress() <-chan ProgressEvent
}
