package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// FanOut runs one tag tool process per shard in parallel and collects
// their output. Results are gathered in completion order and stored by
// shard index.
type FanOut struct {
	cfg        Config
	logger     *zap.Logger
	onProgress func(ProgressEvent)

	// start launches a prepared worker process. Tests replace it to make
	// individual spawns fail.
	start func(ctx context.Context, cmd *exec.Cmd) error
}

// NewFanOut creates a FanOut for cfg. onProgress is called from worker
// goroutines; it may be nil. A nil logger disables logging.
func NewFanOut(cfg Config, logger *zap.Logger, onProgress func(ProgressEvent)) *FanOut {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FanOut{
		cfg:        cfg,
		logger:     logger,
		onProgress: onProgress,
		start: func(_ context.Context, cmd *exec.Cmd) error {
			return cmd.Start()
		},
	}
}

// Run launches a worker per shard and blocks until every worker reported.
//
// The returned slice always has one slot per shard, ordered by shard
// index. The error is the first fatal failure in completion order. A
// SpawnError returns immediately without waiting for the remaining
// workers; their slots stay zero-valued and their processes are killed.
func (f *FanOut) Run(ctx context.Context, shards []Shard) ([]WorkerResult, error) {
	if len(shards) == 0 {
		return nil, ErrNoWorkers
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	args := f.cfg.shardArgs()
	cmdline := CommandLine(f.cfg.ToolPath, args)

	done := make(chan WorkerResult, len(shards))
	for _, shard := range shards {
		f.emit(ProgressEvent{Shard: shard.Index, Files: len(shard.Files), Status: ProgressPending})
		f.logger.Info("Call", zap.String("cmd", cmdline), zap.Int("shard", shard.Index))

		go func() {
			done <- f.runShard(ctx, shard, args, cmdline)
		}()
	}

	results := make([]WorkerResult, len(shards))
	var agg ErrorAggregator
	for range shards {
		res := <-done
		results[res.Shard] = res

		if res.Err == nil {
			f.emit(ProgressEvent{Shard: res.Shard, Files: res.Files, Status: ProgressComplete})
			continue
		}

		f.emit(ProgressEvent{Shard: res.Shard, Files: res.Files, Status: ProgressFailed, Message: res.Err.Error()})
		agg.Record(res.Err)

		var spawnErr *SpawnError
		if errors.As(res.Err, &spawnErr) {
			return results, agg.Err()
		}
	}

	if err := agg.Err(); err != nil {
		if n := agg.Count(); n > 1 {
			f.logger.Warn("multiple shards failed", zap.Int("failed", n))
		}
		return results, err
	}
	return results, nil
}

// runShard runs the tool over a single shard. The stdin payload is copied
// by exec in its own goroutine while stdout and stderr are drained, so a
// large file list cannot deadlock against a full output pipe.
func (f *FanOut) runShard(ctx context.Context, shard Shard, args []string, cmdline string) WorkerResult {
	res := WorkerResult{
		Shard:    shard.Index,
		Files:    len(shard.Files),
		Cmd:      cmdline,
		ExitCode: -1,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.cfg.ToolPath, args...)
	cmd.Dir = f.cfg.Dir
	cmd.Stdin = strings.NewReader(shard.Blob())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := f.start(ctx, cmd); err != nil {
		res.Err = &SpawnError{Path: f.cfg.ToolPath, Cmd: cmdline, Err: err}
		return res
	}
	f.emit(ProgressEvent{Shard: shard.Index, Files: len(shard.Files), Status: ProgressWorking})

	waitErr := cmd.Wait()
	res.Duration = time.Since(start)
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		res.Err = fmt.Errorf("shard %d: %w", shard.Index, ctx.Err())
	case waitErr != nil:
		res.Err = &ToolError{
			Shard:    shard.Index,
			Cmd:      cmdline,
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
			Err:      waitErr,
		}
	case f.cfg.ValidateUTF8:
		if off := invalidUTF8Offset(res.Stdout); off >= 0 {
			res.Err = &DecodeError{Shard: shard.Index, Offset: off}
		}
	}

	f.logger.Debug("shard finished",
		zap.Int("shard", shard.Index),
		zap.Int("files", res.Files),
		zap.Int("bytes", len(res.Stdout)),
		zap.Duration("elapsed", res.Duration),
		zap.Error(res.Err))

	return res
}

// emit sends a progress event if a callback is registered.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(ev)
	}
}

// CommandLine renders a tool invocation the way it is reported in
// diagnostics: the binary followed by its arguments, space separated.
func CommandLine(path string, args []string) string {
	if len(args) == 0 {
		return path
	}
	return path + " " + strings.Join(args, " ")
}

// invalidUTF8Offset returns the byte offset of the first invalid UTF-8
// sequence in b, or -1 if b is valid.
func invalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for off := 0; off < len(b); {
		r, size := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}
