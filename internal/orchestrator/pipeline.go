package orchestrator

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface check.
var _ Orchestrator = (*Pipeline)(nil)

// Pipeline implements Orchestrator. It shards the file list, runs the
// FanOut and the HeaderProvider concurrently, then merges the results
// into the sink.
type Pipeline struct {
	cfg      Config
	logger   *zap.Logger
	progress *ProgressReporter
	fanout   *FanOut
	header   *HeaderProvider
	merger   *Merger
	stdout   io.Writer
}

// NewPipeline creates a Pipeline wired with a FanOut, a HeaderProvider, a
// Merger and a ProgressReporter. A nil logger disables logging.
func NewPipeline(cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	progress := NewProgressReporter(cfg.workers())
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		progress: progress,
		fanout:   NewFanOut(cfg, logger, progress.Emit),
		header:   NewHeaderProvider(cfg, logger),
		merger:   NewMerger(MergePlan{Strategy: cfg.strategy()}),
		stdout:   os.Stdout,
	}
}

// SetStdout redirects the StdoutSink destination.
func (p *Pipeline) SetStdout(w io.Writer) {
	p.stdout = w
}

// Run generates the tag file for files. Nothing is written to the output
// unless every worker succeeded.
func (p *Pipeline) Run(ctx context.Context, files []string) (*RunResult, error) {
	shards := ShardFiles(files, p.cfg.workers())
	p.logger.Debug("dispatching shards",
		zap.Int("files", len(files)),
		zap.Int("shards", len(shards)),
		zap.String("tool", p.cfg.ToolPath))

	start := time.Now()

	var (
		header  string
		results []WorkerResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := p.header.Fetch(gctx)
		if err != nil {
			p.logger.Warn("tags header unavailable", zap.Error(err))
			return nil
		}
		header = h
		return nil
	})
	g.Go(func() error {
		r, err := p.fanout.Run(gctx, shards)
		results = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	callDuration := time.Since(start)

	outputs := make([][]byte, len(results))
	for i, r := range results {
		outputs[i] = r.Stdout
	}

	start = time.Now()
	sink, err := OpenSink(p.cfg.Output, p.stdout)
	if err != nil {
		return nil, err
	}
	lines, err := p.merger.Merge(sink, header, outputs)
	if err != nil {
		sink.Abort()
		return nil, &SinkError{Path: p.cfg.Output, Err: err}
	}
	if err := sink.Commit(); err != nil {
		return nil, err
	}

	result := &RunResult{
		Files:         len(files),
		Shards:        len(shards),
		Lines:         lines,
		HeaderBytes:   len(header),
		Output:        p.cfg.Output,
		CallDuration:  callDuration,
		MergeDuration: time.Since(start),
		Workers:       results,
	}
	p.logger.Debug("tags written",
		zap.String("output", p.cfg.Output),
		zap.Int("lines", lines),
		zap.Duration("call", result.CallDuration),
		zap.Duration("merge", result.MergeDuration))
	return result, nil
}

// Progress returns a channel that emits progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when the
// pipeline is no longer needed.
func (p *Pipeline) Close() {
	p.progress.Close()
}
