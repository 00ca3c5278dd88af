package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dusk-indust/ptags/internal/config"
	"github.com/dusk-indust/ptags/internal/export"
	"github.com/dusk-indust/ptags/internal/gitfiles"
	"github.com/dusk-indust/ptags/internal/logging"
	"github.com/dusk-indust/ptags/internal/mcptools"
	"github.com/dusk-indust/ptags/internal/orchestrator"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "tagger":
			return runTagger(ctx, args[1:], stdin, stdout, stderr)
		case "init":
			return runInit(args[1:], stdout, stderr)
		case "lookup":
			return runLookup(args[1:], stdout, stderr)
		}
	}

	opts, flags, err := parseOptions(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintf(stdout, "ptags %s\n", version)
		return nil
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Options{Verbose: opts.Verbose, Debug: flags.Debug, Writer: stderr})
	defer logger.Sync()

	self, err := selfPath(opts)
	if err != nil {
		return err
	}

	if flags.ServeMCP {
		server := mcptools.NewTagsMCPServer(mcptools.NewTagService(opts, self, logger))
		return mcptools.RunStdio(ctx, server)
	}

	return generate(ctx, opts, self, logger, stdout)
}

// generate lists the files of the work tree, runs the pipeline and prints
// statistics if requested.
func generate(ctx context.Context, opts config.Options, self string, logger *zap.Logger, stdout io.Writer) error {
	start := time.Now()
	files, err := gitfiles.NewLister(opts.Git(), logger).List(ctx)
	if err != nil {
		return err
	}
	gitDuration := time.Since(start)

	cfg := opts.Orchestrator(self)
	pipeline := orchestrator.NewPipeline(cfg, logger)
	pipeline.SetStdout(stdout)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range pipeline.Progress() {
			logger.Debug(orchestrator.FormatProgress(ev))
		}
	}()

	res, err := pipeline.Run(ctx, files)
	pipeline.Close()
	<-drained
	if err != nil {
		return err
	}

	if !opts.Stat {
		return nil
	}

	st := export.NewStatistics(opts.Threads, gitDuration, res)
	if opts.StatFormat == config.StatJSON {
		st.Tool = cfg.ToolPath
		flavor, _, err := orchestrator.NewDefaultDetector(cfg, logger).Detect(ctx)
		if err != nil {
			logger.Warn("tool detection failed", zap.Error(err))
		}
		st.Flavor = string(flavor)
		return export.WriteJSON(stdout, st)
	}
	_, err = io.WriteString(stdout, export.FormatText(st))
	return err
}

// selfPath returns the running binary when the built-in tagger is
// selected.
func selfPath(opts config.Options) (string, error) {
	if !opts.Builtin {
		return "", nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate ptags binary: %w", err)
	}
	return self, nil
}
