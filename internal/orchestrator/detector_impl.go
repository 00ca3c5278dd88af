package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Compile-time check.
var _ Detector = (*DefaultDetector)(nil)

// BuiltinBanner starts the --version output of the built-in tagger.
const BuiltinBanner = "ptags tagger"

// DefaultDetector runs "<tool> --version" and classifies the banner.
type DefaultDetector struct {
	cfg          Config
	logger       *zap.Logger
	probeTimeout time.Duration
}

// NewDefaultDetector creates a DefaultDetector for the tool in cfg.
func NewDefaultDetector(cfg Config, logger *zap.Logger) *DefaultDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultDetector{
		cfg:          cfg,
		logger:       logger,
		probeTimeout: 5 * time.Second,
	}
}

// Detect probes the tool. A binary that cannot be started yields a
// SpawnError; a binary that runs but prints an unrecognised banner yields
// FlavorUnknown without error.
func (d *DefaultDetector) Detect(ctx context.Context) (ToolFlavor, string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	args := append(append([]string{}, d.cfg.ToolPrefix...), "--version")
	cmdline := CommandLine(d.cfg.ToolPath, args)

	var stdout bytes.Buffer
	cmd := exec.CommandContext(probeCtx, d.cfg.ToolPath, args...)
	cmd.Dir = d.cfg.Dir
	cmd.Stdout = &stdout
	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return FlavorUnknown, "", &SpawnError{Path: d.cfg.ToolPath, Cmd: cmdline, Err: err}
	}

	banner, _, _ := strings.Cut(stdout.String(), "\n")
	banner = strings.TrimSpace(banner)
	flavor := ClassifyBanner(banner)

	d.logger.Debug("detector", zap.String("tool", d.cfg.ToolPath), zap.String("flavor", string(flavor)))
	return flavor, banner, nil
}

// ClassifyBanner maps the first line of a --version banner to a flavor.
func ClassifyBanner(banner string) ToolFlavor {
	switch {
	case strings.HasPrefix(banner, "Universal Ctags"):
		return FlavorUniversal
	case strings.HasPrefix(banner, "Exuberant Ctags"):
		return FlavorExuberant
	case strings.HasPrefix(banner, BuiltinBanner):
		return FlavorBuiltin
	default:
		return FlavorUnknown
	}
}
