package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// HeaderProvider obtains the tag file preamble by running the tool once
// against an empty file list.
type HeaderProvider struct {
	cfg    Config
	logger *zap.Logger
}

// NewHeaderProvider creates a HeaderProvider for cfg.
func NewHeaderProvider(cfg Config, logger *zap.Logger) *HeaderProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeaderProvider{cfg: cfg, logger: logger}
}

// Fetch runs the header probe and returns whatever the tool wrote to its
// output file. The tool's exit status is ignored: some tools report an
// error for an empty list but still write a usable header. A missing or
// unreadable output file yields a HeaderError.
func (h *HeaderProvider) Fetch(ctx context.Context) (string, error) {
	list, err := os.CreateTemp("", "ptags-list-*")
	if err != nil {
		return "", fmt.Errorf("create empty file list: %w", err)
	}
	listPath := list.Name()
	list.Close()
	defer os.Remove(listPath)

	// The tool must create the output itself; on some platforms it cannot
	// open a file another process still holds.
	tags, err := os.CreateTemp("", "ptags-header-*")
	if err != nil {
		return "", fmt.Errorf("create header file: %w", err)
	}
	tagsPath := tags.Name()
	tags.Close()
	if err := os.Remove(tagsPath); err != nil {
		return "", fmt.Errorf("prepare header file: %w", err)
	}
	defer os.Remove(tagsPath)

	args := h.cfg.headerArgs(listPath, tagsPath)
	cmdline := CommandLine(h.cfg.ToolPath, args)
	h.logger.Info("Call", zap.String("cmd", cmdline))

	cmd := exec.CommandContext(ctx, h.cfg.ToolPath, args...)
	cmd.Dir = h.cfg.Dir
	if err := cmd.Run(); err != nil {
		h.logger.Debug("header probe exited with error", zap.String("cmd", cmdline), zap.Error(err))
	}

	data, err := os.ReadFile(tagsPath)
	if err != nil {
		return "", &HeaderError{Cmd: cmdline, Err: err}
	}
	return string(data), nil
}
