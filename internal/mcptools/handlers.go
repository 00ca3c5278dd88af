package mcptools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/dusk-indust/ptags/internal/config"
	"github.com/dusk-indust/ptags/internal/gitfiles"
	"github.com/dusk-indust/ptags/internal/orchestrator"
)

// TagService handles MCP tool calls. Every call starts from the base
// options the server was launched with.
type TagService struct {
	base   config.Options
	self   string
	logger *zap.Logger
}

// NewTagService creates a TagService. self is the path of the running
// binary, used when the base options select the built-in tagger.
func NewTagService(base config.Options, self string, logger *zap.Logger) *TagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagService{base: base, self: self, logger: logger}
}

// GenerateTags lists the files of a work tree and writes its tag file.
// Pipeline failures are reported in the output with status "failed".
func (s *TagService) GenerateTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateTagsInput,
) (*mcp.CallToolResult, GenerateTagsOutput, error) {
	opts, err := s.options(input.Dir)
	if err != nil {
		return nil, GenerateTagsOutput{}, err
	}
	if input.Threads < 0 {
		return nil, GenerateTagsOutput{}, fmt.Errorf("threads must not be negative, got %d", input.Threads)
	}
	if input.Threads > 0 {
		opts.Threads = input.Threads
	}
	opts.Unsorted = opts.Unsorted || input.Unsorted
	if input.Output != "" {
		opts.Output = input.Output
	}
	if opts.Output != orchestrator.StdoutSink && !filepath.IsAbs(opts.Output) {
		opts.Output = filepath.Join(opts.Dir, opts.Output)
	}
	if opts.Output == orchestrator.StdoutSink {
		// stdout carries the MCP protocol.
		return nil, GenerateTagsOutput{}, fmt.Errorf("output %q is not supported over MCP", orchestrator.StdoutSink)
	}

	failed := func(err error) (*mcp.CallToolResult, GenerateTagsOutput, error) {
		return nil, GenerateTagsOutput{Output: opts.Output, Status: "failed", Message: err.Error()}, nil
	}

	files, err := gitfiles.NewLister(opts.Git(), s.logger).List(ctx)
	if err != nil {
		return failed(err)
	}

	pipeline := orchestrator.NewPipeline(opts.Orchestrator(s.self), s.logger)
	defer pipeline.Close()

	res, err := pipeline.Run(ctx, files)
	if err != nil {
		return failed(err)
	}

	return nil, GenerateTagsOutput{
		Output: res.Output,
		Files:  res.Files,
		Lines:  res.Lines,
		Shards: res.Shards,
		Status: "completed",
	}, nil
}

// ListFiles returns the files generate_tags would index.
func (s *TagService) ListFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFilesInput,
) (*mcp.CallToolResult, ListFilesOutput, error) {
	opts, err := s.options(input.Dir)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	opts.IncludeUntracked = opts.IncludeUntracked || input.IncludeUntracked

	files, err := gitfiles.NewLister(opts.Git(), s.logger).List(ctx)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	if files == nil {
		files = []string{}
	}
	return nil, ListFilesOutput{Files: files, Total: len(files)}, nil
}

// DetectTool probes a tag tool binary.
func (s *TagService) DetectTool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectToolInput,
) (*mcp.CallToolResult, DetectToolOutput, error) {
	cfg := s.base.Orchestrator(s.self)
	if input.Bin != "" {
		cfg.ToolPath = input.Bin
		cfg.ToolPrefix = nil
	}

	flavor, banner, err := orchestrator.NewDefaultDetector(cfg, s.logger).Detect(ctx)
	if err != nil {
		return nil, DetectToolOutput{}, err
	}
	return nil, DetectToolOutput{Flavor: string(flavor), Banner: banner}, nil
}

// options returns the base options rooted at dir, which must exist.
func (s *TagService) options(dir string) (config.Options, error) {
	opts := s.base
	if dir == "" {
		return opts, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return opts, fmt.Errorf("cannot access dir: %w", err)
	}
	if !info.IsDir() {
		return opts, fmt.Errorf("dir is not a directory: %s", dir)
	}
	opts.Dir = dir
	return opts, nil
}
