package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewTagsMCPServer creates an MCP server with the generate_tags,
// list_files and detect_tool tools registered.
func NewTagsMCPServer(svc *TagService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ptags",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_tags",
		Description: "Generate a ctags-compatible tag file for a git work tree. Files are listed with git, tagged by parallel ctags processes and merged into one file.",
	}, svc.GenerateTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the files of a git work tree that generate_tags would index, sorted by byte order.",
	}, svc.ListFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_tool",
		Description: "Probe a tag tool binary with --version and report whether it is Universal Ctags, Exuberant Ctags, the built-in tagger or unknown.",
	}, svc.DetectTool)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
