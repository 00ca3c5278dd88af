package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/ptags/internal/config"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// ptagsMCPEntry is the MCP server configuration for the ptags binary.
var ptagsMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "ptags",
  "args": ["--serve-mcp"]
}`)

// runInit writes a starter project config and registers the ptags MCP
// server in the target directory.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ptags init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("init takes at most one directory, got %d", fs.NArg())
	}

	projectRoot := "."
	if fs.NArg() == 1 {
		projectRoot = fs.Arg(0)
	}
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	if err := writeStarterConfig(stdout, abs, *force); err != nil {
		return err
	}
	if err := mergeMCPConfig(stdout, filepath.Join(abs, ".mcp.json"), *force); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "\nSetup complete. Run ptags in the project to build its tag file.")
	return nil
}

// writeStarterConfig writes .ptags.yml with the default settings.
func writeStarterConfig(stdout io.Writer, root string, force bool) error {
	dest := filepath.Join(root, config.FileNames[0])
	if !force {
		if _, err := os.Stat(dest); err == nil {
			fmt.Fprintf(stdout, "  skipped %s (exists, use --force to overwrite)\n", dotRelative(root, dest))
			return nil
		}
	}

	d := config.Defaults()
	starter := config.ProjectConfig{
		Thread:     d.Threads,
		File:       d.Output,
		StatFormat: d.StatFormat,
		BinCtags:   d.BinCtags,
		BinGit:     d.BinGit,
	}
	data, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", config.FileNames[0], err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	fmt.Fprintf(stdout, "  created %s\n", dotRelative(root, dest))
	return nil
}

// mergeMCPConfig creates or merges the ptags entry into .mcp.json.
func mergeMCPConfig(stdout io.Writer, mcpPath string, force bool) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["ptags"]; exists && !force {
		fmt.Fprintf(stdout, "  skipped .mcp.json ptags entry (exists, use --force to overwrite)\n")
		return nil
	}

	cfg.MCPServers["ptags"] = ptagsMCPEntry

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(stdout, "  %s .mcp.json with ptags MCP server\n", action)
	return nil
}

// dotRelative returns a display path relative to the project root, prefixed
// with "./".
func dotRelative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return "./" + rel
}
