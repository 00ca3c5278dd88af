package mcptools

// --- MCP Tool Types for the ptags server mode (--serve-mcp) ---
// The MCP Go SDK derives each tool's JSON schema from these structs.

// GenerateTagsInput is the input for the generate_tags MCP tool.
type GenerateTagsInput struct {
	Dir      string `json:"dir,omitempty" jsonschema:"git work tree to index (default: the server's directory)"`
	Output   string `json:"output,omitempty" jsonschema:"tag file to write, relative to dir (default: tags)"`
	Threads  int    `json:"threads,omitempty" jsonschema:"number of parallel tag tool processes (default: 8)"`
	Unsorted bool   `json:"unsorted,omitempty" jsonschema:"concatenate shard outputs instead of merging them in sorted order"`
}

// GenerateTagsOutput is the result of the generate_tags MCP tool.
type GenerateTagsOutput struct {
	Output string `json:"output"`
	Files  int    `json:"files"`
	Lines  int    `json:"lines"`
	Shards int    `json:"shards"`
	Status string `json:"status"` // "completed" or "failed"
	// Message carries the failure reason.
	Message string `json:"message,omitempty"`
}

// ListFilesInput is the input for the list_files MCP tool.
type ListFilesInput struct {
	Dir              string `json:"dir,omitempty" jsonschema:"git work tree to list (default: the server's directory)"`
	IncludeUntracked bool   `json:"includeUntracked,omitempty" jsonschema:"also list untracked files that are not ignored"`
}

// ListFilesOutput is the result of the list_files MCP tool.
type ListFilesOutput struct {
	Files []string `json:"files"`
	Total int      `json:"total"`
}

// DetectToolInput is the input for the detect_tool MCP tool.
type DetectToolInput struct {
	Bin string `json:"bin,omitempty" jsonschema:"tag tool binary to probe (default: the configured ctags)"`
}

// DetectToolOutput is the result of the detect_tool MCP tool.
type DetectToolOutput struct {
	Flavor string `json:"flavor"`
	Banner string `json:"banner,omitempty"`
}
