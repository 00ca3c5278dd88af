package orchestrator

import "context"

// ToolFlavor identifies the implementation behind the configured tag tool.
type ToolFlavor string

const (
	FlavorUniversal ToolFlavor = "universal-ctags"
	FlavorExuberant ToolFlavor = "exuberant-ctags"
	FlavorBuiltin   ToolFlavor = "ptags-builtin"
	FlavorUnknown   ToolFlavor = "unknown"
)

// Detector probes the configured tag tool.
type Detector interface {
	// Detect returns the tool flavor and the first line of its version
	// banner.
	Detect(ctx context.Context) (ToolFlavor, string, error)
}
