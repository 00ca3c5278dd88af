package orchestrator

// DefaultWorkers is the number of shards used when Config.Workers is unset.
const DefaultWorkers = 8

// StdoutSink is the output path that selects standard output instead of a file.
const StdoutSink = "-"

// Config holds the runtime configuration for a tag generation run. It is
// built once by the caller and never mutated by the orchestrator.
type Config struct {
	// Workers is the number of shards, and therefore concurrent tool
	// processes. Values below 1 fall back to DefaultWorkers.
	Workers int

	// Dir is the working directory of every tool invocation.
	Dir string

	// Output is the tag file path, or StdoutSink.
	Output string

	// ToolPath is the tag tool binary (for example "ctags").
	ToolPath string

	// ToolPrefix is prepended to every tool invocation before any other
	// argument. Used to run the built-in tagger as "<self> tagger ...".
	ToolPrefix []string

	// ToolArgs are user options passed verbatim to every tool invocation,
	// including the header probe.
	ToolArgs []string

	// Exclude patterns are forwarded to the tool as --exclude=<pattern>.
	Exclude []string

	// Unsorted selects the shard-concatenation merge and asks the tool not
	// to sort its own output.
	Unsorted bool

	// ValidateUTF8 makes invalid UTF-8 in tool output a fatal error.
	ValidateUTF8 bool
}

// workers returns the effective shard count.
func (c Config) workers() int {
	if c.Workers < 1 {
		return DefaultWorkers
	}
	return c.Workers
}

// strategy returns the merge strategy implied by the configuration.
func (c Config) strategy() MergeStrategy {
	if c.Unsorted {
		return MergeConcatenate
	}
	return MergeSorted
}

// shardArgs builds the argument list for a per-shard invocation: the file
// list comes from stdin and tags go to stdout.
func (c Config) shardArgs() []string {
	args := make([]string, 0, len(c.ToolPrefix)+5+len(c.Exclude)+len(c.ToolArgs))
	args = append(args, c.ToolPrefix...)
	args = append(args, "-L", "-", "-f", "-")
	if c.Unsorted {
		args = append(args, "--sort=no")
	}
	for _, e := range c.Exclude {
		args = append(args, "--exclude="+e)
	}
	args = append(args, c.ToolArgs...)
	return args
}

// headerArgs builds the argument list for the header probe.
func (c Config) headerArgs(listPath, tagsPath string) []string {
	args := make([]string, 0, len(c.ToolPrefix)+4+len(c.ToolArgs))
	args = append(args, c.ToolPrefix...)
	args = append(args, "-L", listPath, "-f", tagsPath)
	args = append(args, c.ToolArgs...)
	return args
}
