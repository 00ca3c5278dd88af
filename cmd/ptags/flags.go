package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dusk-indust/ptags/internal/config"
)

// stringList is a repeatable string flag.
type stringList struct {
	values *[]string
}

func (l stringList) String() string {
	if l.values == nil {
		return ""
	}
	return strings.Join(*l.values, " ")
}

func (l stringList) Set(v string) error {
	*l.values = append(*l.values, v)
	return nil
}

// cliFlags holds the flags that do not belong to config.Options.
type cliFlags struct {
	ServeMCP bool
	Version  bool
	Debug    bool
}

// newFlagSet binds every ptags flag to o and extra. Current values of o
// become the flag defaults.
func newFlagSet(o *config.Options, extra *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("ptags", flag.ContinueOnError)

	intVar := func(p *int, short, long, usage string) {
		fs.IntVar(p, short, *p, usage)
		fs.IntVar(p, long, *p, usage)
	}
	stringVar := func(p *string, short, long, usage string) {
		if short != "" {
			fs.StringVar(p, short, *p, usage)
		}
		fs.StringVar(p, long, *p, usage)
	}
	boolVar := func(p *bool, short, long, usage string) {
		if short != "" {
			fs.BoolVar(p, short, *p, usage)
		}
		fs.BoolVar(p, long, *p, usage)
	}
	listVar := func(p *[]string, short, long, usage string) {
		if short != "" {
			fs.Var(stringList{p}, short, usage)
		}
		fs.Var(stringList{p}, long, usage)
	}

	intVar(&o.Threads, "t", "thread", "number of threads")
	stringVar(&o.Output, "f", "file", `output filename ("-" for stdout)`)
	boolVar(&o.Stat, "s", "stat", "show statistics")
	stringVar(&o.StatFormat, "", "stat-format", "statistics format: text or json")
	stringVar(&o.BinCtags, "", "bin-ctags", "path to ctags binary")
	stringVar(&o.BinGit, "", "bin-git", "path to git binary")
	listVar(&o.OptCtags, "c", "opt-ctags", "option passed to ctags (repeatable)")
	listVar(&o.OptGit, "g", "opt-git", "option passed to git ls-files (repeatable)")
	listVar(&o.OptGitLFS, "", "opt-git-lfs", "option passed to git lfs ls-files (repeatable)")
	listVar(&o.Exclude, "e", "exclude", "glob of files to skip, forwarded as --exclude (repeatable)")
	boolVar(&o.Verbose, "v", "verbose", "verbose mode")
	boolVar(&o.ExcludeLFS, "", "exclude-lfs", "exclude git-lfs tracked files")
	boolVar(&o.IncludeUntracked, "", "include-untracked", "include untracked files")
	boolVar(&o.IncludeIgnored, "", "include-ignored", "include ignored files")
	boolVar(&o.IncludeSubmodule, "", "include-submodule", "include submodule files")
	boolVar(&o.ValidateUTF8, "", "validate-utf8", "fail on ctags output that is not valid UTF-8")
	boolVar(&o.Unsorted, "", "unsorted", "disable tags sort")
	boolVar(&o.Builtin, "", "builtin", "use the built-in tree-sitter tagger instead of ctags")
	fs.BoolVar(&extra.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.BoolVar(&extra.Version, "version", false, "print version and exit")
	fs.BoolVar(&extra.Debug, "debug", false, "debug logging, including per-shard progress")

	return fs
}

// parseInterspersed parses args allowing flags after positional
// arguments, and returns the positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// parseOptions resolves options from defaults, the project config file in
// the target directory, and args, in increasing order of precedence.
// Usage and parse errors are printed to stderr.
func parseOptions(args []string, stderr io.Writer) (config.Options, cliFlags, error) {
	// First pass only locates the target directory.
	scratch := config.Defaults()
	var scratchExtra cliFlags
	fs := newFlagSet(&scratch, &scratchExtra)
	fs.SetOutput(io.Discard)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		// Report the error with usage on the real pass.
		positional = nil
	}

	dir := "."
	if len(positional) > 0 {
		dir = positional[0]
	}

	opts := config.Defaults()
	project, loadErr := config.Load(dir)
	if loadErr != nil {
		return opts, cliFlags{}, loadErr
	}
	project.Apply(&opts)

	var extra cliFlags
	fs = newFlagSet(&opts, &extra)
	fs.SetOutput(stderr)
	positional, err = parseInterspersed(fs, args)
	if err != nil {
		return opts, extra, err
	}
	switch len(positional) {
	case 0:
	case 1:
		opts.Dir = positional[0]
	default:
		return opts, extra, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[1:], " "))
	}
	return opts, extra, nil
}
