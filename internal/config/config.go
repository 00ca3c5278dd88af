// Package config resolves ptags options from built-in defaults, the
// project config file and command-line flags, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/ptags/internal/gitfiles"
	"github.com/dusk-indust/ptags/internal/orchestrator"
)

// FileNames are the project config files looked up in the search
// directory, in order.
var FileNames = []string{".ptags.yml", ".ptags.yaml", "ptags.yml", "ptags.yaml"}

// ProjectConfig holds settings loaded from a project config file. Keys
// mirror the long flag names.
type ProjectConfig struct {
	Thread           int      `yaml:"thread,omitempty"`
	File             string   `yaml:"file,omitempty"`
	Stat             bool     `yaml:"stat,omitempty"`
	StatFormat       string   `yaml:"stat-format,omitempty"`
	BinCtags         string   `yaml:"bin-ctags,omitempty"`
	BinGit           string   `yaml:"bin-git,omitempty"`
	OptCtags         []string `yaml:"opt-ctags,omitempty"`
	OptGit           []string `yaml:"opt-git,omitempty"`
	OptGitLFS        []string `yaml:"opt-git-lfs,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty"`
	Verbose          bool     `yaml:"verbose,omitempty"`
	ExcludeLFS       bool     `yaml:"exclude-lfs,omitempty"`
	IncludeUntracked bool     `yaml:"include-untracked,omitempty"`
	IncludeIgnored   bool     `yaml:"include-ignored,omitempty"`
	IncludeSubmodule bool     `yaml:"include-submodule,omitempty"`
	ValidateUTF8     bool     `yaml:"validate-utf8,omitempty"`
	Unsorted         bool     `yaml:"unsorted,omitempty"`
	Builtin          bool     `yaml:"builtin,omitempty"`

	// Path is the file the settings came from; empty if none was found.
	Path string `yaml:"-"`
}

// Load reads the first project config file found in dir. A missing file
// yields a zero-value config, not an error; a file that exists but cannot
// be read is an error.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Path = path
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Options is the fully resolved configuration of one ptags run.
type Options struct {
	Threads    int
	Output     string
	Dir        string
	Stat       bool
	StatFormat string
	BinCtags   string
	BinGit     string
	OptCtags   []string
	OptGit     []string
	OptGitLFS  []string
	Exclude    []string

	Verbose          bool
	ExcludeLFS       bool
	IncludeUntracked bool
	IncludeIgnored   bool
	IncludeSubmodule bool
	ValidateUTF8     bool
	Unsorted         bool
	Builtin          bool
}

// Stat output formats.
const (
	StatText = "text"
	StatJSON = "json"
)

// Defaults returns the built-in option values.
func Defaults() Options {
	return Options{
		Threads:    orchestrator.DefaultWorkers,
		Output:     "tags",
		Dir:        ".",
		StatFormat: StatText,
		BinCtags:   "ctags",
		BinGit:     gitfiles.DefaultGit,
	}
}

// Apply overlays the settings present in p onto o. List settings replace
// the defaults; command-line values are appended after them.
func (p *ProjectConfig) Apply(o *Options) {
	if p.Thread > 0 {
		o.Threads = p.Thread
	}
	if p.File != "" {
		o.Output = p.File
	}
	if p.StatFormat != "" {
		o.StatFormat = p.StatFormat
	}
	if p.BinCtags != "" {
		o.BinCtags = p.BinCtags
	}
	if p.BinGit != "" {
		o.BinGit = p.BinGit
	}
	if len(p.OptCtags) > 0 {
		o.OptCtags = append([]string(nil), p.OptCtags...)
	}
	if len(p.OptGit) > 0 {
		o.OptGit = append([]string(nil), p.OptGit...)
	}
	if len(p.OptGitLFS) > 0 {
		o.OptGitLFS = append([]string(nil), p.OptGitLFS...)
	}
	if len(p.Exclude) > 0 {
		o.Exclude = append([]string(nil), p.Exclude...)
	}
	o.Stat = o.Stat || p.Stat
	o.Verbose = o.Verbose || p.Verbose
	o.ExcludeLFS = o.ExcludeLFS || p.ExcludeLFS
	o.IncludeUntracked = o.IncludeUntracked || p.IncludeUntracked
	o.IncludeIgnored = o.IncludeIgnored || p.IncludeIgnored
	o.IncludeSubmodule = o.IncludeSubmodule || p.IncludeSubmodule
	o.ValidateUTF8 = o.ValidateUTF8 || p.ValidateUTF8
	o.Unsorted = o.Unsorted || p.Unsorted
	o.Builtin = o.Builtin || p.Builtin
}

// Validate checks option values that flags and YAML cannot constrain.
func (o Options) Validate() error {
	if o.Threads < 1 {
		return fmt.Errorf("thread count must be at least 1, got %d", o.Threads)
	}
	if o.Output == "" {
		return fmt.Errorf("output file must not be empty")
	}
	switch o.StatFormat {
	case StatText, StatJSON:
	default:
		return fmt.Errorf("unknown stat format %q (want %s or %s)", o.StatFormat, StatText, StatJSON)
	}
	return nil
}

// Orchestrator converts o into a pipeline configuration. When Builtin is
// set the tool is self, invoked through its tagger subcommand.
func (o Options) Orchestrator(self string) orchestrator.Config {
	cfg := orchestrator.Config{
		Workers:      o.Threads,
		Dir:          o.Dir,
		Output:       o.Output,
		ToolPath:     o.BinCtags,
		ToolArgs:     append([]string(nil), o.OptCtags...),
		Exclude:      append([]string(nil), o.Exclude...),
		Unsorted:     o.Unsorted,
		ValidateUTF8: o.ValidateUTF8,
	}
	if o.Builtin {
		cfg.ToolPath = self
		cfg.ToolPrefix = []string{"tagger"}
	}
	return cfg
}

// Git converts o into file listing options.
func (o Options) Git() gitfiles.Options {
	return gitfiles.Options{
		Dir:              o.Dir,
		GitPath:          o.BinGit,
		GitArgs:          append([]string(nil), o.OptGit...),
		LFSArgs:          append([]string(nil), o.OptGitLFS...),
		ExcludeLFS:       o.ExcludeLFS,
		IncludeUntracked: o.IncludeUntracked,
		IncludeIgnored:   o.IncludeIgnored,
		IncludeSubmodule: o.IncludeSubmodule,
	}
}
