// Package tagger is a small ctags-compatible tag generator built on
// tree-sitter. It understands the subset of ctags options that ptags
// passes to its workers, so the ptags binary can act as its own tag tool.
package tagger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgramName starts every --version banner and names the tool in the
// header pseudo-tags.
const ProgramName = "ptags tagger"

// Options controls a tagging run.
type Options struct {
	// Sort orders the output by raw bytes. Otherwise tags appear in input
	// file order, then source order.
	Sort bool
	// Exclude holds glob patterns. A file is skipped if a pattern matches
	// its full path, its base name or any of its directory names.
	Exclude []string
	// Workers bounds the number of files parsed at once. Defaults to
	// GOMAXPROCS.
	Workers int
}

// Tagger extracts tags from source files.
type Tagger struct {
	opts   Options
	parser *Parser
	logger *zap.Logger
}

// New creates a Tagger. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Tagger {
	if opts.Workers < 1 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tagger{opts: opts, parser: NewParser(), logger: logger}
}

// Generate parses files and returns their tags. Files in unsupported
// languages are skipped. A file that cannot be read or parsed is reported
// as a warning and skipped, as ctags does.
func (t *Tagger) Generate(ctx context.Context, files []string) ([]Tag, error) {
	perFile := make([][]Tag, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)
	for i, path := range files {
		if path == "" || t.excluded(path) {
			continue
		}
		lang, ok := LanguageFor(path)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				t.logger.Warn("cannot read file", zap.String("path", path), zap.Error(err))
				return nil
			}
			tags, err := t.parser.Parse(path, source, lang)
			if err != nil {
				t.logger.Warn("cannot parse file", zap.String("path", path), zap.Error(err))
				return nil
			}
			perFile[i] = tags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Tag
	for _, tags := range perFile {
		all = append(all, tags...)
	}
	if t.opts.Sort {
		SortTags(all)
	}
	return all, nil
}

func (t *Tagger) excluded(path string) bool {
	if len(t.opts.Exclude) == 0 {
		return false
	}
	slashed := filepath.ToSlash(path)
	names := append([]string{slashed}, strings.Split(slashed, "/")...)
	for _, pattern := range t.opts.Exclude {
		for _, name := range names {
			if ok, _ := filepath.Match(pattern, name); ok {
				return true
			}
		}
	}
	return false
}

// SortTags orders tags by the raw bytes of their rendered lines.
func SortTags(tags []Tag) {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = t.String()
	}
	sort.Sort(byLine{tags: tags, keys: keys})
}

type byLine struct {
	tags []Tag
	keys []string
}

func (b byLine) Len() int           { return len(b.tags) }
func (b byLine) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byLine) Swap(i, j int) {
	b.tags[i], b.tags[j] = b.tags[j], b.tags[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Header returns the pseudo-tag preamble written at the top of tag files.
func Header(sorted bool, version string) string {
	sortFlag := 0
	if sorted {
		sortFlag = 1
	}
	var b strings.Builder
	b.WriteString("!_TAG_FILE_FORMAT\t2\t/extended format; --format=1 will not append ;\" to lines/\n")
	fmt.Fprintf(&b, "!_TAG_FILE_SORTED\t%d\t/0=unsorted, 1=sorted, 2=foldcase/\n", sortFlag)
	fmt.Fprintf(&b, "!_TAG_PROGRAM_NAME\t%s\t//\n", ProgramName)
	fmt.Fprintf(&b, "!_TAG_PROGRAM_VERSION\t%s\t//\n", version)
	return b.String()
}

// WriteTags writes one line per tag to w, preceded by header.
func WriteTags(w io.Writer, header string, tags []Tag) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	for _, t := range tags {
		if _, err := bw.WriteString(t.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFileList reads newline-separated paths from r, the format of ctags'
// -L option. Blank lines are skipped and a trailing carriage return is
// dropped.
func ReadFileList(r io.Reader) ([]string, error) {
	var files []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line != "" {
			files = append(files, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file list: %w", err)
	}
	return files, nil
}
