package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/ptags/internal/logging"
	"github.com/dusk-indust/ptags/internal/orchestrator"
	"github.com/dusk-indust/ptags/internal/tagger"
)

// runTagger implements "ptags tagger", a ctags-compatible front end to the
// built-in tagger. It accepts the options ptags itself passes to ctags.
func runTagger(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		listFile    string
		outFile     string
		sortMode    string
		exclude     []string
		showVersion bool
	)

	fs := flag.NewFlagSet("ptags tagger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&listFile, "L", "", `read the list of input files from this file ("-" for stdin)`)
	fs.StringVar(&outFile, "f", "tags", `write tags to this file ("-" for stdout)`)
	fs.StringVar(&sortMode, "sort", "yes", "sort tags: yes or no")
	fs.Var(stringList{&exclude}, "exclude", "skip files matching this glob (repeatable)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Fprintf(stdout, "%s %s\n", tagger.ProgramName, version)
		return nil
	}

	var sorted bool
	switch sortMode {
	case "yes", "1":
		sorted = true
	case "no", "0":
	default:
		return fmt.Errorf("unsupported --sort value %q", sortMode)
	}

	files, err := taggerFiles(listFile, fs.Args(), stdin)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Writer: stderr})
	defer logger.Sync()

	tags, err := tagger.New(tagger.Options{Sort: sorted, Exclude: exclude}, logger).Generate(ctx, files)
	if err != nil {
		return err
	}

	if outFile == orchestrator.StdoutSink {
		return tagger.WriteTags(stdout, "", tags)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", outFile, err)
	}
	if err := tagger.WriteTags(f, tagger.Header(sorted, version), tags); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	return f.Close()
}

// taggerFiles collects input files from the -L list and the positional
// arguments.
func taggerFiles(listFile string, positional []string, stdin io.Reader) ([]string, error) {
	var files []string
	switch listFile {
	case "":
	case "-":
		list, err := tagger.ReadFileList(stdin)
		if err != nil {
			return nil, err
		}
		files = list
	default:
		f, err := os.Open(listFile)
		if err != nil {
			return nil, fmt.Errorf("open file list: %w", err)
		}
		defer f.Close()
		list, err := tagger.ReadFileList(f)
		if err != nil {
			return nil, err
		}
		files = list
	}
	return append(files, positional...), nil
}
