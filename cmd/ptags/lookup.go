package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// errNoMatch is returned by lookup when the tag file has no entry for the
// requested name.
var errNoMatch = errors.New("no matching tags")

// runLookup prints the entries of a tag file whose name field equals the
// given symbol. Pseudo-tags are never matched.
func runLookup(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ptags lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tagFile := fs.String("f", "tags", "tag file to search")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("lookup takes exactly one name, got %d", fs.NArg())
	}
	name := fs.Arg(0)
	if strings.HasPrefix(name, "!_") {
		return fmt.Errorf("%q: %w", name, errNoMatch)
	}

	f, err := os.Open(*tagFile)
	if err != nil {
		return fmt.Errorf("open tag file: %w", err)
	}
	defer f.Close()

	found, err := lookup(f, stdout, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", *tagFile, err)
	}
	if found == 0 {
		return fmt.Errorf("%q: %w", name, errNoMatch)
	}
	return nil
}

// lookup copies the lines of r whose first field is name to w and returns
// how many matched.
func lookup(r io.Reader, w io.Writer, name string) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var sb strings.Builder
	found := 0
	for sc.Scan() {
		line := sc.Text()
		field, _, _ := strings.Cut(line, "\t")
		if field != name {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
		found++
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	_, err := io.WriteString(w, sb.String())
	return found, err
}
