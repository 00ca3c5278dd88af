// Package export renders run statistics.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dusk-indust/ptags/internal/orchestrator"
)

// Statistics summarizes one ptags run.
type Statistics struct {
	Threads int    `json:"threads"`
	Files   int    `json:"files"`
	Lines   int    `json:"lines"`
	Output  string `json:"output"`
	Tool    string `json:"tool,omitempty"`
	Flavor  string `json:"flavor,omitempty"`

	GitFiles  time.Duration `json:"-"`
	CallCtags time.Duration `json:"-"`
	WriteTags time.Duration `json:"-"`

	Shards []ShardExport `json:"shards,omitempty"`
}

// ShardExport describes one worker of the run.
type ShardExport struct {
	Shard     int   `json:"shard"`
	Files     int   `json:"files"`
	Bytes     int   `json:"bytes"`
	ExitCode  int   `json:"exitCode"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// statisticsJSON is the wire form of Statistics with durations in
// milliseconds.
type statisticsJSON struct {
	Statistics
	ElapsedMs elapsedJSON `json:"elapsedMs"`
}

type elapsedJSON struct {
	GitFiles  int64 `json:"gitFiles"`
	CallCtags int64 `json:"callCtags"`
	WriteTags int64 `json:"writeTags"`
}

// NewStatistics builds Statistics from a pipeline result and the time
// spent listing files.
func NewStatistics(threads int, gitFiles time.Duration, res *orchestrator.RunResult) *Statistics {
	st := &Statistics{
		Threads:  threads,
		GitFiles: gitFiles,
	}
	if res == nil {
		return st
	}
	st.Files = res.Files
	st.Lines = res.Lines
	st.Output = res.Output
	st.CallCtags = res.CallDuration
	st.WriteTags = res.MergeDuration
	for _, w := range res.Workers {
		st.Shards = append(st.Shards, ShardExport{
			Shard:     w.Shard,
			Files:     w.Files,
			Bytes:     len(w.Stdout),
			ExitCode:  w.ExitCode,
			ElapsedMs: w.Duration.Milliseconds(),
		})
	}
	return st
}

// FormatText renders st in the classic ptags layout.
func FormatText(st *Statistics) string {
	var sb strings.Builder
	sb.WriteString("\nStatistics\n")
	sb.WriteString("- Options\n")
	fmt.Fprintf(&sb, "    thread    : %d\n\n", st.Threads)

	sb.WriteString("- Searched files\n")
	fmt.Fprintf(&sb, "    total     : %d\n\n", st.Files)

	sb.WriteString("- Elapsed time[ms]\n")
	fmt.Fprintf(&sb, "    git_files : %d\n", st.GitFiles.Milliseconds())
	fmt.Fprintf(&sb, "    call_ctags: %d\n", st.CallCtags.Milliseconds())
	fmt.Fprintf(&sb, "    write_tags: %d\n", st.WriteTags.Milliseconds())
	return sb.String()
}

// WriteJSON writes st as indented JSON followed by a newline.
func WriteJSON(w io.Writer, st *Statistics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(statisticsJSON{
		Statistics: *st,
		ElapsedMs: elapsedJSON{
			GitFiles:  st.GitFiles.Milliseconds(),
			CallCtags: st.CallCtags.Milliseconds(),
			WriteTags: st.WriteTags.Milliseconds(),
		},
	})
}
