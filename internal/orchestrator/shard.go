package orchestrator

import "strings"

// Shard is the subset of the file list routed to one worker.
type Shard struct {
	// Index is the shard number, 0..n-1.
	Index int

	// Files are the assigned paths in their original relative order.
	Files []string
}

// Blob renders the shard as the tool's stdin payload: one path per line,
// every entry newline-terminated. An empty shard renders as "".
func (s Shard) Blob() string {
	if len(s.Files) == 0 {
		return ""
	}
	n := len(s.Files)
	for _, f := range s.Files {
		n += len(f)
	}
	var b strings.Builder
	b.Grow(n)
	for _, f := range s.Files {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return b.String()
}

// ShardFiles partitions files into n shards round-robin: shard i receives
// every path whose index modulo n equals i. n below 1 is treated as 1.
// Every shard is returned, including empty ones.
func ShardFiles(files []string, n int) []Shard {
	if n < 1 {
		n = 1
	}
	shards := make([]Shard, n)
	per := len(files)/n + 1
	for i := range shards {
		shards[i] = Shard{Index: i, Files: make([]string, 0, per)}
	}
	for i, f := range files {
		s := &shards[i%n]
		s.Files = append(s.Files, f)
	}
	return shards
}
