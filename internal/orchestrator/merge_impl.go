package orchestrator

import (
	"bufio"
	"bytes"
	"container/heap"
	"fmt"
	"io"
)

// Merger combines shard outputs according to a MergePlan.
type Merger struct {
	plan MergePlan
}

// NewMerger creates a Merger with the given merge plan.
func NewMerger(plan MergePlan) *Merger {
	if plan.Strategy == "" {
		plan.Strategy = MergeSorted
	}
	return &Merger{plan: plan}
}

// Merge writes header verbatim followed by every line of outputs, each
// terminated by a newline, and returns the number of lines written.
//
// With MergeSorted each output is assumed to be sorted already; lines are
// interleaved by raw byte order, ties going to the lower shard index.
// Outputs are never re-sorted internally.
func (m *Merger) Merge(w io.Writer, header string, outputs [][]byte) (int, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	if _, err := bw.WriteString(header); err != nil {
		return 0, err
	}

	cursors := make([]*lineCursor, len(outputs))
	for i, out := range outputs {
		cursors[i] = newLineCursor(i, out)
	}

	var (
		n   int
		err error
	)
	switch m.plan.Strategy {
	case MergeConcatenate:
		n, err = mergeConcatenate(bw, cursors)
	case MergeSorted:
		if len(cursors) > m.plan.heapThreshold() {
			n, err = mergeHeap(bw, cursors)
		} else {
			n, err = mergeLinear(bw, cursors)
		}
	default:
		return 0, fmt.Errorf("merge: unknown strategy %q", m.plan.Strategy)
	}
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// lineCursor iterates over the lines of one shard output. The current
// line excludes its terminator and a trailing carriage return.
type lineCursor struct {
	shard int
	rest  []byte
	line  []byte
	ok    bool
}

func newLineCursor(shard int, data []byte) *lineCursor {
	c := &lineCursor{shard: shard, rest: data}
	c.advance()
	return c
}

func (c *lineCursor) advance() {
	if len(c.rest) == 0 {
		c.line, c.ok = nil, false
		return
	}
	var line []byte
	if i := bytes.IndexByte(c.rest, '\n'); i >= 0 {
		line, c.rest = c.rest[:i], c.rest[i+1:]
	} else {
		line, c.rest = c.rest, nil
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	c.line, c.ok = line, true
}

func writeLine(w *bufio.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func mergeConcatenate(w *bufio.Writer, cursors []*lineCursor) (int, error) {
	n := 0
	for _, c := range cursors {
		for ; c.ok; c.advance() {
			if err := writeLine(w, c.line); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func mergeLinear(w *bufio.Writer, cursors []*lineCursor) (int, error) {
	n := 0
	for {
		best := -1
		for i, c := range cursors {
			if !c.ok {
				continue
			}
			if best < 0 || bytes.Compare(c.line, cursors[best].line) < 0 {
				best = i
			}
		}
		if best < 0 {
			return n, nil
		}
		if err := writeLine(w, cursors[best].line); err != nil {
			return n, err
		}
		n++
		cursors[best].advance()
	}
}

// cursorHeap orders cursors by current line, then shard index.
type cursorHeap []*lineCursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	if c := bytes.Compare(h[i].line, h[j].line); c != 0 {
		return c < 0
	}
	return h[i].shard < h[j].shard
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(*lineCursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

func mergeHeap(w *bufio.Writer, cursors []*lineCursor) (int, error) {
	h := make(cursorHeap, 0, len(cursors))
	for _, c := range cursors {
		if c.ok {
			h = append(h, c)
		}
	}
	heap.Init(&h)

	n := 0
	for h.Len() > 0 {
		c := h[0]
		if err := writeLine(w, c.line); err != nil {
			return n, err
		}
		n++
		c.advance()
		if c.ok {
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return n, nil
}
