package orchestrator

// MergeStrategy defines how per-shard tool outputs are combined.
type MergeStrategy string

const (
	// MergeSorted interleaves shard outputs into one byte-ordered stream.
	MergeSorted MergeStrategy = "sorted"

	// MergeConcatenate emits shard outputs one after another in shard
	// order, without comparing lines.
	MergeConcatenate MergeStrategy = "concatenate"
)

// heapMergeThreshold is the shard count above which the sorted merge
// switches from a linear minimum scan, O(N) per emitted line, to a binary
// heap. Both produce identical output.
const heapMergeThreshold = 16

// MergePlan describes how to combine shard outputs.
type MergePlan struct {
	Strategy MergeStrategy

	// HeapThreshold overrides heapMergeThreshold when positive.
	HeapThreshold int
}

func (p MergePlan) heapThreshold() int {
	if p.HeapThreshold > 0 {
		return p.HeapThreshold
	}
	return heapMergeThreshold
}
