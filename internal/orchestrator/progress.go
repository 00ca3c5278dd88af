package orchestrator

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// eventsPerShard is how many events one shard emits in a run: pending,
// working, then complete or failed.
const eventsPerShard = 3

// ProgressReporter relays shard lifecycle events from the FanOut workers to
// a single subscriber. Emit never blocks a worker: an event that does not
// fit in the buffer is counted in Dropped and discarded.
type ProgressReporter struct {
	events  chan ProgressEvent
	dropped atomic.Int64
	closed  sync.Once
}

// NewProgressReporter creates a ProgressReporter whose buffer holds every
// event of a run over the given number of shards.
func NewProgressReporter(shards int) *ProgressReporter {
	if shards < 1 {
		shards = 1
	}
	return &ProgressReporter{
		events: make(chan ProgressEvent, shards*eventsPerShard),
	}
}

// Emit queues event for the subscriber.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.events <- event:
	default:
		pr.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer was
// full.
func (pr *ProgressReporter) Dropped() int {
	return int(pr.dropped.Load())
}

// Subscribe returns the event stream. It ends after Close.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.events
}

// Close ends the event stream. Calling it more than once is safe; Emit must
// not be called afterwards.
func (pr *ProgressReporter) Close() {
	pr.closed.Do(func() { close(pr.events) })
}

// FormatProgress renders a shard event as one log line.
func FormatProgress(event ProgressEvent) string {
	prefix := fmt.Sprintf("shard %d", event.Shard)
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("%s: %d files queued", prefix, event.Files)
	case ProgressWorking:
		return fmt.Sprintf("%s: tagging %d files", prefix, event.Files)
	case ProgressComplete:
		return prefix + ": done"
	case ProgressFailed:
		return fmt.Sprintf("%s: failed: %s", prefix, event.Message)
	default:
		return fmt.Sprintf("%s: %s", prefix, event.Status)
	}
}
