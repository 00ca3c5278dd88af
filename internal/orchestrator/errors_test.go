package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorAggregator_FirstWins(t *testing.T) {
	var agg ErrorAggregator
	first := errors.New("first")

	assert.False(t, agg.Record(nil))
	assert.True(t, agg.Record(first))
	assert.False(t, agg.Record(errors.New("second")))

	assert.Same(t, first, agg.Err())
	assert.Equal(t, 2, agg.Count())
}

func TestErrorAggregator_Concurrent(t *testing.T) {
	var agg ErrorAggregator
	var wg sync.WaitGroup
	winners := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fmt.Errorf("worker %d", i)
			if agg.Record(err) {
				winners <- err
			}
		}()
	}
	wg.Wait()
	close(winners)

	var won []error
	for err := range winners {
		won = append(won, err)
	}
	assert.Len(t, won, 1)
	assert.Equal(t, won[0], agg.Err())
	assert.Equal(t, 50, agg.Count())
}

func TestErrorAggregator_Empty(t *testing.T) {
	var agg ErrorAggregator
	assert.NoError(t, agg.Err())
	assert.Zero(t, agg.Count())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "spawn",
			err:    &SpawnError{Path: "ctags", Err: fs.ErrNotExist},
			expect: `tag tool command "ctags" failed: file does not exist`,
		},
		{
			name:   "tool",
			err:    &ToolError{Cmd: "ctags -L - -f -", Stderr: "bad option\n"},
			expect: "tag tool failed: ctags -L - -f -\nbad option",
		},
		{
			name:   "decode",
			err:    &DecodeError{Shard: 2, Offset: 17},
			expect: "invalid utf-8 in output of shard 2 at byte 17",
		},
		{
			name:   "sink",
			err:    &SinkError{Path: "tags", Err: fs.ErrPermission},
			expect: `write tags "tags": permission denied`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	assert.ErrorIs(t, &SpawnError{Err: fs.ErrNotExist}, fs.ErrNotExist)
	assert.ErrorIs(t, &SinkError{Err: fs.ErrPermission}, fs.ErrPermission)
	assert.ErrorIs(t, &HeaderError{Err: fs.ErrNotExist}, fs.ErrNotExist)
}
