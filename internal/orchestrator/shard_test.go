package orchestrator

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardFiles_Example(t *testing.T) {
	shards := ShardFiles([]string{"a.rs", "b.rs", "c.rs"}, 2)
	require.Len(t, shards, 2)

	assert.Equal(t, 0, shards[0].Index)
	assert.Equal(t, []string{"a.rs", "c.rs"}, shards[0].Files)
	assert.Equal(t, 1, shards[1].Index)
	assert.Equal(t, []string{"b.rs"}, shards[1].Files)
}

func TestShardFiles_RoundRobinProperty(t *testing.T) {
	files := make([]string, 37)
	for i := range files {
		files[i] = fmt.Sprintf("src/file%02d.go", i)
	}

	for _, n := range []int{1, 2, 3, 8, 36, 37, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			shards := ShardFiles(files, n)
			require.Len(t, shards, n)

			var union []string
			for i, s := range shards {
				assert.Equal(t, i, s.Index)
				for k, f := range s.Files {
					// The k-th entry of shard i is the file at index i + k*n.
					assert.Equal(t, files[i+k*n], f)
				}
				union = append(union, s.Files...)
			}

			sort.Strings(union)
			assert.Equal(t, files, union, "union of shards must equal the input")
		})
	}
}

func TestShardFiles_EmptyList(t *testing.T) {
	shards := ShardFiles(nil, 4)
	require.Len(t, shards, 4)
	for _, s := range shards {
		assert.Empty(t, s.Files)
		assert.Equal(t, "", s.Blob())
	}
}

func TestShardFiles_NonPositiveCount(t *testing.T) {
	shards := ShardFiles([]string{"a", "b"}, 0)
	require.Len(t, shards, 1)
	assert.Equal(t, []string{"a", "b"}, shards[0].Files)
}

func TestShardFiles_Duplicates(t *testing.T) {
	shards := ShardFiles([]string{"x", "x", "x"}, 2)
	assert.Equal(t, []string{"x", "x"}, shards[0].Files)
	assert.Equal(t, []string{"x"}, shards[1].Files)
}

func TestShard_Blob(t *testing.T) {
	s := Shard{Files: []string{"a.go", "dir/b.go"}}
	assert.Equal(t, "a.go\ndir/b.go\n", s.Blob())
}
