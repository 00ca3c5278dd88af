package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderProvider_ReadsToolHeader(t *testing.T) {
	tool := writeTool(t, fakeCtags)

	header, err := NewHeaderProvider(Config{ToolPath: tool}, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeHeader, header)
}

func TestHeaderProvider_IgnoresExitStatus(t *testing.T) {
	tool := writeTool(t, `
while [ $# -gt 0 ]; do
  if [ "$1" = "-f" ]; then out="$2"; fi
  shift
done
printf '!_TAG_PROGRAM_NAME\tfake\t//\n' > "$out"
exit 1
`)

	header, err := NewHeaderProvider(Config{ToolPath: tool}, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "!_TAG_PROGRAM_NAME\tfake\t//\n", header)
}

func TestHeaderProvider_PassesPrefixAndArgs(t *testing.T) {
	tool := writeTool(t, `
while [ $# -gt 0 ]; do
  case "$1" in
    -f) out="$2"; shift ;;
    *) all="$all $1" ;;
  esac
  shift
done
printf '%s\n' "$all" > "$out"
`)
	cfg := Config{ToolPath: tool, ToolPrefix: []string{"tagger"}, ToolArgs: []string{"--fields=+n"}, Unsorted: true}

	header, err := NewHeaderProvider(cfg, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, header, "tagger -L ")
	assert.Contains(t, header, "--fields=+n")
	assert.NotContains(t, header, "--sort=no")
}

func TestHeaderProvider_NoOutputFile(t *testing.T) {
	tool := writeTool(t, "exit 0\n")

	_, err := NewHeaderProvider(Config{ToolPath: tool}, nil).Fetch(context.Background())
	var headerErr *HeaderError
	require.True(t, errors.As(err, &headerErr), "expected HeaderError, got %v", err)
	assert.Contains(t, headerErr.Cmd, tool)
}

func TestHeaderProvider_MissingBinary(t *testing.T) {
	_, err := NewHeaderProvider(Config{ToolPath: "/nonexistent/ptags-test-ctags"}, nil).Fetch(context.Background())
	var headerErr *HeaderError
	assert.True(t, errors.As(err, &headerErr), "expected HeaderError, got %v", err)
}
