package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOptions_Level(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, Options{}.Level())
	assert.Equal(t, zapcore.InfoLevel, Options{Verbose: true}.Level())
	assert.Equal(t, zapcore.DebugLevel, Options{Verbose: true, Debug: true}.Level())
}

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	logger.Info("Call", zap.String("cmd", "ctags -L - -f -"))
	logger.Warn("tags header unavailable")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "Call")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "tags header unavailable")
}

func TestNew_VerboseShowsCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, Writer: &buf})

	logger.Info("Call", zap.String("cmd", "ctags -L - -f -"))
	logger.Debug("shard finished")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "Call")
	assert.Contains(t, out, `"cmd": "ctags -L - -f -"`)
	assert.NotContains(t, out, "shard finished")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, JSON: true, Writer: &buf})

	logger.Info("Call", zap.String("cmd", "git ls-files"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Call", entry["msg"])
	assert.Equal(t, "git ls-files", entry["cmd"])
	assert.NotContains(t, entry, "ts")
}
