package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.log")

	log, err := NewLogger(Config{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Debug("listener bound", zap.String("addr", "127.0.0.1:1455"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON line, got %q", line)
	assert.Contains(t, line, `"msg":"listener bound"`)
	assert.Contains(t, line, `"addr":"127.0.0.1:1455"`)
}

func TestNewLoggerLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.log")

	log, err := NewLogger(Config{Level: "warn", Format: "console", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewLoggerInvalid(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestInitReplacesGlobal(t *testing.T) {
	before := L()
	t.Cleanup(func() { globalLogger = before })

	require.NoError(t, Init(Config{Level: "error", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}}))
	assert.NotSame(t, before, L())
}
