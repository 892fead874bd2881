package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTee_Levels(t *testing.T) {
	var console, file bytes.Buffer

	logger := newTee(&console, &file, false)
	logger.Debug("debug line", zap.String("network_id", "net-1"))
	logger.Info("info line")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, console.String(), "debug line")
	assert.Contains(t, console.String(), "info line")
	assert.Contains(t, file.String(), `"msg":"debug line"`)
	assert.Contains(t, file.String(), `"network_id":"net-1"`)
}

func TestNewTee_Verbose(t *testing.T) {
	var console, file bytes.Buffer

	logger := newTee(&console, &file, true)
	logger.Debug("debug line")
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "debug line")
}

func TestInitLogger_CreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := InitLogger(Options{Env: "test", Dir: dir, Console: &console})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))
	assert.Contains(t, console.String(), "hello")
}
