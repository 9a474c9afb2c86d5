package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{Level: LevelInfo, Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden %s", "message")
	logger.Info("visible info")
	logger.Error("visible error")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "[INFO] visible info")
	assert.Contains(t, output, "[ERROR] visible error")
}

func TestLogger_DebugLevelShowsEverything(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{Level: LevelDebug, Output: &buf})
	require.NoError(t, err)

	logger.Debug("debug detail %d", 42)

	assert.Contains(t, buf.String(), "[DEBUG] debug detail 42")
}

func TestNewFileLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewFileLogger(LevelInfo, logFile)
	require.NoError(t, err)

	logger.Info("written to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewInternalLogger(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewInternalLogger(LevelDebug, dir)
	require.NoError(t, err)

	logger.Info("internal log entry")

	data, err := os.ReadFile(filepath.Join(dir, "proxmox-mcp.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "internal log entry")
}

func TestNewLogger_NilConfigDefaults(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
