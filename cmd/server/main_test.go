package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestEnsureDBDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, ensureDBDir(":memory:"))
	require.NoError(t, ensureDBDir("file:x?mode=memory&cache=shared"))

	path := filepath.Join(dir, "nested", "studio.db")
	require.NoError(t, ensureDBDir("file:"+path+"?_pragma=journal_mode(WAL)"))
	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studio.log")
	writer, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	line := strings.Repeat("x", 1023) + "\n"
	for written := 0; written <= maxLogSizeBytes; written += len(line) {
		_, err := writer.Write([]byte(line))
		require.NoError(t, err)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))
}
