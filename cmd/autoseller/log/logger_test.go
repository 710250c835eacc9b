package log

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		debug bool
		want  slog.Level
	}{
		{name: "explicit debug", level: "debug", want: slog.LevelDebug},
		{name: "case insensitive", level: "WARN", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "empty falls back to debug flag", level: "", debug: true, want: slog.LevelDebug},
		{name: "unknown falls back to info", level: "verbose", want: slog.LevelInfo},
		{name: "explicit level wins over debug flag", level: "info", debug: true, want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level, tt.debug))
		})
	}
}

func TestNewLoggerCreatesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger("info", false, dir)
	require.NoError(t, err)
	t.Cleanup(func() { FlushAndClose() })

	logger.Info("hello")
	FlushLog()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "Autoseller-log-")
}
