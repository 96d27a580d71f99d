package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSinkAndFile(t *testing.T) {
	dir := t.TempDir()
	sink := make(chan string, 8)

	l, err := Init(Options{
		Level:  "info",
		Format: "json",
		File:   filepath.Join(dir, "logs", "gridwarp.log"),
		Sink:   sink,
		Quiet:  true,
	})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("warp", "x", 375)
	require.NoError(t, l.Close())

	require.Len(t, sink, 1)
	line := <-sink
	assert.Contains(t, line, `"msg":"warp"`)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "gridwarp.log"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestSinkNeverBlocks(t *testing.T) {
	sink := make(chan string) // unbuffered, nobody reading
	l, err := Init(Options{Sink: sink, Quiet: true})
	require.NoError(t, err)
	l.Info("dropped")
}

func TestAuditJournal(t *testing.T) {
	home := t.TempDir()
	l, err := Init(Options{Home: home, Quiet: true})
	require.NoError(t, err)

	l.Audit(AuditEntry{Op: "session.end", Session: "abc", Backend: "sim", Display: 1, Result: "quit"})
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(home, "sessions.log"))
	require.NoError(t, err)

	var got AuditEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &got))
	assert.Equal(t, "abc", got.Session)
	assert.Equal(t, 1, got.Display)
	assert.False(t, got.Timestamp.IsZero())
}
