// Package logger provides the structured logging engine for gridwarp.
// Uses log/slog with support for multiple sinks: stderr, file, and the
// terminal simulator's log pane.
package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger wraps slog.Logger with gridwarp-specific utilities.
type Logger struct {
	*slog.Logger
	closers []io.Closer
	auditW  io.Writer // append-only session journal (nil = disabled)
}

// Options configure Init.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // json | text
	File   string // optional log file, appended to
	Home   string // gridwarp home; enables the session journal when set
	Debug  bool   // forces debug level and source locations

	// Sink receives every formatted line, e.g. for a TUI log pane.
	Sink chan<- string
	// Quiet drops the stderr writer; used while a full-screen TUI owns the terminal.
	Quiet bool
}

// ParseLevel maps a config level name onto slog; unknown names are info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init builds a logger and installs it as the slog default.
func Init(opts Options) (*Logger, error) {
	lvl := ParseLevel(opts.Level)
	if opts.Debug {
		lvl = slog.LevelDebug
	}

	l := &Logger{}

	var writers []io.Writer
	if !opts.Quiet {
		writers = append(writers, os.Stderr)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
		l.closers = append(l.closers, f)
	}

	// TUI sink: forward log lines to channel
	if opts.Sink != nil {
		writers = append(writers, &sinkWriter{ch: opts.Sink})
	}

	out := io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	var handler slog.Handler
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.Debug}
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	l.Logger = slog.New(handler)
	slog.SetDefault(l.Logger)

	// Session journal
	if opts.Home != "" {
		if err := os.MkdirAll(opts.Home, 0750); err == nil {
			path := filepath.Join(opts.Home, "sessions.log")
			if af, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
				l.auditW = af
				l.closers = append(l.closers, af)
			}
		}
	}

	return l, nil
}

// Nop returns a logger that discards everything; used in tests.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Close releases file sinks.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}

// ─────────────────────────────────────────────────────────────────────────────
// Session journal
// ─────────────────────────────────────────────────────────────────────────────

// AuditEntry is a single session journal event.
type AuditEntry struct {
	Timestamp time.Time      `json:"ts"`
	Op        string         `json:"op"` // session.start | session.end
	Session   string         `json:"session"`
	Backend   string         `json:"backend,omitempty"`
	Display   int            `json:"display"`
	Result    string         `json:"result"` // quit | cancelled | error | started
	Counts    map[string]int `json:"counts,omitempty"`
}

// Audit logs entry and appends it to the session journal.
func (l *Logger) Audit(entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	l.Info("audit",
		"op", entry.Op,
		"session", entry.Session,
		"backend", entry.Backend,
		"display", entry.Display,
		"result", entry.Result,
	)
	if l.auditW == nil {
		return
	}
	entry.Timestamp = entry.Timestamp.UTC()
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.auditW.Write(append(line, '\n'))
}

// ─────────────────────────────────────────────────────────────────────────────
// Sink writer
// ─────────────────────────────────────────────────────────────────────────────

// sinkWriter implements io.Writer by forwarding lines to a channel.
type sinkWriter struct {
	mu sync.Mutex
	ch chan<- string
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case w.ch <- string(p):
	default: // drop when the sink is full
	}
	return len(p), nil
}
