// Package pprint provides terminal output formatting for the gridwarp CLI:
// status lines, key/value listings, panels and tables.
package pprint

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ─────────────────────────────────────────────────────────────────────────────
// Colour palette
// ─────────────────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("#7B8CDE") // grid blue
	ColorAccent  = lipgloss.Color("#56E0C8") // pointer teal
	ColorSuccess = lipgloss.Color("#48BB78")
	ColorWarning = lipgloss.Color("#F6AD55")
	ColorError   = lipgloss.Color("#FC8181")
	ColorMuted   = lipgloss.Color("#4A5568")
	ColorText    = lipgloss.Color("#E2E8F0")
)

// ─────────────────────────────────────────────────────────────────────────────
// Styles
// ─────────────────────────────────────────────────────────────────────────────

var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Width(14)

	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)
)

// ─────────────────────────────────────────────────────────────────────────────
// Output streams
// ─────────────────────────────────────────────────────────────────────────────

var (
	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects normal and error output; nil restores the process
// streams. Commands point it at cobra's writers so tests can capture it.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

func emit(w func() io.Writer, s string) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintln(w(), s)
}

func outW() io.Writer { return stdout }
func errW() io.Writer { return stderr }

// ─────────────────────────────────────────────────────────────────────────────
// Simple output helpers
// ─────────────────────────────────────────────────────────────────────────────

// Success prints a green ✓ success line.
func Success(format string, args ...any) {
	emit(outW, StyleSuccess.Render("✓ ")+StyleText.Render(fmt.Sprintf(format, args...)))
}

// Warn prints an amber ⚠ warning line.
func Warn(format string, args ...any) {
	emit(outW, StyleWarning.Render("⚠ ")+StyleText.Render(fmt.Sprintf(format, args...)))
}

// Error prints a red ✗ error line to stderr.
func Error(format string, args ...any) {
	emit(errW, StyleError.Render("✗ ")+StyleText.Render(fmt.Sprintf(format, args...)))
}

// Info prints a dimmed info line.
func Info(format string, args ...any) {
	emit(outW, StyleMuted.Render("  "+fmt.Sprintf(format, args...)))
}

// Header prints a section header.
func Header(title string) {
	bar := strings.Repeat("─", 60)
	emit(outW, "\n"+StylePrimary.Render(bar)+"\n"+
		StylePrimary.Render(" ▦ "+strings.ToUpper(title))+"\n"+
		StylePrimary.Render(bar))
}

// KV prints a labelled key-value pair.
func KV(key, value string) {
	emit(outW, StyleLabel.Render(key)+StyleText.Render(value))
}

// Rule prints a horizontal rule w cells wide.
func Rule(w int) {
	emit(outW, StyleMuted.Render(strings.Repeat("─", w)))
}

// ─────────────────────────────────────────────────────────────────────────────
// Panel
// ─────────────────────────────────────────────────────────────────────────────

// Panel renders a rounded-border box with optional title.
func Panel(title, body string) {
	content := body
	if title != "" {
		content = StyleAccent.Render(" "+title+" ") + "\n" + body
	}
	emit(outW, StylePanel.Render(content))
}

// ─────────────────────────────────────────────────────────────────────────────
// Table
// ─────────────────────────────────────────────────────────────────────────────

// Table renders a simple terminal table with coloured headers.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new Table.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a data row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render prints the table.
func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	header := ""
	for i, h := range t.headers {
		header += pad(h, widths[i]+2)
	}
	b.WriteString(StylePrimary.Render(header) + "\n")

	sep := ""
	for _, w := range widths {
		sep += strings.Repeat("─", w+2)
	}
	b.WriteString(StyleMuted.Render(sep) + "\n")

	for _, row := range t.rows {
		line := ""
		for i, cell := range row {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			line += pad(cell, w+2)
		}
		b.WriteString(StyleText.Render(line) + "\n")
	}
	emit(outW, b.String())
}

// pad right-pads s to w display cells.
func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
