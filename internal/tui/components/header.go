// Package components: TUI sub-components for the gridwarp simulator.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─────────────────────────────────────────────────────────────────────────────
// Header component
// ─────────────────────────────────────────────────────────────────────────────

// Header renders the top status bar.
type Header struct {
	backend  string
	session  string
	mode     string
	display  int
	displays int
}

// NewHeader creates a Header for a session on the named backend.
func NewHeader(backend, session string) Header {
	return Header{backend: backend, session: session}
}

// SetState updates the navigation summary.
func (h *Header) SetState(mode string, display, displays int) {
	h.mode, h.display, h.displays = mode, display, displays
}

// View renders the header bar. Accepts total terminal width.
func (h *Header) View(width int) string {
	short := h.session
	if len(short) > 8 {
		short = short[:8]
	}
	left := fmt.Sprintf(" ▦ GRIDWARP  %s · %s ", h.backend, short)
	right := fmt.Sprintf(" %s · display %d/%d ", strings.ToUpper(h.mode), h.display+1, h.displays)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color("#7B8CDE")).
		Foreground(lipgloss.Color("#0D0F18")).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// ─────────────────────────────────────────────────────────────────────────────
// Sidebar component
// ─────────────────────────────────────────────────────────────────────────────

// Sidebar lists the displays with the active one marked.
type Sidebar struct {
	active int
	items  []string
}

// NewSidebar creates an empty Sidebar.
func NewSidebar() Sidebar { return Sidebar{} }

// SetDisplays updates the display list.
func (s *Sidebar) SetDisplays(items []string, active int) {
	s.items = items
	s.active = active
}

// View renders the sidebar.
func (s *Sidebar) View(width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7B8CDE")).Bold(true).
		Render("DISPLAYS")

	content := title + "\n"

	if len(s.items) == 0 {
		content += lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A5568")).
			Render("  (none)")
	}

	for i, item := range s.items {
		icon := "○ "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#E2E8F0")).PaddingLeft(1)
		if i == s.active {
			icon = "▶ "
			style = style.Foreground(lipgloss.Color("#56E0C8")).Bold(true)
		}
		content += style.Render(icon+item) + "\n"
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#171A2B")).
		Width(width).Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(lipgloss.Color("#4A5568")).
		Padding(1, 1).
		Render(content)
}

// ─────────────────────────────────────────────────────────────────────────────
// Footer component
// ─────────────────────────────────────────────────────────────────────────────

// Footer renders the counters and the simulator hints.
type Footer struct {
	err      error
	frames   int64
	total    int
	failures int
	last     string
}

// NewFooter creates a Footer.
func NewFooter() Footer { return Footer{} }

// SetError sets an error message to display; nil clears it.
func (f *Footer) SetError(err error) { f.err = err }

// SetCounters updates the dispatch counters.
func (f *Footer) SetCounters(frames int64, total, failures int) {
	f.frames, f.total, f.failures = frames, total, failures
}

// SetLast records the most recent pointer action.
func (f *Footer) SetLast(desc string) { f.last = desc }

// View renders the footer.
func (f *Footer) View(width int) string {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B8CDE")).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5568"))

	hints := []struct{ key, desc string }{
		{"ctrl+g", "help"}, {"ctrl+l", "logs"}, {"ctrl+c", "force quit"},
	}
	content := ""
	for _, h := range hints {
		content += key.Render(h.key) + muted.Render(" "+h.desc+"  ")
	}
	content += muted.Render(fmt.Sprintf("│ frames %d · actions %d · failed %d", f.frames, f.total, f.failures))
	if f.last != "" {
		content += muted.Render(" · last: " + f.last)
	}

	if f.err != nil {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("#F56565")).
			Render("Error: " + f.err.Error())
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#171A2B")).
		Width(width).Padding(0, 1).
		Render(content)
}
