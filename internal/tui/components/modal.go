package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─────────────────────────────────────────────────────────────────────────────
// Modal
// ─────────────────────────────────────────────────────────────────────────────

// Modal is a pop-over dialog that swallows keys until dismissed.
type Modal struct {
	title string
	body  string
	style lipgloss.Style
}

// NewModal creates a modal with a free-form body.
func NewModal(title, body string, style lipgloss.Style) *Modal {
	return &Modal{title: title, body: body, style: style}
}

// NewHelpModal creates the key reference modal.
func NewHelpModal(body string, style lipgloss.Style) *Modal {
	return NewModal("Key bindings", body, style)
}

// Title returns the modal heading.
func (m *Modal) Title() string { return m.title }

// HandleKey processes a key for the modal. Returns (cmd, done).
func (m *Modal) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "enter", "ctrl+g":
		return nil, true
	case "ctrl+c":
		return tea.Quit, true
	}
	return nil, false
}

// Overlay renders the modal centred in a width×height area. The background
// is replaced, not composited.
func (m *Modal) Overlay(_ string, width, height int) string {
	content := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ECC94B")).Bold(true).
		Render(m.title) + "\n"
	content += m.body
	content += "\n\n  [Esc] Close"

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.style.Render(content))
}
