// Package tui: Lipgloss styles for the simulator, seeded from the style
// section of the config.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/tui/components"
)

// Styles holds the simulator styles.
type Styles struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color

	Grid        components.GridStyles
	PanelTitle  lipgloss.Style
	LogViewport lipgloss.Style
	Modal       lipgloss.Style
	Armed       lipgloss.Style
}

// color falls back to def when the configured value is empty.
func color(v, def string) lipgloss.Color {
	if v == "" {
		return lipgloss.Color(def)
	}
	return lipgloss.Color(v)
}

// newStyles builds the simulator theme. Grid classes take their colours
// from sc; the chrome keeps a fixed dark palette.
func newStyles(sc config.StyleConfig) Styles {
	bg := lipgloss.Color("#0D0F18")
	surface := lipgloss.Color("#171A2B")
	primary := lipgloss.Color("#7B8CDE")
	muted := lipgloss.Color("#4A5568")
	text := lipgloss.Color("#E2E8F0")

	gridColor := color(sc.GridColor, "#4A5568")
	regionColor := color(sc.RegionColor, "#7B8CDE")
	cellColor := color(sc.CellColor, "#56E0C8")
	pointerColor := color(sc.PointerColor, "#F56565")
	labelColor := color(sc.LabelColor, "#E2E8F0")

	return Styles{
		Background: bg, Surface: surface, Primary: primary,
		Muted: muted, Text: text,

		Grid: components.GridStyles{
			Line:         lipgloss.NewStyle().Foreground(gridColor),
			RegionLabel:  lipgloss.NewStyle().Foreground(labelColor).Bold(true),
			ActiveRegion: lipgloss.NewStyle().Foreground(bg).Background(regionColor).Bold(true),
			CellLabel:    lipgloss.NewStyle().Foreground(cellColor),
			ActiveCell:   lipgloss.NewStyle().Foreground(bg).Background(cellColor).Bold(true),
			Pointer:      lipgloss.NewStyle().Foreground(pointerColor).Bold(true),
		},

		PanelTitle: lipgloss.NewStyle().
			Foreground(primary).Bold(true).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).
			BorderForeground(muted).Padding(0, 1),

		LogViewport: lipgloss.NewStyle().
			Background(bg).Foreground(text).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Background(surface).Foreground(text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		Armed: lipgloss.NewStyle().Foreground(cellColor),
	}
}
