// Package tui: simulator control keys and the binding reference.
package tui

import (
	"fmt"
	"strings"

	"github.com/f9-o/gridwarp/internal/keymap"
)

// Keymap is the simulator's own controls. Everything else is forwarded to
// the navigation machine.
type Keymap struct {
	ForceQuit  string
	ToggleLogs string
	Help       string
}

// defaultKeymap returns the simulator controls. They are all ctrl chords so
// they do not shadow navigation bindings.
func defaultKeymap() Keymap {
	return Keymap{
		ForceQuit:  "ctrl+c",
		ToggleLogs: "ctrl+l",
		Help:       "ctrl+g",
	}
}

// HelpText returns the binding reference shown in the help modal, two
// columns of action and key.
func HelpText(t *keymap.Table) string {
	bs := t.Bindings()
	half := (len(bs) + 1) / 2

	var b strings.Builder
	b.WriteString("\n")
	for i := 0; i < half; i++ {
		left := fmt.Sprintf("%-26s %-10s", bs[i].Action, bs[i].Key)
		right := ""
		if j := i + half; j < len(bs) {
			right = fmt.Sprintf("%-26s %s", bs[j].Action, bs[j].Key)
		}
		fmt.Fprintf(&b, "  %s   %s\n", left, right)
	}

	km := defaultKeymap()
	b.WriteString("\n  SIMULATOR\n  ──────────────────────────────────────\n")
	fmt.Fprintf(&b, "  %-26s %s\n", "force quit", km.ForceQuit)
	fmt.Fprintf(&b, "  %-26s %s\n", "toggle log pane", km.ToggleLogs)
	fmt.Fprintf(&b, "  %-26s %s\n", "toggle this help", km.Help)
	return b.String()
}
