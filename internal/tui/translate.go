package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f9-o/gridwarp/internal/keys"
)

// shifted maps US-layout shifted symbols to the key that produces them.
var shifted = map[rune]keys.Key{
	'!': keys.Num1, '@': keys.Num2, '#': keys.Num3, '$': keys.Num4, '%': keys.Num5,
	'^': keys.Num6, '&': keys.Num7, '*': keys.Num8, '(': keys.Num9, ')': keys.Num0,
	'_': keys.Minus, '+': keys.Equal, '{': keys.LeftBracket, '}': keys.RightBracket,
	':': keys.Semicolon, '"': keys.Apostrophe, '~': keys.Grave, '<': keys.Comma,
	'>': keys.Period, '?': keys.Slash, '|': keys.Backslash,
}

// modifiers are the prefixes bubbletea puts on special key names. Alt is
// reported separately on the message.
var modifiers = []struct {
	prefix string
	key    keys.Key
}{
	{"ctrl+", keys.LControl},
	{"shift+", keys.LShift},
}

// translate maps a terminal key event onto the physical keys it implies,
// modifiers first. Unknown events yield nil.
func translate(msg tea.KeyMsg) []keys.Key {
	var out []keys.Key

	if msg.Alt {
		out = append(out, keys.LAlt)
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if k, ok := shifted[r]; ok {
			return append(out, keys.LShift, k)
		}
		if unicode.IsUpper(r) {
			out = append(out, keys.LShift)
			r = unicode.ToLower(r)
		}
		k, err := keys.Parse(string(r))
		if err != nil {
			return nil
		}
		return append(out, k)
	}
	if msg.Type == tea.KeySpace {
		return append(out, keys.Space)
	}

	name := strings.TrimPrefix(msg.String(), "alt+")
	for _, m := range modifiers {
		if rest, ok := strings.CutPrefix(name, m.prefix); ok {
			out = append(out, m.key)
			name = rest
		}
	}
	k, err := keys.Parse(name)
	if err != nil {
		return nil
	}
	return append(out, k)
}

// glyphs are the one-character labels drawn on the grid for punctuation.
var glyphs = map[keys.Key]string{
	keys.Semicolon: ";", keys.Comma: ",", keys.Period: ".", keys.Slash: "/",
	keys.Minus: "-", keys.Equal: "=", keys.Apostrophe: "'", keys.Grave: "`",
	keys.LeftBracket: "[", keys.RightBracket: "]", keys.Backslash: `\`,
}

// label is the grid label of a bound key.
func label(k keys.Key) string {
	if g, ok := glyphs[k]; ok {
		return g
	}
	return k.String()
}
