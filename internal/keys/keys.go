// Package keys defines the closed set of physical key identifiers gridwarp
// can bind, and the canonical name table configuration is resolved against.
package keys

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKey is returned by Parse for names not in the canonical table.
var ErrUnknownKey = errors.New("unknown key name")

// Key identifies a physical key.
type Key uint16

const (
	// None is never pressed or held.
	None Key = iota

	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Escape
	Enter
	Tab
	Space
	Backspace
	Delete
	Insert
	Home
	End
	PageUp
	PageDown

	Up
	Down
	Left
	Right

	LShift
	RShift
	LControl
	RControl
	LAlt
	RAlt
	LMeta
	RMeta
	CapsLock

	Minus
	Equal
	LeftBracket
	RightBracket
	Semicolon
	Apostrophe
	Grave
	Comma
	Period
	Slash
	Backslash

	KP0
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9
	KPAdd
	KPSubtract
	KPMultiply
	KPDivide
	KPDecimal
	KPEnter

	keyCount
)

var names = [keyCount]string{
	None: "none",

	A: "a", B: "b", C: "c", D: "d", E: "e", F: "f", G: "g", H: "h", I: "i",
	J: "j", K: "k", L: "l", M: "m", N: "n", O: "o", P: "p", Q: "q", R: "r",
	S: "s", T: "t", U: "u", V: "v", W: "w", X: "x", Y: "y", Z: "z",

	Num0: "0", Num1: "1", Num2: "2", Num3: "3", Num4: "4",
	Num5: "5", Num6: "6", Num7: "7", Num8: "8", Num9: "9",

	F1: "f1", F2: "f2", F3: "f3", F4: "f4", F5: "f5", F6: "f6",
	F7: "f7", F8: "f8", F9: "f9", F10: "f10", F11: "f11", F12: "f12",

	Escape: "escape", Enter: "enter", Tab: "tab", Space: "space",
	Backspace: "backspace", Delete: "delete", Insert: "insert",
	Home: "home", End: "end", PageUp: "pageup", PageDown: "pagedown",

	Up: "up", Down: "down", Left: "left", Right: "right",

	LShift: "lshift", RShift: "rshift", LControl: "lcontrol", RControl: "rcontrol",
	LAlt: "lalt", RAlt: "ralt", LMeta: "lmeta", RMeta: "rmeta", CapsLock: "capslock",

	Minus: "minus", Equal: "equal", LeftBracket: "leftbracket", RightBracket: "rightbracket",
	Semicolon: "semicolon", Apostrophe: "apostrophe", Grave: "grave",
	Comma: "comma", Period: "period", Slash: "slash", Backslash: "backslash",

	KP0: "kp0", KP1: "kp1", KP2: "kp2", KP3: "kp3", KP4: "kp4",
	KP5: "kp5", KP6: "kp6", KP7: "kp7", KP8: "kp8", KP9: "kp9",
	KPAdd: "kpadd", KPSubtract: "kpsubtract", KPMultiply: "kpmultiply",
	KPDivide: "kpdivide", KPDecimal: "kpdecimal", KPEnter: "kpenter",
}

// aliases are accepted by Parse in addition to the canonical names.
var aliases = map[string]Key{
	"esc":         Escape,
	"return":      Enter,
	" ":           Space,
	"bs":          Backspace,
	"del":         Delete,
	"ins":         Insert,
	"pgup":        PageUp,
	"pgdown":      PageDown,
	"pgdn":        PageDown,
	"shift":       LShift,
	"ctrl":        LControl,
	"lctrl":       LControl,
	"rctrl":       RControl,
	"control":     LControl,
	"alt":         LAlt,
	"meta":        LMeta,
	"super":       LMeta,
	"-":           Minus,
	"=":           Equal,
	"[":           LeftBracket,
	"]":           RightBracket,
	"lbracket":    LeftBracket,
	"rbracket":    RightBracket,
	";":           Semicolon,
	"'":           Apostrophe,
	"`":           Grave,
	",":           Comma,
	".":           Period,
	"dot":         Period,
	"/":           Slash,
	"\\":          Backslash,
	"numpad0":     KP0,
	"numpad1":     KP1,
	"numpad2":     KP2,
	"numpad3":     KP3,
	"numpad4":     KP4,
	"numpad5":     KP5,
	"numpad6":     KP6,
	"numpad7":     KP7,
	"numpad8":     KP8,
	"numpad9":     KP9,
	"numpadadd":   KPAdd,
	"numpadsub":   KPSubtract,
	"numpadmul":   KPMultiply,
	"numpaddiv":   KPDivide,
	"numpaddot":   KPDecimal,
	"numpadenter": KPEnter,
}

// byName is built once from names and aliases.
var byName map[string]Key

func init() {
	byName = make(map[string]Key, int(keyCount)+len(aliases)+10)
	for k := Key(1); k < keyCount; k++ {
		byName[names[k]] = k
	}
	// device_query style digit names: Key0 .. Key9
	for i := 0; i <= 9; i++ {
		byName[fmt.Sprintf("key%d", i)] = Num0 + Key(i)
	}
	for alias, k := range aliases {
		byName[alias] = k
	}
}

// String returns the canonical name of k.
func (k Key) String() string {
	if k < keyCount {
		return names[k]
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// Valid reports whether k is a bindable key.
func (k Key) Valid() bool { return k > None && k < keyCount }

// Parse resolves a configured key name. Matching is case-insensitive and
// ignores surrounding whitespace (a lone space is the Space key).
func Parse(name string) (Key, error) {
	norm := strings.ToLower(name)
	if norm != " " {
		norm = strings.TrimSpace(norm)
	}
	if k, ok := byName[norm]; ok {
		return k, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// All returns every bindable key in declaration order.
func All() []Key {
	out := make([]Key, 0, keyCount-1)
	for k := Key(1); k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

// Names returns every accepted name, canonical and alias, sorted.
func Names() []string {
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
