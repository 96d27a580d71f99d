package x11

import "github.com/f9-o/gridwarp/internal/keys"

// keysymNames maps every bindable key to the X keysym name xgbutil's keybind
// package resolves to keycodes.
var keysymNames = map[keys.Key]string{
	keys.A: "a", keys.B: "b", keys.C: "c", keys.D: "d", keys.E: "e", keys.F: "f",
	keys.G: "g", keys.H: "h", keys.I: "i", keys.J: "j", keys.K: "k", keys.L: "l",
	keys.M: "m", keys.N: "n", keys.O: "o", keys.P: "p", keys.Q: "q", keys.R: "r",
	keys.S: "s", keys.T: "t", keys.U: "u", keys.V: "v", keys.W: "w", keys.X: "x",
	keys.Y: "y", keys.Z: "z",

	keys.Num0: "0", keys.Num1: "1", keys.Num2: "2", keys.Num3: "3", keys.Num4: "4",
	keys.Num5: "5", keys.Num6: "6", keys.Num7: "7", keys.Num8: "8", keys.Num9: "9",

	keys.F1: "F1", keys.F2: "F2", keys.F3: "F3", keys.F4: "F4", keys.F5: "F5", keys.F6: "F6",
	keys.F7: "F7", keys.F8: "F8", keys.F9: "F9", keys.F10: "F10", keys.F11: "F11", keys.F12: "F12",

	keys.Escape:    "Escape",
	keys.Enter:     "Return",
	keys.Tab:       "Tab",
	keys.Space:     "space",
	keys.Backspace: "BackSpace",
	keys.Delete:    "Delete",
	keys.Insert:    "Insert",
	keys.Home:      "Home",
	keys.End:       "End",
	keys.PageUp:    "Prior",
	keys.PageDown:  "Next",

	keys.Up:    "Up",
	keys.Down:  "Down",
	keys.Left:  "Left",
	keys.Right: "Right",

	keys.LShift:   "Shift_L",
	keys.RShift:   "Shift_R",
	keys.LControl: "Control_L",
	keys.RControl: "Control_R",
	keys.LAlt:     "Alt_L",
	keys.RAlt:     "Alt_R",
	keys.LMeta:    "Super_L",
	keys.RMeta:    "Super_R",
	keys.CapsLock: "Caps_Lock",

	keys.Minus:        "minus",
	keys.Equal:        "equal",
	keys.LeftBracket:  "bracketleft",
	keys.RightBracket: "bracketright",
	keys.Semicolon:    "semicolon",
	keys.Apostrophe:   "apostrophe",
	keys.Grave:        "grave",
	keys.Comma:        "comma",
	keys.Period:       "period",
	keys.Slash:        "slash",
	keys.Backslash:    "backslash",

	keys.KP0: "KP_0", keys.KP1: "KP_1", keys.KP2: "KP_2", keys.KP3: "KP_3", keys.KP4: "KP_4",
	keys.KP5: "KP_5", keys.KP6: "KP_6", keys.KP7: "KP_7", keys.KP8: "KP_8", keys.KP9: "KP_9",
	keys.KPAdd:      "KP_Add",
	keys.KPSubtract: "KP_Subtract",
	keys.KPMultiply: "KP_Multiply",
	keys.KPDivide:   "KP_Divide",
	keys.KPDecimal:  "KP_Decimal",
	keys.KPEnter:    "KP_Enter",
}

// X core pointer buttons, including the wheel.
const (
	buttonLeft       byte = 1
	buttonMiddle     byte = 2
	buttonRight      byte = 3
	buttonWheelUp    byte = 4
	buttonWheelDown  byte = 5
	buttonWheelLeft  byte = 6
	buttonWheelRight byte = 7
)

// keycodeDown reports whether keycode is set in a QueryKeymap bit vector.
func keycodeDown(keymap []byte, keycode byte) bool {
	i := int(keycode) / 8
	if i >= len(keymap) {
		return false
	}
	return keymap[i]&(1<<(keycode%8)) != 0
}
