package input

import "github.com/f9-o/gridwarp/internal/keys"

// Tracker derives edge state from successive level snapshots. Backends that
// can only report "is this key down right now" embed a Tracker to implement
// Source.
type Tracker struct {
	cur  [256]bool
	prev [256]bool
}

// Update records a new frame; down is queried for every known key.
func (t *Tracker) Update(down func(keys.Key) bool) {
	t.prev = t.cur
	for _, k := range keys.All() {
		if int(k) < len(t.cur) {
			t.cur[k] = down(k)
		}
	}
}

// IsPressed reports an up→down transition in the last Update.
func (t *Tracker) IsPressed(k keys.Key) bool {
	if int(k) >= len(t.cur) {
		return false
	}
	return t.cur[k] && !t.prev[k]
}

// IsHeld reports that k was down in the last Update.
func (t *Tracker) IsHeld(k keys.Key) bool {
	if int(k) >= len(t.cur) {
		return false
	}
	return t.cur[k]
}

// Down returns every key held in the last Update.
func (t *Tracker) Down() []keys.Key {
	var out []keys.Key
	for _, k := range keys.All() {
		if t.IsHeld(k) {
			out = append(out, k)
		}
	}
	return out
}
