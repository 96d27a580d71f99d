// Package input turns raw per-frame key state into the two signals the
// navigation state machine consumes: edge-triggered presses and debounced
// held keys.
package input

import (
	"slices"

	"github.com/f9-o/gridwarp/internal/keys"
)

// Source is a polled keyboard. Poll captures a new frame; IsPressed and
// IsHeld answer for the most recent frame only.
type Source interface {
	Poll() error
	// IsPressed reports a transition from up to down between the previous
	// and the current frame.
	IsPressed(k keys.Key) bool
	// IsHeld reports that k is down in the current frame.
	IsHeld(k keys.Key) bool
}

// Classifier answers pressed/held queries and implements the armed-level
// debounce for continuous actions.
type Classifier struct {
	src Source
}

// NewClassifier wraps src.
func NewClassifier(src Source) *Classifier {
	return &Classifier{src: src}
}

// Poll advances the underlying source by one frame.
func (c *Classifier) Poll() error {
	return c.src.Poll()
}

// Pressed reports an edge on k. keys.None is never pressed.
func (c *Classifier) Pressed(k keys.Key) bool {
	if k == keys.None {
		return false
	}
	return c.src.IsPressed(k)
}

// Held reports that k is down. keys.None is never held.
func (c *Classifier) Held(k keys.Key) bool {
	if k == keys.None {
		return false
	}
	return c.src.IsHeld(k)
}

// HeldArmed reports k as held only once it has been observed released at
// least once since armed was last cleared. A key that was already down when
// the state was entered does not fire until it is let go and pressed again.
func (c *Classifier) HeldArmed(k keys.Key, armed *ArmedSet) bool {
	if !c.Held(k) {
		if k != keys.None {
			armed.Arm(k)
		}
		return false
	}
	return armed.Armed(k)
}

// ─────────────────────────────────────────────────────────────────────────────
// ArmedSet
// ─────────────────────────────────────────────────────────────────────────────

// ArmedSet is the set of keys observed released since the last Clear. The
// zero value is empty and ready to use.
type ArmedSet struct {
	set map[keys.Key]struct{}
}

// Arm marks k as released.
func (a *ArmedSet) Arm(k keys.Key) {
	if a.set == nil {
		a.set = make(map[keys.Key]struct{})
	}
	a.set[k] = struct{}{}
}

// Armed reports whether k was released since the last Clear.
func (a *ArmedSet) Armed(k keys.Key) bool {
	_, ok := a.set[k]
	return ok
}

// Clear empties the set.
func (a *ArmedSet) Clear() {
	clear(a.set)
}

// Len returns the number of armed keys.
func (a *ArmedSet) Len() int { return len(a.set) }

// Keys returns the armed keys in ascending order.
func (a *ArmedSet) Keys() []keys.Key {
	out := make([]keys.Key, 0, len(a.set))
	for k := range a.set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (a *ArmedSet) Clone() ArmedSet {
	var c ArmedSet
	for k := range a.set {
		c.Arm(k)
	}
	return c
}
