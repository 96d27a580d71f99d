// Package platform groups the collaborators a navigation session needs from
// the host: display enumeration, a polled keyboard, a pointer driver and the
// overlay viewport. Backends live in subpackages (x11, sim).
package platform

import (
	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/input"
)

// Backend is one host platform.
type Backend interface {
	v1.DisplayRegistry

	// Name identifies the backend in logs and session records.
	Name() string
	Keyboard() input.Source
	Pointer() v1.PointerDriver
	Viewport() v1.ViewportController

	// Close releases every platform resource. Safe to call more than once.
	Close() error
}

// WithPrimaryOffset returns a copy of displays in which the primary display
// reserves offset at its top-left (panels and docks the registry does not
// report). Non-primary displays always have a zero offset.
func WithPrimaryOffset(displays []v1.Display, offset v1.Vector) []v1.Display {
	out := make([]v1.Display, len(displays))
	for i, d := range displays {
		if d.Primary {
			d.UsableOffset = offset
		} else {
			d.UsableOffset = v1.Vector{}
		}
		out[i] = d
	}
	return out
}
