// Package v1: platform collaborator contracts.
// Every backend (X11, the terminal simulator) provides these three services;
// the navigation core only ever talks to them through these interfaces.
package v1

// DisplayRegistry enumerates the physical displays once at startup.
type DisplayRegistry interface {
	// Displays returns the displays in platform order. The order is
	// significant: it drives screen cycling and Locate tie-breaking.
	Displays() ([]Display, error)
}

// PointerDriver injects pointer input into the platform.
// Every call may fail; callers treat failures as non-fatal.
type PointerDriver interface {
	// MoveAbsolute warps the pointer to an absolute desktop pixel.
	MoveAbsolute(x, y int) error

	// MoveRelative displaces the pointer from its current position.
	MoveRelative(dx, dy int) error

	// Click presses and releases a button.
	Click(b Button) error

	// Press holds a button down until Release.
	Press(b Button) error

	// Release lets go of a button held by Press.
	Release(b Button) error

	// Scroll turns the wheel on axis by amount notches.
	// Negative is up/left, positive is down/right.
	Scroll(axis ScrollAxis, amount int) error

	// Location reports the current absolute pointer position.
	Location() (Point, error)
}

// ViewportController moves the overlay window that hosts the grid.
type ViewportController interface {
	Reposition(position Point, size Vector) error
}
