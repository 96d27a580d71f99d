// Package action defines the platform-neutral requests the navigation state
// machine emits. Requests carry fractional pixels; rounding happens only
// when a request is dispatched to a driver.
package action

import (
	"fmt"

	v1 "github.com/f9-o/gridwarp/api/v1"
)

// Kind discriminates a Request.
type Kind int

const (
	KindWarp Kind = iota + 1
	KindMove
	KindScroll
	KindClick
	KindPress
	KindRelease
	KindReposition
)

var kindNames = map[Kind]string{
	KindWarp:       "warp",
	KindMove:       "move",
	KindScroll:     "scroll",
	KindClick:      "click",
	KindPress:      "press",
	KindRelease:    "release",
	KindReposition: "reposition",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every kind in dispatch-table order.
func Kinds() []Kind {
	return []Kind{KindWarp, KindMove, KindScroll, KindClick, KindPress, KindRelease, KindReposition}
}

// Request is one side effect. Only the fields relevant to Kind are set.
type Request struct {
	Kind Kind

	// Warp target, or Reposition origin.
	Point v1.Point
	// Move displacement, or Reposition size.
	Delta v1.Vector

	Axis   v1.ScrollAxis
	Amount float64
	Button v1.Button
}

// Warp moves the pointer to an absolute desktop point.
func Warp(p v1.Point) Request { return Request{Kind: KindWarp, Point: p} }

// Move displaces the pointer by (dx, dy).
func Move(dx, dy float64) Request { return Request{Kind: KindMove, Delta: v1.Vec(dx, dy)} }

// Scroll turns the wheel. Negative amounts scroll up or left.
func Scroll(axis v1.ScrollAxis, amount float64) Request {
	return Request{Kind: KindScroll, Axis: axis, Amount: amount}
}

// Click presses and releases b.
func Click(b v1.Button) Request { return Request{Kind: KindClick, Button: b} }

// Press holds b down.
func Press(b v1.Button) Request { return Request{Kind: KindPress, Button: b} }

// Release lets go of b.
func Release(b v1.Button) Request { return Request{Kind: KindRelease, Button: b} }

// Reposition moves the overlay viewport onto the usable area of d.
func Reposition(d v1.Display) Request {
	r := d.UsableRect()
	return Request{Kind: KindReposition, Point: r.Min, Delta: r.Size}
}

func (r Request) String() string {
	switch r.Kind {
	case KindWarp:
		return fmt.Sprintf("warp %s", r.Point)
	case KindMove:
		return fmt.Sprintf("move %g,%g", r.Delta.X, r.Delta.Y)
	case KindScroll:
		return fmt.Sprintf("scroll %s %g", r.Axis, r.Amount)
	case KindClick, KindPress, KindRelease:
		return fmt.Sprintf("%s %s", r.Kind, r.Button)
	case KindReposition:
		return fmt.Sprintf("reposition %s %s", r.Point, r.Delta)
	}
	return r.Kind.String()
}
