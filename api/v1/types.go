// Package v1 defines the public data types shared across all gridwarp layers.
package v1

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Geometry
// ─────────────────────────────────────────────────────────────────────────────

// Point is an absolute position in desktop pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector is a displacement or size in desktop pixel space.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y float64) Vector { return Vector{X: x, Y: y} }

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Sub returns v minus w component-wise.
func (v Vector) Sub(w Vector) Vector { return Vector{X: v.X - w.X, Y: v.Y - w.Y} }

// Div returns v with each component divided by the matching divisor.
func (v Vector) Div(dx, dy float64) Vector { return Vector{X: v.X / dx, Y: v.Y / dy} }

// IsZero reports whether both components are zero.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vector) String() string { return fmt.Sprintf("%gx%g", v.X, v.Y) }

// Rect is a half-open rectangle [Min, Min+Size).
type Rect struct {
	Min  Point  `json:"min"`
	Size Vector `json:"size"`
}

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Point { return r.Min.Add(r.Size) }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Size.X/2, Y: r.Min.Y + r.Size.Y/2}
}

// Contains reports whether p lies inside the half-open rectangle.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X && p.Y >= r.Min.Y && p.Y < max.Y
}

// String formats r as an X geometry, WxH+X+Y.
func (r Rect) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", r.Size.X, r.Size.Y, r.Min.X, r.Min.Y)
}

// ─────────────────────────────────────────────────────────────────────────────
// Displays
// ─────────────────────────────────────────────────────────────────────────────

// Display is one physical output as reported by the platform at startup.
// UsableOffset is non-zero only for the primary display and compensates for
// reserved desktop furniture (panels, docks) not reflected in Size.
type Display struct {
	ID           int    `json:"id"`
	Name         string `json:"name,omitempty"`
	Position     Point  `json:"position"`
	Size         Vector `json:"size"`
	UsableOffset Vector `json:"usable_offset"`
	Primary      bool   `json:"primary"`
}

// Bounds is the full reported rectangle of the display.
func (d Display) Bounds() Rect { return Rect{Min: d.Position, Size: d.Size} }

// UsableSize is the display size minus the reserved offset.
func (d Display) UsableSize() Vector { return d.Size.Sub(d.UsableOffset) }

// UsableRect is the rectangle an overlay viewport occupies on this display.
func (d Display) UsableRect() Rect {
	return Rect{Min: d.Position.Add(d.UsableOffset), Size: d.UsableSize()}
}

// ─────────────────────────────────────────────────────────────────────────────
// Pointer actions
// ─────────────────────────────────────────────────────────────────────────────

// Button identifies a pointer button.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonMiddle Button = "middle"
	ButtonRight  Button = "right"
)

// ScrollAxis selects the wheel axis for a scroll action.
type ScrollAxis string

const (
	AxisVertical   ScrollAxis = "vertical"
	AxisHorizontal ScrollAxis = "horizontal"
)

// ─────────────────────────────────────────────────────────────────────────────
// Runtime state types (persisted in BoltDB)
// ─────────────────────────────────────────────────────────────────────────────

// SessionRecord is the persisted audit record of one navigation session.
type SessionRecord struct {
	ID            string         `json:"id"`
	Backend       string         `json:"backend"` // x11 | sim
	StartedAt     time.Time      `json:"started_at"`
	EndedAt       time.Time      `json:"ended_at,omitempty"`
	Displays      int            `json:"displays"`
	LastDisplay   int            `json:"last_display"`
	ExitReason    string         `json:"exit_reason,omitempty"` // quit | cancelled | error
	Dispatched    map[string]int `json:"dispatched,omitempty"`
	Failures      int            `json:"failures"`
	DurationMS    int64          `json:"duration_ms"`
	ConfigPath    string         `json:"config_path,omitempty"`
	FramesPolled  int64          `json:"frames_polled"`
	InitialSource string         `json:"initial_source,omitempty"` // pointer | persisted | default
}
