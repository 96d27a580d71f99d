package sim

import (
	"fmt"
	"sync"
	"time"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/input"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/internal/platform"
)

var _ platform.Backend = (*Backend)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// Backend
// ─────────────────────────────────────────────────────────────────────────────

// Backend implements platform.Backend entirely in memory.
type Backend struct {
	displays []v1.Display
	keyboard *Keyboard
	pointer  *Pointer
	viewport *Viewport
}

// New returns a backend over displays with the pointer at the centre of the
// first display.
func New(displays []v1.Display) *Backend {
	start := v1.Point{}
	if len(displays) > 0 {
		start = displays[0].Bounds().Center()
	}
	return &Backend{
		displays: displays,
		keyboard: NewKeyboard(),
		pointer:  NewPointer(start),
		viewport: &Viewport{},
	}
}

func (b *Backend) Name() string { return "sim" }

func (b *Backend) Displays() ([]v1.Display, error) {
	out := make([]v1.Display, len(b.displays))
	copy(out, b.displays)
	return out, nil
}

func (b *Backend) Keyboard() input.Source { return b.keyboard }

func (b *Backend) Pointer() v1.PointerDriver { return b.pointer }

func (b *Backend) Viewport() v1.ViewportController { return b.viewport }

// Keys exposes the concrete keyboard for feeding input.
func (b *Backend) Keys() *Keyboard { return b.keyboard }

// Mouse exposes the concrete pointer for inspection.
func (b *Backend) Mouse() *Pointer { return b.pointer }

// Overlay exposes the concrete viewport for inspection.
func (b *Backend) Overlay() *Viewport { return b.viewport }

func (b *Backend) Close() error { return nil }

// ─────────────────────────────────────────────────────────────────────────────
// Keyboard
// ─────────────────────────────────────────────────────────────────────────────

// TouchHold is how long a Touch keeps a key down. Terminals report key
// presses and auto-repeat but never releases, so a touched key is released
// once no repeat has refreshed it for this long.
const TouchHold = 120 * time.Millisecond

// Keyboard is a programmable input.Source.
type Keyboard struct {
	mu      sync.Mutex
	tracker input.Tracker
	down    map[keys.Key]bool
	touched map[keys.Key]time.Time
	now     func() time.Time
}

// NewKeyboard returns a keyboard with every key up.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		down:    make(map[keys.Key]bool),
		touched: make(map[keys.Key]time.Time),
		now:     time.Now,
	}
}

// SetClock replaces the time source used by Touch.
func (k *Keyboard) SetClock(now func() time.Time) {
	k.mu.Lock()
	k.now = now
	k.mu.Unlock()
}

// Down holds key until Up.
func (k *Keyboard) Down(key keys.Key) {
	k.mu.Lock()
	k.down[key] = true
	k.mu.Unlock()
}

// Up releases key.
func (k *Keyboard) Up(key keys.Key) {
	k.mu.Lock()
	delete(k.down, key)
	delete(k.touched, key)
	k.mu.Unlock()
}

// Touch holds key for TouchHold from now.
func (k *Keyboard) Touch(key keys.Key) {
	k.mu.Lock()
	k.touched[key] = k.now().Add(TouchHold)
	k.mu.Unlock()
}

// Release lets go of every key.
func (k *Keyboard) Release() {
	k.mu.Lock()
	clear(k.down)
	clear(k.touched)
	k.mu.Unlock()
}

// Poll captures the current key levels as a new frame.
func (k *Keyboard) Poll() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	for key, until := range k.touched {
		if !now.Before(until) {
			delete(k.touched, key)
		}
	}
	k.tracker.Update(func(key keys.Key) bool {
		if k.down[key] {
			return true
		}
		_, ok := k.touched[key]
		return ok
	})
	return nil
}

func (k *Keyboard) IsPressed(key keys.Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tracker.IsPressed(key)
}

func (k *Keyboard) IsHeld(key keys.Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tracker.IsHeld(key)
}

// Held returns the keys down in the last polled frame.
func (k *Keyboard) Held() []keys.Key {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tracker.Down()
}

// ─────────────────────────────────────────────────────────────────────────────
// Pointer
// ─────────────────────────────────────────────────────────────────────────────

// Call is one recorded pointer driver call.
type Call struct {
	Op   string
	X, Y int
	Arg  string
}

func (c Call) String() string {
	switch c.Op {
	case "move_absolute", "move_relative":
		return fmt.Sprintf("%s %d,%d", c.Op, c.X, c.Y)
	case "scroll":
		return fmt.Sprintf("scroll %s %d", c.Arg, c.X)
	}
	return fmt.Sprintf("%s %s", c.Op, c.Arg)
}

// Pointer records calls and tracks the resulting position and buttons.
type Pointer struct {
	mu      sync.Mutex
	pos     v1.Point
	buttons map[v1.Button]bool
	calls   []Call
	fail    map[string]error
}

// NewPointer returns a pointer at start.
func NewPointer(start v1.Point) *Pointer {
	return &Pointer{pos: start, buttons: make(map[v1.Button]bool), fail: make(map[string]error)}
}

// FailOn makes every subsequent call of op return err; a nil err clears it.
// Ops: move_absolute, move_relative, click, press, release, scroll, location.
func (p *Pointer) FailOn(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.fail, op)
		return
	}
	p.fail[op] = err
}

func (p *Pointer) record(c Call) error {
	if err := p.fail[c.Op]; err != nil {
		return err
	}
	p.calls = append(p.calls, c)
	return nil
}

func (p *Pointer) MoveAbsolute(x, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "move_absolute", X: x, Y: y}); err != nil {
		return err
	}
	p.pos = v1.Pt(float64(x), float64(y))
	return nil
}

func (p *Pointer) MoveRelative(dx, dy int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "move_relative", X: dx, Y: dy}); err != nil {
		return err
	}
	p.pos = p.pos.Add(v1.Vec(float64(dx), float64(dy)))
	return nil
}

func (p *Pointer) Click(b v1.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record(Call{Op: "click", Arg: string(b)})
}

func (p *Pointer) Press(b v1.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "press", Arg: string(b)}); err != nil {
		return err
	}
	p.buttons[b] = true
	return nil
}

func (p *Pointer) Release(b v1.Button) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(Call{Op: "release", Arg: string(b)}); err != nil {
		return err
	}
	delete(p.buttons, b)
	return nil
}

func (p *Pointer) Scroll(axis v1.ScrollAxis, amount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record(Call{Op: "scroll", X: amount, Arg: string(axis)})
}

func (p *Pointer) Location() (v1.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.fail["location"]; err != nil {
		return v1.Point{}, err
	}
	return p.pos, nil
}

// SetLocation moves the pointer without recording a call, as a user
// moving the physical mouse would.
func (p *Pointer) SetLocation(pt v1.Point) {
	p.mu.Lock()
	p.pos = pt
	p.mu.Unlock()
}

// Pressed reports whether b is held by Press.
func (p *Pointer) Pressed(b v1.Button) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buttons[b]
}

// Calls returns a copy of the recorded calls.
func (p *Pointer) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Viewport
// ─────────────────────────────────────────────────────────────────────────────

// Viewport records the overlay rectangle.
type Viewport struct {
	mu    sync.Mutex
	rect  v1.Rect
	moves int
	fail  error
}

func (v *Viewport) Reposition(position v1.Point, size v1.Vector) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fail != nil {
		return v.fail
	}
	v.rect = v1.Rect{Min: position, Size: size}
	v.moves++
	return nil
}

// FailWith makes Reposition return err; nil clears it.
func (v *Viewport) FailWith(err error) {
	v.mu.Lock()
	v.fail = err
	v.mu.Unlock()
}

// Rect returns the last rectangle and how many repositions happened.
func (v *Viewport) Rect() (v1.Rect, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rect, v.moves
}
