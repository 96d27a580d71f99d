// Package nav is the navigation state machine: Screen → Narrow → Cell.
//
// The machine is pure with respect to the platform. Each Step reads the
// classifier for the current frame, advances the state and returns the
// pointer and viewport requests to dispatch; it never calls a driver.
package nav

import (
	"fmt"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/action"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/internal/input"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// Mode is the current navigation mode.
type Mode int

const (
	ModeScreen Mode = iota
	ModeNarrow
	ModeCell
)

func (m Mode) String() string {
	switch m {
	case ModeScreen:
		return "screen"
	case ModeNarrow:
		return "narrow"
	case ModeCell:
		return "cell"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// State is the navigation state. Region and Cell are -1 when unset.
type State struct {
	Mode          Mode `json:"mode"`
	ActiveDisplay int  `json:"active_display"`
	Region        int  `json:"region"`
	Cell          int  `json:"cell"`
}

// Address returns the grid address of a fully selected cell.
func (s State) Address() (grid.Address, bool) {
	if !grid.ValidRegion(s.Region) || !grid.ValidCell(s.Cell) {
		return grid.Address{}, false
	}
	return grid.Address{Display: s.ActiveDisplay, Region: s.Region, Cell: s.Cell}, true
}

func (s State) String() string {
	return fmt.Sprintf("%s display=%d region=%d cell=%d", s.Mode, s.ActiveDisplay, s.Region, s.Cell)
}

// Options are the tunable magnitudes of continuous actions.
type Options struct {
	MovementSpeed float64
	ScrollSpeed   float64
}

// Locator reports the current pointer position; used by skip-to-cell.
type Locator interface {
	Location() (v1.Point, error)
}

// Result is the outcome of one Step.
type Result struct {
	Requests []action.Request
	// Done is set when the session must terminate after dispatching Requests.
	Done bool
	// Changed is set when the mode, display, region or cell changed.
	Changed bool
	// Err is a non-fatal failure observed while stepping (pointer location).
	Err error
}

// Machine is the navigation state machine. It is not safe for concurrent use.
type Machine struct {
	displays []v1.Display
	table    *keymap.Table
	pointer  Locator
	opts     Options

	state State
	armed input.ArmedSet
	done  bool
}

// New builds a machine over a non-empty display list. initial selects the
// starting display; out-of-range values fall back to 0.
func New(displays []v1.Display, table *keymap.Table, pointer Locator, opts Options, initial int) (*Machine, error) {
	if len(displays) == 0 {
		return nil, errs.Newf(errs.ErrNoDisplays, "nav.new", "display registry returned no displays").
			WithAdvice("check that a display server is running and reachable")
	}
	if table == nil {
		return nil, errs.Newf(errs.ErrInternal, "nav.new", "nil binding table")
	}
	if initial < 0 || initial >= len(displays) {
		initial = 0
	}
	return &Machine{
		displays: displays,
		table:    table,
		pointer:  pointer,
		opts:     opts,
		state:    State{Mode: ModeScreen, ActiveDisplay: initial, Region: -1, Cell: -1},
	}, nil
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State { return m.state }

// Displays returns the display list the machine navigates.
func (m *Machine) Displays() []v1.Display { return m.displays }

// ActiveDisplay returns the display currently targeted.
func (m *Machine) ActiveDisplay() v1.Display { return m.displays[m.state.ActiveDisplay] }

// Armed returns a copy of the armed-key set.
func (m *Machine) Armed() input.ArmedSet { return m.armed.Clone() }

// Done reports whether the machine has terminated.
func (m *Machine) Done() bool { return m.done }

// Step runs exactly one mode handler, chosen by the mode at the start of the
// pass. The caller polls the classifier before stepping.
func (m *Machine) Step(in *input.Classifier) Result {
	if m.done {
		return Result{Done: true}
	}
	before := m.state

	var r Result
	switch m.state.Mode {
	case ModeScreen:
		m.stepScreen(in, &r)
	case ModeNarrow:
		m.stepNarrow(in, &r)
	case ModeCell:
		m.stepCell(in, &r)
	}

	m.done = r.Done
	r.Changed = m.state != before
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Mode handlers
// ─────────────────────────────────────────────────────────────────────────────

// Handlers test triggers in binding declaration order (region, grid,
// prev_screen, next_screen, skip_to_cell, back, confirm, quit, then the
// pointer groups), so a key bound twice resolves to the earlier action.

func (m *Machine) stepScreen(in *input.Classifier, r *Result) {
	if i, ok := firstPressed(in, m.table.Region[:]); ok {
		m.state.Mode = ModeNarrow
		m.state.Region = i
		m.state.Cell = -1
		return
	}

	n := len(m.displays)
	if in.Pressed(m.table.PrevScreen) {
		m.state.ActiveDisplay = (m.state.ActiveDisplay - 1 + n) % n
		r.Requests = append(r.Requests, action.Reposition(m.ActiveDisplay()))
		return
	}
	if in.Pressed(m.table.NextScreen) {
		m.state.ActiveDisplay = (m.state.ActiveDisplay + 1) % n
		r.Requests = append(r.Requests, action.Reposition(m.ActiveDisplay()))
		return
	}

	if in.Pressed(m.table.SkipToCell) {
		m.skipToCell(r)
		return
	}

	r.Done = in.Pressed(m.table.Quit)
}

// skipToCell adopts the cell under the pointer. Without a pointer position
// or a containing display the machine stays in Screen.
func (m *Machine) skipToCell(r *Result) {
	if m.pointer == nil {
		return
	}
	p, err := m.pointer.Location()
	if err != nil {
		r.Err = errs.Wrap(err, errs.ErrDriverPointer, "nav.skip_to_cell")
		return
	}
	addr, ok := grid.Locate(m.displays, p)
	if !ok {
		return
	}
	if addr.Display != m.state.ActiveDisplay {
		m.state.ActiveDisplay = addr.Display
		r.Requests = append(r.Requests, action.Reposition(m.ActiveDisplay()))
	}
	m.state.Region = addr.Region
	m.state.Cell = addr.Cell
	r.Requests = append(r.Requests, action.Warp(grid.CellCenter(m.ActiveDisplay(), addr.Region, addr.Cell)))
	m.enterCell()
}

func (m *Machine) stepNarrow(in *input.Classifier, r *Result) {
	if i, ok := firstPressed(in, m.table.Grid[:]); ok {
		m.selectCell(i, r)
		return
	}
	if in.Pressed(m.table.Back) {
		m.state.Mode = ModeScreen
		m.state.Region = -1
		m.state.Cell = -1
		return
	}
	if in.Pressed(m.table.Confirm) {
		if m.state.Cell >= 0 {
			m.enterCell()
		}
		return
	}

	r.Done = in.Pressed(m.table.Quit)
}

func (m *Machine) stepCell(in *input.Classifier, r *Result) {
	if i, ok := firstPressed(in, m.table.Grid[:]); ok {
		m.selectCell(i, r)
		return
	}
	if in.Pressed(m.table.Back) {
		m.state.Mode = ModeNarrow
		return
	}
	if in.Pressed(m.table.Quit) {
		r.Done = true
		return
	}

	t := m.table
	click := func(k keys.Key, req action.Request) {
		if in.Pressed(k) {
			r.Requests = append(r.Requests, req)
		}
	}
	click(t.Click.Left, action.Click(v1.ButtonLeft))
	if in.Pressed(t.Click.LeftAndExit) {
		r.Requests = append(r.Requests, action.Click(v1.ButtonLeft))
		r.Done = true
	}
	click(t.Click.Middle, action.Click(v1.ButtonMiddle))
	click(t.Click.Right, action.Click(v1.ButtonRight))
	click(t.Click.PressDown, action.Press(v1.ButtonLeft))
	click(t.Click.PressUp, action.Release(v1.ButtonLeft))

	// Every continuous key is evaluated each pass so releases arm it.
	s := m.opts.ScrollSpeed
	if in.HeldArmed(t.Scroll.Up, &m.armed) {
		r.Requests = append(r.Requests, action.Scroll(v1.AxisVertical, -s))
	}
	if in.HeldArmed(t.Scroll.Down, &m.armed) {
		r.Requests = append(r.Requests, action.Scroll(v1.AxisVertical, s))
	}
	if in.HeldArmed(t.Scroll.Left, &m.armed) {
		r.Requests = append(r.Requests, action.Scroll(v1.AxisHorizontal, -s))
	}
	if in.HeldArmed(t.Scroll.Right, &m.armed) {
		r.Requests = append(r.Requests, action.Scroll(v1.AxisHorizontal, s))
	}

	v := Speed(m.opts.MovementSpeed,
		in.Held(t.Speed.Quarter), in.Held(t.Speed.Half),
		in.Held(t.Speed.Double), in.Held(t.Speed.Quadruple))
	if in.HeldArmed(t.Move.Up, &m.armed) {
		r.Requests = append(r.Requests, action.Move(0, -v))
	}
	if in.HeldArmed(t.Move.Down, &m.armed) {
		r.Requests = append(r.Requests, action.Move(0, v))
	}
	if in.HeldArmed(t.Move.Left, &m.armed) {
		r.Requests = append(r.Requests, action.Move(-v, 0))
	}
	if in.HeldArmed(t.Move.Right, &m.armed) {
		r.Requests = append(r.Requests, action.Move(v, 0))
	}
}

// selectCell warps to cell i of the current region and enters Cell mode.
func (m *Machine) selectCell(i int, r *Result) {
	m.state.Cell = i
	d := m.ActiveDisplay()
	r.Requests = append(r.Requests, action.Warp(grid.CellCenter(d, m.state.Region, i)))
	m.enterCell()
}

// enterCell switches to Cell mode with an empty armed set, so keys already
// down on entry stay silent until released.
func (m *Machine) enterCell() {
	m.state.Mode = ModeCell
	m.armed.Clear()
}

// Speed scales base by the held modifiers, applied in the fixed order
// quarter, half, double, quadruple.
func Speed(base float64, quarter, half, double, quadruple bool) float64 {
	v := base
	if quarter {
		v /= 4
	}
	if half {
		v /= 2
	}
	if double {
		v *= 2
	}
	if quadruple {
		v *= 4
	}
	return v
}

// firstPressed returns the index of the first pressed key in declaration order.
func firstPressed(in *input.Classifier, ks []keys.Key) (int, bool) {
	for i, k := range ks {
		if in.Pressed(k) {
			return i, true
		}
	}
	return -1, false
}
