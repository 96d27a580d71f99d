package nav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/action"
	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/internal/input"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// keyboard is a level-driven input.Source for tests.
type keyboard struct {
	input.Tracker
	down map[keys.Key]bool
}

func newKeyboard() *keyboard { return &keyboard{down: map[keys.Key]bool{}} }

func (k *keyboard) Poll() error {
	k.Update(func(key keys.Key) bool { return k.down[key] })
	return nil
}

type pointerAt struct {
	p   v1.Point
	err error
}

func (p *pointerAt) Location() (v1.Point, error) { return p.p, p.err }

type harness struct {
	t   *testing.T
	m   *Machine
	kb  *keyboard
	in  *input.Classifier
	tbl *keymap.Table
	ptr *pointerAt
}

func newHarness(t *testing.T, displays []v1.Display, opts Options) *harness {
	t.Helper()
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)

	ptr := &pointerAt{}
	m, err := New(displays, tbl, ptr, opts, 0)
	require.NoError(t, err)

	kb := newKeyboard()
	return &harness{t: t, m: m, kb: kb, in: input.NewClassifier(kb), tbl: tbl, ptr: ptr}
}

// frame polls once with exactly the given keys down and steps the machine.
func (h *harness) frame(down ...keys.Key) Result {
	h.t.Helper()
	h.kb.down = map[keys.Key]bool{}
	for _, k := range down {
		h.kb.down[k] = true
	}
	require.NoError(h.t, h.in.Poll())
	return h.m.Step(h.in)
}

// tap presses k for one frame and releases it on the next.
func (h *harness) tap(k keys.Key) Result {
	h.t.Helper()
	r := h.frame(k)
	h.frame()
	return r
}

func displays(n int) []v1.Display {
	out := make([]v1.Display, n)
	for i := range out {
		out[i] = v1.Display{ID: i, Position: v1.Pt(float64(i)*1000, 0), Size: v1.Vec(1000, 900)}
	}
	return out
}

func TestInitialState(t *testing.T) {
	h := newHarness(t, displays(2), Options{})
	s := h.m.Snapshot()
	assert.Equal(t, State{Mode: ModeScreen, ActiveDisplay: 0, Region: -1, Cell: -1}, s)
	_, ok := s.Address()
	assert.False(t, ok)
}

func TestNewRejectsEmptyRegistry(t *testing.T) {
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)
	_, err = New(nil, tbl, nil, Options{}, 0)
	assert.True(t, errs.IsCode(err, errs.ErrNoDisplays))
}

func TestNewClampsInitialDisplay(t *testing.T) {
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)

	m, err := New(displays(3), tbl, nil, Options{}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Snapshot().ActiveDisplay)

	m, err = New(displays(3), tbl, nil, Options{}, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Snapshot().ActiveDisplay)
}

func TestRegionThenCellWarps(t *testing.T) {
	ds := displays(1)
	h := newHarness(t, ds, Options{})

	r := h.tap(h.tbl.Region[5])
	assert.Empty(t, r.Requests)
	assert.True(t, r.Changed)
	assert.Equal(t, State{Mode: ModeNarrow, Region: 5, Cell: -1}, h.m.Snapshot())

	r = h.tap(h.tbl.Grid[7])
	require.Len(t, r.Requests, 1)
	assert.Equal(t, action.Warp(v1.Pt(375, 337.5)), r.Requests[0])
	assert.Equal(t, State{Mode: ModeCell, Region: 5, Cell: 7}, h.m.Snapshot())

	addr, ok := h.m.Snapshot().Address()
	require.True(t, ok)
	assert.Equal(t, grid.Address{Display: 0, Region: 5, Cell: 7}, addr)
}

func TestFirstPressedRegionWins(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	h.frame(h.tbl.Region[9], h.tbl.Region[3])
	assert.Equal(t, 3, h.m.Snapshot().Region)
}

func TestModeChangeEndsPass(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	// A region key and a grid key in the same frame: only Screen runs.
	h.frame(h.tbl.Region[0], h.tbl.Grid[0])
	assert.Equal(t, State{Mode: ModeNarrow, Region: 0, Cell: -1}, h.m.Snapshot())
}

func TestCycleScreens(t *testing.T) {
	for n := 1; n <= 5; n++ {
		ds := displays(n)

		h := newHarness(t, ds, Options{})
		for i := 0; i < n; i++ {
			r := h.tap(h.tbl.NextScreen)
			require.Len(t, r.Requests, 1)
			assert.Equal(t, action.KindReposition, r.Requests[0].Kind)
		}
		assert.Equal(t, 0, h.m.Snapshot().ActiveDisplay, "next x%d", n)

		h = newHarness(t, ds, Options{})
		for i := 0; i < n; i++ {
			h.tap(h.tbl.PrevScreen)
		}
		assert.Equal(t, 0, h.m.Snapshot().ActiveDisplay, "prev x%d", n)
	}
}

func TestPrevFromFirstWraps(t *testing.T) {
	ds := displays(3)
	h := newHarness(t, ds, Options{})

	r := h.tap(h.tbl.PrevScreen)
	assert.Equal(t, 2, h.m.Snapshot().ActiveDisplay)
	require.Len(t, r.Requests, 1)
	assert.Equal(t, action.Reposition(ds[2]), r.Requests[0])
}

func TestBackAndConfirm(t *testing.T) {
	h := newHarness(t, displays(1), Options{})

	h.tap(h.tbl.Region[2])
	h.tap(h.tbl.Confirm)
	assert.Equal(t, ModeNarrow, h.m.Snapshot().Mode, "confirm without a cell is ignored")

	h.tap(h.tbl.Grid[4])
	h.tap(h.tbl.Back)
	assert.Equal(t, State{Mode: ModeNarrow, Region: 2, Cell: 4}, h.m.Snapshot())

	r := h.tap(h.tbl.Confirm)
	assert.Empty(t, r.Requests)
	assert.Equal(t, ModeCell, h.m.Snapshot().Mode)

	h.tap(h.tbl.Back)
	h.tap(h.tbl.Back)
	assert.Equal(t, State{Mode: ModeScreen, Region: -1, Cell: -1}, h.m.Snapshot())
}

func TestCellGridKeyReWarps(t *testing.T) {
	ds := displays(1)
	h := newHarness(t, ds, Options{})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])

	r := h.tap(h.tbl.Grid[14])
	require.Len(t, r.Requests, 1)
	assert.Equal(t, action.Warp(grid.CellCenter(ds[0], 0, 14)), r.Requests[0])
	assert.Equal(t, 14, h.m.Snapshot().Cell)
}

func TestSkipToCell(t *testing.T) {
	ds := displays(2)
	h := newHarness(t, ds, Options{})
	h.ptr.p = v1.Pt(1380, 320)

	r := h.tap(h.tbl.SkipToCell)
	assert.Equal(t, State{Mode: ModeCell, ActiveDisplay: 1, Region: 5, Cell: 7}, h.m.Snapshot())
	assert.Equal(t, []action.Request{
		action.Reposition(ds[1]),
		action.Warp(grid.CellCenter(ds[1], 5, 7)),
	}, r.Requests)
}

func TestSkipToCellWarpsToCellCenter(t *testing.T) {
	ds := displays(1)
	h := newHarness(t, ds, Options{})
	h.ptr.p = v1.Pt(380, 320)

	r := h.tap(h.tbl.SkipToCell)
	assert.Equal(t, State{Mode: ModeCell, Region: 5, Cell: 7}, h.m.Snapshot())
	require.Len(t, r.Requests, 1)
	assert.Equal(t, action.Warp(v1.Pt(375, 337.5)), r.Requests[0])
}

func TestSkipToCellOffDesktopStaysInScreen(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	h.ptr.p = v1.Pt(-50, -50)

	r := h.tap(h.tbl.SkipToCell)
	assert.Empty(t, r.Requests)
	assert.False(t, r.Changed)
	assert.Equal(t, ModeScreen, h.m.Snapshot().Mode)

	h.ptr.err = errors.New("no pointer")
	r = h.tap(h.tbl.SkipToCell)
	assert.True(t, errs.IsCode(r.Err, errs.ErrDriverPointer))
	assert.Equal(t, ModeScreen, h.m.Snapshot().Mode)
}

// Every key not in a mode's trigger list leaves mode, region and cell alone.
func TestClosedTransitionTable(t *testing.T) {
	h := newHarness(t, displays(1), Options{MovementSpeed: 10, ScrollSpeed: 3})

	live := map[Mode]map[keys.Key]bool{
		ModeScreen: {h.tbl.PrevScreen: true, h.tbl.NextScreen: true, h.tbl.SkipToCell: true, h.tbl.Quit: true},
		ModeNarrow: {h.tbl.Back: true, h.tbl.Confirm: true, h.tbl.Quit: true},
		ModeCell:   {h.tbl.Back: true, h.tbl.Quit: true, h.tbl.Click.LeftAndExit: true},
	}
	for _, k := range h.tbl.Region {
		live[ModeScreen][k] = true
	}
	for _, k := range h.tbl.Grid {
		live[ModeNarrow][k] = true
		live[ModeCell][k] = true
	}

	enter := map[Mode]func(){
		ModeScreen: func() {},
		ModeNarrow: func() { h.tap(h.tbl.Region[1]) },
		ModeCell:   func() { h.tap(h.tbl.Region[1]); h.tap(h.tbl.Grid[1]) },
	}

	for mode, setup := range enter {
		for _, k := range keys.All() {
			if live[mode][k] {
				continue
			}
			h = newHarness(t, displays(1), Options{MovementSpeed: 10, ScrollSpeed: 3})
			setup()
			before := h.m.Snapshot()
			require.Equal(t, mode, before.Mode)

			r := h.tap(k)
			assert.Equal(t, before, h.m.Snapshot(), "mode %s key %s", mode, k)
			assert.False(t, r.Done, "mode %s key %s", mode, k)
		}
	}
}

func TestQuitFromAnyMode(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	assert.True(t, h.tap(h.tbl.Quit).Done)
	assert.True(t, h.m.Done())
	assert.True(t, h.frame().Done, "a terminated machine stays done")

	h = newHarness(t, displays(1), Options{})
	h.tap(h.tbl.Region[0])
	assert.True(t, h.tap(h.tbl.Quit).Done)

	h = newHarness(t, displays(1), Options{})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])
	// Quit is declared before the click group: the click is not emitted.
	r := h.frame(h.tbl.Quit, h.tbl.Click.Left)
	assert.True(t, r.Done)
	assert.Empty(t, r.Requests)
}

func TestClicks(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])

	tests := []struct {
		key  keys.Key
		want action.Request
	}{
		{h.tbl.Click.Left, action.Click(v1.ButtonLeft)},
		{h.tbl.Click.Middle, action.Click(v1.ButtonMiddle)},
		{h.tbl.Click.Right, action.Click(v1.ButtonRight)},
		{h.tbl.Click.PressDown, action.Press(v1.ButtonLeft)},
		{h.tbl.Click.PressUp, action.Release(v1.ButtonLeft)},
	}
	for _, tt := range tests {
		r := h.frame(tt.key)
		assert.Equal(t, []action.Request{tt.want}, r.Requests, "key %s", tt.key)
		// Clicks are edge triggered: holding does not repeat.
		assert.Empty(t, h.frame(tt.key).Requests, "key %s", tt.key)
		h.frame()
	}

	r := h.frame(h.tbl.Click.Left, h.tbl.Click.Right)
	assert.Equal(t, []action.Request{action.Click(v1.ButtonLeft), action.Click(v1.ButtonRight)}, r.Requests)
}

func TestLeftAndExit(t *testing.T) {
	h := newHarness(t, displays(1), Options{})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])

	r := h.frame(h.tbl.Click.LeftAndExit)
	assert.True(t, r.Done)
	assert.Equal(t, []action.Request{action.Click(v1.ButtonLeft)}, r.Requests)
}

func TestScrollDirections(t *testing.T) {
	h := newHarness(t, displays(1), Options{ScrollSpeed: 3})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])

	tests := []struct {
		key  keys.Key
		want action.Request
	}{
		{h.tbl.Scroll.Up, action.Scroll(v1.AxisVertical, -3)},
		{h.tbl.Scroll.Down, action.Scroll(v1.AxisVertical, 3)},
		{h.tbl.Scroll.Left, action.Scroll(v1.AxisHorizontal, -3)},
		{h.tbl.Scroll.Right, action.Scroll(v1.AxisHorizontal, 3)},
	}
	for _, tt := range tests {
		r := h.frame(tt.key)
		assert.Equal(t, []action.Request{tt.want}, r.Requests, "key %s", tt.key)
		// Level triggered once armed: keeps firing while held.
		assert.Equal(t, []action.Request{tt.want}, h.frame(tt.key).Requests, "key %s", tt.key)
		h.frame()
	}
}

func TestMoveDebounceOnEntry(t *testing.T) {
	h := newHarness(t, displays(1), Options{MovementSpeed: 10})
	h.tap(h.tbl.Region[0])

	// Down is pressed together with the grid key that enters Cell mode.
	h.frame(h.tbl.Grid[0], h.tbl.Move.Down)
	for i := 0; i < 5; i++ {
		assert.Empty(t, h.frame(h.tbl.Move.Down).Requests, "poll %d", i)
	}

	h.frame()
	for i := 0; i < 3; i++ {
		assert.Equal(t, []action.Request{action.Move(0, 10)}, h.frame(h.tbl.Move.Down).Requests)
	}
}

func TestEnteringCellClearsArmed(t *testing.T) {
	h := newHarness(t, displays(1), Options{MovementSpeed: 10})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])
	armed := h.m.Armed()
	assert.NotZero(t, armed.Len())

	h.frame(h.tbl.Grid[1])
	armed = h.m.Armed()
	assert.Zero(t, armed.Len())
}

func TestMoveWithModifiers(t *testing.T) {
	h := newHarness(t, displays(1), Options{MovementSpeed: 100})
	h.tap(h.tbl.Region[0])
	h.tap(h.tbl.Grid[0])

	r := h.frame(h.tbl.Move.Left, h.tbl.Speed.Quarter, h.tbl.Speed.Double)
	assert.Equal(t, []action.Request{action.Move(-50, 0)}, r.Requests)

	r = h.frame(h.tbl.Move.Left, h.tbl.Move.Up, h.tbl.Speed.Quadruple)
	assert.Equal(t, []action.Request{action.Move(0, -400), action.Move(-400, 0)}, r.Requests)
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		name                             string
		quarter, half, double, quadruple bool
		want                             float64
	}{
		{"none", false, false, false, false, 100},
		{"quarter", true, false, false, false, 25},
		{"half", false, true, false, false, 50},
		{"double", false, false, true, false, 200},
		{"quadruple", false, false, false, true, 400},
		{"quarter+double", true, false, true, false, 50},
		{"all", true, true, true, true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Speed(100, tt.quarter, tt.half, tt.double, tt.quadruple))
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "screen", ModeScreen.String())
	assert.Equal(t, "cell", ModeCell.String())
	assert.Equal(t, "narrow display=0 region=3 cell=-1", State{Mode: ModeNarrow, Region: 3, Cell: -1}.String())
}

func TestDuplicateBindingsResolveByDeclarationOrder(t *testing.T) {
	base, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)
	tbl := *base
	tbl.Quit = base.Region[3]
	tbl.Back = base.Grid[2]

	m, err := New(displays(1), &tbl, nil, Options{}, 0)
	require.NoError(t, err)
	kb := newKeyboard()
	in := input.NewClassifier(kb)
	press := func(k keys.Key) Result {
		kb.down = map[keys.Key]bool{k: true}
		require.NoError(t, in.Poll())
		r := m.Step(in)
		kb.down = map[keys.Key]bool{}
		require.NoError(t, in.Poll())
		m.Step(in)
		return r
	}

	r := press(tbl.Quit)
	assert.False(t, r.Done, "region is declared before quit")
	assert.Equal(t, State{Mode: ModeNarrow, Region: 3, Cell: -1}, m.Snapshot())

	press(tbl.Grid[0])
	r = press(tbl.Back)
	assert.Equal(t, ModeCell, m.Snapshot().Mode, "grid is declared before back in Cell too")
	assert.Equal(t, 2, m.Snapshot().Cell)
	require.Len(t, r.Requests, 1)
}
