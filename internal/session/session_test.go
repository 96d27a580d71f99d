package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/core/state"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/internal/nav"
	"github.com/f9-o/gridwarp/internal/platform/sim"
	"github.com/f9-o/gridwarp/pkg/errs"
)

type fixture struct {
	backend *sim.Backend
	table   *keymap.Table
	store   *state.DB
}

func newFixture(t *testing.T, layout string) *fixture {
	t.Helper()
	ds, err := sim.ParseLayout(layout)
	require.NoError(t, err)
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)
	store, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return &fixture{backend: sim.New(ds), table: tbl, store: store}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{
		Backend:   f.backend,
		Table:     f.table,
		Options:   nav.Options{MovementSpeed: 10, ScrollSpeed: 3},
		FrameRate: 200,
		Store:     f.store,
	})
	require.NoError(t, err)
	return s
}

// tap holds k for one frame and releases it on the next.
func (f *fixture) tap(t *testing.T, s *Session, k keys.Key) bool {
	t.Helper()
	f.backend.Keys().Down(k)
	done, err := s.Frame()
	require.NoError(t, err)
	f.backend.Keys().Up(k)
	if done {
		return true
	}
	done, err = s.Frame()
	require.NoError(t, err)
	return done
}

func TestInitialDisplayFromPointer(t *testing.T) {
	f := newFixture(t, "1920x1080+0+0,1280x1024+1920+0")
	f.backend.Mouse().SetLocation(v1.Pt(2000, 100))

	s := f.session(t)
	assert.Equal(t, 1, s.State().ActiveDisplay)
	assert.Equal(t, InitialPointer, s.InitialSource())

	rect, n := f.backend.Overlay().Rect()
	assert.Equal(t, 1, n, "the viewport is placed on the starting display")
	assert.Equal(t, v1.Pt(1920, 0), rect.Min)
}

func TestInitialDisplayFromStore(t *testing.T) {
	f := newFixture(t, "1920x1080+0+0,1280x1024+1920+0,800x600+3200+0")
	f.backend.Mouse().SetLocation(v1.Pt(-500, -500))
	require.NoError(t, f.store.SetLastDisplay(2))

	s := f.session(t)
	assert.Equal(t, 2, s.State().ActiveDisplay)
	assert.Equal(t, InitialPersisted, s.InitialSource())

	// A stale index past the display list falls back to the first display.
	require.NoError(t, f.store.SetLastDisplay(9))
	s = f.session(t)
	assert.Equal(t, 0, s.State().ActiveDisplay)
	assert.Equal(t, InitialDefault, s.InitialSource())
}

func TestPrimaryOffsetApplied(t *testing.T) {
	f := newFixture(t, "1000x900+0+0")
	s, err := New(Config{Backend: f.backend, Table: f.table, PrimaryOffset: v1.Vec(0, 100)})
	require.NoError(t, err)
	assert.Equal(t, v1.Vec(0, 100), s.Displays()[0].UsableOffset)

	rect, _ := f.backend.Overlay().Rect()
	assert.Equal(t, v1.Rect{Min: v1.Pt(0, 100), Size: v1.Vec(1000, 800)}, rect)
}

func TestNoDisplays(t *testing.T) {
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)
	_, err = New(Config{Backend: sim.New(nil), Table: tbl})
	assert.True(t, errs.IsCode(err, errs.ErrNoDisplays))
}

func TestWarpClickAndQuitPersists(t *testing.T) {
	f := newFixture(t, "1000x900+0+0")
	s := f.session(t)

	assert.False(t, f.tap(t, s, f.table.Region[5]))
	assert.False(t, f.tap(t, s, f.table.Grid[7]))
	assert.Equal(t, nav.State{Mode: nav.ModeCell, Region: 5, Cell: 7}, s.State())

	loc, err := f.backend.Pointer().Location()
	require.NoError(t, err)
	assert.Equal(t, v1.Pt(375, 338), loc)

	assert.True(t, f.tap(t, s, f.table.Click.LeftAndExit))
	assert.True(t, s.Done())

	done, err := s.Frame()
	require.NoError(t, err)
	assert.True(t, done)

	rec := s.Close(ReasonQuit)
	assert.Equal(t, ReasonQuit, rec.ExitReason)
	assert.Equal(t, 1, rec.Dispatched["warp"])
	assert.Equal(t, 1, rec.Dispatched["click"])
	assert.Equal(t, 1, rec.Dispatched["reposition"])
	assert.NotZero(t, rec.FramesPolled)

	stored, err := f.store.GetSession(s.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, ReasonQuit, stored.ExitReason)

	// Closing twice is a no-op.
	assert.Equal(t, rec, s.Close(ReasonError))
}

func TestDriverFailureDoesNotEndSession(t *testing.T) {
	f := newFixture(t, "1000x900+0+0")
	s := f.session(t)
	f.backend.Mouse().FailOn("move_absolute", errors.New("warp rejected"))

	f.tap(t, s, f.table.Region[0])
	assert.False(t, f.tap(t, s, f.table.Grid[0]))
	assert.Equal(t, nav.ModeCell, s.State().Mode)
	assert.Equal(t, 1, s.Metrics().Failures())
}

func TestRunQuitsOnQuitKey(t *testing.T) {
	f := newFixture(t, "1000x900+0+0")
	s := f.session(t)
	f.backend.Keys().Down(f.table.Quit)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reason, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonQuit, reason)
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t, "1000x900+0+0")
	s := f.session(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reason, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonCancelled, reason)

	s.Close(reason)
	idx, ok, err := f.store.LastDisplay()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}
