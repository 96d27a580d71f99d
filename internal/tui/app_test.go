package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/nav"
	"github.com/f9-o/gridwarp/internal/platform/sim"
	"github.com/f9-o/gridwarp/internal/session"
)

type harness struct {
	model   *Model
	backend *sim.Backend
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ds, err := sim.ParseLayout("1000x900+0+0")
	require.NoError(t, err)
	cfg := config.Default()
	tbl, err := keymap.Resolve(cfg.Bindings)
	require.NoError(t, err)

	h := &harness{backend: sim.New(ds), now: time.Unix(0, 0)}
	h.backend.Keys().SetClock(func() time.Time { return h.now })

	s, err := session.New(session.Config{
		Backend: h.backend,
		Table:   tbl,
		Options: nav.Options{MovementSpeed: cfg.MovementSpeed, ScrollSpeed: cfg.ScrollSpeed},
	})
	require.NoError(t, err)

	h.model = New(Config{Session: s, Backend: h.backend, Table: tbl, Style: cfg.Style})
	h.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// press feeds a key through the terminal path, runs a frame, then lets the
// touch expire and runs another.
func (h *harness) press(msg tea.KeyMsg) tea.Cmd {
	h.model.Update(msg)
	_, cmd := h.model.Update(frameMsg(h.now))
	if h.model.Reason() != "" {
		return cmd
	}
	h.now = h.now.Add(sim.TouchHold)
	_, cmd = h.model.Update(frameMsg(h.now))
	return cmd
}

// runes is a printable key message as the terminal delivers it.
func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelNavigatesToCell(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.model.View(), "GRIDWARP")
	assert.Contains(t, h.model.View(), "SCREEN")

	h.press(runes("w"))
	st := h.model.cfg.Session.State()
	assert.Equal(t, nav.ModeNarrow, st.Mode)
	assert.Equal(t, 5, st.Region)

	h.press(runes("k"))
	st = h.model.cfg.Session.State()
	assert.Equal(t, nav.ModeCell, st.Mode)
	assert.Equal(t, 7, st.Cell)

	loc, err := h.backend.Mouse().Location()
	require.NoError(t, err)
	assert.Equal(t, v1.Pt(375, 338), loc)

	view := h.model.View()
	assert.Contains(t, view, "CELL")
	assert.Contains(t, view, "move_absolute 375,338")
	assert.Equal(t, "", h.model.Reason())
}

func TestModelQuitKeyEndsProgram(t *testing.T) {
	h := newHarness(t)
	cmd := h.press(tea.KeyMsg{Type: tea.KeyEscape})
	assert.NotNil(t, cmd)
	assert.Equal(t, session.ReasonQuit, h.model.Reason())
	assert.True(t, h.model.cfg.Session.Done())
}

func TestModelForceQuit(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.Equal(t, session.ReasonCancelled, h.model.Reason())
	assert.False(t, h.model.cfg.Session.Done())
}

func TestModelHelpModalSwallowsKeys(t *testing.T) {
	h := newHarness(t)
	h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	require.NotNil(t, h.model.modal)
	assert.Contains(t, h.model.View(), "Key bindings")
	assert.Contains(t, h.model.View(), "skip_to_cell")

	// Region keys do not reach the machine while the modal is open.
	h.press(runes("w"))
	assert.Equal(t, nav.ModeScreen, h.model.cfg.Session.State().Mode)

	h.model.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Nil(t, h.model.modal)
}

func TestModelLogPane(t *testing.T) {
	h := newHarness(t)
	ch := make(chan string, 1)
	h.model.cfg.LogSink = ch

	h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.True(t, h.model.showLogs)

	h.model.Update(logLineMsg("level=INFO msg=\"session started\"\n"))
	require.Len(t, h.model.logLines, 1)
	assert.False(t, strings.HasSuffix(h.model.logLines[0], "\n"))
	assert.Contains(t, h.model.View(), "LOGS")
}

func TestHelpTextListsEveryBinding(t *testing.T) {
	tbl, err := keymap.Resolve(config.Default().Bindings)
	require.NoError(t, err)
	text := HelpText(tbl)
	for _, b := range tbl.Bindings() {
		assert.Contains(t, text, b.Action)
	}
	assert.Contains(t, text, "ctrl+c")
}
