// Package tui defines the Bubble Tea model for the gridwarp terminal
// simulator: a navigation session on the in-memory backend, drawn as a grid.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/platform/sim"
	"github.com/f9-o/gridwarp/internal/session"
	"github.com/f9-o/gridwarp/internal/tui/components"
)

const (
	sidebarWidth = 24
	maxLogLines  = 500
)

// Config carries dependencies into the simulator.
type Config struct {
	Session *session.Session
	Backend *sim.Backend
	Table   *keymap.Table
	Style   config.StyleConfig

	// LogSink is the receiving end of logger.Options.Sink; nil disables the
	// log pane.
	LogSink   <-chan string
	FrameRate int
}

// Model is the root Bubble Tea model (Elm architecture).
type Model struct {
	cfg Config

	width  int
	height int

	showLogs    bool
	logViewport viewport.Model
	logLines    []string

	header  components.Header
	sidebar components.Sidebar
	footer  components.Footer
	modal   *components.Modal

	regionLabels [grid.Regions]string
	cellLabels   [grid.Cells]string

	keymap Keymap
	styles Styles
	reason string
}

// frameMsg drives one navigation pass.
type frameMsg time.Time

// logLineMsg carries a new log line from the logger sink.
type logLineMsg string

// New constructs the simulator model.
func New(cfg Config) *Model {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = session.DefaultFrameRate
	}
	styles := newStyles(cfg.Style)
	lv := viewport.New(0, 0)
	lv.Style = styles.LogViewport

	m := &Model{
		cfg:         cfg,
		logViewport: lv,
		header:      components.NewHeader(cfg.Backend.Name(), cfg.Session.ID()),
		sidebar:     components.NewSidebar(),
		footer:      components.NewFooter(),
		keymap:      defaultKeymap(),
		styles:      styles,
	}
	for i, k := range cfg.Table.Region {
		m.regionLabels[i] = label(k)
	}
	for i, k := range cfg.Table.Grid {
		m.cellLabels[i] = label(k)
	}
	m.refresh()
	return m
}

// Reason is the session exit reason once the program has quit: quit when
// the navigation machine terminated, cancelled on a simulator force quit.
func (m *Model) Reason() string { return m.reason }

// ─────────────────────────────────────────────────────────────────────────────
// Init
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.waitLogCmd())
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logViewport.Width = m.width - sidebarWidth - 2
		m.logViewport.Height = m.logHeight()

	case tea.KeyMsg:
		if m.modal != nil {
			cmd, done := m.modal.HandleKey(msg)
			if done {
				m.modal = nil
			}
			if cmd != nil {
				m.reason = session.ReasonCancelled
			}
			return m, cmd
		}
		return m, m.handleKey(msg)

	case frameMsg:
		done, err := m.cfg.Session.Frame()
		m.footer.SetError(err)
		m.refresh()
		if done {
			m.reason = session.ReasonQuit
			return m, tea.Quit
		}
		cmds = append(cmds, m.frameCmd())

	case logLineMsg:
		m.logLines = append(m.logLines, strings.TrimRight(string(msg), "\n"))
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
		m.logViewport.GotoBottom()
		cmds = append(cmds, m.waitLogCmd())
	}

	var lvCmd tea.Cmd
	m.logViewport, lvCmd = m.logViewport.Update(msg)
	cmds = append(cmds, lvCmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes simulator controls and forwards everything else to
// the simulated keyboard.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case m.keymap.ForceQuit:
		m.reason = session.ReasonCancelled
		return tea.Quit
	case m.keymap.ToggleLogs:
		m.showLogs = !m.showLogs
		return nil
	case m.keymap.Help:
		m.modal = components.NewHelpModal(HelpText(m.cfg.Table), m.styles.Modal)
		return nil
	}
	for _, k := range translate(msg) {
		m.cfg.Backend.Keys().Touch(k)
	}
	return nil
}

// refresh copies session state into the chrome components.
func (m *Model) refresh() {
	st := m.cfg.Session.State()
	displays := m.cfg.Session.Displays()

	m.header.SetState(st.Mode.String(), st.ActiveDisplay, len(displays))

	items := make([]string, len(displays))
	for i, d := range displays {
		items[i] = fmt.Sprintf("%d  %s", i, d.Bounds().Size)
		if d.Primary {
			items[i] += " *"
		}
	}
	m.sidebar.SetDisplays(items, st.ActiveDisplay)

	stats := m.cfg.Session.Metrics()
	m.footer.SetCounters(stats.Frames, stats.Total(), stats.Failures())
	if calls := m.cfg.Backend.Mouse().Calls(); len(calls) > 0 {
		m.footer.SetLast(calls[len(calls)-1].String())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// View
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	bodyHeight := m.height - 2
	if m.modal != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.header.View(m.width),
			m.modal.Overlay("", m.width, bodyHeight),
			m.footer.View(m.width),
		)
	}

	header := m.header.View(m.width)
	sidebar := m.sidebar.View(sidebarWidth-2, bodyHeight-2)
	footer := m.footer.View(m.width)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, m.renderMain(bodyHeight))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderMain(height int) string {
	width := m.width - sidebarWidth - 2
	gridHeight := height - 1
	if m.showLogs {
		gridHeight -= m.logHeight() + 2
	}

	st := m.cfg.Session.State()
	displays := m.cfg.Session.Displays()
	pointer, err := m.cfg.Backend.Mouse().Location()

	view := components.RenderGrid(components.GridView{
		Display:      displays[st.ActiveDisplay],
		Region:       st.Region,
		Cell:         st.Cell,
		Pointer:      pointer,
		HasPointer:   err == nil,
		RegionLabels: m.regionLabels,
		CellLabels:   m.cellLabels,
		Styles:       m.styles.Grid,
	}, width, gridHeight)

	held := m.cfg.Backend.Keys().Held()
	names := make([]string, len(held))
	for i, k := range held {
		names[i] = k.String()
	}
	status := m.styles.Armed.Render(fmt.Sprintf(" %s  keys: %s", st, strings.Join(names, " ")))

	parts := []string{view, status}
	if m.showLogs {
		parts = append(parts, m.styles.PanelTitle.Render("LOGS"), m.logViewport.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) logHeight() int {
	h := m.height / 3
	if h < 3 {
		h = 3
	}
	return h
}

// ─────────────────────────────────────────────────────────────────────────────
// Commands
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FrameRate), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) waitLogCmd() tea.Cmd {
	if m.cfg.LogSink == nil {
		return nil
	}
	ch := m.cfg.LogSink
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return logLineMsg(line)
	}
}
