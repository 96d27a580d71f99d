// Package session wires a platform backend to the navigation machine and
// runs the per-frame classify → step → dispatch pass.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/action"
	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/core/state"
	"github.com/f9-o/gridwarp/internal/dispatch"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/internal/input"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/metrics"
	"github.com/f9-o/gridwarp/internal/nav"
	"github.com/f9-o/gridwarp/internal/platform"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// Exit reasons recorded on the session.
const (
	ReasonQuit      = "quit"
	ReasonCancelled = "cancelled"
	ReasonError     = "error"
)

// Where the starting display came from.
const (
	InitialPointer   = "pointer"
	InitialPersisted = "persisted"
	InitialDefault   = "default"
)

// DefaultFrameRate is used when Config.FrameRate is not positive.
const DefaultFrameRate = 60

// Config assembles a session.
type Config struct {
	Backend       platform.Backend
	Table         *keymap.Table
	Options       nav.Options
	PrimaryOffset v1.Vector
	FrameRate     int
	ConfigPath    string

	// Store is optional; without it nothing is persisted.
	Store *state.DB
	// Log is optional; defaults to a discarding logger.
	Log *logger.Logger
}

// Session is one navigation run from startup to quit.
type Session struct {
	backend    platform.Backend
	machine    *nav.Machine
	classifier *input.Classifier
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Collector
	store      *state.DB
	log        *logger.Logger
	frameRate  int

	mu     sync.Mutex
	record v1.SessionRecord
	closed bool
}

// New enumerates displays, picks the starting display and positions the
// viewport on it. It fails only when no display can be navigated.
func New(cfg Config) (*Session, error) {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Backend == nil {
		return nil, errs.Newf(errs.ErrInternal, "session.new", "nil backend")
	}

	displays, err := cfg.Backend.Displays()
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrDisplayQuery, "session.new").
			WithAdvice("check that the display server is reachable")
	}
	displays = platform.WithPrimaryOffset(displays, cfg.PrimaryOffset)

	initial, source := initialDisplay(cfg.Backend.Pointer(), cfg.Store, displays, log)

	m, err := nav.New(displays, cfg.Table, cfg.Backend.Pointer(), cfg.Options, initial)
	if err != nil {
		return nil, err
	}

	frameRate := cfg.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}

	mc := metrics.NewCollector()
	s := &Session{
		backend:    cfg.Backend,
		machine:    m,
		classifier: input.NewClassifier(cfg.Backend.Keyboard()),
		dispatcher: dispatch.New(cfg.Backend.Pointer(), cfg.Backend.Viewport(), mc),
		metrics:    mc,
		store:      cfg.Store,
		log:        log,
		frameRate:  frameRate,
		record: v1.SessionRecord{
			ID:            uuid.NewString(),
			Backend:       cfg.Backend.Name(),
			StartedAt:     time.Now().UTC(),
			Displays:      len(displays),
			LastDisplay:   initial,
			ConfigPath:    cfg.ConfigPath,
			InitialSource: source,
		},
	}

	log.Info("session started",
		"session", s.record.ID,
		"backend", s.record.Backend,
		"displays", len(displays),
		"display", initial,
		"initial", source,
	)
	log.Audit(logger.AuditEntry{
		Op:      "session.start",
		Session: s.record.ID,
		Backend: s.record.Backend,
		Display: initial,
		Result:  "started",
	})

	s.dispatch([]action.Request{action.Reposition(m.ActiveDisplay())})
	return s, nil
}

// initialDisplay prefers the display under the pointer, then the display
// the previous session ended on, then the first display.
func initialDisplay(p v1.PointerDriver, store *state.DB, displays []v1.Display, log *logger.Logger) (int, string) {
	if p != nil {
		if pt, err := p.Location(); err != nil {
			log.Debug("pointer location unavailable", "err", err)
		} else if addr, ok := grid.Locate(displays, pt); ok {
			return addr.Display, InitialPointer
		}
	}
	if store != nil {
		idx, ok, err := store.LastDisplay()
		switch {
		case err != nil:
			log.Warn("read last display", "err", errs.Wrap(err, errs.ErrStateRead, "session.initial"))
		case ok && idx >= 0 && idx < len(displays):
			return idx, InitialPersisted
		}
	}
	return 0, InitialDefault
}

// ─────────────────────────────────────────────────────────────────────────────
// Frame loop
// ─────────────────────────────────────────────────────────────────────────────

// Frame runs one pass: poll, step, dispatch. done is true once the machine
// has terminated. A keyboard poll failure skips the pass and is returned;
// driver failures are logged and never returned.
func (s *Session) Frame() (done bool, err error) {
	if s.machine.Done() {
		return true, nil
	}
	if err := s.classifier.Poll(); err != nil {
		return false, errs.Wrap(err, errs.ErrDriverInput, "session.frame")
	}
	s.metrics.Frame()

	before := s.machine.Snapshot()
	r := s.machine.Step(s.classifier)
	if r.Err != nil {
		s.log.Warn("step", "err", r.Err)
	}
	if r.Changed {
		after := s.machine.Snapshot()
		s.log.Debug("transition",
			"from", before.Mode.String(),
			"to", after.Mode.String(),
			"display", after.ActiveDisplay,
			"region", after.Region,
			"cell", after.Cell,
		)
	}
	s.dispatch(r.Requests)
	return r.Done, nil
}

func (s *Session) dispatch(reqs []action.Request) {
	for _, req := range reqs {
		if err := s.dispatcher.Dispatch(req); err != nil {
			s.log.Warn("dispatch failed", "request", req.String(), "err", err)
			continue
		}
		s.log.Debug("dispatched", "request", dispatch.Describe(req))
	}
}

// Run drives Frame from a ticker at the configured frame rate until the
// machine quits or ctx is cancelled. It returns the exit reason.
func (s *Session) Run(ctx context.Context) (string, error) {
	ticker := time.NewTicker(time.Second / time.Duration(s.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ReasonCancelled, nil
		case <-ticker.C:
			done, err := s.Frame()
			if err != nil {
				s.log.Warn("frame skipped", "err", err)
				continue
			}
			if done {
				return ReasonQuit, nil
			}
		}
	}
}

// Close finalises the session record and persists it with the display the
// session ended on. Store failures are logged, not returned. Close does not
// close the backend.
func (s *Session) Close(reason string) v1.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.record
	}
	s.closed = true

	stats := s.metrics.Snapshot()
	st := s.machine.Snapshot()
	s.record.EndedAt = time.Now().UTC()
	s.record.DurationMS = s.record.EndedAt.Sub(s.record.StartedAt).Milliseconds()
	s.record.ExitReason = reason
	s.record.LastDisplay = st.ActiveDisplay
	s.record.Dispatched = stats.Dispatched
	s.record.Failures = stats.Failures()
	s.record.FramesPolled = stats.Frames

	if s.store != nil {
		if err := s.store.PutSession(s.record); err != nil {
			s.log.Warn("persist session", "err", errs.Wrap(err, errs.ErrStateWrite, "session.close"))
		}
		if err := s.store.SetLastDisplay(st.ActiveDisplay); err != nil {
			s.log.Warn("persist last display", "err", errs.Wrap(err, errs.ErrStateWrite, "session.close"))
		}
	}

	s.log.Audit(logger.AuditEntry{
		Op:      "session.end",
		Session: s.record.ID,
		Backend: s.record.Backend,
		Display: st.ActiveDisplay,
		Result:  reason,
		Counts:  stats.Dispatched,
	})
	s.log.Info("session ended",
		"session", s.record.ID,
		"reason", reason,
		"frames", stats.Frames,
		"dispatched", stats.Total(),
		"failures", s.record.Failures,
	)
	return s.record
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// ID is the session UUID.
func (s *Session) ID() string { return s.record.ID }

// State returns a snapshot of the navigation state.
func (s *Session) State() nav.State { return s.machine.Snapshot() }

// Displays returns the navigated displays, offsets applied.
func (s *Session) Displays() []v1.Display { return s.machine.Displays() }

// Metrics returns the dispatch counters.
func (s *Session) Metrics() metrics.Stats { return s.metrics.Snapshot() }

// Done reports whether the machine has terminated.
func (s *Session) Done() bool { return s.machine.Done() }

// InitialSource reports where the starting display came from.
func (s *Session) InitialSource() string { return s.record.InitialSource }
