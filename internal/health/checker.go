// Package health runs readiness probes against the pieces a navigation
// session depends on: config, key bindings, the display registry, the
// pointer driver and the state database.
package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/f9-o/gridwarp/internal/core/logger"
)

// DefaultInterval is the wait between attempts when Probe.Interval is zero.
const DefaultInterval = 500 * time.Millisecond

// DefaultTimeout bounds a single attempt when Probe.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ErrSkipped is returned by a probe whose prerequisite failed; the probe is
// reported as skipped rather than failed.
var ErrSkipped = errors.New("prerequisite failed")

// Status is the outcome of one probe.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarn    Status = "warn"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Probe is one named check. Retries re-run a failing check, e.g. while an
// X server is still starting.
type Probe struct {
	Name     string
	Run      func(ctx context.Context) (detail string, err error)
	Retries  int
	Interval time.Duration
	Timeout  time.Duration

	// Optional probes report a warning instead of a failure.
	Optional bool
}

// Result is the report line for one probe.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Err      string        `json:"error,omitempty"`
	Attempts int           `json:"attempts"`
	Took     time.Duration `json:"took_ns"`
}

// Checker runs probes in order.
type Checker struct {
	log *logger.Logger
}

// NewChecker constructs a Checker.
func NewChecker(log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{log: log}
}

// RunAll runs every probe and reports whether all required probes passed.
// A nil Run marks the probe skipped.
func (c *Checker) RunAll(ctx context.Context, probes []Probe) ([]Result, bool) {
	results := make([]Result, 0, len(probes))
	healthy := true
	for _, p := range probes {
		r := c.Run(ctx, p)
		if r.Status == StatusFailed {
			healthy = false
		}
		results = append(results, r)
	}
	return results, healthy
}

// Run executes p until it passes, its retries run out or ctx is cancelled.
func (c *Checker) Run(ctx context.Context, p Probe) Result {
	res := Result{Name: p.Name}
	if p.Run == nil {
		res.Status = StatusSkipped
		return res
	}

	interval := p.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	var lastErr error
attempts:
	for attempt := 0; attempt <= p.Retries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				lastErr = ctx.Err()
				break attempts
			case <-timer.C:
			}
		}

		res.Attempts++
		actx, cancel := context.WithTimeout(ctx, timeout)
		detail, err := p.Run(actx)
		cancel()
		if err == nil {
			res.Status = StatusOK
			res.Detail = detail
			res.Took = time.Since(start)
			c.log.Debug("probe passed", "probe", p.Name, "attempt", res.Attempts)
			return res
		}
		if errors.Is(err, ErrSkipped) {
			res.Status = StatusSkipped
			res.Took = time.Since(start)
			return res
		}
		lastErr = err
		c.log.Debug("probe attempt failed",
			"probe", p.Name,
			"attempt", res.Attempts,
			"of", p.Retries+1,
			"err", err,
		)
	}

	res.Took = time.Since(start)
	res.Err = fmt.Sprint(lastErr)
	res.Status = StatusFailed
	if p.Optional {
		res.Status = StatusWarn
	}
	return res
}

// Bounded runs fn, returning early with ctx.Err() once ctx is done. fn keeps
// running in the background; late is called with its result if it finishes
// after ctx, so resources it opened can be released. late may be nil.
func Bounded[T any](ctx context.Context, fn func() (T, error), late func(T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		if late != nil {
			go func() {
				r := <-done
				late(r.v, r.err)
			}()
		}
		var zero T
		return zero, ctx.Err()
	}
}
