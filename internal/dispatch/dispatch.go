// Package dispatch executes action requests against the platform drivers.
// It is stateless apart from the metrics it feeds; every failure is returned
// to the caller as a coded, non-fatal error.
package dispatch

import (
	"fmt"
	"math"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/action"
	"github.com/f9-o/gridwarp/internal/metrics"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// Dispatcher translates requests into driver calls.
type Dispatcher struct {
	pointer  v1.PointerDriver
	viewport v1.ViewportController
	metrics  *metrics.Collector
}

// New returns a Dispatcher. viewport and m may be nil.
func New(pointer v1.PointerDriver, viewport v1.ViewportController, m *metrics.Collector) *Dispatcher {
	return &Dispatcher{pointer: pointer, viewport: viewport, metrics: m}
}

// Dispatch performs one request. Fractional pixels and scroll amounts are
// rounded to the nearest integer here and nowhere else.
func (d *Dispatcher) Dispatch(req action.Request) error {
	err := d.dispatch(req)
	if d.metrics != nil {
		d.metrics.Record(req.Kind.String(), err)
	}
	return err
}

// DispatchAll performs every request in order. A failed request does not
// stop the remaining ones; the failures are returned in request order.
func (d *Dispatcher) DispatchAll(reqs []action.Request) []error {
	var failed []error
	for _, req := range reqs {
		if err := d.Dispatch(req); err != nil {
			failed = append(failed, err)
		}
	}
	return failed
}

func (d *Dispatcher) dispatch(req action.Request) error {
	op := "dispatch." + req.Kind.String()

	switch req.Kind {
	case action.KindWarp:
		if err := d.pointer.MoveAbsolute(round(req.Point.X), round(req.Point.Y)); err != nil {
			return errs.Wrap(err, errs.ErrDriverPointer, op).WithTarget(req.Point.String())
		}
	case action.KindMove:
		dx, dy := round(req.Delta.X), round(req.Delta.Y)
		if dx == 0 && dy == 0 {
			return nil
		}
		if err := d.pointer.MoveRelative(dx, dy); err != nil {
			return errs.Wrap(err, errs.ErrDriverPointer, op)
		}
	case action.KindScroll:
		amount := round(req.Amount)
		if amount == 0 {
			return nil
		}
		if err := d.pointer.Scroll(req.Axis, amount); err != nil {
			return errs.Wrap(err, errs.ErrDriverScroll, op).WithTarget(string(req.Axis))
		}
	case action.KindClick:
		if err := d.pointer.Click(req.Button); err != nil {
			return errs.Wrap(err, errs.ErrDriverButton, op).WithTarget(string(req.Button))
		}
	case action.KindPress:
		if err := d.pointer.Press(req.Button); err != nil {
			return errs.Wrap(err, errs.ErrDriverButton, op).WithTarget(string(req.Button))
		}
	case action.KindRelease:
		if err := d.pointer.Release(req.Button); err != nil {
			return errs.Wrap(err, errs.ErrDriverButton, op).WithTarget(string(req.Button))
		}
	case action.KindReposition:
		if d.viewport == nil {
			return nil
		}
		if err := d.viewport.Reposition(req.Point, req.Delta); err != nil {
			return errs.Wrap(err, errs.ErrDriverViewport, op)
		}
	default:
		return errs.Newf(errs.ErrInternal, op, "unknown request kind %s", req.Kind)
	}
	return nil
}

func round(v float64) int {
	return int(math.Round(v))
}

// Describe renders a request the way it reaches the driver, after rounding.
func Describe(req action.Request) string {
	switch req.Kind {
	case action.KindWarp:
		return fmt.Sprintf("warp to %d,%d", round(req.Point.X), round(req.Point.Y))
	case action.KindMove:
		return fmt.Sprintf("move by %d,%d", round(req.Delta.X), round(req.Delta.Y))
	case action.KindScroll:
		return fmt.Sprintf("scroll %s %d", req.Axis, round(req.Amount))
	}
	return req.String()
}
