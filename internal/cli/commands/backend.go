package commands

import (
	"context"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/health"
	"github.com/f9-o/gridwarp/internal/keymap"
	"github.com/f9-o/gridwarp/internal/nav"
	"github.com/f9-o/gridwarp/internal/platform"
	"github.com/f9-o/gridwarp/internal/platform/sim"
	"github.com/f9-o/gridwarp/internal/platform/x11"
	"github.com/f9-o/gridwarp/internal/session"
	"github.com/f9-o/gridwarp/pkg/errs"
)

// layoutFlag adds --layout to commands that can query either the X server
// or a simulated display set.
func layoutFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "layout", "",
		"Simulated displays as WxH+X+Y,... instead of querying the X server (append * to mark the primary)")
}

// openBackend returns the simulated backend for a non-empty layout and the
// X11 backend otherwise. An X server that never answers is abandoned when
// ctx ends; its connection is closed if it completes later.
func openBackend(ctx context.Context, rt *Runtime, layout string) (platform.Backend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if layout != "" {
		ds, err := sim.ParseLayout(layout)
		if err != nil {
			return nil, err
		}
		return sim.New(ds), nil
	}
	b, err := health.Bounded(ctx, func() (*x11.Backend, error) {
		return x11.Open(rt.Log)
	}, func(late *x11.Backend, err error) {
		if err == nil {
			late.Close()
		}
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// displays enumerates b and applies the configured primary offset, the
// same view of the displays a session navigates.
func displays(rt *Runtime, b platform.Backend) ([]v1.Display, error) {
	ds, err := b.Displays()
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrDisplayQuery, "displays")
	}
	if len(ds) == 0 {
		return nil, errs.Newf(errs.ErrNoDisplays, "displays", "the display registry reported no displays")
	}
	return platform.WithPrimaryOffset(ds, primaryOffset(rt)), nil
}

func primaryOffset(rt *Runtime) v1.Vector {
	return v1.Vec(float64(rt.Config.PrimaryOffsetX), float64(rt.Config.PrimaryOffsetY))
}

// resolveBindings turns the configured key names into a table, failing
// fast on any unknown name.
func resolveBindings(rt *Runtime) (*keymap.Table, error) {
	return keymap.Resolve(rt.Config.Bindings)
}

// sessionConfig assembles a session over b from the runtime config.
func sessionConfig(rt *Runtime, b platform.Backend, tbl *keymap.Table, log *logger.Logger) session.Config {
	return session.Config{
		Backend: b,
		Table:   tbl,
		Options: nav.Options{
			MovementSpeed: rt.Config.MovementSpeed,
			ScrollSpeed:   rt.Config.ScrollSpeed,
		},
		PrimaryOffset: primaryOffset(rt),
		FrameRate:     rt.Config.FrameRate,
		ConfigPath:    rt.Config.Path,
		Store:         rt.State,
		Log:           log,
	}
}
