// gridwarp doctor: check that a session could start.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/health"
	"github.com/f9-o/gridwarp/internal/platform"
	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

func NewDoctorCmd() *cobra.Command {
	var layout string
	var retries int

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, bindings, displays, pointer and state",
		Example: `  gridwarp doctor
  gridwarp doctor --retries 10   # wait for a starting X server`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  map[string]string{AnnotationConfig: "optional"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			checker := health.NewChecker(rt.Log)

			var b platform.Backend
			defer func() {
				if b != nil {
					b.Close()
				}
			}()
			needBackend := func(ctx context.Context) error {
				if b == nil {
					return health.ErrSkipped
				}
				return ctx.Err()
			}

			results, healthy := checker.RunAll(cmd.Context(), []health.Probe{
				{Name: "config", Run: func(ctx context.Context) (string, error) {
					if rt.Config.Path == "" {
						return "built-in defaults", ctx.Err()
					}
					return rt.Config.Path, ctx.Err()
				}},
				{Name: "bindings", Run: func(ctx context.Context) (string, error) {
					tbl, err := resolveBindings(rt)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%d bindings", len(tbl.Bindings())), ctx.Err()
				}},
				{Name: "binding conflicts", Optional: true, Run: func(ctx context.Context) (string, error) {
					tbl, err := resolveBindings(rt)
					if err != nil {
						return "", err
					}
					if cs := tbl.Conflicts(); len(cs) > 0 {
						return "", fmt.Errorf("%d key(s) bound twice in one mode, see 'gridwarp keys --conflicts'", len(cs))
					}
					return "none", ctx.Err()
				}},
				{Name: "backend", Retries: retries, Run: func(ctx context.Context) (string, error) {
					opened, err := openBackend(ctx, rt, layout)
					if err != nil {
						return "", err
					}
					b = opened
					return opened.Name(), nil
				}},
				{Name: "displays", Run: func(ctx context.Context) (string, error) {
					if err := needBackend(ctx); err != nil {
						return "", err
					}
					ds, err := health.Bounded(ctx, func() ([]v1.Display, error) { return displays(rt, b) }, nil)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%d display(s)", len(ds)), nil
				}},
				{Name: "pointer", Run: func(ctx context.Context) (string, error) {
					if err := needBackend(ctx); err != nil {
						return "", err
					}
					p, err := health.Bounded(ctx, b.Pointer().Location, nil)
					if err != nil {
						return "", err
					}
					return p.String(), nil
				}},
				{Name: "state", Optional: true, Run: func(ctx context.Context) (string, error) {
					if rt.State == nil {
						return "", fmt.Errorf("state database unavailable, sessions will not be persisted")
					}
					return rt.State.Path(), ctx.Err()
				}},
			})

			if rt.Flags.JSONOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				t := pprint.NewTable("CHECK", "STATUS", "DETAIL")
				for _, r := range results {
					detail := r.Detail
					if r.Err != "" {
						detail = r.Err
					}
					t.AddRow(r.Name, string(r.Status), detail)
				}
				t.Render()
			}

			if !healthy {
				failed := 0
				for _, r := range results {
					if r.Status == health.StatusFailed {
						failed++
					}
				}
				return errs.Newf(errs.ErrValidation, "doctor", "%d check(s) failed", failed)
			}
			if !rt.Flags.JSONOutput {
				pprint.Success("Ready to navigate")
			}
			return nil
		},
	}

	layoutFlag(cmd, &layout)
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry opening the backend this many times")
	return cmd
}
