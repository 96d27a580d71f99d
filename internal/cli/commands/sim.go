// gridwarp sim: run a navigation session against simulated displays inside
// the terminal.
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/platform/sim"
	"github.com/f9-o/gridwarp/internal/session"
	"github.com/f9-o/gridwarp/internal/tui"
	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

func NewSimCmd() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "sim [config]",
		Short: "Try the bindings on simulated displays in the terminal",
		Long: `Run a navigation session against an in-memory display set, pointer and
overlay, drawn in the terminal. Keys typed in the terminal are fed to the
navigation machine; a key counts as held until its auto-repeat stops.

ctrl+g shows the bindings, ctrl+l toggles the log pane, ctrl+c quits.`,
		Example: `  gridwarp sim
  gridwarp sim --layout 2560x1440+0+0,1920x1080+2560+180*`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Annotations: map[string]string{
			AnnotationConfig:    "optional",
			AnnotationConfigArg: "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			tbl, err := resolveBindings(rt)
			if err != nil {
				return err
			}
			ds, err := sim.ParseLayout(layout)
			if err != nil {
				return err
			}

			// The TUI owns the terminal: log lines go to the file and the
			// log pane only.
			sink := make(chan string, 256)
			log, err := logger.Init(logger.Options{
				Level:  rt.Config.Log.Level,
				Format: rt.Config.Log.Format,
				File:   rt.LogFile,
				Home:   rt.Flags.StateDir,
				Debug:  rt.Flags.Debug,
				Sink:   sink,
				Quiet:  true,
			})
			if err != nil {
				return errs.Wrap(err, errs.ErrInternal, "sim.logger")
			}
			defer log.Close()

			b := sim.New(ds)
			s, err := session.New(sessionConfig(rt, b, tbl, log))
			if err != nil {
				return err
			}

			app := tui.New(tui.Config{
				Session:   s,
				Backend:   b,
				Table:     tbl,
				Style:     rt.Config.Style,
				LogSink:   sink,
				FrameRate: rt.Config.FrameRate,
			})
			if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
				s.Close(session.ReasonError)
				return errs.Wrap(err, errs.ErrInternal, "sim.tui")
			}

			reason := app.Reason()
			if reason == "" {
				reason = session.ReasonCancelled
			}
			rec := s.Close(reason)

			pprint.Header("session summary")
			pprint.Success("Session %s ended (%s)", rec.ID, rec.ExitReason)
			pprint.KV("Start     ", fmt.Sprintf("display %d (%s)", s.State().ActiveDisplay, s.InitialSource()))
			pprint.KV("Frames    ", fmt.Sprint(rec.FramesPolled))
			pprint.KV("Actions   ", fmt.Sprint(s.Metrics().Total()))
			pprint.KV("Failures  ", fmt.Sprint(rec.Failures))
			pprint.Rule(60)
			return nil
		},
	}

	cmd.Flags().StringVar(&layout, "layout", sim.DefaultLayout,
		"Simulated displays as WxH+X+Y,... (append * to mark the primary)")
	return cmd
}
