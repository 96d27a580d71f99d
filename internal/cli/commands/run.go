// gridwarp run: navigate the real pointer on the X server.
package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/session"
)

// NewRunCmd returns the command that starts an X11 navigation session.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [config]",
		Short: "Start a navigation session on the X server",
		Long: `Start a navigation session on the X server.

The config path defaults to config.json in the working directory. The session
polls the keyboard at frame_rate Hz until the quit key is pressed.`,
		Example: `  gridwarp run
  gridwarp run ~/.config/gridwarp.json`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Annotations: map[string]string{
			AnnotationConfig:    "required",
			AnnotationConfigArg: "true",
		},
		RunE: RunX11,
	}
}

// RunX11 is the body of `gridwarp run`, also used by the bare root command.
func RunX11(cmd *cobra.Command, _ []string) error {
	rt := FromContext(cmd.Context())

	tbl, err := resolveBindings(rt)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, rt, "")
	if err != nil {
		return err
	}
	defer b.Close()

	s, err := session.New(sessionConfig(rt, b, tbl, rt.Log))
	if err != nil {
		return err
	}

	reason, err := s.Run(ctx)
	if err != nil {
		s.Close(session.ReasonError)
		return err
	}
	s.Close(reason)
	return nil
}
