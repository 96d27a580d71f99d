// gridwarp history: list persisted navigation sessions.
package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

func NewHistoryCmd() *cobra.Command {
	var limit, prune int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past navigation sessions, newest first",
		Example: `  gridwarp history
  gridwarp history --limit 5 --json
  gridwarp history --prune 100`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			if rt.State == nil {
				return errs.Newf(errs.ErrStateRead, "history", "state database unavailable").
					WithAdvice("check --state-dir and that no other gridwarp process holds the database")
			}

			if cmd.Flags().Changed("prune") {
				n, err := rt.State.PruneSessions(prune)
				if err != nil {
					return errs.Wrap(err, errs.ErrStateWrite, "history.prune")
				}
				pprint.Success("Removed %d session(s)", n)
				return nil
			}

			recs, err := rt.State.ListSessions(limit)
			if err != nil {
				return errs.Wrap(err, errs.ErrStateRead, "history.list")
			}
			if rt.Flags.JSONOutput {
				return writeJSON(cmd, recs)
			}
			if len(recs) == 0 {
				pprint.Info("No sessions recorded yet. Run 'gridwarp run' or 'gridwarp sim' to start one.")
				return nil
			}

			t := pprint.NewTable("ID", "STARTED", "BACKEND", "DURATION", "EXIT", "DISPLAY", "ACTIONS", "FAILED")
			for _, r := range recs {
				total := 0
				for _, n := range r.Dispatched {
					total += n
				}
				t.AddRow(
					r.ID[:min(8, len(r.ID))],
					r.StartedAt.Local().Format(time.DateTime),
					r.Backend,
					(time.Duration(r.DurationMS) * time.Millisecond).String(),
					r.ExitReason,
					fmt.Sprintf("%d/%d", r.LastDisplay, r.Displays),
					strconv.Itoa(total),
					strconv.Itoa(r.Failures),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list (0 = all)")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N sessions")
	return cmd
}
