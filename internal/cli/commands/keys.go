// gridwarp keys: show the resolved key binding table.
package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/keys"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

type bindingRow struct {
	Action string `json:"action"`
	Key    string `json:"key"`
}

type conflictRow struct {
	Key     string   `json:"key"`
	Actions []string `json:"actions"`
}

func NewKeysCmd() *cobra.Command {
	var conflicts, names bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the resolved key bindings",
		Long: `List every action with the key it resolves to. With --conflicts, list keys
bound to more than one action that are live in the same navigation mode; the
first action in declaration order wins. With --names, list every key name a
config may use.`,
		Example: `  gridwarp keys
  gridwarp keys --conflicts
  gridwarp keys --names`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  map[string]string{AnnotationConfig: "optional"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			if names {
				all := keys.Names()
				if rt.Flags.JSONOutput {
					return writeJSON(cmd, all)
				}
				pprint.Panel("Key names", strings.Join(all, " "))
				return nil
			}

			tbl, err := resolveBindings(rt)
			if err != nil {
				return err
			}

			if conflicts {
				cs := tbl.Conflicts()
				rows := make([]conflictRow, len(cs))
				for i, c := range cs {
					rows[i] = conflictRow{Key: c.Key.String(), Actions: c.Actions}
				}
				if rt.Flags.JSONOutput {
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					pprint.Success("No conflicting bindings")
					return nil
				}
				t := pprint.NewTable("KEY", "ACTIONS")
				for _, r := range rows {
					t.AddRow(r.Key, strings.Join(r.Actions, ", "))
				}
				t.Render()
				pprint.Warn("%d key(s) bound to more than one action; the first listed action wins", len(rows))
				return nil
			}

			bs := tbl.Bindings()
			rows := make([]bindingRow, len(bs))
			for i, b := range bs {
				rows[i] = bindingRow{Action: b.Action, Key: b.Key.String()}
			}
			if rt.Flags.JSONOutput {
				return writeJSON(cmd, rows)
			}
			t := pprint.NewTable("ACTION", "KEY")
			for _, r := range rows {
				t.AddRow(r.Action, r.Key)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&conflicts, "conflicts", false, "Only list keys bound to several actions in the same mode")
	cmd.Flags().BoolVar(&names, "names", false, "List every valid key name")
	return cmd
}
