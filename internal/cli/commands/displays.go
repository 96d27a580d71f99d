// gridwarp displays, locate, cell: inspect the address space without
// starting a session.
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

var inspectAnnotations = map[string]string{AnnotationConfig: "optional"}

// withDisplays opens the backend named by layout, lists its displays and
// hands them to fn.
func withDisplays(cmd *cobra.Command, layout string, fn func(rt *Runtime, ds []v1.Display) error) error {
	rt := FromContext(cmd.Context())
	b, err := openBackend(cmd.Context(), rt, layout)
	if err != nil {
		return err
	}
	defer b.Close()

	ds, err := displays(rt, b)
	if err != nil {
		return err
	}
	return fn(rt, ds)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ─────────────────────────────────────────────────────────────────────────────
// displays
// ─────────────────────────────────────────────────────────────────────────────

func NewDisplaysCmd() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "displays",
		Short: "List the displays a session would navigate",
		Example: `  gridwarp displays
  gridwarp displays --json
  gridwarp displays --layout 1920x1080+0+0,1280x1024+1920+0`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  inspectAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDisplays(cmd, layout, func(rt *Runtime, ds []v1.Display) error {
				if rt.Flags.JSONOutput {
					return writeJSON(cmd, ds)
				}
				t := pprint.NewTable("INDEX", "NAME", "POSITION", "SIZE", "USABLE", "PRIMARY")
				for i, d := range ds {
					primary := ""
					if d.Primary {
						primary = "yes"
					}
					t.AddRow(strconv.Itoa(i), d.Name, d.Position.String(), d.Size.String(),
						d.UsableRect().String(), primary)
				}
				t.Render()
				return nil
			})
		},
	}
	layoutFlag(cmd, &layout)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// locate
// ─────────────────────────────────────────────────────────────────────────────

// locateResult is the --json shape of `gridwarp locate`.
type locateResult struct {
	Point v1.Point     `json:"point"`
	Found bool         `json:"found"`
	Addr  grid.Address `json:"address"`
}

func NewLocateCmd() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "locate <x> <y>",
		Short: "Print the display, region and cell under an absolute pixel",
		Example: `  gridwarp locate 380 320
  gridwarp locate 2000 100 --layout 1920x1080+0+0,1280x1024+1920+0`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		Annotations:  inspectAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseFloat("x", args[0])
			if err != nil {
				return err
			}
			y, err := parseFloat("y", args[1])
			if err != nil {
				return err
			}
			p := v1.Pt(x, y)

			return withDisplays(cmd, layout, func(rt *Runtime, ds []v1.Display) error {
				addr, ok := grid.Locate(ds, p)
				if rt.Flags.JSONOutput {
					return writeJSON(cmd, locateResult{Point: p, Found: ok, Addr: addr})
				}
				if !ok {
					pprint.Warn("%s is not on any display", p)
					return nil
				}
				pprint.KV("Point", p.String())
				pprint.KV("Display", strconv.Itoa(addr.Display))
				pprint.KV("Region", strconv.Itoa(addr.Region))
				pprint.KV("Cell", strconv.Itoa(addr.Cell))
				pprint.KV("Cell center", grid.CellCenter(ds[addr.Display], addr.Region, addr.Cell).String())
				return nil
			})
		},
	}
	layoutFlag(cmd, &layout)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// cell
// ─────────────────────────────────────────────────────────────────────────────

// cellResult is the --json shape of `gridwarp cell`.
type cellResult struct {
	Addr   grid.Address `json:"address"`
	Center v1.Point     `json:"center"`
	Rect   v1.Rect      `json:"rect"`
	Region v1.Rect      `json:"region_rect"`
}

func NewCellCmd() *cobra.Command {
	var layout string

	cmd := &cobra.Command{
		Use:   "cell <display> <region> <cell>",
		Short: "Print the center and bounds of a cell",
		Example: `  gridwarp cell 0 5 7
  gridwarp cell 1 0 0 --json`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		Annotations:  inspectAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			var idx [3]int
			for i, name := range []string{"display", "region", "cell"} {
				n, err := strconv.Atoi(args[i])
				if err != nil {
					return errs.Newf(errs.ErrValidation, "cell.args", "%s must be an integer, got %q", name, args[i]).
						WithTarget(name)
				}
				idx[i] = n
			}
			addr := grid.Address{Display: idx[0], Region: idx[1], Cell: idx[2]}

			return withDisplays(cmd, layout, func(rt *Runtime, ds []v1.Display) error {
				switch {
				case addr.Display < 0 || addr.Display >= len(ds):
					return errs.Newf(errs.ErrValidation, "cell.args", "display must be in 0..%d, got %d", len(ds)-1, addr.Display).
						WithTarget("display")
				case !grid.ValidRegion(addr.Region):
					return errs.Newf(errs.ErrValidation, "cell.args", "region must be in 0..%d, got %d", grid.Regions-1, addr.Region).
						WithTarget("region")
				case !grid.ValidCell(addr.Cell):
					return errs.Newf(errs.ErrValidation, "cell.args", "cell must be in 0..%d, got %d", grid.Cells-1, addr.Cell).
						WithTarget("cell")
				}

				d := ds[addr.Display]
				res := cellResult{
					Addr:   addr,
					Center: grid.CellCenter(d, addr.Region, addr.Cell),
					Rect:   grid.CellRect(d, addr.Region, addr.Cell),
					Region: grid.RegionRect(d, addr.Region),
				}
				if rt.Flags.JSONOutput {
					return writeJSON(cmd, res)
				}
				pprint.KV("Address", fmt.Sprintf("display %d, region %d, cell %d", addr.Display, addr.Region, addr.Cell))
				pprint.KV("Center", res.Center.String())
				pprint.KV("Cell rect", res.Rect.String())
				pprint.KV("Region rect", res.Region.String())
				return nil
			})
		},
	}
	layoutFlag(cmd, &layout)
	return cmd
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Newf(errs.ErrValidation, "locate.args", "%s must be a number, got %q", name, s).
			WithTarget(name)
	}
	return v, nil
}
