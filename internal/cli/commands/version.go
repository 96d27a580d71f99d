// gridwarp version: print build and grid information.
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/grid"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// backends lists the platform adapters compiled into this binary.
var backends = []string{"x11", "sim"}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print gridwarp version information",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  map[string]string{AnnotationNoRuntime: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			geometry := fmt.Sprintf("%dx%d regions, %dx%d cells",
				grid.RegionsX, grid.RegionsY, grid.CellsX, grid.CellsY)
			platform := runtime.GOOS + "/" + runtime.GOARCH

			if json, _ := cmd.Root().PersistentFlags().GetBool("json"); json {
				return writeJSON(cmd, map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
					"go_version": runtime.Version(),
					"os_arch":    platform,
					"grid":       geometry,
				})
			}

			pprint.PrintBanner(Version, BuildDate)
			for _, kv := range [][2]string{
				{"Version", Version},
				{"Commit", Commit},
				{"Built", BuildDate},
				{"Go", runtime.Version()},
				{"Platform", platform},
				{"Grid", geometry},
				{"Backends", fmt.Sprint(backends)},
			} {
				pprint.KV(fmt.Sprintf("%-9s", kv[0]), kv[1])
			}
			return nil
		},
	}
}
