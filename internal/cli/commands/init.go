// gridwarp init: write a default config.json.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

func NewInitCmd() *cobra.Command {
	var targetPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.json in the current (or specified) directory",
		Example: `  gridwarp init
  gridwarp init --path ~/.config/gridwarp`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  map[string]string{AnnotationNoRuntime: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, config.DefaultPath)
			if _, err := os.Stat(outFile); err == nil && !force {
				return errs.Newf(errs.ErrValidation, "init", "%s already exists", outFile).
					WithTarget(outFile).
					WithAdvice("delete it or pass --force to overwrite")
			}

			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return errs.Wrap(err, errs.ErrInternal, "init.mkdir").WithTarget(targetPath)
			}
			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return errs.Wrap(err, errs.ErrInternal, "init.write").WithTarget(outFile)
			}

			pprint.Success("Created %s", outFile)
			pprint.Info("Edit the bindings, then run: gridwarp sim %s", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for config.json")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.json")
	return cmd
}
