// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f9-o/gridwarp/internal/cli/commands"
	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/core/state"
	"github.com/f9-o/gridwarp/pkg/errs"
	"github.com/f9-o/gridwarp/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
var globalFlags struct {
	configFile string
	stateDir   string
	debug      bool
	jsonOutput bool
}

// newRootCmd builds the command tree. The bare command starts an X11
// session, like `gridwarp run`.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridwarp [config]",
		Short: "gridwarp: keyboard-driven pointer navigation",
		Long: `gridwarp moves the mouse pointer from the keyboard. Each display is split
into a 4×4 grid of regions and each region into 5×3 cells; two key presses
warp the pointer to any cell, after which it can click, scroll and nudge.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			commands.AnnotationConfig:    "required",
			commands.AnnotationConfigArg: "true",
		},
		RunE: commands.RunX11,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			pprint.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if cmd.Annotations[commands.AnnotationNoRuntime] != "" ||
				cmd.Name() == "completion" || cmd.Name() == "help" {
				return nil
			}
			return initRuntime(cmd, args)
		},
	}

	root.PersistentFlags().StringVarP(&globalFlags.configFile, "config", "c", "", "Path to config.json (default ./config.json)")
	root.PersistentFlags().StringVar(&globalFlags.stateDir, "state-dir", "", "Directory for the state database and logs (default ~/.gridwarp)")
	root.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug-level logging")
	root.PersistentFlags().BoolVar(&globalFlags.jsonOutput, "json", false, "Output in machine-readable JSON")

	// Show banner before every help screen
	origHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	root.AddCommand(
		commands.NewRunCmd(),
		commands.NewSimCmd(),
		commands.NewDisplaysCmd(),
		commands.NewLocateCmd(),
		commands.NewCellCmd(),
		commands.NewKeysCmd(),
		commands.NewHistoryCmd(),
		commands.NewDoctorCmd(),
		commands.NewInitCmd(),
		commands.NewVersionCmd(),
	)
	return root
}

// Execute runs the CLI. Called by main().
func Execute() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

// run executes root with args and maps the outcome to an exit code.
func run(root *cobra.Command, args []string) int {
	pprint.SetOutput(root.OutOrStdout(), root.ErrOrStderr())
	root.SetArgs(args)
	err := root.Execute()
	if rt, ok := commands.TryFromContext(root.Context()); ok {
		_ = rt.Close()
	}
	if err == nil {
		return 0
	}
	if e := errs.As(err); e != nil {
		pprint.Error("%s", e.UserMessage())
	} else {
		pprint.Error("%s", err)
	}
	return 1
}

// initRuntime loads config, logger, and state before each command runs.
func initRuntime(cmd *cobra.Command, args []string) error {
	path := globalFlags.configFile
	if len(args) > 0 && cmd.Annotations[commands.AnnotationConfigArg] != "" {
		path = args[0]
	}

	var cfg *config.Config
	switch cmd.Annotations[commands.AnnotationConfig] {
	case "required":
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
	case "optional":
		c, err := config.Load(path)
		switch {
		case err == nil:
			cfg = c
		case path == "" && errs.IsCode(err, errs.ErrConfigMissing):
			cfg = config.Default()
		default:
			return err
		}
	default:
		cfg = config.Default()
	}

	home := globalFlags.stateDir
	if home == "" {
		home = config.Home()
	}
	if err := os.MkdirAll(home, 0750); err != nil {
		return errs.Wrap(err, errs.ErrInternal, "runtime.home").WithTarget(home)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(home, "logs", "gridwarp.log")
	}
	log, err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
		Home:   home,
		Debug:  globalFlags.debug,
	})
	if err != nil {
		return errs.Wrap(err, errs.ErrInternal, "runtime.logger").WithTarget(logFile)
	}

	// A missing state database only costs persistence.
	db, err := state.Open(filepath.Join(home, "state.db"))
	if err != nil {
		log.Warn("state database unavailable, sessions will not be persisted",
			"err", errs.Wrap(err, errs.ErrStateRead, "runtime.state"))
	}

	rt := &commands.Runtime{
		Config: cfg,
		Log:    log,
		State:  db,
		Flags: commands.GlobalFlags{
			Debug:      globalFlags.debug,
			JSONOutput: globalFlags.jsonOutput,
			StateDir:   home,
		},
		LogFile: logFile,
	}
	cmd.SetContext(commands.NewContext(cmd.Context(), rt))
	root := cmd.Root()
	if root != cmd {
		root.SetContext(cmd.Context())
	}
	return nil
}
