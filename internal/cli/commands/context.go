// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"
	"errors"

	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/core/logger"
	"github.com/f9-o/gridwarp/internal/core/state"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "gridwarp.runtime"

// Command annotations read by the root's PersistentPreRunE.
const (
	// AnnotationConfig is "required" or "optional". Commands without it run
	// on the built-in defaults.
	AnnotationConfig = "gridwarp/config"
	// AnnotationConfigArg marks commands whose first positional argument is
	// the config path.
	AnnotationConfigArg = "gridwarp/config-arg"
	// AnnotationNoRuntime skips runtime setup entirely.
	AnnotationNoRuntime = "gridwarp/no-runtime"
)

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	Debug      bool
	JSONOutput bool
	StateDir   string
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config *config.Config
	Log    *logger.Logger
	// State is nil when the state database could not be opened.
	State *state.DB
	Flags GlobalFlags

	// LogFile is where the logger appends, kept so a command can rebuild
	// the logger with different sinks.
	LogFile string
}

// Close releases the state database and the logger.
func (rt *Runtime) Close() error {
	var errList []error
	if rt.State != nil {
		errList = append(errList, rt.State.Close())
		rt.State = nil
	}
	if rt.Log != nil {
		errList = append(errList, rt.Log.Close())
	}
	return errors.Join(errList...)
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("gridwarp: Runtime not found in context, missing PersistentPreRunE?")
	}
	return rt
}

// TryFromContext is FromContext without the panic.
func TryFromContext(ctx context.Context) (*Runtime, bool) {
	if ctx == nil {
		return nil, false
	}
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	return rt, ok && rt != nil
}
