// gridwarp main entry point: set build metadata, hand over to the CLI.
package main

import (
	"github.com/f9-o/gridwarp/internal/cli"
	"github.com/f9-o/gridwarp/internal/cli/commands"
)

// Build-time variables injected via:
//
//	go build -ldflags "-X main.version=v0.3.0 -X main.commit=abc1234 -X main.buildDate=2026-01-01"
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.BuildDate = buildDate

	cli.Execute()
}
