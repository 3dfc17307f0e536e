// cmd/lmbench/main.go
package main

import (
	cmd "github.com/mwiater/lmbench/internal/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Indirection points for tests.
var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the lmbench CLI application by delegating to the
// cobra root command defined in the commands package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
