// Package main provides the entry point for the relpack CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/relpack/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "dev"     //nolint:gochecknoglobals // set by ldflags
	commit  = "none"    //nolint:gochecknoglobals // set by ldflags
	date    = "unknown" //nolint:gochecknoglobals // set by ldflags
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	err := cli.Execute(context.Background(), info)
	os.Exit(cli.ExitCodeForError(err))
}
