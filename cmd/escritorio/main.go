// Package main provides the entry point for the escritorio CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/curillo/escritorio/internal/cli"
)

// Build information set via ldflags.
//
//nolint:gochecknoglobals // Populated by the linker
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(ctx, info); err != nil {
		os.Exit(1)
	}
}
