package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgekit/ghclient/internal/cli"
)

// Set via ldflags at release time.
var (
	version = "dev"
	commit  = ""
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}
