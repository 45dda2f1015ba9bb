package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/jigsaw/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		code := cli.ExitCode(err)
		if code != cli.ExitCanceled {
			cli.PrintError(err)
		}
		os.Exit(code)
	}
}
