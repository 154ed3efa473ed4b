// Package main is the entry point for the anvil build tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/anvil-build/anvil/cmd/anvil/commands"
	"github.com/anvil-build/anvil/internal/app"
	_ "github.com/anvil-build/anvil/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, _, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}

	cli := commands.New(application)
	if err := cli.Execute(ctx); err != nil {
		// zerr prints the error report with metadata when using %+v.
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
