// Package app implements the application layer for anvil.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/adapters/config"
	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
	"github.com/anvil-build/anvil/internal/engine/scheduler"
)

// App wires the manifest loader and the scheduler into the build
// operation the CLI exposes.
type App struct {
	loader    *config.Loader
	scheduler *scheduler.Scheduler
	logger    ports.Logger
}

// New creates a new App instance.
func New(loader *config.Loader, sched *scheduler.Scheduler, logger ports.Logger) *App {
	return &App{
		loader:    loader,
		scheduler: sched,
		logger:    logger,
	}
}

// Build loads the manifest from the working directory and executes the
// invocation graph.
func (a *App) Build(ctx context.Context, opts scheduler.Options) error {
	graph, err := a.loader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	result, err := a.scheduler.Run(ctx, graph, opts)
	if err != nil {
		if result != nil && result.Failed > 0 {
			return errors.Join(domain.ErrBuildFailed, err)
		}
		return err
	}

	a.logger.Info(fmt.Sprintf("build finished: %d executed, %d up to date",
		result.Executed, result.Skipped))
	return nil
}

// SetManifest overrides the manifest filename, used by the --manifest
// flag.
func (a *App) SetManifest(filename string) {
	a.loader.Filename = filename
}
