package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/anvil-build/anvil/internal/adapters/config" //nolint:depguard // Wired in app layer
	"github.com/anvil-build/anvil/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"github.com/anvil-build/anvil/internal/core/ports"
	"github.com/anvil-build/anvil/internal/engine/scheduler"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[*config.Loader](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, sched, log), nil
		},
	})
}
