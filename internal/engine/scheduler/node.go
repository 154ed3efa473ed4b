package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonboulle/clockwork"

	"github.com/anvil-build/anvil/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"github.com/anvil-build/anvil/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/anvil-build/anvil/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"github.com/anvil-build/anvil/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"github.com/anvil-build/anvil/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
	"github.com/anvil-build/anvil/internal/engine/depinfo"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.SpawnerNodeID,
			shell.BuiltinsNodeID,
			fs.NodeID,
			store.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			spawner, err := graft.Dep[ports.Spawner](ctx)
			if err != nil {
				return nil, err
			}

			builtins, err := graft.Dep[ports.BuiltinRunner](ctx)
			if err != nil {
				return nil, err
			}

			filesystem, err := graft.Dep[ports.Filesystem](ctx)
			if err != nil {
				return nil, err
			}

			recordStore, err := graft.Dep[ports.RecordStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			parser := func(info domain.DependencyInfo) ([]string, error) {
				return depinfo.Parse(filesystem, info)
			}

			return New(
				spawner,
				builtins,
				filesystem,
				recordStore,
				tracer,
				log,
				clockwork.NewRealClock(),
				parser,
			), nil
		},
	})
}
