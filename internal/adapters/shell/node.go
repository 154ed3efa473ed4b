package shell

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/anvil-build/anvil/internal/adapters/fs"
	"github.com/anvil-build/anvil/internal/core/ports"
)

const (
	// SpawnerNodeID is the unique identifier for the spawner Graft node.
	SpawnerNodeID graft.ID = "adapter.shell.spawner"
	// BuiltinsNodeID is the unique identifier for the builtin dispatcher Graft node.
	BuiltinsNodeID graft.ID = "adapter.shell.builtins"
)

func init() {
	graft.Register(graft.Node[ports.Spawner]{
		ID:        SpawnerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Spawner, error) {
			return NewSpawner(), nil
		},
	})

	graft.Register(graft.Node[ports.BuiltinRunner]{
		ID:        BuiltinsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (ports.BuiltinRunner, error) {
			filesystem, err := graft.Dep[ports.Filesystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuiltins(filesystem), nil
		},
	})
}
