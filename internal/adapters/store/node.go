package store

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/anvil-build/anvil/internal/core/ports"
)

// NodeID is the unique identifier for the record store Graft node.
const NodeID graft.ID = "adapter.record_store"

// DefaultPath is where the incremental state lives relative to the
// working directory.
const DefaultPath = ".anvil/state.json"

func init() {
	graft.Register(graft.Node[ports.RecordStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RecordStore, error) {
			return NewStore(DefaultPath)
		},
	})
}
