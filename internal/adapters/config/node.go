package config

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the manifest loader Graft node.
const NodeID graft.ID = "adapter.config"

// DefaultFilename is the manifest name looked up in the working
// directory.
const DefaultFilename = "anvil.yaml"

func init() {
	graft.Register(graft.Node[*Loader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Loader, error) {
			return &Loader{Filename: DefaultFilename}, nil
		},
	})
}
