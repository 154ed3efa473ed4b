// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/anvil-build/anvil/internal/adapters/config"
	_ "github.com/anvil-build/anvil/internal/adapters/fs"
	_ "github.com/anvil-build/anvil/internal/adapters/logger"
	_ "github.com/anvil-build/anvil/internal/adapters/shell"
	_ "github.com/anvil-build/anvil/internal/adapters/store"
	_ "github.com/anvil-build/anvil/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/anvil-build/anvil/internal/app"
	_ "github.com/anvil-build/anvil/internal/engine/scheduler"
)
