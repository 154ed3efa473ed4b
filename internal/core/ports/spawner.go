package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=spawner.go -destination=mocks/mock_spawner.go -package=mocks

// Process describes one external process to spawn: the resolved program
// path, its full argument vector (Args[0] included), the complete
// environment in "KEY=VALUE" form, and the working directory.
type Process struct {
	Path   string
	Args   []string
	Env    []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Spawner is the process-spawn capability. Spawn starts the process and
// blocks until it exits, returning the exit status. A non-nil error with
// status -1 means the process could not be started at all; a non-zero
// status with nil error means it ran and failed.
type Spawner interface {
	Spawn(ctx context.Context, p Process) (int, error)
}
