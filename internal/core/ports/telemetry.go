package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer reports build progress, one vertex per invocation.
type Tracer interface {
	// Start creates a vertex for a unit of work.
	Start(ctx context.Context, name string) (context.Context, Vertex)
	// EmitPlan signals the set of invocations planned for execution.
	EmitPlan(ctx context.Context, names []string)
	// Close flushes the recording session.
	Close() error
}

// Vertex represents one invocation's progress entry.
type Vertex interface {
	// Stdout returns a writer capturing the invocation's standard output.
	Stdout() io.Writer
	// Stderr returns a writer capturing the invocation's error output.
	Stderr() io.Writer
	// Cached marks the vertex as skipped because it was up to date.
	Cached()
	// Complete marks the vertex as finished, with err nil on success.
	Complete(err error)
}
