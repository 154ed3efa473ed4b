package telemetry

import (
	"context"
	"io"

	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.Tracer = (*NoopTracer)(nil)

// NoopTracer is a no-op implementation of ports.Tracer.
type NoopTracer struct{}

// NewNoopTracer creates a new NoopTracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// Start creates a no-op vertex.
func (t *NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, NoopVertex{}
}

// EmitPlan does nothing.
func (t *NoopTracer) EmitPlan(_ context.Context, _ []string) {}

// Close does nothing.
func (t *NoopTracer) Close() error { return nil }

// NoopVertex is a no-op implementation of ports.Vertex.
type NoopVertex struct{}

// Stdout returns a writer that discards everything.
func (NoopVertex) Stdout() io.Writer { return io.Discard }

// Stderr returns a writer that discards everything.
func (NoopVertex) Stderr() io.Writer { return io.Discard }

// Cached does nothing.
func (NoopVertex) Cached() {}

// Complete does nothing.
func (NoopVertex) Complete(error) {}
