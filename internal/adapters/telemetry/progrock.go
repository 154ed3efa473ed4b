// Package telemetry provides progress reporting adapters.
package telemetry

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.Tracer = (*Recorder)(nil)

// Recorder implements ports.Tracer using the progrock library, one
// progrock vertex per invocation.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start begins recording a new vertex named for the invocation.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	return ctx, &Vertex{vertex: v}
}

// EmitPlan is informational only; progrock infers the plan from the
// vertices as they appear.
func (r *Recorder) EmitPlan(_ context.Context, _ []string) {}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns a writer capturing standard output.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns a writer capturing error output.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Cached marks the vertex as skipped because it was up to date.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// Complete marks the vertex as finished.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}
