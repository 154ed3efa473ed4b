// Package scheduler orders and executes the invocations of one build,
// re-running only what has become stale.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
	"github.com/anvil-build/anvil/internal/engine/auxfile"
	"github.com/anvil-build/anvil/internal/engine/staleness"
	"github.com/anvil-build/anvil/internal/procctx"
)

// Status represents the state of one invocation during a run.
type Status string

const (
	// StatusPending indicates predecessors have not all finished yet.
	StatusPending Status = "Pending"
	// StatusReady indicates every predecessor succeeded or was skipped.
	StatusReady Status = "Ready"
	// StatusRunning indicates the invocation is executing.
	StatusRunning Status = "Running"
	// StatusSucceeded indicates the invocation ran and exited cleanly.
	StatusSucceeded Status = "Succeeded"
	// StatusFailed indicates the invocation failed, or a predecessor did.
	StatusFailed Status = "Failed"
	// StatusSkipped indicates the invocation was up to date and did not run.
	StatusSkipped Status = "Skipped"
)

// Options configure one run.
type Options struct {
	// Parallelism is the worker pool size. Zero means the available
	// parallelism of the process.
	Parallelism int
	// KeepGoing continues executing independent subgraphs after a
	// failure instead of stopping dispatch.
	KeepGoing bool
}

// Result summarizes a finished run.
type Result struct {
	Statuses []Status
	Executed int
	Skipped  int
	Failed   int
}

// Scheduler executes invocation graphs.
type Scheduler struct {
	spawner      ports.Spawner
	builtins     ports.BuiltinRunner
	store        ports.RecordStore
	tracer       ports.Tracer
	logger       ports.Logger
	clock        clockwork.Clock
	detector     *staleness.Detector
	materializer *auxfile.Materializer
	parser       DependencyInfoParser

	mu       sync.RWMutex
	statuses []Status
}

// DependencyInfoParser resolves one dependency info reference to the
// input paths the tool discovered at run time.
type DependencyInfoParser func(info domain.DependencyInfo) ([]string, error)

// New creates a Scheduler.
func New(
	spawner ports.Spawner,
	builtins ports.BuiltinRunner,
	filesystem ports.Filesystem,
	store ports.RecordStore,
	tracer ports.Tracer,
	logger ports.Logger,
	clock clockwork.Clock,
	parser DependencyInfoParser,
) *Scheduler {
	return &Scheduler{
		spawner:      spawner,
		builtins:     builtins,
		store:        store,
		tracer:       tracer,
		logger:       logger,
		clock:        clock,
		detector:     staleness.NewDetector(filesystem),
		materializer: auxfile.NewMaterializer(filesystem),
		parser:       parser,
	}
}

// Status returns the current state of the invocation at the given graph
// index.
func (s *Scheduler) Status(index int) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.statuses) {
		return ""
	}
	return s.statuses[index]
}

func (s *Scheduler) setStatus(index int, status Status) {
	s.mu.Lock()
	s.statuses[index] = status
	s.mu.Unlock()
}

// Run validates the graph and executes it. Graph errors (duplicate
// outputs are rejected at construction; cycles here) abort before
// anything runs. Invocation failures are collected and joined; with
// fail-fast (the default) no new work is dispatched after the first
// failure, but invocations already running are allowed to finish rather
// than being killed mid-write.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, opts Options) (*Result, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	if opts.Parallelism <= 0 {
		opts.Parallelism = procctx.Current().Parallelism
	}

	s.mu.Lock()
	s.statuses = make([]Status, graph.Len())
	for i := range s.statuses {
		s.statuses[i] = StatusPending
	}
	s.mu.Unlock()

	state := s.newRunState(graph, opts)
	s.tracer.EmitPlan(ctx, state.planNames())

	var group errgroup.Group
	for !state.done() {
		for {
			index, ok := state.next()
			if !ok {
				break
			}
			s.setStatus(index, StatusRunning)
			state.active++
			group.Go(func() error {
				outcome := s.execute(ctx, graph.Invocation(index))
				state.results <- result{index: index, outcome: outcome}
				return nil
			})
		}

		if state.done() {
			break
		}

		select {
		case res := <-state.results:
			s.handleResult(state, res)
		case <-ctx.Done():
			state.cancelled = true
			// Drain invocations that are still running; nothing is
			// forcibly killed, a half-written output must not look
			// complete.
			for state.active > 0 {
				res := <-state.results
				s.handleResult(state, res)
			}
		}
	}
	_ = group.Wait()

	errs := state.errs
	if state.cancelled {
		errs = errors.Join(errs, ctx.Err())
	}
	return s.result(state), errs
}

func (s *Scheduler) result(state *runState) *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := &Result{Statuses: append([]Status(nil), s.statuses...)}
	for _, status := range res.Statuses {
		switch status {
		case StatusSucceeded:
			res.Executed++
		case StatusSkipped:
			res.Skipped++
		case StatusFailed:
			res.Failed++
		}
	}
	return res
}

type outcome struct {
	skipped bool
	err     error
}

type result struct {
	index   int
	outcome outcome
}

type runState struct {
	graph     *domain.Graph
	opts      Options
	inDegree  []int
	ready     []int
	failed    []bool
	finished  []bool
	active    int
	results   chan result
	errs      error
	cancelled bool
}

func (s *Scheduler) newRunState(graph *domain.Graph, opts Options) *runState {
	state := &runState{
		graph:    graph,
		opts:     opts,
		inDegree: make([]int, graph.Len()),
		failed:   make([]bool, graph.Len()),
		finished: make([]bool, graph.Len()),
		results:  make(chan result, opts.Parallelism),
	}
	for index := range graph.Len() {
		state.inDegree[index] = len(graph.Dependencies(index))
		if state.inDegree[index] == 0 {
			state.ready = append(state.ready, index)
			s.setStatus(index, StatusReady)
		}
	}
	return state
}

func (state *runState) planNames() []string {
	names := make([]string, state.graph.Len())
	for index := range names {
		names[index] = state.graph.Invocation(index).Title()
	}
	return names
}

func (state *runState) done() bool {
	return state.active == 0 && !state.dispatchable()
}

func (state *runState) dispatchable() bool {
	if len(state.ready) == 0 {
		return false
	}
	if state.cancelled {
		return false
	}
	if state.errs != nil && !state.opts.KeepGoing {
		return false
	}
	return true
}

// next picks the ready invocation with the lowest insertion index, so
// runs with identical inputs dispatch in the same order every time.
func (state *runState) next() (int, bool) {
	if !state.dispatchable() || state.active >= state.opts.Parallelism {
		return 0, false
	}
	min := 0
	for i := range state.ready {
		if state.ready[i] < state.ready[min] {
			min = i
		}
	}
	index := state.ready[min]
	state.ready = append(state.ready[:min], state.ready[min+1:]...)
	return index, true
}

func (s *Scheduler) handleResult(state *runState, res result) {
	state.active--
	state.finished[res.index] = true

	if res.outcome.err != nil {
		inv := state.graph.Invocation(res.index)
		wrapped := zerr.With(res.outcome.err, "invocation", inv.Title())
		state.errs = errors.Join(state.errs, wrapped)
		s.setStatus(res.index, StatusFailed)
		s.logger.Error(wrapped)
		s.cascadeFailure(state, res.index)
		return
	}

	if res.outcome.skipped {
		s.setStatus(res.index, StatusSkipped)
	} else {
		s.setStatus(res.index, StatusSucceeded)
	}

	for _, dependent := range state.graph.Dependents(res.index) {
		if state.failed[dependent] {
			continue
		}
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
			s.setStatus(dependent, StatusReady)
		}
	}
}

// cascadeFailure marks every transitive dependent of a failed invocation
// as failed without running it. Independent subgraphs are unaffected and
// keep executing when the run continues past failures.
func (s *Scheduler) cascadeFailure(state *runState, index int) {
	state.failed[index] = true
	stack := append([]int(nil), state.graph.Dependents(index)...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if state.failed[next] {
			continue
		}
		state.failed[next] = true
		state.finished[next] = true
		s.setStatus(next, StatusFailed)
		state.removeReady(next)
		stack = append(stack, state.graph.Dependents(next)...)
	}
}

func (state *runState) removeReady(index int) {
	for i, ready := range state.ready {
		if ready == index {
			state.ready = append(state.ready[:i], state.ready[i+1:]...)
			return
		}
	}
}
