package scheduler

import (
	"context"
	"sort"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
	"github.com/anvil-build/anvil/internal/procctx"
)

// execute runs a single invocation end to end: staleness check,
// auxiliary file materialization, dispatch through the resolved
// executable, and capture of the newly emitted dependency info.
func (s *Scheduler) execute(ctx context.Context, inv *domain.Invocation) outcome {
	_, vertex := s.tracer.Start(ctx, inv.Title())

	record, err := s.store.Get(inv.Identity())
	if err != nil {
		vertex.Complete(err)
		return outcome{err: err}
	}

	stale, reason := s.detector.IsStale(inv, record)
	if !stale {
		vertex.Cached()
		s.logger.Info("up to date: " + inv.Title())
		return outcome{skipped: true}
	}
	s.logger.Info("running " + inv.Title() + " (" + reason + ")")

	if err := s.materializer.MaterializeAll(inv.AuxiliaryFiles); err != nil {
		vertex.Complete(err)
		return outcome{err: err}
	}

	if err := s.dispatch(ctx, inv, vertex); err != nil {
		vertex.Complete(err)
		return outcome{err: err}
	}

	discovered, err := s.collectDiscoveredInputs(inv)
	if err != nil {
		vertex.Complete(err)
		return outcome{err: err}
	}

	newRecord := domain.InvocationRecord{
		Identity:         inv.Identity(),
		DescriptionHash:  inv.DescriptionHash(),
		DiscoveredInputs: discovered,
		Timestamp:        s.clock.Now(),
	}
	if err := s.store.Put(newRecord); err != nil {
		vertex.Complete(err)
		return outcome{err: err}
	}

	vertex.Complete(nil)
	return outcome{}
}

// dispatch routes the invocation to its resolved executable: builtins run
// in-process, externals are spawned, and a nil executable is a no-op that
// succeeds immediately.
func (s *Scheduler) dispatch(ctx context.Context, inv *domain.Invocation, vertex ports.Vertex) error {
	if inv.Executable == nil {
		return nil
	}

	switch inv.Executable.Kind {
	case domain.ExecutableBuiltin:
		return s.builtins.Run(ctx, inv, vertex.Stdout(), vertex.Stderr())
	case domain.ExecutableExternal:
		return s.spawn(ctx, inv, vertex)
	default:
		return zerr.With(domain.ErrSpawn, "kind", int(inv.Executable.Kind))
	}
}

func (s *Scheduler) spawn(ctx context.Context, inv *domain.Invocation, vertex ports.Vertex) error {
	path := inv.Executable.Path
	args := append([]string{path}, inv.Arguments...)
	env := procctx.OverlayEnviron(procctx.Current().Environ, inv.Environment)

	status, err := s.spawner.Spawn(ctx, ports.Process{
		Path:   path,
		Args:   args,
		Env:    env,
		Dir:    inv.WorkingDirectory,
		Stdout: vertex.Stdout(),
		Stderr: vertex.Stderr(),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSpawn, err.Error()), "path", path)
	}
	if status != 0 {
		return zerr.With(zerr.With(domain.ErrExecution, "path", path), "exit_status", status)
	}
	return nil
}

// collectDiscoveredInputs parses every dependency info file the tool
// emitted and unions the results, dropping the invocation's own outputs.
// An absent file means the tool had nothing extra to report; a malformed
// one fails the invocation, since its output can no longer be trusted.
func (s *Scheduler) collectDiscoveredInputs(inv *domain.Invocation) ([]string, error) {
	if len(inv.DependencyInfo) == 0 {
		return nil, nil
	}

	outputs := make(map[string]bool, len(inv.Outputs))
	for _, output := range inv.Outputs {
		outputs[output] = true
	}

	seen := make(map[string]bool)
	var discovered []string
	for _, info := range inv.DependencyInfo {
		inputs, err := s.parser(info)
		if err != nil {
			return nil, err
		}
		for _, input := range inputs {
			if outputs[input] || seen[input] {
				continue
			}
			seen[input] = true
			discovered = append(discovered, input)
		}
	}
	sort.Strings(discovered)
	return discovered, nil
}
