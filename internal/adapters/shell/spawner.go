// Package shell provides the process-spawn adapter and the builtin tool
// dispatcher.
package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.Spawner = (*Spawner)(nil)

// Spawner implements ports.Spawner using os/exec.
type Spawner struct{}

// NewSpawner creates a new Spawner.
func NewSpawner() *Spawner {
	return &Spawner{}
}

// Spawn starts the described process and blocks until it exits. A start
// failure (program missing, not executable) returns status -1 and an
// error; a process that ran and exited non-zero returns its status with
// a nil error.
func (s *Spawner) Spawn(ctx context.Context, p ports.Process) (int, error) {
	path := p.Path
	// os/exec resolves relative paths against the parent's working
	// directory, not cmd.Dir, so anchor them to the invocation's
	// directory here. Bare names still go through PATH lookup.
	if p.Dir != "" && !filepath.IsAbs(path) && strings.ContainsRune(path, os.PathSeparator) {
		path = filepath.Join(p.Dir, path)
	}

	cmd := exec.CommandContext(ctx, path) //nolint:gosec // Invocation-provided command
	if len(p.Args) > 0 {
		cmd.Args = p.Args
	}
	cmd.Env = p.Env
	cmd.Dir = p.Dir
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	if err := cmd.Start(); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start process"), "path", p.Path)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.With(zerr.Wrap(err, "failed waiting for process"), "path", p.Path)
	}

	return 0, nil
}
