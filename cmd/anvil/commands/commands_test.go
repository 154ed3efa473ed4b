package commands_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-build/anvil/cmd/anvil/commands"
	"github.com/anvil-build/anvil/internal/adapters/config"
	"github.com/anvil-build/anvil/internal/adapters/fs"
	"github.com/anvil-build/anvil/internal/adapters/logger"
	"github.com/anvil-build/anvil/internal/adapters/shell"
	"github.com/anvil-build/anvil/internal/adapters/store"
	"github.com/anvil-build/anvil/internal/adapters/telemetry"
	"github.com/anvil-build/anvil/internal/app"
	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/engine/depinfo"
	"github.com/anvil-build/anvil/internal/engine/scheduler"
)

func newCLI(t *testing.T, dir string) *commands.CLI {
	t.Helper()

	filesystem := fs.New()
	recordStore, err := store.NewStore(filepath.Join(dir, ".anvil", "state.json"))
	require.NoError(t, err)

	log := logger.New()
	log.SetOutput(io.Discard)

	sched := scheduler.New(
		shell.NewSpawner(),
		shell.NewBuiltins(filesystem),
		filesystem,
		recordStore,
		telemetry.NewNoopTracer(),
		log,
		clockwork.NewRealClock(),
		func(info domain.DependencyInfo) ([]string, error) {
			return depinfo.Parse(filesystem, info)
		},
	)
	return commands.New(app.New(&config.Loader{Filename: config.DefaultFilename}, sched, log))
}

func TestVersionCommand(t *testing.T) {
	cli := newCLI(t, t.TempDir())
	cli.SetArgs([]string{"version"})
	assert.NoError(t, cli.Execute(context.Background()))
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - executable: builtin-mkdir
    arguments: [out]
    outputs: [out]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(manifest), 0o644))

	cli := newCLI(t, dir)
	cli.SetArgs([]string{"build", "-j", "2"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.DirExists(t, filepath.Join(dir, "out"))
}

func TestBuildCommand_ManifestFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - logMessage: nothing to do
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte(manifest), 0o644))

	cli := newCLI(t, dir)
	cli.SetArgs([]string{"--manifest", "other.yaml", "build"})
	assert.NoError(t, cli.Execute(context.Background()))
}

func TestBuildCommand_FailurePropagates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - executable: /bin/sh
    arguments: ["-c", "exit 7"]
    outputs: [out.txt]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(manifest), 0o644))

	cli := newCLI(t, dir)
	cli.SetArgs([]string{"build", "--keep-going"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExecution)
}
