package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// newApp assembles the full production stack against a temporary working
// directory, the wiring the graft nodes perform in the binary.
func newApp(t *testing.T, dir string) *app.App {
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
	return app.New(&config.Loader{Filename: config.DefaultFilename}, sched, log)
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - executable: builtin-write-file
    arguments: [greeting.txt, hello]
    outputs: [greeting.txt]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(manifest), 0o644))

	a := newApp(t, dir)
	require.NoError(t, a.Build(context.Background(), scheduler.Options{}))

	got, err := os.ReadFile(filepath.Join(dir, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	// Running again touches nothing.
	assert.NoError(t, a.Build(context.Background(), scheduler.Options{}))
}

func TestBuild_FailureSurfacesAsBuildFailed(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - executable: /bin/sh
    arguments: ["-c", "exit 1"]
    outputs: [never-made.txt]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(manifest), 0o644))

	a := newApp(t, dir)
	err := a.Build(context.Background(), scheduler.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorIs(t, err, domain.ErrExecution)
}

func TestBuild_MissingManifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	a := newApp(t, dir)
	err := a.Build(context.Background(), scheduler.Options{})
	assert.Error(t, err)
}

func TestSetManifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	manifest := `
invocations:
  - logMessage: nothing to do
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(manifest), 0o644))

	a := newApp(t, dir)
	a.SetManifest("custom.yaml")
	assert.NoError(t, a.Build(context.Background(), scheduler.Options{}))
}
