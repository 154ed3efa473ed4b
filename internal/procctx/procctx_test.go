package procctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent_SnapshotIsStable(t *testing.T) {
	first := Current()
	second := Current()
	assert.Same(t, first, second, "the snapshot is captured once")
	assert.Positive(t, first.Parallelism)
}

func TestEnvironmentValue(t *testing.T) {
	ctx := &Context{Environ: []string{"PATH=/usr/bin", "EMPTY=", "NOEQ"}}

	value, ok := ctx.EnvironmentValue("PATH")
	require.True(t, ok)
	assert.Equal(t, "/usr/bin", value)

	value, ok = ctx.EnvironmentValue("EMPTY")
	require.True(t, ok)
	assert.Empty(t, value)

	_, ok = ctx.EnvironmentValue("MISSING")
	assert.False(t, ok)

	_, ok = ctx.EnvironmentValue("NOEQ")
	assert.False(t, ok, "entries without '=' are not variables")
}

func TestOverlayEnviron(t *testing.T) {
	base := []string{"PATH=/usr/bin", "LANG=C"}

	t.Run("overlay wins over base", func(t *testing.T) {
		env := OverlayEnviron(base, map[string]string{"LANG": "C.UTF-8"})
		assert.Equal(t, []string{"LANG=C.UTF-8", "PATH=/usr/bin"}, env)
	})

	t.Run("result is sorted", func(t *testing.T) {
		env := OverlayEnviron(base, map[string]string{"A": "1", "Z": "26"})
		assert.Equal(t, []string{"A=1", "LANG=C", "PATH=/usr/bin", "Z=26"}, env)
	})

	t.Run("empty overlay keeps base", func(t *testing.T) {
		env := OverlayEnviron(base, nil)
		assert.Equal(t, []string{"LANG=C", "PATH=/usr/bin"}, env)
	})
}
