package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-build/anvil/internal/core/domain"
)

func TestDetermineExecutable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
		kind domain.ExecutableKind
	}{
		{name: "empty string does not resolve", raw: "", ok: false},
		{name: "builtin prefix resolves to builtin", raw: "builtin-copy", ok: true, kind: domain.ExecutableBuiltin},
		{name: "bare prefix is still a builtin name", raw: "builtin-", ok: true, kind: domain.ExecutableBuiltin},
		{name: "absolute path is external", raw: "/usr/bin/cc", ok: true, kind: domain.ExecutableExternal},
		{name: "relative name is external", raw: "cc", ok: true, kind: domain.ExecutableExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exe, ok := domain.DetermineExecutable(tt.raw)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.kind, exe.Kind)
			switch tt.kind {
			case domain.ExecutableBuiltin:
				// The prefix is retained so the dispatcher can match on it.
				assert.Equal(t, tt.raw, exe.Name)
				assert.Empty(t, exe.Path)
			case domain.ExecutableExternal:
				assert.Equal(t, tt.raw, exe.Path)
				assert.Empty(t, exe.Name)
			}
		})
	}
}

func TestInvocation_DescriptionHash(t *testing.T) {
	exe := domain.ExternalExecutable("/usr/bin/cc")
	base := func() *domain.Invocation {
		return &domain.Invocation{
			Executable:       &exe,
			Arguments:        []string{"-c", "a.c", "-o", "a.o"},
			Environment:      map[string]string{"LANG": "C"},
			WorkingDirectory: "/src",
		}
	}

	t.Run("stable for identical descriptions", func(t *testing.T) {
		assert.Equal(t, base().DescriptionHash(), base().DescriptionHash())
	})

	t.Run("changes with arguments", func(t *testing.T) {
		changed := base()
		changed.Arguments = []string{"-c", "a.c", "-O2", "-o", "a.o"}
		assert.NotEqual(t, base().DescriptionHash(), changed.DescriptionHash())
	})

	t.Run("changes with environment", func(t *testing.T) {
		changed := base()
		changed.Environment = map[string]string{"LANG": "C.UTF-8"}
		assert.NotEqual(t, base().DescriptionHash(), changed.DescriptionHash())
	})

	t.Run("changes with working directory", func(t *testing.T) {
		changed := base()
		changed.WorkingDirectory = "/elsewhere"
		assert.NotEqual(t, base().DescriptionHash(), changed.DescriptionHash())
	})

	t.Run("insensitive to environment map order", func(t *testing.T) {
		a := base()
		a.Environment = map[string]string{"A": "1", "B": "2", "C": "3"}
		b := base()
		b.Environment = map[string]string{"C": "3", "B": "2", "A": "1"}
		assert.Equal(t, a.DescriptionHash(), b.DescriptionHash())
	})

	t.Run("argument boundaries are not ambiguous", func(t *testing.T) {
		a := base()
		a.Arguments = []string{"ab", "c"}
		b := base()
		b.Arguments = []string{"a", "bc"}
		assert.NotEqual(t, a.DescriptionHash(), b.DescriptionHash())
	})
}

func TestInvocation_Identity(t *testing.T) {
	t.Run("identity follows sorted outputs", func(t *testing.T) {
		a := &domain.Invocation{Outputs: []string{"b.o", "a.o"}}
		b := &domain.Invocation{Outputs: []string{"a.o", "b.o"}}
		assert.Equal(t, a.Identity(), b.Identity())
	})

	t.Run("no outputs falls back to description hash", func(t *testing.T) {
		exe := domain.ExternalExecutable("touch")
		inv := &domain.Invocation{Executable: &exe, Arguments: []string{"stamp"}}
		assert.Equal(t, "desc:"+inv.DescriptionHash(), inv.Identity())
	})
}

func TestAuxiliaryFileConstructors(t *testing.T) {
	data := domain.AuxiliaryFileData("/tmp/gen.h", []byte("#define X 1\n"), false)
	require.Len(t, data.Chunks, 1)
	assert.Equal(t, domain.ChunkData, data.Chunks[0].Kind)

	from := domain.AuxiliaryFileFrom("/tmp/script.sh", "/src/template.sh", true)
	require.Len(t, from.Chunks, 1)
	assert.Equal(t, domain.ChunkFile, from.Chunks[0].Kind)
	assert.True(t, from.Executable)
}
