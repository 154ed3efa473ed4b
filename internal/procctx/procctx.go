// Package procctx captures process-wide context as a single immutable
// snapshot: working directory, executable path, environment, and user
// identity. The snapshot is computed exactly once, on first use, and
// passed around explicitly instead of living in mutable globals.
package procctx

import (
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Context is the immutable process snapshot.
type Context struct {
	WorkingDirectory string
	ExecutablePath   string
	Environ          []string
	UserID           int
	GroupID          int
	Hostname         string
	Parallelism      int
}

var capture = sync.OnceValue(func() *Context {
	ctx := &Context{
		Environ:     os.Environ(),
		UserID:      os.Getuid(),
		GroupID:     os.Getgid(),
		Parallelism: runtime.NumCPU(),
	}
	// Lookup failures leave the zero value; callers treat empty as
	// unknown rather than failing the whole process.
	ctx.WorkingDirectory, _ = os.Getwd()
	ctx.ExecutablePath, _ = os.Executable()
	ctx.Hostname, _ = os.Hostname()
	return ctx
})

// Current returns the process snapshot, capturing it on first call.
func Current() *Context {
	return capture()
}

// EnvironmentValue returns the value of a variable in the snapshot's
// environment, with ok=false when unset.
func (c *Context) EnvironmentValue(name string) (string, bool) {
	for _, entry := range c.Environ {
		if k, v, found := strings.Cut(entry, "="); found && k == name {
			return v, true
		}
	}
	return "", false
}

// OverlayEnviron merges overlay variables over a base "KEY=VALUE"
// environment. Overlay values win and the result is sorted, so identical
// invocations always spawn with byte-identical environments.
func OverlayEnviron(base []string, overlay map[string]string) []string {
	merged := make(map[string]string, len(base)+len(overlay))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}
	for k, v := range overlay {
		merged[k] = v
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}
