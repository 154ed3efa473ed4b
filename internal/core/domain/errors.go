package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateOutput is returned when two invocations declare the same
	// output path. This is a graph-construction error, nothing has run yet.
	ErrDuplicateOutput = zerr.New("duplicate output")

	// ErrDependencyCycle is returned when the invocation graph contains a
	// cycle through input, input-dependency, or order-dependency edges.
	ErrDependencyCycle = zerr.New("dependency cycle")

	// ErrSpawn is returned when an invocation's executable cannot be
	// started at all.
	ErrSpawn = zerr.New("failed to spawn executable")

	// ErrExecution is returned when a spawned executable exits non-zero.
	ErrExecution = zerr.New("command failed")

	// ErrUnknownBuiltin is returned when a builtin executable name has no
	// registered implementation.
	ErrUnknownBuiltin = zerr.New("unknown builtin tool")

	// ErrDependencyInfoParse is returned when a tool-emitted dependency
	// info file is malformed. The tool's own output is suspect, so the
	// invocation fails rather than silently losing discovered inputs.
	ErrDependencyInfoParse = zerr.New("malformed dependency info")

	// ErrAuxiliaryFile is returned when an auxiliary file cannot be
	// materialized before its invocation runs.
	ErrAuxiliaryFile = zerr.New("failed to materialize auxiliary file")

	// ErrBuildFailed aggregates per-invocation failures at the end of a run.
	ErrBuildFailed = zerr.New("build failed")
)
