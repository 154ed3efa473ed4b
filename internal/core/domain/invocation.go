// Package domain contains the core domain models for the invocation graph.
package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ExecutableKind discriminates the two ways an invocation's command can run.
type ExecutableKind int

const (
	// ExecutableExternal is a concrete program path, relative or absolute,
	// spawned as a child process.
	ExecutableExternal ExecutableKind = iota
	// ExecutableBuiltin is a tool implemented inside this process and
	// dispatched by name, never spawned.
	ExecutableBuiltin
)

// BuiltinPrefix marks command strings that resolve to builtin tools.
const BuiltinPrefix = "builtin-"

// Executable identifies what actually runs an invocation. It is a closed
// sum: exactly one of Path (external) or Name (builtin) is set, selected
// by Kind.
type Executable struct {
	Kind ExecutableKind
	// Path is the external program path. Set only for ExecutableExternal.
	Path string
	// Name is the builtin tool name, prefix included so the dispatcher can
	// match on it. Set only for ExecutableBuiltin.
	Name string
}

// ExternalExecutable creates an executable with a known external path.
func ExternalExecutable(path string) Executable {
	return Executable{Kind: ExecutableExternal, Path: path}
}

// BuiltinExecutable creates an executable for a known builtin tool.
func BuiltinExecutable(name string) Executable {
	return Executable{Kind: ExecutableBuiltin, Name: name}
}

// DetermineExecutable classifies an arbitrary command string. A string
// starting with "builtin-" resolves to a builtin, anything else to an
// external path. No existence check is performed; that happens at spawn
// time. The empty string does not resolve and returns ok=false.
func DetermineExecutable(raw string) (Executable, bool) {
	if raw == "" {
		return Executable{}, false
	}
	if strings.HasPrefix(raw, BuiltinPrefix) {
		return BuiltinExecutable(raw), true
	}
	return ExternalExecutable(raw), true
}

// DependencyInfoFormat names a wire encoding for tool-emitted dependency
// records.
type DependencyInfoFormat string

const (
	// DependencyInfoMakefile is the line-oriented make-rule encoding
	// ("out: in in ...") emitted by compilers via -MD and friends.
	DependencyInfoMakefile DependencyInfoFormat = "makefile"
	// DependencyInfoBinary is the length-prefixed binary record encoding
	// emitted by linkers.
	DependencyInfoBinary DependencyInfoFormat = "binary"
)

// DependencyInfo points at a file the executed tool will write, encoding
// inputs discovered only at run time. The record holds no parsed content;
// parsing happens lazily when staleness is evaluated.
type DependencyInfo struct {
	Format DependencyInfoFormat
	Path   string
}

// ChunkKind discriminates auxiliary file chunk variants.
type ChunkKind int

const (
	// ChunkData is literal byte content.
	ChunkData ChunkKind = iota
	// ChunkFile references an existing file whose content is copied verbatim.
	ChunkFile
)

// Chunk is one piece of an auxiliary file's content. Closed sum: Data is
// set for ChunkData, File for ChunkFile.
type Chunk struct {
	Kind ChunkKind
	Data []byte
	File string
}

// DataChunk creates a chunk of literal bytes.
func DataChunk(data []byte) Chunk {
	return Chunk{Kind: ChunkData, Data: data}
}

// FileChunk creates a chunk that copies the content of an existing file.
func FileChunk(path string) Chunk {
	return Chunk{Kind: ChunkFile, File: path}
}

// AuxiliaryFile describes a file the build tool itself must create, with
// exact content, before the owning invocation runs. Chunks are concatenated
// in order to form the final content.
type AuxiliaryFile struct {
	Path       string
	Chunks     []Chunk
	Executable bool
}

// AuxiliaryFileData creates an auxiliary file with a single literal chunk.
func AuxiliaryFileData(path string, data []byte, executable bool) AuxiliaryFile {
	return AuxiliaryFile{Path: path, Chunks: []Chunk{DataChunk(data)}, Executable: executable}
}

// AuxiliaryFileFrom creates an auxiliary file copied from an existing file.
func AuxiliaryFileFrom(path, source string, executable bool) AuxiliaryFile {
	return AuxiliaryFile{Path: path, Chunks: []Chunk{FileChunk(source)}, Executable: executable}
}

// Invocation is one schedulable unit of build work: a command to run,
// the files it reads and writes, and the ordering edges it participates
// in. Invocations are constructed once per build graph generation and are
// read-only afterwards.
type Invocation struct {
	// Executable is nil for no-op invocations, which succeed without
	// running anything.
	Executable       *Executable
	Arguments        []string
	Environment      map[string]string
	WorkingDirectory string

	// Inputs are paths whose modification must trigger re-execution.
	// Outputs are the files this invocation is solely responsible for
	// producing; no two invocations in a graph may declare the same output.
	Inputs  []string
	Outputs []string

	// PhonyInputs order the invocation after their producers but their
	// absence on disk is not an error and never triggers staleness.
	PhonyInputs []string

	// InputDependencies must be up to date before this invocation starts
	// but are not command-line inputs. OrderDependencies are weaker still:
	// ordering only, no staleness implication.
	InputDependencies []string
	OrderDependencies []string

	DependencyInfo []DependencyInfo
	AuxiliaryFiles []AuxiliaryFile

	LogMessage           string
	ShowEnvironmentInLog bool

	// CreatesProductStructure marks invocations that create a top-level
	// product container rather than a regular file.
	CreatesProductStructure bool
}

// DescriptionHash returns a stable hash of everything that defines how the
// invocation runs: executable, arguments, environment, and working
// directory. A changed flag or variable changes the hash, which makes the
// invocation stale even when no file changed.
func (i *Invocation) DescriptionHash() string {
	h := xxhash.New()
	if i.Executable != nil {
		switch i.Executable.Kind {
		case ExecutableExternal:
			_, _ = h.WriteString("external\x00" + i.Executable.Path)
		case ExecutableBuiltin:
			_, _ = h.WriteString("builtin\x00" + i.Executable.Name)
		}
	}
	_, _ = h.Write([]byte{0})
	for _, arg := range i.Arguments {
		_, _ = h.WriteString(arg)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	keys := make([]string, 0, len(i.Environment))
	for k := range i.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{'='})
		_, _ = h.WriteString(i.Environment[k])
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(i.WorkingDirectory)

	return fmt.Sprintf("%016x", h.Sum64())
}

// Identity keys the invocation in the incremental-state store. Invocations
// are identified by their sorted output set; an invocation with no outputs
// falls back to its description hash.
func (i *Invocation) Identity() string {
	if len(i.Outputs) == 0 {
		return "desc:" + i.DescriptionHash()
	}
	outputs := make([]string, len(i.Outputs))
	copy(outputs, i.Outputs)
	sort.Strings(outputs)
	return strings.Join(outputs, "\x00")
}

// Title returns the invocation's display name for logs and progress
// reporting.
func (i *Invocation) Title() string {
	if i.LogMessage != "" {
		return i.LogMessage
	}
	if i.Executable == nil {
		return "(no-op)"
	}
	switch i.Executable.Kind {
	case ExecutableBuiltin:
		return i.Executable.Name
	default:
		return i.Executable.Path
	}
}
