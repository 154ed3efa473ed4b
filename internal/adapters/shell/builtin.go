package shell

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.BuiltinRunner = (*Builtins)(nil)

// Builtins dispatches invocations whose executable names a tool
// implemented inside this process. The set of tools is fixed; an
// unrecognized name fails the invocation.
type Builtins struct {
	fs ports.Filesystem
}

// NewBuiltins creates the builtin tool dispatcher.
func NewBuiltins(filesystem ports.Filesystem) *Builtins {
	return &Builtins{fs: filesystem}
}

// Run executes the builtin named by the invocation's executable.
func (b *Builtins) Run(_ context.Context, inv *domain.Invocation, stdout, _ io.Writer) error {
	if inv.Executable == nil || inv.Executable.Kind != domain.ExecutableBuiltin {
		return zerr.New("invocation does not name a builtin tool")
	}

	name := inv.Executable.Name
	args := resolveArguments(inv.WorkingDirectory, inv.Arguments)

	switch name {
	case "builtin-copy":
		return b.copy(args, stdout)
	case "builtin-mkdir":
		return b.mkdir(args)
	case "builtin-symlink":
		return b.symlink(args)
	case "builtin-write-file":
		return b.writeFile(inv.WorkingDirectory, inv.Arguments)
	default:
		return zerr.With(domain.ErrUnknownBuiltin, "name", name)
	}
}

// copy copies each source to the destination, the last argument. With
// multiple sources the destination must be an existing directory.
func (b *Builtins) copy(args []string, stdout io.Writer) error {
	if len(args) < 2 {
		return zerr.New("builtin-copy requires at least a source and a destination")
	}
	sources, destination := args[:len(args)-1], args[len(args)-1]

	destDir := false
	if info, err := b.fs.Stat(destination); err == nil && info.IsDir() {
		destDir = true
	}
	if len(sources) > 1 && !destDir {
		return zerr.With(zerr.New("destination of a multi-source copy must be a directory"), "destination", destination)
	}

	for _, source := range sources {
		target := destination
		if destDir {
			target = filepath.Join(destination, filepath.Base(source))
		}
		if err := b.fs.CopyFile(source, target); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "copied %s -> %s\n", source, target)
	}
	return nil
}

func (b *Builtins) mkdir(args []string) error {
	if len(args) == 0 {
		return zerr.New("builtin-mkdir requires at least one directory")
	}
	for _, dir := range args {
		if err := b.fs.MkdirAll(dir); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builtins) symlink(args []string) error {
	if len(args) != 2 {
		return zerr.New("builtin-symlink requires a target and a link path")
	}
	target, link := args[0], args[1]

	// Recreate the link when it already exists but points elsewhere.
	if existing, err := b.fs.Readlink(link); err == nil && existing == target {
		return nil
	}
	return b.fs.Symlink(target, link)
}

// writeFile writes literal content to a path: first argument the path,
// the rest joined by spaces as content.
func (b *Builtins) writeFile(workingDirectory string, args []string) error {
	if len(args) < 1 {
		return zerr.New("builtin-write-file requires a path")
	}
	path := resolveArgument(workingDirectory, args[0])
	content := strings.Join(args[1:], " ")
	return b.fs.WriteFileAtomic(path, []byte(content), false)
}

func resolveArguments(workingDirectory string, args []string) []string {
	resolved := make([]string, len(args))
	for i, arg := range args {
		resolved[i] = resolveArgument(workingDirectory, arg)
	}
	return resolved
}

func resolveArgument(workingDirectory, arg string) string {
	if workingDirectory == "" || filepath.IsAbs(arg) || strings.HasPrefix(arg, "-") {
		return arg
	}
	return filepath.Join(workingDirectory, arg)
}
