// Package depinfo parses tool-emitted dependency info files into the set
// of input paths the tool discovered while running, such as included
// headers. Two wire encodings are supported: the make-rule text format
// compilers emit and a length-prefixed binary record format.
package depinfo

import (
	"errors"
	"io/fs"
	"sort"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
)

// Parse reads and decodes the dependency info file the invocation's tool
// was expected to write. A missing file is not an error: a tool with no
// extra inputs to report may simply not emit one, so the result is an
// empty set. Malformed content is an error, because it means the tool's
// own output is suspect.
func Parse(filesystem ports.Filesystem, info domain.DependencyInfo) ([]string, error) {
	data, err := filesystem.ReadFile(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read dependency info"), "path", info.Path)
	}

	var inputs []string
	switch info.Format {
	case domain.DependencyInfoMakefile:
		inputs, err = parseMakefile(data)
	case domain.DependencyInfoBinary:
		inputs, err = parseBinary(data)
	default:
		return nil, zerr.With(domain.ErrDependencyInfoParse, "format", string(info.Format))
	}
	if err != nil {
		return nil, zerr.With(err, "path", info.Path)
	}
	return normalize(inputs), nil
}

// normalize sorts and deduplicates the discovered set so downstream
// comparisons and persisted records are stable.
func normalize(paths []string) []string {
	sort.Strings(paths)
	deduped := paths[:0]
	for i, path := range paths {
		if i == 0 || path != paths[i-1] {
			deduped = append(deduped, path)
		}
	}
	return deduped
}
