package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/anvil-build/anvil/internal/core/domain"
)

// Loader reads invocation manifests from disk.
type Loader struct {
	Filename string
}

// Load reads the manifest from the given working directory and returns
// the invocation graph. Duplicate outputs are rejected here; cycle
// detection happens when the scheduler validates the graph.
func (l *Loader) Load(cwd string) (*domain.Graph, error) {
	return LoadFile(filepath.Join(cwd, l.Filename))
}

// LoadFile reads a manifest file and returns the invocation graph.
func LoadFile(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	graph := domain.NewGraph()
	for index, dto := range manifest.Invocations {
		inv, err := buildInvocation(dto)
		if err != nil {
			return nil, zerr.With(err, "invocation_index", index)
		}
		if err := graph.Add(inv); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

func buildInvocation(dto InvocationDTO) (*domain.Invocation, error) {
	inv := &domain.Invocation{
		Arguments:               dto.Arguments,
		Environment:             dto.Environment,
		WorkingDirectory:        dto.WorkingDirectory,
		Inputs:                  dto.Inputs,
		Outputs:                 dto.Outputs,
		PhonyInputs:             dto.PhonyInputs,
		InputDependencies:       dto.InputDependencies,
		OrderDependencies:       dto.OrderDependencies,
		LogMessage:              dto.LogMessage,
		ShowEnvironmentInLog:    dto.ShowEnvironmentInLog,
		CreatesProductStructure: dto.CreatesProductStructure,
	}

	// An empty executable is a deliberate no-op invocation, used for
	// pure ordering entries.
	if dto.Executable != "" {
		executable, ok := domain.DetermineExecutable(dto.Executable)
		if !ok {
			return nil, zerr.With(zerr.New("unresolvable executable"), "executable", dto.Executable)
		}
		inv.Executable = &executable
	}

	for _, info := range dto.DependencyInfo {
		format, err := parseFormat(info.Format)
		if err != nil {
			return nil, err
		}
		inv.DependencyInfo = append(inv.DependencyInfo, domain.DependencyInfo{
			Format: format,
			Path:   info.Path,
		})
	}

	for _, file := range dto.AuxiliaryFiles {
		aux, err := buildAuxiliaryFile(file)
		if err != nil {
			return nil, err
		}
		inv.AuxiliaryFiles = append(inv.AuxiliaryFiles, aux)
	}

	return inv, nil
}

func parseFormat(raw string) (domain.DependencyInfoFormat, error) {
	switch format := domain.DependencyInfoFormat(raw); format {
	case domain.DependencyInfoMakefile, domain.DependencyInfoBinary:
		return format, nil
	default:
		return "", zerr.With(zerr.New("unknown dependency info format"), "format", raw)
	}
}

func buildAuxiliaryFile(dto AuxiliaryFileDTO) (domain.AuxiliaryFile, error) {
	aux := domain.AuxiliaryFile{
		Path:       dto.Path,
		Executable: dto.Executable,
	}
	for _, chunk := range dto.Chunks {
		switch {
		case chunk.Data != "" && chunk.File != "":
			return domain.AuxiliaryFile{}, zerr.With(
				zerr.New("auxiliary file chunk sets both data and file"), "path", dto.Path)
		case chunk.File != "":
			aux.Chunks = append(aux.Chunks, domain.FileChunk(chunk.File))
		default:
			aux.Chunks = append(aux.Chunks, domain.DataChunk([]byte(chunk.Data)))
		}
	}
	return aux, nil
}
