// Package config loads the invocation manifest that drives a build.
package config

// Manifest is the top level structure of an anvil.yaml file. It is the
// serialized form of what the surrounding tool's project model produces:
// a flat list of invocations whose ordering is derived from the paths
// they declare, not from the order they appear in.
type Manifest struct {
	Version     string          `yaml:"version"`
	Invocations []InvocationDTO `yaml:"invocations"`
}

// InvocationDTO is one invocation as written in the manifest.
type InvocationDTO struct {
	Executable       string            `yaml:"executable"`
	Arguments        []string          `yaml:"arguments"`
	Environment      map[string]string `yaml:"environment"`
	WorkingDirectory string            `yaml:"workingDirectory"`

	Inputs            []string `yaml:"inputs"`
	Outputs           []string `yaml:"outputs"`
	PhonyInputs       []string `yaml:"phonyInputs"`
	InputDependencies []string `yaml:"inputDependencies"`
	OrderDependencies []string `yaml:"orderDependencies"`

	DependencyInfo []DependencyInfoDTO `yaml:"dependencyInfo"`
	AuxiliaryFiles []AuxiliaryFileDTO  `yaml:"auxiliaryFiles"`

	LogMessage              string `yaml:"logMessage"`
	ShowEnvironmentInLog    bool   `yaml:"showEnvironmentInLog"`
	CreatesProductStructure bool   `yaml:"createsProductStructure"`
}

// DependencyInfoDTO identifies a file the invocation's tool will emit.
type DependencyInfoDTO struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// AuxiliaryFileDTO describes a file to materialize before the invocation
// runs. Each chunk sets exactly one of data or file.
type AuxiliaryFileDTO struct {
	Path       string     `yaml:"path"`
	Executable bool       `yaml:"executable"`
	Chunks     []ChunkDTO `yaml:"chunks"`
}

// ChunkDTO is one auxiliary file chunk.
type ChunkDTO struct {
	Data string `yaml:"data"`
	File string `yaml:"file"`
}
