package program

import (
	"io/fs"
	"log/slog"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

// ProgramBuilderOption is a function that configures a program during construction.
type ProgramBuilderOption func(*program)

// WithVertexSource is an option builder that sets the vertex stage source path.
//
// Parameters:
//   - path: the path of the vertex source inside the program's file system
//
// Returns:
//   - ProgramBuilderOption: a function that applies the vertex source to a program
func WithVertexSource(path string) ProgramBuilderOption {
	return func(p *program) {
		p.sources[gpu.ShaderStageVertex] = path
	}
}

// WithGeometrySource is an option builder that sets the optional geometry stage source path.
//
// Parameters:
//   - path: the path of the geometry source inside the program's file system
//
// Returns:
//   - ProgramBuilderOption: a function that applies the geometry source to a program
func WithGeometrySource(path string) ProgramBuilderOption {
	return func(p *program) {
		p.sources[gpu.ShaderStageGeometry] = path
	}
}

// WithFragmentSource is an option builder that sets the fragment stage source path.
//
// Parameters:
//   - path: the path of the fragment source inside the program's file system
//
// Returns:
//   - ProgramBuilderOption: a function that applies the fragment source to a program
func WithFragmentSource(path string) ProgramBuilderOption {
	return func(p *program) {
		p.sources[gpu.ShaderStageFragment] = path
	}
}

// WithFeatures is an option builder that requests features to be defined in every stage.
// An empty value defines a plain flag.
//
// Parameters:
//   - features: the feature names mapped to their define values
//
// Returns:
//   - ProgramBuilderOption: a function that applies the features to a program
func WithFeatures(features map[string]string) ProgramBuilderOption {
	return func(p *program) {
		maps.Copy(p.requested, features)
	}
}

// WithFS is an option builder that sets the file system sources and includes are read from.
//
// Parameters:
//   - fsys: the file system, typically os.DirFS of the shader root
//
// Returns:
//   - ProgramBuilderOption: a function that applies the file system to a program
func WithFS(fsys fs.FS) ProgramBuilderOption {
	return func(p *program) {
		p.fsys = fsys
	}
}

// WithIncludeDirs is an option builder that adds directories searched for #include files.
//
// Parameters:
//   - dirs: directories relative to the program's file system root
//
// Returns:
//   - ProgramBuilderOption: a function that applies the include directories to a program
func WithIncludeDirs(dirs ...string) ProgramBuilderOption {
	return func(p *program) {
		p.includeDirs = append(p.includeDirs, dirs...)
	}
}

// WithRegistry is an option builder that sets the registry constant blocks are bound through.
// Without a registry blocks keep their default binding.
//
// Parameters:
//   - registry: the binding slot registry
//
// Returns:
//   - ProgramBuilderOption: a function that applies the registry to a program
func WithRegistry(registry binding.Registry) ProgramBuilderOption {
	return func(p *program) {
		p.registry = registry
	}
}

// WithLogger is an option builder that sets the logger compile results are reported to.
//
// Parameters:
//   - logger: the logger, nil keeps slog.Default()
//
// Returns:
//   - ProgramBuilderOption: a function that applies the logger to a program
func WithLogger(logger *slog.Logger) ProgramBuilderOption {
	return func(p *program) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// options rebuilds the option list that recreates this program, used for recompiles.
func (p *program) options() []ProgramBuilderOption {
	opts := []ProgramBuilderOption{
		WithFS(p.fsys),
		WithFeatures(p.requested),
		WithIncludeDirs(slices.Clone(p.includeDirs)...),
		WithRegistry(p.registry),
		WithLogger(p.logger),
	}
	for stage, path := range p.sources {
		opts = append(opts, func(c *program) { c.sources[stage] = path })
	}
	return opts
}
