package material

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithProgram is an option builder that sets the program the material draws with.
//
// Parameters:
//   - p: the program
//
// Returns:
//   - MaterialBuilderOption: a function that applies the program option to a material
func WithProgram(p program.Program) MaterialBuilderOption {
	return func(m *material) {
		m.program = p
	}
}

// WithRegistry is an option builder that sets the slot registry Regular block buffers are connected through.
// Without a registry the material has no Regular block buffers.
//
// Parameters:
//   - registry: the shared slot registry
//
// Returns:
//   - MaterialBuilderOption: a function that applies the registry option to a material
func WithRegistry(registry binding.Registry) MaterialBuilderOption {
	return func(m *material) {
		m.registry = registry
	}
}

// WithConstant is an option builder that records a default block constant.
//
// Parameters:
//   - name: the constant name
//   - value: the value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the constant to a material
func WithConstant(name string, value any) MaterialBuilderOption {
	return func(m *material) {
		m.constants[name] = value
	}
}

// WithTexture is an option builder that binds a texture to a sampler constant.
//
// Parameters:
//   - sampler: the sampler constant name
//   - texture: the texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture to a material
func WithTexture(sampler string, texture gpu.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.textures[sampler] = texture
	}
}

// WithLogger is an option builder that sets the logger ignored constants are reported to.
func WithLogger(logger *slog.Logger) MaterialBuilderOption {
	return func(m *material) {
		if logger != nil {
			m.logger = logger
		}
	}
}
