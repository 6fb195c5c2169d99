package renderer

import (
	"github.com/Carmen-Shannon/oxy-render/engine/mesh"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/transform"
)

// renderable is the implementation of the Renderable interface.
type renderable struct {
	mesh            mesh.Mesh
	material        material.Material
	transform       transform.Transform
	enabled         bool
	castsShadows    bool
	receivesShadows bool
}

// Renderable is one draw unit: a mesh drawn with a material, optionally placed by a transform.
//
// Renderables are added to queues. Within a queue they are batched by program and material,
// sorted by distance to the camera according to the queue's sorting mode.
type Renderable interface {
	// Mesh returns the geometry to draw.
	//
	// Returns:
	//   - mesh.Mesh: the mesh
	Mesh() mesh.Mesh

	// Material returns the material the mesh is drawn with.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Transform returns the placement of the renderable.
	// Renderables without a transform are drawn in the space their vertices are in, which is what
	// fullscreen effects and instanced meshes want.
	//
	// Returns:
	//   - transform.Transform: the transform, or nil
	Transform() transform.Transform

	// Enabled reports whether the renderable is drawn.
	Enabled() bool

	// SetEnabled enables or disables drawing without removing the renderable from its queues.
	SetEnabled(enabled bool)

	// CastsShadows reports whether the renderable is drawn into the shadow map.
	CastsShadows() bool

	// SetCastsShadows toggles drawing into the shadow map.
	SetCastsShadows(casts bool)

	// ReceivesShadows reports whether the renderable's material samples the shadow map.
	// The renderer binds the shadow map to the material's uniform_tex_shadow sampler.
	ReceivesShadows() bool
}

var _ Renderable = &renderable{}

// NewRenderable creates a new Renderable that is enabled and casts shadows.
//
// Parameters:
//   - m: the mesh to draw
//   - mat: the material to draw it with
//   - options: variadic list of RenderableBuilderOption functions
//
// Returns:
//   - Renderable: the new renderable
func NewRenderable(m mesh.Mesh, mat material.Material, options ...RenderableBuilderOption) Renderable {
	if m == nil || mat == nil {
		panic("renderer: a renderable needs a mesh and a material")
	}
	r := &renderable{
		mesh:         m,
		material:     mat,
		enabled:      true,
		castsShadows: true,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderable) Mesh() mesh.Mesh {
	return r.mesh
}

func (r *renderable) Material() material.Material {
	return r.material
}

func (r *renderable) Transform() transform.Transform {
	return r.transform
}

func (r *renderable) Enabled() bool {
	return r.enabled
}

func (r *renderable) SetEnabled(enabled bool) {
	r.enabled = enabled
}

func (r *renderable) CastsShadows() bool {
	return r.castsShadows
}

func (r *renderable) SetCastsShadows(casts bool) {
	r.castsShadows = casts
}

func (r *renderable) ReceivesShadows() bool {
	return r.receivesShadows
}
