package mesh

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute locations used by WithGeometry and WithInstanceTransforms.
const (
	LocationPosition          = 0
	LocationNormal            = 1
	LocationTexCoords         = 2
	LocationInstanceTransform = 3
)

// MeshBuilderOption is a functional option for configuring a Mesh during construction.
type MeshBuilderOption func(*mesh)

// WithVertices sets raw interleaved vertex data.
//
// Parameters:
//   - layout: the per vertex layout of data
//   - data: the interleaved vertex bytes
//
// Returns:
//   - MeshBuilderOption: functional option to set the vertex data
func WithVertices(layout gpu.VertexLayout, data []byte) MeshBuilderOption {
	return func(m *mesh) {
		m.layout = layout
		m.vertexData = data
	}
}

// WithGeometry interleaves positions with optional normals and texture coordinates at
// locations 0, 1 and 2. Empty normal or uv slices leave the attribute out of the layout.
//
// Parameters:
//   - positions: the vertex positions
//   - normals: the vertex normals, empty or one per position
//   - uvs: the texture coordinates, empty or one per position
//
// Returns:
//   - MeshBuilderOption: functional option to set the vertex data
func WithGeometry(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) MeshBuilderOption {
	return func(m *mesh) {
		attributes := []gpu.VertexAttribute{{Location: LocationPosition, Count: 3, Component: gpu.ComponentTypeFloat}}
		hasNormals := len(normals) == len(positions) && len(normals) > 0
		hasUVs := len(uvs) == len(positions) && len(uvs) > 0
		if hasNormals {
			attributes = append(attributes, gpu.VertexAttribute{Location: LocationNormal, Count: 3, Component: gpu.ComponentTypeFloat})
		}
		if hasUVs {
			attributes = append(attributes, gpu.VertexAttribute{Location: LocationTexCoords, Count: 2, Component: gpu.ComponentTypeFloat})
		}

		floats := make([]float32, 0, len(positions)*8)
		for i, p := range positions {
			floats = append(floats, p[:]...)
			if hasNormals {
				floats = append(floats, normals[i][:]...)
			}
			if hasUVs {
				floats = append(floats, uvs[i][:]...)
			}
		}
		m.layout = gpu.NewVertexLayout(attributes...)
		m.vertexData = slices.Clone(common.SliceToBytes(floats))
	}
}

// WithIndices16 sets 16 bit indices.
func WithIndices16(indices []uint16) MeshBuilderOption {
	return func(m *mesh) {
		m.indexType = gpu.IndexTypeUint16
		m.indexData = slices.Clone(common.SliceToBytes(indices))
	}
}

// WithIndices32 sets 32 bit indices.
func WithIndices32(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indexType = gpu.IndexTypeUint32
		m.indexData = slices.Clone(common.SliceToBytes(indices))
	}
}

// WithInstances sets raw per instance data. Every attribute of the layout is marked instanced.
//
// Parameters:
//   - layout: the per instance layout of data
//   - data: the interleaved instance bytes
//   - count: the number of instances
//
// Returns:
//   - MeshBuilderOption: functional option to set the instance data
func WithInstances(layout gpu.VertexLayout, data []byte, count int) MeshBuilderOption {
	return func(m *mesh) {
		attributes := slices.Clone(layout.Attributes)
		for i := range attributes {
			attributes[i].Instanced = true
		}
		m.instanceLayout = gpu.NewVertexLayout(attributes...)
		m.instanceData = data
		m.instanceCount = count
	}
}

// InstanceTransformLayout is the per instance layout of a mat4 world transform, one vec4 column per location.
var InstanceTransformLayout = gpu.NewVertexLayout(
	gpu.VertexAttribute{Location: LocationInstanceTransform, Count: 4, Component: gpu.ComponentTypeFloat, Instanced: true},
	gpu.VertexAttribute{Location: LocationInstanceTransform + 1, Count: 4, Component: gpu.ComponentTypeFloat, Instanced: true},
	gpu.VertexAttribute{Location: LocationInstanceTransform + 2, Count: 4, Component: gpu.ComponentTypeFloat, Instanced: true},
	gpu.VertexAttribute{Location: LocationInstanceTransform + 3, Count: 4, Component: gpu.ComponentTypeFloat, Instanced: true},
)

// WithInstanceTransforms sets one world transform per instance at locations 3 to 6.
func WithInstanceTransforms(transforms []mgl32.Mat4) MeshBuilderOption {
	return WithInstances(InstanceTransformLayout, slices.Clone(common.SliceToBytes(transforms)), len(transforms))
}

// WithPrimitive sets the primitive topology, triangles by default.
func WithPrimitive(primitive gpu.Primitive) MeshBuilderOption {
	return func(m *mesh) {
		m.primitive = primitive
	}
}
