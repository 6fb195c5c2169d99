// Package mesh holds geometry uploaded to the GPU together with the vertex layout it provides
// and the draw call shape it requires.
package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

type mesh struct {
	name      string
	device    gpu.Device
	primitive gpu.Primitive

	layout         gpu.VertexLayout
	instanceLayout gpu.VertexLayout
	vertexData     []byte
	indexData      []byte
	instanceData   []byte
	indexType      gpu.IndexType
	vertexCount    int
	indexCount     int
	instanceCount  int

	buffers gpu.MeshBuffers
}

// Mesh is geometry living in GPU buffers.
// A mesh with instance data is drawn once per instance, a mesh with indices uses indexed draws.
type Mesh interface {
	// Name returns the mesh name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Layout returns every attribute the mesh provides, per vertex and per instance.
	//
	// Returns:
	//   - gpu.VertexLayout: the combined layout
	Layout() gpu.VertexLayout

	// IsCompatibleWith reports whether the mesh provides every attribute a program reads.
	//
	// Parameters:
	//   - expected: the layout declared by the program's vertex source
	//
	// Returns:
	//   - bool: true if the mesh can feed the program
	IsCompatibleWith(expected gpu.VertexLayout) bool

	// HasIndices reports whether the mesh is drawn with an index buffer.
	HasIndices() bool

	// HasInstancing reports whether the mesh carries per instance data.
	HasInstancing() bool

	// VertexCount returns the number of vertices.
	VertexCount() int

	// IndexCount returns the number of indices, 0 for non-indexed meshes.
	IndexCount() int

	// InstanceCount returns the number of instances, 0 for non-instanced meshes.
	InstanceCount() int

	// DrawCall returns the draw call matching the mesh's shape.
	//
	// Returns:
	//   - gpu.DrawCall: one of the four draw call shapes
	DrawCall() gpu.DrawCall

	// Bind makes the mesh's vertex array current.
	Bind()

	// UpdateInstances replaces the per instance data.
	//
	// Parameters:
	//   - data: the instance data laid out per the instance layout
	//   - count: the number of instances in data
	//
	// Returns:
	//   - error: error if the mesh was not created with instancing or the data size does not match
	UpdateInstances(data []byte, count int) error

	// Destroy releases the GPU buffers.
	Destroy()
}

var _ Mesh = &mesh{}

// NewMesh uploads geometry configured by the options.
//
// Parameters:
//   - name: the mesh name used in logs
//   - device: the device the buffers are created on
//   - options: the geometry options, at least one vertex source is required
//
// Returns:
//   - Mesh: the uploaded mesh
//   - error: error if the geometry is inconsistent or the upload fails
func NewMesh(name string, device gpu.Device, options ...MeshBuilderOption) (Mesh, error) {
	m := &mesh{
		name:      name,
		device:    device,
		primitive: gpu.PrimitiveTriangles,
	}
	for _, opt := range options {
		opt(m)
	}

	if stride := m.layout.Stride(); stride == 0 || len(m.vertexData)%stride != 0 {
		return nil, fmt.Errorf("mesh %q: vertex data of %d bytes does not match layout %s", name, len(m.vertexData), m.layout)
	}
	m.vertexCount = len(m.vertexData) / m.layout.Stride()
	if m.indexType != gpu.IndexTypeNone {
		m.indexCount = len(m.indexData) / m.indexType.Size()
	}
	if m.instanceData != nil {
		if err := m.checkInstances(m.instanceData, m.instanceCount); err != nil {
			return nil, err
		}
	}

	buffers, err := device.CreateMesh(gpu.MeshDescriptor{
		Vertices:       m.vertexData,
		Layout:         m.layout,
		Indices:        m.indexData,
		IndexType:      m.indexType,
		Instances:      m.instanceData,
		InstanceLayout: m.instanceLayout,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	m.buffers = buffers
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Layout() gpu.VertexLayout {
	return gpu.NewVertexLayout(append(append([]gpu.VertexAttribute{}, m.layout.Attributes...), m.instanceLayout.Attributes...)...)
}

func (m *mesh) IsCompatibleWith(expected gpu.VertexLayout) bool {
	return m.Layout().IsCompatibleWith(expected)
}

func (m *mesh) HasIndices() bool {
	return m.indexType != gpu.IndexTypeNone
}

func (m *mesh) HasInstancing() bool {
	return len(m.instanceLayout.Attributes) > 0
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) InstanceCount() int {
	return m.instanceCount
}

func (m *mesh) DrawCall() gpu.DrawCall {
	call := gpu.DrawCall{
		Primitive: m.primitive,
		IndexType: m.indexType,
		Count:     int32(m.vertexCount),
	}
	if m.HasIndices() {
		call.Count = int32(m.indexCount)
	}
	if m.HasInstancing() {
		call.InstanceCount = int32(m.instanceCount)
	}
	return call
}

func (m *mesh) Bind() {
	m.device.BindVertexArray(m.buffers.VertexArray)
}

func (m *mesh) UpdateInstances(data []byte, count int) error {
	if !m.HasInstancing() {
		return fmt.Errorf("mesh %q has no instance layout", m.name)
	}
	if err := m.checkInstances(data, count); err != nil {
		return err
	}
	m.instanceData = data
	m.instanceCount = count
	m.device.UpdateInstances(m.buffers, data)
	return nil
}

func (m *mesh) Destroy() {
	if m.buffers.VertexArray == 0 {
		return
	}
	m.device.DeleteMesh(m.buffers)
	m.buffers = gpu.MeshBuffers{}
}

func (m *mesh) checkInstances(data []byte, count int) error {
	if stride := m.instanceLayout.InstanceStride(); stride == 0 || len(data) != stride*count {
		return fmt.Errorf("mesh %q: %d bytes of instance data do not hold %d instances of layout %s", m.name, len(data), count, m.instanceLayout)
	}
	return nil
}
