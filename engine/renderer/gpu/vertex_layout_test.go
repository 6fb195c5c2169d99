package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVertexLayoutSortsByLocation(t *testing.T) {
	layout := NewVertexLayout(
		VertexAttribute{Location: 2, Count: 2, Component: ComponentTypeFloat},
		VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat},
		VertexAttribute{Location: 1, Count: 3, Component: ComponentTypeFloat},
	)

	assert.Equal(t, []uint32{0, 1, 2}, []uint32{
		layout.Attributes[0].Location,
		layout.Attributes[1].Location,
		layout.Attributes[2].Location,
	})
	assert.Equal(t, 32, layout.Stride())
}

func TestVertexLayoutInstanceStride(t *testing.T) {
	layout := NewVertexLayout(
		VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat},
		VertexAttribute{Location: 3, Count: 4, Component: ComponentTypeFloat, Instanced: true},
		VertexAttribute{Location: 4, Count: 4, Component: ComponentTypeFloat, Instanced: true},
	)

	assert.Equal(t, 12, layout.Stride())
	assert.Equal(t, 32, layout.InstanceStride())
}

func TestVertexLayoutCompatibility(t *testing.T) {
	mesh := NewVertexLayout(
		VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat},
		VertexAttribute{Location: 1, Count: 3, Component: ComponentTypeFloat},
		VertexAttribute{Location: 2, Count: 2, Component: ComponentTypeFloat},
	)

	positionsOnly := NewVertexLayout(VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat})
	assert.True(t, mesh.IsCompatibleWith(positionsOnly))

	wrongCount := NewVertexLayout(VertexAttribute{Location: 2, Count: 3, Component: ComponentTypeFloat})
	assert.False(t, mesh.IsCompatibleWith(wrongCount))

	wrongType := NewVertexLayout(VertexAttribute{Location: 1, Count: 3, Component: ComponentTypeInt})
	assert.False(t, mesh.IsCompatibleWith(wrongType))

	missing := NewVertexLayout(VertexAttribute{Location: 5, Count: 4, Component: ComponentTypeFloat})
	assert.False(t, mesh.IsCompatibleWith(missing))
}

func TestVertexLayoutContains(t *testing.T) {
	source := NewVertexLayout(
		VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat},
		VertexAttribute{Location: 1, Count: 3, Component: ComponentTypeFloat},
	)
	active := NewVertexLayout(VertexAttribute{Location: 0, Count: 3, Component: ComponentTypeFloat})

	assert.True(t, source.Contains(active))
	assert.False(t, active.Contains(source))
}
