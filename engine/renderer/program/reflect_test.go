package program

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockMember(index uint32, block int32, name string, dataType gpu.DataType, offset int32) gpu.ActiveUniform {
	return gpu.ActiveUniform{Name: name, Index: index, Location: -1, Type: dataType, ArraySize: 1, BlockIndex: block, Offset: offset}
}

func TestReflectConstantsGroupsBlockMembers(t *testing.T) {
	points := blockMember(3, 0, "points[0]", gpu.DataTypeVec4, 32)
	points.ArraySize, points.ArrayStride = 2, 16

	active := []gpu.ActiveUniform{
		blockMember(0, 0, "light.color", gpu.DataTypeVec3, 0),
		blockMember(1, 0, "light.intensity", gpu.DataTypeFloat, 12),
		blockMember(2, 0, "light.direction", gpu.DataTypeVec3, 16),
		points,
		blockMember(4, 0, "exposure", gpu.DataTypeFloat, 64),
		blockMember(5, 0, "transform", gpu.DataTypeMat4, 80),
		blockMember(6, 1, "_Global_Lights.lights[0].color", gpu.DataTypeVec4, 0),
		blockMember(7, 1, "_Global_Lights.lights[0].range", gpu.DataTypeFloat, 16),
		blockMember(8, 1, "_Global_Lights.lights[1].color", gpu.DataTypeVec4, 32),
		blockMember(9, 1, "_Global_Lights.lights[1].range", gpu.DataTypeFloat, 48),
		{Name: "uniform_tex", Index: 10, Location: 0, Type: gpu.DataTypeSampler2D, ArraySize: 1, BlockIndex: -1, Offset: -1},
		{Name: "weights[0]", Index: 11, Location: 1, Type: gpu.DataTypeFloat, ArraySize: 3, BlockIndex: -1, Offset: -1},
	}
	blocks := []gpu.ActiveUniformBlock{
		{Name: "_Global_Lights", Index: 1, DataSize: 64},
		{Name: "_Intrinsic_Lighting", Index: 0, DataSize: 144},
	}

	r := reflectConstants(active, blocks)

	lighting := r.blocks["_Intrinsic_Lighting"]
	require.NotNil(t, lighting)
	assert.Equal(t, uniform.CategoryIntrinsic, lighting.Category)
	assert.Equal(t, 0, lighting.Offset)
	assert.Len(t, lighting.Members, 6)

	color, ok := r.uniforms["_Intrinsic_Lighting.light.color"]
	require.True(t, ok)
	assert.True(t, color.IsBufferMember)
	assert.Equal(t, "Color", color.EditorName)

	light := lighting.Structs["light"]
	require.NotNil(t, light)
	assert.Equal(t, 0, light.Offset)
	assert.Equal(t, 32, light.Size)
	assert.Len(t, light.Members, 3)

	pointArray := lighting.Arrays["points"]
	require.NotNil(t, pointArray)
	assert.Equal(t, 32, pointArray.Offset)
	assert.Equal(t, 16, pointArray.Stride)
	assert.Equal(t, 2, pointArray.ElementCount)
	assert.Equal(t, 32, pointArray.Size)

	assert.Contains(t, lighting.Singles, "exposure")
	assert.Contains(t, lighting.Singles, "transform")

	lights := r.blocks["_Global_Lights"]
	require.NotNil(t, lights)
	assert.Equal(t, 144, lights.Offset)
	lightArray := lights.Arrays["lights"]
	require.NotNil(t, lightArray)
	assert.Equal(t, 2, lightArray.ElementCount)
	assert.Equal(t, 32, lightArray.Stride)
	assert.Equal(t, 64, lightArray.Size)
	assert.Len(t, lightArray.Members, 2)

	assert.Equal(t, 1, r.blockCounts[uniform.CategoryIntrinsic])
	assert.Equal(t, 1, r.blockCounts[uniform.CategoryGlobal])

	weights := r.uniforms["weights[0]"]
	require.NotNil(t, weights)
	assert.Equal(t, 4, weights.Offset)
	assert.Equal(t, 3, weights.ArrayCount)
	assert.False(t, weights.IsBufferMember)
	assert.Equal(t, 16, r.defaultBlockSize)
}

func TestSourceVertexLayoutExpandsMatrices(t *testing.T) {
	layout := sourceVertexLayout(`
layout(location = 0) in vec3 position;
layout (location=1) in vec2 tex_coords;
layout(location = 4) in mat4 instance_transform;
`)

	require.Len(t, layout.Attributes, 6)
	assert.Equal(t, uint32(0), layout.Attributes[0].Location)
	assert.Equal(t, 3, layout.Attributes[0].Count)
	assert.Equal(t, 2, layout.Attributes[1].Count)
	for i, a := range layout.Attributes[2:] {
		assert.Equal(t, uint32(4+i), a.Location)
		assert.Equal(t, 4, a.Count)
	}
}
