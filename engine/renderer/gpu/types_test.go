package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeFromGLSL(t *testing.T) {
	assert.Equal(t, DataTypeVec3, DataTypeFromGLSL("vec3"))
	assert.Equal(t, DataTypeMat4, DataTypeFromGLSL("mat4"))
	assert.Equal(t, DataTypeSampler2DMS, DataTypeFromGLSL("sampler2DMS"))
	assert.Equal(t, DataTypeUnknown, DataTypeFromGLSL("dvec3"))
}

func TestDataTypeLayout(t *testing.T) {
	tests := []struct {
		dataType   DataType
		size       int
		alignment  int
		components int
		component  ComponentType
	}{
		{DataTypeFloat, 4, 4, 1, ComponentTypeFloat},
		{DataTypeVec2, 8, 8, 2, ComponentTypeFloat},
		{DataTypeVec3, 12, 16, 3, ComponentTypeFloat},
		{DataTypeIVec4, 16, 16, 4, ComponentTypeInt},
		{DataTypeUint, 4, 4, 1, ComponentTypeUint},
		{DataTypeMat3, 48, 16, 9, ComponentTypeFloat},
		{DataTypeMat4, 64, 16, 16, ComponentTypeFloat},
	}

	for _, tt := range tests {
		t.Run(tt.dataType.String(), func(t *testing.T) {
			assert.Equal(t, tt.size, tt.dataType.Size())
			assert.Equal(t, tt.alignment, tt.dataType.Alignment())
			assert.Equal(t, tt.components, tt.dataType.ComponentCount())
			assert.Equal(t, tt.component, tt.dataType.Component())
		})
	}
}

func TestDrawCallShape(t *testing.T) {
	assert.Equal(t, DrawShapeArrays, DrawCall{Count: 3}.Shape())
	assert.Equal(t, DrawShapeElements, DrawCall{IndexType: IndexTypeUint32, Count: 36}.Shape())
	assert.Equal(t, DrawShapeArraysInstanced, DrawCall{Count: 3, InstanceCount: 10}.Shape())
	assert.Equal(t, DrawShapeElementsInstanced, DrawCall{IndexType: IndexTypeUint16, Count: 6, InstanceCount: 2}.Shape())
}

func TestParseTextureFormat(t *testing.T) {
	for f := range textureFormatNames {
		parsed, err := ParseTextureFormat(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	f, err := ParseTextureFormat(" RGBA16F ")
	assert.NoError(t, err)
	assert.Equal(t, TextureFormatRGBA16F, f)

	_, err = ParseTextureFormat("bgra")
	assert.Error(t, err)
}
