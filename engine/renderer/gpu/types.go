package gpu

// ShaderStage identifies one programmable stage of a GPU program.
type ShaderStage int

const (
	// ShaderStageVertex is the vertex stage. Every program must have one.
	ShaderStageVertex ShaderStage = iota

	// ShaderStageGeometry is the optional geometry stage.
	ShaderStageGeometry

	// ShaderStageFragment is the fragment stage. Every program must have one.
	ShaderStageFragment
)

// ShaderStages lists every stage in pipeline order.
var ShaderStages = []ShaderStage{ShaderStageVertex, ShaderStageGeometry, ShaderStageFragment}

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "Vertex"
	case ShaderStageGeometry:
		return "Geometry"
	case ShaderStageFragment:
		return "Fragment"
	}
	return "Unknown"
}

// ComponentType is the scalar type of a vertex attribute or constant component.
type ComponentType int

const (
	ComponentTypeFloat ComponentType = iota
	ComponentTypeInt
	ComponentTypeUint
	ComponentTypeBool
)

func (c ComponentType) String() string {
	switch c {
	case ComponentTypeFloat:
		return "float"
	case ComponentTypeInt:
		return "int"
	case ComponentTypeUint:
		return "uint"
	case ComponentTypeBool:
		return "bool"
	}
	return "unknown"
}

// DataType is the reflected type of an attribute or constant as reported by the driver.
type DataType int

const (
	DataTypeUnknown DataType = iota
	DataTypeFloat
	DataTypeVec2
	DataTypeVec3
	DataTypeVec4
	DataTypeInt
	DataTypeIVec2
	DataTypeIVec3
	DataTypeIVec4
	DataTypeUint
	DataTypeUVec2
	DataTypeUVec3
	DataTypeUVec4
	DataTypeBool
	DataTypeMat3
	DataTypeMat4
	DataTypeSampler2D
	DataTypeSampler2DMS
	DataTypeSamplerCube
	DataTypeSampler2DShadow
)

type dataTypeInfo struct {
	glsl       string
	components int
	component  ComponentType
	size       int
	alignment  int
}

var dataTypeTable = map[DataType]dataTypeInfo{
	DataTypeFloat:           {"float", 1, ComponentTypeFloat, 4, 4},
	DataTypeVec2:            {"vec2", 2, ComponentTypeFloat, 8, 8},
	DataTypeVec3:            {"vec3", 3, ComponentTypeFloat, 12, 16},
	DataTypeVec4:            {"vec4", 4, ComponentTypeFloat, 16, 16},
	DataTypeInt:             {"int", 1, ComponentTypeInt, 4, 4},
	DataTypeIVec2:           {"ivec2", 2, ComponentTypeInt, 8, 8},
	DataTypeIVec3:           {"ivec3", 3, ComponentTypeInt, 12, 16},
	DataTypeIVec4:           {"ivec4", 4, ComponentTypeInt, 16, 16},
	DataTypeUint:            {"uint", 1, ComponentTypeUint, 4, 4},
	DataTypeUVec2:           {"uvec2", 2, ComponentTypeUint, 8, 8},
	DataTypeUVec3:           {"uvec3", 3, ComponentTypeUint, 12, 16},
	DataTypeUVec4:           {"uvec4", 4, ComponentTypeUint, 16, 16},
	DataTypeBool:            {"bool", 1, ComponentTypeBool, 4, 4},
	DataTypeMat3:            {"mat3", 9, ComponentTypeFloat, 48, 16},
	DataTypeMat4:            {"mat4", 16, ComponentTypeFloat, 64, 16},
	DataTypeSampler2D:       {"sampler2D", 1, ComponentTypeInt, 4, 4},
	DataTypeSampler2DMS:     {"sampler2DMS", 1, ComponentTypeInt, 4, 4},
	DataTypeSamplerCube:     {"samplerCube", 1, ComponentTypeInt, 4, 4},
	DataTypeSampler2DShadow: {"sampler2DShadow", 1, ComponentTypeInt, 4, 4},
}

// DataTypeFromGLSL maps a GLSL type keyword to its DataType, DataTypeUnknown if unsupported.
func DataTypeFromGLSL(keyword string) DataType {
	for t, info := range dataTypeTable {
		if info.glsl == keyword {
			return t
		}
	}
	return DataTypeUnknown
}

func (t DataType) String() string {
	if info, ok := dataTypeTable[t]; ok {
		return info.glsl
	}
	return "unknown"
}

// Size returns the number of bytes one element of this type occupies in a std140 block.
// Matrices are stored as vec4 columns so a mat3 takes 48 bytes.
func (t DataType) Size() int {
	return dataTypeTable[t].size
}

// Alignment returns the std140 base alignment of one element of this type.
func (t DataType) Alignment() int {
	return dataTypeTable[t].alignment
}

// ComponentCount returns the number of scalar components of this type.
func (t DataType) ComponentCount() int {
	return dataTypeTable[t].components
}

// Component returns the scalar component type.
func (t DataType) Component() ComponentType {
	return dataTypeTable[t].component
}

// IsSampler reports whether the type is an opaque texture sampler.
func (t DataType) IsSampler() bool {
	switch t {
	case DataTypeSampler2D, DataTypeSampler2DMS, DataTypeSamplerCube, DataTypeSampler2DShadow:
		return true
	}
	return false
}

// IsMatrix reports whether the type is a matrix type.
func (t DataType) IsMatrix() bool {
	return t == DataTypeMat3 || t == DataTypeMat4
}
