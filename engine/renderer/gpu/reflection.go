package gpu

// ActiveAttribute is a vertex attribute reported by the driver after linking.
type ActiveAttribute struct {
	Name      string
	Location  int32
	Type      DataType
	ArraySize int32
	Instanced bool
}

// ActiveUniform is a constant reported by the driver after linking.
type ActiveUniform struct {
	Name string
	// Index is the active uniform index used for further introspection.
	Index uint32
	// Location is -1 for block members.
	Location  int32
	Type      DataType
	ArraySize int32
	// BlockIndex is -1 for constants in the default block.
	BlockIndex int32
	// Offset is the byte offset inside the block, -1 for the default block.
	Offset int32
	// ArrayStride is the byte distance between array elements inside a block, 0 otherwise.
	ArrayStride int32
}

// ActiveUniformBlock is a constant block reported by the driver after linking.
type ActiveUniformBlock struct {
	Name     string
	Index    uint32
	DataSize int32
}

// MeshDescriptor describes vertex, index and instance data to upload.
type MeshDescriptor struct {
	Vertices       []byte
	Layout         VertexLayout
	Indices        []byte
	IndexType      IndexType
	Instances      []byte
	InstanceLayout VertexLayout
}

// MeshBuffers holds the GPU objects created for a mesh.
type MeshBuffers struct {
	VertexArray    uint32
	VertexBuffer   uint32
	IndexBuffer    uint32
	InstanceBuffer uint32
}
