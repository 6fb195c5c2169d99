package gpu

// Primitive is the topology used to assemble vertices.
type Primitive int

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveTriangleStrip
	PrimitiveLines
	PrimitiveLineStrip
	PrimitivePoints
)

// IndexType is the integer width of an index buffer element.
type IndexType int

const (
	IndexTypeNone IndexType = iota
	IndexTypeUint16
	IndexTypeUint32
)

// Size returns the byte width of one index.
func (t IndexType) Size() int {
	switch t {
	case IndexTypeUint16:
		return 2
	case IndexTypeUint32:
		return 4
	}
	return 0
}

// DrawShape is one of the four draw call shapes a geometry can require.
type DrawShape int

const (
	// DrawShapeArrays draws non-indexed, non-instanced geometry.
	DrawShapeArrays DrawShape = iota

	// DrawShapeElements draws indexed, non-instanced geometry.
	DrawShapeElements

	// DrawShapeArraysInstanced draws non-indexed geometry once per instance.
	DrawShapeArraysInstanced

	// DrawShapeElementsInstanced draws indexed geometry once per instance.
	DrawShapeElementsInstanced
)

func (s DrawShape) String() string {
	switch s {
	case DrawShapeArrays:
		return "Arrays"
	case DrawShapeElements:
		return "Elements"
	case DrawShapeArraysInstanced:
		return "ArraysInstanced"
	case DrawShapeElementsInstanced:
		return "ElementsInstanced"
	}
	return "Unknown"
}

// DrawCall describes a single draw issued against the currently bound vertex array.
type DrawCall struct {
	// Primitive is the topology of the geometry.
	Primitive Primitive
	// IndexType is IndexTypeNone for non-indexed draws.
	IndexType IndexType
	// Count is the number of indices for indexed draws, the number of vertices otherwise.
	Count int32
	// InstanceCount is zero for non-instanced draws.
	InstanceCount int32
}

// Shape selects the draw call shape from the index type and instance count.
func (d DrawCall) Shape() DrawShape {
	indexed := d.IndexType != IndexTypeNone
	instanced := d.InstanceCount > 0
	switch {
	case indexed && instanced:
		return DrawShapeElementsInstanced
	case indexed:
		return DrawShapeElements
	case instanced:
		return DrawShapeArraysInstanced
	}
	return DrawShapeArrays
}
