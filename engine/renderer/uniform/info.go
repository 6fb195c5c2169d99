package uniform

import "github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"

// Info describes one reflected constant.
type Info struct {
	// Name is the full name, block members are prefixed with "BlockName.".
	Name string
	// Location is the default block location, -1 for block members.
	Location int32
	// BlockIndex is the index of the owning block, -1 for default block constants.
	BlockIndex int32
	// Size is the byte size of one element.
	Size int
	// Offset is the byte offset inside the owning block, or the running offset for default block constants.
	Offset int
	// ArrayCount is the number of array elements, 1 for non-arrays.
	ArrayCount int
	// ArrayStride is the byte distance between array elements inside a block.
	ArrayStride int
	Type        gpu.DataType
	// IsBufferMember reports whether the constant lives in a block.
	IsBufferMember bool
	EditorName     string
	Annotation     Annotation
}

// TotalSize returns the byte size of every element together.
func (i *Info) TotalSize() int {
	if i.ArrayCount > 1 && i.ArrayStride > 0 {
		return i.ArrayStride * i.ArrayCount
	}
	return i.Size * max(i.ArrayCount, 1)
}
