package constant_buffer

// Mirror is the CPU side copy of a constant buffer.
type Mirror interface {
	// Bytes returns the mirrored contents. The slice must not be retained across writes.
	Bytes() []byte

	// Write copies data into the mirror at the given offset.
	//
	// Parameters:
	//   - offset: byte offset inside the mirror
	//   - data: the bytes to copy, truncated at the end of the mirror
	Write(offset int, data []byte)

	// Pending returns the writes needed to bring the GPU buffer up to date.
	// Plain mirrors always return the whole buffer, dirty tracked mirrors only the touched range.
	//
	// Parameters:
	//   - buffer: the GPU buffer the writes target
	//
	// Returns:
	//   - []BufferWrite: the pending writes, empty if nothing changed
	Pending(buffer uint32) []BufferWrite

	// MarkClean forgets the tracked dirty range.
	MarkClean()
}

// blob is a mirror without change tracking.
type blob struct {
	data []byte
}

// NewBlob creates a plain mirror of the given size.
func NewBlob(size int) Mirror {
	return &blob{data: make([]byte, size)}
}

func (b *blob) Bytes() []byte {
	return b.data
}

func (b *blob) Write(offset int, data []byte) {
	if offset < 0 || offset >= len(b.data) {
		return
	}
	copy(b.data[offset:], data)
}

func (b *blob) Pending(buffer uint32) []BufferWrite {
	return []BufferWrite{{Buffer: buffer, Offset: 0, Data: b.data}}
}

func (b *blob) MarkClean() {}

// dirtyBlob tracks the smallest byte range covering every write since the last upload.
type dirtyBlob struct {
	data  []byte
	start int
	end   int
	dirty bool
}

// NewDirtyBlob creates a dirty tracked mirror of the given size.
// A fresh mirror is fully dirty so the first upload initializes the GPU buffer.
func NewDirtyBlob(size int) Mirror {
	return &dirtyBlob{data: make([]byte, size), start: 0, end: size, dirty: size > 0}
}

func (b *dirtyBlob) Bytes() []byte {
	return b.data
}

func (b *dirtyBlob) Write(offset int, data []byte) {
	if offset < 0 || offset >= len(b.data) {
		return
	}
	n := copy(b.data[offset:], data)
	if n == 0 {
		return
	}

	if !b.dirty {
		b.start, b.end, b.dirty = offset, offset+n, true
		return
	}
	b.start = min(b.start, offset)
	b.end = max(b.end, offset+n)
}

func (b *dirtyBlob) Pending(buffer uint32) []BufferWrite {
	if !b.dirty {
		return nil
	}
	return []BufferWrite{{Buffer: buffer, Offset: b.start, Data: b.data[b.start:b.end]}}
}

func (b *dirtyBlob) MarkClean() {
	b.start, b.end, b.dirty = 0, 0, false
}
