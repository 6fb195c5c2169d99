package constant_buffer

// BufferWrite describes a single GPU buffer write at a given byte offset.
type BufferWrite struct {
	Buffer uint32
	Offset int
	Data   []byte
}
