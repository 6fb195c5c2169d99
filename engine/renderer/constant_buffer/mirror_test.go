package constant_buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirtyBlobTracksMinimalRange(t *testing.T) {
	m := NewDirtyBlob(64)
	m.MarkClean()
	assert.Empty(t, m.Pending(1))

	m.Write(40, []byte{1, 2, 3, 4})
	m.Write(8, []byte{5, 6})

	pending := m.Pending(1)
	require.Len(t, pending, 1)
	assert.Equal(t, 8, pending[0].Offset)
	assert.Len(t, pending[0].Data, 36)
}

func TestDirtyBlobStartsFullyDirty(t *testing.T) {
	m := NewDirtyBlob(32)

	pending := m.Pending(3)
	require.Len(t, pending, 1)
	assert.Equal(t, BufferWrite{Buffer: 3, Offset: 0, Data: make([]byte, 32)}, pending[0])
}

func TestBlobWriteIsClipped(t *testing.T) {
	m := NewBlob(4)
	m.Write(2, []byte{1, 2, 3, 4})
	m.Write(10, []byte{9})

	assert.Equal(t, []byte{0, 0, 1, 2}, m.Bytes())
	assert.Len(t, m.Pending(1), 1)
}
