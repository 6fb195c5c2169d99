package uniform

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestEncodeVec3IsTwelveBytes(t *testing.T) {
	b, err := Encode(mgl32.Vec3{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, b, 12)
	assert.Equal(t, float32(3), floatAt(b, 8))
}

func TestEncodeMat3UsesVec4Columns(t *testing.T) {
	b, err := Encode(mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	require.Len(t, b, 48)
	assert.Equal(t, float32(4), floatAt(b, 16))
	assert.Equal(t, float32(0), floatAt(b, 12))
	assert.Equal(t, float32(9), floatAt(b, 40))
}

func TestEncodeFloatSliceUsesSixteenByteStride(t *testing.T) {
	b, err := Encode([]float32{1, 2})
	require.NoError(t, err)
	require.Len(t, b, 32)
	assert.Equal(t, float32(2), floatAt(b, 16))
}

func TestEncodeTight(t *testing.T) {
	b, err := EncodeTight(mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Len(t, b, 36)

	b, err = EncodeTight(true)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, b)

	_, err = EncodeTight("nope")
	assert.Error(t, err)
}
