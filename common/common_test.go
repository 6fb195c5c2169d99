package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {
	cases := []struct{ alignment, value, want int }{
		{16, 0, 0},
		{16, 1, 16},
		{16, 16, 16},
		{16, 17, 32},
		{4, 13, 16},
		{0, 13, 13},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RoundUp(c.alignment, c.value), "RoundUp(%d, %d)", c.alignment, c.value)
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "shaders", Coalesce("", "shaders", "."))
	assert.Equal(t, 3, Coalesce(0, 0, 3))
	assert.Equal(t, "", Coalesce[string]())
}

func TestStd140WriterPadsVec3AndMatrices(t *testing.T) {
	w := NewStd140Writer(0)
	w.Float32(1).Vec3(mgl32.Vec3{1, 2, 3}).Float32(4).Mat3(mgl32.Ident3())

	// float at 0, vec3 aligned to 16, the trailing float packs into the vec3's fourth slot,
	// then three 16 byte columns.
	assert.Len(t, w.Bytes(), 32+48)
}

func TestCameraPositionFromView(t *testing.T) {
	eye := mgl32.Vec3{3, 4, 5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, CameraPositionFromView(view).ApproxEqualThreshold(eye, 1e-4))
	assert.InDelta(t, 50.0, DistanceSquared(eye, mgl32.Vec3{}), 1e-4)
}

func TestCheckerboard(t *testing.T) {
	a, b := [4]byte{255, 255, 255, 255}, [4]byte{0, 0, 0, 255}
	data := Checkerboard(4, 2, a, b)
	require.Len(t, data.Pixels, 4*4*4)

	pixel := func(x, y int) []byte { return data.Pixels[(y*4+x)*4 : (y*4+x)*4+4] }
	assert.Equal(t, a[:], pixel(0, 0))
	assert.Equal(t, a[:], pixel(1, 1))
	assert.Equal(t, b[:], pixel(2, 0))
	assert.Equal(t, b[:], pixel(0, 3))
	assert.Equal(t, a[:], pixel(3, 3))
}

func TestDecodeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	data, err := DecodeTexture(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, data.Width)
	assert.Equal(t, 1, data.Height)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, data.Pixels)

	_, err = DecodeTexture(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
