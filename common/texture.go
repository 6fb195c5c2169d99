package common

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// TextureData holds RGBA pixel data pending GPU upload.
type TextureData struct {
	// Pixels is the raw RGBA data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width int
	// Height is the height of the texture in pixels.
	Height int
}

// DecodeTexture decodes a PNG or JPEG stream into RGBA pixel data.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - TextureData: the decoded pixels
//   - error: error if decoding fails
func DecodeTexture(r io.Reader) (TextureData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return TextureData{Pixels: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// Checkerboard generates a two color checker pattern, handy as a placeholder texture.
//
// Parameters:
//   - size: width and height of the texture in pixels
//   - cells: number of cells per row
//   - a, b: the two RGBA colors
//
// Returns:
//   - TextureData: the generated pixels
func Checkerboard(size, cells int, a, b [4]byte) TextureData {
	data := TextureData{Pixels: make([]byte, size*size*4), Width: size, Height: size}
	cell := max(size/max(cells, 1), 1)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			copy(data.Pixels[(y*size+x)*4:], c[:])
		}
	}
	return data
}
