package gpu

import (
	"fmt"
	"strings"
)

// TextureFormat is the internal storage format of a texture or attachment.
type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatSRGBA8
	TextureFormatRGBA16F
	TextureFormatRGBA32F
	TextureFormatDepth24Stencil8
	TextureFormatDepth32F
)

var textureFormatNames = map[TextureFormat]string{
	TextureFormatRGBA8:           "rgba8",
	TextureFormatSRGBA8:          "srgba8",
	TextureFormatRGBA16F:         "rgba16f",
	TextureFormatRGBA32F:         "rgba32f",
	TextureFormatDepth24Stencil8: "depth24stencil8",
	TextureFormatDepth32F:        "depth32f",
}

func (f TextureFormat) String() string {
	if name, ok := textureFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseTextureFormat parses the lower case name of a format, as used in configuration files.
//
// Parameters:
//   - name: the format name, for example "rgba16f"
//
// Returns:
//   - TextureFormat: the format
//   - error: error if the name is unknown
func ParseTextureFormat(name string) (TextureFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range textureFormatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown texture format %q", name)
}

// IsDepth reports whether the format stores depth.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24Stencil8 || f == TextureFormatDepth32F
}

// IsHDR reports whether the format stores floating point color.
func (f TextureFormat) IsHDR() bool {
	return f == TextureFormatRGBA16F || f == TextureFormatRGBA32F
}

// TextureFilter selects minification and magnification filtering.
type TextureFilter int

const (
	TextureFilterLinear TextureFilter = iota
	TextureFilterNearest
)

// TextureWrap selects the addressing mode outside the [0, 1] range.
type TextureWrap int

const (
	TextureWrapRepeat TextureWrap = iota
	TextureWrapClampToEdge
	TextureWrapClampToBorder
)

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Width   int
	Height  int
	Format  TextureFormat
	Samples int
	Filter  TextureFilter
	Wrap    TextureWrap
	// Pixels is optional initial data, RGBA8 for color formats.
	Pixels []byte
	// Mipmaps requests mipmap generation after upload.
	Mipmaps bool
}

// Texture is a handle to a GPU texture together with the description it was created from.
type Texture struct {
	Handle  uint32
	Width   int
	Height  int
	Format  TextureFormat
	Samples int
}

// IsValid reports whether the texture refers to a live GPU object.
func (t Texture) IsValid() bool {
	return t.Handle != 0
}

// IsMultiSampled reports whether the texture stores more than one sample per pixel.
func (t Texture) IsMultiSampled() bool {
	return t.Samples > 1
}

// FramebufferDescriptor describes an off-screen framebuffer and its attachments.
type FramebufferDescriptor struct {
	Width       int
	Height      int
	Samples     int
	HasColor    bool
	ColorFormat TextureFormat
	HasDepth    bool
	DepthFormat TextureFormat
	Wrap        TextureWrap
}

// FramebufferAttachments holds the handles created for a framebuffer.
type FramebufferAttachments struct {
	Handle uint32
	Color  Texture
	Depth  Texture
}
