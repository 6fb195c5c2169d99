// Package framebuffer provides render surfaces: the window's default framebuffer and
// off-screen framebuffers with color and depth attachments.
package framebuffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

type framebuffer struct {
	name        string
	device      gpu.Device
	isDefault   bool
	srgb        bool
	fixedSize   bool
	clearColor  mgl32.Vec4
	descriptor  gpu.FramebufferDescriptor
	attachments gpu.FramebufferAttachments
}

// Framebuffer is a surface a pass renders into.
type Framebuffer interface {
	// Name returns the framebuffer's name.
	Name() string

	// Handle returns the GPU handle, 0 for the default framebuffer.
	Handle() uint32

	// Size returns the width and height in pixels.
	//
	// Returns:
	//   - width, height: the current size
	Size() (width, height int)

	// Samples returns the number of samples per pixel, 1 when not multisampled.
	Samples() int

	// IsDefault reports whether this is the window's framebuffer.
	IsDefault() bool

	// IsSRGB reports whether writes are converted from linear to sRGB.
	IsSRGB() bool

	// IsMultiSampled reports whether the attachments hold more than one sample per pixel.
	IsMultiSampled() bool

	// FollowsWindow reports whether Resize changes the framebuffer. Fixed size surfaces
	// such as the shadow map ignore window resizes.
	FollowsWindow() bool

	// ColorAttachment returns the color texture, invalid when there is none.
	ColorAttachment() gpu.Texture

	// DepthAttachment returns the depth texture, invalid when there is none.
	DepthAttachment() gpu.Texture

	// ClearColor returns the color used by Clear.
	ClearColor() mgl32.Vec4

	// SetClearColor sets the color used by Clear.
	//
	// Parameters:
	//   - color: linear RGBA clear color
	SetClearColor(color mgl32.Vec4)

	// Bind makes the framebuffer the draw target and sets the viewport to its size.
	Bind()

	// Clear clears every attachment the framebuffer has. The framebuffer must be bound.
	Clear()

	// Resize recreates the attachments at a new size. The default framebuffer only records the size.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	//
	// Returns:
	//   - error: an error if the attachments could not be recreated
	Resize(width, height int) error

	// Destroy releases the GPU framebuffer and its attachments.
	Destroy()
}

var _ Framebuffer = &framebuffer{}

// NewDefault wraps the window's framebuffer.
//
// Parameters:
//   - device: the GPU device
//   - width, height: the window's framebuffer size
//   - options: WithSRGB and WithClearColor are honored
//
// Returns:
//   - Framebuffer: the default framebuffer
func NewDefault(device gpu.Device, width, height int, options ...FramebufferBuilderOption) Framebuffer {
	f := &framebuffer{
		name:       "default",
		device:     device,
		isDefault:  true,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
		descriptor: gpu.FramebufferDescriptor{Width: width, Height: height, Samples: 1, HasColor: true, HasDepth: true},
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// NewFramebuffer creates an off-screen framebuffer. Without options it has a 1x1 RGBA8 color
// attachment and a depth-stencil attachment.
//
// Parameters:
//   - name: the framebuffer's name
//   - device: the GPU device
//   - options: functional options configuring size, samples and attachments
//
// Returns:
//   - Framebuffer: the created framebuffer
//   - error: an error if the attachments could not be created
func NewFramebuffer(name string, device gpu.Device, options ...FramebufferBuilderOption) (Framebuffer, error) {
	f := &framebuffer{
		name:       name,
		device:     device,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
		descriptor: gpu.FramebufferDescriptor{
			Width:       1,
			Height:      1,
			Samples:     1,
			HasColor:    true,
			ColorFormat: gpu.TextureFormatRGBA8,
			HasDepth:    true,
			DepthFormat: gpu.TextureFormatDepth24Stencil8,
			Wrap:        gpu.TextureWrapClampToEdge,
		},
	}
	for _, option := range options {
		option(f)
	}
	if f.descriptor.HasColor && f.descriptor.ColorFormat == gpu.TextureFormatSRGBA8 {
		f.srgb = true
	}
	if !f.descriptor.HasColor && !f.descriptor.HasDepth {
		return nil, fmt.Errorf("framebuffer %s has no attachments", name)
	}

	attachments, err := device.CreateFramebuffer(f.descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to create framebuffer %s: %w", name, err)
	}
	f.attachments = attachments
	return f, nil
}

func (f *framebuffer) Name() string {
	return f.name
}

func (f *framebuffer) Handle() uint32 {
	return f.attachments.Handle
}

func (f *framebuffer) Size() (int, int) {
	return f.descriptor.Width, f.descriptor.Height
}

func (f *framebuffer) Samples() int {
	return max(f.descriptor.Samples, 1)
}

func (f *framebuffer) IsDefault() bool {
	return f.isDefault
}

func (f *framebuffer) IsSRGB() bool {
	return f.srgb
}

func (f *framebuffer) IsMultiSampled() bool {
	return f.Samples() > 1
}

func (f *framebuffer) FollowsWindow() bool {
	return !f.fixedSize
}

func (f *framebuffer) ColorAttachment() gpu.Texture {
	return f.attachments.Color
}

func (f *framebuffer) DepthAttachment() gpu.Texture {
	return f.attachments.Depth
}

func (f *framebuffer) ClearColor() mgl32.Vec4 {
	return f.clearColor
}

func (f *framebuffer) SetClearColor(color mgl32.Vec4) {
	f.clearColor = color
}

func (f *framebuffer) Bind() {
	f.device.BindFramebuffer(f.attachments.Handle)
	f.device.SetViewport(f.descriptor.Width, f.descriptor.Height)
}

func (f *framebuffer) Clear() {
	hasStencil := f.isDefault || f.descriptor.DepthFormat == gpu.TextureFormatDepth24Stencil8
	f.device.Clear(f.clearColor, f.descriptor.HasColor, f.descriptor.HasDepth, f.descriptor.HasDepth && hasStencil)
}

func (f *framebuffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d for framebuffer %s", width, height, f.name)
	}
	if width == f.descriptor.Width && height == f.descriptor.Height {
		return nil
	}
	if f.isDefault {
		f.descriptor.Width, f.descriptor.Height = width, height
		return nil
	}

	desc := f.descriptor
	desc.Width, desc.Height = width, height
	attachments, err := f.device.CreateFramebuffer(desc)
	if err != nil {
		return fmt.Errorf("failed to resize framebuffer %s: %w", f.name, err)
	}
	f.device.DeleteFramebuffer(f.attachments)
	f.descriptor = desc
	f.attachments = attachments
	return nil
}

func (f *framebuffer) Destroy() {
	if f.isDefault || f.attachments.Handle == 0 {
		return
	}
	f.device.DeleteFramebuffer(f.attachments)
	f.attachments = gpu.FramebufferAttachments{}
}
