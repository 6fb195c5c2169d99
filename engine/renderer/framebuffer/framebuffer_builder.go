package framebuffer

import (
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// FramebufferBuilderOption is a functional option for configuring a Framebuffer.
type FramebufferBuilderOption func(*framebuffer)

// WithSize sets the initial size in pixels.
func WithSize(width, height int) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.Width, f.descriptor.Height = width, height
	}
}

// WithSamples sets the number of samples per pixel for multisampled attachments.
func WithSamples(samples int) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.Samples = max(samples, 1)
	}
}

// WithColor sets the color attachment format.
func WithColor(format gpu.TextureFormat) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.HasColor = true
		f.descriptor.ColorFormat = format
	}
}

// WithoutColor removes the color attachment, used for depth only targets.
func WithoutColor() FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.HasColor = false
	}
}

// WithDepth sets the depth attachment format.
func WithDepth(format gpu.TextureFormat) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.HasDepth = true
		f.descriptor.DepthFormat = format
	}
}

// WithoutDepth removes the depth attachment.
func WithoutDepth() FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.HasDepth = false
	}
}

// WithWrap sets the addressing mode of the attachments when sampled.
func WithWrap(wrap gpu.TextureWrap) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.descriptor.Wrap = wrap
	}
}

// WithFixedSize keeps the framebuffer at its size when the window is resized.
func WithFixedSize() FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.fixedSize = true
	}
}

// WithSRGB marks the default framebuffer as converting linear writes to sRGB.
// Off-screen framebuffers are sRGB exactly when their color format is.
func WithSRGB(srgb bool) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.srgb = srgb
	}
}

// WithClearColor sets the color used by Clear.
func WithClearColor(color mgl32.Vec4) FramebufferBuilderOption {
	return func(f *framebuffer) {
		f.clearColor = color
	}
}
