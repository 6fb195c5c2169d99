package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// textureFormat holds the internal format of a texture and the client format its pixels are uploaded in.
type textureFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var textureFormats = map[gpu.TextureFormat]textureFormat{
	gpu.TextureFormatRGBA8:           {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gpu.TextureFormatSRGBA8:          {gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gpu.TextureFormatRGBA16F:         {gl.RGBA16F, gl.RGBA, gl.UNSIGNED_BYTE},
	gpu.TextureFormatRGBA32F:         {gl.RGBA32F, gl.RGBA, gl.UNSIGNED_BYTE},
	gpu.TextureFormatDepth24Stencil8: {gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8},
	gpu.TextureFormatDepth32F:        {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
}

var textureWraps = map[gpu.TextureWrap]int32{
	gpu.TextureWrapRepeat:        gl.REPEAT,
	gpu.TextureWrapClampToEdge:   gl.CLAMP_TO_EDGE,
	gpu.TextureWrapClampToBorder: gl.CLAMP_TO_BORDER,
}

func (d *device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	f, ok := textureFormats[desc.Format]
	if !ok {
		return gpu.Texture{}, fmt.Errorf("unsupported texture format %s", desc.Format)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpu.Texture{}, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	samples := max(desc.Samples, 1)
	if samples > 1 && len(desc.Pixels) > 0 {
		return gpu.Texture{}, errors.New("multisampled textures cannot be uploaded to")
	}

	tex := gpu.Texture{Width: desc.Width, Height: desc.Height, Format: desc.Format, Samples: samples}
	gl.GenTextures(1, &tex.Handle)

	if samples > 1 {
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, tex.Handle)
		gl.TexImage2DMultisample(gl.TEXTURE_2D_MULTISAMPLE, int32(samples), uint32(f.internal),
			int32(desc.Width), int32(desc.Height), true)
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, 0)
		d.check("CreateTexture")
		return tex, nil
	}

	gl.BindTexture(gl.TEXTURE_2D, tex.Handle)
	var pixels unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pixels = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, int32(desc.Width), int32(desc.Height), 0, f.format, f.xtype, pixels)

	filter := int32(gl.LINEAR)
	if desc.Filter == gpu.TextureFilterNearest {
		filter = gl.NEAREST
	}
	minFilter := filter
	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	wrap := textureWraps[desc.Wrap]
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if desc.Wrap == gpu.TextureWrapClampToBorder {
		// Depth outside the shadow map reads as the far plane, so nothing there is shadowed.
		border := mgl32.Vec4{1, 1, 1, 1}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	d.check("CreateTexture")
	return tex, nil
}

func (d *device) DeleteTexture(texture gpu.Texture) {
	if texture.Handle != 0 {
		gl.DeleteTextures(1, &texture.Handle)
	}
}

func (d *device) BindTexture(unit uint32, texture gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if texture.IsMultiSampled() {
		gl.BindTexture(gl.TEXTURE_2D_MULTISAMPLE, texture.Handle)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, texture.Handle)
}

func (d *device) CreateFramebuffer(desc gpu.FramebufferDescriptor) (gpu.FramebufferAttachments, error) {
	var a gpu.FramebufferAttachments
	gl.GenFramebuffers(1, &a.Handle)
	gl.BindFramebuffer(gl.FRAMEBUFFER, a.Handle)

	texture := func(format gpu.TextureFormat) (gpu.Texture, error) {
		return d.CreateTexture(gpu.TextureDescriptor{
			Width:   desc.Width,
			Height:  desc.Height,
			Format:  format,
			Samples: desc.Samples,
			Wrap:    desc.Wrap,
		})
	}
	target := uint32(gl.TEXTURE_2D)
	if desc.Samples > 1 {
		target = gl.TEXTURE_2D_MULTISAMPLE
	}

	var err error
	if desc.HasColor {
		if a.Color, err = texture(desc.ColorFormat); err != nil {
			d.DeleteFramebuffer(a)
			return gpu.FramebufferAttachments{}, err
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, target, a.Color.Handle, 0)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if desc.HasDepth {
		if a.Depth, err = texture(desc.DepthFormat); err != nil {
			d.DeleteFramebuffer(a)
			return gpu.FramebufferAttachments{}, err
		}
		attachment := uint32(gl.DEPTH_ATTACHMENT)
		if desc.DepthFormat == gpu.TextureFormatDepth24Stencil8 {
			attachment = gl.DEPTH_STENCIL_ATTACHMENT
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, target, a.Depth.Handle, 0)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(a)
		return gpu.FramebufferAttachments{}, fmt.Errorf("framebuffer incomplete: status 0x%04X", status)
	}
	d.check("CreateFramebuffer")
	return a, nil
}

func (d *device) DeleteFramebuffer(a gpu.FramebufferAttachments) {
	d.DeleteTexture(a.Color)
	d.DeleteTexture(a.Depth)
	if a.Handle != 0 {
		gl.DeleteFramebuffers(1, &a.Handle)
	}
}

func (d *device) BindFramebuffer(framebuffer uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
}

func (d *device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *device) Clear(color mgl32.Vec4, clearColor, clearDepth, clearStencil bool) {
	var mask uint32
	if clearColor {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if clearDepth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if clearStencil {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}
