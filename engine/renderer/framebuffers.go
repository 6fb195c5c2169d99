package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxCustomFramebuffers is the number of custom framebuffers a renderer owns at most.
const MaxCustomFramebuffers = 4

// mainClearColor is the linear gray the lighting pass clears to.
var mainClearColor = mgl32.Vec4{0.064, 0.064, 0.064, 1}

// CustomFramebuffer describes an extra framebuffer owned by the renderer, for example the target
// of a custom pass. A zero width or height makes it follow the window size.
type CustomFramebuffer struct {
	Name string
	gpu.FramebufferDescriptor
}

type framebuffers struct {
	window    framebuffer.Framebuffer
	shadowMap framebuffer.Framebuffer
	main      framebuffer.Framebuffer
	postA     framebuffer.Framebuffer
	postB     framebuffer.Framebuffer
	final     framebuffer.Framebuffer
	custom    map[string]framebuffer.Framebuffer
}

func (f *framebuffers) all() []framebuffer.Framebuffer {
	list := []framebuffer.Framebuffer{f.shadowMap, f.main, f.postA, f.postB, f.final}
	for _, c := range f.custom {
		list = append(list, c)
	}
	return list
}

func (f *framebuffers) destroy() {
	for _, fb := range f.all() {
		if fb != nil {
			fb.Destroy()
		}
	}
	f.custom = nil
}

func (r *renderer) createFramebuffers() error {
	var err error
	f := &r.framebuffers
	f.custom = map[string]framebuffer.Framebuffer{}

	f.window = framebuffer.NewDefault(r.device, r.width, r.height, framebuffer.WithSRGB(r.gammaCorrection))

	f.shadowMap, err = framebuffer.NewFramebuffer("shadow map", r.device,
		framebuffer.WithSize(r.shadowResolution, r.shadowResolution),
		framebuffer.WithoutColor(),
		framebuffer.WithDepth(gpu.TextureFormatDepth32F),
		framebuffer.WithWrap(gpu.TextureWrapClampToBorder),
		framebuffer.WithFixedSize(),
	)
	if err != nil {
		return err
	}

	f.main, err = framebuffer.NewFramebuffer("main", r.device,
		framebuffer.WithSize(r.width, r.height),
		framebuffer.WithSamples(int(r.msaa)),
		framebuffer.WithColor(r.colorFormat),
		framebuffer.WithDepth(gpu.TextureFormatDepth24Stencil8),
		framebuffer.WithClearColor(mainClearColor),
	)
	if err != nil {
		return err
	}

	if f.postA, err = r.newPostprocessingFramebuffer("postprocessing A"); err != nil {
		return err
	}
	if f.postB, err = r.newPostprocessingFramebuffer("postprocessing B"); err != nil {
		return err
	}

	finalFormat := gpu.TextureFormatRGBA8
	if r.gammaCorrection {
		finalFormat = gpu.TextureFormatSRGBA8
	}
	f.final, err = framebuffer.NewFramebuffer("final", r.device,
		framebuffer.WithSize(r.width, r.height),
		framebuffer.WithColor(finalFormat),
		framebuffer.WithoutDepth(),
	)
	if err != nil {
		return err
	}

	if len(r.customFramebuffers) > MaxCustomFramebuffers {
		r.logger.Error("too many custom framebuffers, ignoring the rest",
			"requested", len(r.customFramebuffers), "max", MaxCustomFramebuffers)
	}
	for _, c := range r.customFramebuffers[:min(len(r.customFramebuffers), MaxCustomFramebuffers)] {
		if _, ok := f.custom[c.Name]; ok {
			return fmt.Errorf("%w: custom framebuffer %q", ErrDuplicate, c.Name)
		}
		fb, err := r.newCustomFramebuffer(c)
		if err != nil {
			return err
		}
		f.custom[c.Name] = fb
	}
	return nil
}

func (r *renderer) newPostprocessingFramebuffer(name string) (framebuffer.Framebuffer, error) {
	return framebuffer.NewFramebuffer(name, r.device,
		framebuffer.WithSize(r.width, r.height),
		framebuffer.WithColor(r.colorFormat),
		framebuffer.WithoutDepth(),
	)
}

func (r *renderer) newCustomFramebuffer(c CustomFramebuffer) (framebuffer.Framebuffer, error) {
	options := []framebuffer.FramebufferBuilderOption{
		framebuffer.WithSamples(c.Samples),
		framebuffer.WithWrap(c.Wrap),
	}
	if c.Width > 0 && c.Height > 0 {
		options = append(options, framebuffer.WithSize(c.Width, c.Height), framebuffer.WithFixedSize())
	} else {
		options = append(options, framebuffer.WithSize(r.width, r.height))
	}
	if c.HasColor {
		options = append(options, framebuffer.WithColor(c.ColorFormat))
	} else {
		options = append(options, framebuffer.WithoutColor())
	}
	if c.HasDepth {
		options = append(options, framebuffer.WithDepth(c.DepthFormat))
	} else {
		options = append(options, framebuffer.WithoutDepth())
	}
	return framebuffer.NewFramebuffer(c.Name, r.device, options...)
}

func (r *renderer) OnFramebufferResize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		// Minimized windows report a zero size.
		return nil
	}
	r.width, r.height = width, height
	r.device.SetViewport(width, height)

	var errs []error
	if err := r.framebuffers.window.Resize(width, height); err != nil {
		errs = append(errs, err)
	}
	for _, fb := range r.framebuffers.all() {
		if fb == nil || !fb.FollowsWindow() {
			continue
		}
		if err := fb.Resize(width, height); err != nil {
			errs = append(errs, err)
		}
	}

	// Attachments were recreated, so every material sampling them needs the new handles.
	r.rebindFramebufferTextures()
	r.setViewportIntrinsic()
	r.currentTarget = nil

	if err := errors.Join(errs...); err != nil {
		r.logger.Error("framebuffer resize failed", "width", width, "height", height, "error", err)
		return err
	}
	return nil
}

// rebindFramebufferTextures points the built-in and shadow receiving materials at the current attachments.
func (r *renderer) rebindFramebufferTextures() {
	if m := r.builtins.msaaResolveMaterial; m != nil {
		m.SetTexture("uniform_tex", r.framebuffers.main.ColorAttachment())
	}
	depth := r.framebuffers.shadowMap.DepthAttachment()
	for _, q := range r.queues {
		for _, rn := range q.renderables {
			if rn.ReceivesShadows() {
				rn.Material().SetTexture(shadowSampler, depth)
			}
		}
	}
}

func (r *renderer) SetFinalPassToUseFinalFramebuffer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.passes[PassFinal]; ok {
		p.Target = r.framebuffers.final
	}
}

func (r *renderer) SetFinalPassToUseDefaultFramebuffer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.passes[PassFinal]; ok {
		p.Target = nil
	}
}

func (r *renderer) DefaultFramebuffer() framebuffer.Framebuffer {
	return r.framebuffers.window
}

func (r *renderer) MainFramebuffer() framebuffer.Framebuffer {
	return r.framebuffers.main
}

func (r *renderer) ShadowMapFramebuffer() framebuffer.Framebuffer {
	return r.framebuffers.shadowMap
}

func (r *renderer) PostprocessingFramebuffers() (framebuffer.Framebuffer, framebuffer.Framebuffer) {
	return r.framebuffers.postA, r.framebuffers.postB
}

func (r *renderer) FinalFramebuffer() framebuffer.Framebuffer {
	return r.framebuffers.final
}

func (r *renderer) CustomFramebuffer(name string) (framebuffer.Framebuffer, bool) {
	fb, ok := r.framebuffers.custom[name]
	return fb, ok
}

// target resolves a pass or queue target, nil meaning the window.
func (r *renderer) target(fb framebuffer.Framebuffer) framebuffer.Framebuffer {
	if fb == nil {
		return r.framebuffers.window
	}
	return fb
}
