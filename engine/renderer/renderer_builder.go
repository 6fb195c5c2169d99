package renderer

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/light"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithMSAA sets the multisample anti-aliasing sample count of the main framebuffer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
// Higher values (MSAA8x, MSAA16x) are driver dependent.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithGammaCorrection selects whether the final image is sRGB encoded. Enabled by default.
//
// Parameters:
//   - enabled: true to write the final framebuffer in sRGB
//
// Returns:
//   - RendererBuilderOption: a function that applies the gamma option to a renderer
func WithGammaCorrection(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.gammaCorrection = enabled
	}
}

// WithColorFormat sets the color format of the main and postprocessing framebuffers.
// The default is RGBA16F so lighting can exceed 1 before tone mapping.
//
// Parameters:
//   - format: a color texture format
//
// Returns:
//   - RendererBuilderOption: a function that applies the format to a renderer
func WithColorFormat(format gpu.TextureFormat) RendererBuilderOption {
	return func(r *renderer) {
		r.colorFormat = format
	}
}

// WithShaderFS sets the file system user shaders are read from.
//
// Parameters:
//   - fsys: the shader root
//
// Returns:
//   - RendererBuilderOption: a function that applies the file system to a renderer
func WithShaderFS(fsys fs.FS) RendererBuilderOption {
	return func(r *renderer) {
		r.userFS = fsys
	}
}

// WithShaderDir reads user shaders from a directory on disk. The directory is also the root
// watched in HotReloadFSNotify mode.
//
// Parameters:
//   - dir: the shader directory
//
// Returns:
//   - RendererBuilderOption: a function that applies the directory to a renderer
func WithShaderDir(dir string) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderDir = dir
	}
}

// WithIncludeDirs adds directories searched for includes after the including file's directory.
// The shader root is always searched last.
func WithIncludeDirs(dirs ...string) RendererBuilderOption {
	return func(r *renderer) {
		r.includeDirs = append(r.includeDirs, dirs...)
	}
}

// WithCustomFramebuffers creates extra framebuffers owned by the renderer, at most
// MaxCustomFramebuffers. Extra descriptors are logged and ignored.
//
// Parameters:
//   - framebuffers: the framebuffer descriptions
//
// Returns:
//   - RendererBuilderOption: a function that applies the framebuffers to a renderer
func WithCustomFramebuffers(framebuffers ...CustomFramebuffer) RendererBuilderOption {
	return func(r *renderer) {
		r.customFramebuffers = append(r.customFramebuffers, framebuffers...)
	}
}

// WithShadowProjection sets the orthographic volume the directional light's shadow camera
// captures and the resolution of the shadow map.
//
// Parameters:
//   - volume: the volume in light view space
//   - resolution: the shadow map width and height, 0 keeps light.ShadowMapResolution
//
// Returns:
//   - RendererBuilderOption: a function that applies the projection to a renderer
func WithShadowProjection(volume light.OrthographicVolume, resolution int) RendererBuilderOption {
	return func(r *renderer) {
		r.shadowVolume = volume
		if resolution > 0 {
			r.shadowResolution = resolution
		}
	}
}

// WithSlotPartitions sizes the Intrinsic and Global binding slot partitions. Zero keeps the default.
func WithSlotPartitions(intrinsic, global int) RendererBuilderOption {
	return func(r *renderer) {
		r.intrinsicSlots = intrinsic
		r.globalSlots = global
	}
}

// WithHotReload selects how modified shader sources are detected. The default is HotReloadStat.
//
// Parameters:
//   - mode: the hot reload mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the mode to a renderer
func WithHotReload(mode HotReloadMode) RendererBuilderOption {
	return func(r *renderer) {
		r.hotReload = mode
	}
}

// WithWatcher supplies the watcher used in HotReloadFSNotify mode. The renderer does not close it.
func WithWatcher(w program.Watcher) RendererBuilderOption {
	return func(r *renderer) {
		r.watcher = w
		r.ownsWatcher = false
	}
}

// WithLogger sets the logger of the renderer and of the programs and materials it creates.
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// OptionsFromConfig translates a renderer configuration into builder options.
//
// Parameters:
//   - cfg: the renderer configuration, usually from config.Load
//
// Returns:
//   - []RendererBuilderOption: the options
//   - error: an error if a format or mode is unknown
func OptionsFromConfig(cfg config.RendererConfig) ([]RendererBuilderOption, error) {
	colorFormat, err := gpu.ParseTextureFormat(cfg.ColorFormat)
	if err != nil {
		return nil, err
	}
	mode, err := ParseHotReloadMode(cfg.HotReloadMode())
	if err != nil {
		return nil, err
	}

	customs := make([]CustomFramebuffer, 0, len(cfg.CustomFramebuffers))
	for _, c := range cfg.CustomFramebuffers {
		custom, err := customFramebufferFromConfig(c)
		if err != nil {
			return nil, err
		}
		customs = append(customs, custom)
	}

	s := cfg.Shadow
	options := []RendererBuilderOption{
		WithMSAA(MSAASampleCount(cfg.MSAA)),
		WithGammaCorrection(cfg.GammaCorrection),
		WithColorFormat(colorFormat),
		WithIncludeDirs(cfg.IncludeDirs...),
		WithCustomFramebuffers(customs...),
		WithShadowProjection(light.OrthographicVolume{
			Left: s.Left, Right: s.Right, Bottom: s.Bottom, Top: s.Top, Near: s.Near, Far: s.Far,
		}, s.Resolution),
		WithSlotPartitions(cfg.Slots.Intrinsic, cfg.Slots.Global),
		WithHotReload(mode),
	}
	if cfg.ShaderDir != "" {
		options = append(options, WithShaderDir(cfg.ShaderDir))
	}
	return options, nil
}

func customFramebufferFromConfig(c config.FramebufferConfig) (CustomFramebuffer, error) {
	custom := CustomFramebuffer{Name: c.Name}
	custom.Width, custom.Height = c.Width, c.Height
	custom.Samples = max(c.Samples, 1)
	custom.Wrap = gpu.TextureWrapClampToEdge

	if c.Color != "" {
		format, err := gpu.ParseTextureFormat(c.Color)
		if err != nil {
			return CustomFramebuffer{}, fmt.Errorf("custom framebuffer %s: %w", c.Name, err)
		}
		custom.HasColor, custom.ColorFormat = true, format
	}
	if c.Depth != "" {
		format, err := gpu.ParseTextureFormat(c.Depth)
		if err != nil {
			return CustomFramebuffer{}, fmt.Errorf("custom framebuffer %s: %w", c.Name, err)
		}
		custom.HasDepth, custom.DepthFormat = true, format
	}
	if !custom.HasColor && !custom.HasDepth {
		custom.HasColor, custom.ColorFormat = true, gpu.TextureFormatRGBA8
	}
	return custom, nil
}
