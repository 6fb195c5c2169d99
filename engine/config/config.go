// Package config holds the window and renderer settings of an engine and loads them from
// YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// MaxCustomFramebuffers is the number of custom framebuffers a renderer can own.
const MaxCustomFramebuffers = 4

// Hot reload modes.
const (
	HotReloadOff      = "off"
	HotReloadStat     = "stat"
	HotReloadFSNotify = "fsnotify"
)

var colorFormats = []string{"rgba8", "srgba8", "rgba16f", "rgba32f"}
var depthFormats = []string{"depth24stencil8", "depth32f"}

// Config is the root of a configuration file.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
}

// WindowConfig describes the window and its context.
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

// RendererConfig describes the frame orchestrator.
type RendererConfig struct {
	// MSAA is the sample count of the main framebuffer, 1 disables multisampling.
	MSAA int `yaml:"msaa" toml:"msaa"`

	// GammaCorrection makes the final framebuffer sRGB encoded.
	GammaCorrection bool `yaml:"gamma_correction" toml:"gamma_correction"`

	// ColorFormat is the color format of the main and postprocessing framebuffers.
	ColorFormat string `yaml:"color_format" toml:"color_format"`

	// ShaderDir is the root user shaders are read from.
	ShaderDir string `yaml:"shader_dir" toml:"shader_dir"`

	// IncludeDirs are searched, relative to ShaderDir, after the including file's directory.
	IncludeDirs []string `yaml:"include_dirs" toml:"include_dirs"`

	HotReload          HotReloadConfig     `yaml:"hot_reload" toml:"hot_reload"`
	Shadow             ShadowConfig        `yaml:"shadow" toml:"shadow"`
	Slots              SlotConfig          `yaml:"slots" toml:"slots"`
	CustomFramebuffers []FramebufferConfig `yaml:"custom_framebuffers" toml:"custom_framebuffers"`
}

// HotReloadConfig selects how modified shader sources are detected.
type HotReloadConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"`
}

// ShadowConfig is the orthographic volume of the directional light and the shadow map size.
type ShadowConfig struct {
	Left       float32 `yaml:"left" toml:"left"`
	Right      float32 `yaml:"right" toml:"right"`
	Bottom     float32 `yaml:"bottom" toml:"bottom"`
	Top        float32 `yaml:"top" toml:"top"`
	Near       float32 `yaml:"near" toml:"near"`
	Far        float32 `yaml:"far" toml:"far"`
	Resolution int     `yaml:"resolution" toml:"resolution"`
}

// SlotConfig sizes the Intrinsic and Global binding slot partitions. Regular blocks get the rest.
type SlotConfig struct {
	Intrinsic int `yaml:"intrinsic" toml:"intrinsic"`
	Global    int `yaml:"global" toml:"global"`
}

// FramebufferConfig describes a custom framebuffer. A zero size follows the window.
type FramebufferConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Width   int    `yaml:"width" toml:"width"`
	Height  int    `yaml:"height" toml:"height"`
	Samples int    `yaml:"samples" toml:"samples"`
	Color   string `yaml:"color" toml:"color"`
	Depth   string `yaml:"depth" toml:"depth"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-render",
			Width:  1600,
			Height: 900,
			VSync:  true,
		},
		Renderer: RendererConfig{
			MSAA:            4,
			GammaCorrection: true,
			ColorFormat:     "rgba16f",
			ShaderDir:       "shaders",
			HotReload:       HotReloadConfig{Enabled: true, Mode: HotReloadStat},
			Shadow: ShadowConfig{
				Left: -50, Right: 50,
				Bottom: -50, Top: 50,
				Near: 0.1, Far: 100,
				Resolution: 2048,
			},
			Slots: SlotConfig{Intrinsic: 4, Global: 4},
		},
	}
}

// Validate reports every problem of the configuration at once.
//
// Returns:
//   - error: nil, or the joined problems each wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fail("window size %dx%d", c.Window.Width, c.Window.Height)
	}

	r := c.Renderer
	if !slices.Contains([]int{1, 2, 4, 8, 16}, r.MSAA) {
		fail("msaa %d is not one of 1, 2, 4, 8, 16", r.MSAA)
	}
	if !slices.Contains(colorFormats, strings.ToLower(r.ColorFormat)) {
		fail("color format %q", r.ColorFormat)
	}
	if r.HotReload.Enabled && !slices.Contains([]string{HotReloadOff, HotReloadStat, HotReloadFSNotify}, r.HotReload.Mode) {
		fail("hot reload mode %q", r.HotReload.Mode)
	}

	s := r.Shadow
	if s.Left >= s.Right || s.Bottom >= s.Top || s.Near >= s.Far {
		fail("shadow volume (%g, %g, %g, %g, %g, %g) is inverted", s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
	}
	if s.Resolution <= 0 {
		fail("shadow resolution %d", s.Resolution)
	}
	if r.Slots.Intrinsic < 0 || r.Slots.Global < 0 {
		fail("negative slot partition")
	}

	if len(r.CustomFramebuffers) > MaxCustomFramebuffers {
		fail("%d custom framebuffers, at most %d", len(r.CustomFramebuffers), MaxCustomFramebuffers)
	}
	for i, fb := range r.CustomFramebuffers {
		if fb.Name == "" {
			fail("custom framebuffer %d has no name", i)
		}
		if fb.Width < 0 || fb.Height < 0 {
			fail("custom framebuffer %q size %dx%d", fb.Name, fb.Width, fb.Height)
		}
		if fb.Color != "" && !slices.Contains(colorFormats, strings.ToLower(fb.Color)) {
			fail("custom framebuffer %q color format %q", fb.Name, fb.Color)
		}
		if fb.Depth != "" && !slices.Contains(depthFormats, strings.ToLower(fb.Depth)) {
			fail("custom framebuffer %q depth format %q", fb.Name, fb.Depth)
		}
	}

	return errors.Join(errs...)
}

// HotReloadMode returns the effective hot reload mode, HotReloadOff when disabled.
func (r RendererConfig) HotReloadMode() string {
	if !r.HotReload.Enabled {
		return HotReloadOff
	}
	return r.HotReload.Mode
}
