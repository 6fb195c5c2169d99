package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Renderer.MSAA)
	assert.Equal(t, HotReloadStat, cfg.Renderer.HotReloadMode())
	assert.Equal(t, 2048, cfg.Renderer.Shadow.Resolution)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  title: demo
  width: 800
  height: 600
renderer:
  msaa: 8
  hot_reload:
    enabled: true
    mode: fsnotify
  custom_framebuffers:
    - name: picking
      color: rgba8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.True(t, cfg.Window.VSync, "unset keys keep their defaults")
	assert.Equal(t, 8, cfg.Renderer.MSAA)
	assert.Equal(t, "rgba16f", cfg.Renderer.ColorFormat)
	assert.Equal(t, HotReloadFSNotify, cfg.Renderer.HotReloadMode())
	require.Len(t, cfg.Renderer.CustomFramebuffers, 1)
	assert.Equal(t, "picking", cfg.Renderer.CustomFramebuffers[0].Name)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[renderer]
msaa = 1
gamma_correction = false

[renderer.hot_reload]
enabled = false

[renderer.shadow]
left = -10.0
right = 10.0
bottom = -10.0
top = 10.0
near = 1.0
far = 20.0
resolution = 1024
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Renderer.MSAA)
	assert.False(t, cfg.Renderer.GammaCorrection)
	assert.Equal(t, HotReloadOff, cfg.Renderer.HotReloadMode())
	assert.Equal(t, float32(-10), cfg.Renderer.Shadow.Left)
	assert.Equal(t, 1024, cfg.Renderer.Shadow.Resolution)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode("yaml", []byte("renderer:\n  msa: 4\n"))
	assert.Error(t, err)

	_, err = Decode("toml", []byte("[renderer]\nmsa = 4\n"))
	assert.Error(t, err)

	_, err = Decode("json", []byte("{}"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Decode(".yml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "msaa", modify: func(c *Config) { c.Renderer.MSAA = 3 }},
		{name: "window", modify: func(c *Config) { c.Window.Width = 0 }},
		{name: "color format", modify: func(c *Config) { c.Renderer.ColorFormat = "rgb565" }},
		{name: "hot reload mode", modify: func(c *Config) { c.Renderer.HotReload.Mode = "inotify" }},
		{name: "inverted shadow", modify: func(c *Config) { c.Renderer.Shadow.Near = 200 }},
		{name: "custom depth format", modify: func(c *Config) {
			c.Renderer.CustomFramebuffers = []FramebufferConfig{{Name: "a", Depth: "rgba8"}}
		}},
		{name: "too many custom framebuffers", modify: func(c *Config) {
			for _, name := range []string{"a", "b", "c", "d", "e"} {
				c.Renderer.CustomFramebuffers = append(c.Renderer.CustomFramebuffers, FramebufferConfig{Name: name})
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Renderer.MSAA = 5
	cfg.Window.Height = -1

	err := cfg.Validate()
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
}
