package renderer

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"log/slog"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/light"
	"github.com/Carmen-Shannon/oxy-render/engine/mesh"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/constant_buffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-render/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litVertex = `#version 410 core
#include "builtin/intrinsic_other.glsl"
layout(location = 0) in vec3 position;
uniform mat4 uniform_transform_world;
void main() { gl_Position = _INTRINSIC_TRANSFORM_VIEW_PROJECTION * uniform_transform_world * vec4(position, 1.0); }
`

const litFragment = `#version 410 core
#include "builtin/intrinsic_lighting.glsl"
uniform sampler2D uniform_tex_shadow;
out vec4 out_color;
void main() { out_color = vec4(1.0); }
`

func shaderTree() fstest.MapFS {
	return fstest.MapFS{
		"lit.vert": {Data: []byte(litVertex)},
		"lit.frag": {Data: []byte(litFragment)},
	}
}

type fixture struct {
	t      *testing.T
	device *gputest.Device
	fsys   fstest.MapFS
	r      *renderer
	logs   *bytes.Buffer
	quad   mesh.Mesh
}

func newFixture(t *testing.T, options ...RendererBuilderOption) *fixture {
	t.Helper()
	f := &fixture{t: t, device: gputest.New(), fsys: shaderTree(), logs: &bytes.Buffer{}}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	opts := append([]RendererBuilderOption{
		WithShaderFS(f.fsys),
		WithLogger(logger),
	}, options...)
	r, err := NewRenderer(f.device, 800, 600, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	f.r = r.(*renderer)

	f.quad, err = mesh.NewMesh("quad", f.device, mesh.FullscreenQuad()...)
	require.NoError(t, err)
	return f
}

func (f *fixture) program(name string) program.Program {
	f.t.Helper()
	p, err := f.r.CreateProgram(name,
		program.WithVertexSource("lit.vert"),
		program.WithFragmentSource("lit.frag"),
	)
	require.NoError(f.t, err)
	return p
}

func (f *fixture) renderable(mat material.Material, options ...RenderableBuilderOption) Renderable {
	return NewRenderable(f.quad, mat, options...)
}

func (f *fixture) boundFramebuffers() []uint32 {
	var handles []uint32
	for _, c := range f.device.Filter("BindFramebuffer") {
		handles = append(handles, c.Args[0].(uint32))
	}
	return handles
}

func at(z float32) RenderableBuilderOption {
	return WithTransform(transform.NewTransform(transform.WithTranslation(0, 0, z)))
}

func TestNewRendererRegistersBuiltins(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []PassID{PassShadowMapping, PassLighting, PassMSAAResolve, PassPostprocessing, PassFinal}, f.r.PassIDs())
	for _, id := range builtinQueues {
		assert.NotNil(t, f.r.Queue(id), "queue %d", id)
	}
	assert.True(t, f.r.builtins.shadowWrite.IsValid())
	assert.True(t, f.r.builtins.shadowWriteInstanced.IsFeatureSet("INSTANCING_ENABLED"))
	assert.True(t, f.r.builtins.msaaResolve.IsFeatureSet("MULTISAMPLED"))
	assert.True(t, f.r.intrinsics.Has(IntrinsicOtherBlock))
	assert.False(t, f.r.intrinsics.Has(IntrinsicLightingBlock))

	w, h := f.r.MainFramebuffer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, int(MSAA4x), f.r.MainFramebuffer().Samples())
	assert.True(t, f.r.MainFramebuffer().IsMultiSampled())
}

func TestNewRendererRejectsInvalidConfiguration(t *testing.T) {
	_, err := NewRenderer(gputest.New(), 800, 600, WithMSAA(3))
	assert.Error(t, err)

	_, err = NewRenderer(gputest.New(), 800, 600, WithShadowProjection(light.OrthographicVolume{Left: 1, Right: -1, Top: 1, Far: 1}, 0))
	assert.Error(t, err)

	_, err = NewRenderer(gputest.New(), 0, 600)
	assert.Error(t, err)
}

func TestAddAndRemoveRenderableAreInverse(t *testing.T) {
	f := newFixture(t)
	p := f.program("lit")
	mat := f.r.CreateMaterial("lit", material.WithProgram(p))
	a := f.renderable(mat)
	b := f.renderable(mat)

	require.NoError(t, f.r.AddRenderable(a, QueueGeometry))
	require.NoError(t, f.r.AddRenderable(b, QueueGeometry))
	assert.ErrorIs(t, f.r.AddRenderable(a, QueueGeometry), ErrDuplicate)

	q := f.r.Queue(QueueGeometry)
	assert.Equal(t, 2, q.programRefs[p])
	assert.Equal(t, 2, q.materialRefs["lit"])
	assert.Equal(t, 1, f.r.programs[p])
	assert.True(t, f.r.intrinsics.Has(IntrinsicLightingBlock))

	f.r.RemoveRenderable(a)
	assert.Equal(t, 1, q.programRefs[p])
	f.r.RemoveRenderable(a)
	assert.Equal(t, 1, q.programRefs[p])

	f.r.RemoveRenderable(b)
	assert.Empty(t, q.programRefs)
	assert.Empty(t, q.materials)
	assert.NotContains(t, f.r.programs, p)
	assert.False(t, f.r.intrinsics.Has(IntrinsicLightingBlock))
	assert.True(t, f.r.intrinsics.Has(IntrinsicOtherBlock), "the shadow programs still use it")
}

func TestAddRenderableToUnknownQueue(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))

	assert.ErrorIs(t, f.r.AddRenderable(f.renderable(mat), 1234), ErrUnknownQueue)
	assert.Contains(t, f.logs.String(), "render graph misuse")

	assert.Error(t, f.r.AddRenderable(f.renderable(f.r.CreateMaterial("empty")), QueueGeometry))
}

func TestRenderableReceivingShadowsSamplesTheShadowMap(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat, WithShadows(true, true)), QueueGeometry))

	depth := f.r.ShadowMapFramebuffer().DepthAttachment()
	assert.Contains(t, mat.Textures(), material.TextureSlot{Sampler: shadowSampler, Texture: depth})
}

func TestShaderReassignMovesReferences(t *testing.T) {
	f := newFixture(t)
	first := f.program("first")
	second := f.program("second")
	mat := f.r.CreateMaterial("lit", material.WithProgram(first))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))

	mat.SetProgram(second)

	q := f.r.Queue(QueueGeometry)
	assert.Equal(t, 2, q.programRefs[second])
	assert.NotContains(t, q.programRefs, first)
	assert.NotContains(t, f.r.programs, first)
	assert.Equal(t, 1, f.r.programs[second])
	assert.True(t, f.r.intrinsics.Has(IntrinsicLightingBlock))
}

func TestRenderVisitsPassesInOrder(t *testing.T) {
	f := newFixture(t)
	f.r.AddDirectionalLight(light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0)))
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat, at(-5)), QueueGeometry))
	bloom := f.r.CreateMaterial("bloom", material.WithProgram(f.program("bloom")))
	require.NoError(t, f.r.AddRenderable(f.renderable(bloom), QueuePostprocessingBloom))

	f.r.Update()
	f.device.Reset()
	f.r.Render()

	postA, postB := f.r.PostprocessingFramebuffers()
	assert.Equal(t, []uint32{
		f.r.ShadowMapFramebuffer().Handle(),
		f.r.MainFramebuffer().Handle(),
		postA.Handle(),
		postB.Handle(),
		0,
	}, f.boundFramebuffers())

	stats := f.r.Stats()
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 5, stats.Passes)
	assert.Equal(t, 5, stats.DrawCalls)
}

func TestRenderSkipsPassesWithoutContent(t *testing.T) {
	f := newFixture(t)

	f.device.Reset()
	f.r.Render()

	postA, _ := f.r.PostprocessingFramebuffers()
	assert.Equal(t, []uint32{postA.Handle(), 0}, f.boundFramebuffers())
	assert.Equal(t, 2, f.r.Stats().DrawCalls)
}

func TestFinalPassCanRenderOffscreen(t *testing.T) {
	f := newFixture(t)
	f.r.SetFinalPassToUseFinalFramebuffer()

	f.device.Reset()
	f.r.Render()
	handles := f.boundFramebuffers()
	assert.Equal(t, f.r.FinalFramebuffer().Handle(), handles[len(handles)-1])

	f.r.SetFinalPassToUseDefaultFramebuffer()
	f.device.Reset()
	f.r.Render()
	handles = f.boundFramebuffers()
	assert.Equal(t, uint32(0), handles[len(handles)-1])
}

func TestShadowPassOnlyDrawsCasters(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat, at(-1)), QueueGeometry))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat, at(-2), WithShadows(false, false)), QueueGeometry))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat, at(-3), WithEnabled(false)), QueueGeometry))

	f.device.Reset()
	f.r.Render()

	shadow := f.r.ShadowMapFramebuffer().Handle()
	main := f.r.MainFramebuffer().Handle()
	counts := map[uint32]int{}
	for _, c := range f.device.Filter("Draw") {
		counts[c.Args[2].(uint32)]++
	}
	assert.Equal(t, 1, counts[shadow])
	assert.Equal(t, 2, counts[main])

	for _, c := range f.device.Filter("Draw") {
		if c.Args[2].(uint32) == shadow {
			assert.Equal(t, f.r.builtins.shadowWrite.Handle(), c.Args[1])
		}
	}
}

func TestSortRenderables(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit")
	five := f.renderable(mat, at(5))
	one := f.renderable(mat, at(1))
	three := f.renderable(mat, at(3))
	none := f.renderable(mat)

	list := []Renderable{five, one, three}
	sortRenderables(list, mgl32.Vec3{}, gpu.SortingModeFrontToBack)
	assert.Equal(t, []Renderable{one, three, five}, list)

	sortRenderables(list, mgl32.Vec3{}, gpu.SortingModeBackToFront)
	assert.Equal(t, []Renderable{five, three, one}, list)

	list = []Renderable{three, none, one}
	sortRenderables(list, mgl32.Vec3{}, gpu.SortingModeNone)
	assert.Equal(t, []Renderable{three, none, one}, list)

	// Renderables without a transform go last in either direction.
	list = []Renderable{five, none, one}
	sortRenderables(list, mgl32.Vec3{}, gpu.SortingModeFrontToBack)
	assert.Equal(t, []Renderable{one, five, none}, list)

	list = []Renderable{none, one, five}
	sortRenderables(list, mgl32.Vec3{}, gpu.SortingModeBackToFront)
	assert.Equal(t, []Renderable{five, one, none}, list)
}

func TestCustomPassesAndQueues(t *testing.T) {
	f := newFixture(t)
	const (
		outline QueueID = 2100
		custom  PassID  = 60
	)

	assert.ErrorIs(t, f.r.AddPass(custom, Pass{Name: "outline", Queues: []QueueID{outline}}), ErrUnknownQueue)
	require.NoError(t, f.r.AddQueue(outline, Queue{Name: "outline", Override: gpu.DefaultRenderState()}))
	require.NoError(t, f.r.AddPass(custom, Pass{Name: "outline", Queues: []QueueID{outline, outline}}))
	assert.ErrorIs(t, f.r.AddPass(custom, Pass{}), ErrDuplicate)

	assert.Equal(t, []PassID{PassShadowMapping, PassLighting, custom, PassMSAAResolve, PassPostprocessing, PassFinal}, f.r.PassIDs())
	assert.Equal(t, []QueueID{outline}, f.r.Pass(custom).Queues)

	require.NoError(t, f.r.AddQueueToPass(QueueGeometry, custom))
	assert.Equal(t, []QueueID{QueueGeometry, outline}, f.r.Pass(custom).Queues)

	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	rn := f.renderable(mat)
	require.NoError(t, f.r.AddRenderable(rn, outline))
	assert.Error(t, f.r.RemoveQueue(outline))
	f.r.RemoveRenderable(rn)
	require.NoError(t, f.r.RemoveQueue(outline))
	assert.Equal(t, []QueueID{QueueGeometry}, f.r.Pass(custom).Queues)

	require.NoError(t, f.r.TogglePass(custom, false))
	assert.False(t, f.r.Pass(custom).Enabled())
	require.NoError(t, f.r.RemovePass(custom))

	assert.ErrorIs(t, f.r.RemovePass(PassLighting), ErrBuiltin)
	assert.ErrorIs(t, f.r.RemoveQueue(QueueGeometry), ErrBuiltin)
	assert.ErrorIs(t, f.r.TogglePass(99, true), ErrUnknownPass)
	assert.ErrorIs(t, f.r.ToggleQueue(99, true), ErrUnknownQueue)
	assert.ErrorIs(t, f.r.RemoveQueueFromPass(QueueGeometry, 99), ErrUnknownPass)
}

func TestDisabledQueueIsSkipped(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))
	require.NoError(t, f.r.ToggleQueue(QueueGeometry, false))

	f.device.Reset()
	f.r.Render()
	assert.NotContains(t, f.boundFramebuffers(), f.r.MainFramebuffer().Handle())
}

func TestDirectionalLightIsUnique(t *testing.T) {
	f := newFixture(t)
	sun := light.NewLight(light.LightTypeDirectional)
	f.r.AddDirectionalLight(sun)

	assert.Panics(t, func() { f.r.AddDirectionalLight(light.NewLight(light.LightTypeDirectional)) })
	assert.Panics(t, func() { f.r.RemoveDirectionalLight(light.NewLight(light.LightTypeDirectional)) })
	assert.NotPanics(t, func() { f.r.RemoveDirectionalLight(sun) })
}

func TestPointLightsAreCounted(t *testing.T) {
	f := newFixture(t)
	mat := f.r.CreateMaterial("lit", material.WithProgram(f.program("lit")))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))

	lamp := light.NewLight(light.LightTypePoint, light.WithPosition(1, 2, 3))
	f.r.AddPointLight(lamp)
	f.r.AddPointLight(lamp)
	f.r.AddPointLight(light.NewLight(light.LightTypePoint, light.WithEnabled(false)))
	assert.Len(t, f.r.pointLights, 2)

	assert.Equal(t, uint32(1), f.r.writeLights("_INTRINSIC_POINT_LIGHTS", f.r.pointLights, light.MaxPointLights, mgl32.Ident4()))

	for range light.MaxPointLights + 2 {
		f.r.AddPointLight(light.NewLight(light.LightTypePoint))
	}
	assert.Equal(t, uint32(light.MaxPointLights), f.r.writeLights("_INTRINSIC_POINT_LIGHTS", f.r.pointLights, light.MaxPointLights, mgl32.Ident4()))

	f.r.RemovePointLight(lamp)
	assert.NotContains(t, f.r.pointLights, lamp)
	f.r.RemoveAllPointLights()
	assert.Empty(t, f.r.pointLights)
}

func TestShadowCameraFollowsTheDirectionalLight(t *testing.T) {
	f := newFixture(t)
	f.r.AddDirectionalLight(light.NewLight(light.LightTypeDirectional, light.WithDirection(0, -1, 0)))

	f.r.Update()

	p := f.r.Pass(PassShadowMapping)
	require.NotNil(t, p.Projection)
	v := light.DefaultShadowVolume
	assert.Equal(t, mgl32.Ortho(v.Left, v.Right, v.Bottom, v.Top, v.Near, v.Far), *p.Projection)
	assert.False(t, p.Camera.IsPerspective())
	assert.Equal(t, p.Projection.Mul4(*p.View), f.r.lightViewProjection)
}

func TestHotReloadKeepsThePreviousProgramOnFailure(t *testing.T) {
	f := newFixture(t)
	p := f.program("lit")
	mat := f.r.CreateMaterial("lit", material.WithProgram(p))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))
	handle := p.Handle()

	f.fsys["lit.frag"] = &fstest.MapFile{Data: []byte("#version 410 core\n#error broken\n"), ModTime: time.Now()}
	f.r.Update()
	assert.Equal(t, handle, p.Handle())
	assert.True(t, p.IsValid())
	assert.Contains(t, f.logs.String(), "program reload failed")

	f.fsys["lit.frag"] = &fstest.MapFile{Data: []byte(litFragment), ModTime: time.Now().Add(time.Second)}
	f.r.Update()
	assert.NotEqual(t, handle, p.Handle())
	assert.True(t, p.IsValid())
	assert.Equal(t, 1, f.r.programs[p])
	assert.True(t, f.r.intrinsics.Has(IntrinsicLightingBlock))
}

func TestHotReloadOff(t *testing.T) {
	f := newFixture(t, WithHotReload(HotReloadOff))
	p := f.program("lit")
	mat := f.r.CreateMaterial("lit", material.WithProgram(p))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))
	handle := p.Handle()

	f.fsys["lit.frag"] = &fstest.MapFile{Data: []byte(litFragment), ModTime: time.Now()}
	f.r.Update()
	assert.Equal(t, handle, p.Handle())
}

func TestResizeFollowsTheWindow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.OnFramebufferResize(1024, 768))

	w, h := f.r.MainFramebuffer().Size()
	assert.Equal(t, []int{1024, 768}, []int{w, h})
	w, h = f.r.ShadowMapFramebuffer().Size()
	assert.Equal(t, []int{light.ShadowMapResolution, light.ShadowMapResolution}, []int{w, h})
	assert.Contains(t, f.r.builtins.msaaResolveMaterial.Textures(),
		material.TextureSlot{Sampler: "uniform_tex", Texture: f.r.MainFramebuffer().ColorAttachment()})

	require.NoError(t, f.r.OnFramebufferResize(0, 0))
	w, _ = f.r.MainFramebuffer().Size()
	assert.Equal(t, 1024, w)
}

func TestCustomFramebuffers(t *testing.T) {
	fixed := CustomFramebuffer{Name: "minimap"}
	fixed.Width, fixed.Height, fixed.Samples = 256, 256, 1
	fixed.HasColor, fixed.ColorFormat = true, gpu.TextureFormatRGBA8
	follows := CustomFramebuffer{Name: "outline"}
	follows.Samples, follows.HasDepth, follows.DepthFormat = 1, true, gpu.TextureFormatDepth24Stencil8

	f := newFixture(t, WithCustomFramebuffers(fixed, follows))
	require.NoError(t, f.r.OnFramebufferResize(1000, 500))

	minimap, ok := f.r.CustomFramebuffer("minimap")
	require.True(t, ok)
	w, _ := minimap.Size()
	assert.Equal(t, 256, w)

	outline, ok := f.r.CustomFramebuffer("outline")
	require.True(t, ok)
	w, _ = outline.Size()
	assert.Equal(t, 1000, w)

	_, ok = f.r.CustomFramebuffer("missing")
	assert.False(t, ok)
}

func TestPreloadReportsMissingSources(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.r.Preload("lit.vert", "lit.frag", "builtin/fullscreen.vert"))
	err := f.r.Preload("lit.vert", "missing.frag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.frag")
}

func TestShaderFSRoutesBuiltins(t *testing.T) {
	fsys := NewShaderFS(fstest.MapFS{"user.frag": {Data: []byte("user")}})

	data, err := fs.ReadFile(fsys, "user.frag")
	require.NoError(t, err)
	assert.Equal(t, "user", string(data))

	data, err = fs.ReadFile(fsys, "builtin/intrinsic_other.glsl")
	require.NoError(t, err)
	assert.Contains(t, string(data), IntrinsicOtherBlock)

	_, err = fs.ReadFile(NewShaderFS(nil), "user.frag")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.True(t, isBuiltinShader("builtin/empty.frag"))
	assert.False(t, isBuiltinShader("shaders/builtin.frag"))
}

func TestParseHotReloadMode(t *testing.T) {
	for name, want := range map[string]HotReloadMode{"": HotReloadOff, "off": HotReloadOff, "stat": HotReloadStat, "FSNotify": HotReloadFSNotify} {
		got, err := ParseHotReloadMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseHotReloadMode("inotify")
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Renderer
	cfg.MSAA = 2
	cfg.ColorFormat = "rgba32f"
	cfg.HotReload.Enabled = false
	cfg.CustomFramebuffers = []config.FramebufferConfig{{Name: "depth", Depth: "depth32f"}}

	options, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	r := &renderer{}
	for _, opt := range options {
		opt(r)
	}
	assert.Equal(t, MSAA2x, r.msaa)
	assert.Equal(t, gpu.TextureFormatRGBA32F, r.colorFormat)
	assert.Equal(t, HotReloadOff, r.hotReload)
	assert.Equal(t, "shaders", r.shaderDir)
	require.Len(t, r.customFramebuffers, 1)
	assert.True(t, r.customFramebuffers[0].HasDepth)
	assert.False(t, r.customFramebuffers[0].HasColor)

	cfg.ColorFormat = "rgb565"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}

const fogFragment = `#version 410 core
struct FogHeight
{
	float base;
	float falloff;
};
layout(std140) uniform _Global_Fog
{
	vec4 fog_color;
	float fog_density;
	vec4 fog_layers[2];
	FogHeight fog_height;
};
out vec4 out_color;
void main() { out_color = fog_color * fog_density + fog_layers[1] * fog_height.base; }
`

func float32At(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestShaderGlobalsReachTheGPU(t *testing.T) {
	f := newFixture(t)
	f.fsys["fog.frag"] = &fstest.MapFile{Data: []byte(fogFragment)}
	p, err := f.r.CreateProgram("fog", program.WithVertexSource("lit.vert"), program.WithFragmentSource("fog.frag"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.r.SetShaderGlobal("_Global_Fog", "fog_density", float32(1)), constant_buffer.ErrUnknownBlock)

	mat := f.r.CreateMaterial("fog", material.WithProgram(p))
	require.NoError(t, f.r.AddRenderable(f.renderable(mat), QueueGeometry))

	require.NoError(t, f.r.SetShaderGlobal("_Global_Fog", "fog_color", mgl32.Vec4{0.5, 0.6, 0.7, 1}))
	require.NoError(t, f.r.SetShaderGlobal("_Global_Fog", "_Global_Fog.fog_density", float32(0.25)))
	require.NoError(t, f.r.SetShaderGlobalArrayElement("_Global_Fog", "fog_layers", 1, mgl32.Vec4{3, 3, 3, 3}))
	require.NoError(t, f.r.SetShaderGlobalStruct("_Global_Fog", "fog_height", mgl32.Vec2{2, 0.5}))
	assert.ErrorIs(t, f.r.SetShaderGlobal("_Global_Fog", "missing", float32(1)), constant_buffer.ErrUnknownMember)
	assert.ErrorIs(t, f.r.SetShaderGlobalArrayElement("_Global_Fog", "fog_layers", 2, mgl32.Vec4{}), constant_buffer.ErrOutOfRange)

	f.r.Update()
	f.r.Render()

	buffer, ok := f.r.globals.Buffer("_Global_Fog")
	require.True(t, ok)
	data := f.device.Buffer(buffer)
	require.Len(t, data, 80)
	assert.Equal(t, float32(0.5), float32At(data, 0))
	assert.Equal(t, float32(0.7), float32At(data, 8))
	assert.Equal(t, float32(0.25), float32At(data, 16))
	assert.Equal(t, float32(0), float32At(data, 32))
	assert.Equal(t, float32(3), float32At(data, 48))
	assert.Equal(t, float32(2), float32At(data, 64))
	assert.Equal(t, float32(0.5), float32At(data, 68))

	mirror, ok := f.r.ShaderGlobal("_Global_Fog")
	require.True(t, ok)
	assert.Equal(t, mirror, data)

	// Unchanged globals are not uploaded again.
	f.device.Reset()
	f.r.Render()
	for _, c := range f.device.Filter("UpdateUniformBuffer") {
		assert.NotEqual(t, buffer, c.Args[0])
	}
}
