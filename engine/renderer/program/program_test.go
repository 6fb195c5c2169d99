package program

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litVertex = `#version 410 core
#include "common/camera.glsl"
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
layout(location = 2) in vec2 tex_coords;
uniform mat4 uniform_transform_world;
void main() { gl_Position = camera_view_projection * uniform_transform_world * vec4(position, 1.0); }
`

const cameraInclude = `layout(std140) uniform _Intrinsic_Camera
{
	mat4 camera_view_projection;
	vec3 camera_position;
};
`

const litFragment = `#version 410 core
#pragma feature USE_TEXTURE
layout(std140) uniform _Global_Material
{
#pragma color4(hdr)
	vec4 tint;
#pragma slider(0.0, 1.0)
	float roughness;
};
uniform sampler2D uniform_tex_diffuse;
out vec4 out_color;
void main() { out_color = tint; }
`

func litFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/lit.vert":           {Data: []byte(litVertex)},
		"shaders/lit.frag":           {Data: []byte(litFragment)},
		"shaders/common/camera.glsl": {Data: []byte(cameraInclude)},
	}
}

func newLitProgram(t *testing.T, fsys fstest.MapFS, options ...ProgramBuilderOption) (Program, *gputest.Device, binding.Registry) {
	t.Helper()
	d := gputest.New()
	r, err := binding.NewRegistry(d)
	require.NoError(t, err)

	opts := append([]ProgramBuilderOption{
		WithFS(fsys),
		WithVertexSource("shaders/lit.vert"),
		WithFragmentSource("shaders/lit.frag"),
		WithRegistry(r),
	}, options...)
	return NewProgram("lit", d, opts...), d, r
}

func TestCompileReflectsProgram(t *testing.T) {
	p, d, _ := newLitProgram(t, litFS())

	require.NoError(t, p.Compile())
	require.True(t, p.IsValid())

	source := p.SourceVertexLayout()
	require.Len(t, source.Attributes, 3)
	assert.Equal(t, 3, source.Attributes[0].Count)
	assert.Equal(t, 2, source.Attributes[2].Count)
	assert.True(t, p.ActiveVertexLayout().IsCompatibleWith(source))

	camera, ok := p.Block("_Intrinsic_Camera")
	require.True(t, ok)
	assert.Equal(t, int32(0), camera.Slot)
	material, ok := p.Block("_Global_Material")
	require.True(t, ok)
	assert.Equal(t, int32(binding.DefaultIntrinsicSlots), material.Slot)
	assert.Equal(t, 1, p.BlockCount(uniform.CategoryGlobal))
	assert.Len(t, p.Blocks(uniform.CategoryIntrinsic), 1)

	tint, ok := p.Uniform("_Global_Material.tint")
	require.True(t, ok)
	assert.Equal(t, uniform.AnnotationColor4, tint.Annotation.Kind)
	assert.Equal(t, uniform.ColorFlagHDR, tint.Annotation.ColorFlags)

	roughness, ok := p.Uniform("_Global_Material.roughness")
	require.True(t, ok)
	assert.Equal(t, float32(1), roughness.Annotation.SliderMax)

	_, ok = p.Uniform("uniform_transform_world")
	assert.True(t, ok)

	assert.Equal(t, []string{"shaders/common/camera.glsl", "shaders/lit.frag", "shaders/lit.vert"}, p.Files())
	assert.Contains(t, p.Features(), "USE_TEXTURE")
	assert.False(t, p.IsFeatureSet("USE_TEXTURE"))

	assert.Equal(t, 0, d.Live("shader"))
	assert.Equal(t, 1, d.Live("program"))
}

func TestCompileDefinesRequestedFeatures(t *testing.T) {
	p, _, _ := newLitProgram(t, litFS(), WithFeatures(map[string]string{"USE_TEXTURE": "", "MAX_LIGHTS": "8"}))

	require.NoError(t, p.Compile())
	assert.True(t, p.IsFeatureSet("USE_TEXTURE"))
	value, ok := p.FeatureValue("MAX_LIGHTS")
	assert.True(t, ok)
	assert.Equal(t, "8", value)
}

func TestCompileErrorNamesTheIncludedFile(t *testing.T) {
	fsys := litFS()
	fsys["shaders/common/camera.glsl"] = &fstest.MapFile{Data: []byte("layout(std140) uniform _Intrinsic_Camera\n#error missing brace\n")}
	p, d, _ := newLitProgram(t, fsys)

	err := p.Compile()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompile))

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, gpu.ShaderStageVertex, compileErr.Stage)
	require.Len(t, compileErr.Diagnostics, 1)
	assert.Equal(t, "shaders/common/camera.glsl", compileErr.Diagnostics[0].Path)
	assert.Equal(t, 2, compileErr.Diagnostics[0].Line)
	assert.Contains(t, err.Error(), `Shader Error (compilation): Vertex shader "lit"`)
	assert.Contains(t, err.Error(), "shaders/common/camera.glsl -> line 2")

	assert.False(t, p.IsValid())
	assert.Equal(t, 0, d.Live("shader"))
}

func TestCompileErrorLineWithFeatures(t *testing.T) {
	fsys := litFS()
	fsys["shaders/lit.frag"] = &fstest.MapFile{Data: []byte("#version 410 core\n#define USE_TEXTURE 1\nfloat a;\n#error here\n")}
	p, _, _ := newLitProgram(t, fsys, WithFeatures(map[string]string{"USE_TEXTURE": "2"}))

	var compileErr *CompileError
	require.True(t, errors.As(p.Compile(), &compileErr))
	assert.Equal(t, "shaders/lit.frag", compileErr.Diagnostics[0].Path)
	assert.Equal(t, 4, compileErr.Diagnostics[0].Line)
}

func TestCompileReportsMissingIncludes(t *testing.T) {
	fsys := litFS()
	delete(fsys, "shaders/common/camera.glsl")
	p, _, _ := newLitProgram(t, fsys)

	err := p.Compile()
	assert.True(t, errors.Is(err, ErrInclude))
	assert.Contains(t, err.Error(), "Shader Error (pre-compilation)")
}

func TestLinkFailure(t *testing.T) {
	p, d, _ := newLitProgram(t, litFS())
	d.FailLink = true

	err := p.Compile()
	assert.True(t, errors.Is(err, ErrLink))
	assert.Contains(t, err.Error(), `Shader Error (linking): Shader "lit"`)
	assert.False(t, p.IsValid())
}

func TestFailedRecompileLeavesProgramUntouched(t *testing.T) {
	fsys := litFS()
	p, d, _ := newLitProgram(t, fsys)
	require.NoError(t, p.Compile())

	handle := p.Handle()
	material, _ := p.Block("_Global_Material")
	slot := material.Slot
	assert.False(t, p.SourcesModified())

	fsys["shaders/lit.frag"] = &fstest.MapFile{Data: []byte("#version 410 core\n#error broken\n"), ModTime: time.Now()}
	require.True(t, p.SourcesModified())

	fresh, err := p.Recompile()
	require.Error(t, err)
	assert.Nil(t, fresh)
	assert.Equal(t, handle, p.Handle())
	material, _ = p.Block("_Global_Material")
	assert.Equal(t, slot, material.Slot)
	assert.True(t, p.SourcesModified())
	assert.Equal(t, 1, d.Live("program"))

	fsys["shaders/lit.frag"] = &fstest.MapFile{Data: []byte(litFragment), ModTime: time.Now().Add(time.Second)}
	fresh, err = p.Recompile()
	require.NoError(t, err)
	p.ReplaceWith(fresh)

	assert.NotEqual(t, handle, p.Handle())
	assert.False(t, fresh.IsValid())
	assert.False(t, p.SourcesModified())
	assert.Equal(t, 1, d.Live("program"))
	material, _ = p.Block("_Global_Material")
	assert.Equal(t, slot, material.Slot)
}

func TestSetUniform(t *testing.T) {
	p, d, _ := newLitProgram(t, litFS())
	require.NoError(t, p.Compile())
	p.Bind()

	require.NoError(t, p.SetUniform("uniform_transform_world", mgl32.Ident4()))
	info, _ := p.Uniform("uniform_transform_world")
	assert.Len(t, d.Uniform(p.Handle(), info.Location), 64)

	assert.Error(t, p.SetUniform("_Global_Material.tint", mgl32.Vec4{}))
	assert.Error(t, p.SetUniform("missing", float32(1)))
}

func TestNewProgramRequiresVertexAndFragment(t *testing.T) {
	assert.Panics(t, func() {
		NewProgram("broken", gputest.New(), WithVertexSource("a.vert"))
	})
}

func TestDestroyReleasesTheProgram(t *testing.T) {
	p, d, _ := newLitProgram(t, litFS())
	require.NoError(t, p.Compile())

	p.Destroy()
	assert.False(t, p.IsValid())
	assert.Equal(t, 0, d.Live("program"))
}
