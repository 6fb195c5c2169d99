package gputest

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertex = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 2) in vec2 tex_coords;

struct Light
{
	vec3 color;
	float intensity;
	vec3 direction;
};

layout(std140) uniform _Intrinsic_Lighting
{
	Light light;
	vec4 points[2];
	float exposure;
	mat4 transform;
};

uniform mat4 uniform_transform_world;

void main() { gl_Position = vec4(position, 1.0); }
`

const testFragment = `#version 410 core
uniform sampler2D uniform_tex;
layout(std140) uniform _Intrinsic_Lighting
{
	Light light;
	vec4 points[2];
	float exposure;
	mat4 transform;
};
out vec4 out_color;
void main() { out_color = texture(uniform_tex, vec2(0.0)); }
`

func linkTestProgram(t *testing.T, d *Device) uint32 {
	t.Helper()
	vs, err := d.CompileShader(gpu.ShaderStageVertex, testVertex)
	require.NoError(t, err)
	fs, err := d.CompileShader(gpu.ShaderStageFragment, testFragment)
	require.NoError(t, err)
	program, err := d.LinkProgram([]uint32{vs, fs})
	require.NoError(t, err)
	return program
}

func TestReflectStd140Offsets(t *testing.T) {
	d := New()
	program := linkTestProgram(t, d)

	blocks := d.ActiveUniformBlocks(program)
	require.Len(t, blocks, 1)
	assert.Equal(t, "_Intrinsic_Lighting", blocks[0].Name)
	assert.Equal(t, int32(144), blocks[0].DataSize)

	offsets := map[string]int32{}
	for _, u := range d.ActiveUniforms(program) {
		if u.BlockIndex == 0 {
			offsets[u.Name] = u.Offset
		}
	}
	assert.Equal(t, map[string]int32{
		"light.color":     0,
		"light.intensity": 12,
		"light.direction": 16,
		"points[0]":       32,
		"exposure":        64,
		"transform":       80,
	}, offsets)
}

func TestReflectDefaultBlockAndAttributes(t *testing.T) {
	d := New()
	program := linkTestProgram(t, d)

	var defaults []string
	for _, u := range d.ActiveUniforms(program) {
		if u.BlockIndex == -1 {
			defaults = append(defaults, u.Name)
			assert.Equal(t, int32(-1), u.Offset)
		}
	}
	assert.Equal(t, []string{"uniform_transform_world", "uniform_tex"}, defaults)

	attributes := d.ActiveAttributes(program)
	require.Len(t, attributes, 2)
	assert.Equal(t, int32(2), attributes[1].Location)
	assert.Equal(t, gpu.DataTypeVec2, attributes[1].Type)
}

func TestCompileErrorFollowsLineDirectives(t *testing.T) {
	d := New()
	source := "#version 410 core\n#line 1 1\nfloat a;\n#error broken include\n#line 3 0\nvoid main() {}\n"

	_, err := d.CompileShader(gpu.ShaderStageFragment, source)
	var logErr *gpu.InfoLogError
	require.True(t, errors.As(err, &logErr))
	assert.Equal(t, "1(2) : error C0000: broken include\n", logErr.Log)
}

func TestLinkFailure(t *testing.T) {
	d := New()
	d.FailLink = true
	vs, err := d.CompileShader(gpu.ShaderStageVertex, testVertex)
	require.NoError(t, err)

	_, err = d.LinkProgram([]uint32{vs})
	assert.Error(t, err)
}
