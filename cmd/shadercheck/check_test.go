package main

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shaderTree() fstest.MapFS {
	return fstest.MapFS{
		"lit.vert":          {Data: []byte("#version 410 core\n#include \"builtin/intrinsic_other.glsl\"\nvoid main() {}\n")},
		"lit.frag":          {Data: []byte("#version 410 core\n#include \"common/color.glsl\"\nvoid main() {}\n")},
		"common/color.glsl": {Data: []byte("vec3 tint() { return vec3(1.0); }\n")},
		"lonely.vert":       {Data: []byte("#version 410 core\nvoid main() {}\n")},
		"broken.vert":       {Data: []byte("#version 410 core\nvoid main() {}\n")},
		"broken.frag":       {Data: []byte("#version 410 core\n#include \"missing.glsl\"\nvoid main() {}\n")},
		"slider.vert":       {Data: []byte("#version 410 core\nvoid main() {}\n")},
		"slider.frag":       {Data: []byte("#version 410 core\n#pragma slider(1)\nuniform float gain;\nvoid main() {}\n")},
		"notes.txt":         {Data: []byte("not a shader")},
	}
}

func newChecker() *checker {
	return &checker{
		fsys:        renderer.NewShaderFS(shaderTree()),
		includeDirs: []string{"."},
		workers:     2,
	}
}

func TestCheckReportsEveryProblem(t *testing.T) {
	c := newChecker()
	var total, ticks int
	c.progress = func(n int) func() {
		total = n
		return func() { ticks++ }
	}

	rep, err := c.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Sources)
	assert.Equal(t, 7, total)
	assert.Equal(t, 7, ticks)
	assert.True(t, rep.Failed())

	byPath := map[string][]finding{}
	for _, f := range rep.Findings {
		byPath[f.Path] = append(byPath[f.Path], f)
	}
	assert.Len(t, byPath, 3)

	require.Len(t, byPath["lonely.vert"], 1)
	assert.True(t, byPath["lonely.vert"][0].Warning)
	assert.Contains(t, byPath["lonely.vert"][0].Message, "lonely.frag")

	require.Len(t, byPath["broken.frag"], 1)
	assert.False(t, byPath["broken.frag"][0].Warning)
	assert.Contains(t, byPath["broken.frag"][0].Message, "missing.glsl")

	require.Len(t, byPath["slider.frag"], 1)
	assert.Contains(t, byPath["slider.frag"][0].Message, "slider")

	assert.Equal(t, 2, countFailed(rep))
}

func TestCheckSkipsBuiltinsUnlessAsked(t *testing.T) {
	c := newChecker()
	sources, err := c.sources()
	require.NoError(t, err)
	for _, s := range sources {
		assert.NotContains(t, s, renderer.BuiltinShaderDir+"/")
	}

	c.builtin = true
	sources, err = c.sources()
	require.NoError(t, err)
	assert.Contains(t, sources, renderer.BuiltinShaderDir+"/blinn_phong.frag")
	assert.Contains(t, sources, renderer.BuiltinShaderDir+"/fullscreen.vert")
}

func TestBuiltinsAreClean(t *testing.T) {
	c := &checker{
		fsys:        renderer.NewShaderFS(fstest.MapFS{}),
		includeDirs: []string{"."},
		workers:     4,
		builtin:     true,
	}
	rep, err := c.run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, rep.Sources)
	assert.False(t, rep.Failed(), "%v", rep.Findings)
}

func TestFindGlslangPrefersExplicitPath(t *testing.T) {
	t.Setenv("GLSLANG_PATH", "/opt/glslang/bin/glslangValidator")
	assert.Equal(t, "/usr/local/bin/glslangValidator", findGlslang("/usr/local/bin/glslangValidator"))
	assert.Equal(t, "/opt/glslang/bin/glslangValidator", findGlslang(""))
}
