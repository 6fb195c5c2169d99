package program

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessExpandsIncludesWithLineMarkers(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/main.frag":         {Data: []byte("#version 410 core\n#include \"common/light.glsl\"\nvoid main() {}\n")},
		"shaders/common/light.glsl": {Data: []byte("float light() { return 1.0; }\n")},
	}

	pre, err := Preprocess(fsys, "shaders/main.frag", nil)
	require.NoError(t, err)

	assert.Equal(t, "#version 410 core\n#line 1 1\nfloat light() { return 1.0; }\n#line 3 0\nvoid main() {}\n", pre.Source)
	assert.Equal(t, FileTable{0: "shaders/main.frag", 1: "shaders/common/light.glsl"}, pre.Files)
	assert.Len(t, pre.ModTimes, 2)
}

func TestPreprocessSkipsAlreadyIncludedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"main.vert": {Data: []byte("#version 410\n#include \"a.glsl\"\n#include <b.glsl>\nx\n")},
		"a.glsl":    {Data: []byte("A\n")},
		"b.glsl":    {Data: []byte("#include \"a.glsl\"\nB\n")},
	}

	pre, err := Preprocess(fsys, "main.vert", nil)
	require.NoError(t, err)

	assert.Equal(t, "#version 410\n#line 1 1\nA\n#line 1 2\n\nB\n#line 4 0\nx\n", pre.Source)
	assert.Equal(t, "b.glsl", pre.Files[2])
}

func TestPreprocessSearchesIncludeDirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/a.vert": {Data: []byte("#include \"util.glsl\"\n")},
		"lib/util.glsl":  {Data: []byte("U\n")},
	}

	pre, err := Preprocess(fsys, "shaders/a.vert", []string{"lib"})
	require.NoError(t, err)
	assert.Equal(t, "lib/util.glsl", pre.Files[1])
}

func TestPreprocessPrefersTheIncludingDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/a.vert":    {Data: []byte("#include \"util.glsl\"\n")},
		"shaders/util.glsl": {Data: []byte("LOCAL\n")},
		"lib/util.glsl":     {Data: []byte("SHARED\n")},
	}

	pre, err := Preprocess(fsys, "shaders/a.vert", []string{"lib"})
	require.NoError(t, err)
	assert.Contains(t, pre.Source, "LOCAL")
	assert.NotContains(t, pre.Source, "SHARED")
}

func TestPreprocessErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"main.frag": {Data: []byte("#version 410\n#include \"missing.glsl\"\n")},
	}

	_, err := Preprocess(fsys, "main.frag", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInclude))
	assert.Contains(t, err.Error(), "line 2")

	_, err = Preprocess(fsys, "nope.frag", nil)
	assert.True(t, errors.Is(err, ErrSourceRead))
}

func TestParseInclude(t *testing.T) {
	tests := []struct {
		line   string
		target string
		ok     bool
	}{
		{`#include "a.glsl"`, "a.glsl", true},
		{`  #include <lib/b.glsl>`, "lib/b.glsl", true},
		{`#include a.glsl`, "", false},
		{`// #include "a.glsl"`, "", false},
		{`#define X`, "", false},
	}
	for _, tt := range tests {
		target, ok := parseInclude(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.target, target, tt.line)
	}
}
