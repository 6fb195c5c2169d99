package program

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessAll(t *testing.T) {
	fsys := litFS()
	sources := []string{"shaders/lit.vert", "shaders/lit.frag", "shaders/missing.frag"}

	finished := 0
	results, err := PreprocessAll(fsys, nil, sources, 2, func(PreprocessResult) { finished++ })

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceRead))
	assert.Equal(t, 3, finished)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "shaders/common/camera.glsl", results[0].Result.Files[1])
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "shaders/missing.frag", results[2].Path)
	assert.Error(t, results[2].Err)
}

func TestPreprocessAllWithoutSources(t *testing.T) {
	results, err := PreprocessAll(fstest.MapFS{}, nil, nil, 4, nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestWatcherReportsChangedFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "common"), 0o755))
	path := filepath.Join(root, "common", "camera.glsl")
	require.NoError(t, os.WriteFile(path, []byte(cameraInclude), 0o644))

	w, err := NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch("common/camera.glsl"))
	require.NoError(t, os.WriteFile(path, []byte(cameraInclude+"\n"), 0o644))

	var changed map[string]struct{}
	assert.Eventually(t, func() bool {
		for p := range w.Drain() {
			if changed == nil {
				changed = map[string]struct{}{}
			}
			changed[p] = struct{}{}
		}
		_, ok := changed["common/camera.glsl"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
