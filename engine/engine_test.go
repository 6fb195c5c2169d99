package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of message loop iterations.
type fakeWindow struct {
	frames      int
	width       int
	height      int
	swaps       int
	closed      bool
	stop        bool
	onUpdate    func()
	onResize    func(width, height int)
	beforeFrame func(i int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(callback func()) { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32)) {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetMiddleMouseDownCallback(func(x, y int32)) {}
func (w *fakeWindow) SetMiddleMouseUpCallback(func(x, y int32)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32)) {}
func (w *fakeWindow) SwapBuffers() { w.swaps++ }
func (w *fakeWindow) Time() float64 { return 0 }
func (w *fakeWindow) IsRunning() bool { return !w.stop && !w.closed }
func (w *fakeWindow) RequestClose() { w.stop = true }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && w.IsRunning(); i++ {
		if w.beforeFrame != nil {
			w.beforeFrame(i)
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Renderer.HotReload.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, w *fakeWindow, logs *bytes.Buffer) (Engine, *gputest.Device) {
	t.Helper()
	device := gputest.New()
	e, err := NewEngine(
		WithConfig(testConfig()),
		WithWindow(w),
		WithDevice(device),
		WithLogger(slog.New(slog.NewTextHandler(logs, nil))),
	)
	require.NoError(t, err)
	return e, device
}

func TestRunRendersUntilTheWindowStops(t *testing.T) {
	w := &fakeWindow{frames: 3, width: 640, height: 480}
	e, device := newTestEngine(t, w, &bytes.Buffer{})

	var callbacks int
	e.SetRenderCallback(func(float32) { callbacks++ })

	require.NoError(t, e.Run())
	assert.Equal(t, 3, callbacks)
	assert.Equal(t, 3, w.swaps)
	assert.Equal(t, uint64(3), e.Renderer().Stats().Frame)
	assert.True(t, w.closed)
	assert.Positive(t, device.Count("Draw"))
}

func TestRunRecoversFromRenderPanics(t *testing.T) {
	w := &fakeWindow{frames: 5, width: 640, height: 480}
	var logs bytes.Buffer
	e, _ := newTestEngine(t, w, &logs)

	var callbacks int
	e.SetRenderCallback(func(float32) {
		callbacks++
		if callbacks == 2 {
			panic("boom")
		}
	})

	err := e.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render panic: boom")
	assert.Equal(t, 2, callbacks)
	assert.Equal(t, 1, w.swaps)
	assert.True(t, w.closed)
	assert.Contains(t, logs.String(), "render loop recovered from panic")
}

func TestQuitStopsTheLoop(t *testing.T) {
	w := &fakeWindow{frames: 10, width: 640, height: 480}
	e, _ := newTestEngine(t, w, &bytes.Buffer{})
	w.beforeFrame = func(i int) {
		if i == 2 {
			e.Quit()
		}
	}

	require.NoError(t, e.Run())
	assert.Equal(t, 2, w.swaps)
	assert.Equal(t, uint64(2), e.Renderer().Stats().Frame)
}

func TestResizeFollowsTheWindow(t *testing.T) {
	w := &fakeWindow{frames: 0, width: 640, height: 480}
	e, _ := newTestEngine(t, w, &bytes.Buffer{})
	t.Cleanup(e.Renderer().Destroy)

	require.NotNil(t, w.onResize)
	w.onResize(1000, 500)
	assert.InDelta(t, 2.0, e.Camera().Parameters().Aspect, 1e-6)
	width, height := e.Renderer().MainFramebuffer().Size()
	assert.Equal(t, 1000, width)
	assert.Equal(t, 500, height)

	// Minimized windows report a zero size and are ignored.
	w.onResize(0, 0)
	width, _ = e.Renderer().MainFramebuffer().Size()
	assert.Equal(t, 1000, width)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Renderer.MSAA = 3
	_, err := NewEngine(WithConfig(cfg), WithWindow(&fakeWindow{width: 1, height: 1}), WithDevice(gputest.New()))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLightingPassUsesTheEngineCamera(t *testing.T) {
	w := &fakeWindow{frames: 1, width: 640, height: 480}
	e, _ := newTestEngine(t, w, &bytes.Buffer{})

	require.NoError(t, e.Run())
	p := e.Renderer().Pass(renderer.PassLighting)
	require.NotNil(t, p)
	require.NotNil(t, p.View)
	assert.Equal(t, e.Camera().View(), *p.View)
}
