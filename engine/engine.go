package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/config"
	"github.com/Carmen-Shannon/oxy-render/engine/profiler"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu/opengl"
	"github.com/Carmen-Shannon/oxy-render/engine/window"
)

// engine implements the Engine interface.
// The window's thread owns the GL context and renders, a second goroutine runs the fixed-rate tick.
type engine struct {
	logger *slog.Logger
	config config.Config

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	// frameMu serializes tick callbacks with frame rendering, so callbacks can mutate the scene freely.
	frameMu sync.Mutex

	window          window.Window
	device          gpu.Device
	renderer        renderer.Renderer
	camera          camera.Camera
	rendererOptions []renderer.RendererBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
	renderErr        error
}

// Engine is the main entry point for the engine.
// It owns the window, the OpenGL device and the renderer and drives the tick and render loops.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the frame orchestrator drawing into the window.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Camera returns the camera the lighting pass renders with.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Config returns the configuration the engine was built from.
	Config() config.Config

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic and animation updates. It never runs concurrently with a frame.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame, before the renderer draws.
	// It runs on the thread owning the GL context.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop and blocks until the window closes or Quit is called.
	// Must be called from the goroutine that created the engine.
	//
	// Returns:
	//   - error: the recovered render panic, or a shutdown error
	Run() error

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates the window, the OpenGL device and the renderer from the configuration.
// The calling goroutine is locked to its thread and owns the GL context afterwards.
//
// Parameters:
//   - options: functional options for engine configuration (config, logger, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an invalid configuration, or a window, device or renderer that could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger:          slog.Default(),
		config:          config.Default(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	if e.window == nil {
		w, err := window.NewWindow(
			window.WithTitle(e.config.Window.Title),
			window.WithWidth(e.config.Window.Width),
			window.WithHeight(e.config.Window.Height),
			window.WithVSync(e.config.Window.VSync),
			window.WithSRGB(e.config.Renderer.GammaCorrection),
		)
		if err != nil {
			return nil, err
		}
		e.window = w
	}

	if e.device == nil {
		d, err := opengl.NewDevice(opengl.WithLogger(e.logger))
		if err != nil {
			_ = e.window.Close()
			return nil, err
		}
		e.device = d
	}

	rendererOptions, err := renderer.OptionsFromConfig(e.config.Renderer)
	if err != nil {
		_ = e.window.Close()
		return nil, err
	}
	rendererOptions = append(rendererOptions, renderer.WithLogger(e.logger))
	rendererOptions = append(rendererOptions, e.rendererOptions...)
	r, err := renderer.NewRenderer(e.device, e.window.Width(), e.window.Height(), rendererOptions...)
	if err != nil {
		_ = e.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	e.renderer = r

	if e.camera == nil {
		e.camera = camera.NewCamera(
			camera.WithPosition(0, 2, 6),
			camera.WithAspect(float32(e.window.Width())/float32(e.window.Height())),
		)
	}
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	e.window.SetResizeCallback(e.resize)
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Config() config.Config {
	return e.config
}

func (e *engine) Run() error {
	e.running = true
	e.lastRender = time.Now()
	e.handle()
	e.window.SetUpdateCallback(e.renderFrame)
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.renderer.Destroy()
	return errors.Join(e.renderErr, e.window.Close())
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the engine tick and quit goroutines.
// Rendering stays on the calling thread, which owns the GL context.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.frameMu.Lock()
				e.tickCallback(dt)
				e.frameMu.Unlock()
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// renderFrame is the window's update callback: it updates the renderer, draws every pass and
// presents. A panic is logged with its stack, stops the engine and is returned by Run.
func (e *engine) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render loop recovered from panic", "panic", r, "stack", string(debug.Stack()))
			e.renderErr = fmt.Errorf("render panic: %v", r)
			e.signalQuit()
			e.window.RequestClose()
		}
	}()

	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	e.draw(dt)
	e.window.SwapBuffers()

	if e.profilingEnabled {
		e.profiler.Tick(e.renderer.Stats())
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) draw(dt float32) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	e.camera.Update()
	e.renderer.Update()
	if err := e.renderer.UpdatePerPass(renderer.PassLighting, e.camera); err != nil {
		e.logger.Debug("lighting pass has no camera", "error", err)
	}
	e.renderer.Render()
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized.
		return
	}
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	if err := e.renderer.OnFramebufferResize(width, height); err != nil {
		e.logger.Error("framebuffer resize failed", "width", width, "height", height, "error", err)
	}
	e.camera.SetAspect(float32(width) / float32(height))
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
