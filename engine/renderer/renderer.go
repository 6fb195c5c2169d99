// Package renderer orchestrates a frame: it owns the render passes and queues, the intrinsic and
// global constant buffers, the lights and the shadow camera, and dispatches renderables batched by
// program and material.
package renderer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/engine/light"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/constant_buffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/go-gl/mathgl/mgl32"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	device   gpu.Device
	logger   *slog.Logger
	registry binding.Registry

	intrinsics constant_buffer.Store
	globals    constant_buffer.Store

	// Pre-creation config collected from builder options
	userFS             fs.FS
	shaderDir          string
	includeDirs        []string
	hotReload          HotReloadMode
	watcher            program.Watcher
	ownsWatcher        bool
	msaa               MSAASampleCount
	gammaCorrection    bool
	colorFormat        gpu.TextureFormat
	shadowVolume       light.OrthographicVolume
	shadowResolution   int
	intrinsicSlots     int
	globalSlots        int
	customFramebuffers []CustomFramebuffer

	shaderFS fs.FS
	width    int
	height   int

	passes map[PassID]*Pass
	queues map[QueueID]*Queue

	// programs counts the queues drawing with each registered program.
	programs map[program.Program]int

	framebuffers  framebuffers
	currentTarget framebuffer.Framebuffer
	srgbEnabled   bool

	directionalLight    light.Light
	pointLights         []light.Light
	spotLights          []light.Light
	lightViewProjection mgl32.Mat4

	camera   cameraCache
	builtins builtins
	stats    FrameStats
}

// Renderer defines the interface of the frame orchestrator.
//
// Every frame the caller runs Update, then UpdatePerPass for the passes whose camera changed,
// then Render. Passes are rendered in ascending PassID order and the queues of a pass in
// ascending QueueID order. Passes and queues without an enabled renderable are skipped.
//
// The renderer must be used from the goroutine owning the graphics context.
type Renderer interface {
	// Device returns the device the renderer draws with.
	Device() gpu.Device

	// Registry returns the slot registry shared by every program of the renderer.
	Registry() binding.Registry

	// ShaderFS returns the file system programs read their sources from. The built-in shaders
	// are mounted below BuiltinShaderDir.
	ShaderFS() fs.FS

	// CreateProgram creates and compiles a program that reads its sources from ShaderFS and
	// shares the renderer's slot registry. A program whose first compile fails is still returned
	// so it can be fixed and hot reloaded.
	//
	// Parameters:
	//   - name: the program name
	//   - options: the program options, at least the vertex and fragment sources
	//
	// Returns:
	//   - program.Program: the program, never nil
	//   - error: the compile error
	CreateProgram(name string, options ...program.ProgramBuilderOption) (program.Program, error)

	// CreateMaterial creates a material sharing the renderer's slot registry and logger.
	//
	// Parameters:
	//   - name: the material name, materials in one queue are batched by name
	//   - options: the material options
	//
	// Returns:
	//   - material.Material: the material
	CreateMaterial(name string, options ...material.MaterialBuilderOption) material.Material

	// AddRenderable appends a renderable to a queue. Its program is registered with the renderer
	// when the first renderable of the queue starts using it.
	//
	// Parameters:
	//   - r: the renderable
	//   - queue: the queue to draw it in
	//
	// Returns:
	//   - error: ErrUnknownQueue, ErrDuplicate if the renderable is already in the queue, or an
	//     error if its material has no program
	AddRenderable(r Renderable, queue QueueID) error

	// RemoveRenderable removes a renderable from every queue it was added to.
	// It is the exact inverse of AddRenderable.
	//
	// Parameters:
	//   - r: the renderable
	RemoveRenderable(r Renderable)

	// OnShaderReassign moves the bookkeeping of every queue drawing a material from its old
	// program to its new one. Materials call it when their program is switched.
	//
	// Parameters:
	//   - old: the previous program
	//   - materialName: the material that switched
	OnShaderReassign(old program.Program, materialName string)

	// AddPass registers a render pass.
	//
	// Parameters:
	//   - id: the pass id, which is also its position in the frame
	//   - pass: the pass description
	//
	// Returns:
	//   - error: ErrDuplicate if the id is taken, ErrUnknownQueue if a queue is not registered
	AddPass(id PassID, pass Pass) error

	// RemovePass removes a custom pass.
	//
	// Returns:
	//   - error: ErrUnknownPass or ErrBuiltin
	RemovePass(id PassID) error

	// TogglePass enables or disables a pass.
	//
	// Returns:
	//   - error: ErrUnknownPass
	TogglePass(id PassID, enabled bool) error

	// Pass returns a registered pass, nil if unknown. Changes to its exported fields apply from
	// the next frame.
	Pass(id PassID) *Pass

	// PassIDs returns the registered pass ids in render order.
	PassIDs() []PassID

	// AddQueue registers a render queue. It is drawn by the passes it is added to with AddQueueToPass.
	//
	// Returns:
	//   - error: ErrDuplicate if the id is taken
	AddQueue(id QueueID, queue Queue) error

	// RemoveQueue removes an empty custom queue from the renderer and from every pass.
	//
	// Returns:
	//   - error: ErrUnknownQueue, ErrBuiltin, or an error if the queue still holds renderables
	RemoveQueue(id QueueID) error

	// ToggleQueue enables or disables a queue.
	//
	// Returns:
	//   - error: ErrUnknownQueue
	ToggleQueue(id QueueID, enabled bool) error

	// Queue returns a registered queue, nil if unknown.
	Queue(id QueueID) *Queue

	// AddQueueToPass makes a pass draw a queue. Adding a queue twice has no effect.
	//
	// Returns:
	//   - error: ErrUnknownPass or ErrUnknownQueue
	AddQueueToPass(queue QueueID, pass PassID) error

	// RemoveQueueFromPass stops a pass from drawing a queue.
	//
	// Returns:
	//   - error: ErrUnknownPass or ErrUnknownQueue
	RemoveQueueFromPass(queue QueueID, pass PassID) error

	// AddDirectionalLight sets the directional light. It panics if one is already set.
	AddDirectionalLight(l light.Light)

	// RemoveDirectionalLight removes the directional light. It panics if l is not the current one.
	RemoveDirectionalLight(l light.Light)

	// AddPointLight adds a point light. Enabled lights beyond light.MaxPointLights are not uploaded.
	AddPointLight(l light.Light)

	// RemovePointLight removes a point light.
	RemovePointLight(l light.Light)

	// RemoveAllPointLights removes every point light.
	RemoveAllPointLights()

	// AddSpotLight adds a spot light. Enabled lights beyond light.MaxSpotLights are not uploaded.
	AddSpotLight(l light.Light)

	// RemoveSpotLight removes a spot light.
	RemoveSpotLight(l light.Light)

	// RemoveAllSpotLights removes every spot light.
	RemoveAllSpotLights()

	// SetShaderGlobal writes a member of a Global block shared by every program declaring it.
	// The block exists while a registered program uses it and is uploaded before every pass.
	//
	// Parameters:
	//   - block: the block name, e.g. _Global_Fog
	//   - member: the member name, with or without the block prefix
	//   - value: the value, see uniform.Encode for supported types
	//
	// Returns:
	//   - error: constant_buffer.ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	SetShaderGlobal(block, member string, value any) error

	// SetShaderGlobalArrayElement writes one element of an array member of a Global block.
	//
	// Returns:
	//   - error: constant_buffer.ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	SetShaderGlobalArrayElement(block, array string, index int, value any) error

	// SetShaderGlobalStruct writes a struct member of a Global block as a whole.
	//
	// Returns:
	//   - error: constant_buffer.ErrUnknownBlock, ErrUnknownMember or ErrOutOfRange
	SetShaderGlobalStruct(block, structName string, value any) error

	// ShaderGlobal returns a copy of the CPU mirror of a Global block, false if no registered
	// program declares it.
	ShaderGlobal(block string) ([]byte, bool)

	// Update hot reloads modified programs and recomputes the shadow camera.
	// Call it once per frame before Render.
	Update()

	// UpdatePerPass sets the view and projection a pass renders with.
	//
	// Parameters:
	//   - id: the pass
	//   - cam: the camera providing the matrices and projection parameters
	//
	// Returns:
	//   - error: ErrUnknownPass
	UpdatePerPass(id PassID, cam CameraSource) error

	// Render draws every pass with content.
	Render()

	// OnFramebufferResize resizes every framebuffer following the window.
	//
	// Parameters:
	//   - width, height: the new window framebuffer size
	//
	// Returns:
	//   - error: the first framebuffer that could not be resized
	OnFramebufferResize(width, height int) error

	// SetFinalPassToUseFinalFramebuffer makes the final pass render off-screen into FinalFramebuffer.
	SetFinalPassToUseFinalFramebuffer()

	// SetFinalPassToUseDefaultFramebuffer makes the final pass render into the window.
	SetFinalPassToUseDefaultFramebuffer()

	// DefaultFramebuffer returns the window's framebuffer.
	DefaultFramebuffer() framebuffer.Framebuffer

	// MainFramebuffer returns the multisampled framebuffer the lighting pass renders into.
	MainFramebuffer() framebuffer.Framebuffer

	// ShadowMapFramebuffer returns the depth-only framebuffer of the shadow pass.
	ShadowMapFramebuffer() framebuffer.Framebuffer

	// PostprocessingFramebuffers returns the two framebuffers postprocessing ping-pongs between.
	PostprocessingFramebuffers() (a, b framebuffer.Framebuffer)

	// FinalFramebuffer returns the off-screen framebuffer the final pass can render into.
	FinalFramebuffer() framebuffer.Framebuffer

	// CustomFramebuffer returns a custom framebuffer by name.
	CustomFramebuffer(name string) (framebuffer.Framebuffer, bool)

	// Preload preprocesses many shader sources in parallel, reporting missing files and
	// broken includes before any program is compiled.
	//
	// Parameters:
	//   - paths: source paths inside ShaderFS
	//
	// Returns:
	//   - error: every failure joined
	Preload(paths ...string) error

	// Stats returns the statistics of the last rendered frame.
	Stats() FrameStats

	// Destroy releases every GPU object the renderer created.
	Destroy()
}

var _ Renderer = &renderer{}
var _ material.ProgramObserver = &renderer{}

// NewRenderer creates a renderer with the built-in passes, queues, framebuffers and programs.
//
// Parameters:
//   - device: the device to draw with, its context must be current
//   - width, height: the window framebuffer size
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the configuration is invalid or a built-in resource cannot be created
func NewRenderer(device gpu.Device, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:               &sync.Mutex{},
		device:           device,
		logger:           slog.Default(),
		msaa:             MSAA4x,
		gammaCorrection:  true,
		colorFormat:      gpu.TextureFormatRGBA16F,
		shadowVolume:     light.DefaultShadowVolume,
		shadowResolution: light.ShadowMapResolution,
		hotReload:        HotReloadStat,
		width:            width,
		height:           height,
		passes:           map[PassID]*Pass{},
		queues:           map[QueueID]*Queue{},
		programs:         map[program.Program]int{},
		camera:           newCameraCache(),
	}
	for _, opt := range options {
		opt(r)
	}

	if !r.msaa.IsValid() {
		return nil, fmt.Errorf("invalid msaa sample count %d", int(r.msaa))
	}
	if !r.shadowVolume.IsValid() {
		return nil, fmt.Errorf("invalid shadow volume %+v", r.shadowVolume)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}

	registry, err := binding.NewRegistry(device, binding.WithPartitionSizes(r.intrinsicSlots, r.globalSlots))
	if err != nil {
		return nil, err
	}
	r.registry = registry
	r.intrinsics = constant_buffer.NewStore(device, registry, constant_buffer.WithDirtyTracking(), constant_buffer.WithLogger(r.logger))
	r.globals = constant_buffer.NewStore(device, registry, constant_buffer.WithDirtyTracking(), constant_buffer.WithLogger(r.logger))

	if r.userFS == nil && r.shaderDir != "" {
		r.userFS = os.DirFS(r.shaderDir)
	}
	r.shaderFS = NewShaderFS(r.userFS)
	if !slices.Contains(r.includeDirs, ".") {
		r.includeDirs = append(r.includeDirs, ".")
	}

	if r.hotReload == HotReloadFSNotify && r.watcher == nil {
		root := r.shaderDir
		if root == "" {
			root = "."
		}
		w, err := program.NewWatcher(root, r.logger)
		if err != nil {
			r.logger.Warn("shader watcher unavailable, falling back to stat polling", "error", err)
			r.hotReload = HotReloadStat
		} else {
			r.watcher = w
			r.ownsWatcher = true
		}
	}

	if err := r.createFramebuffers(); err != nil {
		r.Destroy()
		return nil, err
	}
	r.createBuiltinQueues()
	r.createBuiltinPasses()
	if err := r.createBuiltinRenderables(); err != nil {
		r.Destroy()
		return nil, err
	}

	r.logger.Info("renderer created",
		"driver", device.DriverInfo().Renderer,
		"size", fmt.Sprintf("%dx%d", width, height),
		"msaa", r.msaa.String(),
		"gamma_correction", r.gammaCorrection,
		"hot_reload", r.hotReload.String(),
	)
	return r, nil
}

func (r *renderer) Device() gpu.Device {
	return r.device
}

func (r *renderer) Registry() binding.Registry {
	return r.registry
}

func (r *renderer) ShaderFS() fs.FS {
	return r.shaderFS
}

func (r *renderer) CreateProgram(name string, options ...program.ProgramBuilderOption) (program.Program, error) {
	opts := append([]program.ProgramBuilderOption{
		program.WithFS(r.shaderFS),
		program.WithIncludeDirs(r.includeDirs...),
		program.WithRegistry(r.registry),
		program.WithLogger(r.logger),
	}, options...)

	p := program.NewProgram(name, r.device, opts...)
	if err := p.Compile(); err != nil {
		return p, err
	}
	return p, nil
}

func (r *renderer) CreateMaterial(name string, options ...material.MaterialBuilderOption) material.Material {
	opts := append([]material.MaterialBuilderOption{
		material.WithRegistry(r.registry),
		material.WithLogger(r.logger),
	}, options...)
	return material.NewMaterial(name, r.device, opts...)
}

func (r *renderer) Preload(paths ...string) error {
	results, err := program.PreprocessAll(r.shaderFS, r.includeDirs, paths, runtime.NumCPU(), nil)

	r.mu.Lock()
	defer r.mu.Unlock()

	var watched []string
	for _, res := range results {
		if res.Err != nil {
			r.logger.Error("shader preload failed", "path", res.Path, "error", res.Err)
			continue
		}
		for _, f := range res.Result.Files {
			if !isBuiltinShader(f) {
				watched = append(watched, f)
			}
		}
	}
	if r.hotReload == HotReloadFSNotify && r.watcher != nil && len(watched) > 0 {
		if werr := r.watcher.Watch(watched...); werr != nil {
			r.logger.Warn("preloaded shaders cannot be watched", "error", werr)
		}
	}
	r.logger.Info("shaders preloaded", "sources", len(paths), "failed", countFailures(results))
	return err
}

func countFailures(results []program.PreprocessResult) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyBuiltins()
	for p := range r.programs {
		r.unregisterProgram(p)
	}
	if r.intrinsics != nil {
		r.intrinsics.Destroy()
	}
	if r.globals != nil {
		r.globals.Destroy()
	}
	r.framebuffers.destroy()
	if r.ownsWatcher && r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			r.logger.Warn("shader watcher close failed", "error", err)
		}
		r.watcher = nil
	}
}
