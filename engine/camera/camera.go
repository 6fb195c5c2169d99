package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind selects how a camera projects view space into clip space.
type ProjectionKind int

const (
	// ProjectionPerspective projects with a vertical field of view and aspect ratio.
	ProjectionPerspective ProjectionKind = iota

	// ProjectionOrthographic projects a box of the given height centered on the view axis.
	ProjectionOrthographic
)

// Parameters are the projection values the renderer exposes to shaders next to the matrices.
// VerticalFOV is in radians and only meaningful for perspective cameras.
type Parameters struct {
	Kind        ProjectionKind
	Near        float32
	Far         float32
	Aspect      float32
	VerticalFOV float32
}

// IsPerspective reports whether the parameters describe a perspective projection.
func (p Parameters) IsPerspective() bool {
	return p.Kind == ProjectionPerspective
}

type cameraImpl struct {
	mu *sync.Mutex

	kind      ProjectionKind
	position  mgl32.Vec3
	target    mgl32.Vec3
	up        mgl32.Vec3
	fov       float32
	orthoSize float32
	aspect    float32
	near      float32
	far       float32

	view       mgl32.Mat4
	projection mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for a viewer producing view and projection matrices.
// Position and target come from the attached CameraController when there is one,
// otherwise from SetPosition and SetTarget.
type Camera interface {
	// Kind returns the projection kind.
	//
	// Returns:
	//   - ProjectionKind: perspective or orthographic
	Kind() ProjectionKind

	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// Target returns the world-space look-at point.
	Target() mgl32.Vec3

	// Parameters returns the projection parameters.
	//
	// Returns:
	//   - Parameters: kind, near, far, aspect and vertical field of view
	Parameters() Parameters

	// View returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world to view transform
	View() mgl32.Mat4

	// Projection returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view to clip transform
	Projection() mgl32.Mat4

	// ViewProjection returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the world to clip transform
	ViewProjection() mgl32.Mat4

	// Controller returns the attached controller or nil.
	Controller() CameraController

	// Update reads position and target from the controller, if any, and recomputes the matrices.
	// Should be called once per frame before the renderer reads the camera.
	Update()

	// SetPosition sets the eye position when no controller drives the camera.
	//
	// Parameters:
	//   - position: world-space eye position
	SetPosition(position mgl32.Vec3)

	// SetTarget sets the look-at point when no controller drives the camera.
	//
	// Parameters:
	//   - target: world-space look-at point
	SetTarget(target mgl32.Vec3)

	// SetAspect sets the aspect ratio (width / height), typically on window resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetClipPlanes sets the near and far plane distances.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClipPlanes(near, far float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach, nil to detach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera at (0, 0, 5) looking at the origin with a 45 degree
// field of view, aspect 1 and clip planes 0.1 and 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		kind:      ProjectionPerspective,
		position:  mgl32.Vec3{0, 0, 5},
		up:        mgl32.Vec3{0, 1, 0},
		fov:       mgl32.DegToRad(45),
		orthoSize: 10,
		aspect:    1,
		near:      0.1,
		far:       100,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Kind() ProjectionKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Parameters() Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Parameters{Kind: c.kind, Near: c.near, Far: c.far, Aspect: c.aspect, VerticalFOV: c.fov}
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Mul4(c.view)
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near, c.far = near, far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recalculates the view and projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		c.position = c.controller.Position()
		c.target = c.controller.Target()
	}
	c.view = mgl32.LookAtV(c.position, c.target, c.up)

	switch c.kind {
	case ProjectionOrthographic:
		h := c.orthoSize / 2
		w := h * c.aspect
		c.projection = mgl32.Ortho(-w, w, -h, h, c.near, c.far)
	default:
		c.projection = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	}
}
