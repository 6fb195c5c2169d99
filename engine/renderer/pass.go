package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PassID identifies a render pass. Passes are rendered in ascending id order every frame.
type PassID uint8

// Built-in passes.
const (
	PassShadowMapping  PassID = 10
	PassLighting       PassID = 50
	PassMSAAResolve    PassID = 220
	PassPostprocessing PassID = 221
	PassFinal          PassID = 255
)

var builtinPasses = []PassID{PassShadowMapping, PassLighting, PassMSAAResolve, PassPostprocessing, PassFinal}

// Pass is one stage of the frame: it binds a target, applies a render state and draws its queues.
// The exported fields describe the pass when it is added with AddPass.
type Pass struct {
	// Name is used in logs.
	Name string

	// Target is the framebuffer the pass draws into, nil for the default framebuffer.
	Target framebuffer.Framebuffer

	// Queues are the queues drawn by the pass. Duplicates are dropped and the set is kept sorted.
	Queues []QueueID

	// View and Projection, when set, replace the intrinsic camera matrices for the pass.
	// UpdatePerPass fills them from a camera.
	View       *mgl32.Mat4
	Projection *mgl32.Mat4

	// Camera holds the clip planes, aspect ratio and field of view that go with Projection.
	Camera camera.Parameters

	// State is applied when the pass starts.
	State gpu.RenderState

	// ForbidOverrides keeps State for every queue instead of applying the queues' overrides.
	ForbidOverrides bool

	// Clear clears the target when the pass starts.
	Clear bool

	enabled bool
}

func newPass(p Pass) *Pass {
	p.enabled = true
	p.Queues = slices.Compact(slices.Sorted(slices.Values(p.Queues)))
	if p.View != nil {
		v := *p.View
		p.View = &v
	}
	if p.Projection != nil {
		m := *p.Projection
		p.Projection = &m
	}
	return &p
}

// Enabled reports whether the pass is rendered.
func (p *Pass) Enabled() bool {
	return p.enabled
}

func (p *Pass) hasQueue(id QueueID) bool {
	_, found := slices.BinarySearch(p.Queues, id)
	return found
}

func (p *Pass) addQueue(id QueueID) bool {
	i, found := slices.BinarySearch(p.Queues, id)
	if found {
		return false
	}
	p.Queues = slices.Insert(p.Queues, i, id)
	return true
}

func (p *Pass) removeQueue(id QueueID) bool {
	i, found := slices.BinarySearch(p.Queues, id)
	if !found {
		return false
	}
	p.Queues = slices.Delete(p.Queues, i, i+1)
	return true
}
