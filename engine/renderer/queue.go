package renderer

import (
	"cmp"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
	"github.com/go-gl/mathgl/mgl32"
)

// QueueID identifies a render queue. Queues of a pass are drawn in ascending id order.
type QueueID uint16

// Built-in queues.
const (
	QueueGeometry             QueueID = 2000
	QueueTransparent          QueueID = 2450
	QueueSkybox               QueueID = 2900
	QueueBeforePostprocessing QueueID = 2905
	QueueMSAAResolve          QueueID = 3000
	QueuePostprocessingBloom  QueueID = 3001
	QueueFinal                QueueID = 3002
)

var builtinQueues = []QueueID{
	QueueGeometry, QueueTransparent, QueueSkybox, QueueBeforePostprocessing,
	QueueMSAAResolve, QueuePostprocessingBloom, QueueFinal,
}

// Queue is an ordered bucket of renderables sharing a render state override.
// The exported fields describe the queue when it is added with AddQueue.
type Queue struct {
	// Name is used in logs.
	Name string

	// Override is applied on top of the pass state when the pass allows overrides.
	// Its SortingMode orders the renderables of the queue.
	Override gpu.RenderState

	// Target, when set, replaces the pass target while the queue draws.
	Target framebuffer.Framebuffer

	enabled     bool
	renderables []Renderable

	// programRefs counts the renderables of the queue drawn with each program.
	programRefs map[program.Program]int

	// materials holds the materials in flight by name, materialRefs counts their renderables.
	materials    map[string]material.Material
	materialRefs map[string]int
}

func newQueue(q Queue) *Queue {
	q.enabled = true
	q.renderables = nil
	q.programRefs = map[program.Program]int{}
	q.materials = map[string]material.Material{}
	q.materialRefs = map[string]int{}
	return &q
}

// Enabled reports whether the queue is drawn.
func (q *Queue) Enabled() bool {
	return q.enabled
}

// Renderables returns the renderables of the queue in their current draw order.
func (q *Queue) Renderables() []Renderable {
	return slices.Clone(q.renderables)
}

// hasContent reports whether the queue is enabled and has at least one enabled renderable.
func (q *Queue) hasContent() bool {
	return q.enabled && slices.ContainsFunc(q.renderables, Renderable.Enabled)
}

func (q *Queue) contains(r Renderable) bool {
	return slices.Contains(q.renderables, r)
}

// acquireProgram adds refs to a program and reports whether it just came into flight.
func (q *Queue) acquireProgram(p program.Program, refs int) bool {
	q.programRefs[p] += refs
	return q.programRefs[p] == refs
}

// releaseProgram drops refs from a program and reports whether it left flight.
func (q *Queue) releaseProgram(p program.Program, refs int) bool {
	n, ok := q.programRefs[p]
	if !ok {
		return false
	}
	if n <= refs {
		delete(q.programRefs, p)
		return true
	}
	q.programRefs[p] = n - refs
	return false
}

func (q *Queue) acquireMaterial(m material.Material) {
	q.materials[m.Name()] = m
	q.materialRefs[m.Name()]++
}

func (q *Queue) releaseMaterial(m material.Material) {
	name := m.Name()
	if q.materialRefs[name] <= 1 {
		delete(q.materialRefs, name)
		delete(q.materials, name)
		return
	}
	q.materialRefs[name]--
}

// programsInFlight returns the programs drawn by the queue ordered by name.
func (q *Queue) programsInFlight() []program.Program {
	programs := slices.Collect(maps.Keys(q.programRefs))
	slices.SortFunc(programs, func(a, b program.Program) int {
		return cmp.Or(cmp.Compare(a.Name(), b.Name()), cmp.Compare(a.Handle(), b.Handle()))
	})
	return programs
}

// sortRenderables orders the renderables by squared distance to the camera. Renderables
// without a transform have no distance: they go after the others and keep their relative order.
func sortRenderables(renderables []Renderable, cameraPosition mgl32.Vec3, mode gpu.SortingMode) {
	if mode == gpu.SortingModeNone {
		return
	}
	slices.SortStableFunc(renderables, func(a, b Renderable) int {
		ta, tb := a.Transform(), b.Transform()
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return 1
		case tb == nil:
			return -1
		}
		da := common.DistanceSquared(cameraPosition, ta.Translation())
		db := common.DistanceSquared(cameraPosition, tb.Translation())
		if mode == gpu.SortingModeBackToFront {
			return cmp.Compare(db, da)
		}
		return cmp.Compare(da, db)
	})
}
