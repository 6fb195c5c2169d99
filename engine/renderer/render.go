package renderer

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/framebuffer"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/program"
)

func (r *renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats = FrameStats{Frame: r.stats.Frame + 1}

	for _, id := range slices.Sorted(maps.Keys(r.passes)) {
		p := r.passes[id]
		if !p.enabled || !r.passHasContent(p) {
			continue
		}
		r.renderPass(id, p)
	}
}

func (r *renderer) passHasContent(p *Pass) bool {
	for _, id := range p.Queues {
		if q, ok := r.queues[id]; ok && q.hasContent() {
			return true
		}
	}
	return false
}

func (r *renderer) renderPass(id PassID, p *Pass) {
	r.stats.Passes++

	r.setIntrinsicsPerPass(p)
	r.intrinsics.UploadAll()
	r.globals.UploadAll()

	// The final pass tone maps whatever the previous pass left bound.
	if id == PassFinal && r.builtins.toneMappingMaterial != nil && r.currentTarget != nil {
		if color := r.currentTarget.ColorAttachment(); color.IsValid() && !color.IsMultiSampled() {
			r.builtins.toneMappingMaterial.SetTexture("uniform_tex", color)
		}
	}

	passTarget := r.target(p.Target)
	r.applyRenderState(p.State, passTarget, p.Clear)
	cameraPosition := common.CameraPositionFromView(r.camera.view)

	for _, qid := range p.Queues {
		q, ok := r.queues[qid]
		if !ok || !q.hasContent() {
			continue
		}
		r.stats.Queues++

		if !p.ForbidOverrides {
			target := passTarget
			if q.Target != nil {
				target = q.Target
			}
			r.applyRenderState(q.Override, target, false)
		}
		sortRenderables(q.renderables, cameraPosition, q.Override.SortingMode)

		if id == PassShadowMapping {
			r.drawShadowQueue(q)
		} else {
			r.drawQueue(q)
		}
	}
}

// drawShadowQueue draws the shadow casters of a queue with the depth-only programs instead of their materials.
func (r *renderer) drawShadowQueue(q *Queue) {
	var plain, instanced []Renderable
	for _, rn := range q.renderables {
		if !rn.Enabled() || !rn.CastsShadows() {
			continue
		}
		if rn.Mesh().HasInstancing() {
			instanced = append(instanced, rn)
		} else {
			plain = append(plain, rn)
		}
	}
	r.drawDepthOnly(r.builtins.shadowWrite, plain)
	r.drawDepthOnly(r.builtins.shadowWriteInstanced, instanced)
}

func (r *renderer) drawDepthOnly(p program.Program, renderables []Renderable) {
	if len(renderables) == 0 || p == nil || !p.IsValid() {
		return
	}
	p.Bind()
	r.stats.ProgramBinds++
	for _, rn := range renderables {
		r.draw(p, rn, true)
	}
}

// drawQueue draws the renderables of a queue batched by program, then by material.
func (r *renderer) drawQueue(q *Queue) {
	materials := slices.Sorted(maps.Keys(q.materials))
	for _, p := range q.programsInFlight() {
		if !p.IsValid() {
			continue
		}
		p.Bind()
		r.stats.ProgramBinds++
		_, hasWorld := p.Uniform(worldTransformConstant)

		for _, name := range materials {
			m := q.materials[name]
			if m.Program() != p {
				continue
			}
			m.Bind()
			for _, rn := range q.renderables {
				if rn.Enabled() && rn.Material().Name() == name {
					r.draw(p, rn, hasWorld)
				}
			}
		}
	}
}

func (r *renderer) draw(p program.Program, rn Renderable, setWorld bool) {
	m := rn.Mesh()
	m.Bind()
	if t := rn.Transform(); setWorld && t != nil && !m.HasInstancing() {
		if err := p.SetUniform(worldTransformConstant, t.FinalMatrix()); err != nil {
			r.logger.Debug("world transform not set", "program", p.Name(), "mesh", m.Name(), "error", err)
		}
	}
	r.device.Draw(m.DrawCall())
	r.stats.DrawCalls++
}

// applyRenderState binds the target if needed and sets every piece of fixed function state.
// Write masks are set before clearing since they also mask clears.
func (r *renderer) applyRenderState(s gpu.RenderState, target framebuffer.Framebuffer, clear bool) {
	if target != r.currentTarget {
		target.Bind()
		r.currentTarget = target
	}

	r.device.SetDepthWrite(s.DepthWriteEnable)
	r.device.SetStencilWriteMask(s.StencilWriteMask)
	if clear {
		target.Clear()
	}

	if srgb := target.IsSRGB(); srgb != r.srgbEnabled {
		r.device.SetSRGB(srgb)
		r.srgbEnabled = srgb
	}

	r.device.SetCulling(s.FaceCullingEnable, s.FaceToCull, s.WindingOrder)
	r.device.SetDepthTest(s.DepthTestEnable, s.DepthComparisonFunction)
	r.device.SetStencilTest(s.StencilTestEnable, s.Stencil)
	r.device.SetBlending(s.BlendingEnable, s.Blend)
}
