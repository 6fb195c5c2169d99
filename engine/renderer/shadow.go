package renderer

import (
	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// updateShadowCamera places the shadow pass camera at the directional light and refreshes the
// light space transform receivers sample the shadow map with.
func (r *renderer) updateShadowCamera() {
	l := r.directionalLight
	if l == nil || !l.Enabled() {
		return
	}
	p, ok := r.passes[PassShadowMapping]
	if !ok {
		return
	}

	v := r.shadowVolume
	view := l.Transform().InverseOfFinalMatrixNoScale()
	projection := mgl32.Ortho(v.Left, v.Right, v.Bottom, v.Top, v.Near, v.Far)
	p.View = &view
	p.Projection = &projection
	p.Camera = camera.Parameters{Kind: camera.ProjectionOrthographic, Near: v.Near, Far: v.Far}

	viewProjection := projection.Mul4(view)
	if viewProjection == r.lightViewProjection {
		return
	}
	r.lightViewProjection = viewProjection
	r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_DIRECTIONAL_LIGHT_VIEW_PROJECTION_TRANSFORM", viewProjection)
}
