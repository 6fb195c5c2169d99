package renderer

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Intrinsic blocks filled by the renderer. Shaders include them from BuiltinShaderDir.
const (
	IntrinsicOtherBlock    = "_Intrinsic_Other"
	IntrinsicLightingBlock = "_Intrinsic_Lighting"
)

// cameraCache holds the camera values last written into the intrinsic blocks.
type cameraCache struct {
	valid      bool
	view       mgl32.Mat4
	projection mgl32.Mat4
	params     camera.Parameters
}

func newCameraCache() cameraCache {
	return cameraCache{view: mgl32.Ident4(), projection: mgl32.Ident4()}
}

// initIntrinsicBlock fills a freshly created intrinsic buffer with the values that only change on events.
func (r *renderer) initIntrinsicBlock(name string) {
	switch name {
	case IntrinsicOtherBlock:
		r.camera.valid = false
		r.setViewportIntrinsic()
	case IntrinsicLightingBlock:
		r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_SHADOW_BIAS_MIN_MAX_2_RESERVED",
			mgl32.Vec4{light.DefaultShadowBiasMin, light.DefaultShadowBiasMax, 0, 0})
		r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_SHADOW_SAMPLE_COUNT_X_Y",
			[2]int32{light.DefaultShadowSamples, light.DefaultShadowSamples})
		r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_DIRECTIONAL_LIGHT_VIEW_PROJECTION_TRANSFORM", r.lightViewProjection)
	}
}

func (r *renderer) setViewportIntrinsic() {
	r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_VIEWPORT_SIZE", mgl32.Vec2{float32(r.width), float32(r.height)})
}

// setIntrinsicsPerPass writes the camera of a pass when it differs from the one last written,
// and the lights every time since they are stored in view space.
// A pass without its own matrices keeps the previous pass's camera.
func (r *renderer) setIntrinsicsPerPass(p *Pass) {
	view, projection, params := r.camera.view, r.camera.projection, r.camera.params
	if p.View != nil {
		view = *p.View
	}
	if p.Projection != nil {
		projection = *p.Projection
		params = p.Camera
	}

	viewChanged := !r.camera.valid || view != r.camera.view
	projectionChanged := !r.camera.valid || projection != r.camera.projection || params != r.camera.params

	if viewChanged {
		r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_TRANSFORM_VIEW", view)
		r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_TRANSFORM_VIEW_ROTATION_ONLY", common.RotationOnly(view))
	}
	if projectionChanged {
		r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_TRANSFORM_PROJECTION", projection)
		if params.IsPerspective() {
			r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_PROJECTION_NEAR", params.Near)
			r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_PROJECTION_FAR", params.Far)
			r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_PROJECTION_ASPECT_RATIO", params.Aspect)
			r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_PROJECTION_VERTICAL_FIELD_OF_VIEW", params.VerticalFOV)
		}
	}
	if viewChanged || projectionChanged {
		r.setIntrinsic(IntrinsicOtherBlock, "_INTRINSIC_TRANSFORM_VIEW_PROJECTION", projection.Mul4(view))
	}

	r.camera = cameraCache{
		valid:      r.intrinsics.Has(IntrinsicOtherBlock),
		view:       view,
		projection: projection,
		params:     params,
	}

	r.setLightingIntrinsics(view)
}

func (r *renderer) setLightingIntrinsics(view mgl32.Mat4) {
	if !r.intrinsics.Has(IntrinsicLightingBlock) {
		return
	}

	active := uint32(0)
	if l := r.directionalLight; l != nil && l.Enabled() {
		active = 1
		if err := r.intrinsics.SetStruct(IntrinsicLightingBlock, "_INTRINSIC_DIRECTIONAL_LIGHT", l.Data(view)); err != nil {
			r.logger.Debug("directional light not written", "error", err)
		}
	}
	r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_DIRECTIONAL_LIGHT_IS_ACTIVE", active)

	points := r.writeLights("_INTRINSIC_POINT_LIGHTS", r.pointLights, light.MaxPointLights, view)
	r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_POINT_LIGHT_ACTIVE_COUNT", points)

	spots := r.writeLights("_INTRINSIC_SPOT_LIGHTS", r.spotLights, light.MaxSpotLights, view)
	r.setIntrinsic(IntrinsicLightingBlock, "_INTRINSIC_SPOT_LIGHT_ACTIVE_COUNT", spots)
}

// writeLights packs the enabled lights into an array member and returns how many were written.
func (r *renderer) writeLights(array string, lights []light.Light, capacity int, view mgl32.Mat4) uint32 {
	count := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if count == capacity {
			break
		}
		if err := r.intrinsics.SetArrayElement(IntrinsicLightingBlock, array, count, l.Data(view)); err != nil {
			r.logger.Debug("light not written", "array", array, "index", count, "error", err)
			continue
		}
		count++
	}
	return uint32(count)
}

func (r *renderer) setIntrinsic(block, member string, value any) {
	if !r.intrinsics.Has(block) {
		return
	}
	if err := r.intrinsics.Set(block, member, value); err != nil {
		r.logger.Debug("intrinsic not written", "block", block, "member", member, "error", err)
	}
}
