package opengl

import (
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var faces = map[gpu.Face]uint32{
	gpu.FaceBack:         gl.BACK,
	gpu.FaceFront:        gl.FRONT,
	gpu.FaceFrontAndBack: gl.FRONT_AND_BACK,
}

var windingOrders = map[gpu.WindingOrder]uint32{
	gpu.WindingOrderCounterClockwise: gl.CCW,
	gpu.WindingOrderClockwise:        gl.CW,
}

var comparisonFunctions = map[gpu.ComparisonFunction]uint32{
	gpu.ComparisonFunctionLess:           gl.LESS,
	gpu.ComparisonFunctionLessOrEqual:    gl.LEQUAL,
	gpu.ComparisonFunctionEqual:          gl.EQUAL,
	gpu.ComparisonFunctionNotEqual:       gl.NOTEQUAL,
	gpu.ComparisonFunctionGreater:        gl.GREATER,
	gpu.ComparisonFunctionGreaterOrEqual: gl.GEQUAL,
	gpu.ComparisonFunctionAlways:         gl.ALWAYS,
	gpu.ComparisonFunctionNever:          gl.NEVER,
}

var stencilOps = map[gpu.StencilOp]uint32{
	gpu.StencilOpKeep:          gl.KEEP,
	gpu.StencilOpZero:          gl.ZERO,
	gpu.StencilOpReplace:       gl.REPLACE,
	gpu.StencilOpIncrement:     gl.INCR,
	gpu.StencilOpIncrementWrap: gl.INCR_WRAP,
	gpu.StencilOpDecrement:     gl.DECR,
	gpu.StencilOpDecrementWrap: gl.DECR_WRAP,
	gpu.StencilOpInvert:        gl.INVERT,
}

var blendingFactors = map[gpu.BlendingFactor]uint32{
	gpu.BlendingFactorZero:                     gl.ZERO,
	gpu.BlendingFactorOne:                      gl.ONE,
	gpu.BlendingFactorSourceColor:              gl.SRC_COLOR,
	gpu.BlendingFactorOneMinusSourceColor:      gl.ONE_MINUS_SRC_COLOR,
	gpu.BlendingFactorDestinationColor:         gl.DST_COLOR,
	gpu.BlendingFactorOneMinusDestinationColor: gl.ONE_MINUS_DST_COLOR,
	gpu.BlendingFactorSourceAlpha:              gl.SRC_ALPHA,
	gpu.BlendingFactorOneMinusSourceAlpha:      gl.ONE_MINUS_SRC_ALPHA,
	gpu.BlendingFactorDestinationAlpha:         gl.DST_ALPHA,
	gpu.BlendingFactorOneMinusDestinationAlpha: gl.ONE_MINUS_DST_ALPHA,
}

var blendingFunctions = map[gpu.BlendingFunction]uint32{
	gpu.BlendingFunctionAdd:             gl.FUNC_ADD,
	gpu.BlendingFunctionSubtract:        gl.FUNC_SUBTRACT,
	gpu.BlendingFunctionReverseSubtract: gl.FUNC_REVERSE_SUBTRACT,
	gpu.BlendingFunctionMin:             gl.MIN,
	gpu.BlendingFunctionMax:             gl.MAX,
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *device) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

func (d *device) SetStencilWriteMask(mask uint32) {
	gl.StencilMask(mask)
}

func (d *device) SetSRGB(enabled bool) {
	toggle(gl.FRAMEBUFFER_SRGB, enabled)
}

func (d *device) SetCulling(enabled bool, face gpu.Face, frontFace gpu.WindingOrder) {
	toggle(gl.CULL_FACE, enabled)
	if enabled {
		gl.CullFace(faces[face])
		gl.FrontFace(windingOrders[frontFace])
	}
}

func (d *device) SetDepthTest(enabled bool, function gpu.ComparisonFunction) {
	toggle(gl.DEPTH_TEST, enabled)
	if enabled {
		gl.DepthFunc(comparisonFunctions[function])
	}
}

func (d *device) SetStencilTest(enabled bool, s gpu.StencilState) {
	toggle(gl.STENCIL_TEST, enabled)
	if enabled {
		gl.StencilFunc(comparisonFunctions[s.Function], s.Reference, s.ComparisonMask)
		gl.StencilOp(stencilOps[s.StencilFail], stencilOps[s.DepthFail], stencilOps[s.BothPass])
	}
}

func (d *device) SetBlending(enabled bool, s gpu.BlendState) {
	toggle(gl.BLEND, enabled)
	if enabled {
		gl.BlendFuncSeparate(
			blendingFactors[s.SourceColorFactor], blendingFactors[s.DestinationColorFactor],
			blendingFactors[s.SourceAlphaFactor], blendingFactors[s.DestinationAlphaFactor],
		)
		gl.BlendEquation(blendingFunctions[s.Function])
	}
}
