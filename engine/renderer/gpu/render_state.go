package gpu

// SortingMode selects how the draw units of a queue are ordered before dispatch.
type SortingMode int

const (
	// SortingModeFrontToBack draws the units closest to the camera first.
	SortingModeFrontToBack SortingMode = iota

	// SortingModeBackToFront draws the units farthest from the camera first.
	SortingModeBackToFront

	// SortingModeNone keeps insertion order.
	SortingModeNone
)

func (m SortingMode) String() string {
	switch m {
	case SortingModeFrontToBack:
		return "FrontToBack"
	case SortingModeBackToFront:
		return "BackToFront"
	case SortingModeNone:
		return "None"
	}
	return "Unknown"
}

// RenderState is the fixed function state applied before a pass or queue draws.
type RenderState struct {
	FaceCullingEnable bool
	FaceToCull        Face
	WindingOrder      WindingOrder

	DepthTestEnable         bool
	DepthWriteEnable        bool
	DepthComparisonFunction ComparisonFunction

	StencilTestEnable bool
	StencilWriteMask  uint32
	Stencil           StencilState

	BlendingEnable bool
	Blend          BlendState

	SortingMode SortingMode
}

// DefaultRenderState returns back face culling with counter clockwise front faces, a writing
// Less depth test, stencil and blending off and front to back sorting.
func DefaultRenderState() RenderState {
	return RenderState{
		FaceCullingEnable:       true,
		FaceToCull:              FaceBack,
		WindingOrder:            WindingOrderCounterClockwise,
		DepthTestEnable:         true,
		DepthWriteEnable:        true,
		DepthComparisonFunction: ComparisonFunctionLess,
		StencilWriteMask:        0xFF,
		Stencil: StencilState{
			Function:       ComparisonFunctionAlways,
			ComparisonMask: 0xFF,
			StencilFail:    StencilOpKeep,
			DepthFail:      StencilOpKeep,
			BothPass:       StencilOpKeep,
		},
		Blend: BlendState{
			SourceColorFactor:      BlendingFactorOne,
			DestinationColorFactor: BlendingFactorZero,
			SourceAlphaFactor:      BlendingFactorOne,
			DestinationAlphaFactor: BlendingFactorZero,
			Function:               BlendingFunctionAdd,
		},
		SortingMode: SortingModeFrontToBack,
	}
}

// AlphaBlended returns the state with standard alpha blending enabled.
func (s RenderState) AlphaBlended() RenderState {
	s.BlendingEnable = true
	s.Blend.SourceColorFactor = BlendingFactorSourceAlpha
	s.Blend.DestinationColorFactor = BlendingFactorOneMinusSourceAlpha
	s.Blend.SourceAlphaFactor = BlendingFactorSourceAlpha
	s.Blend.DestinationAlphaFactor = BlendingFactorOneMinusSourceAlpha
	return s
}

// Fullscreen returns the state used by fullscreen effects: no culling, no depth and no sorting.
func (s RenderState) Fullscreen() RenderState {
	s.FaceCullingEnable = false
	s.DepthTestEnable = false
	s.DepthWriteEnable = false
	s.SortingMode = SortingModeNone
	return s
}
