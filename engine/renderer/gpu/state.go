package gpu

// Face selects which polygon faces are culled.
type Face int

const (
	FaceBack Face = iota
	FaceFront
	FaceFrontAndBack
)

// WindingOrder selects which vertex winding is front facing.
type WindingOrder int

const (
	WindingOrderCounterClockwise WindingOrder = iota
	WindingOrderClockwise
)

// ComparisonFunction is used for depth and stencil tests.
type ComparisonFunction int

const (
	ComparisonFunctionLess ComparisonFunction = iota
	ComparisonFunctionLessOrEqual
	ComparisonFunctionEqual
	ComparisonFunctionNotEqual
	ComparisonFunctionGreater
	ComparisonFunctionGreaterOrEqual
	ComparisonFunctionAlways
	ComparisonFunctionNever
)

// StencilOp is the action taken on the stencil buffer after a stencil or depth test.
type StencilOp int

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrement
	StencilOpIncrementWrap
	StencilOpDecrement
	StencilOpDecrementWrap
	StencilOpInvert
)

// BlendingFactor scales the source or destination term of the blend equation.
type BlendingFactor int

const (
	BlendingFactorZero BlendingFactor = iota
	BlendingFactorOne
	BlendingFactorSourceColor
	BlendingFactorOneMinusSourceColor
	BlendingFactorDestinationColor
	BlendingFactorOneMinusDestinationColor
	BlendingFactorSourceAlpha
	BlendingFactorOneMinusSourceAlpha
	BlendingFactorDestinationAlpha
	BlendingFactorOneMinusDestinationAlpha
)

// BlendingFunction combines the scaled source and destination terms.
type BlendingFunction int

const (
	BlendingFunctionAdd BlendingFunction = iota
	BlendingFunctionSubtract
	BlendingFunctionReverseSubtract
	BlendingFunctionMin
	BlendingFunctionMax
)

// StencilState groups every stencil test parameter.
type StencilState struct {
	Function       ComparisonFunction
	Reference      int32
	ComparisonMask uint32
	StencilFail    StencilOp
	DepthFail      StencilOp
	BothPass       StencilOp
}

// BlendState groups every blending parameter.
type BlendState struct {
	SourceColorFactor      BlendingFactor
	DestinationColorFactor BlendingFactor
	SourceAlphaFactor      BlendingFactor
	DestinationAlphaFactor BlendingFactor
	Function               BlendingFunction
}
