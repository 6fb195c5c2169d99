package light

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. At most one is active per renderer
	// and it is the only light casting shadows.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along its forward vector.
	// Attenuates with distance and fades between the inner and outer cutoff angles.
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "Directional"
	case LightTypePoint:
		return "Point"
	case LightTypeSpot:
		return "Spot"
	}
	return "Unknown"
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	transform   transform.Transform
	ambient     mgl32.Vec3
	diffuse     mgl32.Vec3
	specular    mgl32.Vec3
	attenuation mgl32.Vec3 // constant, linear, quadratic
	innerCutoff float32    // degrees
	outerCutoff float32    // degrees
	enabled     bool
}

// Light defines the interface for a light source placed by a transform.
//
// Position comes from the transform's translation and direction from its forward vector.
// Lights are packed into the intrinsic lighting block every frame in view space through Data.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Transform returns the transform placing the light.
	//
	// Returns:
	//   - transform.Transform: the transform, never nil
	Transform() transform.Transform

	// Ambient returns the ambient color contribution.
	Ambient() mgl32.Vec3

	// Diffuse returns the diffuse color contribution.
	Diffuse() mgl32.Vec3

	// Specular returns the specular color contribution.
	Specular() mgl32.Vec3

	// Attenuation returns the constant, linear and quadratic distance attenuation terms.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: (constant, linear, quadratic)
	Attenuation() mgl32.Vec3

	// CutoffAngles returns the inner and outer cone half-angles in degrees.
	// Meaningless for directional and point lights.
	//
	// Returns:
	//   - inner, outer: the angles in degrees
	CutoffAngles() (inner, outer float32)

	// Enabled returns whether the light contributes to rendering.
	// Disabled lights are skipped when the lighting block is filled.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetColors sets every color contribution at once.
	//
	// Parameters:
	//   - ambient, diffuse, specular: the color contributions
	SetColors(ambient, diffuse, specular mgl32.Vec3)

	// SetAttenuation sets the distance attenuation terms.
	//
	// Parameters:
	//   - constant, linear, quadratic: the attenuation terms
	SetAttenuation(constant, linear, quadratic float32)

	// SetCutoffAngles sets the cone half-angles of a spot light.
	//
	// Parameters:
	//   - inner: the angle in degrees inside which the light has full intensity
	//   - outer: the angle in degrees outside which the light has no intensity
	SetCutoffAngles(inner, outer float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Data packs the light for the intrinsic lighting block with positions and directions in view space.
	//
	// Parameters:
	//   - view: the view matrix of the pass being rendered
	//
	// Returns:
	//   - Std140Data: a DirectionalLightData, PointLightData or SpotLightData
	Data(view mgl32.Mat4) Std140Data
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with white colors, (1, 0.09, 0.032) attenuation and
// 25/35 degree spot cutoffs, then applies the options.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:   lightType,
		ambient:     mgl32.Vec3{0.1, 0.1, 0.1},
		diffuse:     mgl32.Vec3{1, 1, 1},
		specular:    mgl32.Vec3{1, 1, 1},
		attenuation: mgl32.Vec3{1, 0.09, 0.032},
		innerCutoff: 25,
		outerCutoff: 35,
		enabled:     true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.transform == nil {
		l.transform = transform.NewTransform()
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Transform() transform.Transform {
	return l.transform
}

func (l *lightImpl) Ambient() mgl32.Vec3 {
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	return l.specular
}

func (l *lightImpl) Attenuation() mgl32.Vec3 {
	return l.attenuation
}

func (l *lightImpl) CutoffAngles() (float32, float32) {
	return l.innerCutoff, l.outerCutoff
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetColors(ambient, diffuse, specular mgl32.Vec3) {
	l.ambient, l.diffuse, l.specular = ambient, diffuse, specular
}

func (l *lightImpl) SetAttenuation(constant, linear, quadratic float32) {
	l.attenuation = mgl32.Vec3{constant, linear, quadratic}
}

func (l *lightImpl) SetCutoffAngles(inner, outer float32) {
	l.innerCutoff, l.outerCutoff = inner, outer
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Data(view mgl32.Mat4) Std140Data {
	rotation := view.Mat3()
	switch l.lightType {
	case LightTypeDirectional:
		return DirectionalLightData{
			Ambient:            l.ambient,
			Diffuse:            l.diffuse,
			Specular:           l.specular,
			DirectionViewSpace: rotation.Mul3x1(l.transform.Forward()),
		}
	case LightTypePoint:
		return PointLightData{
			Ambient:           l.ambient,
			Diffuse:           l.diffuse,
			Specular:          l.specular,
			Attenuation:       l.attenuation,
			PositionViewSpace: view.Mul4x1(l.transform.Translation().Vec4(1)),
		}
	}
	return SpotLightData{
		Ambient:            l.ambient,
		Diffuse:            l.diffuse,
		Specular:           l.specular,
		Attenuation:        l.attenuation,
		PositionViewSpace:  view.Mul4x1(l.transform.Translation().Vec4(1)).Vec3(),
		CosCutoffInner:     common.DegreesToCos(l.innerCutoff),
		DirectionViewSpace: rotation.Mul3x1(l.transform.Forward()),
		CosCutoffOuter:     common.DegreesToCos(l.outerCutoff),
	}
}
