package light

import (
	"github.com/Carmen-Shannon/oxy-render/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithTransform is an option builder that places the light with an existing transform,
// so the light follows whatever moves it.
//
// Parameters:
//   - t: the transform to share
//
// Returns:
//   - LightBuilderOption: a function that applies the transform option to a lightImpl
func WithTransform(t transform.Transform) LightBuilderOption {
	return func(l *lightImpl) {
		l.transform = t
	}
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ensureTransform().SetTranslation(mgl32.Vec3{x, y, z})
	}
}

// WithDirection is an option builder that rotates the light so its forward vector points along
// the given direction.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		t := l.ensureTransform()
		direction := mgl32.Vec3{x, y, z}.Normalize()
		t.SetRotation(mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, direction))
	}
}

// WithColors is an option builder that sets the ambient, diffuse and specular colors.
//
// Parameters:
//   - ambient: the ambient contribution
//   - diffuse: the diffuse contribution
//   - specular: the specular contribution
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColors(ambient, diffuse, specular mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient, l.diffuse, l.specular = ambient, diffuse, specular
	}
}

// WithAttenuation is an option builder that sets the distance attenuation terms.
//
// Parameters:
//   - constant, linear, quadratic: the attenuation terms
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = mgl32.Vec3{constant, linear, quadratic}
	}
}

// WithCutoffAngles is an option builder that sets the spot cone half-angles in degrees.
//
// Parameters:
//   - inner: full intensity half-angle
//   - outer: zero intensity half-angle
//
// Returns:
//   - LightBuilderOption: a function that applies the cutoff option to a lightImpl
func WithCutoffAngles(inner, outer float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCutoff, l.outerCutoff = inner, outer
	}
}

// WithEnabled is an option builder that sets whether the light starts enabled.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

func (l *lightImpl) ensureTransform() transform.Transform {
	if l.transform == nil {
		l.transform = transform.NewTransform()
	}
	return l.transform
}
