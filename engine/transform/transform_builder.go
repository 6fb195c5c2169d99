package transform

import "github.com/go-gl/mathgl/mgl32"

// TransformBuilderOption is a functional option for configuring a Transform during construction.
type TransformBuilderOption func(*transform)

// WithTranslation sets the initial world space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - TransformBuilderOption: functional option to set the position
func WithTranslation(x, y, z float32) TransformBuilderOption {
	return func(t *transform) {
		t.translation = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial orientation.
//
// Parameters:
//   - rotation: the orientation, normalized on use
//
// Returns:
//   - TransformBuilderOption: functional option to set the orientation
func WithRotation(rotation mgl32.Quat) TransformBuilderOption {
	return func(t *transform) {
		t.rotation = rotation.Normalize()
	}
}

// WithEulerAngles sets the initial orientation from angles in degrees.
//
// Parameters:
//   - pitch, yaw, roll: angles in degrees around X, Y and Z
//
// Returns:
//   - TransformBuilderOption: functional option to set the orientation
func WithEulerAngles(pitch, yaw, roll float32) TransformBuilderOption {
	return func(t *transform) {
		t.rotation = eulerToQuat(pitch, yaw, roll)
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - TransformBuilderOption: functional option to set the scale
func WithScale(x, y, z float32) TransformBuilderOption {
	return func(t *transform) {
		t.scale = mgl32.Vec3{x, y, z}
	}
}

// WithUniformScale sets the same scale factor on every axis.
func WithUniformScale(s float32) TransformBuilderOption {
	return WithScale(s, s, s)
}
