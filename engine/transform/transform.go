// Package transform holds the placement of draw units and lights in world space.
package transform

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

type transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3

	final mgl32.Mat4
	dirty bool
}

// Transform is a translation, rotation and scale triple with a cached world matrix.
// Identity rotation looks down -Z with +Y up.
type Transform interface {
	// Translation returns the world space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Translation() mgl32.Vec3

	// Rotation returns the world space orientation.
	//
	// Returns:
	//   - mgl32.Quat: the orientation
	Rotation() mgl32.Quat

	// Scale returns the scale factor along each local axis.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetTranslation moves the transform.
	//
	// Parameters:
	//   - translation: the new world space position
	SetTranslation(translation mgl32.Vec3)

	// SetRotation orients the transform. The quaternion is normalized.
	//
	// Parameters:
	//   - rotation: the new orientation
	SetRotation(rotation mgl32.Quat)

	// SetEulerAngles orients the transform from angles in degrees applied as yaw (Y), pitch (X), roll (Z).
	//
	// Parameters:
	//   - pitch, yaw, roll: the angles in degrees
	SetEulerAngles(pitch, yaw, roll float32)

	// SetScale scales the transform.
	//
	// Parameters:
	//   - scale: the new scale factors
	SetScale(scale mgl32.Vec3)

	// LookAt rotates the transform so its forward vector points at the target.
	//
	// Parameters:
	//   - target: the world space point to face
	//   - up: the world up direction
	LookAt(target, up mgl32.Vec3)

	// FinalMatrix returns translation * rotation * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	FinalMatrix() mgl32.Mat4

	// InverseOfFinalMatrixNoScale returns the inverse of translation * rotation, ignoring scale.
	// It is the view matrix of a camera or light placed by this transform.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse rigid matrix
	InverseOfFinalMatrixNoScale() mgl32.Mat4

	// Forward returns the world space direction the transform faces.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized forward vector
	Forward() mgl32.Vec3

	// Right returns the world space right vector.
	Right() mgl32.Vec3

	// Up returns the world space up vector.
	Up() mgl32.Vec3
}

var _ Transform = &transform{}

// NewTransform creates an identity transform configured with the given options.
//
// Parameters:
//   - options: functional options to configure the transform
//
// Returns:
//   - Transform: the new transform
func NewTransform(options ...TransformBuilderOption) Transform {
	t := &transform{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		dirty:    true,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *transform) Translation() mgl32.Vec3 {
	return t.translation
}

func (t *transform) Rotation() mgl32.Quat {
	return t.rotation
}

func (t *transform) Scale() mgl32.Vec3 {
	return t.scale
}

func (t *transform) SetTranslation(translation mgl32.Vec3) {
	t.translation = translation
	t.dirty = true
}

func (t *transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation.Normalize()
	t.dirty = true
}

func (t *transform) SetEulerAngles(pitch, yaw, roll float32) {
	t.SetRotation(eulerToQuat(pitch, yaw, roll))
}

func (t *transform) SetScale(scale mgl32.Vec3) {
	t.scale = scale
	t.dirty = true
}

func (t *transform) LookAt(target, up mgl32.Vec3) {
	direction := target.Sub(t.translation)
	if direction.Len() == 0 {
		return
	}
	// QuatLookAtV builds the rotation of a view matrix, the transform needs its inverse.
	t.SetRotation(mgl32.QuatLookAtV(t.translation, target, up).Conjugate())
}

func (t *transform) FinalMatrix() mgl32.Mat4 {
	if t.dirty {
		t.final = mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z()).
			Mul4(t.rotation.Mat4()).
			Mul4(mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
		t.dirty = false
	}
	return t.final
}

func (t *transform) InverseOfFinalMatrixNoScale() mgl32.Mat4 {
	return common.InverseNoScale(t.translation, t.rotation)
}

func (t *transform) Forward() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

func (t *transform) Right() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{1, 0, 0}).Normalize()
}

func (t *transform) Up() mgl32.Vec3 {
	return t.rotation.Rotate(mgl32.Vec3{0, 1, 0}).Normalize()
}

func eulerToQuat(pitch, yaw, roll float32) mgl32.Quat {
	return mgl32.AnglesToQuat(mgl32.DegToRad(yaw), mgl32.DegToRad(pitch), mgl32.DegToRad(roll), mgl32.YXZ)
}
