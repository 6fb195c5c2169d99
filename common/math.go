package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// RotationOnly strips the translation part of a view matrix, keeping the upper 3x3 rotation.
// Used for skybox style rendering where the camera position must not move the geometry.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - mgl32.Mat4: the matrix with its translation column cleared
func RotationOnly(m mgl32.Mat4) mgl32.Mat4 {
	return m.Mat3().Mat4()
}

// InverseNoScale builds the inverse of a rigid transform made of a rotation and a translation.
// Scale is ignored on purpose, the result is a valid view matrix for lights and cameras.
//
// Parameters:
//   - translation: world space position
//   - rotation: world space orientation
//
// Returns:
//   - mgl32.Mat4: the inverse of translation * rotation
func InverseNoScale(translation mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	inverseRotation := rotation.Normalize().Conjugate().Mat4()
	return inverseRotation.Mul4(mgl32.Translate3D(-translation.X(), -translation.Y(), -translation.Z()))
}

// CameraPositionFromView recovers the world space camera position encoded in a view matrix.
//
// Parameters:
//   - view: the view matrix (world to camera)
//
// Returns:
//   - mgl32.Vec3: the camera position in world space
func CameraPositionFromView(view mgl32.Mat4) mgl32.Vec3 {
	return view.Inv().Col(3).Vec3()
}

// DistanceSquared returns the squared euclidean distance between two points.
func DistanceSquared(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// RoundUp rounds value up to the next multiple of alignment.
//
// Parameters:
//   - alignment: the alignment in bytes, must be greater than zero
//   - value: the value to align
//
// Returns:
//   - int: value rounded up to a multiple of alignment
func RoundUp(alignment, value int) int {
	if alignment <= 0 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

// DegreesToCos converts an angle in degrees to its cosine, used for spot light cutoff angles.
func DegreesToCos(degrees float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(degrees))))
}
