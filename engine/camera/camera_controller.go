package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, pivot). Camera reads from the controller
// and computes its matrices. Orbit and planar controls work on the same instance.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point the camera orbits.
	//
	// Returns:
	//   - mgl32.Vec3: world-space pivot
	Target() mgl32.Vec3

	// SetTarget sets the pivot and recomputes the position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target mgl32.Vec3)

	// Zoom moves toward the pivot by delta scaled by the zoom speed, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: positive zooms in
	Zoom(delta float32)
}

// orbitCameraController rotates the camera around the pivot using spherical coordinates.
type orbitCameraController interface {
	// Orbit changes azimuth and elevation by the given steps scaled by the orbit speed.
	// Elevation is clamped to its bounds.
	//
	// Parameters:
	//   - azimuthSteps: horizontal steps, positive rotates right
	//   - elevationSteps: vertical steps, positive tilts up
	Orbit(azimuthSteps, elevationSteps float32)

	// Drag orbits by a mouse delta scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels
	Drag(dx, dy float32)

	// Radius returns the current distance from the pivot.
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane in radians.
	Elevation() float32
}

// planarCameraController translates the camera and the pivot together along the camera's local axes.
type planarCameraController interface {
	// Pan moves along the local right and up axes by deltas scaled by the pan speed.
	//
	// Parameters:
	//   - right: positive moves right
	//   - up: positive moves up
	Pan(right, up float32)
}
