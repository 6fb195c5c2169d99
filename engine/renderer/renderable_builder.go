package renderer

import "github.com/Carmen-Shannon/oxy-render/engine/transform"

// RenderableBuilderOption is a functional option for configuring a Renderable during construction.
type RenderableBuilderOption func(*renderable)

// WithTransform places the renderable. The transform's final matrix is uploaded to the
// program's uniform_transform_world constant before each draw.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - RenderableBuilderOption: functional option to set the transform
func WithTransform(t transform.Transform) RenderableBuilderOption {
	return func(r *renderable) {
		r.transform = t
	}
}

// WithShadows sets whether the renderable casts and receives shadows.
//
// Parameters:
//   - casts: draw the renderable into the shadow map
//   - receives: bind the shadow map to the renderable's material
//
// Returns:
//   - RenderableBuilderOption: functional option to set the shadow flags
func WithShadows(casts, receives bool) RenderableBuilderOption {
	return func(r *renderable) {
		r.castsShadows = casts
		r.receivesShadows = receives
	}
}

// WithEnabled sets whether the renderable starts enabled.
func WithEnabled(enabled bool) RenderableBuilderOption {
	return func(r *renderable) {
		r.enabled = enabled
	}
}
