package light

// ShadowMapResolution is the width and height in texels of the directional light's shadow map.
const ShadowMapResolution = 2048

// OrthographicVolume is the box a directional light's shadow camera captures, in light view space.
type OrthographicVolume struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// DefaultShadowVolume is the shadow camera volume used until the renderer is configured otherwise.
var DefaultShadowVolume = OrthographicVolume{Left: -50, Right: 50, Bottom: -50, Top: 50, Near: 0.1, Far: 100}

// Default shadow sampling parameters written into the lighting block.
const (
	DefaultShadowBiasMin float32 = 0.005
	DefaultShadowBiasMax float32 = 0.05
	DefaultShadowSamples int32   = 3
)

// IsValid reports whether every extent of the volume is ordered and the near plane is in front of the light.
func (v OrthographicVolume) IsValid() bool {
	return v.Left < v.Right && v.Bottom < v.Top && v.Near >= 0 && v.Near < v.Far
}
