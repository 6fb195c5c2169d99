package light

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Capacity of the light arrays in the intrinsic lighting block. Enabled lights beyond these
// counts are not uploaded.
const (
	MaxPointLights = 14
	MaxSpotLights  = 8
)

// Std140Data is light data that knows its block image.
type Std140Data interface {
	// MarshalStd140 returns the std140 encoded bytes of the data.
	MarshalStd140() []byte
}

// DirectionalLightData is the std140 image of the DirectionalLight struct of the lighting block.
//
// Layout:
//
//	vec3 ambient                (offset  0)
//	vec3 diffuse                (offset 16)
//	vec3 specular               (offset 32)
//	vec3 direction_view_space   (offset 48)
//
// Size: 64 bytes.
type DirectionalLightData struct {
	Ambient            mgl32.Vec3
	Diffuse            mgl32.Vec3
	Specular           mgl32.Vec3
	DirectionViewSpace mgl32.Vec3
}

// MarshalStd140 serializes the data into its 64 byte block image.
func (d DirectionalLightData) MarshalStd140() []byte {
	return common.NewStd140Writer(64).
		Vec3(d.Ambient).
		Vec3(d.Diffuse).
		Vec3(d.Specular).
		Vec3(d.DirectionViewSpace).
		Align(16).
		Bytes()
}

// PointLightData is the std140 image of the PointLight struct of the lighting block.
// The attenuation terms ride in the w components of the color vectors.
//
// Layout:
//
//	vec4 ambient_and_attenuation_constant    (offset  0)
//	vec4 diffuse_and_attenuation_linear      (offset 16)
//	vec4 specular_attenuation_quadratic      (offset 32)
//	vec4 position_view_space                 (offset 48)
//
// Size: 64 bytes.
type PointLightData struct {
	Ambient           mgl32.Vec3
	Diffuse           mgl32.Vec3
	Specular          mgl32.Vec3
	Attenuation       mgl32.Vec3
	PositionViewSpace mgl32.Vec4
}

// MarshalStd140 serializes the data into its 64 byte block image.
func (p PointLightData) MarshalStd140() []byte {
	return common.NewStd140Writer(64).
		Vec4(p.Ambient.Vec4(p.Attenuation.X())).
		Vec4(p.Diffuse.Vec4(p.Attenuation.Y())).
		Vec4(p.Specular.Vec4(p.Attenuation.Z())).
		Vec4(p.PositionViewSpace).
		Bytes()
}

// SpotLightData is the std140 image of the SpotLight struct of the lighting block.
//
// Layout:
//
//	vec4 ambient_and_attenuation_constant                    (offset  0)
//	vec4 diffuse_and_attenuation_linear                      (offset 16)
//	vec4 specular_attenuation_quadratic                      (offset 32)
//	vec4 position_view_space_and_cos_cutoff_angle_inner      (offset 48)
//	vec4 direction_view_space_and_cos_cutoff_angle_outer     (offset 64)
//
// Size: 80 bytes.
type SpotLightData struct {
	Ambient            mgl32.Vec3
	Diffuse            mgl32.Vec3
	Specular           mgl32.Vec3
	Attenuation        mgl32.Vec3
	PositionViewSpace  mgl32.Vec3
	CosCutoffInner     float32
	DirectionViewSpace mgl32.Vec3
	CosCutoffOuter     float32
}

// MarshalStd140 serializes the data into its 80 byte block image.
func (s SpotLightData) MarshalStd140() []byte {
	return common.NewStd140Writer(80).
		Vec4(s.Ambient.Vec4(s.Attenuation.X())).
		Vec4(s.Diffuse.Vec4(s.Attenuation.Y())).
		Vec4(s.Specular.Vec4(s.Attenuation.Z())).
		Vec4(s.PositionViewSpace.Vec4(s.CosCutoffInner)).
		Vec4(s.DirectionViewSpace.Vec4(s.CosCutoffOuter)).
		Bytes()
}
