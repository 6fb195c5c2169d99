package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestDataSizes(t *testing.T) {
	view := mgl32.Ident4()
	assert.Len(t, NewLight(LightTypeDirectional).Data(view).MarshalStd140(), 64)
	assert.Len(t, NewLight(LightTypePoint).Data(view).MarshalStd140(), 64)
	assert.Len(t, NewLight(LightTypeSpot).Data(view).MarshalStd140(), 80)
}

func TestPointLightPacksAttenuationIntoW(t *testing.T) {
	l := NewLight(LightTypePoint,
		WithPosition(1, 2, 3),
		WithColors(mgl32.Vec3{0.1, 0.2, 0.3}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0.5, 0.5, 0.5}),
		WithAttenuation(1, 0.5, 0.25),
	)
	b := l.Data(mgl32.Translate3D(0, 0, -10)).MarshalStd140()

	assert.InDelta(t, 0.1, floatAt(b, 0), 1e-6)
	assert.InDelta(t, 1.0, floatAt(b, 12), 1e-6)
	assert.InDelta(t, 0.5, floatAt(b, 28), 1e-6)
	assert.InDelta(t, 0.25, floatAt(b, 44), 1e-6)

	// position in view space
	assert.InDelta(t, 1.0, floatAt(b, 48), 1e-6)
	assert.InDelta(t, 2.0, floatAt(b, 52), 1e-6)
	assert.InDelta(t, -7.0, floatAt(b, 56), 1e-6)
	assert.InDelta(t, 1.0, floatAt(b, 60), 1e-6)
}

func TestDirectionalLightDirectionIsInViewSpace(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(0, -1, 0))
	view := mgl32.HomogRotate3DY(mgl32.DegToRad(90))

	data, ok := l.Data(view).(DirectionalLightData)
	require.True(t, ok)
	assert.InDelta(t, 0.0, data.DirectionViewSpace.X(), 1e-5)
	assert.InDelta(t, -1.0, data.DirectionViewSpace.Y(), 1e-5)
	assert.InDelta(t, 0.0, data.DirectionViewSpace.Z(), 1e-5)

	b := data.MarshalStd140()
	assert.InDelta(t, -1.0, floatAt(b, 52), 1e-5)
}

func TestSpotLightCutoffsAreCosines(t *testing.T) {
	tr := transform.NewTransform(transform.WithTranslation(0, 5, 0))
	l := NewLight(LightTypeSpot, WithTransform(tr), WithCutoffAngles(60, 90))
	assert.Same(t, tr, l.Transform())

	b := l.Data(mgl32.Ident4()).MarshalStd140()
	assert.InDelta(t, 5.0, floatAt(b, 52), 1e-6)
	assert.InDelta(t, 0.5, floatAt(b, 60), 1e-6)
	assert.InDelta(t, 0.0, floatAt(b, 76), 1e-6)
	// default forward is -Z
	assert.InDelta(t, -1.0, floatAt(b, 72), 1e-6)
}

func TestSettersAndDefaults(t *testing.T) {
	l := NewLight(LightTypePoint, WithEnabled(false))
	assert.False(t, l.Enabled())
	assert.NotNil(t, l.Transform())
	assert.Equal(t, mgl32.Vec3{1, 0.09, 0.032}, l.Attenuation())

	l.SetEnabled(true)
	l.SetCutoffAngles(10, 20)
	inner, outer := l.CutoffAngles()
	assert.True(t, l.Enabled())
	assert.Equal(t, float32(10), inner)
	assert.Equal(t, float32(20), outer)
	assert.Equal(t, "Point", l.Type().String())
}

func TestDefaultShadowVolumeIsValid(t *testing.T) {
	assert.True(t, DefaultShadowVolume.IsValid())
	assert.False(t, OrthographicVolume{Left: 1, Right: -1, Bottom: -1, Top: 1, Near: 0, Far: 1}.IsValid())
}
