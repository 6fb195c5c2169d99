package uniform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryIntrinsic, CategoryOf("_Intrinsic_Lighting"))
	assert.Equal(t, CategoryGlobal, CategoryOf("_Global_Fog"))
	assert.Equal(t, CategoryRegular, CategoryOf("_Regular_BlinnPhong"))
	assert.Equal(t, CategoryRegular, CategoryOf("BlinnPhong"))
}

func TestEditorName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"_Regular_BlinnPhong.uniform_color_diffuse", "Color Diffuse"},
		{"uniform_exposure", "Exposure"},
		{"tex_shadow", "Shadow"},
		{"_GLOBAL_FOG", "Fog"},
		{"_Intrinsic_Lighting._INTRINSIC_POINT_LIGHT_COUNT", "Point Light Count"},
		{"light_positions[0]", "Light Positions[]"},
		{"_Regular_Material.light[0].color", "Color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditorName(tt.name))
		})
	}
}

func TestAnnotationFlags(t *testing.T) {
	f, err := ParseColorFlag("hdr")
	assert.NoError(t, err)
	assert.Equal(t, ColorFlagHDR, f)

	_, err = ParseColorFlag("sparkly")
	assert.Error(t, err)

	s, err := ParseSliderFlag("logarithmic")
	assert.NoError(t, err)
	assert.Equal(t, SliderFlagLogarithmic, s)

	assert.Equal(t, AnnotationSlider, AnnotationKindFromString("slider"))
	assert.Equal(t, AnnotationNone, AnnotationKindFromString("unroll"))
}
