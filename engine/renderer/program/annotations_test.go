package program

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotatedSource = `#version 410 core
layout(std140) uniform _Global_Material
{
#pragma color3(hdr, "%.2f")
	vec3 tint;
#pragma slider(0.0, 10.0, logarithmic, clamp)
	float roughness;
};
#pragma array(4, 2)
uniform float weights[8];
#pragma driven
uniform mat4 uniform_transform_world;
#pragma feature SHADOWS
#pragma slider(0, 1)
void main() {}
`

func TestParseAnnotations(t *testing.T) {
	formats := &formatTable{}
	found, errs := parseAnnotations(annotatedSource, formats)

	require.Len(t, found, 4)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "non-existing uniform")
	assert.Equal(t, []string{"%.2f"}, formats.strings)

	color := found[0]
	assert.Equal(t, "_Global_Material.tint", color.Name)
	assert.Equal(t, uniform.AnnotationColor3, color.Annotation.Kind)
	assert.Equal(t, uniform.ColorFlagHDR, color.Annotation.ColorFlags)
	assert.Equal(t, 0, color.Annotation.FormatStringID)

	slider := found[1]
	assert.Equal(t, "_Global_Material.roughness", slider.Name)
	assert.Equal(t, float32(0), slider.Annotation.SliderMin)
	assert.Equal(t, float32(10), slider.Annotation.SliderMax)
	assert.Equal(t, uniform.SliderFlagLogarithmic|uniform.SliderFlagClamp, slider.Annotation.SliderFlags)
	assert.Equal(t, -1, slider.Annotation.FormatStringID)

	array := found[2]
	assert.Equal(t, "weights[0]", array.Name)
	assert.Equal(t, [3]uint16{4, 2, 0}, array.Annotation.ArrayDimensions)

	assert.Equal(t, "uniform_transform_world", found[3].Name)
	assert.Equal(t, uniform.AnnotationDriven, found[3].Annotation.Kind)
}

func TestParseAnnotationsRejectsMalformedArguments(t *testing.T) {
	source := "#pragma color4(shiny)\nuniform vec4 a;\n#pragma slider(1)\nuniform float b;\n#pragma array(1, 2, 3, 4)\nuniform float c[4];\n"

	found, errs := parseAnnotations(source, &formatTable{})
	assert.Empty(t, found)
	assert.Len(t, errs, 3)
}

func TestValidateAnnotations(t *testing.T) {
	assert.NoError(t, ValidateAnnotations("#pragma color3()\nuniform vec3 tint;\n"))

	err := ValidateAnnotations("#pragma slider(1)\nuniform float b;\n#pragma driven\n\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "line 3")
}

func TestFormatStringsAreDeduplicated(t *testing.T) {
	source := "#pragma color3(\"%.3f\")\nuniform vec3 a;\n#pragma slider(0, 1, \"%.3f\")\nuniform float b;\n"

	formats := &formatTable{}
	found, errs := parseAnnotations(source, formats)
	require.Empty(t, errs)
	assert.Equal(t, []string{"%.3f"}, formats.strings)
	assert.Equal(t, found[0].Annotation.FormatStringID, found[1].Annotation.FormatStringID)
}

func TestApplyAnnotationsRejectsKindMismatchAcrossStages(t *testing.T) {
	uniforms := map[string]*uniform.Info{
		"x": {Name: "x", Type: gpu.DataTypeFloat, Annotation: uniform.NoAnnotation},
	}
	formats := &formatTable{}

	require.NoError(t, applyAnnotations("#pragma driven\nuniform float x;\n", formats, uniforms))
	err := applyAnnotations("#pragma slider(0, 1)\nuniform float x;\n", formats, uniforms)

	require.Error(t, err)
	assert.Equal(t, uniform.AnnotationDriven, uniforms["x"].Annotation.Kind)
}

func TestApplyAnnotationsIgnoresInactiveConstants(t *testing.T) {
	err := applyAnnotations("#pragma driven\nuniform float unused;\n", &formatTable{}, map[string]*uniform.Info{})
	assert.NoError(t, err)
}
