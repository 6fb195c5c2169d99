package uniform

import "fmt"

// AnnotationKind is the editor widget a constant asks for.
type AnnotationKind int

const (
	// AnnotationUnassigned means no stage has annotated the constant yet.
	AnnotationUnassigned AnnotationKind = iota
	AnnotationNone
	AnnotationColor3
	AnnotationColor4
	AnnotationArray
	AnnotationSlider
	// AnnotationDriven marks constants written by code, hidden from editors.
	AnnotationDriven
)

// AnnotationKindFromString maps the annotation keyword to its kind, AnnotationNone if unknown.
func AnnotationKindFromString(keyword string) AnnotationKind {
	switch keyword {
	case "color3":
		return AnnotationColor3
	case "color4":
		return AnnotationColor4
	case "array":
		return AnnotationArray
	case "slider":
		return AnnotationSlider
	case "driven":
		return AnnotationDriven
	}
	return AnnotationNone
}

func (k AnnotationKind) String() string {
	switch k {
	case AnnotationUnassigned:
		return "unassigned"
	case AnnotationNone:
		return "none"
	case AnnotationColor3:
		return "color3"
	case AnnotationColor4:
		return "color4"
	case AnnotationArray:
		return "array"
	case AnnotationSlider:
		return "slider"
	case AnnotationDriven:
		return "driven"
	}
	return "unknown"
}

// ColorFlags tune color editing widgets.
type ColorFlags uint8

const (
	ColorFlagHDR ColorFlags = 1 << iota
	ColorFlagNoAlpha
	ColorFlagNoPicker
	ColorFlagFloat
)

var colorFlagNames = map[string]ColorFlags{
	"hdr":       ColorFlagHDR,
	"no_alpha":  ColorFlagNoAlpha,
	"no_picker": ColorFlagNoPicker,
	"float":     ColorFlagFloat,
}

// ParseColorFlag maps a flag keyword to its bit.
func ParseColorFlag(keyword string) (ColorFlags, error) {
	if f, ok := colorFlagNames[keyword]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown color flag %q", keyword)
}

// SliderFlags tune slider widgets.
type SliderFlags uint8

const (
	SliderFlagLogarithmic SliderFlags = 1 << iota
	SliderFlagNoRoundToFormat
	SliderFlagClamp
	SliderFlagPercentage
)

var sliderFlagNames = map[string]SliderFlags{
	"logarithmic": SliderFlagLogarithmic,
	"no_round":    SliderFlagNoRoundToFormat,
	"clamp":       SliderFlagClamp,
	"percentage":  SliderFlagPercentage,
}

// ParseSliderFlag maps a flag keyword to its bit.
func ParseSliderFlag(keyword string) (SliderFlags, error) {
	if f, ok := sliderFlagNames[keyword]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown slider flag %q", keyword)
}

// Annotation is the editor metadata attached to a constant by a #pragma line.
type Annotation struct {
	Kind AnnotationKind
	// FormatStringID indexes the program's format string table, -1 when no format is given.
	FormatStringID int
	ColorFlags     ColorFlags
	SliderMin      float32
	SliderMax      float32
	SliderFlags    SliderFlags
	// ArrayDimensions holds up to three extents, unused ones are zero.
	ArrayDimensions [3]uint16
}

// NoAnnotation is the annotation of a constant nothing was attached to.
var NoAnnotation = Annotation{Kind: AnnotationUnassigned, FormatStringID: -1}
