package uniform

import (
	"strings"
	"unicode"
)

var categoryEditorPrefixes = []string{"_intrinsic_", "_global_", "_regular_"}

// EditorName turns a constant name into a label suitable for editors.
// "_Global_Material.uniform_color_diffuse" becomes "Color Diffuse" and "light_positions[0]" becomes "Light Positions[]".
//
// Parameters:
//   - name: the reflected constant name
//
// Returns:
//   - string: the display name
func EditorName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	lower := strings.ToLower(name)
	for _, prefix := range categoryEditorPrefixes {
		if strings.HasPrefix(lower, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	name = strings.ReplaceAll(name, "_", " ")
	for _, prefix := range []string{"uniform ", "UNIFORM ", "tex ", "TEX "} {
		if trimmed, ok := strings.CutPrefix(name, prefix); ok {
			name = trimmed
			break
		}
	}

	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.ReplaceAll(strings.Join(words, " "), "[0]", "[]")
}
