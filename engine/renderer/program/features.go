// features.go discovers the feature toggles a source declares and injects the requested ones
// as #define lines right after the #version directive.
package program

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Feature is a compile-time toggle of a program.
type Feature struct {
	Name string
	// Value is the define value, empty for plain flags.
	Value string
	// IsSet reports whether the feature is defined in the compiled source.
	IsSet bool
}

// parseFeatures collects `#pragma feature NAME` declarations and `#define NAME [VALUE]` lines.
func parseFeatures(source string) map[string]Feature {
	features := map[string]Feature{}
	for line := range strings.SplitSeq(source, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) >= 3 && fields[0] == "#pragma" && fields[1] == "feature":
			if _, ok := features[fields[2]]; !ok {
				features[fields[2]] = Feature{Name: fields[2]}
			}
		case len(fields) >= 2 && fields[0] == "#define":
			if strings.Contains(fields[1], "(") {
				continue
			}
			features[fields[1]] = Feature{Name: fields[1], Value: strings.Join(fields[2:], " "), IsSet: true}
		}
	}
	return features
}

// applyFeatures strips existing definitions of the requested features and re-inserts them after
// the #version line, followed by a #line directive restoring the original numbering.
// Removed definitions are blanked so the numbering of the remaining lines does not change.
func applyFeatures(source string, requested map[string]string) string {
	if len(requested) == 0 {
		return source
	}

	lines := strings.Split(source, "\n")
	versionIdx := -1
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "#version" && versionIdx < 0 {
			versionIdx = i
			continue
		}
		if fields[0] == "#define" && len(fields) >= 2 {
			if _, ok := requested[fields[1]]; ok {
				lines[i] = ""
			}
		}
	}

	var defines []string
	for _, name := range slices.Sorted(maps.Keys(requested)) {
		defines = append(defines, strings.TrimSpace(fmt.Sprintf("#define %s %s", name, requested[name])))
	}
	defines = append(defines, fmt.Sprintf("#line %d 0", versionIdx+2))

	out := make([]string, 0, len(lines)+len(defines))
	out = append(out, lines[:versionIdx+1]...)
	out = append(out, defines...)
	out = append(out, lines[versionIdx+1:]...)
	return strings.Join(out, "\n")
}
