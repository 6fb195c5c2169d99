// annotations.go parses the editor annotations attached to constants with #pragma lines:
//
//	#pragma color3(hdr, "%.2f")
//	uniform vec3 uniform_tint;
//
//	#pragma slider(0.0, 10.0, logarithmic)
//	float exposure;
//
// The constant is always declared on the line right after the annotation.
package program

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

var blockStartPattern = regexp.MustCompile(`layout\s*\(\s*std140\s*\)\s*uniform\s+(\w+)`)

// annotatedConstant is one annotation together with the constant name it applies to.
type annotatedConstant struct {
	Name       string
	Line       int
	Annotation uniform.Annotation
}

// formatTable de-duplicates the format strings of a program.
type formatTable struct {
	strings []string
}

func (t *formatTable) id(format string) int {
	for i, s := range t.strings {
		if s == format {
			return i
		}
	}
	t.strings = append(t.strings, format)
	return len(t.strings) - 1
}

// parseAnnotations extracts every annotation of a stage source.
// Unknown pragmas are skipped, malformed annotations are reported and skipped.
func parseAnnotations(source string, formats *formatTable) ([]annotatedConstant, []error) {
	lines := strings.Split(source, "\n")
	blocks := blockMembership(lines)

	var (
		found []annotatedConstant
		errs  []error
	)
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#pragma")
		if !ok {
			continue
		}
		tokens := tokenizePragma(rest)
		if len(tokens) == 0 {
			continue
		}
		kind := uniform.AnnotationKindFromString(tokens[0])
		if kind == uniform.AnnotationNone {
			continue
		}

		annotation, err := parseAnnotation(kind, tokens[1:], formats)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}

		name := ""
		if i+1 < len(lines) {
			name = declaredName(lines[i+1], blocks[i+1])
		}
		if name == "" {
			errs = append(errs, fmt.Errorf("line %d: %s annotation is attached to a non-existing uniform", i+1, kind))
			continue
		}
		found = append(found, annotatedConstant{Name: name, Line: i + 1, Annotation: annotation})
	}
	return found, errs
}

// ValidateAnnotations reports every malformed or dangling annotation of a preprocessed stage source.
//
// Parameters:
//   - source: the stage source with its includes resolved
//
// Returns:
//   - error: the joined annotation errors, nil if every annotation is well formed
func ValidateAnnotations(source string) error {
	_, errs := parseAnnotations(source, &formatTable{})
	return errors.Join(errs...)
}

func parseAnnotation(kind uniform.AnnotationKind, args []string, formats *formatTable) (uniform.Annotation, error) {
	a := uniform.NoAnnotation
	a.Kind = kind

	switch kind {
	case uniform.AnnotationColor3, uniform.AnnotationColor4:
		for _, arg := range args {
			if format, ok := unquote(arg); ok {
				a.FormatStringID = formats.id(format)
				continue
			}
			flag, err := uniform.ParseColorFlag(arg)
			if err != nil {
				return a, err
			}
			a.ColorFlags |= flag
		}
	case uniform.AnnotationArray:
		if len(args) > len(a.ArrayDimensions) {
			return a, fmt.Errorf("array annotation takes at most %d dimensions, got %d", len(a.ArrayDimensions), len(args))
		}
		for i, arg := range args {
			n, err := strconv.ParseUint(arg, 10, 16)
			if err != nil {
				return a, fmt.Errorf("array dimension %q: %w", arg, err)
			}
			a.ArrayDimensions[i] = uint16(n)
		}
	case uniform.AnnotationSlider:
		if len(args) < 2 {
			return a, fmt.Errorf("slider annotation needs a minimum and a maximum")
		}
		lo, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return a, fmt.Errorf("slider minimum %q: %w", args[0], err)
		}
		hi, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return a, fmt.Errorf("slider maximum %q: %w", args[1], err)
		}
		a.SliderMin, a.SliderMax = float32(lo), float32(hi)
		for _, arg := range args[2:] {
			if format, ok := unquote(arg); ok {
				a.FormatStringID = formats.id(format)
				continue
			}
			flag, err := uniform.ParseSliderFlag(arg)
			if err != nil {
				return a, err
			}
			a.SliderFlags |= flag
		}
	}
	return a, nil
}

// tokenizePragma splits the text after #pragma on parentheses and commas and removes whitespace from every token.
func tokenizePragma(text string) []string {
	var tokens []string
	for raw := range strings.FieldsFuncSeq(text, func(r rune) bool { return r == '(' || r == ')' || r == ',' }) {
		token := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, raw)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func unquote(token string) (string, bool) {
	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		return token[1 : len(token)-1], true
	}
	return "", false
}

// blockMembership returns, for every line, the name of the constant block whose body contains it.
func blockMembership(lines []string) []string {
	membership := make([]string, len(lines))
	current := ""
	opened := false
	for i, line := range lines {
		if current == "" {
			if m := blockStartPattern.FindStringSubmatch(line); m != nil {
				current = m[1]
				opened = strings.Contains(line, "{")
			}
			continue
		}
		if !opened {
			opened = strings.Contains(line, "{")
			continue
		}
		if strings.Contains(line, "}") {
			current, opened = "", false
			continue
		}
		membership[i] = current
	}
	return membership
}

// declaredName extracts the constant name declared on a line. Outside of blocks the line must
// declare a uniform. Arrays are named after their first element.
func declaredName(line, block string) string {
	decl := strings.TrimSpace(line)
	if block == "" {
		idx := strings.Index(decl, "uniform")
		if idx < 0 {
			return ""
		}
		decl = decl[idx+len("uniform"):]
	}
	if semi := strings.IndexByte(decl, ';'); semi >= 0 {
		decl = decl[:semi]
	}

	array := false
	if bracket := strings.IndexByte(decl, '['); bracket >= 0 {
		decl = decl[:bracket]
		array = true
	}

	fields := strings.Fields(decl)
	if len(fields) < 2 {
		return ""
	}
	name := fields[len(fields)-1]
	if array {
		name += "[0]"
	}
	if block != "" {
		name = block + "." + name
	}
	return name
}
