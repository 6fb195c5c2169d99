package gputest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

var (
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	structPattern       = regexp.MustCompile(`(?s)struct\s+(\w+)\s*\{(.*?)\}\s*;`)
	blockPattern        = regexp.MustCompile(`(?s)layout\s*\(\s*std140\s*\)\s*uniform\s+(\w+)\s*\{(.*?)\}\s*(\w+)?\s*;`)
	uniformPattern      = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	fieldPattern        = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	attributePattern    = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(\w+)\s+(\w+)\s*;`)
)

type field struct {
	typeName  string
	name      string
	arraySize int
}

type reflection struct {
	attributes []gpu.ActiveAttribute
	uniforms   []gpu.ActiveUniform
	blocks     []gpu.ActiveUniformBlock
}

// reflectSources emulates driver introspection for GLSL sources, laying blocks out with std140 rules.
func reflectSources(stages map[gpu.ShaderStage]string) reflection {
	var r reflection
	seenUniforms := map[string]bool{}
	seenBlocks := map[string]bool{}
	location := int32(0)

	for _, stage := range gpu.ShaderStages {
		source, ok := stages[stage]
		if !ok {
			continue
		}
		text := stripDirectives(blockCommentPattern.ReplaceAllString(lineCommentPattern.ReplaceAllString(source, ""), ""))

		if stage == gpu.ShaderStageVertex {
			for _, m := range attributePattern.FindAllStringSubmatch(text, -1) {
				loc, _ := strconv.Atoi(m[1])
				r.attributes = append(r.attributes, gpu.ActiveAttribute{
					Name:      m[3],
					Location:  int32(loc),
					Type:      gpu.DataTypeFromGLSL(m[2]),
					ArraySize: 1,
				})
			}
		}

		structs := map[string][]field{}
		for _, m := range structPattern.FindAllStringSubmatch(text, -1) {
			structs[m[1]] = parseFields(m[2])
		}
		text = structPattern.ReplaceAllString(text, "")

		for _, m := range blockPattern.FindAllStringSubmatch(text, -1) {
			name := m[1]
			if seenBlocks[name] {
				continue
			}
			seenBlocks[name] = true
			blockIndex := int32(len(r.blocks))

			prefix := ""
			if m[3] != "" {
				prefix = name + "."
			}
			var members []gpu.ActiveUniform
			end := layoutFields(prefix, parseFields(m[2]), structs, 0, &members)
			for _, member := range members {
				member.BlockIndex = blockIndex
				member.Location = -1
				member.Index = uint32(len(r.uniforms))
				seenUniforms[member.Name] = true
				r.uniforms = append(r.uniforms, member)
			}
			r.blocks = append(r.blocks, gpu.ActiveUniformBlock{
				Name:     name,
				Index:    uint32(blockIndex),
				DataSize: int32(roundUp(16, end)),
			})
		}
		text = blockPattern.ReplaceAllString(text, "")

		for _, m := range uniformPattern.FindAllStringSubmatch(text, -1) {
			dataType := gpu.DataTypeFromGLSL(m[1])
			if dataType == gpu.DataTypeUnknown {
				continue
			}
			name := m[2]
			size := int32(1)
			if m[3] != "" {
				n, _ := strconv.Atoi(m[3])
				size = int32(n)
				name += "[0]"
			}
			if seenUniforms[name] {
				continue
			}
			seenUniforms[name] = true
			r.uniforms = append(r.uniforms, gpu.ActiveUniform{
				Name:       name,
				Index:      uint32(len(r.uniforms)),
				Location:   location,
				Type:       dataType,
				ArraySize:  size,
				BlockIndex: -1,
				Offset:     -1,
			})
			location += size
		}
	}

	return r
}

func stripDirectives(source string) string {
	lines := strings.Split(source, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func parseFields(body string) []field {
	var fields []field
	for _, m := range fieldPattern.FindAllStringSubmatch(body, -1) {
		f := field{typeName: m[1], name: m[2]}
		if m[3] != "" {
			f.arraySize, _ = strconv.Atoi(m[3])
		}
		fields = append(fields, f)
	}
	return fields
}

// layoutFields assigns std140 offsets starting at offset and returns the end offset.
func layoutFields(prefix string, fields []field, structs map[string][]field, offset int, out *[]gpu.ActiveUniform) int {
	for _, f := range fields {
		if nested, ok := structs[f.typeName]; ok {
			offset = roundUp(16, offset)
			count := max(f.arraySize, 1)
			for i := range count {
				elementPrefix := prefix + f.name + "."
				if f.arraySize > 0 {
					elementPrefix = prefix + f.name + "[" + strconv.Itoa(i) + "]."
				}
				end := layoutFields(elementPrefix, nested, structs, offset, out)
				offset += roundUp(16, end-offset)
			}
			continue
		}

		dataType := gpu.DataTypeFromGLSL(f.typeName)
		if dataType == gpu.DataTypeUnknown {
			continue
		}
		if f.arraySize > 0 {
			stride := roundUp(16, dataType.Size())
			offset = roundUp(16, offset)
			*out = append(*out, gpu.ActiveUniform{
				Name:        prefix + f.name + "[0]",
				Type:        dataType,
				ArraySize:   int32(f.arraySize),
				Offset:      int32(offset),
				ArrayStride: int32(stride),
			})
			offset += stride * f.arraySize
			continue
		}

		offset = roundUp(dataType.Alignment(), offset)
		*out = append(*out, gpu.ActiveUniform{
			Name:      prefix + f.name,
			Type:      dataType,
			ArraySize: 1,
			Offset:    int32(offset),
		})
		offset += dataType.Size()
	}
	return offset
}

func roundUp(alignment, value int) int {
	return (value + alignment - 1) / alignment * alignment
}
