package program

import (
	"regexp"
	"strconv"

	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
)

var attributePattern = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(\w+)\s+\w+`)

// sourceVertexLayout builds the layout a vertex source declares with explicit locations.
func sourceVertexLayout(source string) gpu.VertexLayout {
	var attributes []gpu.VertexAttribute
	for _, m := range attributePattern.FindAllStringSubmatch(source, -1) {
		location, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		attributes = append(attributes, expandAttribute(uint32(location), gpu.DataTypeFromGLSL(m[2]), false)...)
	}
	return gpu.NewVertexLayout(attributes...)
}

// activeVertexLayout builds the layout from the attributes the linker kept.
func activeVertexLayout(active []gpu.ActiveAttribute) gpu.VertexLayout {
	var attributes []gpu.VertexAttribute
	for _, a := range active {
		if a.Location < 0 || a.Type == gpu.DataTypeUnknown {
			continue
		}
		attributes = append(attributes, expandAttribute(uint32(a.Location), a.Type, a.Instanced)...)
	}
	return gpu.NewVertexLayout(attributes...)
}

// expandAttribute splits matrix attributes into one column per location.
func expandAttribute(location uint32, dataType gpu.DataType, instanced bool) []gpu.VertexAttribute {
	if dataType == gpu.DataTypeUnknown {
		return nil
	}
	columns, count := 1, dataType.ComponentCount()
	switch dataType {
	case gpu.DataTypeMat3:
		columns, count = 3, 3
	case gpu.DataTypeMat4:
		columns, count = 4, 4
	}

	attributes := make([]gpu.VertexAttribute, 0, columns)
	for c := range columns {
		attributes = append(attributes, gpu.VertexAttribute{
			Location:  location + uint32(c),
			Count:     count,
			Component: dataType.Component(),
			Instanced: instanced,
		})
	}
	return attributes
}
