package gpu

import (
	"fmt"
	"slices"
	"strings"
)

// VertexAttribute describes one attribute slot of a vertex layout.
type VertexAttribute struct {
	// Location is the attribute slot the shader reads from.
	Location uint32
	// Count is the number of components, 1 to 4.
	Count int
	// Component is the scalar type of each component.
	Component ComponentType
	// Instanced marks attributes advanced once per instance instead of once per vertex.
	Instanced bool
}

// Size returns the byte size of the attribute.
func (a VertexAttribute) Size() int {
	return a.Count * 4
}

// VertexLayout is an ordered list of vertex attributes.
type VertexLayout struct {
	Attributes []VertexAttribute
}

// NewVertexLayout creates a layout with its attributes sorted by location.
func NewVertexLayout(attributes ...VertexAttribute) VertexLayout {
	sorted := slices.Clone(attributes)
	slices.SortFunc(sorted, func(a, b VertexAttribute) int {
		return int(a.Location) - int(b.Location)
	})
	return VertexLayout{Attributes: sorted}
}

// Stride returns the byte distance between two consecutive vertices for the non-instanced attributes.
func (l VertexLayout) Stride() int {
	stride := 0
	for _, a := range l.Attributes {
		if !a.Instanced {
			stride += a.Size()
		}
	}
	return stride
}

// InstanceStride returns the byte distance between two consecutive instances for the instanced attributes.
func (l VertexLayout) InstanceStride() int {
	stride := 0
	for _, a := range l.Attributes {
		if a.Instanced {
			stride += a.Size()
		}
	}
	return stride
}

// Attribute returns the attribute at the given location.
func (l VertexLayout) Attribute(location uint32) (VertexAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Location == location {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// IsCompatibleWith reports whether every attribute the other layout expects is provided by this
// layout at the same location with the same component type and count.
//
// Parameters:
//   - expected: the layout a program reads
//
// Returns:
//   - bool: true if this layout can feed the expected layout
func (l VertexLayout) IsCompatibleWith(expected VertexLayout) bool {
	for _, want := range expected.Attributes {
		have, ok := l.Attribute(want.Location)
		if !ok || have.Component != want.Component || have.Count != want.Count {
			return false
		}
	}
	return true
}

// Contains reports whether every attribute of the subset appears in this layout with a matching
// location and component type. Used to check that the active layout reported by the driver is
// covered by the layout declared in source.
func (l VertexLayout) Contains(subset VertexLayout) bool {
	for _, want := range subset.Attributes {
		have, ok := l.Attribute(want.Location)
		if !ok || have.Component != want.Component {
			return false
		}
	}
	return true
}

func (l VertexLayout) String() string {
	parts := make([]string, 0, len(l.Attributes))
	for _, a := range l.Attributes {
		suffix := ""
		if a.Instanced {
			suffix = " instanced"
		}
		parts = append(parts, fmt.Sprintf("%d:%sx%d%s", a.Location, a.Component, a.Count, suffix))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
