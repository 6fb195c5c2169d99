// Package uniform holds the reflected descriptions of shader constants and constant blocks.
package uniform

import "strings"

// Category selects who owns and uploads a constant block.
type Category int

const (
	// CategoryRegular blocks are owned per material and uploaded right before the material's draws.
	CategoryRegular Category = iota

	// CategoryGlobal blocks are shared by every material using the same program and uploaded once per frame.
	CategoryGlobal

	// CategoryIntrinsic blocks are filled by the renderer every frame (camera, lighting, shadows).
	CategoryIntrinsic
)

// Block name prefixes selecting the category. Blocks without a prefix are Regular.
const (
	IntrinsicPrefix = "_Intrinsic_"
	GlobalPrefix    = "_Global_"
	RegularPrefix   = "_Regular_"
)

// Categories lists every category in upload order.
var Categories = []Category{CategoryIntrinsic, CategoryGlobal, CategoryRegular}

// CategoryOf classifies a block by its name prefix.
//
// Parameters:
//   - blockName: the block name as declared in source
//
// Returns:
//   - Category: the category selected by the prefix, CategoryRegular when no prefix matches
func CategoryOf(blockName string) Category {
	switch {
	case strings.HasPrefix(blockName, IntrinsicPrefix):
		return CategoryIntrinsic
	case strings.HasPrefix(blockName, GlobalPrefix):
		return CategoryGlobal
	}
	return CategoryRegular
}

func (c Category) String() string {
	switch c {
	case CategoryRegular:
		return "Regular"
	case CategoryGlobal:
		return "Global"
	case CategoryIntrinsic:
		return "Intrinsic"
	}
	return "Unknown"
}
