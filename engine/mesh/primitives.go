package mesh

import (
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// FullscreenQuad returns the options of two triangles covering clip space with texture coordinates.
func FullscreenQuad() []MeshBuilderOption {
	positions := []mgl32.Vec3{
		{-1, -1, 0}, {1, -1, 0}, {1, 1, 0},
		{-1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
	}
	uvs := []mgl32.Vec2{
		{0, 0}, {1, 0}, {1, 1},
		{0, 0}, {1, 1}, {0, 1},
	}
	return []MeshBuilderOption{WithGeometry(positions, nil, uvs)}
}

// Cube returns the options of an indexed unit cube centered at the origin with per face normals
// and texture coordinates.
func Cube() []MeshBuilderOption {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := []mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var positions, normals []mgl32.Vec3
	var uvs []mgl32.Vec2
	var indices []uint16
	for _, f := range faces {
		base := uint16(len(positions))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c.X())).Add(f.v.Mul(c.Y())).Mul(0.5)
			positions = append(positions, p)
			normals = append(normals, f.normal)
			uvs = append(uvs, mgl32.Vec2{(c.X() + 1) / 2, (c.Y() + 1) / 2})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return []MeshBuilderOption{WithGeometry(positions, normals, uvs), WithIndices16(indices), WithPrimitive(gpu.PrimitiveTriangles)}
}

// Plane returns the options of an indexed square in the XZ plane facing +Y.
//
// Parameters:
//   - size: the edge length
//   - tiling: how many times the texture repeats along each edge
//
// Returns:
//   - []MeshBuilderOption: the geometry options
func Plane(size, tiling float32) []MeshBuilderOption {
	h := size / 2
	positions := []mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}}
	normals := []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
	uvs := []mgl32.Vec2{{0, 0}, {tiling, 0}, {tiling, tiling}, {0, tiling}}
	return []MeshBuilderOption{WithGeometry(positions, normals, uvs), WithIndices16([]uint16{0, 1, 2, 0, 2, 3})}
}
