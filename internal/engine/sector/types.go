// Package sector compiles 2D floor-plan blueprints into renderable 3D sector
// meshes. The pipeline: an optional hole contour is spliced into the outer
// contour through a zero-area bridge (MergeContours), the result is
// ear-clipped into triangles (Triangulate), and BuildMesh assembles wall
// quads plus floor and ceiling caps into one vertex buffer with three
// contiguous index ranges. Everything here is pure computation over the
// blueprint; GPU upload belongs to the scene package.
package sector

import (
	"github.com/skelhorn/undercroft/pkg/level"
	"github.com/skelhorn/undercroft/pkg/math"
)

// TextureScale converts world units to texture repeat units on every surface.
const TextureScale = 0.08

// Vertex is one mesh vertex, laid out for direct GPU upload: fixed field
// order, float32 throughout, no padding.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	Tangent   [3]float32
	Bitangent [3]float32
	TexCoord  [2]float32
}

// SurfaceRange is one contiguous span of the index buffer, drawn with a
// single indexed draw call.
type SurfaceRange struct {
	Start int32
	Count int32
}

// Bounds is an axis-aligned box around the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// expand grows the box to include p.
func (b *Bounds) expand(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns half the box diagonal, the radius of the enclosing sphere.
func (b Bounds) Radius() float32 {
	d := math.Vec3{
		X: b.Max[0] - b.Min[0],
		Y: b.Max[1] - b.Min[1],
		Z: b.Max[2] - b.Min[2],
	}
	return d.Length() / 2
}

// Mesh is a compiled sector: one vertex buffer (wall vertices, then floor,
// then ceiling), one index buffer partitioned into three contiguous ranges,
// and the three material references. Built once from a blueprint, immutable
// afterwards, owned by the caller until the level unloads.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Walls     SurfaceRange
	Floor     SurfaceRange
	Ceiling   SurfaceRange
	Materials level.MaterialSet
	Bounds    Bounds
}

// TriangleCount returns the total triangle count across all three surfaces.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
