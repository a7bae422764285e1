// Package debug provides debug visualization utilities.
package debug

import (
	gomath "math"
)

// BoundsWireframeVertexCount is the number of vertices for a bounds wireframe (12 edges x 2).
const BoundsWireframeVertexCount = 24

// BoundsWireframe creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges x 2 endpoints), format: [x, y, z] per vertex.
func BoundsWireframe(min, max [3]float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		min[0], min[1], min[2], max[0], min[1], min[2],
		max[0], min[1], min[2], max[0], min[1], max[2],
		max[0], min[1], max[2], min[0], min[1], max[2],
		min[0], min[1], max[2], min[0], min[1], min[2],
		// Top face (4 edges)
		min[0], max[1], min[2], max[0], max[1], min[2],
		max[0], max[1], min[2], max[0], max[1], max[2],
		max[0], max[1], max[2], min[0], max[1], max[2],
		min[0], max[1], max[2], min[0], max[1], min[2],
		// Vertical edges (4 edges)
		min[0], min[1], min[2], min[0], max[1], min[2],
		max[0], min[1], min[2], max[0], max[1], min[2],
		max[0], min[1], max[2], max[0], max[1], max[2],
		min[0], min[1], max[2], min[0], max[1], max[2],
	}
}

// GridLines creates line vertices for a reference grid on the XZ plane at
// height y. The grid spans [minX, maxX] x [minZ, maxZ] with one line every
// spacing units, snapped outward to whole spacing multiples so lines stay
// put when the extent changes. Format: [x, y, z] per vertex.
func GridLines(minX, minZ, maxX, maxZ, y, spacing float32) []float32 {
	if spacing <= 0 || minX > maxX || minZ > maxZ {
		return nil
	}

	x0 := float32(gomath.Floor(float64(minX/spacing))) * spacing
	x1 := float32(gomath.Ceil(float64(maxX/spacing))) * spacing
	z0 := float32(gomath.Floor(float64(minZ/spacing))) * spacing
	z1 := float32(gomath.Ceil(float64(maxZ/spacing))) * spacing

	var vertices []float32

	for x := x0; x <= x1+spacing/2; x += spacing {
		vertices = append(vertices,
			x, y, z0,
			x, y, z1,
		)
	}
	for z := z0; z <= z1+spacing/2; z += spacing {
		vertices = append(vertices,
			x0, y, z,
			x1, y, z,
		)
	}

	return vertices
}
