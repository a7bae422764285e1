package sector

import (
	"errors"
	"fmt"

	"github.com/skelhorn/undercroft/internal/engine/geom"
	"github.com/skelhorn/undercroft/pkg/level"
	"github.com/skelhorn/undercroft/pkg/math"
)

// ErrZeroLengthWall is returned when a wall edge's endpoints coincide in the
// plan even though their ids differ.
var ErrZeroLengthWall = errors.New("wall has near-zero length")

// worldPoint maps a plan position (x east, y north) at height h into world
// space (y up): plan y runs toward -z.
func worldPoint(p math.Vec2, h float32) [3]float32 {
	return [3]float32{p.X, h, -p.Y}
}

// BuildMesh compiles a blueprint into a sector mesh. It is a pure function
// with no I/O or shared state, safe to call concurrently on distinct
// blueprints. Malformed blueprints fail fast with a validation error.
//
// Vertex buffer order is walls, then floor, then ceiling; the index buffer
// holds the three matching contiguous ranges. A wall faces the side to the
// right of travel from its first to its second vertex. Floor triangles face
// up, ceiling triangles down.
func BuildMesh(bp *level.Blueprint) (*Mesh, error) {
	if err := bp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blueprint: %w", err)
	}

	plan := make(map[int]math.Vec2, len(bp.Vertices)+len(bp.Hole))
	for _, v := range bp.Vertices {
		plan[v.ID] = math.Vec2{X: v.X, Y: v.Y}
	}
	for _, v := range bp.Hole {
		plan[v.ID] = math.Vec2{X: v.X, Y: v.Y}
	}

	m := &Mesh{
		Name:      bp.Name,
		Materials: bp.Materials,
	}
	height := bp.Ceiling - bp.Floor

	// Walls: a quad per edge, 4 vertices and 6 indices. Vertex order is
	// start-floor, start-ceiling, end-floor, end-ceiling; the index pattern
	// (n, n+2, n+1), (n+1, n+2, n+3) winds both triangles toward the normal.
	for i, w := range bp.Walls {
		start := plan[w.A]
		end := plan[w.B]

		d := end.Sub(start)
		length := d.Length()
		if length < geom.Epsilon {
			return nil, fmt.Errorf("wall %d (%d-%d): %w", i, w.A, w.B, ErrZeroLengthWall)
		}

		tangent := [3]float32{d.X / length, 0, -d.Y / length}
		normal := [3]float32{d.Y / length, 0, d.X / length}
		bitangent := [3]float32{0, -1, 0}

		uEnd := length * TextureScale
		vFloor := height * TextureScale

		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{worldPoint(start, bp.Floor), normal, tangent, bitangent, [2]float32{0, vFloor}},
			Vertex{worldPoint(start, bp.Ceiling), normal, tangent, bitangent, [2]float32{0, 0}},
			Vertex{worldPoint(end, bp.Floor), normal, tangent, bitangent, [2]float32{uEnd, vFloor}},
			Vertex{worldPoint(end, bp.Ceiling), normal, tangent, bitangent, [2]float32{uEnd, 0}},
		)
		m.Indices = append(m.Indices,
			base, base+2, base+1,
			base+1, base+2, base+3,
		)
	}
	m.Walls = SurfaceRange{Start: 0, Count: int32(len(m.Indices))}

	// Floor contour: normalized outer winding, with the hole spliced in when
	// present. Counter-clockwise plan triangles face up in world space.
	contour := oriented(bp.Contour(), true)

	if hole := bp.HoleContour(); hole != nil {
		merged, err := MergeContours(contour, oriented(hole, false))
		if err != nil {
			return nil, fmt.Errorf("merging hole: %w", err)
		}
		contour = merged
	}

	tris, err := Triangulate(contour)
	if err != nil {
		return nil, fmt.Errorf("triangulating floor: %w", err)
	}

	// Floor vertices, one per contour point at floor height. UVs tile the
	// world ground plane.
	floorBase := uint32(len(m.Vertices))
	for _, p := range contour {
		pos := worldPoint(p, bp.Floor)
		m.Vertices = append(m.Vertices, Vertex{
			Position:  pos,
			Normal:    [3]float32{0, 1, 0},
			Tangent:   [3]float32{1, 0, 0},
			Bitangent: [3]float32{0, 0, 1},
			TexCoord:  [2]float32{pos[0] * TextureScale, pos[2] * TextureScale},
		})
	}
	m.Floor = SurfaceRange{Start: int32(len(m.Indices)), Count: int32(len(tris))}
	for _, t := range tris {
		m.Indices = append(m.Indices, floorBase+t)
	}

	// Ceiling: the floor contour lifted to ceiling height with the normal
	// flipped, indices rewound (2nd and 3rd swapped) to face down.
	ceilBase := uint32(len(m.Vertices))
	for _, p := range contour {
		pos := worldPoint(p, bp.Ceiling)
		m.Vertices = append(m.Vertices, Vertex{
			Position:  pos,
			Normal:    [3]float32{0, -1, 0},
			Tangent:   [3]float32{1, 0, 0},
			Bitangent: [3]float32{0, 0, 1},
			TexCoord:  [2]float32{pos[0] * TextureScale, pos[2] * TextureScale},
		})
	}
	m.Ceiling = SurfaceRange{Start: int32(len(m.Indices)), Count: int32(len(tris))}
	for i := 0; i+2 < len(tris); i += 3 {
		m.Indices = append(m.Indices,
			ceilBase+tris[i],
			ceilBase+tris[i+2],
			ceilBase+tris[i+1],
		)
	}

	m.Bounds = Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		m.Bounds.expand(v.Position)
	}

	return m, nil
}
