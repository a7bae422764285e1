package sector

import (
	"errors"
	"testing"

	"github.com/skelhorn/undercroft/pkg/level"
)

func near32(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func nearVec3(a, b [3]float32) bool {
	return near32(a[0], b[0]) && near32(a[1], b[1]) && near32(a[2], b[2])
}

// squareBlueprint is a 4x4 room, floor 0, ceiling 3. Walls run clockwise in
// the plan so their facing side is the room interior.
func squareBlueprint() *level.Blueprint {
	return &level.Blueprint{
		Name:    "square",
		Floor:   0,
		Ceiling: 3,
		Materials: level.MaterialSet{
			Wall:    "stone_wall",
			Floor:   "dirt_floor",
			Ceiling: "plaster",
		},
		Vertices: []level.VertexDef{
			{ID: 0, X: 0, Y: 0},
			{ID: 1, X: 4, Y: 0},
			{ID: 2, X: 4, Y: 4},
			{ID: 3, X: 0, Y: 4},
		},
		Walls: []level.Wall{
			{A: 1, B: 0}, {A: 0, B: 3}, {A: 3, B: 2}, {A: 2, B: 1},
		},
	}
}

// pillarBlueprint is a 10x10 room with a 2x2 pillar in the middle. The
// pillar's walls run counter-clockwise so they also face the room.
func pillarBlueprint() *level.Blueprint {
	return &level.Blueprint{
		Name:    "pillar-room",
		Floor:   0,
		Ceiling: 3,
		Materials: level.MaterialSet{
			Wall:    "stone_wall",
			Floor:   "dirt_floor",
			Ceiling: "plaster",
		},
		Vertices: []level.VertexDef{
			{ID: 0, X: 0, Y: 0},
			{ID: 1, X: 10, Y: 0},
			{ID: 2, X: 10, Y: 10},
			{ID: 3, X: 0, Y: 10},
		},
		Hole: []level.VertexDef{
			{ID: 10, X: 4, Y: 4},
			{ID: 11, X: 6, Y: 4},
			{ID: 12, X: 6, Y: 6},
			{ID: 13, X: 4, Y: 6},
		},
		Walls: []level.Wall{
			{A: 1, B: 0}, {A: 0, B: 3}, {A: 3, B: 2}, {A: 2, B: 1},
			{A: 10, B: 11}, {A: 11, B: 12}, {A: 12, B: 13}, {A: 13, B: 10},
		},
	}
}

func TestBuildMeshSquareRoom(t *testing.T) {
	m, err := BuildMesh(squareBlueprint())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	// 4 walls x 4 vertices, plus the 4-point contour twice for the caps.
	if got, want := len(m.Vertices), 16+4+4; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	// 4 quads x 6, plus 2 triangles x 3 for each cap.
	if got, want := len(m.Indices), 24+6+6; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}
	if m.Walls != (SurfaceRange{Start: 0, Count: 24}) {
		t.Errorf("wall range = %+v, want {0 24}", m.Walls)
	}
	if m.Floor != (SurfaceRange{Start: 24, Count: 6}) {
		t.Errorf("floor range = %+v, want {24 6}", m.Floor)
	}
	if m.Ceiling != (SurfaceRange{Start: 30, Count: 6}) {
		t.Errorf("ceiling range = %+v, want {30 6}", m.Ceiling)
	}
	if got, want := m.TriangleCount(), 12; got != want {
		t.Errorf("TriangleCount = %d, want %d", got, want)
	}

	if m.Name != "square" {
		t.Errorf("mesh name = %q, want %q", m.Name, "square")
	}
	if m.Materials.Wall != "stone_wall" || m.Materials.Floor != "dirt_floor" || m.Materials.Ceiling != "plaster" {
		t.Errorf("materials not carried over: %+v", m.Materials)
	}

	// Plan y runs toward -z, so the room spans z in [-4, 0].
	if !nearVec3(m.Bounds.Min, [3]float32{0, 0, -4}) {
		t.Errorf("bounds min = %v, want [0 0 -4]", m.Bounds.Min)
	}
	if !nearVec3(m.Bounds.Max, [3]float32{4, 3, 0}) {
		t.Errorf("bounds max = %v, want [4 3 0]", m.Bounds.Max)
	}

	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d out of range for %d vertices", idx, len(m.Vertices))
		}
	}
}

func TestBuildMeshWallGeometry(t *testing.T) {
	m, err := BuildMesh(squareBlueprint())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	// First wall runs from (4,0) to (0,0): due west, facing north into the
	// room, which is -z in world space.
	wantPos := [][3]float32{
		{4, 0, 0}, // start, floor
		{4, 3, 0}, // start, ceiling
		{0, 0, 0}, // end, floor
		{0, 3, 0}, // end, ceiling
	}
	uEnd := 4 * float32(TextureScale)
	vFloor := 3 * float32(TextureScale)
	wantUV := [][2]float32{{0, vFloor}, {0, 0}, {uEnd, vFloor}, {uEnd, 0}}

	for i := 0; i < 4; i++ {
		v := m.Vertices[i]
		if !nearVec3(v.Position, wantPos[i]) {
			t.Errorf("wall vertex %d position = %v, want %v", i, v.Position, wantPos[i])
		}
		if !nearVec3(v.Normal, [3]float32{0, 0, -1}) {
			t.Errorf("wall vertex %d normal = %v, want [0 0 -1]", i, v.Normal)
		}
		if !nearVec3(v.Tangent, [3]float32{-1, 0, 0}) {
			t.Errorf("wall vertex %d tangent = %v, want [-1 0 0]", i, v.Tangent)
		}
		if !nearVec3(v.Bitangent, [3]float32{0, -1, 0}) {
			t.Errorf("wall vertex %d bitangent = %v, want [0 -1 0]", i, v.Bitangent)
		}
		if !near32(v.TexCoord[0], wantUV[i][0]) || !near32(v.TexCoord[1], wantUV[i][1]) {
			t.Errorf("wall vertex %d uv = %v, want %v", i, v.TexCoord, wantUV[i])
		}
	}

	want := []uint32{0, 2, 1, 1, 2, 3}
	for i, idx := range m.Indices[:6] {
		if idx != want[i] {
			t.Fatalf("first quad indices = %v, want %v", m.Indices[:6], want)
		}
	}

	// Every wall triangle must wind toward its stored normal.
	for i := 0; i < int(m.Walls.Count); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		if dot := faceDot(a, b, c); dot <= 0 {
			t.Errorf("wall triangle %d winds away from its normal (dot %v)", i/3, dot)
		}
	}
}

// faceDot computes the dot product of the triangle's geometric normal with
// the stored vertex normal.
func faceDot(a, b, c Vertex) float32 {
	var e1, e2 [3]float32
	for i := 0; i < 3; i++ {
		e1[i] = b.Position[i] - a.Position[i]
		e2[i] = c.Position[i] - a.Position[i]
	}
	cross := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	return cross[0]*a.Normal[0] + cross[1]*a.Normal[1] + cross[2]*a.Normal[2]
}

func TestBuildMeshFloorCeiling(t *testing.T) {
	m, err := BuildMesh(squareBlueprint())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	floorStart := int(m.Walls.Count) / 6 * 4
	for i := floorStart; i < floorStart+4; i++ {
		v := m.Vertices[i]
		if !nearVec3(v.Normal, [3]float32{0, 1, 0}) {
			t.Errorf("floor vertex %d normal = %v, want up", i, v.Normal)
		}
		if !near32(v.Position[1], 0) {
			t.Errorf("floor vertex %d height = %v, want 0", i, v.Position[1])
		}
		if !near32(v.TexCoord[0], v.Position[0]*TextureScale) ||
			!near32(v.TexCoord[1], v.Position[2]*TextureScale) {
			t.Errorf("floor vertex %d uv = %v does not tile the ground plane", i, v.TexCoord)
		}
	}
	for i := floorStart + 4; i < floorStart+8; i++ {
		v := m.Vertices[i]
		if !nearVec3(v.Normal, [3]float32{0, -1, 0}) {
			t.Errorf("ceiling vertex %d normal = %v, want down", i, v.Normal)
		}
		if !near32(v.Position[1], 3) {
			t.Errorf("ceiling vertex %d height = %v, want 3", i, v.Position[1])
		}
	}

	for i := int(m.Floor.Start); i < int(m.Floor.Start+m.Floor.Count); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		if dot := faceDot(a, b, c); dot <= 0 {
			t.Errorf("floor triangle %d does not face up (dot %v)", i/3, dot)
		}
	}
	for i := int(m.Ceiling.Start); i < int(m.Ceiling.Start+m.Ceiling.Count); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		if dot := faceDot(a, b, c); dot <= 0 {
			t.Errorf("ceiling triangle %d does not face down (dot %v)", i/3, dot)
		}
	}
}

func TestBuildMeshPillarRoom(t *testing.T) {
	m, err := BuildMesh(pillarBlueprint())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}

	// 8 walls, then a 10-point merged contour (4 outer + 4 hole + 2 bridge
	// duplicates) twice for the caps.
	if got, want := len(m.Vertices), 8*4+10+10; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	// 8 quads, then 8 cap triangles each way.
	if got, want := len(m.Indices), 8*6+24+24; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}
	if m.Walls != (SurfaceRange{Start: 0, Count: 48}) {
		t.Errorf("wall range = %+v, want {0 48}", m.Walls)
	}
	if m.Floor != (SurfaceRange{Start: 48, Count: 24}) {
		t.Errorf("floor range = %+v, want {48 24}", m.Floor)
	}
	if m.Ceiling != (SurfaceRange{Start: 72, Count: 24}) {
		t.Errorf("ceiling range = %+v, want {72 24}", m.Ceiling)
	}

	if !nearVec3(m.Bounds.Min, [3]float32{0, 0, -10}) {
		t.Errorf("bounds min = %v, want [0 0 -10]", m.Bounds.Min)
	}
	if !nearVec3(m.Bounds.Max, [3]float32{10, 3, 0}) {
		t.Errorf("bounds max = %v, want [10 3 0]", m.Bounds.Max)
	}
}

func TestBuildMeshNoWalls(t *testing.T) {
	bp := squareBlueprint()
	bp.Walls = nil

	m, err := BuildMesh(bp)
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	if m.Walls != (SurfaceRange{Start: 0, Count: 0}) {
		t.Errorf("wall range = %+v, want {0 0}", m.Walls)
	}
	if got, want := len(m.Vertices), 8; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := len(m.Indices), 12; got != want {
		t.Errorf("index count = %d, want %d", got, want)
	}
}

func TestBuildMeshErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*level.Blueprint)
		want   error
	}{
		{
			name: "unknown wall vertex",
			mutate: func(bp *level.Blueprint) {
				bp.Walls[0].B = 99
			},
			want: level.ErrUnknownVertex,
		},
		{
			name: "zero length wall",
			mutate: func(bp *level.Blueprint) {
				bp.Vertices = append(bp.Vertices, level.VertexDef{ID: 4, X: 0, Y: 0})
				bp.Walls[0] = level.Wall{A: 0, B: 4}
			},
			want: ErrZeroLengthWall,
		},
		{
			name: "floor above ceiling",
			mutate: func(bp *level.Blueprint) {
				bp.Floor = 5
			},
			want: level.ErrBadHeights,
		},
		{
			name: "hole outside the room",
			mutate: func(bp *level.Blueprint) {
				bp.Hole = []level.VertexDef{
					{ID: 20, X: 30, Y: 1},
					{ID: 21, X: 32, Y: 1},
					{ID: 22, X: 31, Y: 3},
				}
			},
			want: ErrNoBridge,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bp := squareBlueprint()
			tc.mutate(bp)
			_, err := BuildMesh(bp)
			if !errors.Is(err, tc.want) {
				t.Errorf("BuildMesh error = %v, want %v", err, tc.want)
			}
		})
	}
}
