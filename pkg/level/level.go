// Package level defines the YAML authoring format for sector levels and its
// validation rules. A level is a named list of sector blueprints; each
// blueprint describes one sector's floor contour, wall edges, vertical
// extents, and materials. Parsing is strict: Parse rejects any level that
// violates the blueprint invariants instead of letting the compiler fail
// later.
package level

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skelhorn/undercroft/pkg/math"
)

// Validation errors. Wrapped with sector/vertex context at the point of use;
// match with errors.Is.
var (
	ErrNoSectors       = errors.New("level has no sectors")
	ErrUnnamedSector   = errors.New("sector has no name")
	ErrDuplicateSector = errors.New("duplicate sector name")
	ErrUnknownSector   = errors.New("unknown sector")
	ErrShortContour    = errors.New("contour needs at least 3 vertices")
	ErrDuplicateVertex = errors.New("duplicate vertex id")
	ErrUnknownVertex   = errors.New("wall references unknown vertex id")
	ErrDegenerateWall  = errors.New("wall endpoints are the same vertex")
	ErrBadHeights      = errors.New("floor height must be below ceiling height")
	ErrMissingMaterial = errors.New("missing material reference")
)

// MaterialSet names the three textures a sector is rendered with.
type MaterialSet struct {
	Wall    string `yaml:"wall"`
	Floor   string `yaml:"floor"`
	Ceiling string `yaml:"ceiling"`
}

// VertexDef is one authored plan vertex: a unique id and a 2D position,
// x east and y north. Declaration order defines contour order.
type VertexDef struct {
	ID int     `yaml:"id"`
	X  float32 `yaml:"x"`
	Y  float32 `yaml:"y"`
}

// Wall is a directed wall edge between two authored vertex ids. A wall faces
// the side to the right of travel from A to B in plan view, so a room's
// inward-facing walls traverse its contour clockwise.
type Wall struct {
	A, B int
}

// UnmarshalYAML decodes a wall from a two-element sequence, e.g. [3, 4].
func (w *Wall) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("wall must be a [from, to] pair, got %d elements", len(pair))
	}
	w.A, w.B = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes a wall back to its two-element sequence form.
func (w Wall) MarshalYAML() (interface{}, error) {
	return [2]int{w.A, w.B}, nil
}

// Blueprint is the authoring-time description of one sector: the outer floor
// contour (Vertices, in declaration order), an optional single hole contour,
// the wall edges, vertical extents, and the three material references.
type Blueprint struct {
	Name      string      `yaml:"name"`
	Floor     float32     `yaml:"floor"`
	Ceiling   float32     `yaml:"ceiling"`
	Materials MaterialSet `yaml:"materials"`
	Vertices  []VertexDef `yaml:"vertices"`
	Walls     []Wall      `yaml:"walls"`
	Hole      []VertexDef `yaml:"hole,omitempty"`
}

// Level is a named collection of sector blueprints.
type Level struct {
	Name    string      `yaml:"name"`
	Sectors []Blueprint `yaml:"sectors"`
}

// Parse decodes and validates a YAML level document.
func Parse(data []byte) (*Level, error) {
	var lv Level
	if err := yaml.Unmarshal(data, &lv); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	return &lv, nil
}

// ParseFile reads and parses a level from disk.
func ParseFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	lv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lv, nil
}

// Validate checks the level and every sector blueprint in it.
func (l *Level) Validate() error {
	if len(l.Sectors) == 0 {
		return ErrNoSectors
	}

	seen := make(map[string]bool, len(l.Sectors))
	for i := range l.Sectors {
		s := &l.Sectors[i]
		if s.Name == "" {
			return fmt.Errorf("sector %d: %w", i, ErrUnnamedSector)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateSector, s.Name)
		}
		seen[s.Name] = true

		if err := s.Validate(); err != nil {
			return fmt.Errorf("sector %q: %w", s.Name, err)
		}
	}
	return nil
}

// Sector returns the named sector, or the first one when name is empty.
func (l *Level) Sector(name string) (*Blueprint, error) {
	if name == "" {
		if len(l.Sectors) == 0 {
			return nil, ErrNoSectors
		}
		return &l.Sectors[0], nil
	}
	for i := range l.Sectors {
		if l.Sectors[i].Name == name {
			return &l.Sectors[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSector, name)
}

// Validate checks the blueprint invariants: at least 3 outer vertices, a
// well-formed hole if present, unique ids across outer and hole vertices,
// wall edges referencing declared ids with distinct endpoints, floor below
// ceiling, and all three materials set.
func (b *Blueprint) Validate() error {
	if len(b.Vertices) < 3 {
		return fmt.Errorf("outer %w", ErrShortContour)
	}
	if len(b.Hole) > 0 && len(b.Hole) < 3 {
		return fmt.Errorf("hole %w", ErrShortContour)
	}
	if b.Floor >= b.Ceiling {
		return fmt.Errorf("%w: floor %g, ceiling %g", ErrBadHeights, b.Floor, b.Ceiling)
	}

	ids := make(map[int]bool, len(b.Vertices)+len(b.Hole))
	for _, v := range b.Vertices {
		if ids[v.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateVertex, v.ID)
		}
		ids[v.ID] = true
	}
	for _, v := range b.Hole {
		if ids[v.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateVertex, v.ID)
		}
		ids[v.ID] = true
	}

	for i, w := range b.Walls {
		if !ids[w.A] {
			return fmt.Errorf("wall %d: %w: %d", i, ErrUnknownVertex, w.A)
		}
		if !ids[w.B] {
			return fmt.Errorf("wall %d: %w: %d", i, ErrUnknownVertex, w.B)
		}
		if w.A == w.B {
			return fmt.Errorf("wall %d: %w (id %d)", i, ErrDegenerateWall, w.A)
		}
	}

	switch {
	case b.Materials.Wall == "":
		return fmt.Errorf("%w: wall", ErrMissingMaterial)
	case b.Materials.Floor == "":
		return fmt.Errorf("%w: floor", ErrMissingMaterial)
	case b.Materials.Ceiling == "":
		return fmt.Errorf("%w: ceiling", ErrMissingMaterial)
	}

	return nil
}

// Contour returns the outer contour as plan points in declaration order.
func (b *Blueprint) Contour() []math.Vec2 {
	pts := make([]math.Vec2, len(b.Vertices))
	for i, v := range b.Vertices {
		pts[i] = math.Vec2{X: v.X, Y: v.Y}
	}
	return pts
}

// HoleContour returns the hole contour as plan points in declaration order,
// or nil when the blueprint has no hole.
func (b *Blueprint) HoleContour() []math.Vec2 {
	if len(b.Hole) == 0 {
		return nil
	}
	pts := make([]math.Vec2, len(b.Hole))
	for i, v := range b.Hole {
		pts[i] = math.Vec2{X: v.X, Y: v.Y}
	}
	return pts
}

// VertexByID looks up a declared vertex (outer or hole) by id.
func (b *Blueprint) VertexByID(id int) (VertexDef, bool) {
	for _, v := range b.Vertices {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range b.Hole {
		if v.ID == id {
			return v, true
		}
	}
	return VertexDef{}, false
}
