package sector

import (
	"errors"
	"fmt"

	"github.com/skelhorn/undercroft/internal/engine/geom"
	"github.com/skelhorn/undercroft/pkg/math"
)

// ErrNoEar is returned when a full scan over the remaining polygon finds
// nothing to clip. A valid simple polygon always has at least two ears, so
// this means the input (or an upstream merge) was not simple.
var ErrNoEar = errors.New("no ear found, polygon is not simple")

// Triangulate ear-clips a simple polygon given as counter-clockwise points.
// The returned indices refer to positions in the input slice; every
// consecutive triple is one counter-clockwise triangle, and a valid N-gon
// yields exactly N-2 triangles.
//
// The scan always clips the first ear it finds, so the decomposition is
// deterministic but not the only valid one; callers should assert coverage,
// not exact triples. Points duplicated by a contour merge (the bridge
// endpoints) are tolerated: a remaining vertex coincident with an ear corner
// does not block that ear.
func Triangulate(points []math.Vec2) ([]uint32, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(points))
	}

	type workVertex struct {
		index uint32
		pos   math.Vec2
	}
	work := make([]workVertex, len(points))
	for i, p := range points {
		work[i] = workVertex{uint32(i), p}
	}

	out := make([]uint32, 0, (len(points)-2)*3)

	for len(work) >= 3 {
		clipped := false

		for cur := 0; cur < len(work); cur++ {
			prev := (cur + len(work) - 1) % len(work)
			next := (cur + 1) % len(work)

			a, b, c := work[prev].pos, work[cur].pos, work[next].pos

			// Convex, non-degenerate corner only.
			if geom.SignedArea(a, b, c) <= geom.Epsilon {
				continue
			}

			// No other remaining vertex may sit inside the candidate ear.
			blocked := false
			for i := range work {
				if i == prev || i == cur || i == next {
					continue
				}
				p := work[i].pos
				if geom.NearEqual(p, a) || geom.NearEqual(p, b) || geom.NearEqual(p, c) {
					continue
				}
				if geom.PointInTriangle(a, b, c, p) {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}

			out = append(out, work[prev].index, work[cur].index, work[next].index)
			work = append(work[:cur], work[cur+1:]...)
			clipped = true
			break
		}

		if !clipped {
			return nil, ErrNoEar
		}
	}

	return out, nil
}
