package sector

import (
	"errors"
	gomath "math"

	"github.com/skelhorn/undercroft/internal/engine/geom"
	"github.com/skelhorn/undercroft/pkg/math"
)

var (
	// ErrEmptyContour is returned when a contour passed to the merger has no
	// vertices.
	ErrEmptyContour = errors.New("empty contour")

	// ErrNoBridge is returned when no outer edge lies in the +x direction of
	// the hole's rightmost vertex, so the hole cannot be stitched to the
	// outer contour. A hole inside a valid outer contour always has one.
	ErrNoBridge = errors.New("no visible bridge between hole and outer contour")
)

// contourArea returns the signed area of a closed contour, positive when it
// winds counter-clockwise.
func contourArea(points []math.Vec2) float32 {
	var sum float32
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.Cross(q)
	}
	return sum / 2
}

// oriented returns a copy of points winding counter-clockwise when ccw is
// true, clockwise otherwise. Authoring order is not trusted.
func oriented(points []math.Vec2, ccw bool) []math.Vec2 {
	out := make([]math.Vec2, len(points))
	copy(out, points)
	if (contourArea(points) > 0) != ccw {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// isReflex reports whether vertex i of a counter-clockwise contour has an
// interior angle over 180 degrees.
func isReflex(contour []math.Vec2, i int) bool {
	n := len(contour)
	prev := contour[(i+n-1)%n]
	next := contour[(i+1)%n]
	return geom.SignedArea(prev, contour[i], next) < -geom.Epsilon
}

// MergeContours splices one hole into an outer contour through a zero-area
// bridge, producing a single simple polygon of length N+M+2. The outer
// contour must wind counter-clockwise and the hole clockwise; BuildMesh
// normalizes both before calling. The two bridge endpoints each appear twice
// in the result: geometrically identical points at distinct positions, so
// ear clipping sees a simple polygon instead of a self-touching one.
func MergeContours(outer, hole []math.Vec2) ([]math.Vec2, error) {
	if len(outer) == 0 || len(hole) == 0 {
		return nil, ErrEmptyContour
	}

	// The hole vertex with the largest x anchors the bridge; the first such
	// vertex wins ties.
	mi := 0
	for i, p := range hole {
		if p.X > hole[mi].X {
			mi = i
		}
	}
	m := hole[mi]
	dir := math.Vec2{X: 1, Y: 0}

	// Nearest outer edge hit by the +x ray from m. The kernel is line-like
	// in t, so hits behind m are discarded here.
	hitEdge := -1
	var hit math.Vec2
	bestDist := float32(gomath.MaxFloat32)
	for i := range outer {
		a := outer[i]
		b := outer[(i+1)%len(outer)]
		p, ok := geom.IntersectRaySegment(m, dir, a, b)
		if !ok || p.X < m.X-geom.Epsilon {
			continue
		}
		if d := p.Sub(m).LengthSq(); d < bestDist {
			bestDist = d
			hit = p
			hitEdge = i
		}
	}
	if hitEdge == -1 {
		return nil, ErrNoBridge
	}

	// Default bridge target: the hit edge's endpoint with the larger x.
	p1 := outer[hitEdge]
	p2 := outer[(hitEdge+1)%len(outer)]
	bridge := (hitEdge + 1) % len(outer)
	if p1.X > p2.X {
		bridge = hitEdge
	}
	p := outer[bridge]

	// A reflex outer vertex inside triangle (m, hit, p) would block the
	// direct bridge. Redirect to the one angularly closest to the ray;
	// distance breaks angle ties, contour order breaks exact ties.
	bestCos := float32(-2)
	bestSq := float32(gomath.MaxFloat32)
	for i, v := range outer {
		if !isReflex(outer, i) {
			continue
		}
		if !geom.PointInTriangle(m, hit, p, v) {
			continue
		}
		d := v.Sub(m)
		length := d.Length()
		if length < geom.Epsilon {
			continue
		}
		cos := d.X / length
		better := cos > bestCos+geom.Epsilon ||
			(cos > bestCos-geom.Epsilon && d.LengthSq() < bestSq)
		if better {
			bestCos = cos
			bestSq = d.LengthSq()
			bridge = i
		}
	}

	merged := make([]math.Vec2, 0, len(outer)+len(hole)+2)
	merged = append(merged, outer[bridge:]...)
	merged = append(merged, outer[:bridge]...)
	merged = append(merged, outer[bridge])
	merged = append(merged, hole[mi:]...)
	merged = append(merged, hole[:mi]...)
	merged = append(merged, hole[mi])
	return merged, nil
}
