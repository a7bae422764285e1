// Package geom provides the 2D predicates the sector compiler is built on:
// signed triangle areas, inclusive point-in-triangle containment, and
// ray/segment intersection. All comparisons are epsilon-tolerant; points are
// compared for identity with NearEqual, never ==.
package geom

import "github.com/skelhorn/undercroft/pkg/math"

// Epsilon is the tolerance used by all geometric comparisons.
const Epsilon = 1e-5

// NearZero reports whether v is within Epsilon of zero.
func NearZero(v float32) bool {
	return v > -Epsilon && v < Epsilon
}

// NearEqual reports whether two points coincide within Epsilon on each axis.
func NearEqual(a, b math.Vec2) bool {
	return NearZero(a.X-b.X) && NearZero(a.Y-b.Y)
}

// SignedArea returns the signed area of triangle a-b-c: positive when a->b->c
// winds counter-clockwise, negative when clockwise, near zero when collinear.
func SignedArea(a, b, c math.Vec2) float32 {
	return b.Sub(a).Cross(c.Sub(a)) / 2
}

// PointInTriangle reports whether p lies inside triangle a-b-c, boundary
// included. The same-side test tolerates either triangle winding.
func PointInTriangle(a, b, c, p math.Vec2) bool {
	d1 := SignedArea(a, b, p)
	d2 := SignedArea(b, c, p)
	d3 := SignedArea(c, a, p)

	hasNeg := d1 < -Epsilon || d2 < -Epsilon || d3 < -Epsilon
	hasPos := d1 > Epsilon || d2 > Epsilon || d3 > Epsilon
	return !(hasNeg && hasPos)
}

// IntersectRaySegment solves origin + t*dir = segStart + u*(segEnd-segStart)
// and returns the intersection point when the lines cross within the segment
// (u in [0,1], endpoints included). There is no intersection when dir and the
// segment are parallel.
//
// t is unconstrained in sign: the first argument is treated as the infinite
// line through origin along dir, not a half-line. Callers that need a true
// ray filter the returned point themselves, and when testing several segments
// pick the hit with the smallest squared distance from origin.
func IntersectRaySegment(origin, dir, segStart, segEnd math.Vec2) (math.Vec2, bool) {
	seg := segEnd.Sub(segStart)
	denom := dir.Cross(seg)
	if NearZero(denom) {
		return math.Vec2{}, false
	}

	diff := segStart.Sub(origin)
	u := diff.Cross(dir) / denom
	if u < -Epsilon || u > 1+Epsilon {
		return math.Vec2{}, false
	}

	t := diff.Cross(seg) / denom
	return origin.Add(dir.Scale(t)), true
}
