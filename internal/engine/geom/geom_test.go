package geom

import (
	"testing"

	"github.com/skelhorn/undercroft/pkg/math"
)

func TestSignedArea(t *testing.T) {
	a := math.Vec2{X: 0, Y: 0}
	b := math.Vec2{X: 4, Y: 0}
	c := math.Vec2{X: 0, Y: 4}

	// Counter-clockwise triangle has positive area
	if area := SignedArea(a, b, c); area != 8 {
		t.Errorf("SignedArea ccw: got %f, want 8", area)
	}

	// Reversed winding negates it
	if area := SignedArea(a, c, b); area != -8 {
		t.Errorf("SignedArea cw: got %f, want -8", area)
	}

	// Collinear points are near zero
	if area := SignedArea(a, b, math.Vec2{X: 8, Y: 0}); !NearZero(area) {
		t.Errorf("SignedArea collinear: got %f, want ~0", area)
	}
}

func TestPointInTriangle(t *testing.T) {
	a := math.Vec2{X: 0, Y: 0}
	b := math.Vec2{X: 4, Y: 0}
	c := math.Vec2{X: 0, Y: 4}

	tests := []struct {
		name string
		p    math.Vec2
		want bool
	}{
		{"interior", math.Vec2{X: 1, Y: 1}, true},
		{"outside", math.Vec2{X: 3, Y: 3}, false},
		{"on edge", math.Vec2{X: 2, Y: 0}, true},
		{"on vertex", math.Vec2{X: 0, Y: 0}, true},
		{"on hypotenuse", math.Vec2{X: 2, Y: 2}, true},
		{"far away", math.Vec2{X: -5, Y: -5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInTriangle(a, b, c, tt.p); got != tt.want {
				t.Errorf("PointInTriangle(%v): got %v, want %v", tt.p, got, tt.want)
			}
			// The test must not depend on triangle winding
			if got := PointInTriangle(a, c, b, tt.p); got != tt.want {
				t.Errorf("PointInTriangle cw (%v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestIntersectRaySegment(t *testing.T) {
	origin := math.Vec2{X: 0, Y: 0}
	dir := math.Vec2{X: 1, Y: 0}

	// Segment crossing the ray ahead of the origin
	p, ok := IntersectRaySegment(origin, dir, math.Vec2{X: 2, Y: -1}, math.Vec2{X: 2, Y: 1})
	if !ok {
		t.Fatal("expected intersection with segment at x=2")
	}
	if !NearEqual(p, math.Vec2{X: 2, Y: 0}) {
		t.Errorf("intersection: got %v, want (2, 0)", p)
	}

	// Segment behind the origin still intersects: t is unconstrained in sign,
	// the caller decides whether a negative-t hit counts.
	p, ok = IntersectRaySegment(origin, dir, math.Vec2{X: -1, Y: -1}, math.Vec2{X: -1, Y: 1})
	if !ok {
		t.Fatal("expected line-like intersection with segment at x=-1")
	}
	if !NearEqual(p, math.Vec2{X: -1, Y: 0}) {
		t.Errorf("intersection behind origin: got %v, want (-1, 0)", p)
	}

	// Parallel segment never intersects
	if _, ok := IntersectRaySegment(origin, dir, math.Vec2{X: 0, Y: 1}, math.Vec2{X: 5, Y: 1}); ok {
		t.Error("parallel segment should not intersect")
	}

	// Segment whose line crosses the ray outside [0,1] does not count
	if _, ok := IntersectRaySegment(origin, dir, math.Vec2{X: 2, Y: 1}, math.Vec2{X: 2, Y: 3}); ok {
		t.Error("segment above the ray should not intersect")
	}

	// Endpoint touching the ray is inclusive
	p, ok = IntersectRaySegment(origin, dir, math.Vec2{X: 3, Y: 0}, math.Vec2{X: 3, Y: 2})
	if !ok {
		t.Fatal("expected inclusive endpoint intersection")
	}
	if !NearEqual(p, math.Vec2{X: 3, Y: 0}) {
		t.Errorf("endpoint intersection: got %v, want (3, 0)", p)
	}
}

func TestNearEqual(t *testing.T) {
	a := math.Vec2{X: 1, Y: 2}
	if !NearEqual(a, math.Vec2{X: 1 + Epsilon/2, Y: 2 - Epsilon/2}) {
		t.Error("points within epsilon should compare equal")
	}
	if NearEqual(a, math.Vec2{X: 1.001, Y: 2}) {
		t.Error("points beyond epsilon should not compare equal")
	}
}
