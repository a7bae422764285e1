package lighting

import (
	"math"
	"testing"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
		want       [3]float32
	}{
		{"noon", 0, 90, [3]float32{0, 1, 0}},
		{"north horizon", 0, 0, [3]float32{0, 0, 1}},
		{"east horizon", 90, 0, [3]float32{1, 0, 0}},
		{"south horizon", 180, 0, [3]float32{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.yaw, tt.pitch)
			for i := 0; i < 3; i++ {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSunDirectionNormalized(t *testing.T) {
	for _, angles := range [][2]float32{{30, 45}, {137, 12}, {300, 80}} {
		d := SunDirection(angles[0], angles[1])
		length := math.Sqrt(float64(d[0]*d[0] + d[1]*d[1] + d[2]*d[2]))
		if math.Abs(length-1) > 1e-6 {
			t.Errorf("SunDirection(%v, %v) has length %v, want 1", angles[0], angles[1], length)
		}
	}
}

func TestDefaultSun(t *testing.T) {
	s := DefaultSun()
	if s.Ambient <= 0 || s.Ambient >= 1 {
		t.Errorf("default ambient %v outside (0,1)", s.Ambient)
	}

	d := s.Direction()
	if d[1] <= 0 {
		t.Errorf("default sun is below the horizon: %v", d)
	}
}
