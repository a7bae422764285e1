// Package lighting provides the directional light model for sector scenes.
package lighting

import "math"

// Sun is the single directional light a scene carries: an orientation in
// degrees plus an ambient floor for faces pointing away from it.
type Sun struct {
	Yaw     float32 // Rotation around +y, 0-360
	Pitch   float32 // Elevation above the horizon, 0-90
	Ambient float32 // 0..1
}

// DefaultSun lights scenes from the south-west at mid elevation.
func DefaultSun() Sun {
	return Sun{Yaw: 225, Pitch: 50, Ambient: 0.35}
}

// Direction returns the normalized vector pointing toward the sun.
func (s Sun) Direction() [3]float32 {
	return SunDirection(s.Yaw, s.Pitch)
}

// SunDirection converts yaw/pitch angles in degrees to a light direction
// vector. Yaw is rotation around the y axis, pitch is elevation from the
// horizon. Returns a normalized direction vector pointing towards the sun.
func SunDirection(yaw, pitch float32) [3]float32 {
	yawRad := float64(yaw) * math.Pi / 180.0
	pitchRad := float64(pitch) * math.Pi / 180.0

	x := float32(math.Cos(pitchRad) * math.Sin(yawRad))
	y := float32(math.Sin(pitchRad))
	z := float32(math.Cos(pitchRad) * math.Cos(yawRad))

	return [3]float32{x, y, z}
}
