// Package lighting shades terrain under a directional sun with raycast
// shadows.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// Sun is a directional light. Angles are in degrees.
type Sun struct {
	Azimuth   float64 `yaml:"azimuth"`   // Counter-clockwise from +x
	Elevation float64 `yaml:"elevation"` // Above the horizon
	Ambient   float64 `yaml:"ambient"`   // Irradiance floor in [0, 1]
	Bias      float64 `yaml:"bias"`      // Shadow ray lift along the surface normal
}

// DefaultSun returns a late-afternoon sun from the north-west.
func DefaultSun() Sun {
	return Sun{
		Azimuth:   135,
		Elevation: 35,
		Ambient:   0.25,
		Bias:      1e-3,
	}
}

// Direction returns the unit vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	return SunDirection(s.Azimuth, s.Elevation)
}

// SunDirection converts azimuth/elevation angles to a unit direction vector
// pointing towards the sun in z-up world space.
func SunDirection(azimuth, elevation float64) math.Vec3 {
	az := azimuth * gomath.Pi / 180
	el := elevation * gomath.Pi / 180

	// Spherical to Cartesian, elevation measured from the xy plane
	sinAz, cosAz := gomath.Sincos(az)
	sinEl, cosEl := gomath.Sincos(el)
	return math.Vec3{X: cosEl * cosAz, Y: cosEl * sinAz, Z: sinEl}
}
