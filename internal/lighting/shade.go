package lighting

import (
	gomath "math"

	"github.com/Faultbox/trigterrain/pkg/field"
	"github.com/Faultbox/trigterrain/pkg/math"
)

// Shader computes irradiance on a terrain. It holds no mutable state and is
// safe for concurrent use.
type Shader struct {
	caster  *field.Raycaster
	sun     math.Vec3
	ambient float64
	bias    float64
}

// NewShader creates a shader that tests shadows with caster.
func NewShader(caster *field.Raycaster, sun Sun) *Shader {
	return &Shader{
		caster:  caster,
		sun:     sun.Direction(),
		ambient: gomath.Min(gomath.Max(sun.Ambient, 0), 1),
		bias:    sun.Bias,
	}
}

// SunDirection returns the unit vector towards the sun.
func (s *Shader) SunDirection() math.Vec3 { return s.sun }

// Lambert returns the cosine between the surface normal at p and the sun,
// clamped at zero. Shadows are ignored.
func (s *Shader) Lambert(p math.Vec2) float64 {
	return gomath.Max(0, s.caster.Terrain().Normal(p).Dot(s.sun))
}

// Diffuse returns ambient plus unshadowed Lambert irradiance at p.
func (s *Shader) Diffuse(p math.Vec2) float64 {
	return s.ambient + (1-s.ambient)*s.Lambert(p)
}

// Occluded reports whether the sun is blocked as seen from surface point hit.
func (s *Shader) Occluded(hit math.Vec3) bool {
	n := s.caster.Terrain().Normal(hit.XY())
	origin := hit.Add(n.Scale(s.bias))
	_, blocked := s.caster.Cast(origin, s.sun)
	return blocked
}

// Shade returns the irradiance at surface point hit in [ambient, 1]. A point
// facing away from the sun or in the shadow of other terrain gets ambient only.
func (s *Shader) Shade(hit math.Vec3) float64 {
	lambert := s.Lambert(hit.XY())
	if lambert == 0 || s.Occluded(hit) {
		return s.ambient
	}
	return s.ambient + (1-s.ambient)*lambert
}
