package field

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// ErrInvalidRaycastOptions is returned for a non-positive epsilon or max
// distance.
var ErrInvalidRaycastOptions = errors.New("invalid raycast options")

// RaycastOptions tunes the raymarcher.
type RaycastOptions struct {
	// Epsilon is the minimum forward step.
	Epsilon float64 `yaml:"epsilon"`
	// MaxDist caps the ray parameter at which marching stops.
	MaxDist float64 `yaml:"max_dist"`
}

// DefaultRaycastOptions returns epsilon 1e-5 and a max distance of 1000.
func DefaultRaycastOptions() RaycastOptions {
	return RaycastOptions{
		Epsilon: 1e-5,
		MaxDist: 1000,
	}
}

// Validate checks that both options are finite and positive.
func (o RaycastOptions) Validate() error {
	if !positive(o.Epsilon) {
		return fmt.Errorf("%w: epsilon %g", ErrInvalidRaycastOptions, o.Epsilon)
	}
	if !positive(o.MaxDist) {
		return fmt.Errorf("%w: max_dist %g", ErrInvalidRaycastOptions, o.MaxDist)
	}
	return nil
}

// Raycaster answers ray/surface queries against a terrain. The bounds it
// precomputes are only valid while the terrain is unchanged; since fields are
// immutable that is for the terrain's whole life. Cast is safe for concurrent
// use.
type Raycaster struct {
	terrain *Terrain
	opts    RaycastOptions

	minHeight   float64
	maxHeight   float64
	maxGradient float64
}

// Raycaster precomputes the height bounds and slope bound of the terrain.
func (t *Terrain) Raycaster(opts RaycastOptions) (*Raycaster, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Raycaster{
		terrain:     t,
		opts:        opts,
		minHeight:   t.MinHeight(),
		maxHeight:   t.MaxHeight(),
		maxGradient: t.MaxGradient(),
	}, nil
}

// Terrain returns the surface being cast against.
func (r *Raycaster) Terrain() *Terrain { return r.terrain }

// Options returns the marching options.
func (r *Raycaster) Options() RaycastOptions { return r.opts }

// MinHeight returns the lowest terrain sample.
func (r *Raycaster) MinHeight() float64 { return r.minHeight }

// MaxHeight returns the highest terrain sample.
func (r *Raycaster) MaxHeight() float64 { return r.maxHeight }

// MaxGradient returns the terrain slope bound used for cone stepping.
func (r *Raycaster) MaxGradient() float64 { return r.maxGradient }

// Cast returns the first point where origin + t*dir, t > 0, meets the
// surface. ok is false when the ray leaves the height slab or exceeds the
// max distance without hitting.
func (r *Raycaster) Cast(origin, dir math.Vec3) (hit math.Vec3, ok bool) {
	hit, ok, _ = r.march(origin, dir)
	return hit, ok
}

// march is Cast that also reports the number of steps taken.
func (r *Raycaster) march(origin, dir math.Vec3) (math.Vec3, bool, int) {
	start, end, ok := r.bracket(origin, dir)
	if !ok {
		return math.Vec3{}, false, 0
	}

	eps := r.opts.Epsilon
	dirXY := dir.XY()
	// Reciprocal of the fastest rate at which the ray can close in on a
	// surface with slope at most maxGradient.
	coneOpening := 1 / (gomath.Abs(dir.Z) + r.maxGradient*dirXY.Length())

	steps := 0
	for advanced := start; advanced <= end; {
		steps++
		current := origin.Add(dir.Scale(advanced))

		tri, w := locate(r.terrain.geom.ToSquare(current.XY()))
		verts := r.terrain.vertices(tri)

		if t, hit := intersectTriangle(origin, dir, verts); hit && t <= end+eps {
			return origin.Add(dir.Scale(t)), true, steps
		}

		height := verts[0].Z*w[0] + verts[1].Z*w[1] + verts[2].Z*w[2]
		delta := coneOpening * gomath.Abs(height-current.Z)

		// The ray missed this triangle, so nothing in its prism can stop
		// it: skip to where the ray leaves the prism.
		flat := [3]math.Vec2{verts[0].XY(), verts[1].XY(), verts[2].XY()}
		if exit, found := prismExit(current.XY(), dirXY, flat); found && exit > delta {
			delta = exit
		}

		next := advanced + gomath.Max(delta, eps)
		if next <= advanced {
			// epsilon below the float resolution at this distance
			break
		}
		advanced = next
	}
	return math.Vec3{}, false, steps
}

// bracket returns the ray parameters between which the ray is inside the
// slab minHeight <= z <= maxHeight, clamped to [epsilon, maxDist].
func (r *Raycaster) bracket(origin, dir math.Vec3) (start, end float64, ok bool) {
	if !origin.IsFinite() || !dir.IsFinite() || dir == (math.Vec3{}) {
		return 0, 0, false
	}

	var iMin, iMax float64
	if dir.Z == 0 {
		if origin.Z < r.minHeight || origin.Z > r.maxHeight {
			return 0, 0, false
		}
		iMin, iMax = gomath.Inf(-1), gomath.Inf(1)
	} else {
		iMin = (r.minHeight - origin.Z) / dir.Z
		iMax = (r.maxHeight - origin.Z) / dir.Z
		if iMin <= 0 && iMax <= 0 {
			// moving away from the slab
			return 0, 0, false
		}
	}

	start = gomath.Max(r.opts.Epsilon, gomath.Min(iMin, iMax))
	end = gomath.Min(gomath.Max(iMin, iMax), r.opts.MaxDist)
	return start, end, start <= end
}
