// Package camera provides a pinhole camera that turns output pixels into
// world-space rays. World space is z-up.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/trigterrain/pkg/math"
)

var (
	// ErrDegenerateView is returned when eye and target coincide or the view
	// direction is vertical, which leaves the image orientation undefined.
	ErrDegenerateView = errors.New("degenerate camera view")
	// ErrInvalidFOV is returned for a field of view outside (0, 180) degrees.
	ErrInvalidFOV = errors.New("invalid field of view")
	// ErrInvalidViewport is returned for an empty image.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// Camera looks from an eye point at a target.
type Camera struct {
	eye    math.Vec3
	basis  math.Mat3 // right, up, forward
	width  int
	height int
	tanX   float64 // tan(fov/2)
	tanY   float64
}

// New creates a camera for a width x height image. fov is the horizontal
// field of view in degrees; the vertical one follows from the aspect ratio.
func New(eye, target math.Vec3, fov float64, width, height int) (*Camera, error) {
	if !eye.IsFinite() || !target.IsFinite() {
		return nil, fmt.Errorf("%w: eye %v target %v", ErrDegenerateView, eye, target)
	}
	if !(fov > 0 && fov < 180) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidFOV, fov)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}

	basis, ok := math.LookAt(eye, target, math.UnitZ)
	if !ok {
		return nil, fmt.Errorf("%w: eye %v target %v", ErrDegenerateView, eye, target)
	}

	tanX := gomath.Tan(fov * gomath.Pi / 360)
	return &Camera{
		eye:    eye,
		basis:  basis,
		width:  width,
		height: height,
		tanX:   tanX,
		tanY:   tanX * float64(height) / float64(width),
	}, nil
}

// Eye returns the camera position.
func (c *Camera) Eye() math.Vec3 { return c.eye }

// Forward returns the unit view direction.
func (c *Camera) Forward() math.Vec3 { return c.basis[2] }

// Size returns the image dimensions.
func (c *Camera) Size() (width, height int) { return c.width, c.height }

// Ray returns the ray through image position (x, y), in pixels from the
// top-left corner. The direction is unit length.
func (c *Camera) Ray(x, y float64) (origin, dir math.Vec3) {
	// Image plane at unit distance, y flipped so row 0 is the top
	sx := (2*x/float64(c.width) - 1) * c.tanX
	sy := (1 - 2*y/float64(c.height)) * c.tanY
	dir = c.basis.MulVec(math.Vec3{X: sx, Y: sy, Z: 1}).Normalize()
	return c.eye, dir
}

// PixelRay returns the ray through the center of pixel (col, row).
func (c *Camera) PixelRay(col, row int) (origin, dir math.Vec3) {
	return c.Ray(float64(col)+0.5, float64(row)+0.5)
}

// Project maps a world point to image position. ok is false for points at or
// behind the eye plane.
func (c *Camera) Project(p math.Vec3) (x, y float64, ok bool) {
	d := p.Sub(c.eye)
	depth := d.Dot(c.basis[2])
	if depth <= 0 {
		return 0, 0, false
	}
	sx := d.Dot(c.basis[0]) / depth
	sy := d.Dot(c.basis[1]) / depth
	x = (sx/c.tanX + 1) * float64(c.width) / 2
	y = (1 - sy/c.tanY) * float64(c.height) / 2
	return x, y, true
}
