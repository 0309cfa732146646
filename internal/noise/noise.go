// Package noise provides seamless fractal height sources for periodic tiles.
//
// A tile point (x, y) is mapped onto a torus embedded in 4-D
// (cos φ, sin φ, cos ψ, sin ψ) with φ = 2πx/tileX and ψ = 2πy/tileY, and
// OpenSimplex noise is evaluated there, so both tile edges wrap with no seam.
package noise

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// ErrInvalidOptions is returned for options that produce no usable source.
var ErrInvalidOptions = errors.New("invalid noise options")

// Options configures the fractal sum.
type Options struct {
	Seed        int64   `yaml:"seed"`
	Scale       float64 `yaml:"scale"` // Base features per tile edge
	Amplitude   float64 `yaml:"amplitude"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"` // Amplitude ratio between octaves
	Lacunarity  float64 `yaml:"lacunarity"`  // Frequency ratio between octaves
	Ridged      bool    `yaml:"ridged"`      // Fold the sum into sharp crests
}

// DefaultOptions returns four octaves of halving amplitude.
func DefaultOptions() Options {
	return Options{
		Seed:        1,
		Scale:       3,
		Amplitude:   0.8,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Validate checks that the options describe a finite fractal sum.
func (o Options) Validate() error {
	if o.Octaves < 1 {
		return fmt.Errorf("%w: octaves %d", ErrInvalidOptions, o.Octaves)
	}
	if !(o.Scale > 0) || gomath.IsInf(o.Scale, 0) {
		return fmt.Errorf("%w: scale %g", ErrInvalidOptions, o.Scale)
	}
	if !(o.Lacunarity > 0) || gomath.IsInf(o.Lacunarity, 0) {
		return fmt.Errorf("%w: lacunarity %g", ErrInvalidOptions, o.Lacunarity)
	}
	if gomath.IsNaN(o.Amplitude) || gomath.IsInf(o.Amplitude, 0) ||
		gomath.IsNaN(o.Persistence) || gomath.IsInf(o.Persistence, 0) {
		return fmt.Errorf("%w: amplitude %g persistence %g", ErrInvalidOptions, o.Amplitude, o.Persistence)
	}
	return nil
}

type octave struct {
	noise  opensimplex.Noise
	radius float64
	weight float64
}

// Torus is a fractal noise height source periodic in a tileX by tileY
// rectangle. It is safe for concurrent use.
type Torus struct {
	tileX, tileY float64
	octaves      []octave
	amplitude    float64
	ridged       bool
}

// NewTorus builds a source for the given tile. Each octave gets its own seed
// derived from opts.Seed so octaves do not correlate.
func NewTorus(tileX, tileY float64, opts Options) (*Torus, error) {
	if !(tileX > 0) || !(tileY > 0) || gomath.IsInf(tileX, 0) || gomath.IsInf(tileY, 0) {
		return nil, fmt.Errorf("%w: tile %gx%g", ErrInvalidOptions, tileX, tileY)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	octaves := make([]octave, opts.Octaves)
	freq, amp, total := opts.Scale, 1.0, 0.0
	for i := range octaves {
		octaves[i] = octave{
			noise:  opensimplex.New(opts.Seed + int64(i)*7919),
			radius: freq / (2 * gomath.Pi),
			weight: amp,
		}
		total += gomath.Abs(amp)
		freq *= opts.Lacunarity
		amp *= opts.Persistence
	}
	if total > 0 {
		for i := range octaves {
			octaves[i].weight *= opts.Amplitude / total
		}
	}

	return &Torus{
		tileX:     tileX,
		tileY:     tileY,
		octaves:   octaves,
		amplitude: gomath.Abs(opts.Amplitude),
		ridged:    opts.Ridged,
	}, nil
}

// Height returns the noise value at p, within [-Amplitude, Amplitude].
func (t *Torus) Height(p math.Vec2) float64 {
	sx, cx := gomath.Sincos(2 * gomath.Pi * p.X / t.tileX)
	sy, cy := gomath.Sincos(2 * gomath.Pi * p.Y / t.tileY)

	h := 0.0
	for _, o := range t.octaves {
		h += o.weight * o.noise.Eval4(cx*o.radius, sx*o.radius, cy*o.radius, sy*o.radius)
	}
	if t.ridged {
		// 1 - |n| mapped back onto the amplitude range
		return t.amplitude - 2*gomath.Abs(h)
	}
	return h
}
