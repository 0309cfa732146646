package noise

import (
	"errors"
	gomath "math"
	"math/rand"
	"testing"

	"github.com/Faultbox/trigterrain/pkg/math"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"no octaves", func(o *Options) { o.Octaves = 0 }},
		{"zero scale", func(o *Options) { o.Scale = 0 }},
		{"infinite scale", func(o *Options) { o.Scale = gomath.Inf(1) }},
		{"zero lacunarity", func(o *Options) { o.Lacunarity = 0 }},
		{"nan amplitude", func(o *Options) { o.Amplitude = gomath.NaN() }},
		{"infinite persistence", func(o *Options) { o.Persistence = gomath.Inf(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
}

func TestNewTorusRejectsBadTile(t *testing.T) {
	for _, tile := range [][2]float64{{0, 1}, {1, -1}, {gomath.Inf(1), 1}, {gomath.NaN(), 1}} {
		if _, err := NewTorus(tile[0], tile[1], DefaultOptions()); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("NewTorus(%v) error = %v, want ErrInvalidOptions", tile, err)
		}
	}
}

func TestTorusPeriodic(t *testing.T) {
	const tileX, tileY = 5.0, 3.0
	src, err := NewTorus(tileX, tileY, DefaultOptions())
	if err != nil {
		t.Fatalf("NewTorus: %v", err)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		p := math.Vec2{X: rng.Float64() * tileX, Y: rng.Float64() * tileY}
		h := src.Height(p)
		for _, shift := range []math.Vec2{{X: tileX}, {Y: tileY}, {X: -2 * tileX, Y: 3 * tileY}} {
			if got := src.Height(p.Add(shift)); gomath.Abs(got-h) > 1e-9 {
				t.Fatalf("Height(%v + %v) = %g, want %g", p, shift, got, h)
			}
		}
	}
}

func TestTorusDeterministic(t *testing.T) {
	a, _ := NewTorus(4, 4, DefaultOptions())
	b, _ := NewTorus(4, 4, DefaultOptions())

	other := DefaultOptions()
	other.Seed = 2
	c, _ := NewTorus(4, 4, other)

	differs := false
	for i := 0; i < 50; i++ {
		p := math.Vec2{X: float64(i) * 0.37, Y: float64(i) * 0.11}
		if a.Height(p) != b.Height(p) {
			t.Fatalf("same seed differs at %v", p)
		}
		if a.Height(p) != c.Height(p) {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds produced identical heights")
	}
}

func TestTorusAmplitudeBound(t *testing.T) {
	for _, ridged := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Amplitude = 2
		opts.Ridged = ridged
		src, err := NewTorus(6, 6, opts)
		if err != nil {
			t.Fatalf("NewTorus: %v", err)
		}

		lo, hi := gomath.Inf(1), gomath.Inf(-1)
		for i := 0; i < 60; i++ {
			for j := 0; j < 60; j++ {
				h := src.Height(math.Vec2{X: float64(i) * 0.1, Y: float64(j) * 0.1})
				if gomath.IsNaN(h) || gomath.Abs(h) > opts.Amplitude*1.05 {
					t.Fatalf("ridged=%v: height %g outside [-%g, %g]", ridged, h, opts.Amplitude, opts.Amplitude)
				}
				lo, hi = gomath.Min(lo, h), gomath.Max(hi, h)
			}
		}
		if hi-lo < 1e-3 {
			t.Errorf("ridged=%v: noise is flat, range [%g, %g]", ridged, lo, hi)
		}
	}
}
