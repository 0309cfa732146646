package lighting

import (
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/trigterrain/pkg/field"
	"github.com/Faultbox/trigterrain/pkg/math"
)

func TestSunDirection(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	tests := []struct {
		azimuth, elevation float64
		want               math.Vec3
	}{
		{0, 0, math.Vec3{X: 1}},
		{90, 0, math.Vec3{Y: 1}},
		{180, 0, math.Vec3{X: -1}},
		{0, 90, math.Vec3{Z: 1}},
		{45, 45, math.Vec3{X: 0.5, Y: 0.5, Z: gomath.Sqrt2 / 2}},
	}
	for _, tt := range tests {
		got := SunDirection(tt.azimuth, tt.elevation)
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("SunDirection(%g, %g) mismatch (-want +got):\n%s", tt.azimuth, tt.elevation, diff)
		}
		if l := got.Length(); gomath.Abs(l-1) > 1e-12 {
			t.Errorf("SunDirection(%g, %g) length %g", tt.azimuth, tt.elevation, l)
		}
	}
}

func flatShader(t *testing.T, sun Sun) *Shader {
	t.Helper()
	f, err := field.NewFilled(4, 4, 0.25, 0.0)
	if err != nil {
		t.Fatalf("NewFilled: %v", err)
	}
	caster, err := field.AsTerrain(f).Raycaster(field.DefaultRaycastOptions())
	if err != nil {
		t.Fatalf("Raycaster: %v", err)
	}
	return NewShader(caster, sun)
}

// ridge is a wall along y, periodic in x with period 4, peaking at x = 2.
func ridge(p math.Vec2) float64 {
	d := gomath.Abs(gomath.Mod(gomath.Mod(p.X, 4)+4, 4) - 2)
	return 2 * gomath.Max(0, 1-d/0.6)
}

func ridgeShader(t *testing.T, sun Sun) *Shader {
	t.Helper()
	tr, err := field.NewTerrain(4, 4, 0.25, ridge)
	if err != nil {
		t.Fatalf("NewTerrain: %v", err)
	}
	caster, err := tr.Raycaster(field.DefaultRaycastOptions())
	if err != nil {
		t.Fatalf("Raycaster: %v", err)
	}
	return NewShader(caster, sun)
}

func TestShadeFlat(t *testing.T) {
	for _, elevation := range []float64{90, 60, 30, 5} {
		sun := Sun{Azimuth: 20, Elevation: elevation, Ambient: 0.2, Bias: 1e-3}
		s := flatShader(t, sun)

		hit := math.Vec3{X: 1.3, Y: 2.1}
		want := 0.2 + 0.8*gomath.Sin(elevation*gomath.Pi/180)
		if got := s.Shade(hit); gomath.Abs(got-want) > 1e-9 {
			t.Errorf("elevation %g: Shade = %g, want %g", elevation, got, want)
		}
		if got := s.Diffuse(hit.XY()); gomath.Abs(got-want) > 1e-9 {
			t.Errorf("elevation %g: Diffuse = %g, want %g", elevation, got, want)
		}
		if s.Occluded(hit) {
			t.Errorf("elevation %g: flat ground occluded", elevation)
		}
	}
}

func TestShadeSunBelowHorizon(t *testing.T) {
	s := flatShader(t, Sun{Elevation: -10, Ambient: 0.3})
	if got := s.Shade(math.Vec3{X: 1, Y: 1}); got != 0.3 {
		t.Errorf("Shade = %g, want ambient 0.3", got)
	}
}

func TestShadeRidgeShadow(t *testing.T) {
	hit := math.Vec3{X: 1, Y: 1.7}

	// Sun behind the ridge, low enough to be blocked by it.
	blocked := ridgeShader(t, Sun{Azimuth: 0, Elevation: 45, Ambient: 0.25, Bias: 1e-3})
	if !blocked.Occluded(hit) {
		t.Error("expected the ridge to shadow the point")
	}
	if got := blocked.Shade(hit); got != 0.25 {
		t.Errorf("shadowed Shade = %g, want ambient 0.25", got)
	}

	// Sun on the open side, high enough to clear the next ridge.
	open := ridgeShader(t, Sun{Azimuth: 180, Elevation: 60, Ambient: 0.25, Bias: 1e-3})
	if open.Occluded(hit) {
		t.Error("expected the point to be lit")
	}
	want := 0.25 + 0.75*gomath.Sin(gomath.Pi/3)
	if got := open.Shade(hit); gomath.Abs(got-want) > 1e-9 {
		t.Errorf("lit Shade = %g, want %g", got, want)
	}
}

func TestAmbientClamped(t *testing.T) {
	s := flatShader(t, Sun{Elevation: 90, Ambient: 3})
	if got := s.Shade(math.Vec3{}); got != 1 {
		t.Errorf("Shade = %g, want 1", got)
	}
}
