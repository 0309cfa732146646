package camera

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/trigterrain/pkg/math"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestNewErrors(t *testing.T) {
	eye := math.Vec3{X: 0, Y: -5, Z: 3}
	target := math.Vec3{}

	tests := []struct {
		name    string
		eye     math.Vec3
		target  math.Vec3
		fov     float64
		w, h    int
		wantErr error
	}{
		{"same point", eye, eye, 60, 10, 10, ErrDegenerateView},
		{"straight down", math.Vec3{Z: 5}, math.Vec3{}, 60, 10, 10, ErrDegenerateView},
		{"nan eye", math.Vec3{X: gomath.NaN()}, target, 60, 10, 10, ErrDegenerateView},
		{"zero fov", eye, target, 0, 10, 10, ErrInvalidFOV},
		{"flat fov", eye, target, 180, 10, 10, ErrInvalidFOV},
		{"empty image", eye, target, 60, 0, 10, ErrInvalidViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.eye, tt.target, tt.fov, tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCenterRayHitsTarget(t *testing.T) {
	eye := math.Vec3{X: 1, Y: -4, Z: 2}
	target := math.Vec3{X: 2, Y: 3, Z: 0}
	cam, err := New(eye, target, 70, 200, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	origin, dir := cam.Ray(100, 50)
	if diff := cmp.Diff(eye, origin); diff != "" {
		t.Errorf("origin mismatch (-want +got):\n%s", diff)
	}
	want := target.Sub(eye).Normalize()
	if diff := cmp.Diff(want, dir, approx); diff != "" {
		t.Errorf("center direction mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, cam.Forward(), approx); diff != "" {
		t.Errorf("forward mismatch (-want +got):\n%s", diff)
	}
}

func TestImageOrientation(t *testing.T) {
	// Looking along +y: image right is +x, image top is +z.
	cam, err := New(math.Vec3{Z: 1}, math.Vec3{Y: 10, Z: 1}, 90, 100, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, right := cam.Ray(100, 50)
	if right.X <= 0 {
		t.Errorf("right edge ray %v does not point to +x", right)
	}
	_, top := cam.Ray(50, 0)
	if top.Z <= 0 {
		t.Errorf("top edge ray %v does not point up", top)
	}

	// 90 degree horizontal fov: edge rays are 45 degrees off axis.
	if got := gomath.Atan2(right.X, right.Y); gomath.Abs(got-gomath.Pi/4) > 1e-9 {
		t.Errorf("right edge angle = %g, want pi/4", got)
	}
}

func TestRaysAreUnit(t *testing.T) {
	cam, err := New(math.Vec3{X: -2, Y: -2, Z: 3}, math.Vec3{X: 4, Y: 4}, 60, 32, 24)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, h := cam.Size()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			_, dir := cam.PixelRay(col, row)
			if l := dir.Length(); gomath.Abs(l-1) > 1e-12 {
				t.Fatalf("PixelRay(%d, %d) length %g", col, row, l)
			}
		}
	}
}

func TestProjectInvertsRay(t *testing.T) {
	cam, err := New(math.Vec3{X: -2, Y: -2, Z: 3}, math.Vec3{X: 4, Y: 4}, 60, 64, 48)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, px := range [][2]float64{{0.5, 0.5}, {32, 24}, {63.5, 10}, {5, 47.5}} {
		origin, dir := cam.Ray(px[0], px[1])
		x, y, ok := cam.Project(origin.Add(dir.Scale(7.5)))
		if !ok {
			t.Fatalf("Project failed for pixel %v", px)
		}
		if gomath.Abs(x-px[0]) > 1e-9 || gomath.Abs(y-px[1]) > 1e-9 {
			t.Errorf("Project(Ray(%v)) = (%g, %g)", px, x, y)
		}
	}

	if _, _, ok := cam.Project(cam.Eye().Sub(cam.Forward())); ok {
		t.Error("Project accepted a point behind the camera")
	}
}
