package render

import (
	"context"
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/trigterrain/internal/lighting"
	"github.com/Faultbox/trigterrain/pkg/field"
	"github.com/Faultbox/trigterrain/pkg/math"
)

// Map places a top-down image on the xy plane. Pixel (0, 0) is the top-left
// corner and the image's bottom edge lies on y = 0.
type Map struct {
	Width  int
	Height int
	Scale  float64 // Pixels per world unit
}

// Bounds returns the image rectangle.
func (m Map) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Point returns the world position under the center of pixel (col, row).
func (m Map) Point(col, row int) math.Vec2 {
	return math.Vec2{
		X: (float64(col) + 0.5) / m.Scale,
		Y: (float64(m.Height-row) - 0.5) / m.Scale,
	}
}

// Gray renders fn, which should return values in [0, 1], into a grayscale
// image. Values outside the range are clamped.
func (r *Renderer) Gray(ctx context.Context, name string, m Map, fn func(math.Vec2) float64) (*image.Gray, error) {
	img := image.NewGray(m.Bounds())
	err := r.rows(ctx, name, img.Bounds(), func(row int) error {
		for col := 0; col < m.Width; col++ {
			img.SetGray(col, row, color.Gray{Y: unit8(fn(m.Point(col, row)))})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Heightmap renders terrain height, black at its minimum and white at its
// maximum.
func (r *Renderer) Heightmap(ctx context.Context, m Map, t *field.Terrain) (*image.Gray, error) {
	norm := normalizer(t.MinHeight(), t.MaxHeight())
	return r.Gray(ctx, "height", m, func(p math.Vec2) float64 {
		return norm(t.Value(p))
	})
}

// Source renders the continuous function a terrain was sampled from, using
// the terrain's height range so both images share a scale.
func (r *Renderer) Source(ctx context.Context, m Map, t *field.Terrain, src func(math.Vec2) float64) (*image.Gray, error) {
	norm := normalizer(t.MinHeight(), t.MaxHeight())
	return r.Gray(ctx, "source", m, func(p math.Vec2) float64 {
		return norm(src(p))
	})
}

// Difference renders |terrain - src| relative to the terrain's height range
// and returns the largest absolute difference seen at a pixel.
func (r *Renderer) Difference(ctx context.Context, m Map, t *field.Terrain, src func(math.Vec2) float64) (*image.Gray, float64, error) {
	span := t.MaxHeight() - t.MinHeight()
	if span == 0 {
		span = 1
	}

	img := image.NewGray(m.Bounds())
	rowMax := make([]float64, m.Height)
	err := r.rows(ctx, "difference", img.Bounds(), func(row int) error {
		for col := 0; col < m.Width; col++ {
			p := m.Point(col, row)
			d := gomath.Abs(t.Value(p) - src(p))
			rowMax[row] = gomath.Max(rowMax[row], d)
			img.SetGray(col, row, color.Gray{Y: unit8(d / span)})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	worst := 0.0
	for _, d := range rowMax {
		worst = gomath.Max(worst, d)
	}
	return img, worst, nil
}

// Normals renders the unshadowed Lambert term of the surface normal against
// the sun.
func (r *Renderer) Normals(ctx context.Context, m Map, s *lighting.Shader) (*image.Gray, error) {
	return r.Gray(ctx, "normal", m, s.Lambert)
}

// normalizer maps [lo, hi] onto [0, 1]. A flat range maps everything to 0.
func normalizer(lo, hi float64) func(float64) float64 {
	span := hi - lo
	if span == 0 {
		return func(float64) float64 { return 0 }
	}
	return func(v float64) float64 { return (v - lo) / span }
}

// unit8 scales [0, 1] to a byte, clamping out-of-range and NaN values.
func unit8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(gomath.Round(v * 255))
}
