package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/trigterrain/internal/camera"
	"github.com/Faultbox/trigterrain/internal/lighting"
	"github.com/Faultbox/trigterrain/pkg/field"
	"github.com/Faultbox/trigterrain/pkg/math"
)

var (
	// Sky is the color of pixels whose ray leaves the terrain.
	Sky = color.RGBA{R: 21, G: 148, B: 207, A: 255}
	// Grass is the fully lit ground color of shaded views.
	Grass = color.RGBA{R: 53, G: 115, B: 42, A: 255}
)

// View renders the terrain through cam, coloring hits by height and misses
// with Sky. It returns the number of pixels whose ray hit the terrain.
func (r *Renderer) View(ctx context.Context, cam *camera.Camera, caster *field.Raycaster) (*image.RGBA, int, error) {
	norm := normalizer(caster.MinHeight(), caster.MaxHeight())
	return r.cast(ctx, "view", cam, caster, func(hit math.Vec3) color.RGBA {
		v := unit8(norm(hit.Z))
		return color.RGBA{R: v, G: v, B: v, A: 255}
	})
}

// Shaded renders the terrain through cam lit by the shader's sun, with
// raycast shadows. It returns the number of pixels whose ray hit the terrain.
func (r *Renderer) Shaded(ctx context.Context, cam *camera.Camera, caster *field.Raycaster, s *lighting.Shader) (*image.RGBA, int, error) {
	return r.cast(ctx, "shade", cam, caster, func(hit math.Vec3) color.RGBA {
		return scale(Grass, s.Shade(hit))
	})
}

func (r *Renderer) cast(ctx context.Context, name string, cam *camera.Camera, caster *field.Raycaster, paint func(math.Vec3) color.RGBA) (*image.RGBA, int, error) {
	width, height := cam.Size()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	var hits atomic.Int64
	err := r.rows(ctx, name, img.Bounds(), func(row int) error {
		n := 0
		for col := 0; col < width; col++ {
			hit, ok := caster.Cast(cam.PixelRay(col, row))
			if !ok {
				img.SetRGBA(col, row, Sky)
				continue
			}
			n++
			img.SetRGBA(col, row, paint(hit))
		}
		hits.Add(int64(n))
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	r.log.Debug("raycast coverage",
		zap.String("image", name),
		zap.Int64("hits", hits.Load()),
		zap.Int("pixels", width*height),
	)
	return img, int(hits.Load()), nil
}

func scale(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: unit8(float64(c.R) / 255 * f),
		G: unit8(float64(c.G) / 255 * f),
		B: unit8(float64(c.B) / 255 * f),
		A: c.A,
	}
}
