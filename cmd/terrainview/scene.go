package main

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/trigterrain/internal/camera"
	"github.com/Faultbox/trigterrain/internal/config"
	"github.com/Faultbox/trigterrain/internal/lighting"
	"github.com/Faultbox/trigterrain/internal/logger"
	"github.com/Faultbox/trigterrain/internal/noise"
	"github.com/Faultbox/trigterrain/internal/render"
	"github.com/Faultbox/trigterrain/pkg/field"
)

// scene bundles everything the render commands need.
type scene struct {
	cfg      *config.Config
	source   *noise.Torus
	terrain  *field.Terrain
	caster   *field.Raycaster
	shader   *lighting.Shader
	renderer *render.Renderer
}

func newScene(cfg *config.Config) (*scene, error) {
	source, err := noise.NewTorus(cfg.Tile.X, cfg.Tile.Y, cfg.Noise)
	if err != nil {
		return nil, fmt.Errorf("noise source: %w", err)
	}

	terrain, err := field.NewTerrain(cfg.Tile.X, cfg.Tile.Y, cfg.Tile.Resolution, source.Height)
	if err != nil {
		return nil, fmt.Errorf("sampling terrain: %w", err)
	}

	caster, err := terrain.Raycaster(cfg.Raycast)
	if err != nil {
		return nil, fmt.Errorf("raycaster: %w", err)
	}

	g := terrain.Geometry()
	logger.Debug("terrain sampled",
		zap.Int("cols", g.Cols()),
		zap.Int("rows", g.Rows()),
		zap.Float64("min", caster.MinHeight()),
		zap.Float64("max", caster.MaxHeight()),
		zap.Float64("max_gradient", caster.MaxGradient()),
	)

	return &scene{
		cfg:     cfg,
		source:  source,
		terrain: terrain,
		caster:  caster,
		shader:  lighting.NewShader(caster, cfg.Sun),
		renderer: render.New(
			render.WithLogger(logger.Named("render")),
			render.WithWorkers(cfg.Output.Workers),
		),
	}, nil
}

// topDown is the map layout for height and normal images, at the
// supersampled size.
func (s *scene) topDown() render.Map {
	ss := s.cfg.Output.Supersample
	return render.Map{
		Width:  s.cfg.Output.Width * ss,
		Height: s.cfg.Output.Height * ss,
		Scale:  s.cfg.Output.Scale * float64(ss),
	}
}

func (s *scene) camera() (*camera.Camera, error) {
	ss := s.cfg.Output.Supersample
	return camera.New(
		s.cfg.Camera.Eye(),
		s.cfg.Camera.LookAt(),
		s.cfg.Camera.FOV,
		s.cfg.Output.Width*ss,
		s.cfg.Output.Height*ss,
	)
}

// finish brings a supersampled image down to the output size.
func (s *scene) finish(img image.Image) image.Image {
	if s.cfg.Output.Supersample <= 1 {
		return img
	}
	return render.Downsample(img, s.cfg.Output.Width, s.cfg.Output.Height)
}
