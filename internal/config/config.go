// Package config handles terrainview configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/trigterrain/internal/lighting"
	"github.com/Faultbox/trigterrain/internal/logger"
	"github.com/Faultbox/trigterrain/internal/noise"
	"github.com/Faultbox/trigterrain/pkg/field"
	"github.com/Faultbox/trigterrain/pkg/math"
)

// ErrInvalidConfig is returned by Validate for settings no component accepts.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all terrainview settings.
type Config struct {
	Tile    TileConfig           `yaml:"tile"`
	Noise   noise.Options        `yaml:"noise"`
	Raycast field.RaycastOptions `yaml:"raycast"`
	Camera  CameraConfig         `yaml:"camera"`
	Sun     lighting.Sun         `yaml:"sun"`
	Output  OutputConfig         `yaml:"output"`
	Logging LoggingConfig        `yaml:"logging"`
}

// TileConfig holds the periodic tile size and grid resolution.
type TileConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Resolution float64 `yaml:"resolution"`
}

// CameraConfig holds the view camera settings.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	FOV      float64    `yaml:"fov"` // Horizontal, degrees
}

// Eye returns the camera position.
func (c CameraConfig) Eye() math.Vec3 {
	return math.Vec3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]}
}

// LookAt returns the point the camera looks at.
func (c CameraConfig) LookAt() math.Vec3 {
	return math.Vec3{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]}
}

// OutputConfig holds image output settings.
type OutputConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Scale       float64 `yaml:"scale"`       // Pixels per world unit for top-down maps
	Supersample int     `yaml:"supersample"` // Render at this multiple and downsample
	Workers     int     `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tile: TileConfig{
			X:          8,
			Y:          8,
			Resolution: 0.1,
		},
		Noise:   noise.DefaultOptions(),
		Raycast: field.DefaultRaycastOptions(),
		Camera: CameraConfig{
			Position: [3]float64{-2, -2, 3},
			Target:   [3]float64{4, 4, 0},
			FOV:      60,
		},
		Sun: lighting.DefaultSun(),
		Output: OutputConfig{
			Width:       640,
			Height:      480,
			Scale:       64,
			Supersample: 1,
			Workers:     0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that no component accepts.
func (c *Config) Validate() error {
	if !finitePositive(c.Tile.X) || !finitePositive(c.Tile.Y) {
		return fmt.Errorf("%w: tile %gx%g", ErrInvalidConfig, c.Tile.X, c.Tile.Y)
	}
	if !finitePositive(c.Tile.Resolution) {
		return fmt.Errorf("%w: resolution %g", ErrInvalidConfig, c.Tile.Resolution)
	}
	if _, err := field.NewGeometry(c.Tile.X, c.Tile.Y, c.Tile.Resolution); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Noise.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Raycast.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
		return fmt.Errorf("%w: fov %g", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Sun.Ambient < 0 || c.Sun.Ambient > 1 {
		return fmt.Errorf("%w: ambient %g", ErrInvalidConfig, c.Sun.Ambient)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("%w: output %dx%d", ErrInvalidConfig, c.Output.Width, c.Output.Height)
	}
	if !finitePositive(c.Output.Scale) {
		return fmt.Errorf("%w: output scale %g", ErrInvalidConfig, c.Output.Scale)
	}
	if c.Output.Supersample < 1 {
		return fmt.Errorf("%w: supersample %d", ErrInvalidConfig, c.Output.Supersample)
	}
	if c.Output.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Output.Workers)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func finitePositive(x float64) bool {
	return x > 0 && !gomath.IsInf(x, 1)
}
