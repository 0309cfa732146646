// terrainview samples seamless noise onto a periodic triangulated heightfield
// and renders maps and raycast views of it.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/trigterrain/internal/config"
	"github.com/Faultbox/trigterrain/internal/logger"
	"github.com/Faultbox/trigterrain/internal/render"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	case "info", "height", "normal", "view", "shade", "all", "config":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if command == "config" {
		if err := cmdConfig(cfg, args); err != nil {
			logger.Error("config failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := newScene(cfg)
	if err != nil {
		logger.Fatal("failed to build terrain", zap.Error(err))
	}

	switch command {
	case "info":
		err = cmdInfo(os.Stdout, s)
	case "height":
		err = cmdHeight(ctx, s, args)
	case "normal":
		err = cmdNormal(ctx, s, args)
	case "view":
		err = cmdView(ctx, s, args)
	case "shade":
		err = cmdShade(ctx, s, args)
	case "all":
		err = cmdAll(ctx, s, args)
	}
	if err != nil {
		logger.Error(command+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terrainview - periodic triangulated terrain renderer

Usage:
  terrainview [flags] <command> [options]

Commands:
  info                         Show grid and height statistics
  height [-diff] <out.png>     Render the height map (and the noise source)
  normal <out.png>             Render the sun-lit normal map
  view <out.png>               Raycast the terrain from the camera
  shade <out.png>              Raycast with sun shading and shadows
  all <out.png>                Render every image next to out.png
  config [-save] [path]        Print the effective configuration, or save it
                               to path or (-save) the user config directory

Images are written as PNG or BMP depending on the extension.

Flags:
  -config <path>   Config file (default $TERRAINVIEW_CONFIG, then ./terrainview.yaml)
  -debug           Enable debug logging
  -seed <n>        Noise seed
  -res <r>         Grid resolution
  -width <px>      Output width
  -height <px>     Output height
  -workers <n>     Render worker limit
  -log-file <path> Also write logs to this file

Examples:
  terrainview info
  terrainview -seed 7 height -diff out/map.png
  terrainview -width 1280 -height 720 shade out/view.png`)
}

func outputPath(fs *flag.FlagSet, usage string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("usage: terrainview %s", usage)
	}
	return fs.Arg(0), nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	fs.Parse(args)

	switch {
	case fs.NArg() > 0:
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("path", fs.Arg(0)))
	case *save:
		if err := cfg.Save(); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	default:
		return cfg.Write(os.Stdout)
	}
	return nil
}

func cmdInfo(w io.Writer, s *scene) error {
	g := s.terrain.Geometry()
	dx, dy := g.Spacing()
	opts := s.caster.Options()

	// Grouped digits for large grids
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Tile:         %g x %g\n", g.TileX(), g.TileY())
	p.Fprintf(w, "Grid:         %d cols x %d rows (%d vertices, %d triangles)\n",
		g.Cols(), g.Rows(), s.terrain.Len(), 2*s.terrain.Len())
	p.Fprintf(w, "Spacing:      dx %.6f, row %.6f\n", dx, dy)
	p.Fprintf(w, "Height:       [%.6f, %.6f]\n", s.caster.MinHeight(), s.caster.MaxHeight())
	p.Fprintf(w, "Max gradient: %.6f\n", s.caster.MaxGradient())
	_, err := p.Fprintf(w, "Raycast:      epsilon %g, max distance %g\n", opts.Epsilon, opts.MaxDist)
	return err
}

func cmdHeight(ctx context.Context, s *scene, args []string) error {
	fs := flag.NewFlagSet("height", flag.ExitOnError)
	diff := fs.Bool("diff", false, "Also write the field-vs-source difference image")
	fs.Parse(args)

	out, err := outputPath(fs, "height [-diff] <out.png>")
	if err != nil {
		return err
	}
	return renderHeight(ctx, s, out, *diff)
}

func renderHeight(ctx context.Context, s *scene, out string, diff bool) error {
	m := s.topDown()

	img, err := s.renderer.Heightmap(ctx, m, s.terrain)
	if err != nil {
		return err
	}
	if err := s.save(out, img); err != nil {
		return err
	}

	src, err := s.renderer.Source(ctx, m, s.terrain, s.source.Height)
	if err != nil {
		return err
	}
	if err := s.save(render.SiblingPath(out, "src"), src); err != nil {
		return err
	}

	if !diff {
		return nil
	}
	dimg, worst, err := s.renderer.Difference(ctx, m, s.terrain, s.source.Height)
	if err != nil {
		return err
	}
	logger.Info("interpolation error", zap.Float64("max_abs", worst))
	return s.save(render.SiblingPath(out, "diff"), dimg)
}

func cmdNormal(ctx context.Context, s *scene, args []string) error {
	fs := flag.NewFlagSet("normal", flag.ExitOnError)
	fs.Parse(args)

	out, err := outputPath(fs, "normal <out.png>")
	if err != nil {
		return err
	}
	return renderNormal(ctx, s, out)
}

func renderNormal(ctx context.Context, s *scene, out string) error {
	img, err := s.renderer.Normals(ctx, s.topDown(), s.shader)
	if err != nil {
		return err
	}
	return s.save(out, img)
}

func cmdView(ctx context.Context, s *scene, args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Parse(args)

	out, err := outputPath(fs, "view <out.png>")
	if err != nil {
		return err
	}
	return renderView(ctx, s, out)
}

func renderView(ctx context.Context, s *scene, out string) error {
	cam, err := s.camera()
	if err != nil {
		return err
	}
	img, hits, err := s.renderer.View(ctx, cam, s.caster)
	if err != nil {
		return err
	}
	reportHits("view", hits)
	return s.save(out, img)
}

func cmdShade(ctx context.Context, s *scene, args []string) error {
	fs := flag.NewFlagSet("shade", flag.ExitOnError)
	fs.Parse(args)

	out, err := outputPath(fs, "shade <out.png>")
	if err != nil {
		return err
	}
	return renderShade(ctx, s, out)
}

func renderShade(ctx context.Context, s *scene, out string) error {
	cam, err := s.camera()
	if err != nil {
		return err
	}
	img, hits, err := s.renderer.Shaded(ctx, cam, s.caster, s.shader)
	if err != nil {
		return err
	}
	reportHits("shaded view", hits)
	return s.save(out, img)
}

// reportHits logs how many pixels hit the terrain; none usually means the
// camera looks away from it.
func reportHits(name string, hits int) {
	if hits == 0 {
		logger.Warn(name+" missed the terrain", zap.String("hint", "check camera position and target"))
		return
	}
	logger.Info(name+" rendered", zap.Int("hits", hits))
}

func cmdAll(ctx context.Context, s *scene, args []string) error {
	fs := flag.NewFlagSet("all", flag.ExitOnError)
	fs.Parse(args)

	out, err := outputPath(fs, "all <out.png>")
	if err != nil {
		return err
	}

	if err := renderHeight(ctx, s, out, true); err != nil {
		return err
	}
	if err := renderNormal(ctx, s, render.SiblingPath(out, "nrm")); err != nil {
		return err
	}
	if err := renderView(ctx, s, render.SiblingPath(out, "ray")); err != nil {
		return err
	}
	return renderShade(ctx, s, render.SiblingPath(out, "shd"))
}

func (s *scene) save(path string, img image.Image) error {
	if err := render.Save(path, s.finish(img)); err != nil {
		return err
	}
	logger.Info("wrote image", zap.String("path", path))
	return nil
}
