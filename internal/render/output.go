package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned by Save for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Save encodes img to path as PNG or BMP depending on the extension, creating
// parent directories as needed.
func Save(path string, img image.Image) error {
	var encode func(*os.File, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = func(f *os.File, img image.Image) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// SiblingPath inserts tag before the extension of path:
// "out/map.png" with tag "nrm" becomes "out/map.nrm.png".
func SiblingPath(path, tag string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "." + tag + ext
}

// Downsample resamples src to width x height with a Catmull-Rom filter.
// Rendering at a multiple of the output size and downsampling antialiases
// silhouettes and shadow edges.
func Downsample(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
