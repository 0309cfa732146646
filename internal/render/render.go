// Package render rasterizes terrain queries into images. Rows are rendered
// in parallel; every query it issues is read-only on the terrain.
package render

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Renderer runs per-row image jobs on a bounded worker pool.
type Renderer struct {
	log     *zap.Logger
	workers int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for per-image timing at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithWorkers limits the number of rows rendered concurrently. Zero or less
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Workers returns the row concurrency limit.
func (r *Renderer) Workers() int { return r.workers }

// rows calls fn for every row of bounds. It stops scheduling rows once
// ctx is done or fn fails and returns the first error.
func (r *Renderer) rows(ctx context.Context, name string, bounds image.Rectangle, fn func(row int) error) error {
	start := time.Now()

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if gctx.Err() != nil {
			break
		}
		y := y // per-iteration copy; go.mod targets go 1.21 loop semantics
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(y); err != nil {
				return fmt.Errorf("rendering %s row %d: %w", name, y, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	// A cancelled parent leaves rows unrendered even without a failing row.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	r.log.Debug("rendered",
		zap.String("image", name),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
