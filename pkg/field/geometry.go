// Package field provides a periodic, triangulated interpolation field and a
// heightfield raymarcher over it.
//
// The domain is a tile of size TileX x TileY that wraps in both horizontal
// axes. Samples live on a triangular lattice whose rows are offset by half a
// column; in "square" coordinates that lattice becomes the unit grid and every
// unit cell splits along u+v=1 into a lower and an upper triangle.
package field

import (
	"errors"
	"fmt"
	gomath "math"

	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// Geometry errors.
var (
	ErrInvalidTile         = errors.New("tile dimensions must be finite and positive")
	ErrInvalidResolution   = errors.New("resolution must be finite and positive")
	ErrResolutionTooCoarse = errors.New("resolution too coarse for tile")
	ErrResolutionTooFine   = errors.New("resolution too fine for tile")
	ErrDegenerateTransform = errors.New("square coordinate transform is not invertible")
)

var sqrt3 = gomath.Sqrt(3)

// MaxVertices bounds the lattice size NewGeometry accepts.
const MaxVertices = 1 << 26

// Barycentric coordinate derivatives in square space, one column per triangle
// vertex, rows are d/du and d/dv.
var (
	// (v, u, 1-u-v)
	lowerIncidence = mat.NewDense(2, 3, []float64{
		0, 1, -1,
		1, 0, -1,
	})
	// (1-u, u+v-1, 1-v)
	upperIncidence = mat.NewDense(2, 3, []float64{
		-1, 1, 0,
		0, 1, -1,
	})
)

// Geometry is the immutable lattice description shared by every field built
// on the same tile.
type Geometry struct {
	tileX, tileY float64
	cols, rows   int

	fromSquare math.Mat2
	toSquare   math.Mat2

	lowerGrad math.Mat2x3
	upperGrad math.Mat2x3
}

// NewGeometry builds the lattice for a tile of tileX x tileY world units
// sampled approximately every res units.
func NewGeometry(tileX, tileY, res float64) (*Geometry, error) {
	if !positive(tileX) || !positive(tileY) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidTile, tileX, tileY)
	}
	if !positive(res) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidResolution, res)
	}

	// Checked in floating point, before the counts can overflow an int.
	if n := gomath.Floor(tileX/res) * 2 * gomath.Floor(tileY/(res*sqrt3)); n > MaxVertices {
		return nil, fmt.Errorf("%w: res %g gives %.3g vertices for %gx%g tile, limit %d",
			ErrResolutionTooFine, res, n, tileX, tileY, MaxVertices)
	}

	cols := int(tileX / res)
	// rows is kept even so that a vertical period is a whole number of
	// half-column shifts
	rows := int(tileY/(res*sqrt3)) * 2
	if cols < 1 || rows < 2 {
		return nil, fmt.Errorf("%w: res %g gives %dx%d lattice for %gx%g tile",
			ErrResolutionTooCoarse, res, cols, rows, tileX, tileY)
	}

	dx := tileX / float64(cols)
	dy := tileY * 2 / (sqrt3 * float64(rows))

	from := mat.NewDense(2, 2, []float64{
		dx, dx / 2,
		0, dy * sqrt3 / 2,
	})
	var to mat.Dense
	if err := to.Inverse(from); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateTransform, err)
	}

	// Barycentric gradients transform with the transpose of the inverse.
	var lower, upper mat.Dense
	lower.Mul(to.T(), lowerIncidence)
	upper.Mul(to.T(), upperIncidence)

	return &Geometry{
		tileX:      tileX,
		tileY:      tileY,
		cols:       cols,
		rows:       rows,
		fromSquare: denseToMat2(from),
		toSquare:   denseToMat2(&to),
		lowerGrad:  denseToMat2x3(&lower),
		upperGrad:  denseToMat2x3(&upper),
	}, nil
}

// Cols returns the number of lattice columns.
func (g *Geometry) Cols() int { return g.cols }

// Rows returns the number of lattice rows. Always even.
func (g *Geometry) Rows() int { return g.rows }

// TileX returns the tile width.
func (g *Geometry) TileX() float64 { return g.tileX }

// TileY returns the tile height.
func (g *Geometry) TileY() float64 { return g.tileY }

// Spacing returns the lattice step along x and the distance between rows.
func (g *Geometry) Spacing() (dx, dy float64) {
	return g.fromSquare.At(0, 0), g.fromSquare.At(1, 1)
}

// ToSquare maps a world position to square coordinates.
func (g *Geometry) ToSquare(p math.Vec2) math.Vec2 {
	return g.toSquare.MulVec(p)
}

// FromSquare maps square coordinates to a world position.
func (g *Geometry) FromSquare(s math.Vec2) math.Vec2 {
	return g.fromSquare.MulVec(s)
}

// Position returns the world position of lattice vertex (col, row) without
// wrapping it into the tile.
func (g *Geometry) Position(col, row int) math.Vec2 {
	return g.fromSquare.MulVec(math.Vec2{X: float64(col), Y: float64(row)})
}

// Wrap resolves an unbounded lattice index into storage indices.
//
// Going up one full band of rows moves the vertex rows/2 columns to the right
// in world space, since every row is offset half a column from the previous
// one. The column is shifted back by the same amount so that index
// (col-rows/2, row+rows) lands on the sample stored for (col, row), which is
// the vertex exactly one tile above it.
func (g *Geometry) Wrap(col, row int) (wcol, wrow int) {
	band := floorDiv(row, g.rows)
	wrow = row - band*g.rows
	wcol = euclidMod(col+band*(g.rows/2), g.cols)
	return wcol, wrow
}

func (g *Geometry) index(col, row int) int {
	wcol, wrow := g.Wrap(col, row)
	return wrow*g.cols + wcol
}

func (g *Geometry) size() int {
	return g.rows * g.cols
}

func (g *Geometry) barycentricGradient(kind trigKind) math.Mat2x3 {
	if kind == upper {
		return g.upperGrad
	}
	return g.lowerGrad
}

func denseToMat2(m mat.Matrix) math.Mat2 {
	return math.Mat2{m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1)}
}

func denseToMat2x3(m mat.Matrix) math.Mat2x3 {
	var out math.Mat2x3
	for k := range out {
		out[k] = math.Vec2{X: m.At(0, k), Y: m.At(1, k)}
	}
	return out
}

func positive(f float64) bool {
	return f > 0 && !gomath.IsInf(f, 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

func euclidMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
