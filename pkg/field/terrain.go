package field

import (
	gomath "math"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// Terrain is an elevation field: a Field of heights with surface queries.
type Terrain struct {
	*Field[float64]
}

// NewTerrain samples height over the lattice of a tileX x tileY tile.
func NewTerrain(tileX, tileY, res float64, height func(math.Vec2) float64) (*Terrain, error) {
	f, err := NewFromFunc(tileX, tileY, res, height)
	if err != nil {
		return nil, err
	}
	return &Terrain{f}, nil
}

// AsTerrain wraps an existing field of heights.
func AsTerrain(f *Field[float64]) *Terrain {
	return &Terrain{f}
}

// Value returns the surface height at pos.
func (t *Terrain) Value(pos math.Vec2) float64 {
	tri, w := locate(t.geom.ToSquare(pos))
	return t.height(tri, w)
}

// Gradient returns the slope (dh/dx, dh/dy) of the triangle under pos.
func (t *Terrain) Gradient(pos math.Vec2) math.Vec2 {
	tri, _ := locate(t.geom.ToSquare(pos))
	return t.slope(tri)
}

// Normal returns the upward unit normal of the surface at pos.
func (t *Terrain) Normal(pos math.Vec2) math.Vec3 {
	g := t.Gradient(pos)
	return math.Vec3{X: -g.X, Y: -g.Y, Z: 1}.Normalize()
}

// MaxGradient returns the largest slope norm over all triangles of the tile.
// It is a Lipschitz bound for the surface.
func (t *Terrain) MaxGradient() float64 {
	g := t.geom
	var best float64
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			for _, tri := range cellTriangles(col, row) {
				best = gomath.Max(best, t.slope(tri).LengthSquared())
			}
		}
	}
	return gomath.Sqrt(best)
}

// MinHeight returns the lowest sample.
func (t *Terrain) MinHeight() float64 {
	return floats.Min(t.data)
}

// MaxHeight returns the highest sample.
func (t *Terrain) MaxHeight() float64 {
	return floats.Max(t.data)
}

func (t *Terrain) height(tri triangle, w [3]float64) float64 {
	return combine(t.Field, tri, w, addFloat, scaleFloat)
}

func (t *Terrain) slope(tri triangle) math.Vec2 {
	g := triangleGradient(t.Field, tri, addFloat, scaleFloat)
	return math.Vec2{X: g[0], Y: g[1]}
}

// vertices returns the triangle corners as (x, y, height), unwrapped so they
// surround the query position.
func (t *Terrain) vertices(tri triangle) [3]math.Vec3 {
	var out [3]math.Vec3
	for k, v := range tri.verts {
		pos, h := t.Vertex(v.col, v.row)
		out[k] = pos.WithZ(h)
	}
	return out
}

func addFloat(a, b float64) float64 { return a + b }

func scaleFloat(a, s float64) float64 { return a * s }
