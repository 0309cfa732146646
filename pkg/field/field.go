package field

import (
	"slices"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// Field is a periodic piecewise-linear field of T sampled on a triangular
// lattice. Samples are stored row-major; a Field is never modified after
// construction, so it can be shared between goroutines.
type Field[T any] struct {
	geom *Geometry
	data []T
}

// Linear is implemented by payloads that can be interpolated: weighted sums
// of samples are formed with Add and Scale.
type Linear[T any] interface {
	Add(T) T
	Scale(float64) T
}

// New returns a field over a tileX x tileY tile at resolution res, filled
// with the zero value of T.
func New[T any](tileX, tileY, res float64) (*Field[T], error) {
	g, err := NewGeometry(tileX, tileY, res)
	if err != nil {
		return nil, err
	}
	return &Field[T]{geom: g, data: make([]T, g.size())}, nil
}

// NewFilled returns a field with every sample set to value.
func NewFilled[T any](tileX, tileY, res float64, value T) (*Field[T], error) {
	f, err := New[T](tileX, tileY, res)
	if err != nil {
		return nil, err
	}
	for i := range f.data {
		f.data[i] = value
	}
	return f, nil
}

// NewFromFunc samples fn at the world position of every lattice vertex.
func NewFromFunc[T any](tileX, tileY, res float64, fn func(math.Vec2) T) (*Field[T], error) {
	g, err := NewGeometry(tileX, tileY, res)
	if err != nil {
		return nil, err
	}
	return Sample(g, fn), nil
}

// Sample builds a field on an existing geometry by evaluating fn at every
// vertex in row-major order.
func Sample[T any](g *Geometry, fn func(math.Vec2) T) *Field[T] {
	data := make([]T, 0, g.size())
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			data = append(data, fn(g.Position(col, row)))
		}
	}
	return &Field[T]{geom: g, data: data}
}

// Map returns a field with the same geometry and fn applied to every sample.
func Map[T, U any](f *Field[T], fn func(T) U) *Field[U] {
	data := make([]U, len(f.data))
	for i, v := range f.data {
		data[i] = fn(v)
	}
	return &Field[U]{geom: f.geom, data: data}
}

// MapWithCoords is like Map but also passes the world position of the vertex.
func MapWithCoords[T, U any](f *Field[T], fn func(math.Vec2, T) U) *Field[U] {
	g := f.geom
	data := make([]U, len(f.data))
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			i := row*g.cols + col
			data[i] = fn(g.Position(col, row), f.data[i])
		}
	}
	return &Field[U]{geom: g, data: data}
}

// Geometry returns the lattice the field is sampled on.
func (f *Field[T]) Geometry() *Geometry {
	return f.geom
}

// Len returns the number of stored samples.
func (f *Field[T]) Len() int {
	return len(f.data)
}

// At returns the sample of lattice vertex (col, row), wrapping the indices
// around the torus.
func (f *Field[T]) At(col, row int) T {
	return f.data[f.geom.index(col, row)]
}

// Vertex returns the unwrapped world position of lattice vertex (col, row)
// together with its sample.
func (f *Field[T]) Vertex(col, row int) (math.Vec2, T) {
	return f.geom.Position(col, row), f.At(col, row)
}

// MinBy returns the smallest sample according to cmp.
func (f *Field[T]) MinBy(cmp func(a, b T) int) T {
	return slices.MinFunc(f.data, cmp)
}

// MaxBy returns the largest sample according to cmp.
func (f *Field[T]) MaxBy(cmp func(a, b T) int) T {
	return slices.MaxFunc(f.data, cmp)
}

func (f *Field[T]) at(v vertexIndex) T {
	return f.At(v.col, v.row)
}

// Value interpolates the field at world position pos.
func Value[T Linear[T]](f *Field[T], pos math.Vec2) T {
	tri, w := locate(f.geom.ToSquare(pos))
	return combine(f, tri, w, addLinear[T], scaleLinear[T])
}

// Gradient returns the x and y derivatives of the field at pos. The gradient
// is constant over each triangle.
func Gradient[T Linear[T]](f *Field[T], pos math.Vec2) [2]T {
	tri, _ := locate(f.geom.ToSquare(pos))
	return triangleGradient(f, tri, addLinear[T], scaleLinear[T])
}

func addLinear[T Linear[T]](a, b T) T { return a.Add(b) }

func scaleLinear[T Linear[T]](a T, s float64) T { return a.Scale(s) }

// combine forms the weighted sum of the triangle's vertex samples.
func combine[T any](f *Field[T], tri triangle, w [3]float64, add func(T, T) T, scale func(T, float64) T) T {
	acc := scale(f.at(tri.verts[0]), w[0])
	for k := 1; k < 3; k++ {
		acc = add(acc, scale(f.at(tri.verts[k]), w[k]))
	}
	return acc
}

func triangleGradient[T any](f *Field[T], tri triangle, add func(T, T) T, scale func(T, float64) T) [2]T {
	grad := f.geom.barycentricGradient(tri.kind)
	wx := [3]float64{grad.Col(0).X, grad.Col(1).X, grad.Col(2).X}
	wy := [3]float64{grad.Col(0).Y, grad.Col(1).Y, grad.Col(2).Y}
	return [2]T{combine(f, tri, wx, add, scale), combine(f, tri, wy, add, scale)}
}
