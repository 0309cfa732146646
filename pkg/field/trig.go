package field

import (
	gomath "math"

	"github.com/Faultbox/trigterrain/pkg/math"
)

// trigKind selects which half of a unit cell a triangle covers.
type trigKind uint8

const (
	lower trigKind = iota // u+v < 1
	upper                 // u+v >= 1
)

func (k trigKind) String() string {
	if k == upper {
		return "upper"
	}
	return "lower"
}

// vertexIndex addresses a lattice vertex. Indices are unbounded; wrapping
// happens on lookup.
type vertexIndex struct {
	col, row int
}

type triangle struct {
	verts [3]vertexIndex
	kind  trigKind
}

// latticeSnap pulls square coordinates lying on a lattice line onto it, so a
// query at a vertex weights that vertex by exactly 1.
const latticeSnap = 1e-9

// baryTolerance is the slack allowed on barycentric coordinates when deciding
// that a ray crosses a triangle.
const baryTolerance = 1e-9

// parallelTolerance is the relative cross product below which a horizontal ray
// is taken to run along a triangle edge rather than across it.
const parallelTolerance = 1e-9

// locate returns the triangle containing square position s and the
// barycentric coordinates of s within it, in vertex order.
func locate(s math.Vec2) (triangle, [3]float64) {
	x, y := snap(s.X), snap(s.Y)
	cf, rf := gomath.Floor(x), gomath.Floor(y)
	col, row := int(cf), int(rf)
	u, v := x-cf, y-rf

	if u+v < 1 {
		return triangle{
			verts: [3]vertexIndex{{col, row + 1}, {col + 1, row}, {col, row}},
			kind:  lower,
		}, [3]float64{v, u, 1 - v - u}
	}
	return triangle{
		verts: [3]vertexIndex{{col, row + 1}, {col + 1, row + 1}, {col + 1, row}},
		kind:  upper,
	}, [3]float64{1 - u, v + u - 1, 1 - v}
}

// cellTriangles returns both triangles of the unit cell with lower-left
// corner (col, row).
func cellTriangles(col, row int) [2]triangle {
	return [2]triangle{
		{verts: [3]vertexIndex{{col, row + 1}, {col + 1, row}, {col, row}}, kind: lower},
		{verts: [3]vertexIndex{{col, row + 1}, {col + 1, row + 1}, {col + 1, row}}, kind: upper},
	}
}

func snap(x float64) float64 {
	r := gomath.Round(x)
	if gomath.Abs(x-r) < latticeSnap {
		return r
	}
	return x
}

// intersectTriangle finds where the ray origin + t*dir crosses the triangle
// v, solving [-dir | v1-v0 | v2-v0] (t, a, b) = origin - v0.
func intersectTriangle(origin, dir math.Vec3, v [3]math.Vec3) (float64, bool) {
	m := math.Mat3FromColumns(dir.Scale(-1), v[1].Sub(v[0]), v[2].Sub(v[0]))
	sol, ok := m.Solve(origin.Sub(v[0]))
	if !ok {
		// ray parallel to the triangle plane
		return 0, false
	}
	t, a, b := sol.X, sol.Y, sol.Z
	if t > 0 && a >= -baryTolerance && b >= -baryTolerance && a+b <= 1+baryTolerance {
		return t, true
	}
	return 0, false
}

// prismExit returns how far the horizontal ray p + t*d travels before leaving
// the vertical prism over triangle v, i.e. the largest forward crossing of one
// of its edges. Edges collinear with the ray are skipped: the ray runs along
// them and leaves through the edges meeting at their far end.
func prismExit(p, d math.Vec2, v [3]math.Vec2) (float64, bool) {
	var exit float64
	found := false
	for i := range v {
		a, b := v[i], v[(i+1)%3]
		edge := b.Sub(a)
		if gomath.Abs(d.Cross(edge)) <= parallelTolerance*d.Length()*edge.Length() {
			continue
		}
		// p + t*d = a + s*edge
		t, s, ok := math.Solve2(d, edge.Scale(-1), a.Sub(p))
		if !ok {
			continue
		}
		if t > 0 && s >= 0 && s <= 1 && t > exit {
			exit = t
			found = true
		}
	}
	return exit, found
}
