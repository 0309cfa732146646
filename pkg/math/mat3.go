package math

import "math"

// Mat3 is a 3x3 matrix stored as three column vectors.
type Mat3 [3]Vec3

// Mat3FromColumns builds a matrix from its columns.
func Mat3FromColumns(c0, c1, c2 Vec3) Mat3 {
	return Mat3{c0, c1, c2}
}

// MulVec returns m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z))
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0].Dot(m[1].Cross(m[2]))
}

// Solve returns x such that m * x = rhs. ok is false when the matrix is
// singular or so badly conditioned that the solution would not be finite.
func (m Mat3) Solve(rhs Vec3) (Vec3, bool) {
	// Cramer's rule on the column triple product.
	det := m.Det()
	if det == 0 || math.IsNaN(det) {
		return Vec3{}, false
	}
	x := Vec3{
		rhs.Dot(m[1].Cross(m[2])) / det,
		m[0].Dot(rhs.Cross(m[2])) / det,
		m[0].Dot(m[1].Cross(rhs)) / det,
	}
	if !x.IsFinite() {
		return Vec3{}, false
	}
	return x, true
}

// LookAt returns the camera-to-world basis for an eye looking at center.
// Columns are right, up and forward. ok is false when the view direction is
// parallel to up.
func LookAt(eye, center, up Vec3) (Mat3, bool) {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up)
	if s.Length() < 1e-12 {
		return Mat3{}, false
	}
	s = s.Normalize()
	u := s.Cross(f)
	return Mat3{s, u, f}, true
}
