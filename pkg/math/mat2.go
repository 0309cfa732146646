package math

// Mat2 is a 2x2 matrix in row-major order.
// Layout: [m0 m1]
//
//	[m2 m3]
type Mat2 [4]float64

// At returns the element at (row, col).
func (m Mat2) At(row, col int) float64 {
	return m[row*2+col]
}

// MulVec returns m * v.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{m[0]*v.X + m[1]*v.Y, m[2]*v.X + m[3]*v.Y}
}

// Solve2 solves the system [a | b] * (s, t) = rhs, where a and b are the
// matrix columns. ok is false when the columns are parallel.
func Solve2(a, b, rhs Vec2) (s, t float64, ok bool) {
	det := a.Cross(b)
	if det == 0 {
		return 0, 0, false
	}
	s = rhs.Cross(b) / det
	t = a.Cross(rhs) / det
	return s, t, true
}

// Mat2x3 is a 2x3 matrix stored as three column vectors.
type Mat2x3 [3]Vec2

// Col returns column i.
func (m Mat2x3) Col(i int) Vec2 {
	return m[i]
}
