// Package svggeom provides the geometric primitives shared by the whole
// engine: affine matrices, axis-aligned boxes, points and vector paths,
// plus the conversion of high level shapes to their path equivalent.
package svggeom

import "math"

// Matrix is a 2D affine transformation, mapping a point (x, y) to
// (A*x + C*y + E, B*x + D*y + F).
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transformation.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Translated returns a pure translation matrix.
func Translated(x, y float64) Matrix { return Matrix{1, 0, 0, 1, x, y} }

// Scaled returns a pure scaling matrix.
func Scaled(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rotated returns a rotation matrix of `radians` around the origin.
func Rotated(radians float64) Matrix {
	sin, cos := SinCos(radians)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Mult returns the composition a ∘ b : the returned matrix applies
// `b` first, then `a`. Cumulative element transforms are thus built as
// parentGlobal.Mult(local).
func (a Matrix) Mult(b Matrix) Matrix {
	return Matrix{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate post-multiplies a translation, so that the translation is
// applied to incoming points before `a`.
func (a Matrix) Translate(x, y float64) Matrix { return a.Mult(Translated(x, y)) }

// Scale post-multiplies a scaling.
func (a Matrix) Scale(sx, sy float64) Matrix { return a.Mult(Scaled(sx, sy)) }

// Rotate post-multiplies a rotation of `radians` around the origin.
func (a Matrix) Rotate(radians float64) Matrix { return a.Mult(Rotated(radians)) }

// SkewX post-multiplies a skew along the x axis.
func (a Matrix) SkewX(radians float64) Matrix {
	return a.Mult(Matrix{1, 0, math.Tan(radians), 1, 0, 0})
}

// SkewY post-multiplies a skew along the y axis.
func (a Matrix) SkewY(radians float64) Matrix {
	return a.Mult(Matrix{1, math.Tan(radians), 0, 1, 0, 0})
}

// TransformPoint applies the matrix to the point (x, y).
func (a Matrix) TransformPoint(x, y float64) (float64, float64) {
	return a.A*x + a.C*y + a.E, a.B*x + a.D*y + a.F
}

// TransformVector applies only the linear part of the matrix, ignoring
// the translation. Used for direction vectors.
func (a Matrix) TransformVector(x, y float64) (float64, float64) {
	return a.A*x + a.C*y, a.B*x + a.D*y
}

// Determinant returns the determinant of the linear part.
func (a Matrix) Determinant() float64 { return a.A*a.D - a.B*a.C }

// IsInvertible reports whether Invert will succeed.
func (a Matrix) IsInvertible() bool {
	det := a.Determinant()
	return !math.IsNaN(det) && !math.IsInf(det, 0) && det != 0
}

// Invert returns the inverse transformation. The second return value is
// false for a degenerate (non invertible) matrix, in which case the
// identity is returned.
func (a Matrix) Invert() (Matrix, bool) {
	det := a.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity, false
	}
	inv := 1 / det
	return Matrix{
		A: a.D * inv,
		B: -a.B * inv,
		C: -a.C * inv,
		D: a.A * inv,
		E: (a.C*a.F - a.D*a.E) * inv,
		F: (a.B*a.E - a.A*a.F) * inv,
	}, true
}

// IsIdentity reports whether the matrix is exactly the identity.
func (a Matrix) IsIdentity() bool { return a == Identity }

// maxScale returns an upper bound of the scaling factor applied by the
// matrix, used to pick flattening tolerances in device space.
func (a Matrix) maxScale() float64 {
	sx := math.Hypot(a.A, a.B)
	sy := math.Hypot(a.C, a.D)
	return math.Max(sx, sy)
}
