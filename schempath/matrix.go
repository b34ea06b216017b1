package schempath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents the affine transform
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the transform leaving points unchanged.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Transform multiplies the point by the matrix.
func (a Matrix2D) Transform(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y + a.E,
		Y: a.B*p.X + a.D*p.Y + a.F,
	}
}

// TransformVector is like Transform, ignoring the translation.
func (a Matrix2D) TransformVector(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y,
		Y: a.B*p.X + a.D*p.Y,
	}
}

func (a Matrix2D) toFixed(p Point) fixed.Point26_6 {
	p = a.Transform(p)
	return fToFixed(p.X, p.Y)
}

// Mult returns a*b: b is applied first.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Scale returns a scaled by x and y.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: x, D: y})
}

// Translate returns a translated by x and y.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Rotate returns a rotated by theta radians, counter clockwise
// in a y-up frame.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	// snap the right angles so that axis aligned elements stay exact
	s, c = snap(s), snap(c)
	return a.Mult(Matrix2D{A: c, B: s, C: -s, D: c})
}

// ScaleFactor returns the mean length scaling of the transform.
func (a Matrix2D) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(a.A*a.D - a.B*a.C))
}

func snap(v float64) float64 {
	const eps = 1e-12
	switch {
	case math.Abs(v) < eps:
		return 0
	case math.Abs(v-1) < eps:
		return 1
	case math.Abs(v+1) < eps:
		return -1
	}
	return v
}
