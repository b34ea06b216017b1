package schempath

import (
	"math"
)

// compute the bouding box of a path, needed to lay out a drawing

// Rect is an axis aligned rectangle. Note that the zero value
// is the degenerate rectangle containing only the origin:
// use EmptyRect to start an accumulation.
type Rect struct {
	Min, Max Point
}

// EmptyRect returns a rectangle absorbed by any Union.
func EmptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Empty returns true if the rectangle contains no point.
func (r Rect) Empty() bool { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

func (r Rect) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

func (r Rect) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Add extends the rectangle so that it contains p.
func (r Rect) Add(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if s.Empty() {
		return r
	}
	if r.Empty() {
		return s
	}
	return r.Add(s.Min).Add(s.Max)
}

// Inset shrinks the rectangle by d on every side (grows it if d < 0).
func (r Rect) Inset(d float64) Rect {
	if r.Empty() {
		return r
	}
	return Rect{Min: Point{r.Min.X + d, r.Min.Y + d}, Max: Point{r.Max.X - d, r.Max.Y - d}}
}

// Bounds returns the exact extent of the path, taking
// the extrema of bezier curves into account.
// An empty path has empty bounds.
func (p Path) Bounds() Rect {
	box := EmptyRect()
	var current, first Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current, first = Point(op), Point(op)
			box = box.Add(current)
		case LineTo:
			box = box.Union(computeBoundingBox(line{current, Point(op)}))
			current = Point(op)
		case QuadTo:
			box = box.Union(computeBoundingBox(quadBezier{current, op[0], op[1]}))
			current = op[1]
		case CubicTo:
			box = box.Union(computeBoundingBox(cubicBezier{current, op[0], op[1], op[2]}))
			current = op[2]
		case Close:
			current = first
		}
	}
	return box
}

type line [2]Point

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) Point {
	return Point{bezierLine(l[0].X, l[1].X, t), bezierLine(l[0].Y, l[1].Y, t)}
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]Point

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	aX, bX := quadraticDerivative(cu[0].X, cu[1].X, cu[2].X)
	aY, bY := quadraticDerivative(cu[0].Y, cu[1].Y, cu[2].Y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) Point {
	return Point{
		bezierQuad(cu[0].X, cu[1].X, cu[2].X, t),
		bezierQuad(cu[0].Y, cu[1].Y, cu[2].Y, t),
	}
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) Point {
	return Point{
		bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t),
	}
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		// bX + c : a simple line
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) Point
}

func computeBoundingBox(curve bezier) Rect {
	resX, resY := curve.criticalPoints()
	box := EmptyRect()
	// add begin and end point
	for _, t := range append(append(resX, 0, 1), resY...) {
		// filter invalid value
		if !(0 <= t && t <= 1) {
			continue
		}
		box = box.Add(curve.evaluateCurve(t))
	}
	return box
}
