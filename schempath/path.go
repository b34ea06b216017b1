// Implements an abstract representation of
// schematic geometry: paths made of lines and
// bezier curves, which can then be consumed
// by painting drivers.
package schempath

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Point is a location in user space (drawing units, or
// device units once transformed).
type Point struct{ X, Y float64 }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Drawer accumulates path commands, expressed in device
// fixed point coordinates.
type Drawer interface {
	// Start starts a new curve at the given point.
	Start(a fixed.Point26_6)
	// Line adds a line segment to the path
	Line(b fixed.Point26_6)
	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)
	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)
	// Closes the path to the start point if closeLoop is true
	Stop(closeLoop bool)
}

// Operation groups the different path commands
type Operation interface {
	// add itself on the driver `d`, after aplying the transform `M`
	drawTo(d Drawer, M Matrix2D)
	transform(M Matrix2D) Operation
}

type MoveTo Point

type LineTo Point

type QuadTo [2]Point

type CubicTo [3]Point

type Close struct{}

// starts a new path at the given point.
func (op MoveTo) drawTo(d Drawer, M Matrix2D) {
	d.Stop(false) // implicit close if currently in path.
	d.Start(M.toFixed(Point(op)))
}

func (op LineTo) drawTo(d Drawer, M Matrix2D) {
	d.Line(M.toFixed(Point(op)))
}

func (op QuadTo) drawTo(d Drawer, M Matrix2D) {
	d.QuadBezier(M.toFixed(op[0]), M.toFixed(op[1]))
}

func (op CubicTo) drawTo(d Drawer, M Matrix2D) {
	d.CubeBezier(M.toFixed(op[0]), M.toFixed(op[1]), M.toFixed(op[2]))
}

func (op Close) drawTo(d Drawer, _ Matrix2D) {
	d.Stop(true)
}

func (op MoveTo) transform(M Matrix2D) Operation { return MoveTo(M.Transform(Point(op))) }
func (op LineTo) transform(M Matrix2D) Operation { return LineTo(M.Transform(Point(op))) }
func (op QuadTo) transform(M Matrix2D) Operation {
	return QuadTo{M.Transform(op[0]), M.Transform(op[1])}
}

func (op CubicTo) transform(M Matrix2D) Operation {
	return CubicTo{M.Transform(op[0]), M.Transform(op[1]), M.Transform(op[2])}
}
func (op Close) transform(Matrix2D) Operation { return op }

// Path describes a sequence of basic operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path,
// suitable for the `d` attribute of a SVG path element.
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%.3f,%.3f", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%.3f,%.3f", op.X, op.Y)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%.3f,%.3f,%.3f,%.3f", op[0].X, op[0].Y, op[1].X, op[1].Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%.3f,%.3f,%.3f,%.3f,%.3f,%.3f", op[0].X, op[0].Y,
				op[1].X, op[1].Y, op[2].X, op[2].Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(a Point) {
	*p = append(*p, MoveTo(a))
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b Point) {
	*p = append(*p, LineTo(b))
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c Point) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d Point) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// Transform returns a new path with every point mapped by M.
func (p Path) Transform(M Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		out[i] = op.transform(M)
	}
	return out
}

// DrawTo sends the path to `d`, after applying the transform `M`.
// The path is not closed unless it contains a Close operation.
func (p Path) DrawTo(d Drawer, M Matrix2D) {
	for _, op := range p {
		op.drawTo(d, M)
	}
	d.Stop(false)
}

// fToFixed converts two floats to a fixed point.
func fToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// FixedToPoint converts back a fixed point.
func FixedToPoint(a fixed.Point26_6) Point {
	return Point{float64(a.X) / 64, float64(a.Y) / 64}
}
