package schempath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

// recorder stores the commands received as a Drawer
type recorder struct {
	starts, lines, quads, cubes, closes int
	last                                fixed.Point26_6
}

func (r *recorder) Start(a fixed.Point26_6)            { r.starts++; r.last = a }
func (r *recorder) Line(b fixed.Point26_6)             { r.lines++; r.last = b }
func (r *recorder) QuadBezier(_, c fixed.Point26_6)    { r.quads++; r.last = c }
func (r *recorder) CubeBezier(_, _, d fixed.Point26_6) { r.cubes++; r.last = d }
func (r *recorder) Stop(closeLoop bool) {
	if closeLoop {
		r.closes++
	}
}

func TestToSVGPath(t *testing.T) {
	var p Path
	p.Start(Point{0, 0})
	p.Line(Point{1, 0.5})
	p.CubeBezier(Point{1, 1}, Point{2, 2}, Point{3, 3})
	p.Stop(true)
	assert.Equal(t, "M0.000,0.000 L1.000,0.500 C1.000,1.000,2.000,2.000,3.000,3.000 Z", p.ToSVGPath())
}

func TestDrawTo(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 2, 1)
	var r recorder
	p.DrawTo(&r, Identity.Scale(10, 10))
	assert.Equal(t, 1, r.starts)
	assert.Equal(t, 3, r.lines)
	assert.Equal(t, 1, r.closes)
	assert.Equal(t, fixed.Point26_6{X: 0, Y: 10 * 64}, r.last)
}

func TestMatrix(t *testing.T) {
	m := Identity.Translate(1, 2).Rotate(math.Pi / 2)
	got := m.Transform(Point{1, 0})
	assert.InDelta(t, 1, got.X, 1e-12)
	assert.InDelta(t, 3, got.Y, 1e-12)

	inv := Identity.Scale(2, 2).Translate(-1, -1)
	assert.Equal(t, Point{0, 0}, inv.Transform(Point{1, 1}))
	assert.InDelta(t, 2, inv.ScaleFactor(), 1e-12)
}

func TestTransformPath(t *testing.T) {
	var p Path
	p.AddPolyline(false, Point{0, 0}, Point{1, 0})
	q := p.Transform(Identity.Rotate(math.Pi))
	assert.Equal(t, LineTo{-1, 0}, q[1])
	// the source is untouched
	assert.Equal(t, LineTo{1, 0}, p[1])
}

func TestBounds(t *testing.T) {
	var p Path
	p.AddCircle(Point{1, 1}, 2)
	b := p.Bounds()
	assert.InDelta(t, -1, b.Min.X, 1e-3)
	assert.InDelta(t, -1, b.Min.Y, 1e-3)
	assert.InDelta(t, 3, b.Max.X, 1e-3)
	assert.InDelta(t, 3, b.Max.Y, 1e-3)

	assert.True(t, Path(nil).Bounds().Empty())

	// the control point is outside of the curve
	var q Path
	q.Start(Point{0, 0})
	q.QuadBezier(Point{1, 2}, Point{2, 0})
	b = q.Bounds()
	assert.InDelta(t, 1, b.Max.Y, 1e-9)
}

func TestEllipse(t *testing.T) {
	var p Path
	p.AddEllipse(Point{1, 2}, 2, 1, math.Pi/2)
	// the x axis of the ellipse points up
	start := p[0].(MoveTo)
	assert.InDelta(t, 1, start.X, 1e-9)
	assert.InDelta(t, 4, start.Y, 1e-9)
	assert.Equal(t, Close{}, p[len(p)-1])

	b := p.Bounds()
	assert.InDelta(t, 0, b.Min.X, 1e-3)
	assert.InDelta(t, 2, b.Max.X, 1e-3)
	assert.InDelta(t, 0, b.Min.Y, 1e-3)
	assert.InDelta(t, 4, b.Max.Y, 1e-3)
}

func TestRectUnion(t *testing.T) {
	r := EmptyRect()
	assert.True(t, r.Empty())
	assert.Equal(t, 0., r.Width())
	r = r.Union(Rect{Min: Point{1, 1}, Max: Point{2, 3}})
	r = r.Union(EmptyRect())
	assert.Equal(t, Rect{Min: Point{1, 1}, Max: Point{2, 3}}, r)
	assert.Equal(t, 2., r.Height())
	assert.Equal(t, Rect{Min: Point{0, 0}, Max: Point{3, 4}}, r.Inset(-1))
}

func TestArc(t *testing.T) {
	var p Path
	p.Start(Point{0, 0})
	end := p.AddArc(Point{0, 0}, math.Sqrt2, math.Sqrt2, 0, false, true, Point{2, 0})
	assert.Equal(t, Point{2, 0}, end)
	b := p.Bounds()
	// small arc, sweeping towards positive angles: it bulges below the chord
	assert.InDelta(t, 1-math.Sqrt2, b.Min.Y, 1e-3)
	assert.InDelta(t, 0, b.Max.Y, 1e-9)

	var half Path
	half.AddCircularArc(Point{0, 0}, 1, 0, math.Pi)
	b = half.Bounds()
	assert.InDelta(t, 1, b.Max.Y, 1e-3)
	assert.InDelta(t, -1, b.Min.X, 1e-9)
}

func TestParsePathData(t *testing.T) {
	p, err := ParsePathData("M0,0 L10,0 l0-10 h-5 v5 z")
	require.NoError(t, err)
	require.Len(t, p, 6)
	assert.Equal(t, LineTo{10, -10}, p[2])
	assert.Equal(t, LineTo{5, -10}, p[3])
	assert.Equal(t, LineTo{5, -5}, p[4])
	assert.Equal(t, Close{}, p[5])

	p, err = ParsePathData("m1 1 2 2")
	require.NoError(t, err)
	assert.Equal(t, Path{MoveTo{1, 1}, LineTo{3, 3}}, p)

	p, err = ParsePathData("M0 0 C1 1 2 1 3 0 S5 -1 6 0")
	require.NoError(t, err)
	require.Len(t, p, 3)
	// reflected control point
	assert.Equal(t, CubicTo{{4, -1}, {5, -1}, {6, 0}}, p[2])

	p, err = ParsePathData("M0 0 Q1 1 2 0 T4 0")
	require.NoError(t, err)
	assert.Equal(t, QuadTo{{3, -1}, {4, 0}}, p[2])

	p, err = ParsePathData("M.5.5-1e1,2")
	require.NoError(t, err)
	assert.Equal(t, Path{MoveTo{0.5, 0.5}, LineTo{-10, 2}}, p)

	p, err = ParsePathData("M0 0 A1 1 0 0 1 2 0")
	require.NoError(t, err)
	assert.Equal(t, Point{2, 0}, Point(p[len(p)-1].(CubicTo)[2]))

	p, err = ParsePathData("   ")
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestParsePathDataErrors(t *testing.T) {
	for _, d := range []string{
		"L0 0",
		"10 10",
		"M0",
		"M0 0 L1",
		"M0 0 Z 1",
		"M0 0 L1 x",
	} {
		_, err := ParsePathData(d)
		assert.Error(t, err, d)
	}
}
