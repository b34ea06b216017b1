package schemdraw

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"testing"

	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schempath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

// recorder counts the operations received
type recorder struct {
	fills, strokes int
	points         []fixed.Point26_6
	texts          []TextOp
	lastOptions    StrokeOptions
}

type recDrawer struct {
	rec  *recorder
	fill bool
}

func (r recDrawer) Clear()                              {}
func (r recDrawer) Start(a fixed.Point26_6)             { r.rec.points = append(r.rec.points, a) }
func (r recDrawer) Line(b fixed.Point26_6)              { r.rec.points = append(r.rec.points, b) }
func (r recDrawer) QuadBezier(_, c fixed.Point26_6)     { r.rec.points = append(r.rec.points, c) }
func (r recDrawer) CubeBezier(_, _, d fixed.Point26_6)  { r.rec.points = append(r.rec.points, d) }
func (r recDrawer) Stop(bool)                           {}
func (r recDrawer) SetColor(color.Color)                {}
func (r recDrawer) SetWinding(bool)                     {}
func (r recDrawer) SetStrokeOptions(opts StrokeOptions) { r.rec.lastOptions = opts }
func (r recDrawer) Draw() {
	if r.fill {
		r.rec.fills++
	} else {
		r.rec.strokes++
	}
}

func (r *recorder) SetupDrawers(willFill, willStroke bool) (f Filler, s Stroker) {
	if willFill {
		f = recDrawer{rec: r, fill: true}
	}
	if willStroke {
		s = recDrawer{rec: r}
	}
	return f, s
}

func (r *recorder) DrawText(op TextOp) { r.texts = append(r.texts, op) }

func firstCircuit() *Drawing {
	d := New()
	d.Add(schemelm.SourceV().Up().Label("10V"))
	d.Add(schemelm.Resistor().Right().Label("R1"))
	d.Add(schemelm.Resistor().Down().Label("R2"))
	d.Add(schemelm.Resistor().Left().Label("R3"))
	d.Add(schemelm.Line().Up())
	return d
}

func TestCursor(t *testing.T) {
	d := firstCircuit()
	require.NoError(t, d.Err())
	// the last wire starts back at the source and goes up along it
	last := d.Elements()[4]
	assert.InDelta(t, 0, last.Start.X, 1e-9)
	assert.InDelta(t, 0, last.Start.Y, 1e-9)
	assert.InDelta(t, 0, d.Here().X, 1e-9)
	assert.InDelta(t, 3, d.Here().Y, 1e-9)
	assert.Equal(t, 90., d.Theta())
	assert.Len(t, d.Elements(), 5)

	// direction inherited from the previous element
	d = New()
	d.Add(schemelm.Line().Down())
	pl := d.Add(schemelm.Resistor())
	assert.Equal(t, -90., pl.Theta)
	assert.InDelta(t, -6, d.Here().Y, 1e-9)

	// junctions do not move the cursor
	d.Add(schemelm.Dot())
	assert.InDelta(t, -6, d.Here().Y, 1e-9)
}

func TestPushPop(t *testing.T) {
	d := New()
	d.Add(schemelm.Line().Right())
	d.Push()
	d.Add(schemelm.Line().Up())
	d.Pop()
	assert.Equal(t, schempath.Point{X: 3}, d.Here())
	assert.Equal(t, 0., d.Theta())

	d.MoveTo(schempath.Point{X: -1, Y: 2})
	assert.Equal(t, schempath.Point{X: -1, Y: 2}, d.Here())

	d.Pop()
	assert.True(t, errors.Is(d.Close(), ErrEmptyStack))
	// errors are sticky
	d.Add(schemelm.Line())
	assert.Len(t, d.Elements(), 2)
}

func TestCloseIdempotent(t *testing.T) {
	d := firstCircuit()
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.True(t, d.Closed())

	b, err := d.Bounds()
	require.NoError(t, err)
	// the labels extend the drawing on both sides
	assert.Less(t, b.Min.X, -.5)
	assert.Greater(t, b.Max.X, 3.)
	assert.Greater(t, b.Max.Y, 3.)

	d.Add(schemelm.Line())
	assert.True(t, errors.Is(d.Err(), ErrClosed))
	assert.Len(t, d.Elements(), 5)
}

func TestOpenLoop(t *testing.T) {
	d := New()
	d.Add(schemelm.SourceV().Up())
	d.Add(schemelm.Resistor().Right().Label("R_eq"))
	d.Add(schemelm.Line().Down())
	// no return to the start
	require.NoError(t, d.Close())
}

func TestInvalidElement(t *testing.T) {
	d := New()
	d.Add(schemelm.Line().Length(-2))
	err := d.Close()
	assert.True(t, errors.Is(err, schemelm.ErrInvalidLength))
	assert.False(t, d.Closed())

	d = New(WithFontSize(0))
	assert.Error(t, d.Close())
}

func TestNotClosed(t *testing.T) {
	d := firstCircuit()
	_, err := d.Canvas(1)
	assert.Equal(t, ErrNotClosed, err)
	assert.Equal(t, ErrNotClosed, d.Draw(&recorder{}, Canvas{}))
	_, err = d.Bounds()
	assert.Equal(t, ErrNotClosed, err)
}

func TestCanvas(t *testing.T) {
	d := New(WithMargin(1), WithInchesPerUnit(1))
	d.Add(schemelm.Line().Right())
	require.NoError(t, d.Close())
	c, err := d.Canvas(1)
	require.NoError(t, err)

	b, _ := d.Bounds()
	assert.InDelta(t, (b.Width()+2)*72, c.Width, 1e-9)
	assert.InDelta(t, (b.Height()+2)*72, c.Height, 1e-9)

	// y axis is flipped, the top left corner (margin included) is the origin
	origin := c.Transform.Transform(schempath.Point{X: b.Min.X - 1, Y: b.Max.Y + 1})
	assert.InDelta(t, 0, origin.X, 1e-9)
	assert.InDelta(t, 0, origin.Y, 1e-9)
	corner := c.Transform.Transform(schempath.Point{X: b.Max.X + 1, Y: b.Min.Y - 1})
	assert.InDelta(t, c.Width, corner.X, 1e-9)
	assert.InDelta(t, c.Height, corner.Y, 1e-9)
}

func TestDraw(t *testing.T) {
	d := firstCircuit()
	d.Add(schemelm.Dot())
	require.NoError(t, d.Close())
	c, err := d.Canvas(2)
	require.NoError(t, err)

	var rec recorder
	require.NoError(t, d.Draw(&rec, c))
	assert.Equal(t, 1, rec.fills)
	// source: 2 leads, circle, 3 signs strokes; resistors: 3 each; line: 1
	assert.Equal(t, 6+9+1, rec.strokes)
	assert.Equal(t, fixed.Int26_6(2*2*64), rec.lastOptions.LineWidth)
	require.Len(t, rec.texts, 4)
	assert.Equal(t, 28., rec.texts[0].Size)

	for _, p := range rec.points {
		assert.True(t, p.X >= 0 && float64(p.X)/64 <= c.Width)
		assert.True(t, p.Y >= 0 && float64(p.Y)/64 <= c.Height)
	}

	// SourceV going up: its label is on the left
	assert.Equal(t, AlignRight, rec.texts[0].HAlign)
	// R1 going right: above
	assert.Equal(t, AlignBottom, rec.texts[1].VAlign)
	// R2 going down: on the right
	assert.Equal(t, AlignLeft, rec.texts[2].HAlign)
	// R3 going left: below
	assert.Equal(t, AlignTop, rec.texts[3].VAlign)
}

func TestEmptyDrawing(t *testing.T) {
	d := New()
	require.NoError(t, d.Close())
	c, err := d.Canvas(1)
	require.NoError(t, err)
	assert.Greater(t, c.Width, 0.)
	assert.Greater(t, c.Height, 0.)
}

func TestUnit(t *testing.T) {
	d := New(WithUnit(2))
	d.Add(schemelm.Line().Right())
	d.Add(schemelm.Line().Length(1))
	assert.InDelta(t, 3, d.Here().X, 1e-9)

	// the same element keeps the default length in another drawing
	e := schemelm.Resistor().Right()
	New(WithUnit(1)).Add(e)
	d = New()
	d.Add(e)
	assert.InDelta(t, 3, d.Here().X, 1e-9)
}

func TestAddNil(t *testing.T) {
	d := New()
	pl := d.Add(nil)
	require.NotNil(t, pl)
	assert.Error(t, d.Err())
	assert.Empty(t, d.Elements())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	d := firstCircuit()
	require.NoError(t, d.Close())
	assert.Contains(t, buf.String(), "drawing closed")
	assert.Contains(t, buf.String(), "elements=5")
}
