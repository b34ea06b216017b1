package schemdraw

import (
	"image/color"

	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schempath"
	"golang.org/x/image/math/fixed"
)

// Canvas maps a closed drawing onto a device: origin at the
// top left corner, y going down.
type Canvas struct {
	Width, Height float64 // device size, margin included
	// PtScale is the number of device units per point
	// (1 for PDF, DPI/72 for images).
	PtScale float64
	// Transform maps drawing units to device units.
	Transform schempath.Matrix2D
}

// Canvas returns the device mapping of the drawing, with `ptScale`
// device units per point.
func (d *Drawing) Canvas(ptScale float64) (Canvas, error) {
	if !d.closed {
		return Canvas{}, ErrNotClosed
	}
	s := d.cfg.pointsPerUnit() * ptScale
	m := d.cfg.Margin
	b := d.bounds
	return Canvas{
		Width:     (b.Width() + 2*m) * s,
		Height:    (b.Height() + 2*m) * s,
		PtScale:   ptScale,
		Transform: schempath.Identity.Translate((m-b.Min.X)*s, (b.Max.Y+m)*s).Scale(s, -s),
	}, nil
}

// Draw replays the drawing on the driver: the shapes of each
// element in order, then all the labels.
func (d *Drawing) Draw(drv Driver, c Canvas) error {
	if !d.closed {
		return ErrNotClosed
	}
	opts := StrokeOptions{
		LineWidth:  fixed.Int26_6(d.cfg.LineWidth * c.PtScale * 64),
		MiterLimit: fixed.I(4),
		Join:       Round,
		Cap:        RoundCap,
	}
	for _, el := range d.elements {
		col := d.colorOf(el)
		for _, st := range el.Strokes {
			drawStroke(drv, st, col, opts, c.Transform)
		}
	}
	for _, el := range d.elements {
		col := d.colorOf(el)
		for _, lb := range el.Labels {
			pos := c.Transform.Transform(lb.Pos)
			ha, va := labelAlign(lb.Side)
			drv.DrawText(TextOp{
				Text:   lb.Text,
				X:      pos.X,
				Y:      pos.Y,
				Size:   d.cfg.FontSize * c.PtScale,
				Color:  col,
				HAlign: ha,
				VAlign: va,
			})
		}
	}
	return nil
}

func (d *Drawing) colorOf(el *Placed) color.Color {
	if el.Color != nil {
		return el.Color
	}
	return d.cfg.Color
}

// drawStroke sends one path to the driver, filled or stroked.
func drawStroke(drv Driver, st schemelm.Stroke, col color.Color, opts StrokeOptions, m schempath.Matrix2D) {
	filler, stroker := drv.SetupDrawers(st.Fill, !st.Fill)
	if filler != nil {
		filler.Clear()
		filler.SetWinding(true)
		st.Path.DrawTo(filler, m)
		filler.SetColor(col)
		filler.Draw()
	}
	if stroker != nil {
		stroker.Clear()
		stroker.SetStrokeOptions(opts)
		st.Path.DrawTo(stroker, m)
		stroker.SetColor(col)
		stroker.Draw()
	}
}
