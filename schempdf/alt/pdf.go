// Package alt is an alternative PDF backend, writing the content
// stream directly with github.com/benoitkugler/pdf.
// Labels use the standard Helvetica font, which is not embedded.
package alt

import (
	"fmt"
	"image/color"
	"io"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/fonts"
	"github.com/benoitkugler/pdf/fonts/standardfonts"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schemdraw"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ schemdraw.Driver  = (*Renderer)(nil)
	_ schemdraw.Filler  = (*filler)(nil)
	_ schemdraw.Stroker = (*stroker)(nil)
)

// Renderer writes into a content stream, whose y axis
// is expected to point down (see Write).
type Renderer struct {
	ap   *contentstream.Appearance
	font fonts.BuiltFont
}

// NewRenderer return a renderer which will
// write to the given appearance.
func NewRenderer(ap *contentstream.Appearance) (*Renderer, error) {
	font, err := fonts.BuildFont(&model.FontDict{Subtype: standardfonts.Helvetica.WesternType1Font()})
	if err != nil {
		return nil, err
	}
	return &Renderer{ap: ap, font: font}, nil
}

// pather buffers the path until it is painted, since
// color operators are not allowed inside a path object.
type pather struct {
	ap  *contentstream.Appearance
	ops []contentstream.Operation
	cur fixed.Point26_6
	col color.Color
}

type filler struct {
	pather
	useNonZeroWinding bool
}

type stroker struct {
	pather
	options schemdraw.StrokeOptions
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

func (p *pather) Clear() { p.ops = p.ops[:0] }

func (p *pather) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	p.ops = append(p.ops, contentstream.OpMoveTo{X: x, Y: y})
	p.cur = a
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	p.ops = append(p.ops, contentstream.OpLineTo{X: x, Y: y})
	p.cur = b
}

// QuadBezier is elevated to a cubic curve.
func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	x0, y0 := fixedTof(p.cur)
	bx, by := fixedTof(b)
	x, y := fixedTof(c)
	p.ops = append(p.ops, contentstream.OpCubicTo{
		X1: x0 + 2*(bx-x0)/3, Y1: y0 + 2*(by-y0)/3,
		X2: x + 2*(bx-x)/3, Y2: y + 2*(by-y)/3,
		X3: x, Y3: y,
	})
	p.cur = c
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.ops = append(p.ops, contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
	p.cur = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.ops = append(p.ops, contentstream.OpClosePath{})
	}
}

func (p *pather) SetColor(c color.Color) { p.col = c }

// alpha returns the opacity of c, black if nil
func alpha(c color.Color) (color.Color, float64) {
	if c == nil {
		c = color.Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return c, float64(n.A) / 255
}

func (f *filler) SetWinding(useNonZeroWinding bool) { f.useNonZeroWinding = useNonZeroWinding }

func (f *filler) Draw() {
	col, a := alpha(f.col)
	f.ap.SetColorFill(col)
	f.ap.SetFillAlpha(a)
	f.ap.Ops(f.ops...)
	if f.useNonZeroWinding {
		f.ap.Ops(contentstream.OpFill{})
	} else {
		f.ap.Ops(contentstream.OpEOFill{})
	}
}

func (s *stroker) SetStrokeOptions(options schemdraw.StrokeOptions) { s.options = options }

var (
	joinStyles = [...]uint8{
		schemdraw.Miter: 0,
		schemdraw.Round: 1,
		schemdraw.Bevel: 2,
	}
	capStyles = [...]uint8{
		schemdraw.ButtCap:   0,
		schemdraw.RoundCap:  1,
		schemdraw.SquareCap: 2,
	}
)

func (s *stroker) Draw() {
	col, a := alpha(s.col)
	s.ap.Ops(
		contentstream.OpSetLineWidth{W: float64(s.options.LineWidth) / 64},
		contentstream.OpSetLineCap{Style: capStyles[s.options.Cap]},
		contentstream.OpSetLineJoin{Style: joinStyles[s.options.Join]},
	)
	if s.options.MiterLimit > 0 {
		s.ap.Ops(contentstream.OpSetMiterLimit{Limit: float64(s.options.MiterLimit) / 64})
	}
	s.ap.SetColorStroke(col)
	s.ap.SetStrokeAlpha(a)
	s.ap.Ops(s.ops...)
	s.ap.Ops(contentstream.OpStroke{})
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f schemdraw.Filler, s schemdraw.Stroker) {
	if willFill {
		f = &filler{pather: pather{ap: rd.ap}, useNonZeroWinding: true}
	}
	if willStroke {
		s = &stroker{pather: pather{ap: rd.ap}}
	}
	return f, s
}

// textWidth returns the advance of text, in points
func (rd *Renderer) textWidth(text string, size float64) float64 {
	var w float64
	for _, r := range text {
		w += rd.font.GetWidth(r, size)
	}
	return w
}

// DrawText writes the text with the Helvetica font,
// flipped back so that it reads upward.
func (rd *Renderer) DrawText(op schemdraw.TextOp) {
	desc := standardfonts.Helvetica.Descriptor
	ascent, descent := desc.Ascent*op.Size/1000, -desc.Descent*op.Size/1000

	x, y := op.X, op.Y
	switch op.HAlign {
	case schemdraw.AlignCenter:
		x -= rd.textWidth(op.Text, op.Size) / 2
	case schemdraw.AlignRight:
		x -= rd.textWidth(op.Text, op.Size)
	}
	switch op.VAlign { // y is the baseline
	case schemdraw.AlignTop:
		y += ascent
	case schemdraw.AlignMiddle:
		y += (ascent - descent) / 2
	case schemdraw.AlignBottom:
		y -= descent
	}

	col, a := alpha(op.Color)
	rd.ap.SetColorFill(col)
	rd.ap.SetFillAlpha(a)
	rd.ap.BeginText()
	rd.ap.SetFontAndSize(rd.font, op.Size)
	rd.ap.SetTextMatrix(1, 0, 0, -1, x, y)
	if err := rd.ap.ShowText(op.Text); err != nil {
		logging.Logger().Warn("schempdf/alt: text not drawn", "text", op.Text, "error", err)
	}
	rd.ap.EndText()
}

// NewPage returns a content stream of the given size, in points,
// with its origin at the top left corner and y pointing down.
// It must be closed by FinishPage.
func NewPage(width, height float64) contentstream.Appearance {
	ap := contentstream.NewAppearance(width, height)
	ap.Ops(
		contentstream.OpSave{},
		contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, height}},
	)
	return ap
}

// FinishPage closes the content stream started by NewPage
// and returns it as a compressed page.
func FinishPage(ap contentstream.Appearance) *model.PageObject {
	ap.Ops(contentstream.OpRestore{})
	var page model.PageObject
	ap.ApplyToPageObject(&page, true)
	return &page
}

// Write renders a closed drawing as a one page PDF document,
// sized to the drawing.
func Write(w io.Writer, d *schemdraw.Drawing) error {
	c, err := d.Canvas(1)
	if err != nil {
		return err
	}
	ap := NewPage(c.Width, c.Height)
	rd, err := NewRenderer(&ap)
	if err != nil {
		return fmt.Errorf("schempdf/alt: %w", err)
	}
	if err := d.Draw(rd, c); err != nil {
		return err
	}

	var doc model.Document
	doc.Catalog.Pages.Kids = []model.PageNode{FinishPage(ap)}
	if err := doc.Write(w, nil); err != nil {
		return fmt.Errorf("schempdf/alt: %w", err)
	}
	logging.Logger().Debug("schempdf/alt: drawing written", "width", c.Width, "height", c.Height)
	return nil
}
