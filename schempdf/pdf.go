// Implements a PDF backend to render drawings,
// by wrapping github.com/jung-kurt/gofpdf.
package schempdf

import (
	"fmt"
	"image/color"
	"io"

	"github.com/benoitkugler/schemfig/internal/fontface"
	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// fontFamily is the name under which the label font is registered
const fontFamily = "goregular"

// assert interface conformance
var (
	_ schemdraw.Driver  = (*Renderer)(nil)
	_ schemdraw.Filler  = (*filler)(nil)
	_ schemdraw.Stroker = stroker{}
)

// Renderer draws on the current page of a PDF document.
// Device units are the units of the document.
type Renderer struct {
	pdf *gofpdf.Fpdf
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf *gofpdf.Fpdf
}

// implements the filling operation
type filler struct {
	pather
	useNonZeroWinding bool
}

// implements the stroking operation
type stroker struct {
	pather
}

// NewRenderer return a renderer which will write to the given `pdf`,
// registering the label font.
func NewRenderer(pdf *gofpdf.Fpdf) *Renderer {
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	return &Renderer{pdf: pdf}
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// rgba returns non premultiplied components
func rgba(c color.Color) (r, g, b int, alpha float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(n.R), int(n.G), int(n.B), float64(n.A) / 255
}

func (p pather) Clear() {}

func (p pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
}

func (p pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
}

func (p pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	cx, cy := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.CurveTo(cx, cy, x, y)
}

func (p pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
}

func (p pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

func (f *filler) SetColor(c color.Color) {
	r, g, b, a := rgba(c)
	f.pdf.SetFillColor(r, g, b)
	f.pdf.SetAlpha(a, "Normal")
}

func (f *filler) Draw() {
	styleStr := "f*"
	if f.useNonZeroWinding {
		styleStr = "f"
	}
	f.pdf.DrawPath(styleStr)
}

func (f *filler) SetWinding(useNonZeroWinding bool) {
	f.useNonZeroWinding = useNonZeroWinding
}

func (s stroker) SetColor(c color.Color) {
	r, g, b, a := rgba(c)
	s.pdf.SetDrawColor(r, g, b)
	s.pdf.SetAlpha(a, "Normal")
}

func (s stroker) Draw() { s.pdf.DrawPath("D") }

var (
	joinStyles = [...]string{
		schemdraw.Round: "round",
		schemdraw.Bevel: "bevel",
		schemdraw.Miter: "miter",
	}
	capStyles = [...]string{
		schemdraw.RoundCap:  "round",
		schemdraw.ButtCap:   "butt",
		schemdraw.SquareCap: "square",
	}
)

func (s stroker) SetStrokeOptions(options schemdraw.StrokeOptions) {
	s.pdf.SetLineWidth(float64(options.LineWidth) / 64)
	s.pdf.SetLineJoinStyle(joinStyles[options.Join])
	s.pdf.SetLineCapStyle(capStyles[options.Cap])
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f schemdraw.Filler, s schemdraw.Stroker) {
	if willFill {
		f = &filler{pather: pather{rd.pdf}, useNonZeroWinding: true}
	}
	if willStroke {
		s = stroker{pather{rd.pdf}}
	}
	return f, s
}

// DrawText writes the text with an embedded Go Regular font.
func (rd *Renderer) DrawText(op schemdraw.TextOp) {
	ext, err := fontface.Measure(op.Text, op.Size)
	if err != nil {
		logging.Logger().Warn("schempdf: text not drawn", "text", op.Text, "error", err)
		return
	}
	col := op.Color
	if col == nil {
		col = color.Black
	}
	r, g, b, a := rgba(col)
	rd.pdf.SetFont(fontFamily, "", op.Size)
	rd.pdf.SetTextColor(r, g, b)
	rd.pdf.SetAlpha(a, "Normal")

	x, y := op.X, op.Y
	switch op.HAlign {
	case schemdraw.AlignCenter:
		x -= ext.Width / 2
	case schemdraw.AlignRight:
		x -= ext.Width
	}
	switch op.VAlign { // y is the baseline
	case schemdraw.AlignTop:
		y += ext.Ascent
	case schemdraw.AlignMiddle:
		y += (ext.Ascent - ext.Descent) / 2
	case schemdraw.AlignBottom:
		y -= ext.Descent
	}
	rd.pdf.Text(x, y, op.Text)
}

// NewPage returns a one page document of the given size, in points,
// with no margin.
func NewPage(width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

// Write renders a closed drawing as a one page PDF document,
// sized to the drawing.
func Write(w io.Writer, d *schemdraw.Drawing) error {
	c, err := d.Canvas(1)
	if err != nil {
		return err
	}
	pdf := NewPage(c.Width, c.Height)
	if err := d.Draw(NewRenderer(pdf), c); err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("schempdf: %w", err)
	}
	logging.Logger().Debug("schempdf: drawing written", "width", c.Width, "height", c.Height)
	return nil
}
