// Implements a raster backend to render drawings,
// by wrapping rasterx.
package schemraster

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/schemfig/internal/fontface"
	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var _ schemdraw.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer paints on an RGBA image.
type Renderer struct {
	img    *image.RGBA
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer drawing into img.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(img *image.RGBA) *Renderer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	return &Renderer{
		img:    img,
		dasher: rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
		filler: rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
	}
}

type filler struct{ *rasterx.Filler }

func (f filler) SetColor(c color.Color) { f.Scanner.SetColor(c) }

type stroker struct{ *rasterx.Dasher }

func (s stroker) SetColor(c color.Color) { s.Scanner.SetColor(c) }

var (
	joinToJoin = [...]rasterx.JoinMode{
		schemdraw.Round: rasterx.Round,
		schemdraw.Bevel: rasterx.Bevel,
		schemdraw.Miter: rasterx.Miter,
	}

	capToFunc = [...]rasterx.CapFunc{
		schemdraw.RoundCap:  rasterx.RoundCap,
		schemdraw.ButtCap:   rasterx.ButtCap,
		schemdraw.SquareCap: rasterx.SquareCap,
	}
)

func (s stroker) SetStrokeOptions(options schemdraw.StrokeOptions) {
	capF := capToFunc[options.Cap]
	s.SetStroke(options.LineWidth, options.MiterLimit, capF, capF,
		rasterx.RoundGap, joinToJoin[options.Join], nil, 0)
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f schemdraw.Filler, s schemdraw.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// DrawText draws the text with the Go Regular font.
func (rd *Renderer) DrawText(op schemdraw.TextOp) {
	face, err := fontface.Face(op.Size)
	if err != nil {
		logging.Logger().Warn("schemraster: text not drawn", "text", op.Text, "error", err)
		return
	}
	defer face.Close()
	col := op.Color
	if col == nil {
		col = color.Black
	}
	dr := font.Drawer{Dst: rd.img, Src: image.NewUniform(col), Face: face}
	width := float64(dr.MeasureString(op.Text)) / 64
	m := face.Metrics()
	ascent, descent := float64(m.Ascent)/64, float64(m.Descent)/64

	x, y := op.X, op.Y
	switch op.HAlign {
	case schemdraw.AlignCenter:
		x -= width / 2
	case schemdraw.AlignRight:
		x -= width
	}
	switch op.VAlign { // y is the baseline
	case schemdraw.AlignTop:
		y += ascent
	case schemdraw.AlignMiddle:
		y += (ascent - descent) / 2
	case schemdraw.AlignBottom:
		y -= descent
	}
	dr.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	dr.DrawString(op.Text)
}

// Options controls the rasterization of a drawing.
type Options struct {
	DPI float64 // pixels per inch, 100 if zero
	// Background fills the image before drawing, nil
	// means transparent.
	Background color.Color
}

// ErrEmptyImage is returned when the drawing is too small to
// produce any pixel.
var ErrEmptyImage = errors.New("schemraster: drawing has no pixel")

// ImageData renders a closed drawing and returns its pixels.
func ImageData(d *schemdraw.Drawing, opts Options) (*image.RGBA, error) {
	dpi := opts.DPI
	if dpi == 0 {
		dpi = 100
	}
	c, err := d.Canvas(dpi / 72)
	if err != nil {
		return nil, err
	}
	w, h := int(math.Ceil(c.Width)), int(math.Ceil(c.Height))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}
	if err := d.Draw(NewRenderer(img), c); err != nil {
		return nil, err
	}
	logging.Logger().Debug("schemraster: drawing rasterized", "width", w, "height", h, "dpi", dpi)
	return img, nil
}
