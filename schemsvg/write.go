// Package schemsvg reads and writes SVG documents: a closed drawing
// may be exported, and custom element symbols may be loaded from
// SVG line art.
package schemsvg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"

	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/benoitkugler/schemfig/schempath"
	"golang.org/x/image/math/fixed"
)

var _ schemdraw.Driver = (*Renderer)(nil) // assert interface conformance

// Renderer writes SVG elements, one per path or text.
type Renderer struct {
	w   *bufio.Writer
	err error
}

func (rd *Renderer) printf(format string, args ...interface{}) {
	if rd.err != nil {
		return
	}
	_, rd.err = fmt.Fprintf(rd.w, format, args...)
}

// pather accumulates the path sent by the drawing
type pather struct {
	rd   *Renderer
	path schempath.Path
	fill bool

	color   color.Color
	options schemdraw.StrokeOptions
}

func (p *pather) Clear()                                     { p.path.Clear() }
func (p *pather) Start(a fixed.Point26_6)                    { p.path.Start(schempath.FixedToPoint(a)) }
func (p *pather) Line(b fixed.Point26_6)                     { p.path.Line(schempath.FixedToPoint(b)) }
func (p *pather) Stop(closeLoop bool)                        { p.path.Stop(closeLoop) }
func (p *pather) SetColor(c color.Color)                     { p.color = c }
func (p *pather) SetWinding(bool)                            {}
func (p *pather) SetStrokeOptions(o schemdraw.StrokeOptions) { p.options = o }

func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	p.path.QuadBezier(schempath.FixedToPoint(b), schempath.FixedToPoint(c))
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	p.path.CubeBezier(schempath.FixedToPoint(b), schempath.FixedToPoint(c), schempath.FixedToPoint(d))
}

func (p *pather) Draw() {
	hex, opacity := svgColor(p.color)
	if p.fill {
		p.rd.printf("<path d=\"%s\" fill=\"%s\" fill-opacity=\"%g\" stroke=\"none\"/>\n", p.path.ToSVGPath(), hex, opacity)
		return
	}
	p.rd.printf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-opacity=\"%g\" stroke-width=\"%.3f\" stroke-linejoin=\"%s\" stroke-linecap=\"%s\"/>\n",
		p.path.ToSVGPath(), hex, opacity, float64(p.options.LineWidth)/64,
		joinStyles[p.options.Join], capStyles[p.options.Cap])
}

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
	anchors = [...]string{
		schemdraw.AlignCenter: "middle",
		schemdraw.AlignLeft:   "start",
		schemdraw.AlignRight:  "end",
	}
	baselines = [...]string{
		schemdraw.AlignMiddle: "central",
		schemdraw.AlignTop:    "hanging",
		schemdraw.AlignBottom: "text-after-edge",
	}
)

// svgColor returns the #rrggbb notation and the opacity of c
func svgColor(c color.Color) (string, float64) {
	if c == nil {
		c = color.Black
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f schemdraw.Filler, s schemdraw.Stroker) {
	if willFill {
		f = &pather{rd: rd, fill: true}
	}
	if willStroke {
		s = &pather{rd: rd}
	}
	return f, s
}

func (rd *Renderer) DrawText(op schemdraw.TextOp) {
	hex, opacity := svgColor(op.Color)
	rd.printf("<text x=\"%.3f\" y=\"%.3f\" font-family=\"Go, sans-serif\" font-size=\"%.3f\" text-anchor=\"%s\" dominant-baseline=\"%s\" fill=\"%s\" fill-opacity=\"%g\">",
		op.X, op.Y, op.Size, anchors[op.HAlign], baselines[op.VAlign], hex, opacity)
	if rd.err == nil {
		rd.err = xml.EscapeText(rd.w, []byte(op.Text))
	}
	rd.printf("</text>\n")
}

// Write outputs a standalone SVG document for the closed drawing `d`.
// Lengths are expressed in points.
func Write(w io.Writer, d *schemdraw.Drawing) error {
	c, err := d.Canvas(1)
	if err != nil {
		return err
	}
	rd := &Renderer{w: bufio.NewWriter(w)}
	rd.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	rd.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.3fpt\" height=\"%.3fpt\" viewBox=\"0 0 %.3f %.3f\">\n",
		c.Width, c.Height, c.Width, c.Height)
	if err := d.Draw(rd, c); err != nil {
		return err
	}
	rd.printf("</svg>\n")
	if rd.err != nil {
		return fmt.Errorf("schemsvg: %w", rd.err)
	}
	return rd.w.Flush()
}
