package figure

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/benoitkugler/schemfig/schempath"
	"github.com/benoitkugler/schemfig/schemraster"
	"golang.org/x/image/math/fixed"
)

// decoration sizes, in points
const (
	frameWidth    = .8
	tickLength    = 3.5
	tickPad       = 3.5
	tickLabelSize = 10
	titleSize     = 12
	titlePad      = 6
	maxTicks      = 6
)

// niceStep returns a step of the form {1, 2, 5} x 10^k
// giving at most maxTicks ticks over [0, n).
func niceStep(n int) int {
	for mag := 1; ; mag *= 10 {
		for _, f := range [...]int{1, 2, 5} {
			step := f * mag
			if (n-1)/step+1 <= maxTicks {
				return step
			}
		}
	}
}

// ticks returns the pixel indices to label along a side of n pixels.
func ticks(n int) []int {
	if n <= 0 {
		return nil
	}
	step := niceStep(n)
	var out []int
	for v := 0; v < n; v += step {
		out = append(out, v)
	}
	return out
}

// decorate draws the title, and the frame, ticks and tick
// labels if the axis is visible.
// `scale` is the number of figure pixels per image pixel.
func (fig *Figure) decorate(dst *image.RGBA, ax *Axes, area image.Rectangle, scale float64) {
	pt := fig.cfg.DPI / 72 // pixels per point
	rd := schemraster.NewRenderer(dst)
	if ax.title != "" {
		rd.DrawText(schemdraw.TextOp{
			Text:   ax.title,
			X:      float64(area.Min.X+area.Max.X) / 2,
			Y:      float64(area.Min.Y) - titlePad*pt,
			Size:   titleSize * pt,
			Color:  color.Black,
			HAlign: schemdraw.AlignCenter,
			VAlign: schemdraw.AlignBottom,
		})
	}
	if !ax.axisOn {
		return
	}

	var lines schempath.Path
	x0, y0 := float64(area.Min.X), float64(area.Min.Y)
	x1, y1 := float64(area.Max.X), float64(area.Max.Y)
	lines.AddRect(x0, y0, x1, y1)

	tl := tickLength * pt
	labelSize := tickLabelSize * pt
	var labels []schemdraw.TextOp
	if ax.img != nil {
		b := ax.img.Bounds()
		for _, v := range ticks(b.Dx()) {
			x := x0 + (float64(v)+.5)*scale
			lines.AddPolyline(false, schempath.Point{X: x, Y: y1}, schempath.Point{X: x, Y: y1 + tl})
			labels = append(labels, schemdraw.TextOp{
				Text: strconv.Itoa(v), X: x, Y: y1 + tl + tickPad*pt, Size: labelSize,
				Color: color.Black, HAlign: schemdraw.AlignCenter, VAlign: schemdraw.AlignTop,
			})
		}
		for _, v := range ticks(b.Dy()) {
			y := y0 + (float64(v)+.5)*scale
			lines.AddPolyline(false, schempath.Point{X: x0, Y: y}, schempath.Point{X: x0 - tl, Y: y})
			labels = append(labels, schemdraw.TextOp{
				Text: strconv.Itoa(v), X: x0 - tl - tickPad*pt, Y: y, Size: labelSize,
				Color: color.Black, HAlign: schemdraw.AlignRight, VAlign: schemdraw.AlignMiddle,
			})
		}
	}

	_, stroker := rd.SetupDrawers(false, true)
	stroker.Clear()
	stroker.SetStrokeOptions(schemdraw.StrokeOptions{
		LineWidth:  fixed.Int26_6(math.Max(1, frameWidth*pt) * 64),
		MiterLimit: fixed.I(4),
		Join:       schemdraw.Miter,
		Cap:        schemdraw.ButtCap,
	})
	lines.DrawTo(stroker, schempath.Identity)
	stroker.SetColor(color.Black)
	stroker.Draw()

	for _, op := range labels {
		rd.DrawText(op)
	}
}
