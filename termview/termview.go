// Package termview displays images in a terminal, two pixels
// per character cell.
package termview

import (
	"image"
	"math"

	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// upperHalf is painted with the foreground color for the top
// pixel, and the background color for the bottom one
const upperHalf = '▀'

// Display clears the screen and paints img, scaled to fit
// while preserving its aspect ratio, and centered.
func Display(s tcell.Screen, img image.Image) {
	s.Clear()
	cols, rows := s.Size()
	src := img.Bounds()
	if cols <= 0 || rows <= 0 || src.Empty() {
		s.Show()
		return
	}
	// pixel grid of the screen
	pw, ph := cols, 2*rows
	scale := math.Min(float64(pw)/float64(src.Dx()), float64(ph)/float64(src.Dy()))
	dw := max(1, int(float64(src.Dx())*scale))
	dh := max(1, int(float64(src.Dy())*scale))

	scaled := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, src, draw.Src, nil)

	offX := (pw - dw) / 2
	offY := (ph - dh) / 2 &^ 1 // start on a cell boundary
	for y := 0; y < dh; y += 2 {
		for x := 0; x < dw; x++ {
			top := cellColor(scaled, x, y)
			bottom := cellColor(scaled, x, y+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.SetContent(offX+x, (offY+y)/2, upperHalf, nil, style)
		}
	}
	s.Show()
	logging.Logger().Debug("termview: image displayed", "cols", cols, "rows", rows, "width", dw, "height", dh)
}

// cellColor returns the terminal color of a pixel, transparent
// and out of bounds pixels using the terminal default
func cellColor(img *image.RGBA, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return tcell.ColorDefault
	}
	c := img.RGBAAt(x, y)
	if c.A == 0 {
		return tcell.ColorDefault
	}
	// un-premultiply
	r, g, b := int32(c.R), int32(c.G), int32(c.B)
	if c.A != 0xff {
		a := int32(c.A)
		r, g, b = r*0xff/a, g*0xff/a, b*0xff/a
	}
	return tcell.NewRGBColor(r, g, b)
}

// Show opens the terminal, displays img and waits for
// q, Escape or Enter to be pressed. The image is repainted when the
// terminal is resized.
func Show(img image.Image) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()
	run(s, img)
	return nil
}

func run(s tcell.Screen, img image.Image) {
	Display(s, img)
	for {
		switch ev := s.PollEvent().(type) {
		case nil: // screen finalized
			return
		case *tcell.EventResize:
			s.Sync()
			Display(s, img)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyEnter ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return
			}
		}
	}
}
