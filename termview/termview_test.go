package termview

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDisplay(t *testing.T) {
	s := newScreen(t, 20, 10)
	// twice as wide as high: fills the width, half of the height
	Display(s, uniform(40, 20, color.RGBA{R: 255, A: 255}))

	cells, w, h := s.GetContents()
	require.Equal(t, 20, w)
	require.Equal(t, 10, h)

	painted := 0
	for _, c := range cells {
		if len(c.Runes) != 0 && c.Runes[0] == upperHalf {
			painted++
			fg, bg, _ := c.Style.Decompose()
			for _, col := range []tcell.Color{fg, bg} {
				r, g, b := col.RGB()
				assert.Greater(t, r, int32(250))
				assert.Less(t, g+b, int32(5))
			}
		}
	}
	assert.Equal(t, 20*5, painted)

	// centered vertically
	first := cells[0]
	assert.NotEqual(t, upperHalf, firstRune(first))
	middle := cells[5*w+10]
	assert.Equal(t, upperHalf, firstRune(middle))
}

func firstRune(c tcell.SimCell) rune {
	if len(c.Runes) == 0 {
		return 0
	}
	return c.Runes[0]
}

func TestTransparent(t *testing.T) {
	s := newScreen(t, 4, 2)
	Display(s, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	cells, _, _ := s.GetContents()
	fg, bg, _ := cells[0].Style.Decompose()
	assert.Equal(t, tcell.ColorDefault, fg)
	assert.Equal(t, tcell.ColorDefault, bg)
}

func TestEmptyImage(t *testing.T) {
	s := newScreen(t, 4, 2)
	Display(s, image.NewRGBA(image.Rect(0, 0, 0, 0)))
	cells, _, _ := s.GetContents()
	for _, c := range cells {
		assert.NotEqual(t, upperHalf, firstRune(c))
	}
}

func TestRunQuits(t *testing.T) {
	s := newScreen(t, 10, 5)
	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	run(s, uniform(10, 10, color.White))

	cells, _, _ := s.GetContents()
	assert.Equal(t, upperHalf, firstRune(cells[2*10+5]))
}
