// Package figure composes images into a grid of panels, and
// saves or displays the result.
//
//	fig, axes, err := figure.Subplots(1, 2, figure.WithFigSize(10, 5))
//	axes[0].ImShow(img1)
//	axes[1].ImShow(img2)
//	axes[0].AxisOff()
//	err = fig.Show()
package figure

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/benoitkugler/schemfig/internal/logging"
	"golang.org/x/image/draw"
)

var (
	// ErrPanelIndex is returned when accessing a non existing panel.
	ErrPanelIndex = errors.New("panel index out of range")
	// ErrUnknownFormat is returned by SaveFig for an unsupported file extension.
	ErrUnknownFormat = errors.New("unknown image format")
)

// subplot parameters, as fractions of the figure size
const (
	marginLeft   = .125
	marginRight  = .9
	marginBottom = .11
	marginTop    = .88
	wspace       = .2
	hspace       = .2
)

// Figure is a grid of panels.
type Figure struct {
	cfg          Config
	nrows, ncols int
	axes         []*Axes
}

// Axes is one panel of a figure.
type Axes struct {
	img    image.Image
	axisOn bool
	title  string
}

// Option configures a figure.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option { return func(c *Config) { *c = cfg } }

// WithFigSize sets the figure size, in inches.
func WithFigSize(width, height float64) Option {
	return func(c *Config) { c.FigSize = []float64{width, height} }
}

// WithDPI sets the resolution of the rendered figure.
func WithDPI(dpi float64) Option { return func(c *Config) { c.DPI = dpi } }

// Subplots creates a figure with nrows x ncols panels, and returns
// them in row-major order. The axis of each panel is visible by default.
func Subplots(nrows, ncols int, opts ...Option) (*Figure, []*Axes, error) {
	if nrows <= 0 || ncols <= 0 {
		return nil, nil, fmt.Errorf("invalid grid %dx%d", nrows, ncols)
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	fig := &Figure{cfg: cfg, nrows: nrows, ncols: ncols}
	for i := 0; i < nrows*ncols; i++ {
		fig.axes = append(fig.axes, &Axes{axisOn: true})
	}
	out := make([]*Axes, len(fig.axes))
	copy(out, fig.axes)
	return fig, out, nil
}

// ImShow sets the image displayed by the panel.
func (ax *Axes) ImShow(img image.Image) { ax.img = img }

// Image returns the image shown, or nil.
func (ax *Axes) Image() image.Image { return ax.img }

// AxisOff hides the frame, ticks and tick labels.
func (ax *Axes) AxisOff() { ax.axisOn = false }

// AxisOn shows the frame, ticks and tick labels.
func (ax *Axes) AxisOn() { ax.axisOn = true }

// AxisVisible returns true if the axis decorations are drawn.
func (ax *Axes) AxisVisible() bool { return ax.axisOn }

// SetTitle sets a text drawn above the panel.
func (ax *Axes) SetTitle(title string) { ax.title = title }

func (ax *Axes) Title() string { return ax.title }

// Config returns the settings of the figure.
func (fig *Figure) Config() Config { return fig.cfg }

// Len returns the number of panels.
func (fig *Figure) Len() int { return len(fig.axes) }

// Axes returns the i-th panel, in row-major order.
func (fig *Figure) Axes(i int) (*Axes, error) {
	if i < 0 || i >= len(fig.axes) {
		return nil, fmt.Errorf("%w: %d (figure has %d)", ErrPanelIndex, i, len(fig.axes))
	}
	return fig.axes[i], nil
}

// Size returns the size of the rendered figure, in pixels.
func (fig *Figure) Size() (width, height int) {
	return int(math.Round(fig.cfg.FigSize[0] * fig.cfg.DPI)), int(math.Round(fig.cfg.FigSize[1] * fig.cfg.DPI))
}

// cell returns the area allocated to the i-th panel, in pixels.
func (fig *Figure) cell(i int) image.Rectangle {
	w, h := fig.Size()
	W, H := float64(w), float64(h)
	availW := (marginRight - marginLeft) * W
	availH := (marginTop - marginBottom) * H
	cellW := availW / (float64(fig.ncols) + wspace*float64(fig.ncols-1))
	cellH := availH / (float64(fig.nrows) + hspace*float64(fig.nrows-1))

	row, col := i/fig.ncols, i%fig.ncols
	x0 := marginLeft*W + float64(col)*cellW*(1+wspace)
	y0 := (1-marginTop)*H + float64(row)*cellH*(1+hspace)
	return image.Rect(int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+cellW)), int(math.Round(y0+cellH)))
}

// fit returns the largest rectangle with the aspect ratio of src,
// centered in cell
func fit(src, cell image.Rectangle) (image.Rectangle, float64) {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	scale := math.Min(float64(cell.Dx())/sw, float64(cell.Dy())/sh)
	dw, dh := int(math.Round(sw*scale)), int(math.Round(sh*scale))
	x0 := cell.Min.X + (cell.Dx()-dw)/2
	y0 := cell.Min.Y + (cell.Dy()-dh)/2
	return image.Rect(x0, y0, x0+dw, y0+dh), scale
}

// Render paints the figure: background, then each panel.
func (fig *Figure) Render() (*image.RGBA, error) {
	w, h := fig.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bg, err := fig.cfg.faceColor()
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, ax := range fig.axes {
		cell := fig.cell(i)
		area := cell
		scale := 1.
		if ax.img != nil && !ax.img.Bounds().Empty() {
			area, scale = fit(ax.img.Bounds(), cell)
			draw.CatmullRom.Scale(dst, area, ax.img, ax.img.Bounds(), draw.Over, nil)
		}
		fig.decorate(dst, ax, area, scale)
		logging.Logger().Debug("figure: panel rendered", "index", i, "area", area, "axis", ax.axisOn)
	}
	return dst, nil
}
