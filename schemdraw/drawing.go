// Package schemdraw builds circuit diagrams: elements from
// package schemelm are appended one after the other, each one starting
// where the previous one ended.
//
//	d := schemdraw.New()
//	d.Add(schemelm.SourceV().Up())
//	d.Add(schemelm.Resistor().Right().Label("R1"))
//	err := d.Close()
//
// A closed drawing can then be replayed on a backend, see
// packages schemraster, schempdf and schemsvg.
package schemdraw

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/benoitkugler/schemfig/internal/fontface"
	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schempath"
)

var (
	// ErrClosed is returned when modifying a drawing after Close.
	ErrClosed = errors.New("drawing is closed")
	// ErrNotClosed is returned when rendering a drawing before Close.
	ErrNotClosed = errors.New("drawing is not closed")
	// ErrEmptyStack is returned by Pop without a matching Push.
	ErrEmptyStack = errors.New("pop without push")
)

// pointsPerInch is the size of the device unit used for measures.
const pointsPerInch = 72.

// Config stores the drawing defaults.
type Config struct {
	Unit          float64     // default length of elements, in drawing units
	InchesPerUnit float64     // physical size of a drawing unit
	FontSize      float64     // in points
	LineWidth     float64     // in points
	Margin        float64     // around the elements, in drawing units
	Color         color.Color // default color for elements and labels
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		Unit:          schemelm.Unit,
		InchesPerUnit: .5,
		FontSize:      14,
		LineWidth:     2,
		Margin:        .1,
		Color:         color.Black,
	}
}

// Option configures a Drawing.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cf Config) Option { return func(c *Config) { *c = cf } }

// WithUnit sets the default length of elements.
func WithUnit(u float64) Option { return func(c *Config) { c.Unit = u } }

// WithInchesPerUnit sets the physical size of a drawing unit.
func WithInchesPerUnit(in float64) Option { return func(c *Config) { c.InchesPerUnit = in } }

// WithFontSize sets the label font size, in points.
func WithFontSize(pt float64) Option { return func(c *Config) { c.FontSize = pt } }

// WithLineWidth sets the element line width, in points.
func WithLineWidth(pt float64) Option { return func(c *Config) { c.LineWidth = pt } }

// WithMargin sets the space around the elements, in drawing units.
func WithMargin(m float64) Option { return func(c *Config) { c.Margin = m } }

// WithColor sets the default color.
func WithColor(col color.Color) Option { return func(c *Config) { c.Color = col } }

func (c Config) validate() error {
	for _, v := range [...]struct {
		name  string
		value float64
	}{
		{"unit", c.Unit},
		{"inches per unit", c.InchesPerUnit},
		{"font size", c.FontSize},
		{"line width", c.LineWidth},
	} {
		if !(v.value > 0) || math.IsInf(v.value, 1) {
			return fmt.Errorf("invalid %s: %g", v.name, v.value)
		}
	}
	if !(c.Margin >= 0) {
		return fmt.Errorf("invalid margin: %g", c.Margin)
	}
	return nil
}

// pointsPerUnit returns the size of a drawing unit in points.
func (c Config) pointsPerUnit() float64 { return c.InchesPerUnit * pointsPerInch }

// Placed is an element positioned on a drawing.
type Placed struct {
	schemelm.Placement
}

// Anchor returns the named anchor, in drawing coordinates.
func (p *Placed) Anchor(name string) (schempath.Point, bool) {
	pt, ok := p.Anchors[name]
	return pt, ok
}

type cursor struct {
	here  schempath.Point
	theta float64
}

// Drawing is a diagram under construction. Elements are added
// with Add, until Close freezes the layout.
//
// Errors are sticky: the first failure is remembered, the following
// operations are ignored, and Close returns it.
type Drawing struct {
	cfg   Config
	cur   cursor
	stack []cursor

	elements []*Placed

	closed bool
	err    error
	bounds schempath.Rect // of the elements and labels, without margin
}

// New opens a diagram, with the cursor at the origin, going right.
func New(opts ...Option) *Drawing {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Drawing{cfg: cfg}
	if err := cfg.validate(); err != nil {
		d.err = fmt.Errorf("schemdraw: %w", err)
	}
	return d
}

// Config returns the configuration of the drawing.
func (d *Drawing) Config() Config { return d.cfg }

// Err returns the first error encountered, if any.
func (d *Drawing) Err() error { return d.err }

func (d *Drawing) setErr(err error) {
	if d.err == nil {
		d.err = err
		logging.Logger().Debug("schemdraw: drawing failed", "error", err)
	}
}

// checkOpen records an error if the drawing is closed
// and returns false if the operation should be skipped.
func (d *Drawing) checkOpen() bool {
	if d.closed {
		d.setErr(ErrClosed)
		return false
	}
	return d.err == nil
}

// Add places e at the cursor (or where e says), and moves the cursor
// to its end for two-terminal elements. If e has no direction, the
// direction of the previous element is used.
// The returned value is never nil, but is empty on error.
func (d *Drawing) Add(e *schemelm.Element) *Placed {
	if !d.checkOpen() {
		return &Placed{}
	}
	pl, err := e.Place(d.cur.here, d.cur.theta, d.cfg.Unit)
	if err != nil {
		d.setErr(fmt.Errorf("element %d: %w", len(d.elements), err))
		return &Placed{}
	}
	if pl.MovesCursor {
		d.cur = cursor{here: pl.End, theta: pl.Theta}
	}
	out := &Placed{Placement: pl}
	d.elements = append(d.elements, out)
	return out
}

// Here returns the current position.
func (d *Drawing) Here() schempath.Point { return d.cur.here }

// Theta returns the current direction, in degrees.
func (d *Drawing) Theta() float64 { return d.cur.theta }

// Push saves the cursor, to be restored by Pop.
func (d *Drawing) Push() {
	if !d.checkOpen() {
		return
	}
	d.stack = append(d.stack, d.cur)
}

// Pop restores the cursor saved by the last Push.
func (d *Drawing) Pop() {
	if !d.checkOpen() {
		return
	}
	if len(d.stack) == 0 {
		d.setErr(ErrEmptyStack)
		return
	}
	d.cur = d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
}

// MoveTo moves the cursor without drawing.
func (d *Drawing) MoveTo(p schempath.Point) {
	if !d.checkOpen() {
		return
	}
	d.cur.here = p
}

// Elements returns the elements added so far.
func (d *Drawing) Elements() []*Placed { return d.elements }

// Closed returns true once Close has been called successfully.
func (d *Drawing) Closed() bool { return d.closed }

// Close finalizes the layout. The drawing can't be modified anymore,
// and can be rendered. There is no requirement that the elements
// form a closed loop.
// Close may be called several times, and returns the first
// error encountered while building the drawing.
func (d *Drawing) Close() error {
	if d.closed || d.err != nil {
		return d.err
	}
	bounds, err := d.computeBounds()
	if err != nil {
		d.setErr(err)
		return d.err
	}
	d.bounds = bounds
	d.closed = true
	logging.Logger().Debug("schemdraw: drawing closed", "elements", len(d.elements),
		"width", bounds.Width(), "height", bounds.Height())
	return nil
}

// Bounds returns the extent of the closed drawing, in drawing units,
// without the margin.
func (d *Drawing) Bounds() (schempath.Rect, error) {
	if !d.closed {
		return schempath.Rect{}, ErrNotClosed
	}
	return d.bounds, nil
}

func (d *Drawing) computeBounds() (schempath.Rect, error) {
	box := schempath.EmptyRect()
	for _, el := range d.elements {
		for _, st := range el.Strokes {
			box = box.Union(st.Path.Bounds())
		}
	}
	// strokes have a width
	box = box.Inset(-d.cfg.LineWidth / 2 / d.cfg.pointsPerUnit())

	for _, el := range d.elements {
		for _, lb := range el.Labels {
			r, err := d.labelRect(lb)
			if err != nil {
				return box, err
			}
			box = box.Union(r)
		}
	}
	if box.Empty() { // nothing to draw
		box = schempath.Rect{}
	}
	return box, nil
}

// labelAlign returns the alignment of a label,
// so that its text sits on the side of the element.
func labelAlign(side schempath.Point) (HAlign, VAlign) {
	const eps = 1e-9
	switch {
	case math.Abs(side.X) < eps && math.Abs(side.Y) < eps:
		return AlignCenter, AlignMiddle
	case math.Abs(side.Y) >= math.Abs(side.X):
		if side.Y > 0 { // text above the anchor
			return AlignCenter, AlignBottom
		}
		return AlignCenter, AlignTop
	case side.X > 0:
		return AlignLeft, AlignMiddle
	default:
		return AlignRight, AlignMiddle
	}
}

// labelRect returns the extent of the label text, in drawing units (y up).
func (d *Drawing) labelRect(lb schemelm.PlacedLabel) (schempath.Rect, error) {
	ext, err := fontface.Measure(lb.Text, d.cfg.FontSize)
	if err != nil {
		return schempath.Rect{}, fmt.Errorf("measuring label %q: %w", lb.Text, err)
	}
	ppu := d.cfg.pointsPerUnit()
	w, h := ext.Width/ppu, (ext.Ascent+ext.Descent)/ppu

	var r schempath.Rect
	ha, va := labelAlign(lb.Side)
	switch ha {
	case AlignCenter:
		r.Min.X, r.Max.X = lb.Pos.X-w/2, lb.Pos.X+w/2
	case AlignLeft:
		r.Min.X, r.Max.X = lb.Pos.X, lb.Pos.X+w
	case AlignRight:
		r.Min.X, r.Max.X = lb.Pos.X-w, lb.Pos.X
	}
	switch va {
	case AlignMiddle:
		r.Min.Y, r.Max.Y = lb.Pos.Y-h/2, lb.Pos.Y+h/2
	case AlignBottom:
		r.Min.Y, r.Max.Y = lb.Pos.Y, lb.Pos.Y+h
	case AlignTop:
		r.Min.Y, r.Max.Y = lb.Pos.Y-h, lb.Pos.Y
	}
	return r, nil
}
