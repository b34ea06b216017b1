// Package schemelm defines the circuit elements which can be
// placed on a drawing: wires, passive components, sources, junction dots.
//
// Elements are built by a constructor and tuned with chained modifiers:
//
//	schemelm.Resistor().Right().Label("R1")
//
// Each element describes its symbol in a local frame, along +x starting at the origin.
// Placing the element rotates and translates that frame.
package schemelm

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/benoitkugler/schemfig/schempath"
)

// Unit is the default length of two-terminal elements and wires.
const Unit = 3.

// LabelGap is the distance between a symbol and its label.
const LabelGap = 0.1

// ErrInvalidLength is returned when an element is given a length which
// is not strictly positive.
var ErrInvalidLength = errors.New("element length must be strictly positive")

var errNilElement = errors.New("nil element")

// LabelLoc selects the side of an element where a label is placed.
type LabelLoc uint8

const (
	Top    LabelLoc = iota // left of the direction of the element
	Bottom                 // right of the direction of the element
	Center                 // on the element itself
)

func (l LabelLoc) String() string {
	switch l {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Center:
		return "center"
	default:
		return "<unknown LabelLoc>"
	}
}

// Label is a text attached to an element.
type Label struct {
	Text string
	Loc  LabelLoc
}

// Stroke is a piece of symbol geometry.
type Stroke struct {
	Path schempath.Path
	Fill bool // filled with the element color instead of stroked
}

type kind uint8

const (
	twoTerminal kind = iota // stretched between a start and an end, moves the cursor
	oneTerminal             // hangs from the cursor, does not move it
)

// Element is a schematic symbol, not yet placed.
// The zero value is not usable: use one of the constructors.
type Element struct {
	name       string
	kind       kind
	body       []Stroke                   // local geometry, from x = 0 to x = bodyLen
	bodyLen    float64                    // size of the body along the axis
	halfHeight float64                    // extent of the body on each side of the axis
	anchors    map[string]schempath.Point // body local anchors

	length   float64 // 0 means Unit
	theta    float64 // degrees
	hasTheta bool
	at, to   *schempath.Point
	labels   []Label
	color    color.Color
	err      error
}

func newElement(name string, k kind, bodyLen, halfHeight float64, body ...Stroke) *Element {
	return &Element{name: name, kind: k, bodyLen: bodyLen, halfHeight: halfHeight, body: body}
}

// Name returns the kind of symbol, such as "Resistor".
func (e *Element) Name() string { return e.name }

func (e *Element) String() string {
	if len(e.labels) != 0 {
		return fmt.Sprintf("%s(%s)", e.name, e.labels[0].Text)
	}
	return e.name
}

// Theta sets the direction of the element, in degrees counter clockwise
// from the +x axis.
func (e *Element) Theta(deg float64) *Element {
	e.theta, e.hasTheta = deg, true
	return e
}

func (e *Element) Right() *Element { return e.Theta(0) }
func (e *Element) Up() *Element    { return e.Theta(90) }
func (e *Element) Left() *Element  { return e.Theta(180) }
func (e *Element) Down() *Element  { return e.Theta(-90) }

// Length sets the distance between the start and the end of the element.
func (e *Element) Length(l float64) *Element {
	if !(l > 0) || math.IsInf(l, 1) {
		e.err = fmt.Errorf("%s: %w (got %g)", e.name, ErrInvalidLength, l)
		return e
	}
	e.length = l
	return e
}

// Label adds a text on the top side of the element.
func (e *Element) Label(text string) *Element {
	return e.LabelLoc(text, Top)
}

// LabelLoc adds a text on the given side of the element.
func (e *Element) LabelLoc(text string, loc LabelLoc) *Element {
	e.labels = append(e.labels, Label{Text: text, Loc: loc})
	return e
}

// At places the element at p instead of the current drawing position.
func (e *Element) At(p schempath.Point) *Element {
	e.at = &p
	return e
}

// To makes a two-terminal element end at p. Direction and length
// are deduced from the start point and p.
func (e *Element) To(p schempath.Point) *Element {
	e.to = &p
	return e
}

// Color sets the color used for the element and its labels.
func (e *Element) Color(c color.Color) *Element {
	e.color = c
	return e
}

// Labels returns the labels attached to the element.
func (e *Element) Labels() []Label { return e.labels }

// Err returns the first error recorded by the modifiers.
func (e *Element) Err() error { return e.err }

// PlacedLabel is a label in drawing coordinates.
type PlacedLabel struct {
	Label
	Pos schempath.Point
	// Side is the unit vector pointing from the element to the label,
	// zero for centered labels.
	Side schempath.Point
}

// Placement is the result of positionning an element on a drawing.
type Placement struct {
	Element *Element
	Strokes []Stroke // in drawing coordinates
	Labels  []PlacedLabel
	Anchors map[string]schempath.Point
	Start   schempath.Point
	End     schempath.Point
	Theta   float64 // degrees
	// MovesCursor is true if the drawing position should be moved to End.
	MovesCursor bool
	Color       color.Color // nil for the drawing default
}

// Place positions the element, starting at `here` (unless the element
// has its own start) and going in direction `theta` (degrees) unless
// the element has its own direction.
// `unit` is the length used when none has been set on the element;
// a value <= 0 means Unit. The element itself is not modified.
func (e *Element) Place(here schempath.Point, theta, unit float64) (Placement, error) {
	if e == nil {
		return Placement{}, errNilElement
	}
	if e.err != nil {
		return Placement{}, e.err
	}
	start := here
	if e.at != nil {
		start = *e.at
	}
	if e.hasTheta {
		theta = e.theta
	} else if e.kind == oneTerminal {
		// hanging symbols are drawn in their natural orientation
		theta = 0
	}
	length := e.length
	if length == 0 {
		length = unit
	}
	if !(length > 0) || math.IsInf(length, 1) {
		length = Unit
	}
	if e.to != nil && e.kind == twoTerminal {
		v := e.to.Sub(start)
		length = math.Hypot(v.X, v.Y)
		if length == 0 {
			return Placement{}, fmt.Errorf("%s: %w (end point equals start point)", e.name, ErrInvalidLength)
		}
		theta = math.Atan2(v.Y, v.X) * 180 / math.Pi
	}

	m := schempath.Identity.Translate(start.X, start.Y).Rotate(theta * math.Pi / 180)
	pl := Placement{
		Element:     e,
		Start:       start,
		Theta:       theta,
		Color:       e.color,
		MovesCursor: e.kind == twoTerminal,
		Anchors:     map[string]schempath.Point{},
	}

	var (
		local       []Stroke
		labelAnchor schempath.Point
		bodyOffset  float64
	)
	switch e.kind {
	case twoTerminal:
		lead := math.Max(0, (length-e.bodyLen)/2)
		bodyOffset = lead
		if len(e.body) == 0 { // plain wire
			local = append(local, wire(0, length))
		} else if lead > 0 {
			local = append(local, wire(0, lead), wire(lead+e.bodyLen, length))
		}
		labelAnchor = schempath.Point{X: length / 2}
		pl.End = m.Transform(schempath.Point{X: length})
		pl.Anchors["center"] = m.Transform(labelAnchor)
	case oneTerminal:
		pl.End = start
		box := schempath.EmptyRect()
		for _, st := range e.body {
			box = box.Union(st.Path.Bounds())
		}
		if !box.Empty() {
			labelAnchor = schempath.Point{X: (box.Min.X + box.Max.X) / 2, Y: (box.Min.Y + box.Max.Y) / 2}
		}
		pl.Anchors["center"] = m.Transform(labelAnchor)
	}
	pl.Anchors["start"] = pl.Start
	pl.Anchors["end"] = pl.End

	toBody := schempath.Identity.Translate(bodyOffset, 0)
	for _, st := range e.body {
		local = append(local, Stroke{Path: st.Path.Transform(toBody), Fill: st.Fill})
	}
	for name, p := range e.anchors {
		pl.Anchors[name] = m.Transform(toBody.Transform(p))
	}
	for _, st := range local {
		pl.Strokes = append(pl.Strokes, Stroke{Path: st.Path.Transform(m), Fill: st.Fill})
	}

	for _, lb := range e.labels {
		var side schempath.Point
		switch lb.Loc {
		case Top:
			side = schempath.Point{Y: 1}
		case Bottom:
			side = schempath.Point{Y: -1}
		}
		pos := labelAnchor.Add(side.Mul(e.halfHeight + LabelGap))
		pl.Labels = append(pl.Labels, PlacedLabel{
			Label: lb,
			Pos:   m.Transform(pos),
			Side:  m.TransformVector(side),
		})
	}
	return pl, nil
}

func wire(from, to float64) Stroke {
	var p schempath.Path
	p.AddPolyline(false, schempath.Point{X: from}, schempath.Point{X: to})
	return Stroke{Path: p}
}
