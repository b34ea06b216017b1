package schemelm

import (
	"fmt"
	"math"

	"github.com/benoitkugler/schemfig/schempath"
)

// symbol sizes, in drawing units
const (
	resWidth   = 1.   // resistor body
	resHeight  = .25  // resistor zigzag amplitude
	capGap     = .24  // distance between capacitor plates
	capHeight  = .4   // capacitor plate half height
	srcRadius  = .5   // source circle
	dotRadius  = .075 // junction dot
	gndLead    = .4
	gndSpacing = .12
)

type pt = schempath.Point

func polyline(closed bool, pts ...pt) Stroke {
	var p schempath.Path
	p.AddPolyline(closed, pts...)
	return Stroke{Path: p}
}

func circle(c pt, r float64, fill bool) Stroke {
	var p schempath.Path
	p.AddCircle(c, r)
	return Stroke{Path: p, Fill: fill}
}

// Line is a plain wire.
func Line() *Element {
	return newElement("Line", twoTerminal, 0, 0)
}

// Resistor is drawn as a zigzag.
func Resistor() *Element {
	const step = resWidth / 12
	pts := []pt{{X: 0}}
	for i, x := range []float64{1, 3, 5, 7, 9, 11} {
		y := resHeight
		if i%2 == 1 {
			y = -resHeight
		}
		pts = append(pts, pt{X: x * step, Y: y})
	}
	pts = append(pts, pt{X: resWidth})
	return newElement("Resistor", twoTerminal, resWidth, resHeight, polyline(false, pts...))
}

// ResistorIEC is a resistor drawn as a box.
func ResistorIEC() *Element {
	const h = resHeight * .7
	var p schempath.Path
	p.AddRect(0, -h, resWidth, h)
	return newElement("ResistorIEC", twoTerminal, resWidth, h, Stroke{Path: p})
}

// Capacitor is drawn as two parallel plates.
func Capacitor() *Element {
	return newElement("Capacitor", twoTerminal, capGap, capHeight,
		polyline(false, pt{X: 0, Y: -capHeight}, pt{X: 0, Y: capHeight}),
		polyline(false, pt{X: capGap, Y: -capHeight}, pt{X: capGap, Y: capHeight}),
	)
}

// Inductor is drawn as four loops.
func Inductor() *Element {
	const loops = 4
	r := resWidth / loops / 2
	var p schempath.Path
	for i := 0; i < loops; i++ {
		// from the left of the loop, over the top, clockwise
		p.AddCircularArc(pt{X: r + 2*r*float64(i)}, r, math.Pi, -math.Pi)
	}
	return newElement("Inductor", twoTerminal, resWidth, r, Stroke{Path: p})
}

// Diode is drawn as a triangle pointing to a bar, from anode to cathode.
func Diode() *Element {
	const w, h = .5, .3
	e := newElement("Diode", twoTerminal, w, h,
		polyline(true, pt{Y: -h}, pt{Y: h}, pt{X: w}),
		polyline(false, pt{X: w, Y: -h}, pt{X: w, Y: h}),
	)
	e.anchors = map[string]schempath.Point{"anode": {}, "cathode": {X: w}}
	return e
}

// SourceV is an independent voltage source; its positive
// terminal is at the end of the element.
func SourceV() *Element {
	const d = .1 // half size of the signs
	e := newElement("SourceV", twoTerminal, 2*srcRadius, srcRadius,
		circle(pt{X: srcRadius}, srcRadius, false),
		// minus sign, across the axis
		polyline(false, pt{X: srcRadius / 2, Y: -d}, pt{X: srcRadius / 2, Y: d}),
		// plus sign
		polyline(false, pt{X: 1.5*srcRadius - d}, pt{X: 1.5*srcRadius + d}),
		polyline(false, pt{X: 1.5 * srcRadius, Y: -d}, pt{X: 1.5 * srcRadius, Y: d}),
	)
	e.anchors = map[string]schempath.Point{"minus": {}, "plus": {X: 2 * srcRadius}}
	return e
}

// SourceI is an independent current source; the arrow points
// to the end of the element.
func SourceI() *Element {
	const tip, head, half = 1.5 * srcRadius, .15, .1
	arrow := polyline(true, pt{X: tip}, pt{X: tip - head, Y: half}, pt{X: tip - head, Y: -half})
	arrow.Fill = true
	e := newElement("SourceI", twoTerminal, 2*srcRadius, srcRadius,
		circle(pt{X: srcRadius}, srcRadius, false),
		polyline(false, pt{X: srcRadius / 2}, pt{X: tip - head}),
		arrow,
	)
	e.anchors = map[string]schempath.Point{"in": {}, "out": {X: 2 * srcRadius}}
	return e
}

// Battery is a single cell; the long plate (positive) is at the end.
func Battery() *Element {
	e := newElement("Battery", twoTerminal, capGap, capHeight*1.1,
		polyline(false, pt{Y: -capHeight / 2}, pt{Y: capHeight / 2}),
		polyline(false, pt{X: capGap, Y: -capHeight * 1.1}, pt{X: capGap, Y: capHeight * 1.1}),
	)
	e.anchors = map[string]schempath.Point{"minus": {}, "plus": {X: capGap}}
	return e
}

// Ground hangs below the current position and does not move it.
func Ground() *Element {
	body := []Stroke{polyline(false, pt{}, pt{Y: -gndLead})}
	for i, w := range []float64{.4, .26, .12} {
		y := -gndLead - float64(i)*gndSpacing
		body = append(body, polyline(false, pt{X: -w, Y: y}, pt{X: w, Y: y}))
	}
	return newElement("Ground", oneTerminal, 0, gndLead/2+gndSpacing, body...)
}

// Dot marks a junction at the current position and does not move it.
func Dot() *Element {
	return newElement("Dot", oneTerminal, 0, dotRadius, circle(pt{}, dotRadius, true))
}

// Custom builds a two-terminal element from an arbitrary body, spanning
// from x = 0 to x = width in its local frame, terminals on the x axis.
func Custom(name string, width float64, body ...Stroke) *Element {
	halfHeight := 0.
	for _, st := range body {
		b := st.Path.Bounds()
		if b.Empty() {
			continue
		}
		halfHeight = math.Max(halfHeight, math.Max(math.Abs(b.Min.Y), math.Abs(b.Max.Y)))
	}
	e := newElement(name, twoTerminal, width, halfHeight, body...)
	if !(width >= 0) || math.IsInf(width, 1) {
		e.err = fmt.Errorf("%s: %w (got body width %g)", name, ErrInvalidLength, width)
	}
	return e
}
