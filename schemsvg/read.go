package schemsvg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schempath"
	"golang.org/x/net/html/charset"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unparsed SVG elements
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode outputs a warning when an unparsed SVG element is found
	WarnErrorMode
	// StrictErrorMode causes a error when an unparsed SVG element is found
	StrictErrorMode
)

var (
	errInvalidDocument = errors.New("invalid svg document")
	errNoSize          = errors.New("svg symbol has no viewBox nor size")
	errParamMismatch   = errors.New("param mismatch")
)

// ViewBox is the user space area of a symbol.
type ViewBox struct{ X, Y, W, H float64 }

// Symbol is a piece of line art read from a SVG file, which can be
// used as the body of a two-terminal element.
//
// Its strokes are normalized: the left and right middle points of the view
// box are (0, 0) and (1, 0), and y goes up.
type Symbol struct {
	ViewBox ViewBox
	Title   string
	Strokes []schemelm.Stroke
}

// Element returns a new element drawing the symbol between its two
// terminals, scaled to the given width (in drawing units).
func (s *Symbol) Element(name string, width float64) *schemelm.Element {
	m := schempath.Identity.Scale(width, width)
	body := make([]schemelm.Stroke, len(s.Strokes))
	for i, st := range s.Strokes {
		body[i] = schemelm.Stroke{Path: st.Path.Transform(m), Fill: st.Fill}
	}
	return schemelm.Custom(name, width, body...)
}

type style struct {
	transform schempath.Matrix2D
	fill      bool
}

// symbolCursor is used while parsing SVG files
type symbolCursor struct {
	sym        *Symbol
	styleStack []style
	errorMode  ErrorMode
	inTitle    bool
	// raw strokes, in viewBox coordinates
	strokes []schemelm.Stroke
}

// ReadSymbol reads a symbol from the given SVG document.
// Only a sub-set of SVG is supported: path, line, polyline, polygon,
// rect, circle, ellipse and g elements, with their transform attributes.
// A shape is filled if it has a fill attribute other than "none", stroked
// otherwise.
// `errMode` determines if unsupported elements are ignored,
// logged or rejected.
func ReadSymbol(stream io.Reader, errMode ErrorMode) (*Symbol, error) {
	sym := &Symbol{}
	cursor := &symbolCursor{sym: sym, errorMode: errMode, styleStack: []style{{transform: schempath.Identity}}}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, errInvalidDocument
				}
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			if err := cursor.pushStyle(se.Attr); err != nil {
				return nil, err
			}
			if err := cursor.readStartElement(se); err != nil {
				return nil, fmt.Errorf("element <%s>: %w", se.Name.Local, err)
			}
		case xml.EndElement:
			cursor.styleStack = cursor.styleStack[:len(cursor.styleStack)-1]
			if se.Name.Local == "title" {
				cursor.inTitle = false
			}
		case xml.CharData:
			if cursor.inTitle {
				sym.Title += string(se)
			}
		}
	}
	if err := cursor.normalize(); err != nil {
		return nil, err
	}
	return sym, nil
}

// ReadSymbolFile reads the symbol from the named file.
func ReadSymbolFile(file string, errMode ErrorMode) (*Symbol, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return ReadSymbol(fin, errMode)
}

// normalize maps the view box to the element local frame
func (c *symbolCursor) normalize() error {
	vb := c.sym.ViewBox
	if !(vb.W > 0) || !(vb.H > 0) {
		return errNoSize
	}
	k := 1 / vb.W
	m := schempath.Identity.Scale(k, -k).Translate(-vb.X, -vb.Y-vb.H/2)
	for _, st := range c.strokes {
		c.sym.Strokes = append(c.sym.Strokes, schemelm.Stroke{Path: st.Path.Transform(m), Fill: st.Fill})
	}
	return nil
}

func (c *symbolCursor) pushStyle(attrs []xml.Attr) error {
	cur := c.styleStack[len(c.styleStack)-1]
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "fill":
			v := strings.TrimSpace(attr.Value)
			cur.fill = v != "" && v != "none"
		case "transform":
			m, err := parseTransform(cur.transform, attr.Value)
			if err != nil {
				return fmt.Errorf("invalid transform %q: %w", attr.Value, err)
			}
			cur.transform = m
		}
	}
	c.styleStack = append(c.styleStack, cur)
	return nil
}

type svgFunc func(c *symbolCursor, attrs []xml.Attr) (schempath.Path, error)

var drawFuncs = map[string]svgFunc{
	"svg":      svgF,
	"g":        noShape, // g does nothing but push the style
	"title":    titleF,
	"desc":     noShape,
	"line":     lineF,
	"rect":     rectF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
	"polyline": polylineF,
	"polygon":  polygonF,
	"path":     pathF,
}

func (c *symbolCursor) readStartElement(se xml.StartElement) error {
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		errStr := "cannot process svg element " + se.Name.Local
		switch c.errorMode {
		case StrictErrorMode:
			return errors.New(errStr)
		case WarnErrorMode:
			logging.Logger().Warn("schemsvg: " + errStr)
		}
		return nil
	}
	path, err := df(c, se.Attr)
	if err != nil {
		return err
	}
	if len(path) > 0 {
		st := c.styleStack[len(c.styleStack)-1]
		c.strokes = append(c.strokes, schemelm.Stroke{Path: path.Transform(st.transform), Fill: st.fill})
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(s, 64)
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
		})
}

func parseNumbers(s string) ([]float64, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// attrs reads the numeric attributes given in names, leaving
// missing ones to zero
func readAttrs(attrs []xml.Attr, names ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	for _, attr := range attrs {
		for _, name := range names {
			if attr.Name.Local != name {
				continue
			}
			v, err := parseFloat(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", name, err)
			}
			out[name] = v
		}
	}
	return out, nil
}

func parseTransform(m1 schempath.Matrix2D, v string) (schempath.Matrix2D, error) {
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		pts, err := parseNumbers(d[1])
		if err != nil {
			return m1, err
		}
		ln := len(pts)
		switch strings.ToLower(strings.TrimSpace(d[0])) {
		case "rotate":
			if ln == 1 {
				m1 = m1.Rotate(pts[0] * math.Pi / 180)
			} else if ln == 3 {
				m1 = m1.Translate(pts[1], pts[2]).
					Rotate(pts[0]*math.Pi/180).
					Translate(-pts[1], -pts[2])
			} else {
				return m1, errParamMismatch
			}
		case "translate":
			if ln == 1 {
				m1 = m1.Translate(pts[0], 0)
			} else if ln == 2 {
				m1 = m1.Translate(pts[0], pts[1])
			} else {
				return m1, errParamMismatch
			}
		case "scale":
			if ln == 1 {
				m1 = m1.Scale(pts[0], pts[0])
			} else if ln == 2 {
				m1 = m1.Scale(pts[0], pts[1])
			} else {
				return m1, errParamMismatch
			}
		case "matrix":
			if ln != 6 {
				return m1, errParamMismatch
			}
			m1 = m1.Mult(schempath.Matrix2D{A: pts[0], B: pts[1], C: pts[2], D: pts[3], E: pts[4], F: pts[5]})
		default:
			return m1, errParamMismatch
		}
	}
	return m1, nil
}

func noShape(*symbolCursor, []xml.Attr) (schempath.Path, error) { return nil, nil }

func titleF(c *symbolCursor, _ []xml.Attr) (schempath.Path, error) {
	c.inTitle = true
	return nil, nil
}

func svgF(c *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	var width, height float64
	for _, attr := range attrs {
		var err error
		switch attr.Name.Local {
		case "viewBox":
			var pts []float64
			pts, err = parseNumbers(attr.Value)
			if err == nil && len(pts) != 4 {
				err = errParamMismatch
			}
			if err == nil {
				c.sym.ViewBox = ViewBox{X: pts[0], Y: pts[1], W: pts[2], H: pts[3]}
			}
		case "width":
			width, err = parseFloat(attr.Value)
		case "height":
			height, err = parseFloat(attr.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
		}
	}
	if c.sym.ViewBox.W == 0 {
		c.sym.ViewBox.W = width
	}
	if c.sym.ViewBox.H == 0 {
		c.sym.ViewBox.H = height
	}
	return nil, nil
}

func lineF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	v, err := readAttrs(attrs, "x1", "y1", "x2", "y2")
	if err != nil {
		return nil, err
	}
	var p schempath.Path
	p.AddPolyline(false, schempath.Point{X: v["x1"], Y: v["y1"]}, schempath.Point{X: v["x2"], Y: v["y2"]})
	return p, nil
}

func rectF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	v, err := readAttrs(attrs, "x", "y", "width", "height")
	if err != nil {
		return nil, err
	}
	if v["width"] == 0 || v["height"] == 0 { // not drawn, but not an error
		return nil, nil
	}
	var p schempath.Path
	p.AddRect(v["x"], v["y"], v["x"]+v["width"], v["y"]+v["height"])
	return p, nil
}

func circleF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	v, err := readAttrs(attrs, "cx", "cy", "r", "rx", "ry")
	if err != nil {
		return nil, err
	}
	rx, ry := v["rx"], v["ry"]
	if r, ok := v["r"]; ok {
		rx, ry = r, r
	}
	if rx == 0 || ry == 0 { // not drawn, but not an error
		return nil, nil
	}
	var p schempath.Path
	p.AddEllipse(schempath.Point{X: v["cx"], Y: v["cy"]}, rx, ry, 0)
	return p, nil
}

func readPoints(attrs []xml.Attr) ([]schempath.Point, error) {
	for _, attr := range attrs {
		if attr.Name.Local != "points" {
			continue
		}
		nums, err := parseNumbers(attr.Value)
		if err != nil {
			return nil, err
		}
		if len(nums)%2 != 0 {
			return nil, errors.New("polygon has odd number of points")
		}
		pts := make([]schempath.Point, len(nums)/2)
		for i := range pts {
			pts[i] = schempath.Point{X: nums[2*i], Y: nums[2*i+1]}
		}
		return pts, nil
	}
	return nil, nil
}

func polylineF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	pts, err := readPoints(attrs)
	if err != nil || len(pts) < 2 {
		return nil, err
	}
	var p schempath.Path
	p.AddPolyline(false, pts...)
	return p, nil
}

func polygonF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	pts, err := readPoints(attrs)
	if err != nil || len(pts) < 2 {
		return nil, err
	}
	var p schempath.Path
	p.AddPolyline(true, pts...)
	return p, nil
}

func pathF(_ *symbolCursor, attrs []xml.Attr) (schempath.Path, error) {
	for _, attr := range attrs {
		if attr.Name.Local == "d" {
			return schempath.ParsePathData(attr.Value)
		}
	}
	return nil, nil
}
