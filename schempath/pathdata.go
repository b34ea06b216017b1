package schempath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	errParamMismatch  = errors.New("param mismatch")
	errCommandUnknown = errors.New("unknown command")
	errNoMoveTo       = errors.New("path data must start with a move command")
)

// pathCursor is used while parsing SVG path data
type pathCursor struct {
	path           Path
	points         []float64
	placeX, placeY float64 // current point
	startX, startY float64 // start of the current sub path
	lastKey        byte
	// reflected control point for the smooth curve commands
	cntlPtX, cntlPtY float64
	inPath           bool
}

// ParsePathData compiles the content of a SVG `d` attribute
// into a Path. All commands are supported, in absolute and relative form.
func ParsePathData(d string) (Path, error) {
	c := pathCursor{}
	err := c.compile(d)
	if err != nil {
		return nil, fmt.Errorf("invalid path data %q: %w", d, err)
	}
	return c.path, nil
}

func isCommand(r rune) bool {
	switch unicode.ToLower(r) {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

func (c *pathCursor) compile(svgPath string) error {
	segStart := 0
	var key byte
	for i, r := range svgPath {
		if !isCommand(r) {
			continue
		}
		if key != 0 {
			if err := c.readCommand(key, svgPath[segStart:i]); err != nil {
				return err
			}
		} else if strings.TrimSpace(svgPath[:i]) != "" {
			return errNoMoveTo
		}
		key = byte(r)
		segStart = i + 1
	}
	if key == 0 {
		if strings.TrimSpace(svgPath) == "" {
			return nil
		}
		return errNoMoveTo
	}
	return c.readCommand(key, svgPath[segStart:])
}

// getPoints reads a list of numbers, separated by commas, spaces
// or implicitly by a sign or a second decimal point.
func (c *pathCursor) getPoints(dataPoints string) error {
	c.points = c.points[:0]
	start, seenDot := -1, false
	flush := func(end int) error {
		if start < 0 {
			return nil
		}
		f, err := strconv.ParseFloat(dataPoints[start:end], 64)
		if err != nil {
			return err
		}
		c.points = append(c.points, f)
		start, seenDot = -1, false
		return nil
	}
	for i, r := range dataPoints {
		switch {
		case r == ',' || unicode.IsSpace(r):
			if err := flush(i); err != nil {
				return err
			}
		case r == '-' || r == '+':
			// a sign starts a new number, unless it follows an exponent
			if start >= 0 && (dataPoints[i-1] == 'e' || dataPoints[i-1] == 'E') {
				continue
			}
			if err := flush(i); err != nil {
				return err
			}
			start = i
		case r == '.':
			if seenDot {
				if err := flush(i); err != nil {
					return err
				}
			}
			if start < 0 {
				start = i
			}
			seenDot = true
		default:
			if start < 0 {
				start = i
			}
		}
	}
	return flush(len(dataPoints))
}

func (c *pathCursor) reflectControlQuad() {
	switch c.lastKey {
	case 'q', 'Q', 't', 'T':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

func (c *pathCursor) reflectControlCube() {
	switch c.lastKey {
	case 'c', 'C', 's', 'S':
		c.cntlPtX, c.cntlPtY = 2*c.placeX-c.cntlPtX, 2*c.placeY-c.cntlPtY
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
}

// checks the number of points and return the number of repetitions
func (c *pathCursor) checkArity(n int) (int, error) {
	l := len(c.points)
	if l == 0 || l%n != 0 {
		return 0, errParamMismatch
	}
	return l / n, nil
}

func (c *pathCursor) readCommand(key byte, args string) error {
	if err := c.getPoints(args); err != nil {
		return err
	}
	if !c.inPath && key != 'M' && key != 'm' {
		return errNoMoveTo
	}
	rel := unicode.IsLower(rune(key))
	offset := func() (float64, float64) {
		if rel {
			return c.placeX, c.placeY
		}
		return 0, 0
	}
	switch key {
	case 'Z', 'z':
		if len(c.points) != 0 {
			return errParamMismatch
		}
		c.path.Stop(true)
		c.placeX, c.placeY = c.startX, c.startY
	case 'M', 'm':
		n, err := c.checkArity(2)
		if err != nil {
			return err
		}
		ox, oy := offset()
		c.placeX, c.placeY = c.points[0]+ox, c.points[1]+oy
		c.startX, c.startY = c.placeX, c.placeY
		c.path.Start(Point{c.placeX, c.placeY})
		c.inPath = true
		// subsequent pairs are implicit line commands
		for i := 1; i < n; i++ {
			ox, oy = offset()
			c.placeX, c.placeY = c.points[2*i]+ox, c.points[2*i+1]+oy
			c.path.Line(Point{c.placeX, c.placeY})
		}
	case 'L', 'l':
		n, err := c.checkArity(2)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ox, oy := offset()
			c.placeX, c.placeY = c.points[2*i]+ox, c.points[2*i+1]+oy
			c.path.Line(Point{c.placeX, c.placeY})
		}
	case 'H', 'h':
		n, err := c.checkArity(1)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ox, _ := offset()
			c.placeX = c.points[i] + ox
			c.path.Line(Point{c.placeX, c.placeY})
		}
	case 'V', 'v':
		n, err := c.checkArity(1)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			_, oy := offset()
			c.placeY = c.points[i] + oy
			c.path.Line(Point{c.placeX, c.placeY})
		}
	case 'Q', 'q':
		n, err := c.checkArity(4)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ox, oy := offset()
			pts := c.points[4*i:]
			c.cntlPtX, c.cntlPtY = pts[0]+ox, pts[1]+oy
			c.placeX, c.placeY = pts[2]+ox, pts[3]+oy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
		}
	case 'T', 't':
		n, err := c.checkArity(2)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			c.reflectControlQuad()
			ox, oy := offset()
			c.placeX, c.placeY = c.points[2*i]+ox, c.points[2*i+1]+oy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
			c.lastKey = key
		}
	case 'C', 'c':
		n, err := c.checkArity(6)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ox, oy := offset()
			pts := c.points[6*i:]
			b := Point{pts[0] + ox, pts[1] + oy}
			c.cntlPtX, c.cntlPtY = pts[2]+ox, pts[3]+oy
			c.placeX, c.placeY = pts[4]+ox, pts[5]+oy
			c.path.CubeBezier(b, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
		}
	case 'S', 's':
		n, err := c.checkArity(4)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			c.reflectControlCube()
			b := Point{c.cntlPtX, c.cntlPtY}
			ox, oy := offset()
			pts := c.points[4*i:]
			c.cntlPtX, c.cntlPtY = pts[0]+ox, pts[1]+oy
			c.placeX, c.placeY = pts[2]+ox, pts[3]+oy
			c.path.CubeBezier(b, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
			c.lastKey = key
		}
	case 'A', 'a':
		n, err := c.checkArity(7)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ox, oy := offset()
			pts := c.points[7*i:]
			from := Point{c.placeX, c.placeY}
			to := Point{pts[5] + ox, pts[6] + oy}
			c.path.AddArc(from, pts[0], pts[1], pts[2], pts[3] != 0, pts[4] != 0, to)
			c.placeX, c.placeY = to.X, to.Y
		}
	default:
		return errCommandUnknown
	}
	c.lastKey = key
	return nil
}
