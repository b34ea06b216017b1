package schempath

import (
	"math"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// AddPolyline adds the segments joining pts, closing the
// polygon if closed is true.
func (p *Path) AddPolyline(closed bool, pts ...Point) {
	if len(pts) == 0 {
		return
	}
	p.Start(pts[0])
	for _, pt := range pts[1:] {
		p.Line(pt)
	}
	p.Stop(closed)
}

// AddRect adds a closed rectangle of the indicated corners.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.AddPolyline(true,
		Point{minX, minY}, Point{maxX, minY},
		Point{maxX, maxY}, Point{minX, maxY})
}

// AddCircle adds a closed circle of center c and radius r.
func (p *Path) AddCircle(c Point, r float64) {
	p.AddEllipse(c, r, r, 0)
}

// AddEllipse adds a closed ellipse of center c and radii rx, ry,
// its x axis rotated by rot radians.
func (p *Path) AddEllipse(c Point, rx, ry, rot float64) {
	sinTheta, cosTheta := math.Sincos(rot)
	x, y := ellipsePointAt(rx, ry, sinTheta, cosTheta, 0, c.X, c.Y)
	p.Start(Point{x, y})
	p.arcTo(c, rx, ry, rot, 0, 2*math.Pi)
	p.Stop(true)
}

// AddCircularArc adds an open arc of center c and radius r, going from
// startAngle by sweep radians (positive sweep is counter clockwise in a y-up frame).
func (p *Path) AddCircularArc(c Point, r, startAngle, sweep float64) {
	sin, cos := math.Sincos(startAngle)
	p.Start(Point{c.X + r*cos, c.Y + r*sin})
	p.arcTo(c, r, r, 0, startAngle, sweep)
}

// arcTo adds cubic splines approximating the elliptic arc from
// the current point (which must be at parameter etaStart) spanning deltaEta.
func (p *Path) arcTo(c Point, rx, ry, rotX, etaStart, deltaEta float64) Point {
	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	sinTheta, cosTheta := math.Sincos(rotX)
	lx, ly := ellipsePointAt(rx, ry, sinTheta, cosTheta, etaStart, c.X, c.Y)
	ldx, ldy := ellipsePrime(rx, ry, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		px, py := ellipsePointAt(rx, ry, sinTheta, cosTheta, eta, c.X, c.Y)
		dx, dy := ellipsePrime(rx, ry, sinTheta, cosTheta, eta)
		p.CubeBezier(Point{lx + alpha*ldx, ly + alpha*ldy},
			Point{px - alpha*dx, py - alpha*dy}, Point{px, py})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return Point{lx, ly}
}

// AddArc adds an SVG elliptical arc from `from` to `to`, with radii rx, ry,
// x axis rotation rotX (degrees) and the SVG large-arc and sweep flags.
// It returns the end point.
func (p *Path) AddArc(from Point, rx, ry, rotX float64, largeArc, sweep bool, to Point) Point {
	if from == to {
		return to
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 { // degenerate arcs are straight lines
		p.Line(to)
		return to
	}
	rot := rotX * math.Pi / 180 // Convert degress to radians
	cx, cy := findEllipseCenter(&rx, &ry, rot, from.X, from.Y, to.X, to.Y, sweep, !largeArc)

	sinTheta, cosTheta := math.Sincos(rot)
	// angles in the frame of the ellipse axes
	toEta := func(x, y float64) float64 {
		x, y = x-cx, y-cy
		x, y = x*cosTheta+y*sinTheta, -x*sinTheta+y*cosTheta
		return math.Atan2(y/ry, x/rx)
	}
	etaStart := toEta(from.X, from.Y)
	deltaEta := toEta(to.X, to.Y) - etaStart
	if sweep && deltaEta < 0 {
		deltaEta += 2 * math.Pi
	} else if !sweep && deltaEta > 0 {
		deltaEta -= 2 * math.Pi
	}
	p.arcTo(Point{cx, cy}, rx, ry, rot, etaStart, deltaEta)
	// the last spline is computed, so we replace its end by the exact target
	if last, ok := (*p)[len(*p)-1].(CubicTo); ok {
		last[2] = to
		(*p)[len(*p)-1] = last
	}
	return to
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if sweep != smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
