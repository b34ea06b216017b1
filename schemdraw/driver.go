package schemdraw

import (
	"image/color"

	"golang.org/x/image/math/fixed"
)

// A drawing is replayed on a backend through the following interfaces.
// The backend does not need any knowledge of circuits: transformations
// are already applied to the points before they are sent.

// Drawer knows how to do the actual draw operations
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new path at the given point.
	Start(a fixed.Point26_6)

	// Line Adds a line for the current point to `b`
	Line(b fixed.Point26_6)

	// QuadBezier adds a quadratic bezier curve to the path
	QuadBezier(b, c fixed.Point26_6)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)

	// Closes the path to the start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetColor set the color for the current path
	SetColor(c color.Color)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the begining of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)

	// DrawText draws a single line of text. It is called after all
	// the paths have been drawn.
	DrawText(op TextOp)
}

// JoinMode type to specify how segments join.
type JoinMode uint8

const (
	Round JoinMode = iota
	Bevel
	Miter
)

func (s JoinMode) String() string {
	switch s {
	case Round:
		return "Round"
	case Bevel:
		return "Bevel"
	case Miter:
		return "Miter"
	default:
		return "<unknown JoinMode>"
	}
}

// CapMode defines how to draw caps on the ends of lines
type CapMode uint8

const (
	RoundCap CapMode = iota
	ButtCap
	SquareCap
)

func (c CapMode) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case SquareCap:
		return "SquareCap"
	case RoundCap:
		return "RoundCap"
	default:
		return "<unknown CapMode>"
	}
}

type StrokeOptions struct {
	LineWidth  fixed.Int26_6 // width of the line
	MiterLimit fixed.Int26_6
	Join       JoinMode
	Cap        CapMode // used at both ends
}

// HAlign is the horizontal alignment of a text relative to its anchor.
type HAlign uint8

const (
	AlignCenter HAlign = iota
	AlignLeft          // the text starts at the anchor
	AlignRight         // the text ends at the anchor
)

// VAlign is the vertical alignment of a text relative to its anchor.
type VAlign uint8

const (
	AlignMiddle VAlign = iota
	AlignTop           // the anchor is above the text
	AlignBottom        // the anchor is below the text
)

// TextOp is a text to draw, in device space (y down).
type TextOp struct {
	Text   string
	X, Y   float64 // anchor
	Size   float64 // font size, in device units
	Color  color.Color
	HAlign HAlign
	VAlign VAlign
}
