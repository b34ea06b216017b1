// Package fontface provides the Go Regular font at any size,
// used both to measure labels and to draw them.
package fontface

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// the parsed font is shared; faces are not safe for concurrent use
// and are built per caller.
var parsedFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Face returns a new face of the given size, in device units (pixels, or points
// when measuring). The caller owns the face and should close it.
func Face(size float64) (font.Face, error) {
	f, err := parsedFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Extents describes the size of a single line of text.
type Extents struct {
	Width, Ascent, Descent float64
}

// Measure returns the extents of s drawn with a face of the given size.
// It is safe for concurrent use.
func Measure(s string, size float64) (Extents, error) {
	face, err := Face(size)
	if err != nil {
		return Extents{}, err
	}
	defer face.Close()
	m := face.Metrics()
	return Extents{
		Width:   toFloat(font.MeasureString(face, s)),
		Ascent:  toFloat(m.Ascent),
		Descent: toFloat(m.Descent),
	}, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
