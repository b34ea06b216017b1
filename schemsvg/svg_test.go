package schemsvg

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"strings"
	"testing"

	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schempath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	d := schemdraw.New()
	d.Add(schemelm.SourceV().Up())
	d.Add(schemelm.Resistor().Right().Label("R<1>"))
	d.Add(schemelm.Dot())
	require.NoError(t, d.Close())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d))
	out := buf.String()

	// source: 2 leads, circle and 3 signs; resistor: 2 leads and zigzag; dot
	assert.Equal(t, 6+3+1, strings.Count(out, "<path "))
	assert.Equal(t, 1, strings.Count(out, "stroke=\"none\""))
	assert.Contains(t, out, "R&lt;1&gt;")
	assert.Contains(t, out, "text-anchor=\"middle\"")

	// the output is well formed
	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestWriteNotClosed(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, schemdraw.ErrNotClosed, Write(&buf, schemdraw.New()))
}

const fuse = `<?xml version="1.0" encoding="ISO-8859-1"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20">
	<title>Fusible</title>
	<rect x="0" y="5" width="40" height="10"/>
	<g transform="translate(0 10)">
		<line x1="0" y1="0" x2="40" y2="0"/>
	</g>
	<circle cx="20" cy="10" r="2" fill="black"/>
	<path d="M0 0 h40"/>
	<text x="0" y="0">unsupported</text>
</svg>`

func TestReadSymbol(t *testing.T) {
	sym, err := ReadSymbol(strings.NewReader(fuse), IgnoreErrorMode)
	require.NoError(t, err)
	assert.Equal(t, "Fusible", sym.Title)
	assert.Equal(t, ViewBox{W: 40, H: 20}, sym.ViewBox)
	require.Len(t, sym.Strokes, 4)

	// the rectangle is centered on the axis, from 0 to 1
	box := sym.Strokes[0].Path.Bounds()
	assert.InDelta(t, 0, box.Min.X, 1e-9)
	assert.InDelta(t, 1, box.Max.X, 1e-9)
	assert.InDelta(t, -.125, box.Min.Y, 1e-9)
	assert.InDelta(t, .125, box.Max.Y, 1e-9)

	// the translated line is on the axis
	box = sym.Strokes[1].Path.Bounds()
	assert.InDelta(t, 0, box.Min.Y, 1e-9)
	assert.InDelta(t, 0, box.Max.Y, 1e-9)

	assert.True(t, sym.Strokes[2].Fill)
	assert.False(t, sym.Strokes[3].Fill)
	// the top of the view box is up
	assert.InDelta(t, .25, sym.Strokes[3].Path.Bounds().Max.Y, 1e-9)
}

func TestReadSymbolErrorModes(t *testing.T) {
	_, err := ReadSymbol(strings.NewReader(fuse), StrictErrorMode)
	assert.Error(t, err)

	var buf bytes.Buffer
	schemdraw.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer schemdraw.SetLogger(nil)
	_, err = ReadSymbol(strings.NewReader(fuse), WarnErrorMode)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cannot process svg element text")
}

func TestReadSymbolInvalid(t *testing.T) {
	for _, doc := range []string{
		"",
		`<svg xmlns="http://www.w3.org/2000/svg"><line x1="0" x2="1"/></svg>`,
		`<svg viewBox="0 0 1"/>`,
		`<svg viewBox="0 0 10 10"><path d="L 1 1"/></svg>`,
		`<svg viewBox="0 0 10 10"><g transform="skew(2)"/></svg>`,
		`<svg viewBox="0 0 10 10"><rect width="a"/></svg>`,
		`<svg viewBox="0 0 10 10"><polyline points="1 2 3"/></svg>`,
	} {
		_, err := ReadSymbol(strings.NewReader(doc), IgnoreErrorMode)
		assert.Error(t, err, doc)
	}
}

func TestSymbolElement(t *testing.T) {
	sym, err := ReadSymbol(strings.NewReader(fuse), IgnoreErrorMode)
	require.NoError(t, err)

	d := schemdraw.New()
	d.Add(schemelm.Line().Right())
	pl := d.Add(sym.Element("Fuse", 1.5).Right().Label("F1"))
	require.NoError(t, d.Close())
	assert.Equal(t, "Fuse", pl.Element.Name())
	end, ok := pl.Anchor("end")
	require.True(t, ok)
	assert.InDelta(t, 6, end.X, 1e-9)
	// leads plus the symbol strokes
	assert.Len(t, pl.Strokes, 2+4)

	box := schempath.EmptyRect()
	for _, st := range pl.Strokes {
		box = box.Union(st.Path.Bounds())
	}
	assert.InDelta(t, .375, box.Max.Y, 1e-9)
}
