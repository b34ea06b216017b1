package figure

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/schemfig/internal/logging"
	"github.com/benoitkugler/schemfig/schempdf"
	"github.com/benoitkugler/schemfig/termview"
	"github.com/jung-kurt/gofpdf"
)

// SavePNG renders the figure and writes it as a PNG image.
func (fig *Figure) SavePNG(w io.Writer) error {
	img, err := fig.Render()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePDF renders the figure and writes it as a one page PDF document,
// whose size is the figure size.
func (fig *Figure) SavePDF(w io.Writer) error {
	var buf bytes.Buffer
	if err := fig.SavePNG(&buf); err != nil {
		return err
	}
	width, height := fig.cfg.FigSize[0]*72, fig.cfg.FigSize[1]*72
	pdf := schempdf.NewPage(width, height)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("figure", opts, &buf)
	pdf.ImageOptions("figure", 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing figure PDF: %w", err)
	}
	return nil
}

// SaveFig writes the figure to path, the format being chosen
// by the file extension (.png or .pdf).
func (fig *Figure) SaveFig(path string) error {
	var save func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		save = fig.SavePNG
	case ".pdf":
		save = fig.SavePDF
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}
	return fig.saveTo(path, save)
}

func (fig *Figure) saveTo(path string, save func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.Logger().Info("figure written", "path", path)
	return nil
}

// Show displays the figure with the configured backend: file
// backends write the output file, the terminal backend paints the figure
// and waits for a key.
func (fig *Figure) Show() error {
	logging.Logger().Info("figure: showing", "backend", fig.cfg.Backend)
	switch fig.cfg.Backend {
	case BackendPNG:
		return fig.saveTo(fig.cfg.Output, fig.SavePNG)
	case BackendPDF:
		return fig.saveTo(fig.cfg.Output, fig.SavePDF)
	case BackendTerminal:
		img, err := fig.Render()
		if err != nil {
			return err
		}
		return termview.Show(img)
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, fig.cfg.Backend)
	}
}
