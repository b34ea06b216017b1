// Command circuits draws two resistor circuits: a voltage source
// with three resistors, and the same source with the equivalent
// resistor. Both diagrams are shown side by side.
//
// The figure is written or displayed according to the file named by
// $FIGURERC (see package figure).
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/benoitkugler/schemfig/figure"
	"github.com/benoitkugler/schemfig/schemdraw"
	"github.com/benoitkugler/schemfig/schemelm"
	"github.com/benoitkugler/schemfig/schemraster"
)

func main() {
	verbose := flag.Bool("v", false, "Log layout and rendering details")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	schemdraw.SetLogger(logger)

	cfg, err := figure.ConfigFromEnv()
	if err == nil {
		err = run(cfg)
	}
	if err != nil {
		logger.Error("circuits failed", "error", err)
		os.Exit(1)
	}
}

// seriesCircuit is a source with three resistors in series.
func seriesCircuit() *schemdraw.Drawing {
	d := schemdraw.New()
	d.Add(schemelm.SourceV().Up())
	d.Add(schemelm.Resistor().Right().Label("R1"))
	d.Add(schemelm.Resistor().Down().Label("R2"))
	d.Add(schemelm.Resistor().Left().Label("R3"))
	d.Add(schemelm.Line().Up())
	return d
}

// equivalentCircuit is the source with the equivalent resistor.
func equivalentCircuit() *schemdraw.Drawing {
	d := schemdraw.New()
	d.Add(schemelm.SourceV().Up())
	d.Add(schemelm.Resistor().Right().Label("R_eq"))
	d.Add(schemelm.Line().Down())
	d.Add(schemelm.Line().Left())
	d.Add(schemelm.Line().Up())
	return d
}

// buildCircuits closes both diagrams and returns their pixels.
func buildCircuits() ([]image.Image, error) {
	var out []image.Image
	for i, d := range []*schemdraw.Drawing{seriesCircuit(), equivalentCircuit()} {
		if err := d.Close(); err != nil {
			return nil, fmt.Errorf("circuit %d: %w", i+1, err)
		}
		img, err := schemraster.ImageData(d, schemraster.Options{})
		if err != nil {
			return nil, fmt.Errorf("circuit %d: %w", i+1, err)
		}
		out = append(out, img)
	}
	return out, nil
}

// compose puts the images side by side, without axis.
func compose(cfg figure.Config, images []image.Image) (*figure.Figure, error) {
	fig, axes, err := figure.Subplots(1, len(images), figure.WithConfig(cfg), figure.WithFigSize(10, 5))
	if err != nil {
		return nil, err
	}
	for i, img := range images {
		axes[i].ImShow(img)
		axes[i].AxisOff()
	}
	return fig, nil
}

func run(cfg figure.Config) error {
	images, err := buildCircuits()
	if err != nil {
		return err
	}
	fig, err := compose(cfg, images)
	if err != nil {
		return err
	}
	return fig.Show()
}
