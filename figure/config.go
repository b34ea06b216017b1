package figure

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

// EnvConfig is the environment variable storing the path of the rc file.
const EnvConfig = "FIGURERC"

// MaxPixels is the largest rendered width or height of a figure.
const MaxPixels = 1 << 14

// ErrUnknownBackend is returned for an unsupported display backend.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend selects what Show does.
type Backend string

const (
	BackendPNG      Backend = "png"      // write a PNG file
	BackendPDF      Backend = "pdf"      // write a PDF file
	BackendTerminal Backend = "terminal" // paint in the terminal
)

// Config stores the figure settings, usually read from a TOML file:
//
//	backend = "terminal"
//	output = "circuits.png"
//	dpi = 100
//	facecolor = "#ffffff"
//	figsize = [10, 5]
type Config struct {
	Backend   Backend   `toml:"backend"`
	Output    string    `toml:"output"` // used by file backends
	DPI       float64   `toml:"dpi"`
	FaceColor string    `toml:"facecolor"`
	FigSize   []float64 `toml:"figsize"` // width, height in inches
}

// DefaultConfig returns the settings used when no rc file is given.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendPNG,
		Output:    "figure.png",
		DPI:       100,
		FaceColor: "#ffffff",
		FigSize:   []float64{6.4, 4.8},
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendPNG, BackendPDF, BackendTerminal:
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, c.Backend)
	}
	if c.Backend != BackendTerminal && c.Output == "" {
		return fmt.Errorf("missing output file for backend %s", c.Backend)
	}
	if !(c.DPI > 0) || math.IsInf(c.DPI, 1) {
		return fmt.Errorf("invalid dpi %g", c.DPI)
	}
	if len(c.FigSize) != 2 {
		return fmt.Errorf("invalid figsize %v", c.FigSize)
	}
	for _, v := range c.FigSize {
		if !(v > 0) || math.IsInf(v, 1) {
			return fmt.Errorf("invalid figsize %v", c.FigSize)
		}
		if px := v * c.DPI; px < 1 || px > MaxPixels {
			return fmt.Errorf("figsize %v at %g dpi: %g pixels out of [1, %d]", c.FigSize, c.DPI, px, MaxPixels)
		}
	}
	if _, err := c.faceColor(); err != nil {
		return err
	}
	return nil
}

func (c Config) faceColor() (color.Color, error) {
	if c.FaceColor == "" || c.FaceColor == "none" {
		return color.Transparent, nil
	}
	col, err := colorful.Hex(c.FaceColor)
	if err != nil {
		return nil, fmt.Errorf("invalid facecolor %q: %w", c.FaceColor, err)
	}
	return col.Clamped(), nil
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) != 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("unknown settings: %s", strings.Join(names, ", "))
	}
	return nil
}

// DecodeConfig parses the TOML content, missing settings keeping
// their default value.
func DecodeConfig(content string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the TOML file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err == nil {
		err = checkUndecoded(md)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("loading figure config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv loads the file named by $FIGURERC, or returns
// the defaults if it is not set.
func ConfigFromEnv() (Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
