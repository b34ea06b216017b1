package figure

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendPNG, cfg.Backend)
	assert.Equal(t, []float64{6.4, 4.8}, cfg.FigSize)
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(`
backend = "terminal"
dpi = 80
figsize = [10, 5]
facecolor = "#202020"
`)
	require.NoError(t, err)
	assert.Equal(t, BackendTerminal, cfg.Backend)
	assert.Equal(t, 80., cfg.DPI)
	assert.Equal(t, []float64{10, 5}, cfg.FigSize)
	// untouched settings keep their default
	assert.Equal(t, "figure.png", cfg.Output)

	col, err := cfg.faceColor()
	require.NoError(t, err)
	r, g, b, a := col.RGBA()
	assert.Equal(t, uint32(0x2020), r)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestDecodeConfigErrors(t *testing.T) {
	_, err := DecodeConfig(`backend = "gif"`)
	assert.True(t, errors.Is(err, ErrUnknownBackend))

	for _, content := range []string{
		`backend = `,
		`dpi = -3`,
		`figsize = [1]`,
		`facecolor = "blue"`,
		`output = ""`,
		`unknown = 2`,
		`dpi = inf`,
		`dpi = nan`,
		`dpi = 1e300`,
		`figsize = [inf, 5]`,
		`figsize = [0.001, 5]`,
	} {
		_, err := DecodeConfig(content)
		assert.Error(t, err, content)
	}
}

func TestConfigBoundsFigure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DPI = 64
	cfg.FigSize = []float64{MaxPixels / 64, 1}
	require.NoError(t, cfg.Validate())

	_, _, err := Subplots(1, 1, WithConfig(cfg), WithDPI(math.Inf(1)))
	assert.Error(t, err)
	_, _, err = Subplots(1, 1, WithConfig(cfg), WithFigSize(1e6, 1))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "figurerc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`backend = "pdf"
output = "out.pdf"`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPDF, cfg.Backend)
	assert.Equal(t, "out.pdf", cfg.Output)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	t.Setenv(EnvConfig, path)
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendPDF, cfg.Backend)

	t.Setenv(EnvConfig, "")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
