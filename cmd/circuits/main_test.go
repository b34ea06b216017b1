package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/schemfig/figure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCircuits(t *testing.T) {
	images, err := buildCircuits()
	require.NoError(t, err)
	require.Len(t, images, 2)
	for _, img := range images {
		assert.Greater(t, img.Bounds().Dx(), 0)
		assert.Greater(t, img.Bounds().Dy(), 0)
	}
}

func TestEquivalentIsOpen(t *testing.T) {
	// the last line does not come back to the source
	d := equivalentCircuit()
	require.NoError(t, d.Close())
	assert.NotEqual(t, d.Elements()[0].Start, d.Here())
}

func TestCompose(t *testing.T) {
	images, err := buildCircuits()
	require.NoError(t, err)
	fig, err := compose(figure.DefaultConfig(), images)
	require.NoError(t, err)

	require.Equal(t, 2, fig.Len())
	for i := 0; i < fig.Len(); i++ {
		ax, err := fig.Axes(i)
		require.NoError(t, err)
		assert.Same(t, images[i], ax.Image())
		assert.False(t, ax.AxisVisible())
	}
	w, h := fig.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
}

func TestRun(t *testing.T) {
	cfg := figure.DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "circuits.png")
	require.NoError(t, run(cfg))
	info, err := os.Stat(cfg.Output)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
