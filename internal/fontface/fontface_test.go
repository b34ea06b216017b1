package fontface

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacesAreIndependent(t *testing.T) {
	f1, err := Face(14)
	require.NoError(t, err)
	defer f1.Close()
	f2, err := Face(14)
	require.NoError(t, err)
	defer f2.Close()
	assert.NotSame(t, f1, f2)
	assert.Equal(t, f1.Metrics(), f2.Metrics())
}

func TestMeasureConcurrent(t *testing.T) {
	want, err := Measure("R1", 14)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Extents, 16)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Measure("R1", 14)
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestMeasure(t *testing.T) {
	small, err := Measure("R_eq", 10)
	require.NoError(t, err)
	big, err := Measure("R_eq", 20)
	require.NoError(t, err)

	assert.Greater(t, small.Width, 0.)
	assert.Greater(t, small.Ascent, 0.)
	assert.Greater(t, big.Width, small.Width)

	empty, err := Measure("", 10)
	require.NoError(t, err)
	assert.Equal(t, 0., empty.Width)
}
