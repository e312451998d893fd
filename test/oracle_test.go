package test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolling-go/rolling-go"
	"github.com/rolling-go/rolling-go/indexer"
)

// TestReductionsMatchReferenceImplementation recomputes every full window with a separate statistics
// library and compares cell by cell.
func TestReductionsMatchReferenceImplementation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 60)
	others := make([]float64, 60)
	for i := range values {
		values[i] = math.Round(rng.Float64()*1000) / 10
		others[i] = math.Round(rng.Float64()*1000) / 10
	}
	const window = 6

	r, err := rolling.New(values, indexer.Fixed(window))
	require.NoError(t, err)

	sums := r.Sum()
	means := r.Mean()
	medians := r.Median()
	variances := r.Var()
	stds := r.Std()
	mins := r.Min()
	maxes := r.Max()
	covs, err := r.Cov(others)
	require.NoError(t, err)
	corrs, err := r.Corr(others)
	require.NoError(t, err)

	for i := window - 1; i < len(values); i++ {
		win := values[i-window+1 : i+1]
		otherWin := others[i-window+1 : i+1]

		expected, err := stats.Sum(win)
		require.NoError(t, err)
		assert.InDelta(t, expected, sums[i], 1e-9, "sum at %d", i)

		expected, err = stats.Mean(win)
		require.NoError(t, err)
		assert.InDelta(t, expected, means[i], 1e-9, "mean at %d", i)

		expected, err = stats.Median(win)
		require.NoError(t, err)
		assert.InDelta(t, expected, medians[i], 1e-12, "median at %d", i)

		expected, err = stats.SampleVariance(win)
		require.NoError(t, err)
		assert.InDelta(t, expected, variances[i], 1e-8, "variance at %d", i)

		expected, err = stats.StandardDeviationSample(win)
		require.NoError(t, err)
		assert.InDelta(t, expected, stds[i], 1e-8, "standard deviation at %d", i)

		expected, err = stats.Min(win)
		require.NoError(t, err)
		assert.Equal(t, expected, mins[i], "min at %d", i)

		expected, err = stats.Max(win)
		require.NoError(t, err)
		assert.Equal(t, expected, maxes[i], "max at %d", i)

		expected, err = stats.Covariance(win, otherWin)
		require.NoError(t, err)
		assert.InDelta(t, expected, covs[i], 1e-8, "covariance at %d", i)

		expected, err = stats.Correlation(win, otherWin)
		require.NoError(t, err)
		assert.InDelta(t, expected, corrs[i], 1e-8, "correlation at %d", i)
	}
}
