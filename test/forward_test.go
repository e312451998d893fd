package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rolling-go/rolling-go"
	"github.com/rolling-go/rolling-go/indexer"
	"github.com/rolling-go/rolling-go/internal/testutil"
)

// spiked is a ramp with one outlier, which separates windows that straddle the spike from windows that
// don't in every reduction.
var spiked = []float64{0, 1, 2, 3, 4, 100, 6, 7, 8, 9}

func TestForwardWindowReductions(t *testing.T) {
	r, err := rolling.New(spiked, indexer.Forward(3), rolling.WithMinPeriods(2))
	require.NoError(t, err)

	nan := testutil.NaN
	testutil.AssertFloats(t, []float64{3, 3, 3, 3, 3, 3, 3, 3, 2, nan}, r.Count(), 0)
	testutil.AssertFloats(t, []float64{0, 1, 2, 3, 4, 6, 6, 7, 8, nan}, r.Min(), 0)
	testutil.AssertFloats(t, []float64{2, 3, 4, 100, 100, 100, 8, 9, 9, nan}, r.Max(), 0)
	testutil.AssertFloats(t, []float64{3, 6, 9, 107, 110, 113, 21, 24, 17, nan}, r.Sum(), 1e-9)
	testutil.AssertFloats(t, []float64{1, 2, 3, 107.0 / 3, 110.0 / 3, 113.0 / 3, 7, 8, 8.5, nan}, r.Mean(), 1e-9)
	testutil.AssertFloats(t, []float64{1, 2, 3, 4, 6, 7, 7, 8, 8.5, nan}, r.Median(), 0)
	testutil.AssertFloats(t, []float64{1, 1, 1, 3104.33333333, 3009.33333333, 2914.33333333, 1, 1, 0.5, nan}, r.Var(), 1e-6)
	testutil.AssertFloats(t, []float64{1, 1, 1, 55.71654452, 54.85739087, 53.9845657, 1, 1, 0.70710678, nan}, r.Std(), 1e-6)
}

func TestForwardWindowSkewness(t *testing.T) {
	r, err := rolling.New(spiked, indexer.Forward(5), rolling.WithMinPeriods(3))
	require.NoError(t, err)

	expected := []float64{0, 2.232396, 2.229508, 2.228340, 2.229091, 2.231989, 0, 0, testutil.NaN, testutil.NaN}
	testutil.AssertFloats(t, expected, r.Skew(), 1e-5)
}

func TestForwardWindowKurtosis(t *testing.T) {
	r, err := rolling.New(testutil.Seq(10), indexer.Forward(4), rolling.WithMinPeriods(4))
	require.NoError(t, err)

	// Every full window holds four consecutive integers and shares one shape.
	nan := testutil.NaN
	expected := []float64{-1.2, -1.2, -1.2, -1.2, -1.2, -1.2, -1.2, nan, nan, nan}
	testutil.AssertFloats(t, expected, r.Kurt(), 1e-9)
}

func TestForwardWindowPairwise(t *testing.T) {
	y := testutil.Scaled(testutil.Seq(10), 2)
	r, err := rolling.New(spiked, indexer.Forward(3), rolling.WithMinPeriods(3))
	require.NoError(t, err)

	nan := testutil.NaN
	cov, err := r.Cov(y)
	require.NoError(t, err)
	testutil.AssertFloats(t, []float64{2, 2, 2, 97, 2, -93, 2, 2, nan, nan}, cov, 1e-9)

	corr, err := r.Corr(y)
	require.NoError(t, err)
	expected := []float64{1, 1, 1, 0.8704775290207161, 0.018229084250926637, -0.861357304646493, 1, 1, nan, nan}
	testutil.AssertFloats(t, expected, corr, 1e-12)
}

func TestForwardWindowRejectsCenterAndClosed(t *testing.T) {
	_, err := rolling.New(spiked, indexer.Forward(3), rolling.WithCenter(true))
	require.ErrorIs(t, err, indexer.ErrForwardCenter)

	_, err = rolling.New(spiked, indexer.Forward(3), rolling.WithClosed(rolling.ClosedRight))
	require.ErrorIs(t, err, indexer.ErrForwardClosed)
}
