package rolling

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// aggKind identifies a reduction.
type aggKind int

const (
	aggCount aggKind = iota
	aggSum
	aggMean
	aggMin
	aggMax
	aggVar
	aggQuantile
	aggSkew
	aggKurt
	aggCov
	aggCorr
)

// reduction is one requested statistic together with its parameters.
type reduction struct {
	kind       aggKind
	ddof       int
	quantile   float64
	other      []float64
	otherValid *bitset.BitSet
}

// aggregate dispatches a reduction to the sliding path when the bounds are monotonic and to the general
// recomputation path otherwise. The split carries correctness, not just speed: sliding accumulators
// assume each step only adds positions entering the window and removes positions leaving it, and
// arbitrary bounds from a custom strategy can re-include a position whose removal was already applied.
func (r *Roller) aggregate(red reduction) []float64 {
	if r.monotonic {
		return r.slide(red)
	}
	return r.recompute(red)
}

// Count returns the number of non missing observations in each window.
func (r *Roller) Count() []float64 {
	return r.aggregate(reduction{kind: aggCount})
}

// Sum returns the sum of each window. An empty window sums to 0 when the minimum period count is 0.
func (r *Roller) Sum() []float64 {
	return r.aggregate(reduction{kind: aggSum})
}

// Mean returns the mean of each window.
func (r *Roller) Mean() []float64 {
	return r.aggregate(reduction{kind: aggMean})
}

// Min returns the smallest observation in each window.
func (r *Roller) Min() []float64 {
	return r.aggregate(reduction{kind: aggMin})
}

// Max returns the largest observation in each window.
func (r *Roller) Max() []float64 {
	return r.aggregate(reduction{kind: aggMax})
}

// Var returns the variance of each window with ddof delta degrees of freedom, defaulting to 1. A window
// of one observation, or of one repeated value, has exactly zero variance.
func (r *Roller) Var(ddof ...int) []float64 {
	return r.aggregate(reduction{kind: aggVar, ddof: ddofOrDefault(ddof)})
}

// Std returns the standard deviation of each window with ddof delta degrees of freedom, defaulting to 1,
// as the square root of Var.
func (r *Roller) Std(ddof ...int) []float64 {
	out := r.Var(ddof...)
	for i, v := range out {
		out[i] = math.Sqrt(v)
	}
	return out
}

// Median returns the median of each window. It is identical to Quantile(0.5).
func (r *Roller) Median() []float64 {
	return r.aggregate(reduction{kind: aggQuantile, quantile: 0.5})
}

// Quantile returns the q quantile of each window, interpolating linearly between the two order statistics
// straddling the target rank. q must be between 0 and 1 inclusive.
func (r *Roller) Quantile(q float64) ([]float64, error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return nil, fmt.Errorf("quantile value %v not in [0, 1]", q)
	}
	return r.aggregate(reduction{kind: aggQuantile, quantile: q}), nil
}

// Skew returns the bias corrected sample skewness of each window. Windows of fewer than three
// observations, and windows whose variance vanishes, are missing; windows of one repeated value are
// exactly 0.
func (r *Roller) Skew() []float64 {
	return r.aggregate(reduction{kind: aggSkew})
}

// Kurt returns the bias corrected excess kurtosis of each window. Windows of fewer than four
// observations, and windows whose variance vanishes, are missing; windows of one repeated value are
// exactly -3.
func (r *Roller) Kurt() []float64 {
	return r.aggregate(reduction{kind: aggKurt})
}

// Cov returns the covariance between each window of this Roller's values and the same window of the
// other column, with ddof delta degrees of freedom, defaulting to 1. A position contributes to a window
// only when both columns are non missing there.
func (r *Roller) Cov(other []float64, ddof ...int) ([]float64, error) {
	if len(other) != len(r.values) {
		return nil, fmt.Errorf("other length %d does not match the %d values", len(other), len(r.values))
	}
	return r.aggregate(reduction{kind: aggCov, ddof: ddofOrDefault(ddof), other: other, otherValid: validityMask(other)}), nil
}

// Corr returns the Pearson correlation between each window of this Roller's values and the same window
// of the other column, over the positions where both are non missing. Windows where either column is
// constant are missing, never infinite.
func (r *Roller) Corr(other []float64) ([]float64, error) {
	if len(other) != len(r.values) {
		return nil, fmt.Errorf("other length %d does not match the %d values", len(other), len(r.values))
	}
	return r.aggregate(reduction{kind: aggCorr, other: other, otherValid: validityMask(other)}), nil
}

func ddofOrDefault(ddof []int) int {
	if len(ddof) > 0 {
		return ddof[0]
	}
	return 1
}

// The calc functions turn one window's accumulated state into its output cell, applying the minimum
// period threshold, the reduction's intrinsic minimum, and the degenerate window rules. Both execution
// paths finish through them so their missing value and degeneracy behavior cannot diverge.

func calcCount(minPeriods, nobs int) float64 {
	if nobs < minPeriods {
		return math.NaN()
	}
	return float64(nobs)
}

func calcSum(minPeriods, nobs int, sum float64, sameRun int, lastValue float64) float64 {
	if nobs == 0 && minPeriods == 0 {
		return 0
	}
	if nobs == 0 || nobs < minPeriods {
		return math.NaN()
	}
	// A run of one repeated value covering the window sums exactly, regardless of accumulated rounding.
	if sameRun >= nobs {
		return lastValue * float64(nobs)
	}
	return sum
}

func calcMean(minPeriods, nobs, negCount int, sum float64, sameRun int, lastValue float64) float64 {
	if nobs == 0 || nobs < minPeriods {
		return math.NaN()
	}
	result := sum / float64(nobs)
	switch {
	case sameRun >= nobs:
		result = lastValue
	case negCount == 0 && result < 0:
		// Every observation is non negative, so a negative mean can only be removal drift.
		result = 0
	case negCount == nobs && result > 0:
		result = 0
	}
	return result
}

func calcVar(minPeriods, ddof, nobs int, ssqdm float64, sameRun int) float64 {
	if nobs < minPeriods || nobs <= ddof {
		return math.NaN()
	}
	// Single observations and runs of one repeated value have exactly zero variance.
	if nobs == 1 || sameRun >= nobs {
		return 0
	}
	result := ssqdm / float64(nobs-ddof)
	if result < 0 {
		result = 0
	}
	return result
}

func calcSkew(minPeriods, nobs int, x, xx, xxx float64, sameRun int) float64 {
	if nobs < minPeriods || nobs < 3 {
		return math.NaN()
	}
	if sameRun >= nobs {
		return 0
	}
	n := float64(nobs)
	a := x / n
	b := xx/n - a*a
	c := xxx/n - a*a*a - 3*a*b
	if b <= 1e-14 {
		return math.NaN()
	}
	r := math.Sqrt(b)
	return math.Sqrt(n*(n-1)) * c / ((n - 2) * r * r * r)
}

func calcKurt(minPeriods, nobs int, x, xx, xxx, xxxx float64, sameRun int) float64 {
	if nobs < minPeriods || nobs < 4 {
		return math.NaN()
	}
	if sameRun >= nobs {
		return -3
	}
	n := float64(nobs)
	a := x / n
	b := xx/n - a*a
	c := xxx/n - a*a*a - 3*a*b
	d := xxxx/n - a*a*a*a - 6*b*a*a - 4*c*a
	if b <= 1e-14 {
		return math.NaN()
	}
	k := (n*n-1)*d/(b*b) - 3*(n-1)*(n-1)
	return k / ((n - 2) * (n - 3))
}

func calcCov(minPeriods, ddof, nobs int, sumX, sumY, sumXY float64) float64 {
	if nobs < minPeriods || nobs <= ddof {
		return math.NaN()
	}
	n := float64(nobs)
	return (sumXY - sumX*sumY/n) / (n - float64(ddof))
}

func calcCorr(minPeriods, nobs int, sumX, sumY, sumXY, sumXX, sumYY float64, constX, constY bool) float64 {
	if nobs < minPeriods || nobs < 2 {
		return math.NaN()
	}
	if constX || constY {
		return math.NaN()
	}
	n := float64(nobs)
	cov := sumXY - sumX*sumY/n
	varX := sumXX - sumX*sumX/n
	varY := sumYY - sumY*sumY/n
	if varX <= 0 || varY <= 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
