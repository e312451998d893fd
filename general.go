package rolling

import (
	"math"
	"slices"
)

// recompute evaluates a reduction window by window, materializing each window's observations and applying
// a direct formula. It assumes nothing about the bounds beyond being clamped to the value range, so it
// handles the arbitrary, possibly non monotonic bounds of custom strategies, where sliding accumulators
// would be corrupted by positions re-entering after removal.
func (r *Roller) recompute(red reduction) []float64 {
	out := make([]float64, len(r.values))
	switch red.kind {
	case aggCount:
		for i := range out {
			out[i] = calcCount(r.minPeriods, r.validCount(r.start[i], r.end[i]))
		}
		return out
	case aggSkew, aggKurt:
		return r.recomputeMoments(red.kind)
	case aggCov, aggCorr:
		return r.recomputePair(red)
	}
	scratch := make([]float64, 0, 64)
	for i := range out {
		window, negCount := r.gather(scratch, r.start[i], r.end[i])
		out[i] = reduceWindow(red, window, negCount, r.minPeriods)
		scratch = window[:0]
	}
	return out
}

// validCount returns the number of non missing positions in [s, e).
func (r *Roller) validCount(s, e int) int {
	if s >= e {
		return 0
	}
	n := int(r.valid.Rank(uint(e - 1)))
	if s > 0 {
		n -= int(r.valid.Rank(uint(s - 1)))
	}
	return n
}

// gather appends the non missing values in [s, e) to buf, also counting the negative ones.
func (r *Roller) gather(buf []float64, s, e int) ([]float64, int) {
	buf = buf[:0]
	negCount := 0
	for j := s; j < e; j++ {
		if r.validAt(j) {
			v := r.values[j]
			if v < 0 {
				negCount++
			}
			buf = append(buf, v)
		}
	}
	return buf, negCount
}

// reduceWindow applies one scalar reduction to a materialized window. Constant windows are detected up
// front so the degenerate value rules shared with the sliding path apply identically.
func reduceWindow(red reduction, window []float64, negCount, minPeriods int) float64 {
	nobs := len(window)
	sameRun := 0
	if nobs > 0 && allEqual(window) {
		sameRun = nobs
	}
	switch red.kind {
	case aggSum:
		return calcSum(minPeriods, nobs, directSum(window), sameRun, lastOf(window))
	case aggMean:
		return calcMean(minPeriods, nobs, negCount, directSum(window), sameRun, lastOf(window))
	case aggMin, aggMax:
		if nobs < max(minPeriods, 1) {
			return math.NaN()
		}
		m := window[0]
		if red.kind == aggMax {
			for _, v := range window[1:] {
				if v > m {
					m = v
				}
			}
		} else {
			for _, v := range window[1:] {
				if v < m {
					m = v
				}
			}
		}
		return m
	case aggVar:
		ssqdm := 0.0
		if nobs > 0 {
			mean := directSum(window) / float64(nobs)
			for _, v := range window {
				d := v - mean
				ssqdm += d * d
			}
		}
		return calcVar(minPeriods, red.ddof, nobs, ssqdm, sameRun)
	default: // aggQuantile
		if nobs < max(minPeriods, 1) {
			return math.NaN()
		}
		slices.Sort(window)
		return quantileOf(window, red.quantile)
	}
}

func (r *Roller) recomputeMoments(kind aggKind) []float64 {
	out := make([]float64, len(r.values))
	centered := r.centeredValues()
	for i := range out {
		var x, xx, xxx, xxxx float64
		nobs := 0
		first := math.NaN()
		allSame := true
		for j := r.start[i]; j < r.end[i]; j++ {
			if !r.validAt(j) {
				continue
			}
			v := centered[j]
			if nobs == 0 {
				first = v
			} else if v != first {
				allSame = false
			}
			nobs++
			x += v
			xx += v * v
			xxx += v * v * v
			xxxx += v * v * v * v
		}
		sameRun := 0
		if nobs > 0 && allSame {
			sameRun = nobs
		}
		if kind == aggSkew {
			out[i] = calcSkew(r.minPeriods, nobs, x, xx, xxx, sameRun)
		} else {
			out[i] = calcKurt(r.minPeriods, nobs, x, xx, xxx, xxxx, sameRun)
		}
	}
	return out
}

func (r *Roller) recomputePair(red reduction) []float64 {
	out := make([]float64, len(r.values))
	for i := range out {
		acc := newPairAccum()
		for j := r.start[i]; j < r.end[i]; j++ {
			if r.validAt(j) && red.otherValid.Test(uint(j)) {
				acc.add(r.values[j], red.other[j])
			}
		}
		if red.kind == aggCov {
			out[i] = calcCov(r.minPeriods, red.ddof, acc.nobs, acc.sumX, acc.sumY, acc.sumXY)
		} else {
			out[i] = calcCorr(r.minPeriods, acc.nobs, acc.sumX, acc.sumY, acc.sumXY, acc.sumXX, acc.sumYY,
				acc.sameRunX >= acc.nobs, acc.sameRunY >= acc.nobs)
		}
	}
	return out
}

// quantileOf returns the linearly interpolated q quantile of a sorted, non empty window. The arithmetic
// mirrors the sliding sorted window's query so both paths produce identical bits.
func quantileOf(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := float64(len(sorted)-1) * q
	idx := int(rank)
	frac := rank - math.Floor(rank)
	if frac == 0 || idx+1 >= len(sorted) {
		return sorted[idx]
	}
	low := sorted[idx]
	return low + (sorted[idx+1]-low)*frac
}

func directSum(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum
}

func allEqual(window []float64) bool {
	for _, v := range window[1:] {
		if v != window[0] {
			return false
		}
	}
	return true
}

func lastOf(window []float64) float64 {
	if len(window) == 0 {
		return math.NaN()
	}
	return window[len(window)-1]
}
