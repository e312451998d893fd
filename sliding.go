package rolling

import (
	"math"

	"github.com/edwingeng/deque/v2"

	"github.com/rolling-go/rolling-go/internal/util"
)

// slide computes a reduction over monotonic bounds in a single pass, maintaining accumulator state as the
// window advances instead of recomputing each window.
func (r *Roller) slide(red reduction) []float64 {
	switch red.kind {
	case aggCount:
		return r.slideCount()
	case aggSum, aggMean:
		return r.slideSum(red.kind)
	case aggMin, aggMax:
		return r.slideMinMax(red.kind == aggMax)
	case aggVar:
		return r.slideVar(red.ddof)
	case aggQuantile:
		return r.slideQuantile(red.quantile)
	case aggSkew, aggKurt:
		return r.slideMoments(red.kind)
	default:
		return r.slidePair(red)
	}
}

// slideWindows walks monotonic bounds. reset begins a fresh accumulator for the first window and for any
// disjoint jump past the previous window's end; remove retracts valid positions that left the window; add
// applies valid positions that entered it; emit finalizes output position i. Removals run before
// additions so an accumulator never holds positions from two windows at once beyond their overlap.
func slideWindows(n int, start, end []int, valid func(j int) bool, reset func(), add, remove func(j int), emit func(i int)) {
	prevStart, prevEnd := 0, 0
	for i := 0; i < n; i++ {
		s, e := start[i], end[i]
		if i == 0 || s >= prevEnd {
			reset()
			for j := s; j < e; j++ {
				if valid(j) {
					add(j)
				}
			}
		} else {
			for j := prevStart; j < s; j++ {
				if valid(j) {
					remove(j)
				}
			}
			for j := prevEnd; j < e; j++ {
				if valid(j) {
					add(j)
				}
			}
		}
		emit(i)
		prevStart, prevEnd = s, e
	}
}

func (r *Roller) slideCount() []float64 {
	out := make([]float64, len(r.values))
	nobs := 0
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() { nobs = 0 },
		func(int) { nobs++ },
		func(int) { nobs-- },
		func(i int) { out[i] = calcCount(r.minPeriods, nobs) },
	)
	return out
}

func (r *Roller) slideSum(kind aggKind) []float64 {
	out := make([]float64, len(r.values))
	var acc sumAccum
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() { acc = newSumAccum() },
		func(j int) { acc.add(r.values[j]) },
		func(j int) { acc.remove(r.values[j]) },
		func(i int) {
			if kind == aggSum {
				out[i] = calcSum(r.minPeriods, acc.nobs, acc.sum, acc.sameRun, acc.lastValue)
			} else {
				out[i] = calcMean(r.minPeriods, acc.nobs, acc.negCount, acc.sum, acc.sameRun, acc.lastValue)
			}
		},
	)
	return out
}

// slideMinMax keeps a deque of candidate positions whose values decrease (for max) or increase (for min)
// from front to back. Entering positions pop dominated candidates off the back; candidates that fall
// before the window's start expire off the front, leaving the extremum at the front.
func (r *Roller) slideMinMax(isMax bool) []float64 {
	out := make([]float64, len(r.values))
	candidates := deque.NewDeque[int]()
	nobs := 0
	dominates := func(a, b float64) bool {
		if isMax {
			return a >= b
		}
		return a <= b
	}
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() {
			for candidates.Len() > 0 {
				candidates.PopFront()
			}
			nobs = 0
		},
		func(j int) {
			nobs++
			for candidates.Len() > 0 {
				b, _ := candidates.Back()
				if !dominates(r.values[j], r.values[b]) {
					break
				}
				candidates.PopBack()
			}
			candidates.PushBack(j)
		},
		func(int) { nobs-- },
		func(i int) {
			for candidates.Len() > 0 {
				f, _ := candidates.Front()
				if f >= r.start[i] {
					break
				}
				candidates.PopFront()
			}
			if f, ok := candidates.Front(); ok && nobs >= max(r.minPeriods, 1) {
				out[i] = r.values[f]
			} else {
				out[i] = math.NaN()
			}
		},
	)
	return out
}

func (r *Roller) slideVar(ddof int) []float64 {
	out := make([]float64, len(r.values))
	var acc varAccum
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() { acc = newVarAccum() },
		func(j int) { acc.add(r.values[j]) },
		func(j int) { acc.remove(r.values[j]) },
		func(i int) { out[i] = calcVar(r.minPeriods, ddof, acc.nobs, acc.ssqdm, acc.sameRun) },
	)
	return out
}

func (r *Roller) slideQuantile(q float64) []float64 {
	out := make([]float64, len(r.values))
	window := util.NewSortedWindow(q)
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() { window.Reset() },
		func(j int) { window.Add(r.values[j]) },
		func(int) { window.RemoveOldest() },
		func(i int) {
			if window.Size() >= max(r.minPeriods, 1) {
				out[i] = window.Value()
			} else {
				out[i] = math.NaN()
			}
		},
	)
	return out
}

func (r *Roller) slideMoments(kind aggKind) []float64 {
	out := make([]float64, len(r.values))
	centered := r.centeredValues()
	var acc momentAccum
	slideWindows(len(r.values), r.start, r.end, r.validAt,
		func() { acc = newMomentAccum() },
		func(j int) { acc.add(centered[j]) },
		func(j int) { acc.remove(centered[j]) },
		func(i int) {
			if kind == aggSkew {
				out[i] = calcSkew(r.minPeriods, acc.nobs, acc.x, acc.xx, acc.xxx, acc.sameRun)
			} else {
				out[i] = calcKurt(r.minPeriods, acc.nobs, acc.x, acc.xx, acc.xxx, acc.xxxx, acc.sameRun)
			}
		},
	)
	return out
}

func (r *Roller) slidePair(red reduction) []float64 {
	out := make([]float64, len(r.values))
	bothValid := func(j int) bool { return r.validAt(j) && red.otherValid.Test(uint(j)) }
	var acc pairAccum
	slideWindows(len(r.values), r.start, r.end, bothValid,
		func() { acc = newPairAccum() },
		func(j int) { acc.add(r.values[j], red.other[j]) },
		func(j int) { acc.remove(r.values[j], red.other[j]) },
		func(i int) {
			if red.kind == aggCov {
				out[i] = calcCov(r.minPeriods, red.ddof, acc.nobs, acc.sumX, acc.sumY, acc.sumXY)
			} else {
				out[i] = calcCorr(r.minPeriods, acc.nobs, acc.sumX, acc.sumY, acc.sumXY, acc.sumXX, acc.sumYY,
					acc.sameRunX >= acc.nobs, acc.sameRunY >= acc.nobs)
			}
		},
	)
	return out
}

// centeredValues returns a copy of the values shifted by the rounded global mean of the non missing
// observations. Higher moments are shift invariant, and centering keeps the raw power sums small enough
// to stay precise. The shift is skipped when the minimum already sits far below the mean, where
// subtraction would cost more precision for the smallest values than it saves.
func (r *Roller) centeredValues() []float64 {
	sum, minValue := 0.0, math.Inf(1)
	nobs := 0
	for i, v := range r.values {
		if r.validAt(i) {
			sum += v
			nobs++
			if v < minValue {
				minValue = v
			}
		}
	}
	out := make([]float64, len(r.values))
	copy(out, r.values)
	if nobs == 0 {
		return out
	}
	if mean := sum / float64(nobs); minValue-mean > -1e5 {
		shift := math.Round(mean)
		for i := range out {
			out[i] -= shift
		}
	}
	return out
}

// kahanAdd adds v to sum, tracking the low order bits lost to rounding in a compensation term.
func kahanAdd(sum, v float64, compensation *float64) float64 {
	y := v - *compensation
	t := sum + y
	*compensation = t - sum - y
	return t
}

// sumAccum is a running window sum with separately compensated addition and removal. A trailing run of
// one repeated value is tracked so constant windows can be finalized exactly, and the negative
// observation count lets the mean clamp sign contradicting drift.
type sumAccum struct {
	nobs       int
	negCount   int
	sum        float64
	compAdd    float64
	compRemove float64
	sameRun    int
	lastValue  float64
}

func newSumAccum() sumAccum {
	return sumAccum{lastValue: math.NaN()}
}

func (a *sumAccum) add(v float64) {
	a.nobs++
	if v < 0 {
		a.negCount++
	}
	if v == a.lastValue {
		a.sameRun++
	} else {
		a.sameRun = 1
	}
	a.lastValue = v
	a.sum = kahanAdd(a.sum, v, &a.compAdd)
}

func (a *sumAccum) remove(v float64) {
	a.nobs--
	if v < 0 {
		a.negCount--
	}
	a.sum = kahanAdd(a.sum, -v, &a.compRemove)
}

// varAccum tracks the running mean and the sum of squared deviations about it in Welford's form, with
// compensated updates in both the add and the inverse remove direction.
type varAccum struct {
	nobs       int
	mean       float64
	ssqdm      float64
	compAdd    float64
	compRemove float64
	sameRun    int
	lastValue  float64
}

func newVarAccum() varAccum {
	return varAccum{lastValue: math.NaN()}
}

func (a *varAccum) add(v float64) {
	a.nobs++
	if v == a.lastValue {
		a.sameRun++
	} else {
		a.sameRun = 1
	}
	a.lastValue = v
	prevMean := a.mean - a.compAdd
	y := v - a.compAdd
	delta := y - a.mean
	a.compAdd = delta + a.mean - y
	a.mean += delta / float64(a.nobs)
	a.ssqdm += (v - prevMean) * (v - a.mean)
}

func (a *varAccum) remove(v float64) {
	a.nobs--
	if a.nobs > 0 {
		prevMean := a.mean - a.compRemove
		y := v - a.compRemove
		delta := y - a.mean
		a.compRemove = delta + a.mean - y
		a.mean -= delta / float64(a.nobs)
		a.ssqdm -= (v - prevMean) * (v - a.mean)
	} else {
		a.mean = 0
		a.ssqdm = 0
	}
}

// momentAccum tracks compensated raw power sums, which the skewness and kurtosis formulas combine into
// central moments at finalization.
type momentAccum struct {
	nobs                 int
	x, xx, xxx, xxxx     float64
	cx, cxx, cxxx, cxxxx float64
	rx, rxx, rxxx, rxxxx float64
	sameRun              int
	lastValue            float64
}

func newMomentAccum() momentAccum {
	return momentAccum{lastValue: math.NaN()}
}

func (a *momentAccum) add(v float64) {
	a.nobs++
	if v == a.lastValue {
		a.sameRun++
	} else {
		a.sameRun = 1
	}
	a.lastValue = v
	a.x = kahanAdd(a.x, v, &a.cx)
	a.xx = kahanAdd(a.xx, v*v, &a.cxx)
	a.xxx = kahanAdd(a.xxx, v*v*v, &a.cxxx)
	a.xxxx = kahanAdd(a.xxxx, v*v*v*v, &a.cxxxx)
}

func (a *momentAccum) remove(v float64) {
	a.nobs--
	a.x = kahanAdd(a.x, -v, &a.rx)
	a.xx = kahanAdd(a.xx, -v*v, &a.rxx)
	a.xxx = kahanAdd(a.xxx, -v*v*v, &a.rxxx)
	a.xxxx = kahanAdd(a.xxxx, -v*v*v*v, &a.rxxxx)
}

// pairAccum tracks the paired running sums of a correlation window over the positions where both columns
// are observed; covariance and correlation derive from the five sums at finalization.
type pairAccum struct {
	nobs                            int
	sumX, sumY, sumXY, sumXX, sumYY float64
	sameRunX, sameRunY              int
	lastX, lastY                    float64
}

func newPairAccum() pairAccum {
	return pairAccum{lastX: math.NaN(), lastY: math.NaN()}
}

func (a *pairAccum) add(x, y float64) {
	a.nobs++
	if x == a.lastX {
		a.sameRunX++
	} else {
		a.sameRunX = 1
	}
	if y == a.lastY {
		a.sameRunY++
	} else {
		a.sameRunY = 1
	}
	a.lastX, a.lastY = x, y
	a.sumX += x
	a.sumY += y
	a.sumXY += x * y
	a.sumXX += x * x
	a.sumYY += y * y
}

func (a *pairAccum) remove(x, y float64) {
	a.nobs--
	a.sumX -= x
	a.sumY -= y
	a.sumXY -= x * y
	a.sumXX -= x * x
	a.sumYY -= y * y
}
