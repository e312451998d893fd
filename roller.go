package rolling

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Roller computes windowed statistical reductions over a column of float64 values. The windows are
// produced by an attached strategy as half open [start, end) position slices, one per input position, and
// every reduction returns one output cell per position. NaN input values are missing observations: they
// never enter a reduction, and a window whose non missing count falls below the required minimum produces
// a NaN cell rather than an error.
//
// A Roller's bounds are computed once, when it is built, and are read-only afterward, so any number of
// reductions can reuse them, including concurrently: reductions share no mutable state.
type Roller struct {
	values     []float64
	valid      *bitset.BitSet
	start, end []int
	monotonic  bool
	minPeriods int
}

type config struct {
	minPeriods    int
	hasMinPeriods bool
	center        bool
	closed        Closed
}

// Option configures a Roller.
type Option func(*config)

// WithMinPeriods returns an Option that requires at least minPeriods non missing observations in a window
// before it produces a non missing result. A minPeriods of 0 explicitly allows empty windows, for which
// count and sum produce 0. When unset, the default is the natural minimum width of the attached
// strategy's windows: 1 for trailing, forward, expanding, and custom windows, 0 for timestamp offset
// windows, whose earliest windows can be legitimately empty.
func WithMinPeriods(minPeriods int) Option {
	return func(c *config) {
		c.minPeriods = minPeriods
		c.hasMinPeriods = true
	}
}

// WithCenter returns an Option that centers each window on its output position, for strategies that honor
// centering.
func WithCenter(center bool) Option {
	return func(c *config) {
		c.center = center
	}
}

// WithClosed returns an Option that sets which window edges include their boundary position, for
// strategies that honor closure.
func WithClosed(closed Closed) Option {
	return func(c *config) {
		c.closed = closed
	}
}

// New returns a Roller over values whose windows are produced by the window strategy: an Indexer, a
// function with the IndexerFunc signature, or any value exposing an equivalent WindowBounds method.
//
// The strategy contract is checked and the bounds are computed here, so a non conforming strategy, an
// invalid option, or a strategy configuration error is reported immediately rather than on first
// reduction, and no partial results are ever produced from a misconfigured Roller.
func New(values []float64, window any, options ...Option) (*Roller, error) {
	ix, err := toIndexer(window)
	if err != nil {
		return nil, err
	}
	var c config
	for _, option := range options {
		option(&c)
	}
	if !c.closed.valid() {
		return nil, errors.New("closed must be 'right', 'left', 'both' or 'neither'")
	}
	if c.hasMinPeriods && c.minPeriods < 0 {
		return nil, errors.New("minPeriods must be >= 0")
	}
	minPeriods := 1
	if mw, ok := window.(minWidther); ok {
		minPeriods = mw.MinWindowWidth()
	}
	if c.hasMinPeriods {
		minPeriods = c.minPeriods
	}
	start, end, err := ix.WindowBounds(len(values), minPeriods, c.center, c.closed)
	if err != nil {
		return nil, err
	}
	if len(start) != len(values) || len(end) != len(values) {
		return nil, fmt.Errorf("window bounds lengths %d and %d do not match the %d values", len(start), len(end), len(values))
	}
	clampBounds(start, end, len(values))
	return &Roller{
		values:     values,
		valid:      validityMask(values),
		start:      start,
		end:        end,
		monotonic:  monotonicBounds(start, end),
		minPeriods: minPeriods,
	}, nil
}

// WithValues returns a Roller over a different column that shares this Roller's bounds, monotonicity, and
// minimum period count, so several aligned columns can reuse one bounds computation. The column must have
// the same length as the one the bounds were computed for.
func (r *Roller) WithValues(values []float64) (*Roller, error) {
	if len(values) != len(r.values) {
		return nil, fmt.Errorf("values length %d does not match the bounds length %d", len(values), len(r.start))
	}
	c := *r
	c.values = values
	c.valid = validityMask(values)
	return &c, nil
}

// Len returns the number of input positions, which is also the length of every reduction's output.
func (r *Roller) Len() int {
	return len(r.values)
}

// validAt returns whether position j holds a non missing observation.
func (r *Roller) validAt(j int) bool {
	return r.valid.Test(uint(j))
}

// clampBounds limits bounds to [0, numValues] and collapses inverted pairs into empty windows.
func clampBounds(start, end []int, numValues int) {
	for i := range start {
		if end[i] > numValues {
			end[i] = numValues
		}
		if end[i] < 0 {
			end[i] = 0
		}
		if start[i] < 0 {
			start[i] = 0
		}
		if start[i] > end[i] {
			start[i] = end[i]
		}
	}
}

// monotonicBounds returns whether both bounds arrays are non-decreasing, which is what allows reductions
// to slide accumulators instead of recomputing every window.
func monotonicBounds(start, end []int) bool {
	for i := 1; i < len(start); i++ {
		if start[i] < start[i-1] || end[i] < end[i-1] {
			return false
		}
	}
	return true
}

// validityMask returns a bitset with a bit set for each non missing position.
func validityMask(values []float64) *bitset.BitSet {
	valid := bitset.New(uint(len(values)))
	for i, v := range values {
		if !math.IsNaN(v) {
			valid.Set(uint(i))
		}
	}
	return valid
}
