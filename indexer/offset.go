package indexer

import (
	"errors"
	"fmt"
	"time"

	"github.com/rolling-go/rolling-go"
)

// ErrTimesNotMonotonic is returned when an offset window's timestamp axis decreases. The edge scans that
// resolve each window's span rely on a non-decreasing axis.
var ErrTimesNotMonotonic = errors.New("offset windows require monotonically non-decreasing timestamps")

// Offset rewinds a timestamp by some calendar amount, such as a fixed duration or a business day.
// Implementations come from the surrounding calendar layer; Back must return a time no later than t.
type Offset interface {
	Back(t time.Time) time.Time
}

// OffsetFunc is a function that satisfies the Offset interface.
type OffsetFunc func(time.Time) time.Time

func (f OffsetFunc) Back(t time.Time) time.Time {
	return f(t)
}

// ByDuration returns an Offset that rewinds by a fixed duration.
func ByDuration(d time.Duration) Offset {
	return OffsetFunc(func(t time.Time) time.Time {
		return t.Add(-d)
	})
}

// OffsetWindow produces windows covering the positions whose timestamps fall within an offset rewound
// from each position's own timestamp.
type OffsetWindow struct {
	times  []time.Time
	offset Offset
}

// VariableOffset returns a strategy over a timestamp axis aligned with the values. Under the default
// right closure the window at position i covers the positions with timestamps in (t-offset, t], where t
// is position i's timestamp; left closure includes the rewound boundary timestamp and excludes t itself,
// and both and neither include or exclude both. The axis must be monotonically non-decreasing; duplicate
// timestamps are fine.
func VariableOffset(times []time.Time, offset Offset) *OffsetWindow {
	return &OffsetWindow{times: times, offset: offset}
}

// MinWindowWidth returns 0: offset windows at the start of the axis can be legitimately empty, like the
// first window under left closure, which excludes its own position.
func (w *OffsetWindow) MinWindowWidth() int {
	return 0
}

func (w *OffsetWindow) WindowBounds(numValues, minPeriods int, center bool, closed rolling.Closed) ([]int, []int, error) {
	if len(w.times) != numValues {
		return nil, nil, fmt.Errorf("timestamp axis length %d does not match the %d values", len(w.times), numValues)
	}
	for i := 1; i < len(w.times); i++ {
		if w.times[i].Before(w.times[i-1]) {
			return nil, nil, ErrTimesNotMonotonic
		}
	}

	rightClosed := closed == "" || closed == rolling.ClosedRight || closed == rolling.ClosedBoth
	leftClosed := closed == rolling.ClosedLeft || closed == rolling.ClosedBoth

	start := make([]int, numValues)
	end := make([]int, numValues)
	if numValues == 0 {
		return start, end, nil
	}
	if rightClosed {
		end[0] = 1
	}
	for i := 1; i < numValues; i++ {
		endBound := w.times[i]
		startBound := w.offset.Back(w.times[i])
		// A closed left edge admits the boundary timestamp itself
		if leftClosed {
			startBound = startBound.Add(-time.Nanosecond)
		}

		// Advance the start from the previous window's start until it is inside the bound, re-scanning
		// rather than assuming unique timestamps
		start[i] = i
		for j := start[i-1]; j < i; j++ {
			if w.times[j].After(startBound) {
				start[i] = j
				break
			}
		}

		// On a non-decreasing axis the previous end marker's timestamp never exceeds the current one, so
		// the end either advances past the current position or, for an open right edge landing on a
		// duplicate timestamp, stays put
		if !rightClosed && w.times[end[i-1]].Equal(endBound) {
			end[i] = end[i-1] + 1
		} else {
			end[i] = i + 1
		}
		if !rightClosed {
			end[i]--
		}
	}
	return start, end, nil
}
