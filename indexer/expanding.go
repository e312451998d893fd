package indexer

import "github.com/rolling-go/rolling-go"

// ExpandingWindow produces cumulative windows covering everything up to and including each position.
type ExpandingWindow struct{}

// Expanding returns a strategy whose window at position i is [0, i+1), so every reduction sees the whole
// history up to the current position. Centering and closure do not apply to expanding windows and are
// ignored.
func Expanding() *ExpandingWindow {
	return &ExpandingWindow{}
}

// MinWindowWidth returns the natural minimum width of an expanding window.
func (w *ExpandingWindow) MinWindowWidth() int {
	return 1
}

func (w *ExpandingWindow) WindowBounds(numValues, minPeriods int, center bool, closed rolling.Closed) ([]int, []int, error) {
	start := make([]int, numValues)
	end := make([]int, numValues)
	for i := 0; i < numValues; i++ {
		end[i] = i + 1
	}
	return start, end, nil
}
