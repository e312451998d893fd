package indexer

import (
	"errors"
	"fmt"

	"github.com/rolling-go/rolling-go"
)

// FixedWindow produces trailing windows of a fixed number of positions ending at each output position.
type FixedWindow struct {
	windowSize int
}

// Fixed returns a strategy producing trailing windows of windowSize positions. Under the default right
// closure the window at position i covers [i-windowSize+1, i+1); centering shifts the window forward so
// position i sits in its middle, with the extra position of an even window trailing the center, and the
// other closures move each edge by one position.
func Fixed(windowSize int) *FixedWindow {
	return &FixedWindow{windowSize: windowSize}
}

// MinWindowWidth returns the natural minimum width of a trailing window.
func (w *FixedWindow) MinWindowWidth() int {
	return min(1, w.windowSize)
}

func (w *FixedWindow) WindowBounds(numValues, minPeriods int, center bool, closed rolling.Closed) ([]int, []int, error) {
	if w.windowSize < 0 {
		return nil, nil, errors.New("window must be an integer 0 or greater")
	}
	if minPeriods > w.windowSize {
		return nil, nil, fmt.Errorf("minPeriods %d must be <= window %d", minPeriods, w.windowSize)
	}
	offset := 0
	if center || w.windowSize == 0 {
		// Floored (windowSize-1)/2, which integer division gets wrong for the empty window
		offset = (w.windowSize - 1) / 2
		if w.windowSize == 0 {
			offset = -1
		}
	}
	start := make([]int, numValues)
	end := make([]int, numValues)
	for i := 0; i < numValues; i++ {
		e := i + 1 + offset
		s := e - w.windowSize
		switch closed {
		case rolling.ClosedLeft, rolling.ClosedBoth:
			s--
		}
		switch closed {
		case rolling.ClosedLeft, rolling.ClosedNeither:
			e--
		}
		start[i] = s
		end[i] = e
	}
	return start, end, nil
}
