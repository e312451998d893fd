package indexer

import (
	"errors"

	"github.com/rolling-go/rolling-go"
)

// ErrForwardCenter is returned when a forward looking window is configured with centering, which would
// contradict the window starting at its own output position.
var ErrForwardCenter = errors.New("forward-looking windows can't have center=true")

// ErrForwardClosed is returned when a forward looking window is configured with an explicit closure.
// Forward windows always include their starting position and cover exactly the available forward span.
var ErrForwardClosed = errors.New("forward-looking windows don't support setting the closed argument")

// ForwardWindow produces windows that extend forward from each output position rather than backward.
type ForwardWindow struct {
	windowSize int
}

// Forward returns a strategy producing forward looking windows of windowSize positions starting at each
// position, truncated where fewer positions remain. Centering and explicit closure are rejected.
func Forward(windowSize int) *ForwardWindow {
	return &ForwardWindow{windowSize: windowSize}
}

// MinWindowWidth returns the natural minimum width of a forward window.
func (w *ForwardWindow) MinWindowWidth() int {
	return min(1, w.windowSize)
}

func (w *ForwardWindow) WindowBounds(numValues, minPeriods int, center bool, closed rolling.Closed) ([]int, []int, error) {
	if center {
		return nil, nil, ErrForwardCenter
	}
	if closed != "" {
		return nil, nil, ErrForwardClosed
	}
	if w.windowSize < 0 {
		return nil, nil, errors.New("window must be an integer 0 or greater")
	}
	start := make([]int, numValues)
	end := make([]int, numValues)
	for i := 0; i < numValues; i++ {
		start[i] = i
		end[i] = min(i+w.windowSize, numValues)
	}
	return start, end, nil
}
