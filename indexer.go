package rolling

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrIndexerSignature is wrapped by errors returned when a window strategy attached via New does not
// expose the required WindowBounds operation.
var ErrIndexerSignature = errors.New("does not implement the required window bounds signature")

// Indexer computes window boundaries for a column of values. For every output position i, the window is
// the half open slice of input positions [start[i], end[i]).
//
// Implementations carry their own immutable configuration, such as a window size or a timestamp axis,
// supplied when the strategy is constructed. WindowBounds is called once per Roller with the resolved
// minimum period count, the centering flag, and the closure, and must return bounds of length numValues.
// The engine clamps returned bounds to [0, numValues] and treats a start beyond its end as an empty
// window, so strategies are free to return uncropped arithmetic. Bounds are not required to be monotonic;
// non-monotonic bounds are handled by recomputing each window from scratch.
type Indexer interface {
	WindowBounds(numValues, minPeriods int, center bool, closed Closed) (start []int, end []int, err error)
}

// IndexerFunc is a function that satisfies the Indexer interface.
type IndexerFunc func(numValues, minPeriods int, center bool, closed Closed) ([]int, []int, error)

func (f IndexerFunc) WindowBounds(numValues, minPeriods int, center bool, closed Closed) ([]int, []int, error) {
	return f(numValues, minPeriods, center, closed)
}

// minWidther is implemented by strategies that advertise the natural minimum width of their windows,
// which is used as the default minimum period count.
type minWidther interface {
	MinWindowWidth() int
}

// toIndexer returns window as an Indexer, else an error naming the offending strategy. This runs at
// attachment time so that a bad strategy fails before any bounds or aggregation work begins.
func toIndexer(window any) (Indexer, error) {
	switch w := window.(type) {
	case Indexer:
		return w, nil
	case func(int, int, bool, Closed) ([]int, []int, error):
		return IndexerFunc(w), nil
	case nil:
		return nil, fmt.Errorf("nil window strategy %w", ErrIndexerSignature)
	}
	name := strategyName(window)
	if method, ok := reflect.TypeOf(window).MethodByName("WindowBounds"); ok {
		return nil, fmt.Errorf("%s %w: WindowBounds is %s", name, ErrIndexerSignature, method.Type)
	}
	return nil, fmt.Errorf("%s %w", name, ErrIndexerSignature)
}

// strategyName returns the bare type name of a strategy when it has one, else its full type string.
func strategyName(window any) string {
	t := reflect.TypeOf(window)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
