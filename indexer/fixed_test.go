package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolling-go/rolling-go"
)

func TestFixedWindowBounds(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		center bool
		closed rolling.Closed
		start  []int
		end    []int
	}{
		{"right closed", 3, false, "", []int{-2, -1, 0, 1, 2}, []int{1, 2, 3, 4, 5}},
		{"left closed", 3, false, rolling.ClosedLeft, []int{-3, -2, -1, 0, 1}, []int{0, 1, 2, 3, 4}},
		{"both closed", 3, false, rolling.ClosedBoth, []int{-3, -2, -1, 0, 1}, []int{1, 2, 3, 4, 5}},
		{"neither closed", 3, false, rolling.ClosedNeither, []int{-2, -1, 0, 1, 2}, []int{0, 1, 2, 3, 4}},
		{"centered odd", 3, true, "", []int{-1, 0, 1, 2, 3}, []int{2, 3, 4, 5, 6}},
		{"centered even trails", 4, true, "", []int{-2, -1, 0, 1, 2}, []int{2, 3, 4, 5, 6}},
		{"empty window", 0, false, "", []int{0, 1, 2, 3, 4}, []int{0, 1, 2, 3, 4}},
		{"empty window centered", 0, true, "", []int{0, 1, 2, 3, 4}, []int{0, 1, 2, 3, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end, err := Fixed(tc.size).WindowBounds(5, 0, tc.center, tc.closed)
			require.NoError(t, err)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestFixedWindowValidation(t *testing.T) {
	_, _, err := Fixed(-1).WindowBounds(3, 0, false, "")
	assert.EqualError(t, err, "window must be an integer 0 or greater")

	_, _, err = Fixed(2).WindowBounds(3, 5, false, "")
	assert.EqualError(t, err, "minPeriods 5 must be <= window 2")
}

func TestFixedMinWindowWidth(t *testing.T) {
	assert.Equal(t, 1, Fixed(3).MinWindowWidth())
	assert.Equal(t, 0, Fixed(0).MinWindowWidth())
}
