package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolling-go/rolling-go"
)

func TestForwardWindowBounds(t *testing.T) {
	start, end, err := Forward(3).WindowBounds(5, 0, false, "")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, start)
	assert.Equal(t, []int{3, 4, 5, 5, 5}, end)
}

func TestForwardWindowRejectsCenter(t *testing.T) {
	_, _, err := Forward(3).WindowBounds(5, 0, true, "")
	assert.ErrorIs(t, err, ErrForwardCenter)
	assert.EqualError(t, err, "forward-looking windows can't have center=true")
}

func TestForwardWindowRejectsClosed(t *testing.T) {
	for _, closed := range []rolling.Closed{rolling.ClosedRight, rolling.ClosedLeft, rolling.ClosedBoth, rolling.ClosedNeither} {
		_, _, err := Forward(3).WindowBounds(5, 0, false, closed)
		assert.ErrorIs(t, err, ErrForwardClosed)
	}
}

func TestForwardWindowValidation(t *testing.T) {
	_, _, err := Forward(-2).WindowBounds(5, 0, false, "")
	assert.EqualError(t, err, "window must be an integer 0 or greater")
}

func TestForwardMinWindowWidth(t *testing.T) {
	assert.Equal(t, 1, Forward(3).MinWindowWidth())
	assert.Equal(t, 0, Forward(0).MinWindowWidth())
}
