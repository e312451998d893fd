package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rolling-go/rolling-go"
	"github.com/rolling-go/rolling-go/indexer"
	"github.com/rolling-go/rolling-go/internal/testutil"
)

func TestColumnsAggregatesConcurrently(t *testing.T) {
	defer goleak.VerifyNone(t)

	x := testutil.Seq(8)
	y := testutil.Scaled(x, 2)
	z := testutil.Repeat(1, 8)
	r, err := rolling.New(x, indexer.Fixed(3))
	require.NoError(t, err)

	outs, err := r.Columns(context.Background(), [][]float64{x, y, z}, func(c *rolling.Roller) []float64 {
		return c.Sum()
	})
	require.NoError(t, err)
	require.Len(t, outs, 3)
	testutil.AssertFloats(t, []float64{0, 1, 3, 6, 9, 12, 15, 18}, outs[0], 0)
	testutil.AssertFloats(t, []float64{0, 2, 6, 12, 18, 24, 30, 36}, outs[1], 0)
	testutil.AssertFloats(t, []float64{1, 2, 3, 3, 3, 3, 3, 3}, outs[2], 0)
}

func TestColumnsRejectsMisalignedColumns(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, err := rolling.New(testutil.Seq(4), indexer.Fixed(2))
	require.NoError(t, err)

	_, err = r.Columns(context.Background(), [][]float64{testutil.Seq(4), testutil.Seq(3)}, func(c *rolling.Roller) []float64 {
		return c.Sum()
	})
	assert.EqualError(t, err, "values length 3 does not match the bounds length 4")
}

func TestColumnsHonorsCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := rolling.New(testutil.Seq(4), indexer.Fixed(2))
	require.NoError(t, err)

	_, err = r.Columns(ctx, [][]float64{testutil.Seq(4)}, func(c *rolling.Roller) []float64 {
		return c.Sum()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
