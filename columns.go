package rolling

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Columns applies one aggregation to several aligned columns concurrently, sharing this Roller's bounds
// across all of them. Each column gets its own Roller via WithValues, so the passes share nothing mutable
// and run one goroutine per column:
//
//	outs, err := r.Columns(ctx, cols, func(c *rolling.Roller) []float64 { return c.Mean() })
//
// Results are returned in column order. Columns are validated before any work starts, so a misaligned
// column fails the whole call with no partial results. The context is consulted per column; one column's
// pass is bounded CPU work and is never interrupted mid window.
func (r *Roller) Columns(ctx context.Context, columns [][]float64, agg func(*Roller) []float64) ([][]float64, error) {
	rollers := make([]*Roller, len(columns))
	for i, column := range columns {
		c, err := r.WithValues(column)
		if err != nil {
			return nil, err
		}
		rollers[i] = c
	}
	out := make([][]float64, len(columns))
	group, ctx := errgroup.WithContext(ctx)
	for i := range rollers {
		i := i
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = agg(rollers[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
