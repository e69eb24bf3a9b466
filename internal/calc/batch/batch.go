package batch

import (
	"context"
	"fmt"

	"Buckling/internal/calc/buckling"

	"golang.org/x/sync/errgroup"
)

// MaxItems bounds one batch request.
const MaxItems = 1000

type Input struct {
	Items []buckling.Input `json:"items"`
}

type Result struct {
	Results []buckling.Result `json:"results"`
}

// Predict evaluates every item with at most workers in flight. Per-item
// faults are reported in place; only context cancellation aborts the batch.
func Predict(ctx context.Context, a *buckling.Arbiter, items []buckling.Input, workers int) (Result, error) {
	if len(items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(items) > MaxItems {
		return Result{}, fmt.Errorf("too many items: %d > %d", len(items), MaxItems)
	}
	if workers <= 0 {
		workers = 1
	}

	out := Result{Results: make([]buckling.Result, len(items))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			load, err := a.Predict(item)
			out.Results[i] = buckling.NewResult(load, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return out, nil
}
