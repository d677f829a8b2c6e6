package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/typebridge/types"
)

// BatchItem is one invocation in a batch.
type BatchItem struct {
	Function string
	Args     types.Term
	Decls    types.Term
}

// BatchResult holds the outcome of one batch item.
type BatchResult struct {
	Result types.Term
	Err    error
}

// CallBatch invokes every item concurrently, at most parallelism calls in
// flight (0 means unbounded). Results line up with items by index; one
// item's failure never aborts the others, though context cancellation stops
// items not yet started.
func (c *Client) CallBatch(ctx context.Context, items []BatchItem, parallelism int) []BatchResult {
	results := make([]BatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Err: err}
				return nil
			}
			result, err := c.Call(ctx, item.Function, item.Args, item.Decls)
			results[i] = BatchResult{Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
