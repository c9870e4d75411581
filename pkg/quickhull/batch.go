package quickhull

import (
	"context"
	"runtime"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	concurrency int
	hull        []Option
}

type BatchOption func(*batchOptions)

// WithConcurrency bounds the number of engines running at once.
func WithConcurrency(n int) BatchOption {
	return func(o *batchOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithHullOptions passes opts to every engine of the batch.
func WithHullOptions(opts ...Option) BatchOption {
	return func(o *batchOptions) { o.hull = append(o.hull, opts...) }
}

// ComputeAll builds one hull per cloud, each with its own engine. Results
// keep the order of clouds. The first failure cancels the clouds not started
// yet and is returned with the index of its cloud.
func ComputeAll(ctx context.Context, clouds [][]r3.Vector, opts ...BatchOption) ([]*Hull, error) {
	o := batchOptions{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}

	hulls := make([]*Hull, len(clouds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, cloud := range clouds {
		i, cloud := i, cloud
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hull, err := Compute(cloud, o.hull...)
			if err != nil {
				return errors.Wrapf(err, "cloud %d", i)
			}
			hulls[i] = hull
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hulls, nil
}
