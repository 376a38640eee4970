package shapego

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/shapego/geometry"
)

// DatasetsToSampleMatrix converts datasets into an (N·D)×k matrix whose
// column j is the sample vector of datasets[j]. Up to workers conversions
// run concurrently; workers <= 0 means no limit.
//
// The first failing dataset cancels the remaining conversions.
func DatasetsToSampleMatrix(ctx context.Context, rep Representer, datasets []*geometry.Dataset, workers int, opts ...Option) (_ *mat.Dense, err error) {
	o := applyOptions(opts)
	start := time.Now()
	defer func() {
		o.metricsCollector.RecordBatch(len(datasets), time.Since(start), err)
		o.logger.LogBatch(ctx, len(datasets), err)
	}()

	rows := rep.NumberOfPoints() * rep.Dimensions()
	if rows == 0 || len(datasets) == 0 {
		return nil, modelError("datasets to sample matrix",
			fmt.Errorf("%w: %d rows, %d datasets", ErrEmptySampleMatrix, rows, len(datasets)))
	}

	out := mat.NewDense(rows, len(datasets), nil)
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for j, ds := range datasets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := rep.DatasetToSampleVector(ds)
			if err != nil {
				return fmt.Errorf("dataset %d: %w", j, err)
			}
			// Columns are disjoint, so concurrent SetCol calls do not race.
			out.SetCol(j, v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, modelError("datasets to sample matrix", err)
	}
	return out, nil
}
