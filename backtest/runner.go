package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job is one independent replay: its own strategy, cursor and wallet.
type Job struct {
	Name     string
	Strategy Strategy
	Options  []Option
}

// RunAll replays jobs concurrently, at most limit at a time (no limit when
// limit <= 0). Each replay is still sequential. Outputs are returned in job
// order; the first failure cancels jobs that have not started yet.
func RunAll(ctx context.Context, jobs []Job, limit int) ([]*Output, error) {
	outs := make([]*Output, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := New(job.Strategy, job.Options...)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			out, err := tr.Run()
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
