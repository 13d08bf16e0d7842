package trace

import (
	"context"
	"runtime"

	"github.com/san-kum/pointfield/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Builder creates an independent engine for one seed.
type Builder func(seed int64) (*engine.Engine, error)

// Ensemble replays one script over several seeds, one engine per goroutine.
type Ensemble struct {
	runner    *Runner
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(r *Runner, build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{runner: r, build: build, numRuns: numRuns, seedStart: seedStart}
}

func (en *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, en.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < en.numRuns; i++ {
		g.Go(func() error {
			e, err := en.build(en.seedStart + int64(i))
			if err != nil {
				return err
			}
			results[i], err = en.runner.Run(ctx, e, cfg)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
