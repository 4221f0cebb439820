// Package analysis runs repeated showers and aggregates their statistics:
// mean longitudinal profiles and material scans over primary energy.
//
// Runs are independent. Run i of a batch uses seed base+i, so aggregated
// output depends only on the base seed, never on worker scheduling.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/emshower/internal/shower"
)

// Runner executes batches of showers on a bounded worker pool.
type Runner struct {
	engine   *shower.Engine
	workers  int
	logger   *slog.Logger
	recorder Recorder
}

// BatchRecord is a completed batch. Results[i] was produced with seed
// Seed+i.
type BatchRecord struct {
	Material string
	Params   shower.Params
	Seed     int64
	Results  []*shower.Result
}

// Recorder receives every completed batch, for example to persist it.
// A Recorder error fails the batch.
type Recorder interface {
	RecordBatch(ctx context.Context, b BatchRecord) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent runs. Values below 1 select
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithEngine sets the engine used for each run.
func WithEngine(e *shower.Engine) Option {
	return func(r *Runner) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithRecorder sets a Recorder called after each batch.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		engine: shower.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.NumCPU()
	}
	return r
}

// Workers returns the worker pool size.
func (r *Runner) Workers() int {
	return r.workers
}

// Batch runs n showers with parameters p. Result i was produced with seed
// base+i. The first failing run cancels the rest.
func (r *Runner) Batch(ctx context.Context, p shower.Params, n int, base int64) ([]*shower.Result, error) {
	return r.batch(ctx, "", p, n, base)
}

func (r *Runner) batch(ctx context.Context, mat string, p shower.Params, n int, base int64) ([]*shower.Result, error) {
	if n < 1 {
		return nil, &shower.ParamError{
			Code:    shower.ErrCodeInvalidParameter,
			Field:   "runs",
			Message: fmt.Sprintf("must be at least 1, got %d", n),
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r.logger.Debug("batch start",
		"e0", p.E0,
		"initial_kind", p.Initial.String(),
		"runs", n,
		"seed", base,
	)

	results := make([]*shower.Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		i := i // per-iteration copy; go directive is pinned below 1.22
		g.Go(func() error {
			res, err := r.engine.Simulate(gctx, p, shower.NewSource(base+int64(i)))
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, base+int64(i), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.recorder != nil {
		rec := BatchRecord{Material: mat, Params: p, Seed: base, Results: results}
		if err := r.recorder.RecordBatch(ctx, rec); err != nil {
			return nil, fmt.Errorf("record batch: %w", err)
		}
	}

	r.logger.Debug("batch complete", "e0", p.E0, "runs", n)
	return results, nil
}
