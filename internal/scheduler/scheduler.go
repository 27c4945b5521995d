// Package scheduler fans evaluation tasks out across a bounded worker pool
// and collects the accepted results.
//
// Tasks are stateless: each carries its sample and index by value, and the
// evaluate function reads only immutable shared state (catalog,
// constraints). Cancellation is cooperative — a cancelled context stops
// dispatch of queued samples while in-flight tasks run to completion; the
// solver's hard iteration caps bound how long that can take.
package scheduler

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/skysweep/skysweep/internal/eval"
	"github.com/skysweep/skysweep/internal/telemetry"
)

// EvaluateFunc evaluates one sample. Implementations must be safe for
// concurrent use and must not retain the sample slice.
type EvaluateFunc func(sample []float64, index int) eval.Result

// Stats summarizes a completed (or cancelled) batch.
type Stats struct {
	Evaluated  int64
	Accepted   int64
	Rejected   int64
	Elapsed    time.Duration
	Throughput float64 // samples per second
	Rejections map[eval.Reason]int64
}

// Pool is a reusable batch scheduler. The zero value is not usable; call
// New.
type Pool struct {
	workers       int
	progressEvery int64
	logger        *slog.Logger

	evaluatedTotal atomic.Int64
	acceptedTotal  atomic.Int64
	inFlight       atomic.Int64
	metricsOnce    sync.Once
	evalDuration   metric.Float64Histogram
}

// DefaultWorkers reserves one hardware thread for the collector and OS.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0) - 1
	if n < 1 {
		n = 1
	}
	return n
}

// New creates a pool. workers <= 0 selects DefaultWorkers; progressEvery
// <= 0 disables progress logging.
func New(workers int, progressEvery int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		workers:       workers,
		progressEvery: int64(progressEvery),
		logger:        logger,
	}
}

// Workers returns the configured pool width.
func (p *Pool) Workers() int { return p.workers }

// Run evaluates every sample and returns the accepted subset in arrival
// order (the aggregate is treated as unordered downstream). On
// cancellation it returns the results collected so far along with
// ctx.Err(); a fully drained batch returns a nil error.
func (p *Pool) Run(ctx context.Context, samples [][]float64, fn EvaluateFunc) ([]eval.Result, Stats, error) {
	p.registerMetrics()
	start := time.Now()

	results := make(chan eval.Result, p.workers*2)

	g := &errgroup.Group{}
	g.SetLimit(p.workers)

	// Dispatcher: one task per sample, stopping on cancellation. Each task
	// payload is the sample and its index only — no shared mutable state.
	dispatchErr := make(chan error, 1)
	go func() {
		defer close(dispatchErr)
	dispatch:
		for i, s := range samples {
			select {
			case <-ctx.Done():
				dispatchErr <- ctx.Err()
				break dispatch
			default:
			}
			sample, index := s, i
			g.Go(func() error {
				p.inFlight.Add(1)
				defer p.inFlight.Add(-1)

				taskStart := time.Now()
				res := fn(sample, index)
				if p.evalDuration != nil {
					p.evalDuration.Record(context.Background(), time.Since(taskStart).Seconds())
				}
				results <- res
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	var (
		accepted   []eval.Result
		stats      Stats
		rejections = make(map[eval.Reason]int64)
	)
	for res := range results {
		stats.Evaluated++
		p.evaluatedTotal.Add(1)
		if res.Accepted {
			stats.Accepted++
			p.acceptedTotal.Add(1)
			accepted = append(accepted, res)
		} else {
			stats.Rejected++
			rejections[res.Reason]++
		}

		if p.progressEvery > 0 && stats.Evaluated%p.progressEvery == 0 {
			elapsed := time.Since(start)
			p.logger.Info("evaluation progress",
				"evaluated", stats.Evaluated,
				"accepted", stats.Accepted,
				"samples_per_sec", float64(stats.Evaluated)/elapsed.Seconds(),
			)
		}
	}

	stats.Elapsed = time.Since(start)
	if stats.Elapsed > 0 {
		stats.Throughput = float64(stats.Evaluated) / stats.Elapsed.Seconds()
	}
	stats.Rejections = rejections

	if err, ok := <-dispatchErr; ok && err != nil {
		return accepted, stats, err
	}
	return accepted, stats, nil
}

// registerMetrics publishes pool health through the global meter. Safe to
// call repeatedly; instruments are created once.
func (p *Pool) registerMetrics() {
	p.metricsOnce.Do(func() {
		meter := telemetry.Meter("skysweep/scheduler")

		_, _ = meter.Int64ObservableGauge("skysweep.scheduler.in_flight",
			metric.WithDescription("Evaluation tasks currently executing"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(p.inFlight.Load())
				return nil
			}),
		)
		_, _ = meter.Int64ObservableGauge("skysweep.scheduler.evaluated_total",
			metric.WithDescription("Total samples evaluated across batches"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(p.evaluatedTotal.Load())
				return nil
			}),
		)
		p.evalDuration, _ = meter.Float64Histogram("skysweep.scheduler.eval_seconds",
			metric.WithDescription("Wall time per design evaluation"),
		)
	})
}
