// Package search runs the end-to-end exploration pipeline: sample
// generation, decoding and evaluation across the worker pool, Pareto
// extraction, and the optional run archive.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/eval"
	"github.com/skysweep/skysweep/internal/pareto"
	"github.com/skysweep/skysweep/internal/sampler"
	"github.com/skysweep/skysweep/internal/scheduler"
	"github.com/skysweep/skysweep/internal/solver"
	"github.com/skysweep/skysweep/internal/storage"
)

// Catalog is the airfoil catalog the engine searches against: the solver's
// polar lookups plus enumeration for catalog inspection.
type Catalog interface {
	solver.PolarSource
	Names() []string
}

// Request describes one search over a single variant's design space.
type Request struct {
	Variant     design.Variant
	Samples     int
	Method      sampler.Method
	Seed        uint64
	Objectives  []pareto.Objective
	Constraints eval.Constraints
	BoundsFile  string // optional YAML bounds override
}

// Run is the completed result of one request.
type Run struct {
	ID             string
	Variant        design.Variant
	Method         sampler.Method
	Seed           uint64
	Samples        int
	NEvaluated     int64
	NValid         int64
	ElapsedSeconds float64
	Rejections     map[eval.Reason]int64
	Front          []eval.Result
	FrontMetrics   []pareto.AxisStats
	Degraded       int // accepted designs with a non-converged loop
}

// Engine wires the pipeline's fixed parts: the airfoil catalog, the worker
// pool, and the optional archive. Safe for concurrent use; each RunSearch
// call is independent.
type Engine struct {
	cat    Catalog
	pool   *scheduler.Pool
	store  *storage.Store
	logger *slog.Logger
}

// NewEngine builds an engine. store may be nil to disable archiving.
func NewEngine(cat Catalog, pool *scheduler.Pool, store *storage.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cat: cat, pool: pool, store: store, logger: logger}
}

// Catalog exposes the engine's airfoil catalog.
func (e *Engine) Catalog() Catalog { return e.cat }

// Store exposes the attached run archive, nil when archiving is disabled.
func (e *Engine) Store() *storage.Store { return e.store }

// RunSearch executes one request end to end. Cancellation mid-batch
// returns ctx.Err(); partial results are discarded.
func (e *Engine) RunSearch(ctx context.Context, req Request) (Run, error) {
	if req.Samples <= 0 {
		return Run{}, fmt.Errorf("search: sample count must be positive, got %d", req.Samples)
	}

	schemas, err := design.LoadBoundsOverrides(req.BoundsFile)
	if err != nil {
		return Run{}, err
	}
	schema, ok := schemas[req.Variant]
	if !ok {
		return Run{}, fmt.Errorf("search: no schema for variant %q", req.Variant)
	}

	ev, err := eval.New(schema, req.Constraints, e.cat)
	if err != nil {
		return Run{}, err
	}

	samples, err := sampler.Generate(req.Method, req.Samples, schema.Dim(), req.Seed)
	if err != nil {
		return Run{}, err
	}

	start := time.Now()
	e.logger.Info("search started",
		"variant", string(req.Variant),
		"samples", req.Samples,
		"method", string(req.Method),
		"dims", schema.Dim(),
		"workers", e.pool.Workers(),
	)

	accepted, stats, err := e.pool.Run(ctx, samples, ev.Evaluate)
	if err != nil {
		return Run{}, err
	}

	front := pareto.Extract(accepted, req.Objectives)

	run := Run{
		ID:             uuid.NewString(),
		Variant:        req.Variant,
		Method:         req.Method,
		Seed:           req.Seed,
		Samples:        req.Samples,
		NEvaluated:     stats.Evaluated,
		NValid:         stats.Accepted,
		ElapsedSeconds: time.Since(start).Seconds(),
		Rejections:     stats.Rejections,
		Front:          front,
		FrontMetrics:   pareto.Metrics(front, req.Objectives),
	}
	for _, r := range accepted {
		if !r.TrimConverged || !r.MassConverged {
			run.Degraded++
		}
	}

	e.logger.Info("search finished",
		"run_id", run.ID,
		"variant", string(req.Variant),
		"evaluated", run.NEvaluated,
		"valid", run.NValid,
		"front_size", len(front),
		"degraded", run.Degraded,
		"elapsed_s", run.ElapsedSeconds,
		"samples_per_sec", stats.Throughput,
	)

	if e.store != nil {
		if err := e.saveRun(ctx, run); err != nil {
			// Archiving is best-effort; the run itself succeeded.
			e.logger.Warn("run archive failed", "run_id", run.ID, "error", err)
		}
	}
	return run, nil
}

func (e *Engine) saveRun(ctx context.Context, run Run) error {
	rejections := make(map[string]int64, len(run.Rejections))
	for reason, n := range run.Rejections {
		rejections[string(reason)] = n
	}

	rec := storage.RunRecord{
		ID:             run.ID,
		Variant:        string(run.Variant),
		Method:         string(run.Method),
		Seed:           run.Seed,
		Samples:        run.Samples,
		NEvaluated:     run.NEvaluated,
		NValid:         run.NValid,
		ElapsedSeconds: run.ElapsedSeconds,
		Rejections:     rejections,
		CreatedAt:      time.Now(),
	}
	for _, r := range run.Front {
		point, err := json.Marshal(r.Point)
		if err != nil {
			return fmt.Errorf("search: marshal point %s: %w", r.Point.ID, err)
		}
		metrics, err := json.Marshal(r.Metrics)
		if err != nil {
			return fmt.Errorf("search: marshal metrics %s: %w", r.Point.ID, err)
		}
		rec.Front = append(rec.Front, storage.FrontMember{
			PointID: r.Point.ID,
			Point:   point,
			Metrics: metrics,
		})
	}
	return e.store.SaveRun(ctx, rec)
}

// RunAll searches every variant sequentially with the same request
// parameters, returning runs keyed by variant. Each variant still fans out
// across the full worker pool.
func (e *Engine) RunAll(ctx context.Context, req Request) (map[design.Variant]Run, error) {
	runs := make(map[design.Variant]Run, len(design.AllVariants()))
	for _, v := range design.AllVariants() {
		r := req
		r.Variant = v
		run, err := e.RunSearch(ctx, r)
		if err != nil {
			return runs, err
		}
		runs[v] = run
	}
	return runs, nil
}
