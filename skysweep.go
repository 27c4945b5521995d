// Package skysweep is the public API for embedding the SkySweep design
// space exploration engine.
//
// Consumers import this package to run searches without forking the module:
//
//	app, err := skysweep.New(
//	    skysweep.WithVersion(version),
//	    skysweep.WithLogger(logger),
//	    skysweep.WithWorkers(8),
//	)
//	if err != nil { ... }
//	defer app.Close(ctx)
//	run, err := app.Search(ctx, skysweep.Request{Variant: "tandem", Samples: 100000})
//
// The import graph enforces a strict no-cycle rule: skysweep (root) imports
// internal/*, but internal/* never imports skysweep (root). Public types
// (Run, DesignPoint, etc.) are standalone structs with no internal imports;
// conversion helpers (toPublicRun, toPublicPoint) live here because this is
// the only file that sees both sides of the boundary.
package skysweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/skysweep/skysweep/internal/config"
	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/eval"
	"github.com/skysweep/skysweep/internal/mcp"
	"github.com/skysweep/skysweep/internal/pareto"
	"github.com/skysweep/skysweep/internal/polar"
	"github.com/skysweep/skysweep/internal/sampler"
	"github.com/skysweep/skysweep/internal/scheduler"
	"github.com/skysweep/skysweep/internal/search"
	"github.com/skysweep/skysweep/internal/storage"
	"github.com/skysweep/skysweep/internal/telemetry"
)

// App is the SkySweep engine lifecycle. Construct with New(), search with
// Search(), release with Close(). App has no public fields — use New()
// options to configure it.
type App struct {
	cfg          config.Config
	engine       *search.Engine
	cat          search.Catalog
	store        *storage.Store
	mcpSrv       *mcp.Server
	otelShutdown telemetry.Shutdown
	logger       *slog.Logger
	version      string
}

// New initialises the engine: configuration, telemetry, the airfoil
// catalog, the worker pool, and the optional run archive. It does NOT start
// any goroutines — each Search call drives its own batch.
func New(opts ...Option) (*App, error) {
	o := resolvedOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	// Load configuration (env vars), then apply option overrides.
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.workers != 0 {
		cfg.Workers = o.workers
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.boundsFile != "" {
		cfg.BoundsFile = o.boundsFile
	}
	version := o.version
	if version == "" {
		version = "dev"
	}

	otelShutdown, err := telemetry.Init(context.Background(), cfg.OTELEndpoint, cfg.ServiceName, version, true)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	var cat search.Catalog = polar.Default()
	if o.catalog != nil {
		cat = o.catalog
	}

	pool := scheduler.New(cfg.Workers, cfg.ProgressEvery, logger)

	var store *storage.Store
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			_ = otelShutdown(context.Background())
			return nil, fmt.Errorf("storage: %w", err)
		}
		logger.Info("run archive enabled", "path", cfg.DBPath)
	}

	engine := search.NewEngine(cat, pool, store, logger)
	constraints := constraintsFromConfig(cfg)

	logger.Info("skysweep ready",
		"version", version,
		"workers", pool.Workers(),
		"airfoils", cat.Len(),
	)

	return &App{
		cfg:          cfg,
		engine:       engine,
		cat:          cat,
		store:        store,
		mcpSrv:       mcp.New(engine, constraints, logger),
		otelShutdown: otelShutdown,
		logger:       logger,
		version:      version,
	}, nil
}

// Search runs one request end to end and returns the completed run.
func (a *App) Search(ctx context.Context, req Request) (Run, error) {
	internal, err := a.toInternalRequest(req)
	if err != nil {
		return Run{}, err
	}
	run, err := a.engine.RunSearch(ctx, internal)
	if err != nil {
		return Run{}, err
	}
	return a.toPublicRun(run), nil
}

// SearchAll runs the same request against every variant sequentially and
// returns the runs keyed by variant name. Request.Variant is ignored.
func (a *App) SearchAll(ctx context.Context, req Request) (map[string]Run, error) {
	req.Variant = string(design.VariantTraditional) // RunAll sets the variant per run
	internal, err := a.toInternalRequest(req)
	if err != nil {
		return nil, err
	}
	runs, err := a.engine.RunAll(ctx, internal)
	out := make(map[string]Run, len(runs))
	for v, run := range runs {
		out[string(v)] = a.toPublicRun(run)
	}
	return out, err
}

// ServeMCP serves the MCP tool surface over stdio, blocking until the
// client disconnects.
func (a *App) ServeMCP() error {
	return mcpserver.ServeStdio(a.mcpSrv.MCPServer())
}

// Close releases the run archive and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.otelShutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *App) toInternalRequest(req Request) (search.Request, error) {
	variant, err := design.ParseVariant(req.Variant)
	if err != nil {
		return search.Request{}, err
	}

	methodName := req.Method
	if methodName == "" {
		methodName = a.cfg.Method
	}
	method, err := sampler.ParseMethod(methodName)
	if err != nil {
		return search.Request{}, err
	}

	var objectives []pareto.Objective
	for _, name := range req.Objectives {
		obj, err := pareto.ParseObjective(name)
		if err != nil {
			return search.Request{}, err
		}
		objectives = append(objectives, obj)
	}

	samples := req.Samples
	if samples <= 0 {
		samples = a.cfg.Samples
	}

	constraints := constraintsFromConfig(a.cfg)
	if req.TargetFlightTimeMin > 0 {
		constraints.TargetFlightTimeMin = req.TargetFlightTimeMin
	}

	return search.Request{
		Variant:     variant,
		Samples:     samples,
		Method:      method,
		Seed:        req.Seed,
		Objectives:  objectives,
		Constraints: constraints,
		BoundsFile:  a.cfg.BoundsFile,
	}, nil
}

func constraintsFromConfig(cfg config.Config) eval.Constraints {
	return eval.Constraints{
		MaxSpanM:            cfg.MaxSpanM,
		MaxLengthM:          cfg.MaxLengthM,
		MaxStallSpeedMS:     cfg.MaxStallSpeedMS,
		CruiseSpeedMS:       cfg.CruiseSpeedMS,
		MinThrustWeight:     cfg.MinThrustWeight,
		TargetFlightTimeMin: cfg.TargetFlightTimeMin,
	}
}

// ── Type converters ────────────────────────────────────────────────────────────

// toPublicRun converts an internal run to the public skysweep.Run.
// Lives here because this is the only file that imports both sides of the
// boundary.
func (a *App) toPublicRun(run search.Run) Run {
	rejections := make(map[string]int64, len(run.Rejections))
	for reason, n := range run.Rejections {
		rejections[string(reason)] = n
	}

	front := make([]FrontEntry, 0, len(run.Front))
	for _, r := range run.Front {
		front = append(front, FrontEntry{
			Point:   a.toPublicPoint(r.Point),
			Metrics: toPublicMetrics(r.Metrics),
		})
	}

	stats := make([]ObjectiveStats, 0, len(run.FrontMetrics))
	for _, s := range run.FrontMetrics {
		stats = append(stats, ObjectiveStats{
			Objective: string(s.Objective),
			Min:       s.Min,
			Max:       s.Max,
			Spread:    s.Spread,
			BestPoint: s.BestPoint,
		})
	}

	return Run{
		ID:             run.ID,
		Variant:        string(run.Variant),
		Method:         string(run.Method),
		Seed:           run.Seed,
		Samples:        run.Samples,
		NEvaluated:     run.NEvaluated,
		NValid:         run.NValid,
		Degraded:       run.Degraded,
		ElapsedSeconds: run.ElapsedSeconds,
		Rejections:     rejections,
		Front:          front,
		FrontMetrics:   stats,
	}
}

// toPublicPoint resolves catalog indices to airfoil names at the boundary
// so consumers never see raw indices.
func (a *App) toPublicPoint(p design.DesignPoint) DesignPoint {
	pub := DesignPoint{
		ID:            p.ID,
		Variant:       string(p.Variant),
		SpanM:         p.SpanM,
		ChordM:        p.ChordM,
		ChordRearM:    p.ChordRearM,
		TaperRatio:    p.TaperRatio,
		SweepDeg:      p.SweepDeg,
		DihedralDeg:   p.DihedralDeg,
		TwistDeg:      p.TwistDeg,
		StaggerRatio:  p.StaggerRatio,
		GapRatio:      p.GapRatio,
		DecalageDeg:   p.DecalageDeg,
		TailAreaM2:    p.TailAreaM2,
		BoomLengthM:   p.BoomLengthM,
		BoomDiameterM: p.BoomDiameterM,
		Airfoil:       a.cat.NameAt(p.AirfoilIdx),
		BatterySeries: p.BatterySeries,
		MotorBucket:   p.MotorBucket,
		PropBucket:    p.PropBucket,
	}
	if p.Variant == design.VariantTandem {
		pub.AirfoilRear = a.cat.NameAt(p.AirfoilRearIdx)
	}
	return pub
}

func toPublicMetrics(m eval.Metrics) Metrics {
	return Metrics{
		FlightTimeMin: m.FlightTimeMin,
		RangeKM:       m.RangeKM,
		LDRatio:       m.LDRatio,
		WeightKG:      m.WeightKG,
		CruisePowerW:  m.CruisePowerW,
		StallSpeedMS:  m.StallSpeedMS,
	}
}
