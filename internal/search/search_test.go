package search

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/eval"
	"github.com/skysweep/skysweep/internal/pareto"
	"github.com/skysweep/skysweep/internal/polar"
	"github.com/skysweep/skysweep/internal/sampler"
	"github.com/skysweep/skysweep/internal/scheduler"
	"github.com/skysweep/skysweep/internal/storage"
)

func testEngine(t *testing.T, store *storage.Store) *Engine {
	t.Helper()
	pool := scheduler.New(4, 0, slog.Default())
	return NewEngine(polar.Default(), pool, store, slog.Default())
}

func testRequest(v design.Variant, n int) Request {
	return Request{
		Variant:     v,
		Samples:     n,
		Method:      sampler.MethodSobol,
		Seed:        42,
		Objectives:  pareto.DefaultObjectives(),
		Constraints: eval.DefaultConstraints(),
	}
}

func TestRunSearch_EndToEnd(t *testing.T) {
	e := testEngine(t, nil)

	run, err := e.RunSearch(context.Background(), testRequest(design.VariantTraditional, 256))
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, design.VariantTraditional, run.Variant)
	assert.Equal(t, int64(256), run.NEvaluated)
	assert.GreaterOrEqual(t, run.NValid, int64(0))
	assert.LessOrEqual(t, run.NValid, int64(256))
	assert.GreaterOrEqual(t, run.NValid, int64(len(run.Front)))

	// The accepted/rejected split accounts for every sample.
	var rejected int64
	for _, n := range run.Rejections {
		rejected += n
	}
	assert.Equal(t, int64(256), run.NValid+rejected)
}

func TestRunSearch_FrontIsMutuallyNonDominated(t *testing.T) {
	e := testEngine(t, nil)

	run, err := e.RunSearch(context.Background(), testRequest(design.VariantTraditional, 512))
	require.NoError(t, err)

	for i, a := range run.Front {
		for j, b := range run.Front {
			if i == j {
				continue
			}
			dominatesAB := a.Metrics.FlightTimeMin >= b.Metrics.FlightTimeMin &&
				a.Metrics.LDRatio >= b.Metrics.LDRatio &&
				(a.Metrics.FlightTimeMin > b.Metrics.FlightTimeMin ||
					a.Metrics.LDRatio > b.Metrics.LDRatio)
			assert.False(t, dominatesAB,
				"%s dominates %s inside the front", a.Point.ID, b.Point.ID)
		}
	}
	if len(run.Front) > 0 {
		require.NotEmpty(t, run.FrontMetrics)
		assert.Equal(t, pareto.ObjectiveFlightTime, run.FrontMetrics[0].Objective)
	}
}

func TestRunSearch_Deterministic(t *testing.T) {
	e := testEngine(t, nil)
	req := testRequest(design.VariantFlyingWing, 128)

	a, err := e.RunSearch(context.Background(), req)
	require.NoError(t, err)
	b, err := e.RunSearch(context.Background(), req)
	require.NoError(t, err)

	// Same seed, method, and bounds give the same front (IDs differ per run).
	require.Equal(t, len(a.Front), len(b.Front))
	for i := range a.Front {
		assert.Equal(t, a.Front[i].Point, b.Front[i].Point)
	}
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRunSearch_InvalidRequests(t *testing.T) {
	e := testEngine(t, nil)
	ctx := context.Background()

	req := testRequest(design.VariantTraditional, 0)
	_, err := e.RunSearch(ctx, req)
	assert.Error(t, err)

	req = testRequest("biplane", 16)
	_, err = e.RunSearch(ctx, req)
	assert.Error(t, err)

	req = testRequest(design.VariantTraditional, 16)
	req.Constraints.MaxSpanM = -1
	_, err = e.RunSearch(ctx, req)
	assert.Error(t, err)

	req = testRequest(design.VariantTraditional, 16)
	req.BoundsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = e.RunSearch(ctx, req)
	assert.Error(t, err)
}

func TestRunSearch_Cancelled(t *testing.T) {
	e := testEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.RunSearch(ctx, testRequest(design.VariantTraditional, 64))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSearch_ArchivesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	e := testEngine(t, store)
	run, err := e.RunSearch(context.Background(), testRequest(design.VariantTraditional, 128))
	require.NoError(t, err)

	rec, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(run.Variant), rec.Variant)
	assert.Equal(t, run.NEvaluated, rec.NEvaluated)
	assert.Equal(t, run.NValid, rec.NValid)
	assert.Len(t, rec.Front, len(run.Front))
}

func TestRunAll_CoversEveryVariant(t *testing.T) {
	e := testEngine(t, nil)

	runs, err := e.RunAll(context.Background(), testRequest("", 64))
	require.NoError(t, err)
	require.Len(t, runs, len(design.AllVariants()))
	for _, v := range design.AllVariants() {
		run, ok := runs[v]
		require.True(t, ok, "missing run for %s", v)
		assert.Equal(t, v, run.Variant)
		assert.Equal(t, int64(64), run.NEvaluated)
	}
}
