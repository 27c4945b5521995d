package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysweep/skysweep/internal/design"
	"github.com/skysweep/skysweep/internal/eval"
)

func testSamples(n int) [][]float64 {
	samples := make([][]float64, n)
	for i := range samples {
		samples[i] = []float64{float64(i)}
	}
	return samples
}

// acceptEven accepts samples with an even index and rejects the rest.
func acceptEven(sample []float64, index int) eval.Result {
	if index%2 == 0 {
		return eval.Result{
			Accepted: true,
			Point:    design.DesignPoint{ID: design.PointID(design.VariantTraditional, index)},
		}
	}
	return eval.Result{Reason: eval.ReasonSpan}
}

func TestRun_EvaluatesEverySample(t *testing.T) {
	p := New(4, 0, slog.Default())
	accepted, stats, err := p.Run(context.Background(), testSamples(101), acceptEven)
	require.NoError(t, err)

	assert.Equal(t, int64(101), stats.Evaluated)
	assert.Equal(t, int64(51), stats.Accepted)
	assert.Equal(t, int64(50), stats.Rejected)
	assert.Len(t, accepted, 51)
	assert.Equal(t, int64(50), stats.Rejections[eval.ReasonSpan])
	assert.Greater(t, stats.Throughput, 0.0)
}

func TestRun_EmptyBatch(t *testing.T) {
	p := New(2, 0, slog.Default())
	accepted, stats, err := p.Run(context.Background(), nil, acceptEven)
	require.NoError(t, err)
	assert.Empty(t, accepted)
	assert.Equal(t, int64(0), stats.Evaluated)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	const workers = 3
	p := New(workers, 0, slog.Default())

	var current, peak atomic.Int64
	fn := func(sample []float64, index int) eval.Result {
		n := current.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		current.Add(-1)
		return eval.Result{Accepted: true}
	}

	_, stats, err := p.Run(context.Background(), testSamples(60), fn)
	require.NoError(t, err)
	assert.Equal(t, int64(60), stats.Evaluated)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(2, 0, slog.Default())
	_, stats, err := p.Run(ctx, testSamples(1000), acceptEven)
	assert.ErrorIs(t, err, context.Canceled)
	// Nothing was dispatched, so nothing was evaluated.
	assert.Equal(t, int64(0), stats.Evaluated)
}

func TestRun_CancelMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var n atomic.Int64
	fn := func(sample []float64, index int) eval.Result {
		if n.Add(1) == 10 {
			cancel()
		}
		return eval.Result{Accepted: true}
	}

	p := New(2, 0, slog.Default())
	accepted, stats, err := p.Run(ctx, testSamples(100_000), fn)
	assert.ErrorIs(t, err, context.Canceled)

	// In-flight work drains; the collected prefix is returned.
	assert.GreaterOrEqual(t, stats.Evaluated, int64(10))
	assert.Less(t, stats.Evaluated, int64(100_000))
	assert.Equal(t, int64(len(accepted)), stats.Accepted)
}

func TestNew_Defaults(t *testing.T) {
	p := New(0, 0, nil)
	assert.Equal(t, DefaultWorkers(), p.Workers())
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)

	p = New(8, 0, nil)
	assert.Equal(t, 8, p.Workers())
}
