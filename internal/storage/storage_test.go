package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string, createdAt time.Time) RunRecord {
	return RunRecord{
		ID:             id,
		Variant:        "traditional",
		Method:         "sobol",
		Seed:           42,
		Samples:        1024,
		NEvaluated:     1024,
		NValid:         37,
		ElapsedSeconds: 1.25,
		Rejections:     map[string]int64{"span_exceeded": 900, "stall_speed": 87},
		CreatedAt:      createdAt,
		Front: []FrontMember{
			{
				PointID: "traditional-0000012",
				Point:   json.RawMessage(`{"span_m":0.92}`),
				Metrics: json.RawMessage(`{"flight_time_min":85.2}`),
			},
			{
				PointID: "traditional-0000891",
				Point:   json.RawMessage(`{"span_m":0.81}`),
				Metrics: json.RawMessage(`{"flight_time_min":71.0}`),
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sampleRecord("run-1", time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, want))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Variant, got.Variant)
	assert.Equal(t, want.Method, got.Method)
	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.Samples, got.Samples)
	assert.Equal(t, want.NEvaluated, got.NEvaluated)
	assert.Equal(t, want.NValid, got.NValid)
	assert.Equal(t, want.ElapsedSeconds, got.ElapsedSeconds)
	assert.Equal(t, want.Rejections, got.Rejections)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	// Front members come back in rank order with their documents intact.
	require.Len(t, got.Front, 2)
	assert.Equal(t, "traditional-0000012", got.Front[0].PointID)
	assert.JSONEq(t, `{"span_m":0.92}`, string(got.Front[0].Point))
	assert.JSONEq(t, `{"flight_time_min":85.2}`, string(got.Front[0].Metrics))
	assert.Equal(t, "traditional-0000891", got.Front[1].PointID)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("run-dup", time.Now().UTC())
	require.NoError(t, s.SaveRun(ctx, rec))
	assert.Error(t, s.SaveRun(ctx, rec), "run IDs are unique")
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		rec := sampleRecord(id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.SaveRun(ctx, rec))
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-a", runs[2].ID)

	// Summaries omit the front.
	assert.Empty(t, runs[0].Front)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "run-c", limited[0].ID)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)

	rec := sampleRecord("run-persist", time.Now().UTC())
	require.NoError(t, s.SaveRun(context.Background(), rec))
	require.NoError(t, s.Close())

	// Reopening an existing archive keeps its data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetRun(context.Background(), "run-persist")
	require.NoError(t, err)
	assert.Equal(t, int64(37), got.NValid)
}
