// Package storage archives completed search runs in SQLite. The archive is
// optional: the engine runs fully in memory and only persists when a store
// is attached.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    variant         TEXT NOT NULL,
    method          TEXT NOT NULL,
    seed            INTEGER NOT NULL,
    samples         INTEGER NOT NULL,
    n_evaluated     INTEGER NOT NULL,
    n_valid         INTEGER NOT NULL,
    elapsed_seconds REAL NOT NULL,
    rejections      TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL
);
`

const frontMembersSchema = `
CREATE TABLE IF NOT EXISTS front_members (
    run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    rank     INTEGER NOT NULL,
    point_id TEXT NOT NULL,
    point    TEXT NOT NULL,
    metrics  TEXT NOT NULL,
    PRIMARY KEY (run_id, rank)
);
`

const frontMembersIndex = `
CREATE INDEX IF NOT EXISTS idx_front_members_run ON front_members(run_id);
`

// RunRecord is the persisted summary of one search run.
type RunRecord struct {
	ID             string
	Variant        string
	Method         string
	Seed           uint64
	Samples        int
	NEvaluated     int64
	NValid         int64
	ElapsedSeconds float64
	Rejections     map[string]int64
	CreatedAt      time.Time
	Front          []FrontMember
}

// FrontMember is one Pareto-optimal design of a run. Point and Metrics are
// stored as JSON documents: the archive reads them back verbatim and never
// queries inside them.
type FrontMember struct {
	PointID string
	Point   json.RawMessage
	Metrics json.RawMessage
}

// Store wraps a SQLite database holding the run archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// modernc.org/sqlite serializes writes per connection; a single
	// connection avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{runsSchema, frontMembersSchema, frontMembersIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: init schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run and its front atomically.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	rejections, err := json.Marshal(rec.Rejections)
	if err != nil {
		return fmt.Errorf("storage: marshal rejections: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, variant, method, seed, samples, n_evaluated, n_valid,
		 elapsed_seconds, rejections, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Variant,
		rec.Method,
		int64(rec.Seed),
		rec.Samples,
		rec.NEvaluated,
		rec.NValid,
		rec.ElapsedSeconds,
		string(rejections),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storage: insert run %s: %w", rec.ID, err)
	}

	for rank, m := range rec.Front {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO front_members (run_id, rank, point_id, point, metrics)
			VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rank, m.PointID, string(m.Point), string(m.Metrics),
		)
		if err != nil {
			return fmt.Errorf("storage: insert front member %s: %w", m.PointID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit run %s: %w", rec.ID, err)
	}
	return nil
}

// GetRun loads a run and its front by ID. Returns ErrNotFound if the run
// does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	var (
		rec        RunRecord
		seed       int64
		rejections string
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, variant, method, seed, samples, n_evaluated, n_valid,
		       elapsed_seconds, rejections, created_at
		FROM runs WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Variant, &rec.Method, &seed, &rec.Samples,
		&rec.NEvaluated, &rec.NValid, &rec.ElapsedSeconds, &rejections, &createdAt)
	if err == sql.ErrNoRows {
		return RunRecord{}, ErrNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: get run %s: %w", id, err)
	}
	rec.Seed = uint64(seed)
	if err := json.Unmarshal([]byte(rejections), &rec.Rejections); err != nil {
		return RunRecord{}, fmt.Errorf("storage: decode rejections for %s: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return RunRecord{}, fmt.Errorf("storage: decode created_at for %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT point_id, point, metrics
		FROM front_members WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: get front for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m FrontMember
		var point, metrics string
		if err := rows.Scan(&m.PointID, &point, &metrics); err != nil {
			return RunRecord{}, fmt.Errorf("storage: scan front member: %w", err)
		}
		m.Point = json.RawMessage(point)
		m.Metrics = json.RawMessage(metrics)
		rec.Front = append(rec.Front, m)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, fmt.Errorf("storage: read front for %s: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns run summaries (fronts omitted), newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, method, seed, samples, n_evaluated, n_valid,
		       elapsed_seconds, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: list runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var seed int64
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Variant, &rec.Method, &seed,
			&rec.Samples, &rec.NEvaluated, &rec.NValid,
			&rec.ElapsedSeconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan run: %w", err)
		}
		rec.Seed = uint64(seed)
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("storage: decode created_at for %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list runs: %w", err)
	}
	return recs, nil
}
