package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncRun records one ingestion unit of work (metric + date) and its outcome.
type SyncRun struct {
	ID           uuid.UUID `json:"id"`
	Metric       string    `json:"metric"`
	MeasureDate  time.Time `json:"measure_date"`
	StartedAt    time.Time `json:"started_at"`
	Status       string    `json:"status"`
	Records      int       `json:"records"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// Sync run status values.
const (
	SyncRunning = "running"
	SyncSuccess = "success"
	SyncError   = "error"
)

// BeginSyncRun inserts a running sync run and returns its ID.
func (db *DB) BeginSyncRun(ctx context.Context, metric string, measureDate time.Time) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sync_runs (id, metric, measure_date, started_at, status, records)
		 VALUES ($1, $2, $3, now(), $4, 0)`,
		id, metric, measureDate, SyncRunning)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting sync run: %w", err)
	}
	return id, nil
}

// FinishSyncRun updates a sync run from "running" to its final status.
func (db *DB) FinishSyncRun(ctx context.Context, id uuid.UUID, status string, records int, duration time.Duration, errMsg *string) error {
	ms := int(duration.Milliseconds())
	_, err := db.Pool.Exec(ctx,
		`UPDATE sync_runs SET status = $2, records = $3, duration_ms = $4, error_message = $5
		 WHERE id = $1`,
		id, status, records, ms, errMsg)
	if err != nil {
		return fmt.Errorf("updating sync run %s: %w", id, err)
	}
	return nil
}

// QuerySyncRuns returns the most recent sync runs.
func (db *DB) QuerySyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, metric, measure_date, started_at, status, records, duration_ms, error_message
		 FROM sync_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var result []SyncRun
	for rows.Next() {
		var r SyncRun
		if err := rows.Scan(&r.ID, &r.Metric, &r.MeasureDate, &r.StartedAt,
			&r.Status, &r.Records, &r.DurationMs, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
