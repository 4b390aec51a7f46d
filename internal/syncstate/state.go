// Package syncstate tracks which metric/day pairs have already been synced,
// so an interrupted backfill can resume without re-fetching finished days.
// State lives in a local SQLite file, separate from the PostgreSQL store:
// losing it is harmless because every sync is idempotent.
package syncstate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StateDB records completed metric/day syncs.
type StateDB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite state database at dir/sync.db.
func Open(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "sync.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS synced_days (
		metric    TEXT NOT NULL,
		day       TEXT NOT NULL,
		records   INTEGER NOT NULL,
		synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (metric, day)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsSynced checks whether a metric/day pair has already completed.
func (s *StateDB) IsSynced(metric string, day time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM synced_days WHERE metric = ? AND day = ?`,
		metric, day.Format("2006-01-02"),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSynced records a completed sync. Re-marking an existing pair replaces
// its record count, so a forced re-sync stays accurate.
func (s *StateDB) MarkSynced(metric string, day time.Time, records int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO synced_days (metric, day, records) VALUES (?, ?, ?)`,
		metric, day.Format("2006-01-02"), records,
	)
	return err
}

// Clear removes all state for a metric, forcing the next run to re-sync it.
func (s *StateDB) Clear(metric string) error {
	_, err := s.db.Exec(`DELETE FROM synced_days WHERE metric = ?`, metric)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
