package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"habitat_watch/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS unit_snapshot (
		key TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		observed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scan_runs (
		id INTEGER PRIMARY KEY,
		uuid TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		residences_total INTEGER,
		residences_failed INTEGER,
		units_found INTEGER,
		upgrades INTEGER
	);

	CREATE TABLE IF NOT EXISTS scan_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		residence_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_snapshot_observed ON unit_snapshot(observed_at);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON scan_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON scan_runs(status, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// Snapshot
// =============================================================================

func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, status FROM unit_snapshot`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	snap := models.Snapshot{}
	for rows.Next() {
		var key, status string
		if err := rows.Scan(&key, &status); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("load snapshot key %s: %w", key, err)
		}
		snap[key] = st
	}
	return snap, rows.Err()
}

// SaveSnapshot replaces the stored mapping in full, inside one
// transaction. Keys in observed get a fresh observed_at; carried-over
// keys keep their previous timestamp so TTL pruning sees real staleness.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap models.Snapshot, observed []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	prior := make(map[string]time.Time)
	rows, err := tx.QueryContext(ctx, `SELECT key, observed_at FROM unit_snapshot`)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	for rows.Next() {
		var key string
		var at time.Time
		if err := rows.Scan(&key, &at); err != nil {
			rows.Close()
			return fmt.Errorf("save snapshot: %w", err)
		}
		prior[key] = at
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_snapshot`); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	observedSet := make(map[string]bool, len(observed))
	for _, k := range observed {
		observedSet[k] = true
	}

	now := time.Now()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO unit_snapshot (key, status, observed_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer stmt.Close()

	for key, status := range snap {
		at := now
		if !observedSet[key] {
			if p, ok := prior[key]; ok {
				at = p
			}
		}
		if _, err := stmt.ExecContext(ctx, key, status.String(), at); err != nil {
			return fmt.Errorf("save snapshot key %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// PruneSnapshotKeys drops keys last observed before cutoff. Guards
// against unbounded growth when the upstream site renames unit-type
// labels.
func (s *SQLiteStore) PruneSnapshotKeys(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM unit_snapshot WHERE observed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshot: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// Runs and logs
// =============================================================================

func (s *SQLiteStore) CreateRun(run *models.ScanRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scan_runs (uuid, started_at, status, residences_total, residences_failed, units_found, upgrades)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.UUID, run.StartedAt, run.Status, run.ResidencesTotal, run.ResidencesFailed, run.UnitsFound, run.Upgrades)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ScanRun) error {
	_, err := s.db.Exec(`
		UPDATE scan_runs SET finished_at = ?, status = ?, residences_total = ?, residences_failed = ?, units_found = ?, upgrades = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.ResidencesTotal, run.ResidencesFailed, run.UnitsFound, run.Upgrades, run.ID)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, residenceID string) error {
	_, err := s.db.Exec(`
		INSERT INTO scan_logs (run_id, timestamp, level, message, residence_id)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, residenceID)
	return err
}

func (s *SQLiteStore) GetLastRunTime() (time.Time, error) {
	var t time.Time
	err := s.db.QueryRow(`
		SELECT started_at FROM scan_runs WHERE status = ?
		ORDER BY started_at DESC LIMIT 1`, models.RunStatusCompleted).Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
