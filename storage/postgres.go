package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"habitat_watch/models"
)

// PostgresStore is the SnapshotStore for deployments where the watcher
// runs on ephemeral hosts (CI schedules) and a local SQLite file would
// not survive between runs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS unit_snapshot (
			key TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, status FROM unit_snapshot`)
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

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap models.Snapshot, observed []string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	prior := make(map[string]time.Time)
	rows, err := tx.Query(ctx, `SELECT key, observed_at FROM unit_snapshot`)
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

	if _, err := tx.Exec(ctx, `DELETE FROM unit_snapshot`); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	observedSet := make(map[string]bool, len(observed))
	for _, k := range observed {
		observedSet[k] = true
	}

	now := time.Now()
	for key, status := range snap {
		at := now
		if !observedSet[key] {
			if p, ok := prior[key]; ok {
				at = p
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO unit_snapshot (key, status, observed_at) VALUES ($1, $2, $3)`,
			key, status.String(), at); err != nil {
			return fmt.Errorf("save snapshot key %s: %w", key, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) PruneSnapshotKeys(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM unit_snapshot WHERE observed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshot: %w", err)
	}
	return tag.RowsAffected(), nil
}
