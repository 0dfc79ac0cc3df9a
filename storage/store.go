package storage

import (
	"context"
	"sync"
	"time"

	"habitat_watch/models"
)

// SnapshotStore persists the last-known status per (residence, unit
// type) key between runs. Load is called once at run start, Save once
// at run end with the fully merged mapping; a run that dies in between
// leaves the stored snapshot untouched. observed lists the keys seen
// this run so implementations can track per-key freshness for pruning.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap models.Snapshot, observed []string) error
}

// PruneStore is implemented by durable stores that can drop keys not
// observed since a cutoff. Optional: pruning is an enhancement, not
// part of the run pipeline.
type PruneStore interface {
	PruneSnapshotKeys(ctx context.Context, cutoff time.Time) (int64, error)
}

// MemoryStore is an in-memory SnapshotStore for tests and dry runs.
type MemoryStore struct {
	mu   sync.Mutex
	snap models.Snapshot
}

func NewMemoryStore(initial models.Snapshot) *MemoryStore {
	return &MemoryStore{snap: initial.Clone()}
}

func (m *MemoryStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return models.Snapshot{}, nil
	}
	return m.snap.Clone(), nil
}

func (m *MemoryStore) SaveSnapshot(ctx context.Context, snap models.Snapshot, observed []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}
