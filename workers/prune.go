package workers

import (
	"context"
	"log"
	"time"

	"habitat_watch/storage"
)

// PruneWorker periodically drops snapshot keys that have not been
// observed within the TTL. Keeps the store from growing without bound
// when the upstream site renames unit-type labels.
type PruneWorker struct {
	store storage.PruneStore
	ttl   time.Duration
}

func NewPruneWorker(store storage.PruneStore, ttl time.Duration) *PruneWorker {
	return &PruneWorker{store: store, ttl: ttl}
}

// Run starts the prune loop.
func (w *PruneWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Prune worker stopping")
			return
		case <-ticker.C:
			w.pruneOnce(ctx)
		}
	}
}

func (w *PruneWorker) pruneOnce(ctx context.Context) {
	cutoff := time.Now().Add(-w.ttl)
	n, err := w.store.PruneSnapshotKeys(ctx, cutoff)
	if err != nil {
		log.Printf("Prune: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Prune: dropped %d stale snapshot key(s)", n)
	}
}
