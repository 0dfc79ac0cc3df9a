package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"habitat_watch/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load from fresh db: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("fresh db should yield empty snapshot, got %v", empty)
	}

	snap := models.Snapshot{
		"10_T1": models.StatusRequestOpen,
		"10_T2": models.StatusUnavailable,
		"11_?":  models.StatusImmediate,
	}
	if err := store.SaveSnapshot(ctx, snap, []string{"10_T1", "10_T2", "11_?"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(loaded))
	}
	for key, want := range snap {
		if loaded[key] != want {
			t.Fatalf("key %s: expected %v, got %v", key, want, loaded[key])
		}
	}
}

func TestSaveSnapshotReplacesInFull(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := models.Snapshot{"10_T1": models.StatusImmediate, "10_T2": models.StatusRequestOpen}
	if err := store.SaveSnapshot(ctx, first, []string{"10_T1", "10_T2"}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := models.Snapshot{"10_T1": models.StatusUnavailable}
	if err := store.SaveSnapshot(ctx, second, []string{"10_T1"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded["10_T1"] != models.StatusUnavailable {
		t.Fatalf("stored mapping should match the last save exactly, got %v", loaded)
	}
}

func TestPruneDropsOnlyStaleKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	both := models.Snapshot{"old_T1": models.StatusUnavailable, "fresh_T1": models.StatusRequestOpen}
	if err := store.SaveSnapshot(ctx, both, []string{"old_T1", "fresh_T1"}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(20 * time.Millisecond)

	// Second run observes only fresh_T1; old_T1 is carried over and
	// must keep its original timestamp.
	if err := store.SaveSnapshot(ctx, both, []string{"fresh_T1"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	pruned, err := store.PruneSnapshotKeys(ctx, cutoff)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned key, got %d", pruned)
	}

	loaded, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := loaded["old_T1"]; ok {
		t.Fatalf("stale key should be gone")
	}
	if loaded["fresh_T1"] != models.StatusRequestOpen {
		t.Fatalf("fresh key should survive, got %v", loaded)
	}
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run := &models.ScanRun{
		UUID:            "abc-123",
		StartedAt:       time.Now(),
		Status:          models.RunStatusRunning,
		ResidencesTotal: 12,
	}
	id, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected a row id")
	}
	run.ID = id

	if err := store.Log(&run.ID, models.LogLevelWarn, "residence 10: timeout", "10"); err != nil {
		t.Fatalf("log: %v", err)
	}

	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted
	run.UnitsFound = 34
	run.Upgrades = 2
	if err := store.UpdateRun(run); err != nil {
		t.Fatalf("update run: %v", err)
	}

	last, err := store.GetLastRunTime()
	if err != nil {
		t.Fatalf("last run time: %v", err)
	}
	if last.IsZero() {
		t.Fatalf("expected a completed run timestamp")
	}
}
