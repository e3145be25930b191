package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"mediadedup/internal/history"
	"mediadedup/internal/selection"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	runID := uuid.NewString()
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	if err := store.BeginRun(ctx, runID, "delete", started); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	rec := store.NewRecorder(ctx, runID, nil)
	rec.Observe(selection.Observation{Kind: selection.KindDeleted, Root: "/lib", GroupKey: "heat 1995", Path: "/lib/Heat.1995.DVD", Score: 1,
		Err: errors.New("permission denied")})
	rec.Observe(selection.Observation{Kind: selection.KindRetained, Root: "/lib", GroupKey: "heat 1995", Path: "/lib/Heat.1995.BluRay", Score: 10})
	if rec.Failures() != 0 {
		t.Fatalf("unexpected recorder failures: %d", rec.Failures())
	}

	totals := history.Totals{Roots: 1, Processed: 2, Groups: 1, Duplicates: 1, DeleteFailed: 1}
	if err := store.FinishRun(ctx, runID, history.StatusCompleted, totals, started.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Policy != "delete" || run.Status != history.StatusCompleted {
		t.Fatalf("unexpected run %+v", run)
	}
	if !run.StartedAt.Equal(started) || !run.FinishedAt.Equal(started.Add(time.Minute)) {
		t.Fatalf("unexpected timestamps %v %v", run.StartedAt, run.FinishedAt)
	}
	if run.Processed != 2 || run.Duplicates != 1 || run.DeleteFailed != 1 || run.Groups != 1 {
		t.Fatalf("unexpected totals %+v", run)
	}

	actions, err := store.Actions(ctx, runID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Kind != "deleted" || actions[0].Error != "permission denied" {
		t.Fatalf("unexpected first action %+v", actions[0])
	}
	if actions[1].Kind != "retained" || actions[1].Error != "" || actions[1].Score != 10 {
		t.Fatalf("unexpected second action %+v", actions[1])
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		if err := store.BeginRun(ctx, id, "report", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
	}
	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order %+v", runs)
	}
	if runs[0].Status != history.StatusRunning || !runs[0].FinishedAt.IsZero() {
		t.Fatalf("unfinished run should report running status, got %+v", runs[0])
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	err := store.FinishRun(context.Background(), "missing", history.StatusCompleted, history.Totals{}, time.Now())
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.BeginRun(ctx, "run-1", "report", time.Now()); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListRuns(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v (err %v)", runs, err)
	}
}
