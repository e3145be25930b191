package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Run is one recorded scan.
type Run struct {
	ID           string
	Policy       string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	Roots        int
	SkippedRoots int
	Processed    int
	Groups       int
	Duplicates   int
	Deleted      int
	DeleteFailed int
}

// Action is one recorded observation.
type Action struct {
	RunID      string
	Root       string
	GroupKey   string
	Path       string
	Score      int
	Kind       string
	Error      string
	RecordedAt time.Time
}

// Totals are the counters stored when a run finishes.
type Totals struct {
	Roots        int
	SkippedRoots int
	Processed    int
	Groups       int
	Duplicates   int
	Deleted      int
	DeleteFailed int
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a run in the running state.
func (s *Store) BeginRun(ctx context.Context, runID, policy string, startedAt time.Time) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, policy, started_at, status) VALUES (?, ?, ?, ?)`,
		runID, policy, formatTime(startedAt), StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores final totals and status for a run.
func (s *Store) FinishRun(ctx context.Context, runID, status string, totals Totals, finishedAt time.Time) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, roots = ?, skipped_roots = ?, processed = ?,
            group_count = ?, duplicates = ?, deleted = ?, delete_failed = ?
         WHERE id = ?`,
		formatTime(finishedAt), status, totals.Roots, totals.SkippedRoots, totals.Processed,
		totals.Groups, totals.Duplicates, totals.Deleted, totals.DeleteFailed, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run: run %s not found", runID)
	}
	return nil
}

// RecordAction stores one observation for a run.
func (s *Store) RecordAction(ctx context.Context, a Action) error {
	var errText any
	if strings.TrimSpace(a.Error) != "" {
		errText = a.Error
	}
	recorded := a.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO actions (run_id, root, group_key, path, score, kind, error, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Root, a.GroupKey, a.Path, a.Score, a.Kind, errText, formatTime(recorded),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, policy, started_at, finished_at, status, roots, skipped_roots, processed,
                     group_count, duplicates, deleted, delete_failed
              FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Policy, &started, &finished, &r.Status, &r.Roots, &r.SkippedRoots,
			&r.Processed, &r.Groups, &r.Duplicates, &r.Deleted, &r.DeleteFailed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Actions returns the recorded observations of a run in insertion order.
func (s *Store) Actions(ctx context.Context, runID string) ([]Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, root, group_key, path, score, kind, error, recorded_at
         FROM actions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var (
			a        Action
			errText  sql.NullString
			recorded string
		)
		if err := rows.Scan(&a.RunID, &a.Root, &a.GroupKey, &a.Path, &a.Score, &a.Kind, &errText, &recorded); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.Error = errText.String
		a.RecordedAt = parseTime(recorded)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
