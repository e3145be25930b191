package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mediadedup/internal/logging"
	"mediadedup/internal/selection"
)

// Recorder writes selection observations for one run into the store.
type Recorder struct {
	ctx    context.Context
	store  *Store
	runID  string
	logger *slog.Logger

	mu       sync.Mutex
	failures int
}

// NewRecorder returns an observer bound to runID.
func (s *Store) NewRecorder(ctx context.Context, runID string, logger *slog.Logger) *Recorder {
	return &Recorder{
		ctx:    ctx,
		store:  s,
		runID:  runID,
		logger: logging.NewComponentLogger(logger, "history"),
	}
}

// Observe records o. Failures are logged once per run and counted.
func (r *Recorder) Observe(o selection.Observation) {
	action := Action{
		RunID:      r.runID,
		Root:       o.Root,
		GroupKey:   o.GroupKey,
		Path:       o.Path,
		Score:      o.Score,
		Kind:       string(o.Kind),
		RecordedAt: time.Now(),
	}
	if o.Err != nil {
		action.Error = o.Err.Error()
	}
	if err := r.store.RecordAction(r.ctx, action); err != nil {
		r.mu.Lock()
		r.failures++
		first := r.failures == 1
		r.mu.Unlock()
		if first {
			logging.WarnWithContext(r.logger, "failed to record action in history", "history_write_failed",
				logging.String(logging.FieldRunID, r.runID),
				logging.String(logging.FieldPath, o.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run history will be incomplete"),
			)
		}
	}
}

// Failures returns how many observations could not be stored.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}
