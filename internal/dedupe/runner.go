package dedupe

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"mediadedup/internal/grouping"
	"mediadedup/internal/library"
	"mediadedup/internal/logging"
	"mediadedup/internal/selection"
)

// KeyResolver computes the canonical key of a directory.
type KeyResolver interface {
	Key(entry library.Entry) string
}

// Scorer rates a directory name.
type Scorer interface {
	Score(name string) int
}

// Options configures a Runner.
type Options struct {
	// RunID identifies the run in logs and history; generated when empty.
	RunID    string
	Keys     KeyResolver
	Scorer   Scorer
	Policy   selection.Policy
	Observer selection.Observer
	// Remover overrides directory removal; nil uses the real filesystem.
	Remover selection.Remover
	Logger  *slog.Logger
}

// Runner executes scans. It is not safe for concurrent use.
type Runner struct {
	runID  string
	keys   KeyResolver
	scorer Scorer
	policy selection.Policy
	engine *selection.Engine
	tally  *tally
	logger *slog.Logger
}

// NewRunner wires the selection engine with a tally that feeds per-root statistics.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Keys == nil || opts.Scorer == nil {
		return nil, errors.New("dedupe runner requires a key resolver and a scorer")
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := logging.NewComponentLogger(opts.Logger, "dedupe").With(logging.String(logging.FieldRunID, runID))
	t := &tally{}
	return &Runner{
		runID:  runID,
		keys:   opts.Keys,
		scorer: opts.Scorer,
		policy: opts.Policy,
		engine: selection.NewEngine(opts.Policy, selection.MultiObserver(t, opts.Observer), opts.Remover, opts.Logger),
		tally:  t,
		logger: logger,
	}, nil
}

// RunID returns the identifier attached to this runner's logs and summary.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every root in order. A cancelled context stops the run between
// groups and returns the partial summary together with ctx.Err().
func (r *Runner) Run(ctx context.Context, roots []string) (Summary, error) {
	summary := Summary{RunID: r.runID, Policy: r.policy.String()}
	for _, root := range roots {
		stats, err := r.ProcessRoot(ctx, root)
		summary.add(stats)
		if err != nil {
			return summary, err
		}
	}
	r.logger.Info("scan complete",
		logging.String("policy", summary.Policy),
		logging.Int("roots", len(summary.Roots)),
		logging.Int("skipped_roots", summary.SkippedRoots),
		logging.Int("processed", summary.Processed),
		logging.Int("duplicates", summary.Duplicates),
	)
	return summary, nil
}

// ProcessRoot scans a single root. Missing or unlistable roots are logged and
// reported as skipped with zero counters; only context cancellation is returned
// as an error.
func (r *Runner) ProcessRoot(ctx context.Context, root string) (RootStats, error) {
	stats := RootStats{Root: root}
	logger := r.logger.With(logging.String(logging.FieldRoot, root))

	entries, err := library.List(root)
	if err != nil {
		stats.Skipped = true
		if errors.Is(err, library.ErrRootNotFound) {
			logging.WarnWithContext(logger, "library root does not exist; skipping", "root_missing",
				logging.Error(err),
				logging.String(logging.FieldImpact, "root skipped; other roots continue"),
				logging.String(logging.FieldErrorHint, "check the paths list in the config file or mount the volume"),
			)
		} else {
			logging.ErrorWithContext(logger, "cannot list library root; skipping", "root_list_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the root directory"),
			)
		}
		return stats, nil
	}

	stats.Processed = len(entries)
	logger.Debug("listed library root", logging.Int("directories", len(entries)))

	groups := grouping.Build(entries, r.keys.Key)
	logger.Debug("grouped directories", logging.Int("groups", groups.Len()))

	r.tally.reset()
	for _, group := range groups.Ordered() {
		if err := ctx.Err(); err != nil {
			r.collect(&stats)
			return stats, err
		}
		if len(group.Entries) < 2 {
			if logger.Enabled(ctx, slog.LevelDebug) {
				e := group.Entries[0]
				logger.Debug("unique directory",
					logging.String(logging.FieldGroupKey, group.Key),
					logging.String(logging.FieldPath, e.Path),
					logging.Int(logging.FieldScore, r.scorer.Score(e.Name)),
				)
			}
			continue
		}

		candidates := make([]selection.Candidate, 0, len(group.Entries))
		for _, e := range group.Entries {
			candidates = append(candidates, selection.Candidate{Entry: e, Score: r.scorer.Score(e.Name)})
		}
		stats.Groups++
		stats.Duplicates += r.engine.Apply(root, group.Key, candidates)
	}
	r.collect(&stats)

	logger.Info("library root scanned",
		logging.Int("processed", stats.Processed),
		logging.Int("groups", stats.Groups),
		logging.Int("duplicates", stats.Duplicates),
	)
	return stats, nil
}

func (r *Runner) collect(stats *RootStats) {
	stats.Deleted = r.tally.deleted
	stats.DeleteFailed = r.tally.failed
}

// tally counts deletion outcomes for the root being processed.
type tally struct {
	deleted int
	failed  int
}

func (t *tally) reset() {
	t.deleted, t.failed = 0, 0
}

func (t *tally) Observe(o selection.Observation) {
	if o.Kind != selection.KindDeleted {
		return
	}
	if o.Err != nil {
		t.failed++
		return
	}
	t.deleted++
}
