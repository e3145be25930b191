package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediadedup/internal/config"
	"mediadedup/internal/dedupe"
	"mediadedup/internal/history"
	"mediadedup/internal/identity"
	"mediadedup/internal/logging"
	"mediadedup/internal/preflight"
	"mediadedup/internal/report"
	"mediadedup/internal/runlock"
	"mediadedup/internal/scoring"
	"mediadedup/internal/selection"
)

type scanFlags struct {
	delete  bool
	dryRun  bool
	debug   bool
	noColor bool
}

func newLogger(cmd *cobra.Command, cfg *config.Config, debug bool) (*slog.Logger, error) {
	opts := logging.ConfigOptions(cfg, debug)
	opts.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func runScan(cmd *cobra.Command, cc *commandContext, flags scanFlags) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg, flags.debug)
	if err != nil {
		return err
	}

	policy := selection.PolicyFromFlags(flags.delete, flags.dryRun)
	if flags.delete && flags.dryRun {
		logger.Info("--dry-run overrides --delete; nothing will be removed")
	}
	if policy.Mutates() {
		lock, err := runlock.Acquire(cfg.Lock.Path)
		if err != nil {
			return err
		}
		defer lock.Release()
		for _, r := range preflight.Failed(preflight.RunAll(cfg, true)) {
			logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", r.Name),
				logging.String(logging.FieldPath, r.Path),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldImpact, "deletions under this path may fail"),
			)
		}
	}

	keys, err := identity.NewFromConfig(cfg.Identity, logger)
	if err != nil {
		return err
	}
	scorer, err := scoring.Compile(cfg.ScorePatterns)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	out := cmd.OutOrStdout()
	colorize := !flags.noColor && report.ShouldColorize(out)
	observers := []selection.Observer{report.NewPrinter(out, colorize)}

	// store stays nil unless the run start was recorded.
	var store *history.Store
	if opened := openHistory(ctx, cfg, logger); opened != nil {
		defer opened.Close()
		if err := opened.BeginRun(ctx, runID, policy.String(), time.Now()); err != nil {
			logging.WarnWithContext(logger, "failed to record run start", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in history"),
			)
		} else {
			store = opened
			observers = append(observers, store.NewRecorder(ctx, runID, logger))
		}
	}

	runner, err := dedupe.NewRunner(dedupe.Options{
		RunID:    runID,
		Keys:     keys,
		Scorer:   scorer,
		Policy:   policy,
		Observer: selection.MultiObserver(observers...),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting scan",
		logging.String(logging.FieldRunID, runID),
		logging.String("policy", policy.String()),
		logging.Int("roots", len(cfg.Paths)),
		logging.Int("rules", scorer.Rules()),
	)
	summary, runErr := runner.Run(ctx, cfg.Paths)

	if store != nil {
		status := history.StatusCompleted
		if runErr != nil {
			status = history.StatusAborted
		}
		if err := store.FinishRun(context.WithoutCancel(ctx), runID, status, totalsFromSummary(summary), time.Now()); err != nil {
			logging.WarnWithContext(logger, "failed to record run totals", "history_write_failed",
				logging.Error(err),
			)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, report.RenderSummary(summary))
	return runErr
}

func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String(logging.FieldPath, cfg.History.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "scan continues without recording history"),
			logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
		)
		return nil
	}
	return store
}

func totalsFromSummary(s dedupe.Summary) history.Totals {
	return history.Totals{
		Roots:        len(s.Roots),
		SkippedRoots: s.SkippedRoots,
		Processed:    s.Processed,
		Groups:       s.Groups,
		Duplicates:   s.Duplicates,
		Deleted:      s.Deleted,
		DeleteFailed: s.DeleteFailed,
	}
}
