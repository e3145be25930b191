package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"mediadedup/internal/fileutil"
	"mediadedup/internal/library"
	"mediadedup/internal/logging"
)

// ErrDelete wraps a failed removal of a duplicate directory.
var ErrDelete = errors.New("delete duplicate")

// Candidate is a scored group member.
type Candidate struct {
	Entry library.Entry
	Score int
}

// Remover deletes a directory tree.
type Remover interface {
	RemoveAll(path string) error
}

// RemoverFunc adapts a function to Remover.
type RemoverFunc func(path string) error

func (f RemoverFunc) RemoveAll(path string) error { return f(path) }

// Select orders candidates by lowercase name and returns that ordering with
// the index of the survivor: the first candidate reaching a strictly higher
// score in a left-to-right scan. candidates must be non-empty.
func Select(candidates []Candidate) (int, []Candidate) {
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Candidate) int {
		return strings.Compare(strings.ToLower(a.Entry.Name), strings.ToLower(b.Entry.Name))
	})
	best := 0
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Score > ordered[best].Score {
			best = i
		}
	}
	return best, ordered
}

// Engine applies a policy to duplicate groups.
type Engine struct {
	policy   Policy
	remover  Remover
	observer Observer
	logger   *slog.Logger
}

// NewEngine builds an Engine. A nil remover uses fileutil.RemoveTree; a nil
// observer discards observations.
func NewEngine(policy Policy, observer Observer, remover Remover, logger *slog.Logger) *Engine {
	if remover == nil {
		remover = RemoverFunc(fileutil.RemoveTree)
	}
	if observer == nil {
		observer = ObserverFunc(func(Observation) {})
	}
	return &Engine{
		policy:   policy,
		remover:  remover,
		observer: observer,
		logger:   logging.NewComponentLogger(logger, "selection"),
	}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Apply selects the survivor of a group and acts on every other member. It
// returns the number of non-survivors, including those whose deletion failed.
// Groups with fewer than two members are ignored.
func (e *Engine) Apply(root, key string, candidates []Candidate) int {
	if len(candidates) < 2 {
		return 0
	}
	survivor, ordered := Select(candidates)

	for i, c := range ordered {
		if i == survivor {
			continue
		}
		e.observer.Observe(e.act(root, key, c))
	}

	kept := ordered[survivor]
	e.observer.Observe(Observation{
		Kind:     KindRetained,
		Root:     root,
		GroupKey: key,
		Path:     kept.Entry.Path,
		Name:     kept.Entry.Name,
		Score:    kept.Score,
	})
	return len(ordered) - 1
}

func (e *Engine) act(root, key string, c Candidate) Observation {
	obs := Observation{
		Root:     root,
		GroupKey: key,
		Path:     c.Entry.Path,
		Name:     c.Entry.Name,
		Score:    c.Score,
	}
	switch e.policy {
	case PolicyDryRun:
		obs.Kind = KindWouldDelete
	case PolicyDelete:
		obs.Kind = KindDeleted
		if err := e.remover.RemoveAll(c.Entry.Path); err != nil {
			obs.Err = fmt.Errorf("%w %s: %w", ErrDelete, c.Entry.Path, err)
			hint := "check the directory is not in use"
			if fileutil.IsAccessDenied(err) {
				hint = "check ownership and permissions of the directory and its parent"
			}
			logging.ErrorWithContext(e.logger, "failed to delete duplicate", "delete_failed",
				logging.String(logging.FieldGroupKey, key),
				logging.String(logging.FieldPath, c.Entry.Path),
				logging.Bool("access_denied", fileutil.IsAccessDenied(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hint),
			)
		}
	default:
		obs.Kind = KindDuplicate
	}
	return obs
}
