package testsupport

import (
	"path/filepath"
	"testing"

	"mediadedup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// One library root is created under the temp dir unless WithRoots replaces it,
// and the scoring rules default to a small BluRay/WEBRip set.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths = []string{filepath.Join(base, "library")}
	cfgVal.ScorePatterns = []config.ScorePattern{
		Rule("BluRay", 10),
		Rule("Remux", 5),
		Rule("WEBRip", -5),
	}
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Lock.Path = filepath.Join(base, "state", "mediadedup.lock")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// Rule builds a scoring rule with an explicit weight.
func Rule(pattern string, score int) config.ScorePattern {
	return config.ScorePattern{Pattern: pattern, Score: &score}
}

// WithRoots replaces the library roots. Relative names are placed under the
// config's temp directory.
func WithRoots(roots ...string) ConfigOption {
	return func(b *configBuilder) {
		paths := make([]string, 0, len(roots))
		for _, root := range roots {
			if !filepath.IsAbs(root) {
				root = filepath.Join(b.baseDir, root)
			}
			paths = append(paths, root)
		}
		b.cfg.Paths = paths
	}
}

// WithScorePatterns replaces the scoring rules.
func WithScorePatterns(rules ...config.ScorePattern) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ScorePatterns = rules
	}
}

// WithoutHistory disables the run history database.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.History.Path))
}
