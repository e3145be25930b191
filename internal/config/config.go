package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalid marks configuration problems that must abort a run before any
// directory is scanned.
var ErrInvalid = errors.New("invalid configuration")

// ScorePattern is a single weighted rule. Score is a pointer so a rule that
// omits it can be told apart from an explicit zero.
type ScorePattern struct {
	Pattern string `toml:"pattern"`
	Score   *int   `toml:"score"`
}

// Weight returns the rule weight, treating a missing score as zero.
func (p ScorePattern) Weight() int {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// Identity controls how directory identities are derived from sidecar files.
type Identity struct {
	SidecarExtensions []string `toml:"sidecar_extensions"`
	IDPattern         string   `toml:"id_pattern"`
	MaxSidecarBytes   int64    `toml:"max_sidecar_bytes"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Lock contains the location of the single-instance lock used by delete runs.
type Lock struct {
	Path string `toml:"path"`
}

// Config encapsulates all configuration values for mediadedup.
//
// Configuration sections:
//   - Paths: library roots whose immediate subdirectories are compared
//   - ScorePatterns: weighted rules ranking copies inside a duplicate group
//   - Identity: sidecar metadata scanning for embedded identifiers
//   - History: SQLite run history
//   - Logging: log format, level, and optional file output
//   - Lock: single-instance lock for destructive runs
type Config struct {
	Paths         []string       `toml:"paths"`
	ScorePatterns []ScorePattern `toml:"score_patterns"`
	Identity      Identity       `toml:"identity"`
	History       History        `toml:"history"`
	Logging       Logging        `toml:"logging"`
	Lock          Lock           `toml:"lock"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded. A missing file is an error because the library
// roots and scoring rules have no sensible defaults.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, resolvedPath, fmt.Errorf("%w: config file %s not found (create one with 'mediadedup config init')", ErrInvalid, resolvedPath)
	}

	file, err := os.Open(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// Default() seeds sidecar extensions; a file that sets the key replaces them.
	cfg.Identity.SidecarExtensions = nil
	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", fmt.Errorf("%w: parse config: %w", ErrInvalid, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

// Parse decodes, normalizes and validates configuration from raw TOML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Identity.SidecarExtensions = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %w", ErrInvalid, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(strings.TrimSpace(path))
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("config.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the parent directories of the state files the run
// writes (history database, lock file, log directory).
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Lock.Path)}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Logging.Dir != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
