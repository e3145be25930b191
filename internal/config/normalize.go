package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScorePatterns()
	c.normalizeIdentity()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	if err := c.normalizeLock(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	roots := make([]string, 0, len(c.Paths))
	seen := make(map[string]struct{}, len(c.Paths))
	for i, root := range c.Paths {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("paths[%d]: %w", i, err)
		}
		if _, dup := seen[expanded]; dup {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Paths = roots
	return nil
}

func (c *Config) normalizeScorePatterns() {
	for i := range c.ScorePatterns {
		c.ScorePatterns[i].Pattern = strings.TrimSpace(c.ScorePatterns[i].Pattern)
	}
}

func (c *Config) normalizeIdentity() {
	if len(c.Identity.SidecarExtensions) == 0 {
		c.Identity.SidecarExtensions = append([]string(nil), defaultSidecarExtensions...)
	} else {
		exts := make([]string, 0, len(c.Identity.SidecarExtensions))
		seen := make(map[string]struct{}, len(c.Identity.SidecarExtensions))
		for _, ext := range c.Identity.SidecarExtensions {
			normalized := strings.ToLower(strings.TrimSpace(ext))
			if normalized == "" {
				continue
			}
			if !strings.HasPrefix(normalized, ".") {
				normalized = "." + normalized
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			exts = append(exts, normalized)
		}
		if len(exts) == 0 {
			exts = append(exts, defaultSidecarExtensions...)
		}
		c.Identity.SidecarExtensions = exts
	}
	c.Identity.IDPattern = strings.TrimSpace(c.Identity.IDPattern)
	if c.Identity.IDPattern == "" {
		c.Identity.IDPattern = defaultIDPattern
	}
	if c.Identity.MaxSidecarBytes <= 0 {
		c.Identity.MaxSidecarBytes = defaultMaxSidecarBytes
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLock() error {
	var err error
	if strings.TrimSpace(c.Lock.Path) == "" {
		c.Lock.Path = defaultLockPath
	}
	if c.Lock.Path, err = expandPath(strings.TrimSpace(c.Lock.Path)); err != nil {
		return fmt.Errorf("lock.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = expanded
	}
	return nil
}
