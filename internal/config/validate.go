package config

import (
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable. Every failure wraps ErrInvalid.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateScorePatterns(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateIdentity(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("paths must list at least one library root")
	}
	return nil
}

func (c *Config) validateScorePatterns() error {
	if len(c.ScorePatterns) == 0 {
		return fmt.Errorf("score_patterns must contain at least one rule")
	}
	for i, rule := range c.ScorePatterns {
		if rule.Pattern == "" {
			return fmt.Errorf("score_patterns[%d].pattern must be set", i)
		}
		if rule.Score == nil {
			return fmt.Errorf("score_patterns[%d].score must be set (pattern %q)", i, rule.Pattern)
		}
		if _, err := regexp.Compile("(?i)" + rule.Pattern); err != nil {
			return fmt.Errorf("score_patterns[%d].pattern %q: %w", i, rule.Pattern, err)
		}
	}
	return nil
}

func (c *Config) validateIdentity() error {
	if _, err := regexp.Compile(c.Identity.IDPattern); err != nil {
		return fmt.Errorf("identity.id_pattern %q: %w", c.Identity.IDPattern, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
