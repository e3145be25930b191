// Package config loads, normalizes, and validates mediadedup configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files built around a top-level `paths` list and
// `[[score_patterns]]` tables.
// The Config type centralizes every knob the scanner and CLI need so roots,
// scoring rules, sidecar handling, history and logging are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and errors wrapping ErrInvalid.
package config
