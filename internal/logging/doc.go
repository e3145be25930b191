// Package logging assembles structured slog loggers and formatting helpers used
// across mediadedup.
//
// It owns the console and JSON handlers, the optional log-file tee, and the
// standardized field keys (component, root, group key, path) that let scan and
// deletion events be filtered consistently. Loggers are always injected into
// components; nothing here installs a process-wide default. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
