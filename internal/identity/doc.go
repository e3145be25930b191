// Package identity derives the canonical grouping key for a library directory.
//
// An embedded identifier found in a sidecar metadata file (for example an IMDb
// id inside a .nfo) always wins and produces an "id:<identifier>" key. Without
// one, a pluggable NameParser extracts a title and release year from the
// directory name, which are normalized (Unicode NFC, separator punctuation
// collapsed to spaces, lowercased) into "<title> <year>". Names with no year
// fall back to the lowercased name itself.
//
// Two directories are duplicates exactly when their keys are equal. Every step
// is a heuristic; unreadable sidecars are logged and skipped, never fatal.
package identity
