// Package main hosts the mediadedup CLI entrypoint and command graph.
//
// The root command scans the configured library roots and reports, previews or
// removes duplicate media directories. Subcommands scaffold and validate the
// configuration, list recorded runs and explain how individual directories
// are keyed and scored.
//
// Keep this package lean: behaviour lives in the internal packages and is only
// wired together here.
package main
