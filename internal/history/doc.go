// Package history persists scan runs and their observations in SQLite.
//
// Each run gets a UUID, its policy, timestamps, and the final totals; every
// observation emitted during the run (duplicate, would-delete, deleted,
// retained) is stored as an action row so past decisions can be audited after
// directories are gone. The Recorder type plugs into the selection observer
// chain; write failures are logged and never interrupt a scan.
package history
