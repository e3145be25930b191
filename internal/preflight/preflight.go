package preflight

import (
	"path/filepath"

	"mediadedup/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Path   string
	Passed bool
	Detail string
}

// RunAll executes the checks applicable to cfg. Library roots need write
// access only when the run will delete.
func RunAll(cfg *config.Config, willDelete bool) []Result {
	if cfg == nil {
		return nil
	}

	rootAccess := AccessRead
	if willDelete {
		rootAccess = AccessReadWrite
	}

	var results []Result
	for _, root := range cfg.Paths {
		results = append(results, CheckDirectoryAccess("Library root", root, rootAccess))
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.History.Path), AccessReadWrite))
	}
	if willDelete {
		results = append(results, CheckDirectoryAccess("Lock directory", filepath.Dir(cfg.Lock.Path), AccessReadWrite))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir, AccessReadWrite))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
