package dedupe

// RootStats are the counters for one root.
type RootStats struct {
	Root string
	// Skipped is set when the root was missing or could not be listed.
	Skipped bool
	// Processed counts every subdirectory seen under the root.
	Processed int
	// Groups counts groups with at least two members.
	Groups int
	// Duplicates counts non-survivors, including failed deletions.
	Duplicates   int
	Deleted      int
	DeleteFailed int
}

// Summary aggregates a whole run.
type Summary struct {
	RunID        string
	Policy       string
	Roots        []RootStats
	Processed    int
	Groups       int
	Duplicates   int
	Deleted      int
	DeleteFailed int
	SkippedRoots int
}

func (s *Summary) add(rs RootStats) {
	s.Roots = append(s.Roots, rs)
	if rs.Skipped {
		s.SkippedRoots++
	}
	s.Processed += rs.Processed
	s.Groups += rs.Groups
	s.Duplicates += rs.Duplicates
	s.Deleted += rs.Deleted
	s.DeleteFailed += rs.DeleteFailed
}
