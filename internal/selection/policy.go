package selection

// Policy decides what happens to non-surviving members of a group.
type Policy int

const (
	// PolicyReport only reports duplicates.
	PolicyReport Policy = iota
	// PolicyDryRun reports what would be deleted without touching the filesystem.
	PolicyDryRun
	// PolicyDelete recursively removes duplicates.
	PolicyDelete
)

// PolicyFromFlags maps the CLI flags to a policy. Dry-run always wins, so the
// delete+dry-run combination never mutates anything.
func PolicyFromFlags(deleteFlag, dryRun bool) Policy {
	switch {
	case dryRun:
		return PolicyDryRun
	case deleteFlag:
		return PolicyDelete
	default:
		return PolicyReport
	}
}

// Mutates reports whether the policy removes directories.
func (p Policy) Mutates() bool {
	return p == PolicyDelete
}

func (p Policy) String() string {
	switch p {
	case PolicyDryRun:
		return "dry-run"
	case PolicyDelete:
		return "delete"
	default:
		return "report"
	}
}
