// Package dedupe orchestrates a duplicate scan across configured library roots.
//
// For each root the Runner lists the immediate subdirectories, resolves their
// canonical keys, groups them, scores the members of every multi-member group
// and hands the group to the selection engine. Roots are processed one at a
// time and groups in key order, so statistics and observation streams are
// deterministic for an unchanged filesystem. Missing roots are logged and
// skipped; they contribute nothing to the totals.
package dedupe
