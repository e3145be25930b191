// Package preflight provides readiness checks for the filesystem paths that
// mediadedup depends on.
//
// These checks run in two contexts:
//   - "mediadedup config validate" prints every result.
//   - Delete runs log failed root checks before scanning so permission
//     problems are visible up front instead of per directory.
//
// Checks never abort a run; missing roots are skipped by the scan itself.
package preflight
