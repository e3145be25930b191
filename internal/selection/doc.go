// Package selection picks the surviving copy inside a duplicate group and
// applies the run policy (report, dry-run, delete) to the remaining members.
//
// The survivor is the member with the strictly highest score after a stable
// sort by lowercase name, so equal scores resolve to the alphabetically first
// name. Every non-survivor yields exactly one observation and the survivor one
// "retained" observation. Removal failures are logged and attached to the
// observation; they never abort the group or the run.
package selection
