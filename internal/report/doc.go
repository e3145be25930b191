// Package report renders scan results for the terminal.
//
// Printer is a selection.Observer that writes one line per observation,
// grouped under a header per duplicate group. Colour is applied only when the
// destination is a terminal and never changes the text itself. RenderSummary
// and RenderRuns produce go-pretty tables for the end-of-run summary and the
// history command.
package report
