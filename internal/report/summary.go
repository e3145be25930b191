package report

import (
	"strconv"
	"time"

	"mediadedup/internal/dedupe"
	"mediadedup/internal/history"
)

// RenderSummary renders per-root counters followed by a totals row.
func RenderSummary(s dedupe.Summary) string {
	headers := []string{"Root", "Processed", "Groups", "Duplicates", "Deleted", "Failed"}
	aligns := []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}

	rows := make([][]string, 0, len(s.Roots)+1)
	for _, rs := range s.Roots {
		if rs.Skipped {
			rows = append(rows, []string{rs.Root + " (skipped)", "-", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			rs.Root,
			strconv.Itoa(rs.Processed),
			strconv.Itoa(rs.Groups),
			strconv.Itoa(rs.Duplicates),
			strconv.Itoa(rs.Deleted),
			strconv.Itoa(rs.DeleteFailed),
		})
	}
	rows = append(rows, []string{
		"Total",
		strconv.Itoa(s.Processed),
		strconv.Itoa(s.Groups),
		strconv.Itoa(s.Duplicates),
		strconv.Itoa(s.Deleted),
		strconv.Itoa(s.DeleteFailed),
	})
	return RenderTable(headers, rows, aligns)
}

// RenderRuns renders recorded runs, newest first as returned by the store.
func RenderRuns(runs []history.Run) string {
	headers := []string{"Run", "Started", "Policy", "Status", "Processed", "Duplicates", "Deleted", "Failed"}
	aligns := []Alignment{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			formatStarted(run.StartedAt),
			run.Policy,
			run.Status,
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Duplicates),
			strconv.Itoa(run.Deleted),
			strconv.Itoa(run.DeleteFailed),
		})
	}
	return RenderTable(headers, rows, aligns)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatStarted(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// RenderActions renders the observations recorded for one run.
func RenderActions(actions []history.Action) string {
	headers := []string{"Kind", "Group", "Path", "Score", "Error"}
	aligns := []Alignment{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}

	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		errText := a.Error
		if errText == "" {
			errText = "-"
		}
		rows = append(rows, []string{a.Kind, a.GroupKey, a.Path, strconv.Itoa(a.Score), errText})
	}
	return RenderTable(headers, rows, aligns)
}
