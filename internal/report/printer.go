package report

import (
	"fmt"
	"io"
	"sync"

	"mediadedup/internal/selection"
)

// Printer writes observations as human-readable lines.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
	lastKey  string
	lastRoot string
}

// NewPrinter returns a Printer writing to w. Colour is used only when colorize
// is true; callers normally pass ShouldColorize(w) && !noColor.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	return &Printer{w: w, colorize: colorize}
}

// Observe implements selection.Observer.
func (p *Printer) Observe(o selection.Observation) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o.Root != p.lastRoot || o.GroupKey != p.lastKey {
		p.lastRoot, p.lastKey = o.Root, o.GroupKey
		fmt.Fprintf(p.w, "\n%s\n", paint(ansiBlue, "Group: "+o.GroupKey, p.colorize))
	}
	fmt.Fprintln(p.w, FormatObservation(o, p.colorize))
}

// FormatObservation renders a single observation line.
func FormatObservation(o selection.Observation, colorize bool) string {
	var color, text string
	switch o.Kind {
	case selection.KindDuplicate:
		color, text = ansiRed, fmt.Sprintf("Duplicate directory: %s with score %d", o.Path, o.Score)
	case selection.KindWouldDelete:
		color, text = ansiYellow, fmt.Sprintf("[DRY RUN] Would delete directory: %s with score %d", o.Path, o.Score)
	case selection.KindDeleted:
		if o.Err != nil {
			color, text = ansiRed, fmt.Sprintf("Error deleting %s: %v", o.Path, o.Err)
		} else {
			color, text = ansiRed, fmt.Sprintf("Deleted directory: %s with score %d", o.Path, o.Score)
		}
	case selection.KindRetained:
		color, text = ansiGreen, fmt.Sprintf("Keeping directory: %s with score %d", o.Path, o.Score)
	default:
		text = fmt.Sprintf("%s: %s", o.Kind, o.Path)
	}
	return "  " + paint(color, text, colorize)
}
