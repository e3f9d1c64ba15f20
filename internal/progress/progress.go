// Package progress renders the fold/merge loop's running state as a
// terminal report, optionally streaming the same updates to a browser
// over a websocket for the CLI's --watch mode.
package progress

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"orthomine/internal/registry"
)

// Report accumulates the fold/merge loop's progress so the CLI can print a
// running summary without re-deriving it from the registry each time.
type Report struct {
	Stage       string
	Done, Total int
	started     bool
}

// NewReport starts a report for stage ("single_process" or "merge_process").
func NewReport(stage string) *Report {
	return &Report{Stage: stage}
}

// Update records progress through the discovery loop's work list.
func (r *Report) Update(done, total int) {
	r.started = true
	r.Done = done
	r.Total = total
}

// PercentDone returns 0-100, or 0 if no work has been recorded yet.
func (r *Report) PercentDone() float64 {
	if r.Total == 0 {
		return 0
	}
	return (float64(r.Done) / float64(r.Total)) * 100
}

// String renders the report as a single plain-text line, suitable for a
// log file or a piped consumer. (LiveServer.Broadcast sends the report as
// JSON, not this text.)
func (r *Report) String() string {
	return fmt.Sprintf("%s: %d/%d (%.1f%%)", r.Stage, r.Done, r.Total, r.PercentDone())
}

const barWidth = 30

// Bar renders the report as a fixed-width percentage bar, for callers that
// have already confirmed they are writing to an interactive terminal (see
// IsTerminal) and can overwrite the current line with '\r'.
func (r *Report) Bar() string {
	filled := int(r.PercentDone() / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return fmt.Sprintf("\r%s [%s%s] %d/%d (%.1f%%)", r.Stage,
		strings.Repeat("=", filled), strings.Repeat(" ", barWidth-filled),
		r.Done, r.Total, r.PercentDone())
}

// Summary renders a final report: total lines and orthos held and the
// distribution of orthos by shape, with counts comma-separated by humanize.
func Summary(r *registry.Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "registry %q: %s lines, %s orthos\n",
		r.Name(), humanize.Comma(int64(len(r.Lines()))), humanize.Comma(int64(r.Size())))

	counts := r.CountByShape()
	if len(counts) == 0 {
		return sb.String()
	}
	sb.WriteString("by shape:\n")
	for _, c := range counts {
		fmt.Fprintf(&sb, "  %v: %s\n", c.Shape, humanize.Comma(int64(c.Count)))
	}
	return sb.String()
}

// IsTerminal reports whether fd (e.g. os.Stdout.Fd()) is an interactive
// terminal, so the CLI can skip the progress bar when output is piped.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd)
}
