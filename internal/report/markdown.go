// Package report renders metrics as Markdown tables for terminals and docs.
package report

import (
	"fmt"
	"io"

	"github.com/avandyck/gitrhythm/internal/metrics"
)

type row struct {
	name   string
	series metrics.Series
}

// WriteMarkdown renders one report as a Markdown document: a header with the
// inference results, then a box-plot table per metric family.
func WriteMarkdown(w io.Writer, r *metrics.Report) error {
	fmt.Fprintf(w, "# Coding rhythm — %s\n\n", r.PeriodName)
	fmt.Fprintf(w, "- Commits: %d across %d active days\n", r.TotalCommits, r.ActiveDays)
	fmt.Fprintf(w, "- Session threshold: %.0f min (%s, confidence %.2f)\n",
		r.Threshold.Threshold, r.Threshold.Method, r.Threshold.Confidence)
	fmt.Fprintf(w, "- Day boundary: %02d:00 (%s, confidence %.2f)\n",
		r.DayBoundary.Boundary, r.DayBoundary.Method, r.DayBoundary.Confidence)
	fmt.Fprintf(w, "- Context switching rate: %.0f%%\n\n", r.ContextSwitchRate*100)

	writeTable(w, "Daily activity", []row{
		{"Commits/day", r.CommitsPerDay},
		{"Lines/day", r.LinesPerDay},
		{"Active hours/day", r.ActiveHoursPerDay},
		{"Repos/day", r.ReposPerDay},
		{"Sessions/day", r.SessionsPerDay},
		{"Session minutes/day (adjusted)", r.AdjustedSessionMinutesPerDay},
	})

	writeTable(w, "Sessions", []row{
		{"Duration (min)", r.SessionDurations},
		{"Commits/session", r.CommitsPerSession},
		{"Lines/session", r.LinesPerSession},
		{"Within-session gaps (min)", r.WithinSessionGaps},
		{"Inter-session gaps (min)", r.InterSessionGaps},
	})

	return nil
}

func writeTable(w io.Writer, title string, rows []row) {
	fmt.Fprintf(w, "## %s\n\n", title)
	fmt.Fprintln(w, "| Metric | Min | p5 | p25 | Median | p75 | p95 | Max | n |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|")
	for _, r := range rows {
		s := r.series.Stats
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
			r.name, num(s.Min), num(s.P5), num(s.P25), num(s.Median),
			num(s.P75), num(s.P95), num(s.Max), s.Count)
	}
	fmt.Fprintln(w)
}

// num drops trailing noise: integers print bare, fractions keep one decimal.
func num(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
