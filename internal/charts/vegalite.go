// Package charts builds declarative Vega-Lite specifications from metrics
// output. Specs are plain JSON-serializable maps; rendering happens in the
// browser, not here.
package charts

import (
	"fmt"

	"github.com/avandyck/gitrhythm/internal/metrics"
)

// Spec is a Vega-Lite specification.
type Spec map[string]any

const schemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// CommitActivity builds a bar chart of commits per coding day.
func CommitActivity(r *metrics.Report) Spec {
	rows := make([]map[string]any, 0, len(r.CommitsPerDay.Days))
	for _, d := range r.CommitsPerDay.Days {
		rows = append(rows, map[string]any{"date": d.Date, "commits": d.Value})
	}

	return Spec{
		"$schema":     schemaURL,
		"title":       "Commits per coding day",
		"width":       "container",
		"data":        map[string]any{"values": rows},
		"mark":        "bar",
		"encoding": map[string]any{
			"x": map[string]any{"field": "date", "type": "temporal", "title": "Coding day"},
			"y": map[string]any{"field": "commits", "type": "quantitative", "title": "Commits"},
		},
	}
}

// SessionDurations builds a box plot of session durations.
func SessionDurations(r *metrics.Report) Spec {
	rows := make([]map[string]any, 0, len(r.SessionDurations.Values))
	for _, v := range r.SessionDurations.Values {
		rows = append(rows, map[string]any{"minutes": v})
	}

	return Spec{
		"$schema": schemaURL,
		"title":   "Session durations",
		"width":   "container",
		"data":    map[string]any{"values": rows},
		"mark":    map[string]any{"type": "boxplot", "extent": "min-max"},
		"encoding": map[string]any{
			"x": map[string]any{"field": "minutes", "type": "quantitative", "title": "Minutes"},
		},
	}
}

// HourHistogram builds a bar chart of commit counts by local hour, with the
// inferred day boundary marked by a rule.
func HourHistogram(r *metrics.Report) Spec {
	rows := make([]map[string]any, 0, 24)
	for h, count := range r.DayBoundary.Histogram {
		rows = append(rows, map[string]any{"hour": h, "commits": count})
	}

	return Spec{
		"$schema": schemaURL,
		"title":   fmt.Sprintf("Commits by hour (day boundary %02d:00)", r.DayBoundary.Boundary),
		"width":   "container",
		"data":    map[string]any{"values": rows},
		"layer": []any{
			map[string]any{
				"mark": "bar",
				"encoding": map[string]any{
					"x": map[string]any{"field": "hour", "type": "ordinal", "title": "Local hour"},
					"y": map[string]any{"field": "commits", "type": "quantitative", "title": "Commits"},
				},
			},
			map[string]any{
				"mark": map[string]any{"type": "rule", "color": "firebrick", "strokeDash": []int{4, 4}},
				"data": map[string]any{"values": []any{
					map[string]any{"hour": r.DayBoundary.Boundary},
				}},
				"encoding": map[string]any{
					"x": map[string]any{"field": "hour", "type": "ordinal"},
				},
			},
		},
	}
}

// GapHistogram builds the commit-gap histogram with the active session
// threshold marked by a rule.
func GapHistogram(r *metrics.Report) Spec {
	rows := make([]map[string]any, 0, len(r.Threshold.Histogram))
	for _, b := range r.Threshold.Histogram {
		rows = append(rows, map[string]any{
			"bucket": fmt.Sprintf("%.0f–%.0f", b.Lo, b.Hi),
			"lo":     b.Lo,
			"gaps":   b.Count,
		})
	}

	return Spec{
		"$schema": schemaURL,
		"title": fmt.Sprintf("Commit gaps (threshold %.0f min, %s, confidence %.2f)",
			r.Threshold.Threshold, r.Threshold.Method, r.Threshold.Confidence),
		"width": "container",
		"data":  map[string]any{"values": rows},
		"layer": []any{
			map[string]any{
				"mark": "bar",
				"encoding": map[string]any{
					"x": map[string]any{"field": "bucket", "type": "ordinal", "sort": map[string]any{"field": "lo"}, "title": "Gap (minutes)"},
					"y": map[string]any{"field": "gaps", "type": "quantitative", "title": "Gaps"},
				},
			},
			map[string]any{
				"mark": map[string]any{"type": "rule", "color": "firebrick", "strokeDash": []int{4, 4}},
				"data": map[string]any{"values": []any{
					map[string]any{"threshold": r.Threshold.Threshold},
				}},
				"encoding": map[string]any{
					"x": map[string]any{"field": "threshold", "type": "quantitative"},
				},
			},
		},
	}
}

// All returns every chart for one report, in page order.
func All(r *metrics.Report) []Spec {
	return []Spec{
		CommitActivity(r),
		SessionDurations(r),
		HourHistogram(r),
		GapHistogram(r),
	}
}
