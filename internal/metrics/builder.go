// Package metrics assembles behavioral metrics from a user's commit history:
// per-day activity series, inferred-threshold session metrics, and box-plot
// summaries of every derived series.
package metrics

import (
	"errors"
	"sort"
	"time"

	"github.com/avandyck/gitrhythm/internal/histogram"
	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/avandyck/gitrhythm/internal/timeutil"
)

// ErrNoThreshold is returned when session metrics are requested before a
// threshold has been established, either inferred or explicit. Silently
// picking one here would corrupt statistical conclusions, so this fails
// loudly instead.
var ErrNoThreshold = errors.New("metrics: no session threshold established (call WithInferredThreshold or WithThreshold first)")

// DefaultClusterThresholdMinutes is the fixed burst-grouping threshold used
// for chart clustering when the caller does not pick one.
const DefaultClusterThresholdMinutes = 10

// Period is a named analysis window. Zero From/To means unbounded on that
// side; To is exclusive.
type Period struct {
	Name string
	From time.Time
	To   time.Time
}

// Contains reports whether an instant falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}

// LastDays returns a period covering the n days up to now.
func LastDays(name string, n int) Period {
	now := time.Now().UTC()
	return Period{Name: name, From: now.AddDate(0, 0, -n), To: now}
}

// Builder derives metrics from an immutable commit set. Every With* call
// returns a new Builder; the receiver is never mutated, so a caller can
// branch derived variants (different filters, different thresholds) from one
// base without one variant corrupting another's inputs.
type Builder struct {
	global           []models.Commit // full history, sorted ascending
	filtered         []models.Commit // subset used for filterable metrics
	params           models.Params
	threshold        *histogram.ThresholdAnalysis
	clusterThreshold float64
}

// New creates a builder over the full commit history. The input is copied
// and sorted once; threshold inference always runs against this full set,
// never a period-filtered view.
func New(commits []models.Commit, params models.Params) *Builder {
	sorted := make([]models.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return &Builder{
		global:           sorted,
		filtered:         sorted,
		params:           params,
		clusterThreshold: DefaultClusterThresholdMinutes,
	}
}

// WithFilter returns a new builder whose filterable metrics run over the
// subset of the full history admitted by pred.
func (b *Builder) WithFilter(pred models.Predicate) *Builder {
	filtered := make([]models.Commit, 0, len(b.global))
	for _, c := range b.global {
		if pred(c) {
			filtered = append(filtered, c)
		}
	}

	nb := *b
	nb.filtered = filtered
	return &nb
}

// WithThreshold returns a new builder using an explicit session threshold in
// minutes.
func (b *Builder) WithThreshold(minutes float64) *Builder {
	t := histogram.Explicit(minutes)
	nb := *b
	nb.threshold = &t
	return &nb
}

// WithInferredThreshold returns a new builder whose session threshold is
// inferred from the full history's intra-day gap distribution.
func (b *Builder) WithInferredThreshold() *Builder {
	t := histogram.SessionThreshold(b.IntraDayGaps())
	nb := *b
	nb.threshold = &t
	return &nb
}

// WithClusterThreshold returns a new builder using a different fixed
// threshold for chart clustering.
func (b *Builder) WithClusterThreshold(minutes float64) *Builder {
	nb := *b
	nb.clusterThreshold = minutes
	return &nb
}

// Threshold returns the established threshold analysis, or ErrNoThreshold.
func (b *Builder) Threshold() (histogram.ThresholdAnalysis, error) {
	if b.threshold == nil {
		return histogram.ThresholdAnalysis{}, ErrNoThreshold
	}
	return *b.threshold, nil
}

// IntraDayGaps returns the minutes between chronologically consecutive
// commits of the full history that share a coding day. This is the input to
// session-threshold inference.
func (b *Builder) IntraDayGaps() []float64 {
	boundary := b.params.DayBoundaryHour
	var gaps []float64
	for i := 1; i < len(b.global); i++ {
		prev, cur := b.global[i-1], b.global[i]
		if !timeutil.SameCodingDay(prev.Timestamp, cur.Timestamp, b.params.TimezoneOffsetHours, boundary) {
			continue
		}
		gaps = append(gaps, cur.Timestamp.Sub(prev.Timestamp).Minutes())
	}
	return gaps
}

// DayBoundary infers the user's natural coding-day start from the local
// hour of every commit in the full history.
func (b *Builder) DayBoundary() histogram.DayBoundaryAnalysis {
	hours := make([]int, 0, len(b.global))
	for _, c := range b.global {
		hours = append(hours, timeutil.LocalHour(c.Timestamp, b.params.TimezoneOffsetHours))
	}
	return histogram.DayBoundary(hours)
}
