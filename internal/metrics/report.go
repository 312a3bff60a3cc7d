package metrics

import (
	"sort"

	"github.com/avandyck/gitrhythm/internal/histogram"
	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/avandyck/gitrhythm/internal/sessions"
	"github.com/avandyck/gitrhythm/internal/stats"
	"github.com/avandyck/gitrhythm/internal/timeutil"
)

// DayValue is one point of a per-day series.
type DayValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Series is a derived metric: the flat sample values, their box-plot
// summary, and (for per-day metrics) the date-ordered points.
type Series struct {
	Days   []DayValue    `json:"days,omitempty"`
	Values []float64     `json:"values"`
	Stats  stats.BoxPlot `json:"stats"`
}

// Report is one consolidated metrics build over a period.
type Report struct {
	Period       Period                        `json:"-"`
	PeriodName   string                        `json:"period"`
	Threshold    histogram.ThresholdAnalysis   `json:"threshold"`
	DayBoundary  histogram.DayBoundaryAnalysis `json:"day_boundary"`
	TotalCommits int                           `json:"total_commits"`
	ActiveDays   int                           `json:"active_days"`

	CommitsPerDay     Series `json:"commits_per_day"`
	LinesPerDay       Series `json:"lines_per_day"`
	ActiveHoursPerDay Series `json:"active_hours_per_day"`
	ReposPerDay       Series `json:"repos_per_day"`
	SessionsPerDay    Series `json:"sessions_per_day"`

	SessionDurations  Series `json:"session_durations"`
	CommitsPerSession Series `json:"commits_per_session"`
	LinesPerSession   Series `json:"lines_per_session"`
	WithinSessionGaps Series `json:"within_session_gaps"`
	InterSessionGaps  Series `json:"inter_session_gaps"`

	// AdjustedSessionMinutesPerDay folds the global median within-session
	// gap back into each day's summed session durations, approximating
	// thinking time around the commits themselves.
	AdjustedSessionMinutesPerDay Series `json:"adjusted_session_minutes_per_day"`

	// MedianWithinGap is that global median, in minutes.
	MedianWithinGap float64 `json:"median_within_gap"`

	// ContextSwitchRate is the share of fixed-threshold clusters touching
	// more than one repository.
	ContextSwitchRate float64 `json:"context_switch_rate"`
}

// Build runs the full pipeline over the filtered commits inside period.
// It fails only when no session threshold has been established.
func (b *Builder) Build(period Period) (*Report, error) {
	if b.threshold == nil {
		return nil, ErrNoThreshold
	}

	offset := b.params.TimezoneOffsetHours
	boundary := b.params.BoundaryFor(period.Name)

	var periodCommits []models.Commit
	for _, c := range b.filtered {
		if period.Contains(c.Timestamp) {
			periodCommits = append(periodCommits, c)
		}
	}

	byDay := make(map[string][]models.Commit)
	for _, c := range periodCommits {
		day := timeutil.CodingDay(c.Timestamp, offset, boundary)
		byDay[day] = append(byDay[day], c)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	r := &Report{
		Period:       period,
		PeriodName:   period.Name,
		Threshold:    *b.threshold,
		DayBoundary:  b.DayBoundary(),
		TotalCommits: len(periodCommits),
		ActiveDays:   len(days),
	}

	// Per-day series.
	r.CommitsPerDay = daySeries(days, func(d string) float64 {
		return float64(len(byDay[d]))
	})
	r.LinesPerDay = daySeries(days, func(d string) float64 {
		total := 0
		for _, c := range byDay[d] {
			total += c.LinesChanged()
		}
		return float64(total)
	})
	r.ActiveHoursPerDay = daySeries(days, func(d string) float64 {
		hours := make(map[timeutil.DayHour]struct{})
		for _, c := range byDay[d] {
			hours[timeutil.HourKey(c.Timestamp, offset, boundary)] = struct{}{}
		}
		return float64(len(hours))
	})
	r.ReposPerDay = daySeries(days, func(d string) float64 {
		return float64(len(sessions.RepoSet(byDay[d])))
	})

	// Session metrics, day by day with the established threshold.
	threshold := b.threshold.Threshold
	var (
		durations, perSessionCommits, perSessionLines []float64
		withinGaps, interGaps, sessionCounts          []float64
		dailySessionMinutes                           = make(map[string]float64)
		dailySessionCount                             = make(map[string]int)
	)
	for _, d := range days {
		daySessions := sessions.Segment(byDay[d], threshold)
		sessionCounts = append(sessionCounts, float64(len(daySessions)))
		dailySessionCount[d] = len(daySessions)
		for i, s := range daySessions {
			durations = append(durations, s.Duration())
			perSessionCommits = append(perSessionCommits, float64(len(s.Commits)))
			perSessionLines = append(perSessionLines, float64(s.LinesChanged))
			withinGaps = append(withinGaps, s.WithinGaps()...)
			dailySessionMinutes[d] += s.Duration()
			if i > 0 {
				interGaps = append(interGaps, s.Start.Sub(daySessions[i-1].End).Minutes())
			}
		}
	}

	r.SessionsPerDay = Series{
		Days:   dayValues(days, func(d string) float64 { return float64(dailySessionCount[d]) }),
		Values: sessionCounts,
		Stats:  stats.Summarize(sessionCounts),
	}
	r.SessionDurations = flatSeries(durations)
	r.CommitsPerSession = flatSeries(perSessionCommits)
	r.LinesPerSession = flatSeries(perSessionLines)
	r.WithinSessionGaps = flatSeries(withinGaps)
	r.InterSessionGaps = flatSeries(interGaps)

	// The adjustment uses the global median gap, not a per-day one, so that
	// low-sample days do not skew their own estimate.
	r.MedianWithinGap = stats.Median(withinGaps)
	r.AdjustedSessionMinutesPerDay = daySeries(days, func(d string) float64 {
		return dailySessionMinutes[d] + r.MedianWithinGap*float64(dailySessionCount[d])
	})

	// Fixed-threshold clustering for the context-switch signal.
	r.ContextSwitchRate = sessions.ContextSwitchRate(
		sessions.Clusters(periodCommits, b.clusterThreshold))

	return r, nil
}

func dayValues(days []string, value func(string) float64) []DayValue {
	out := make([]DayValue, 0, len(days))
	for _, d := range days {
		out = append(out, DayValue{Date: d, Value: value(d)})
	}
	return out
}

func daySeries(days []string, value func(string) float64) Series {
	points := dayValues(days, value)
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}
	return Series{Days: points, Values: values, Stats: stats.Summarize(values)}
}

func flatSeries(values []float64) Series {
	return Series{Values: values, Stats: stats.Summarize(values)}
}
