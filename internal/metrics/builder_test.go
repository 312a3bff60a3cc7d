package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/avandyck/gitrhythm/internal/histogram"
	"github.com/avandyck/gitrhythm/internal/models"
)

func ts(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

// fixture is two coding days of activity: a split morning on day one and a
// short two-repo burst on day two.
func fixture() []models.Commit {
	return []models.Commit{
		{Repo: "alpha", SHA: "a1", Timestamp: ts(10, 9, 0), Additions: 5},
		{Repo: "alpha", SHA: "a2", Timestamp: ts(10, 9, 10), Additions: 5},
		{Repo: "alpha", SHA: "a3", Timestamp: ts(10, 11, 0), Additions: 5, DocOnly: true},
		{Repo: "alpha", SHA: "a4", Timestamp: ts(11, 10, 0), Additions: 5},
		{Repo: "beta", SHA: "b1", Timestamp: ts(11, 10, 5), Additions: 5},
	}
}

func params() models.Params {
	return models.Params{DayBoundaryHour: 4}
}

func TestBuildRequiresThreshold(t *testing.T) {
	_, err := New(fixture(), params()).Build(Period{Name: "all"})
	if !errors.Is(err, ErrNoThreshold) {
		t.Fatalf("err = %v, expected ErrNoThreshold", err)
	}
	_, err = New(fixture(), params()).Threshold()
	if !errors.Is(err, ErrNoThreshold) {
		t.Fatalf("Threshold err = %v, expected ErrNoThreshold", err)
	}
}

func TestBuildSessionMetrics(t *testing.T) {
	r, err := New(fixture(), params()).WithThreshold(30).Build(Period{Name: "all"})
	if err != nil {
		t.Fatal(err)
	}

	if r.TotalCommits != 5 || r.ActiveDays != 2 {
		t.Errorf("totals = %d commits, %d days; expected 5 and 2", r.TotalCommits, r.ActiveDays)
	}
	if got := r.CommitsPerDay.Values; len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Errorf("commits per day = %v, expected [3 2]", got)
	}
	if got := r.SessionsPerDay.Values; len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("sessions per day = %v, expected [2 1]", got)
	}
	if got := r.SessionDurations.Values; len(got) != 3 || got[0] != 10 || got[1] != 0 || got[2] != 5 {
		t.Errorf("session durations = %v, expected [10 0 5]", got)
	}
	if got := r.InterSessionGaps.Values; len(got) != 1 || got[0] != 110 {
		t.Errorf("inter-session gaps = %v, expected [110]", got)
	}
	if r.MedianWithinGap != 7.5 {
		t.Errorf("median within gap = %v, expected 7.5", r.MedianWithinGap)
	}
}

func TestBuildAdjustedSessionMinutes(t *testing.T) {
	r, err := New(fixture(), params()).WithThreshold(30).Build(Period{Name: "all"})
	if err != nil {
		t.Fatal(err)
	}

	// Each day's summed durations plus the global median gap once per
	// session: day one 10 + 7.5*2, day two 5 + 7.5*1.
	got := r.AdjustedSessionMinutesPerDay.Values
	if len(got) != 2 || got[0] != 25 || got[1] != 12.5 {
		t.Errorf("adjusted minutes = %v, expected [25 12.5]", got)
	}
}

func TestBuildContextSwitchRate(t *testing.T) {
	r, err := New(fixture(), params()).WithThreshold(30).Build(Period{Name: "all"})
	if err != nil {
		t.Fatal(err)
	}

	// Fixed 10-minute clustering yields three bursts; only the day-two
	// alpha+beta burst spans repos.
	if want := 1.0 / 3.0; r.ContextSwitchRate != want {
		t.Errorf("context switch rate = %v, expected %v", r.ContextSwitchRate, want)
	}
}

func TestWithFilterDoesNotMutateBase(t *testing.T) {
	base := New(fixture(), params()).WithThreshold(30)
	codeOnly := base.WithFilter(models.CodeOnly)

	full, err := base.Build(Period{Name: "all"})
	if err != nil {
		t.Fatal(err)
	}
	filtered, err := codeOnly.Build(Period{Name: "all"})
	if err != nil {
		t.Fatal(err)
	}

	if full.TotalCommits != 5 {
		t.Errorf("base builder lost commits after branching: %d", full.TotalCommits)
	}
	if filtered.TotalCommits != 4 {
		t.Errorf("filtered commits = %d, expected 4", filtered.TotalCommits)
	}
	// Threshold inference stays on the full history regardless of filter.
	if got := codeOnly.IntraDayGaps(); len(got) != 3 {
		t.Errorf("intra-day gaps = %v, expected the full history's 3 gaps", got)
	}
}

func TestIntraDayGaps(t *testing.T) {
	got := New(fixture(), params()).IntraDayGaps()
	want := []float64{10, 110, 5}
	if len(got) != len(want) {
		t.Fatalf("gaps = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gap %d = %v, expected %v", i, got[i], want[i])
		}
	}
}

func TestWithInferredThreshold(t *testing.T) {
	b := New(fixture(), params()).WithInferredThreshold()
	analysis, err := b.Threshold()
	if err != nil {
		t.Fatal(err)
	}
	// Three intra-day gaps is below the sample floor.
	if analysis.Method != histogram.MethodDefault || analysis.Threshold != histogram.DefaultThresholdMinutes {
		t.Errorf("analysis = %+v, expected the default fallback", analysis)
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Name: "march", From: ts(1, 0, 0), To: ts(15, 0, 0)}
	if !p.Contains(ts(10, 12, 0)) {
		t.Error("instant inside the window rejected")
	}
	if p.Contains(ts(15, 0, 0)) {
		t.Error("To is exclusive; its exact instant must be rejected")
	}
	if p.Contains(ts(15, 0, 1)) || p.Contains(time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)) {
		t.Error("instants outside the window accepted")
	}
	if !(Period{Name: "all"}).Contains(ts(10, 0, 0)) {
		t.Error("zero-valued period should be unbounded")
	}
}

func TestBuildFiltersPeriod(t *testing.T) {
	p := Period{Name: "day-one", From: ts(10, 0, 0), To: ts(11, 0, 0)}
	r, err := New(fixture(), params()).WithThreshold(30).Build(p)
	if err != nil {
		t.Fatal(err)
	}
	if r.TotalCommits != 3 || r.ActiveDays != 1 {
		t.Errorf("period build = %d commits, %d days; expected day one only", r.TotalCommits, r.ActiveDays)
	}
}
