package sessions

import (
	"testing"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func commit(repo string, ts time.Time) models.Commit {
	return models.Commit{Repo: repo, SHA: ts.Format("150405"), Timestamp: ts, Additions: 10, Deletions: 2}
}

func TestSegmentSplitsOnGap(t *testing.T) {
	commits := []models.Commit{
		commit("alpha", at(9, 0)),
		commit("alpha", at(9, 10)),
		commit("alpha", at(11, 0)),
	}

	got := Segment(commits, 30)

	if len(got) != 2 {
		t.Fatalf("sessions = %d, expected 2", len(got))
	}
	if got[0].Duration() != 10 || len(got[0].Commits) != 2 {
		t.Errorf("first session = %v min, %d commits; expected 10 min, 2 commits", got[0].Duration(), len(got[0].Commits))
	}
	if got[1].Duration() != 0 || len(got[1].Commits) != 1 {
		t.Errorf("second session = %v min, %d commits; expected a single-commit session", got[1].Duration(), len(got[1].Commits))
	}
	if got[0].LinesChanged != 24 {
		t.Errorf("first session lines = %d, expected 24", got[0].LinesChanged)
	}
}

func TestSegmentGapEqualToThresholdStays(t *testing.T) {
	commits := []models.Commit{
		commit("alpha", at(9, 0)),
		commit("alpha", at(9, 30)),
	}

	got := Segment(commits, 30)
	if len(got) != 1 {
		t.Errorf("a gap exactly at the threshold should not split, got %d sessions", len(got))
	}
}

func TestSegmentPartitionsInput(t *testing.T) {
	commits := []models.Commit{
		commit("alpha", at(14, 5)),
		commit("beta", at(9, 0)),
		commit("alpha", at(9, 20)),
		commit("beta", at(13, 0)),
		commit("alpha", at(9, 40)),
	}

	got := Segment(commits, 45)

	var flat []models.Commit
	for _, s := range got {
		flat = append(flat, s.Commits...)
	}
	if len(flat) != len(commits) {
		t.Fatalf("partition lost commits: %d in, %d out", len(commits), len(flat))
	}
	for i := 1; i < len(flat); i++ {
		if flat[i].Timestamp.Before(flat[i-1].Timestamp) {
			t.Errorf("concatenated sessions out of order at %d", i)
		}
	}
	for _, s := range got {
		if s.Start.After(s.End) {
			t.Errorf("session start after end: %+v", s)
		}
	}
}

func TestSegmentCountMonotonicInThreshold(t *testing.T) {
	commits := []models.Commit{
		commit("alpha", at(9, 0)),
		commit("alpha", at(9, 12)),
		commit("alpha", at(10, 0)),
		commit("alpha", at(12, 30)),
		commit("alpha", at(12, 35)),
	}

	prev := 0
	for _, threshold := range []float64{240, 60, 30, 10, 1} {
		n := len(Segment(commits, threshold))
		if n < prev {
			t.Fatalf("session count dropped from %d to %d as threshold shrank to %v", prev, n, threshold)
		}
		prev = n
	}
	if got := len(Segment(commits, 1)); got != 5 {
		t.Errorf("a tiny threshold should isolate every commit, got %d sessions", got)
	}
}

func TestSegmentStableForEqualTimestamps(t *testing.T) {
	ts := at(10, 0)
	commits := []models.Commit{
		{Repo: "alpha", SHA: "first", Timestamp: ts},
		{Repo: "alpha", SHA: "second", Timestamp: ts},
		{Repo: "alpha", SHA: "third", Timestamp: ts},
	}

	got := Segment(commits, 30)
	if len(got) != 1 {
		t.Fatalf("expected one session, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[0].Commits[i].SHA != want {
			t.Errorf("commit %d = %s, expected %s", i, got[0].Commits[i].SHA, want)
		}
	}
}

func TestSegmentEmpty(t *testing.T) {
	if got := Segment(nil, 45); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestSessionRepos(t *testing.T) {
	commits := []models.Commit{
		commit("zeta", at(9, 0)),
		commit("alpha", at(9, 5)),
		commit("zeta", at(9, 10)),
	}

	got := Segment(commits, 45)
	if len(got) != 1 {
		t.Fatalf("expected one session, got %d", len(got))
	}
	repos := got[0].Repos
	if len(repos) != 2 || repos[0] != "alpha" || repos[1] != "zeta" {
		t.Errorf("repos = %v, expected distinct sorted [alpha zeta]", repos)
	}
}

func TestWithinGaps(t *testing.T) {
	commits := []models.Commit{
		commit("alpha", at(9, 0)),
		commit("alpha", at(9, 10)),
		commit("alpha", at(9, 25)),
	}

	got := Segment(commits, 45)
	gaps := got[0].WithinGaps()
	if len(gaps) != 2 || gaps[0] != 10 || gaps[1] != 15 {
		t.Errorf("within gaps = %v, expected [10 15]", gaps)
	}
}
