// Package sessions partitions a coding day's commits into contiguous work
// sessions and, separately, into fixed-threshold clusters for chart
// preparation.
package sessions

import (
	"sort"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
)

// Session is a maximal run of commits whose consecutive gaps stay within the
// active threshold. Sessions are never mutated after creation.
type Session struct {
	Start        time.Time
	End          time.Time
	Commits      []models.Commit
	Repos        []string // distinct, sorted
	LinesChanged int
}

// Duration returns the session span in minutes. A single-commit session has
// duration 0.
func (s Session) Duration() float64 {
	return s.End.Sub(s.Start).Minutes()
}

// Segment splits one coding day's commits into sessions: a new session
// starts whenever the gap to the previous commit exceeds thresholdMinutes.
// The input is stable-sorted by timestamp first, so equal timestamps keep
// their original relative order. The returned sessions are chronological,
// non-overlapping, and partition the input exactly: concatenating their
// commit lists reproduces the sorted input.
func Segment(commits []models.Commit, thresholdMinutes float64) []Session {
	if len(commits) == 0 {
		return nil
	}

	sorted := make([]models.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var out []Session
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) {
			gap := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Minutes()
			if gap <= thresholdMinutes {
				continue
			}
		}
		out = append(out, build(sorted[start:i]))
		start = i
	}
	return out
}

func build(commits []models.Commit) Session {
	s := Session{
		Start:   commits[0].Timestamp,
		End:     commits[len(commits)-1].Timestamp,
		Commits: commits,
	}

	seen := make(map[string]struct{})
	for _, c := range commits {
		s.LinesChanged += c.LinesChanged()
		if _, ok := seen[c.Repo]; !ok {
			seen[c.Repo] = struct{}{}
			s.Repos = append(s.Repos, c.Repo)
		}
	}
	sort.Strings(s.Repos)
	return s
}

// WithinGaps returns the gaps in minutes between consecutive commits inside
// the session.
func (s Session) WithinGaps() []float64 {
	var gaps []float64
	for i := 1; i < len(s.Commits); i++ {
		gaps = append(gaps, s.Commits[i].Timestamp.Sub(s.Commits[i-1].Timestamp).Minutes())
	}
	return gaps
}
