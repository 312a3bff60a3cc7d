package sessions

import (
	"sort"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
)

// Cluster is a burst of commits grouped under a fixed, caller-supplied
// threshold. Clusters exist for chart bucketing only; behavioral analysis
// uses Session with an inferred threshold instead.
type Cluster struct {
	Start       time.Time
	End         time.Time
	CommitCount int
	Repos       []string // distinct, sorted
}

// MultiRepo reports whether the cluster touched more than one repository,
// the context-switch signal used downstream.
func (c Cluster) MultiRepo() bool {
	return len(c.Repos) > 1
}

// Clusters groups commits into bursts using the same greedy gap walk as
// Segment, but with a threshold the caller picks.
func Clusters(commits []models.Commit, thresholdMinutes float64) []Cluster {
	var out []Cluster
	for _, s := range Segment(commits, thresholdMinutes) {
		out = append(out, Cluster{
			Start:       s.Start,
			End:         s.End,
			CommitCount: len(s.Commits),
			Repos:       s.Repos,
		})
	}
	return out
}

// ContextSwitchRate returns the share of clusters touching more than one
// repository. Zero clusters yields 0.
func ContextSwitchRate(clusters []Cluster) float64 {
	if len(clusters) == 0 {
		return 0
	}
	multi := 0
	for _, c := range clusters {
		if c.MultiRepo() {
			multi++
		}
	}
	return float64(multi) / float64(len(clusters))
}

// RepoSet returns the distinct, sorted repositories across a commit set.
func RepoSet(commits []models.Commit) []string {
	seen := make(map[string]struct{})
	var repos []string
	for _, c := range commits {
		if _, ok := seen[c.Repo]; !ok {
			seen[c.Repo] = struct{}{}
			repos = append(repos, c.Repo)
		}
	}
	sort.Strings(repos)
	return repos
}
