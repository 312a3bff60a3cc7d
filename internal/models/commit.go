package models

import "time"

// Commit is a single commit event as fetched from GitHub.
// Instances are immutable once fetched; analysis code treats them read-only.
type Commit struct {
	Repo         string    `json:"repo" db:"repo"`
	SHA          string    `json:"sha" db:"sha"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"` // always UTC
	Additions    int       `json:"additions" db:"additions"`
	Deletions    int       `json:"deletions" db:"deletions"`
	FilesChanged int       `json:"files_changed" db:"files_changed"`
	Private      bool      `json:"private" db:"private"`
	Fork         bool      `json:"fork" db:"fork"`
	DocOnly      bool      `json:"doc_only" db:"doc_only"`
}

// LinesChanged returns additions plus deletions.
func (c Commit) LinesChanged() int {
	return c.Additions + c.Deletions
}

// Predicate selects a subset of commits for filterable metrics.
type Predicate func(Commit) bool

// All admits every commit.
func All(Commit) bool { return true }

// CodeOnly excludes documentation-only commits.
func CodeOnly(c Commit) bool { return !c.DocOnly }

// DocsOnly admits documentation-only commits.
func DocsOnly(c Commit) bool { return c.DocOnly }
