// Package cache stores commit snapshots on disk in a compact columnar JSON
// form, so repeated analyses skip the GitHub API entirely while the snapshot
// is fresh.
package cache

import (
	"fmt"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/google/uuid"
)

// schemaFields is the column order of the transport form. Decoding validates
// against it, so adding a field means bumping the order here and nowhere
// else.
var schemaFields = []string{
	"repo", "sha", "timestamp",
	"additions", "deletions", "files_changed",
	"private", "fork", "doc_only",
}

// Snapshot is the on-disk transport form: a schema header naming the columns
// and one row of values per commit. Round-tripping through it is lossless;
// timestamps re-hydrate to UTC instants.
type Snapshot struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	Schema    []string  `json:"schema"`
	Data      [][]any   `json:"data"`
}

// Encode packs commits into a snapshot for one user.
func Encode(user string, commits []models.Commit) *Snapshot {
	data := make([][]any, 0, len(commits))
	for _, c := range commits {
		data = append(data, []any{
			c.Repo, c.SHA, c.Timestamp.UTC().Format(time.RFC3339Nano),
			c.Additions, c.Deletions, c.FilesChanged,
			c.Private, c.Fork, c.DocOnly,
		})
	}

	return &Snapshot{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: time.Now().UTC(),
		Schema:    append([]string(nil), schemaFields...),
		Data:      data,
	}
}

// Decode unpacks the snapshot back into commits, validating the schema
// header first.
func (s *Snapshot) Decode() ([]models.Commit, error) {
	if len(s.Schema) != len(schemaFields) {
		return nil, fmt.Errorf("snapshot schema has %d fields, want %d", len(s.Schema), len(schemaFields))
	}
	for i, f := range schemaFields {
		if s.Schema[i] != f {
			return nil, fmt.Errorf("snapshot schema field %d is %q, want %q", i, s.Schema[i], f)
		}
	}

	commits := make([]models.Commit, 0, len(s.Data))
	for i, row := range s.Data {
		if len(row) != len(schemaFields) {
			return nil, fmt.Errorf("snapshot row %d has %d values, want %d", i, len(row), len(schemaFields))
		}

		ts, err := asTime(row[2])
		if err != nil {
			return nil, fmt.Errorf("snapshot row %d: %w", i, err)
		}

		commits = append(commits, models.Commit{
			Repo:         asString(row[0]),
			SHA:          asString(row[1]),
			Timestamp:    ts,
			Additions:    asInt(row[3]),
			Deletions:    asInt(row[4]),
			FilesChanged: asInt(row[5]),
			Private:      asBool(row[6]),
			Fork:         asBool(row[7]),
			DocOnly:      asBool(row[8]),
		})
	}
	return commits, nil
}

// JSON decoding hands back float64 for numbers and string for timestamps;
// these helpers normalize both the freshly-encoded and the round-tripped
// representations.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp is %T, want string", v)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return t.UTC(), nil
}
