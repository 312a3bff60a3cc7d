package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements storage using SQLite (the local default)
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// WAL mode for better concurrency
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commits (
		user TEXT NOT NULL,
		repo TEXT NOT NULL,
		sha TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		additions INTEGER NOT NULL DEFAULT 0,
		deletions INTEGER NOT NULL DEFAULT 0,
		files_changed INTEGER NOT NULL DEFAULT 0,
		private INTEGER NOT NULL DEFAULT 0,
		fork INTEGER NOT NULL DEFAULT 0,
		doc_only INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user, repo, sha)
	);

	CREATE TABLE IF NOT EXISTS fetch_state (
		user TEXT NOT NULL,
		repo TEXT NOT NULL,
		last_fetched DATETIME NOT NULL,
		PRIMARY KEY (user, repo)
	);

	CREATE INDEX IF NOT EXISTS idx_commits_user_ts ON commits(user, timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCommits upserts a batch of commits for one user.
func (s *SQLiteStore) SaveCommits(ctx context.Context, user string, commits []models.Commit) error {
	if len(commits) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO commits
		(user, repo, sha, timestamp, additions, deletions, files_changed, private, fork, doc_only)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range commits {
		if _, err := tx.ExecContext(ctx, query,
			user, c.Repo, c.SHA, c.Timestamp.UTC(),
			c.Additions, c.Deletions, c.FilesChanged,
			c.Private, c.Fork, c.DocOnly,
		); err != nil {
			return fmt.Errorf("insert commit %s: %w", c.SHA, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user":    user,
		"commits": len(commits),
	}).Debug("saved commits")
	return nil
}

// LoadCommits returns a user's commits since an instant, ascending by time.
func (s *SQLiteStore) LoadCommits(ctx context.Context, user string, since time.Time) ([]models.Commit, error) {
	query := `
		SELECT repo, sha, timestamp, additions, deletions, files_changed, private, fork, doc_only
		FROM commits
		WHERE user = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`
	var commits []models.Commit
	if err := s.db.SelectContext(ctx, &commits, query, user, since.UTC()); err != nil {
		return nil, fmt.Errorf("load commits: %w", err)
	}
	for i := range commits {
		commits[i].Timestamp = commits[i].Timestamp.UTC()
	}
	return commits, nil
}

// LastFetched returns the fetch watermark for a user/repo pair.
func (s *SQLiteStore) LastFetched(ctx context.Context, user, repo string) (time.Time, error) {
	var at time.Time
	err := s.db.GetContext(ctx, &at,
		`SELECT last_fetched FROM fetch_state WHERE user = ? AND repo = ?`, user, repo)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load fetch state: %w", err)
	}
	return at.UTC(), nil
}

// SetLastFetched records the fetch watermark for a user/repo pair.
func (s *SQLiteStore) SetLastFetched(ctx context.Context, user, repo string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fetch_state (user, repo, last_fetched) VALUES (?, ?, ?)`,
		user, repo, at.UTC())
	if err != nil {
		return fmt.Errorf("save fetch state: %w", err)
	}
	return nil
}
