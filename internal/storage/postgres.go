package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements storage using PostgreSQL, for setups sharing one
// commit store across machines.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commits (
		"user" TEXT NOT NULL,
		repo TEXT NOT NULL,
		sha TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		additions INTEGER NOT NULL DEFAULT 0,
		deletions INTEGER NOT NULL DEFAULT 0,
		files_changed INTEGER NOT NULL DEFAULT 0,
		private BOOLEAN NOT NULL DEFAULT FALSE,
		fork BOOLEAN NOT NULL DEFAULT FALSE,
		doc_only BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY ("user", repo, sha)
	);

	CREATE TABLE IF NOT EXISTS fetch_state (
		"user" TEXT NOT NULL,
		repo TEXT NOT NULL,
		last_fetched TIMESTAMPTZ NOT NULL,
		PRIMARY KEY ("user", repo)
	);

	CREATE INDEX IF NOT EXISTS idx_commits_user_ts ON commits("user", timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveCommits upserts a batch of commits for one user.
func (s *PostgresStore) SaveCommits(ctx context.Context, user string, commits []models.Commit) error {
	if len(commits) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO commits
		("user", repo, sha, timestamp, additions, deletions, files_changed, private, fork, doc_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ("user", repo, sha) DO UPDATE SET
			additions = EXCLUDED.additions,
			deletions = EXCLUDED.deletions,
			files_changed = EXCLUDED.files_changed,
			doc_only = EXCLUDED.doc_only
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
func (s *PostgresStore) LoadCommits(ctx context.Context, user string, since time.Time) ([]models.Commit, error) {
	query := `
		SELECT repo, sha, timestamp, additions, deletions, files_changed, private, fork, doc_only
		FROM commits
		WHERE "user" = $1 AND timestamp >= $2
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
func (s *PostgresStore) LastFetched(ctx context.Context, user, repo string) (time.Time, error) {
	var at time.Time
	err := s.db.GetContext(ctx, &at,
		`SELECT last_fetched FROM fetch_state WHERE "user" = $1 AND repo = $2`, user, repo)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load fetch state: %w", err)
	}
	return at.UTC(), nil
}

// SetLastFetched records the fetch watermark for a user/repo pair.
func (s *PostgresStore) SetLastFetched(ctx context.Context, user, repo string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fetch_state ("user", repo, last_fetched) VALUES ($1, $2, $3)
		ON CONFLICT ("user", repo) DO UPDATE SET last_fetched = EXCLUDED.last_fetched`,
		user, repo, at.UTC())
	if err != nil {
		return fmt.Errorf("save fetch state: %w", err)
	}
	return nil
}
