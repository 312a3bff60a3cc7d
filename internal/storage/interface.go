// Package storage persists fetched commit history so repeated analyses do
// not refetch from the GitHub API.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/avandyck/gitrhythm/internal/config"
	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
)

// Store defines the storage interface
type Store interface {
	// Commit operations
	SaveCommits(ctx context.Context, user string, commits []models.Commit) error
	LoadCommits(ctx context.Context, user string, since time.Time) ([]models.Commit, error)

	// Fetch watermarks, per user and repository
	LastFetched(ctx context.Context, user, repo string) (time.Time, error)
	SetLastFetched(ctx context.Context, user, repo string, at time.Time) error

	// Close connection
	Close() error
}

// New creates a store from configuration.
func New(cfg config.StorageConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		return NewPostgresStore(cfg.PostgresDSN, logger)
	default:
		return NewSQLiteStore(cfg.SQLitePath, logger)
	}
}
