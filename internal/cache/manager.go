package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/sirupsen/logrus"
)

// Manager handles snapshot files in a cache directory
type Manager struct {
	dir    string
	ttl    time.Duration
	logger *logrus.Logger
}

// NewManager creates a new cache manager
func NewManager(dir string, ttl time.Duration, logger *logrus.Logger) *Manager {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.WithError(err).Warn("failed to create cache directory")
	}

	return &Manager{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}
}

func (m *Manager) path(user string) string {
	return filepath.Join(m.dir, fmt.Sprintf("commits_%s.json", user))
}

// Save writes a user's commits as a columnar snapshot.
func (m *Manager) Save(user string, commits []models.Commit) error {
	snap := Encode(user, commits)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := m.path(user)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"user":     user,
		"commits":  len(commits),
		"snapshot": snap.ID,
	}).Debug("cached commit snapshot")
	return nil
}

// Load returns a user's cached commits. Missing or stale snapshots return
// ErrStale; corrupt ones return a decode error.
func (m *Manager) Load(user string) ([]models.Commit, error) {
	data, err := os.ReadFile(m.path(user))
	if os.IsNotExist(err) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if m.ttl > 0 && time.Since(snap.CreatedAt) > m.ttl {
		m.logger.WithField("user", user).Debug("snapshot expired")
		return nil, ErrStale
	}

	return snap.Decode()
}

// Invalidate removes a user's snapshot.
func (m *Manager) Invalidate(user string) error {
	err := os.Remove(m.path(user))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

// ErrStale marks a missing or expired snapshot; callers fall through to the
// store or the API.
var ErrStale = errors.New("cache: snapshot missing or expired")
