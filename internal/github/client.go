// Package github fetches a user's commit history through the GitHub REST
// API, with rate limiting, pagination, and parallel per-commit enrichment.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client wraps the GitHub API client with rate limiting and concurrency
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	maxWorkers  int
	logger      *logrus.Logger
}

// Repo is the slice of repository metadata the fetch pipeline needs.
type Repo struct {
	Owner    string
	Name     string
	FullName string
	Private  bool
	Fork     bool
}

// NewClient creates a new GitHub client with rate limiting
func NewClient(token string, rateLimit int, logger *logrus.Logger) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxWorkers:  10, // concurrent per-commit detail calls
		logger:      logger,
	}
}

// FetchRepos lists the repositories owned by a user.
func (c *Client) FetchRepos(ctx context.Context, user string) ([]Repo, error) {
	opts := &github.RepositoryListOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var repos []Repo
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := c.client.Repositories.List(ctx, user, opts)
		if isRateLimited(err) {
			if err := c.waitForReset(ctx, err); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list repositories: %w", err)
		}

		for _, r := range page {
			repos = append(repos, Repo{
				Owner:    r.GetOwner().GetLogin(),
				Name:     r.GetName(),
				FullName: r.GetFullName(),
				Private:  r.GetPrivate(),
				Fork:     r.GetFork(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return repos, nil
}

// FetchCommits retrieves a user's commits in one repository since a given
// instant, enriched with line stats and changed-file counts.
func (c *Client) FetchCommits(ctx context.Context, repo Repo, author string, since time.Time) ([]models.Commit, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var shas []string
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		commits, resp, err := c.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if isRateLimited(err) {
			if err := c.waitForReset(ctx, err); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list commits for %s: %w", repo.FullName, err)
		}

		for _, commit := range commits {
			shas = append(shas, commit.GetSHA())
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.WithFields(logrus.Fields{
		"repo":    repo.FullName,
		"commits": len(shas),
	}).Debug("listed commits, fetching details")

	return c.enrich(ctx, repo, shas)
}

// enrich fetches per-commit stats through a bounded worker pool. Result
// order follows the listing order regardless of completion order.
func (c *Client) enrich(ctx context.Context, repo Repo, shas []string) ([]models.Commit, error) {
	out := make([]models.Commit, len(shas))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	for i, sha := range shas {
		i, sha := i, sha
		g.Go(func() error {
			if err := c.wait(ctx); err != nil {
				return err
			}

			detail, _, err := c.client.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
			if isRateLimited(err) {
				if err := c.waitForReset(ctx, err); err != nil {
					return err
				}
				detail, _, err = c.client.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
			}
			if err != nil {
				return fmt.Errorf("get commit %s: %w", sha, err)
			}

			commit := models.Commit{
				Repo:      repo.FullName,
				SHA:       sha,
				Timestamp: detail.GetCommit().GetAuthor().GetDate().UTC(),
				Private:   repo.Private,
				Fork:      repo.Fork,
			}
			if stats := detail.GetStats(); stats != nil {
				commit.Additions = stats.GetAdditions()
				commit.Deletions = stats.GetDeletions()
			}
			commit.FilesChanged = len(detail.Files)
			commit.DocOnly = docOnly(detail.Files)

			out[i] = commit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// wait blocks until the client-side rate limiter admits another call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func isRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	return errors.As(err, &rateErr)
}

// waitForReset sleeps through a server-side rate limit window so the caller
// can retry the request.
func (c *Client) waitForReset(ctx context.Context, err error) error {
	var rateErr *github.RateLimitError
	if !errors.As(err, &rateErr) {
		return err
	}

	delay := time.Until(rateErr.Rate.Reset.Time) + time.Second
	if delay < 0 {
		delay = time.Second
	}
	c.logger.WithField("delay", delay).Warn("github rate limit hit, waiting for reset")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// docOnly reports whether every changed file is documentation.
func docOnly(files []*github.CommitFile) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !isDocPath(f.GetFilename()) {
			return false
		}
	}
	return true
}

func isDocPath(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "docs/") || strings.Contains(lower, "/docs/") {
		return true
	}
	for _, ext := range []string{".md", ".rst", ".txt", ".adoc"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	base := lower
	if i := strings.LastIndex(lower, "/"); i >= 0 {
		base = lower[i+1:]
	}
	switch base {
	case "license", "notice", "authors", "changelog":
		return true
	}
	return false
}
