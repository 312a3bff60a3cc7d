package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avandyck/gitrhythm/internal/cache"
	"github.com/avandyck/gitrhythm/internal/config"
	"github.com/avandyck/gitrhythm/internal/github"
	"github.com/avandyck/gitrhythm/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch commit history from GitHub into local storage",
	Long: `Fetch a user's commits from every repository they own, enrich them with
line stats, and persist them in local storage. Incremental: repositories
fetched before continue from their last watermark.

Examples:
  gitrhythm fetch --user octocat
  gitrhythm fetch --user octocat --since-days 90 --skip-forks`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("user", "", "GitHub username (default: github.user from config)")
	fetchCmd.Flags().Int("since-days", 0, "history window in days (default: github.since_days from config)")
	fetchCmd.Flags().Bool("skip-forks", false, "do not fetch commits from forked repositories")
	fetchCmd.Flags().Bool("full", false, "ignore watermarks and refetch the whole window")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	user, err := requireUser(cmd)
	if err != nil {
		return err
	}

	sinceDays, _ := cmd.Flags().GetInt("since-days")
	if sinceDays == 0 {
		sinceDays = cfg.GitHub.SinceDays
	}
	skipForks, _ := cmd.Flags().GetBool("skip-forks")
	full, _ := cmd.Flags().GetBool("full")
	windowStart := time.Now().UTC().AddDate(0, 0, -sinceDays)

	token := cfg.GitHub.Token
	if token == "" {
		token, err = config.NewCredentialManager().GetGitHubToken()
		if err != nil {
			return fmt.Errorf("resolve github token: %w", err)
		}
	}

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	client := github.NewClient(token, cfg.GitHub.RateLimit, logger)

	repos, err := client.FetchRepos(ctx, user)
	if err != nil {
		return fmt.Errorf("fetch repositories: %w", err)
	}
	logger.WithFields(logrus.Fields{"user": user, "repos": len(repos)}).Info("fetching commit history")

	total := 0
	for _, repo := range repos {
		if skipForks && repo.Fork {
			logger.WithField("repo", repo.FullName).Debug("skipping fork")
			continue
		}

		since := windowStart
		if !full {
			if watermark, err := store.LastFetched(ctx, user, repo.FullName); err == nil && watermark.After(since) {
				since = watermark
			}
		}

		commits, err := client.FetchCommits(ctx, repo, user, since)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", repo.FullName, err)
		}
		if err := store.SaveCommits(ctx, user, commits); err != nil {
			return fmt.Errorf("save %s: %w", repo.FullName, err)
		}
		if err := store.SetLastFetched(ctx, user, repo.FullName, time.Now().UTC()); err != nil {
			return fmt.Errorf("save watermark for %s: %w", repo.FullName, err)
		}
		total += len(commits)
	}

	// Refresh the snapshot cache so analyze can skip storage next time.
	all, err := store.LoadCommits(ctx, user, windowStart)
	if err != nil {
		return fmt.Errorf("reload commits: %w", err)
	}
	cacheMgr := cache.NewManager(cfg.Cache.Directory, cfg.Cache.TTL, logger)
	if err := cacheMgr.Save(user, all); err != nil {
		logger.WithError(err).Warn("failed to refresh snapshot cache")
	}

	logger.WithFields(logrus.Fields{
		"new_commits": total,
		"total":       len(all),
		"duration":    time.Since(start).Round(time.Millisecond),
	}).Info("fetch complete")
	return nil
}
