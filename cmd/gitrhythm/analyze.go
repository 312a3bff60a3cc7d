package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avandyck/gitrhythm/internal/cache"
	"github.com/avandyck/gitrhythm/internal/metrics"
	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/avandyck/gitrhythm/internal/storage"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive behavioral metrics from fetched commit history",
	Long: `Analyze the locally stored commit history: infer the session threshold
and day boundary from the commit rhythm, segment days into sessions, and
summarize every derived series as box-plot statistics.

Examples:
  gitrhythm analyze --user octocat
  gitrhythm analyze --user octocat --period-days 90 --filter code
  gitrhythm analyze --user octocat --threshold 30 --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("user", "", "GitHub username (default: github.user from config)")
	analyzeCmd.Flags().Int("period-days", 365, "analysis window in days")
	analyzeCmd.Flags().Float64("threshold", 0, "explicit session threshold in minutes (default: inferred)")
	analyzeCmd.Flags().String("filter", "all", "commit filter: all, code, or docs")
	analyzeCmd.Flags().Bool("json", false, "emit the full report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Printf("Period: %s (%d commits, %d active days)\n", r.PeriodName, r.TotalCommits, r.ActiveDays)
	fmt.Printf("Session threshold: %.0f min (%s, confidence %.2f)\n",
		r.Threshold.Threshold, r.Threshold.Method, r.Threshold.Confidence)
	fmt.Printf("Day boundary: %02d:00 (%s, confidence %.2f)\n",
		r.DayBoundary.Boundary, r.DayBoundary.Method, r.DayBoundary.Confidence)
	fmt.Printf("Median session: %.0f min, median commits/day: %.0f\n",
		r.SessionDurations.Stats.Median, r.CommitsPerDay.Stats.Median)
	fmt.Printf("Context switching rate: %.0f%%\n", r.ContextSwitchRate*100)
	return nil
}

// loadCommits loads a user's history, preferring the snapshot cache and
// falling back to storage.
func loadCommits(ctx context.Context, user string) ([]models.Commit, error) {
	cacheMgr := cache.NewManager(cfg.Cache.Directory, cfg.Cache.TTL, logger)
	if commits, err := cacheMgr.Load(user); err == nil {
		logger.WithField("commits", len(commits)).Debug("loaded from snapshot cache")
		return commits, nil
	}

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	commits, err := store.LoadCommits(ctx, user, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("no commits stored for %s: run 'gitrhythm fetch' first", user)
	}
	return commits, nil
}

// buildReport runs the shared analyze pipeline behind analyze, report, and
// charts.
func buildReport(cmd *cobra.Command) (*metrics.Report, error) {
	user, err := requireUser(cmd)
	if err != nil {
		return nil, err
	}

	commits, err := loadCommits(context.Background(), user)
	if err != nil {
		return nil, err
	}

	filter, _ := cmd.Flags().GetString("filter")
	var pred models.Predicate
	switch filter {
	case "all":
		pred = models.All
	case "code":
		pred = models.CodeOnly
	case "docs":
		pred = models.DocsOnly
	default:
		return nil, fmt.Errorf("unknown filter %q: want all, code, or docs", filter)
	}

	builder := metrics.New(commits, cfg.Analysis.Params).WithFilter(pred)
	if cfg.Analysis.ClusterThresholdMinutes > 0 {
		builder = builder.WithClusterThreshold(cfg.Analysis.ClusterThresholdMinutes)
	}

	explicit, _ := cmd.Flags().GetFloat64("threshold")
	if explicit > 0 {
		builder = builder.WithThreshold(explicit)
	} else {
		builder = builder.WithInferredThreshold()
	}

	periodDays, _ := cmd.Flags().GetInt("period-days")
	period := metrics.LastDays(fmt.Sprintf("last %d days", periodDays), periodDays)
	return builder.Build(period)
}
