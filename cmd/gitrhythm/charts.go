package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avandyck/gitrhythm/internal/charts"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the analysis as an HTML chart page",
	Long: `Run the analysis, write a standalone HTML page of Vega-Lite charts,
and open it in the default browser.

Examples:
  gitrhythm charts --user octocat
  gitrhythm charts --user octocat --out rhythm.html --no-open`,
	RunE: runCharts,
}

func init() {
	chartsCmd.Flags().String("user", "", "GitHub username (default: github.user from config)")
	chartsCmd.Flags().Int("period-days", 365, "analysis window in days")
	chartsCmd.Flags().Float64("threshold", 0, "explicit session threshold in minutes (default: inferred)")
	chartsCmd.Flags().String("filter", "all", "commit filter: all, code, or docs")
	chartsCmd.Flags().String("out", "", "output file (default: gitrhythm-charts.html in the cache directory)")
	chartsCmd.Flags().Bool("no-open", false, "write the page without opening a browser")
}

func runCharts(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		path = filepath.Join(cfg.Cache.Directory, "gitrhythm-charts.html")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart page: %w", err)
	}
	if err := charts.WritePage(f, r.PeriodName, charts.All(r)); err != nil {
		f.Close()
		return fmt.Errorf("write chart page: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.WithField("path", path).Info("chart page written")

	if noOpen, _ := cmd.Flags().GetBool("no-open"); noOpen {
		return nil
	}
	if err := browser.OpenFile(path); err != nil {
		logger.WithError(err).Warn("failed to open browser")
	}
	return nil
}
