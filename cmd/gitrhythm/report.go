package main

import (
	"fmt"
	"os"

	"github.com/avandyck/gitrhythm/internal/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the analysis as a Markdown report",
	Long: `Run the analysis and render it as Markdown tables, to stdout or a file.

Examples:
  gitrhythm report --user octocat
  gitrhythm report --user octocat --out rhythm.md`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("user", "", "GitHub username (default: github.user from config)")
	reportCmd.Flags().Int("period-days", 365, "analysis window in days")
	reportCmd.Flags().Float64("threshold", 0, "explicit session threshold in minutes (default: inferred)")
	reportCmd.Flags().String("filter", "all", "commit filter: all, code, or docs")
	reportCmd.Flags().String("out", "", "output file (default: stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return report.WriteMarkdown(out, r)
}
