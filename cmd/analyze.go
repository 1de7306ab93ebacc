package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yates-Labs/crumbs/internal/chart"
	"github.com/Yates-Labs/crumbs/internal/orchestrator"
	"github.com/Yates-Labs/crumbs/internal/report"
	"github.com/Yates-Labs/crumbs/internal/ui"
	"github.com/spf13/cobra"
)

var analyzeOpts struct {
	output        string
	format        string
	skipSentiment bool
	filters       filterFlags
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repository]",
	Short: "Generate a full report for a repository",
	Long: `Analyze a Git repository (local path or remote URL) and write a report.

Formats:
- html: index.html with summary tables and charts.html with interactive charts (default ./report)
- png:  one image per chart (default ./charts)
- json: summary, statistics, chart data, sentiment and sessions (default ./report.json)

Examples:
  crumbs analyze .
  crumbs analyze /path/to/repo --since 2024-01-01 --author alice
  crumbs analyze https://github.com/user/repo --github --format json -o out.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeOpts.output, "output", "o", "", "Output directory or file path")
	analyzeCmd.Flags().StringVar(&analyzeOpts.format, "format", string(report.FormatHTML), "Output format: html, png or json")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.skipSentiment, "skip-sentiment", false, "Skip LLM sentiment analysis")
	analyzeOpts.filters.register(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	repo := args[0]
	out := cmd.OutOrStdout()

	format, err := report.ParseFormat(analyzeOpts.format)
	if err != nil {
		return err
	}

	result, err := collect(cmd, repo, &analyzeOpts.filters, analyzeOpts.skipSentiment)
	if err != nil || result == nil {
		return err
	}
	if len(result.Sentiment) > 0 {
		fmt.Fprintln(out, ui.Summary(fmt.Sprintf("Analyzed %d commits", len(result.Sentiment))))
	}

	rep := buildReport(repo, result)

	output := analyzeOpts.output
	if output == "" {
		output = defaultOutput(format)
	}

	switch format {
	case report.FormatHTML:
		index, err := rep.WriteHTML(output)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(out, "✓ Report written to %s\n", index)

	case report.FormatPNG:
		paths, failed, err := rep.ExportPNG(output)
		if err != nil {
			return fmt.Errorf("failed to export charts: %w", err)
		}
		for _, f := range failed {
			logger.WithField("chart", f.Figure).WithError(f.Err).Warn("chart not exported")
		}
		fmt.Fprintf(out, "✓ Exported %d charts to %s/\n", len(paths), output)
		if verbose {
			for _, p := range paths {
				fmt.Fprintf(out, "  - %s\n", filepath.Base(p))
			}
		}

	case report.FormatJSON:
		if err := writeJSON(rep, output); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ JSON written to %s\n", output)
	}

	return nil
}

func buildReport(repo string, result *orchestrator.Result) *report.Report {
	figures := chart.NewGenerator(result.Stats).All()
	if len(result.Sentiment) > 0 {
		figures = append(figures, chart.Sentiment(result.Sentiment))
	}

	rep := report.New(fmt.Sprintf("Git Analysis: %s", result.Name), result.Stats, figures)
	rep.RepoPath = repo
	rep.Branch = result.Branch
	rep.RemoteURL = result.RemoteURL
	rep.Commits = result.Commits
	rep.Sentiment = result.Sentiment
	rep.Sessions = result.Sessions
	rep.Quality = &result.Quality
	return rep
}

func defaultOutput(format report.Format) string {
	switch format {
	case report.FormatPNG:
		return "charts"
	case report.FormatJSON:
		return "report.json"
	default:
		return "./report"
	}
}

func writeJSON(rep *report.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := rep.WriteJSON(file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
