package cmd

import (
	"fmt"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/quality"
	"github.com/Yates-Labs/crumbs/internal/ui"
	"github.com/spf13/cobra"
)

const (
	nonConventionalLimit = 10
	subjectWidth         = 60
)

var qualityFilters filterFlags

var qualityCmd = &cobra.Command{
	Use:   "quality [repository]",
	Short: "Commit message quality check",
	Long: `Grade a repository's commit messages by conventional commit compliance and
report co-authoring, commit type variety and the mean lexical message score.
With --verbose the first non-conventional commits are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuality,
}

func init() {
	rootCmd.AddCommand(qualityCmd)
	qualityFilters.register(qualityCmd)
}

func runQuality(cmd *cobra.Command, args []string) error {
	result, err := collect(cmd, args[0], &qualityFilters, true)
	if err != nil || result == nil {
		return err
	}
	s := result.Stats
	out := cmd.OutOrStdout()

	compliance := s.ConventionalCompliance()
	coAuthored := s.CoAuthoredPercentage()
	typesUsed := len(s.CommitsByType)

	rows := [][]string{
		{
			"Conventional Commits",
			fmt.Sprintf("%d/%d (%s)", s.ConventionalCount, s.TotalCommits, formatPercent(compliance)),
			status(compliance >= 0.75, "Good", "Needs work"),
		},
		{
			"Co-Authored Commits",
			fmt.Sprintf("%d/%d (%s)", s.CoAuthoredCount, s.TotalCommits, formatPercent(coAuthored)),
			status(coAuthored >= 0.5, "Good", "Low collaboration"),
		},
		{
			"Commit Types Used",
			fmt.Sprintf("%d", typesUsed),
			status(typesUsed >= 3, "Good variety", "Limited"),
		},
		{
			"Message Quality",
			fmt.Sprintf("%.2f", result.Quality.AvgOverall),
			status(result.Quality.AvgOverall >= 0.6, "Good", "Vague messages"),
		},
	}

	fmt.Fprint(out, ui.Table{
		Title:   fmt.Sprintf("Commit Quality Report: %s", result.Name),
		Headers: []string{"Metric", "Value", "Status"},
		Rows:    rows,
	}.Render())

	fmt.Fprintf(out, "\nOverall Grade: %s\n", ui.Grade(quality.Grade(compliance)))

	if !verbose {
		return nil
	}

	all := quality.NonConventional(result.Commits, 0)
	if len(all) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\nNon-conventional commits (%d):\n", len(all))
	for _, c := range all[:min(len(all), nonConventionalLimit)] {
		fmt.Fprintf(out, "  %s: %s\n", c.ShortSHA(), truncate(c.FirstLine(), subjectWidth))
	}
	if len(all) > nonConventionalLimit {
		fmt.Fprintf(out, "  ... and %d more\n", len(all)-nonConventionalLimit)
	}
	return nil
}

func status(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
