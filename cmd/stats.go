package cmd

import (
	"fmt"
	"sort"

	"github.com/Yates-Labs/crumbs/internal/report"
	"github.com/Yates-Labs/crumbs/internal/ui"
	"github.com/spf13/cobra"
)

var statsFilters filterFlags

var statsCmd = &cobra.Command{
	Use:   "stats [repository]",
	Short: "Quick summary statistics",
	Long: `Print headline statistics for a repository. With --verbose the commit
type and author breakdowns are printed as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsFilters.register(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	result, err := collect(cmd, args[0], &statsFilters, true)
	if err != nil || result == nil {
		return err
	}
	s := result.Stats
	out := cmd.OutOrStdout()

	rows := [][]string{
		{"Total Commits", formatInt(s.TotalCommits)},
		{"Lines Added", formatInt(s.TotalLinesAdded)},
		{"Lines Deleted", formatInt(s.TotalLinesDeleted)},
		{"Files Changed", formatInt(s.TotalFilesChanged)},
		{"Conventional Compliance", formatPercent(s.ConventionalCompliance())},
		{"Co-Authored", formatPercent(s.CoAuthoredPercentage())},
		{"Work Sessions", formatInt(s.WorkSessions)},
	}
	if dr := report.DateRange(s); dr != "" {
		rows = append(rows, []string{"Date Range", dr})
	}

	fmt.Fprint(out, ui.Table{
		Title:   fmt.Sprintf("Repository Stats: %s", result.Name),
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}.Render())

	if !verbose {
		return nil
	}

	if len(s.CommitsByType) > 0 {
		counts := make(map[string]int, len(s.CommitsByType))
		for t, n := range s.CommitsByType {
			counts[string(t)] = n
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, breakdown("Commits by Type", "Type", counts, s.TotalCommits).Render())
	}

	if len(s.CommitsByAuthor) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, breakdown("Commits by Author", "Author", s.CommitsByAuthor, s.TotalCommits).Render())
	}

	return nil
}

// breakdown lists counts in descending order with their share of total
func breakdown(title, label string, counts map[string]int, total int) ui.Table {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := make([][]string, len(keys))
	for i, k := range keys {
		share := 0.0
		if total > 0 {
			share = float64(counts[k]) / float64(total)
		}
		rows[i] = []string{k, formatInt(counts[k]), formatPercent(share)}
	}

	return ui.Table{
		Title:   title,
		Headers: []string{label, "Count", "Percentage"},
		Rows:    rows,
	}
}
