// Package report renders analysis results as an HTML report, PNG charts or
// a JSON document.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/chart"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/quality"
	"github.com/Yates-Labs/crumbs/internal/session"
)

// DefaultTitle is used when a report has no explicit title
const DefaultTitle = "Git Commit Analysis Report"

// Report bundles everything rendered into one output
type Report struct {
	Title    string
	RepoPath string

	// Empty when unknown
	Branch    string
	RemoteURL string

	Stats     *model.RepositoryStats
	Figures   []chart.Figure
	Commits   []model.Commit
	Sentiment []model.SentimentResult
	Sessions  []session.Session
	Quality   *quality.Summary
}

// Row is one key/value line of the summary table
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// New creates a report over the given figures
func New(title string, stats *model.RepositoryStats, figures []chart.Figure) *Report {
	return &Report{Title: title, Stats: stats, Figures: figures}
}

// DisplayTitle returns the title or DefaultTitle
func (r *Report) DisplayTitle() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

// Summary returns the headline numbers in display order. It is empty when
// the report carries no stats.
func (r *Report) Summary() []Row {
	s := r.Stats
	if s == nil {
		return []Row{}
	}

	rows := []Row{
		{"Total Commits", strconv.Itoa(s.TotalCommits)},
		{"Lines Added", strconv.Itoa(s.TotalLinesAdded)},
		{"Lines Deleted", strconv.Itoa(s.TotalLinesDeleted)},
		{"Files Changed", strconv.Itoa(s.TotalFilesChanged)},
		{"Conventional Compliance", Percent(s.ConventionalCompliance())},
		{"Co-Authored", Percent(s.CoAuthoredPercentage())},
		{"Work Sessions", strconv.Itoa(s.WorkSessions)},
		{"Avg Interval", fmt.Sprintf("%.1f hours", s.AvgCommitIntervalHours)},
	}
	if r.Branch != "" {
		rows = append(rows, Row{"Branch", r.Branch})
	}
	if r.RemoteURL != "" {
		rows = append(rows, Row{"Remote", r.RemoteURL})
	}
	if dr := DateRange(s); dr != "" {
		rows = append(rows, Row{"Date Range", dr})
	}
	if len(s.PhasesDetected) > 0 {
		phases := make([]string, len(s.PhasesDetected))
		for i, p := range s.PhasesDetected {
			phases[i] = strconv.Itoa(p)
		}
		rows = append(rows, Row{"Phases Detected", strings.Join(phases, ", ")})
	}
	return rows
}

// SummaryValue looks up a summary row by key
func (r *Report) SummaryValue(key string) (string, bool) {
	for _, row := range r.Summary() {
		if row.Key == key {
			return row.Value, true
		}
	}
	return "", false
}

// Percent formats a fraction as a whole percentage, e.g. 0.75 -> "75%"
func Percent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

// DateRange formats the first and last commit dates, or "" when unknown
func DateRange(s *model.RepositoryStats) string {
	if s == nil || s.FirstCommitDate == nil || s.LastCommitDate == nil {
		return ""
	}
	return fmt.Sprintf("%s to %s", s.FirstCommitDate.Format("2006-01-02"), s.LastCommitDate.Format("2006-01-02"))
}
