package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/Yates-Labs/crumbs/internal/adapter"
	"github.com/Yates-Labs/crumbs/internal/orchestrator"
	"github.com/Yates-Labs/crumbs/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const noCommitsMessage = "No commits found matching criteria."

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05"}

var printer = message.NewPrinter(language.English)

// filterFlags are the commit selection flags shared by every command
type filterFlags struct {
	since      string
	until      string
	author     string
	branch     string
	maxCommits int
	github     bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.since, "since", "", "Only commits after this date (YYYY-MM-DD)")
	flags.StringVar(&f.until, "until", "", "Only commits before this date (YYYY-MM-DD)")
	flags.StringVar(&f.author, "author", "", "Filter by author name or email")
	flags.StringVar(&f.branch, "branch", "", "Branch or revision to read instead of HEAD")
	flags.IntVar(&f.maxCommits, "max-commits", 0, "Stop after this many commits (0 for all)")
	flags.BoolVar(&f.github, "github", false, "Read github.com repositories through the GitHub API instead of cloning")
}

func (f *filterFlags) filter() (adapter.Filter, error) {
	since, err := parseDate(f.since)
	if err != nil {
		return adapter.Filter{}, err
	}
	until, err := parseDate(f.until)
	if err != nil {
		return adapter.Filter{}, err
	}
	if since != nil && until != nil && until.Before(*since) {
		return adapter.Filter{}, fmt.Errorf("--until %s is before --since %s", f.until, f.since)
	}
	if f.maxCommits < 0 {
		return adapter.Filter{}, fmt.Errorf("--max-commits must not be negative")
	}
	return adapter.Filter{
		Since:      since,
		Until:      until,
		Author:     f.author,
		Branch:     f.branch,
		MaxCommits: f.maxCommits,
	}, nil
}

// parseDate accepts YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS, interpreted as UTC
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date format: %s. Use YYYY-MM-DD", s)
}

// collect runs the analysis pipeline behind a spinner. It returns a nil
// result and no error when nothing matched, after telling the user.
func collect(cmd *cobra.Command, repo string, flags *filterFlags, skipSentiment bool) (*orchestrator.Result, error) {
	filter, err := flags.filter()
	if err != nil {
		return nil, err
	}

	sp := ui.NewSpinner("Opening repository...")
	sp.Start()
	result, err := orchestrator.AnalyzeRepository(cmd.Context(), repo, orchestrator.Options{
		Filter:        filter,
		UseGitHub:     flags.github,
		SkipSentiment: skipSentiment,
		Config:        &cfg,
		Logger:        logger,
		Progress:      sp.UpdateMessage,
	})
	sp.Stop()

	if errors.Is(err, orchestrator.ErrNoCommits) {
		fmt.Fprintln(cmd.OutOrStdout(), noCommitsMessage)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

func formatInt(n int) string {
	return printer.Sprintf("%d", n)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
