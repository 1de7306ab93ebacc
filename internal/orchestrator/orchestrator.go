// Package orchestrator runs the full analysis pipeline for one repository:
// collect commits, aggregate statistics, score messages and optionally
// classify sentiment.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Yates-Labs/crumbs/internal/adapter"
	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/github"
	"github.com/Yates-Labs/crumbs/internal/ingest/git"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
	"github.com/Yates-Labs/crumbs/internal/quality"
	"github.com/Yates-Labs/crumbs/internal/sentiment"
	"github.com/Yates-Labs/crumbs/internal/session"
	"github.com/Yates-Labs/crumbs/internal/stats"
	"github.com/sirupsen/logrus"
)

// ErrNoCommits is returned together with an empty Result when no commit
// matched the filter
var ErrNoCommits = errors.New("no commits found matching criteria")

// Options controls a single analysis run
type Options struct {
	Filter adapter.Filter

	// Use the GitHub API for github.com URLs instead of cloning
	UseGitHub bool

	SkipSentiment bool

	// nil uses config.Default()
	Config *config.Config

	// nil discards log output
	Logger *logrus.Logger

	// Overrides the configured OpenAI-compatible client
	LLM sentiment.LLM

	// Called with a short description when a stage starts
	Progress func(stage string)
}

// Result is everything the presentation layer needs
type Result struct {
	Name      string
	Platform  adapter.Platform
	Branch    string
	RemoteURL string
	Commits   []model.Commit
	Stats     *model.RepositoryStats
	Sessions  []session.Session
	Sentiment []model.SentimentResult
	Quality   quality.Summary
}

// AnalyzeRepository analyzes a repository given as a local path or a remote URL
func AnalyzeRepository(ctx context.Context, repo string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before analysis: %w", err)
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string) {}
	}

	progress("Opening repository...")
	src, err := newAdapter(repo, cfg, opts.UseGitHub)
	if err != nil {
		return nil, err
	}
	log := logger.WithFields(logrus.Fields{
		"repo":     src.Name(),
		"platform": src.GetPlatform(),
	})

	progress("Fetching commits...")
	commits, err := src.FetchCommits(ctx, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to collect commits: %w", err)
	}
	log.WithField("commits", len(commits)).Debug("commits collected")

	origin := src.Origin()
	if opts.Filter.Branch != "" {
		origin.Branch = opts.Filter.Branch
	}

	result := &Result{
		Name:      src.Name(),
		Platform:  src.GetPlatform(),
		Branch:    origin.Branch,
		RemoteURL: origin.RemoteURL,
		Commits:   commits,
		Sentiment: []model.SentimentResult{},
	}
	if len(commits) == 0 {
		result.Stats = model.NewRepositoryStats()
		result.Sessions = []session.Session{}
		return result, ErrNoCommits
	}

	progress("Calculating statistics...")
	calc := stats.NewCalculator(commits, cfg.Analysis)
	result.Stats = calc.Calculate()
	result.Sessions = calc.Sessions()
	result.Quality = quality.NewAnalyzer(cfg.Analysis.ConventionalTypes).AnalyzeCommits(commits)

	if opts.SkipSentiment {
		return result, nil
	}

	analyzer, err := newSentimentAnalyzer(cfg.Sentiment, opts.LLM, logger)
	if err != nil {
		return nil, err
	}
	if !analyzer.Available() {
		log.Info("no LLM API key configured, skipping sentiment analysis")
		return result, nil
	}

	progress("Analyzing sentiment...")
	result.Sentiment = analyzer.AnalyzeCommits(ctx, commits)
	log.WithField("results", len(result.Sentiment)).Debug("sentiment analysis complete")

	return result, nil
}

// newAdapter picks the commit source for repo. github.com URLs use the API
// when useGitHub is set; other remote URLs are cloned into memory.
func newAdapter(repo string, cfg config.Config, useGitHub bool) (adapter.Adapter, error) {
	p := parser.New(cfg.Analysis.ConventionalTypes)
	platform, owner, name := detectPlatform(repo)

	if platform == adapter.PlatformGitHub && useGitHub {
		client := github.New(github.NewClient(cfg.GitHub.Token), cfg.GitHub, p)
		return adapter.NewGitHubAdapter(client, owner, name), nil
	}

	if !isRemoteURL(repo) {
		return adapter.NewGitAdapter(repo, p)
	}

	gitRepo, err := git.CloneRepository(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to open or clone repository '%s': %w", repo, err)
	}
	return adapter.NewGitAdapterFromRepository(gitRepo, name, p), nil
}

func newSentimentAnalyzer(cfg config.SentimentConfig, llm sentiment.LLM, logger *logrus.Logger) (*sentiment.Analyzer, error) {
	if llm != nil {
		return sentiment.NewAnalyzer(llm, cfg, logger), nil
	}
	analyzer, err := sentiment.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure sentiment analysis: %w", err)
	}
	return analyzer, nil
}
