// Package github collects commit history from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
	"github.com/google/go-github/v77/github"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidRepository = errors.New("invalid GitHub repository")
)

// CommitFilter restricts which commits are collected
type CommitFilter struct {
	Since *time.Time
	Until *time.Time

	// Case-insensitive substring of the author name, email or login
	Author string

	// Branch or sha to list from; empty means the default branch
	Branch string

	// 0 for unlimited
	MaxCommits int
}

// Client lists commits with request pacing and bounded fan-out
type Client struct {
	gh         *github.Client
	limiter    *rate.Limiter
	maxWorkers int
	parser     *parser.Parser
}

// NewClient creates a GitHub API client with authentication
// token: GitHub personal access token, empty for anonymous access
func NewClient(token string) *github.Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// New wraps an API client. A nil parser uses the standard conventional types.
func New(gh *github.Client, cfg config.GitHubConfig, p *parser.Parser) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = config.DefaultGitHubRPS
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = config.DefaultGitHubWorker
	}
	if p == nil {
		p = parser.Default()
	}
	return &Client{
		gh:         gh,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(max(1, rps))),
		maxWorkers: workers,
		parser:     p,
	}
}

// FetchCommits lists commits newest first, then fetches each one for line
// stats. The listing is paged; the detail requests run concurrently.
func (c *Client) FetchCommits(ctx context.Context, owner, repo string, filter CommitFilter) ([]model.Commit, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("%w: owner and repo are required", ErrInvalidRepository)
	}

	listed, err := c.listCommits(ctx, owner, repo, filter)
	if err != nil {
		return nil, err
	}

	commits := make([]model.Commit, len(listed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	for i, rc := range listed {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			full, err := c.getCommit(gctx, owner, repo, rc.GetSHA())
			if err != nil {
				return err
			}
			commits[i] = c.ParseCommit(full)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

// getCommit fetches one commit and pages through its file list, which the API
// splits at 300 entries per page and caps at 3000 files in total.
func (c *Client) getCommit(ctx context.Context, owner, repo, sha string) (*github.RepositoryCommit, error) {
	opts := &github.ListOptions{PerPage: 300}
	var full *github.RepositoryCommit

	for {
		page, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, opts)
		if err != nil {
			return nil, handleAPIError(err, fmt.Sprintf("failed to get commit %s", sha))
		}
		if full == nil {
			full = page
		} else {
			full.Files = append(full.Files, page.Files...)
		}

		if resp == nil || resp.NextPage == 0 {
			return full, nil
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) listCommits(ctx context.Context, owner, repo string, filter CommitFilter) ([]*github.RepositoryCommit, error) {
	opts := &github.CommitsListOptions{
		SHA:         filter.Branch,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	if filter.Since != nil {
		opts.Since = *filter.Since
	}
	if filter.Until != nil {
		opts.Until = *filter.Until
	}

	var all []*github.RepositoryCommit
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, handleAPIError(err, "failed to list commits")
		}

		for _, rc := range page {
			if rc == nil || !matchesAuthor(rc, filter.Author) {
				continue
			}
			all = append(all, rc)
			if filter.MaxCommits > 0 && len(all) >= filter.MaxCommits {
				return all, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func matchesAuthor(rc *github.RepositoryCommit, author string) bool {
	if author == "" {
		return true
	}
	needle := strings.ToLower(author)
	for _, candidate := range []string{
		rc.GetCommit().GetAuthor().GetName(),
		rc.GetCommit().GetAuthor().GetEmail(),
		rc.GetAuthor().GetLogin(),
	} {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return true
		}
	}
	return false
}

// ParseCommit converts a go-github commit into a model commit. FilesChanged
// counts rc.Files, so it is exact only when the whole file list was fetched.
func (c *Client) ParseCommit(rc *github.RepositoryCommit) model.Commit {
	gc := rc.GetCommit()

	commit := model.Commit{
		SHA:         rc.GetSHA(),
		Message:     gc.GetMessage(),
		Author:      gc.GetAuthor().GetName(),
		AuthorEmail: gc.GetAuthor().GetEmail(),
		Timestamp:   gc.GetCommitter().GetDate().Time.UTC(),
		Stats: model.CommitStats{
			LinesAdded:   rc.GetStats().GetAdditions(),
			LinesDeleted: rc.GetStats().GetDeletions(),
			FilesChanged: len(rc.Files),
		},
	}
	c.parser.Apply(&commit)
	return commit
}

// ParseRepoURL extracts owner and repository from a github.com URL or an
// "owner/repo" shorthand.
func ParseRepoURL(url string) (owner, repo string, err error) {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "git@")

	// Replace colon with slash for SSH URLs
	url = strings.Replace(url, ":", "/", 1)
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimPrefix(url, "github.com/")
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")

	parts := strings.Split(url, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, url)
	}
	return parts[0], parts[1], nil
}

// IsGitHubURL reports whether the location points at github.com
func IsGitHubURL(location string) bool {
	return strings.Contains(location, "github.com/") || strings.Contains(location, "github.com:")
}

func handleAPIError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: hit primary rate limit (used %d of %d, resets at %v): %w",
			msg, rateLimitErr.Rate.Used, rateLimitErr.Rate.Limit, rateLimitErr.Rate.Reset.Time, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := abuseErr.GetRetryAfter()
		return fmt.Errorf("%s: hit secondary rate limit (retry after %v): %w",
			msg, retryAfter, err)
	}

	return fmt.Errorf("%s: %w", msg, err)
}
