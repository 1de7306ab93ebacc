package adapter

import (
	"context"
	"fmt"

	"github.com/Yates-Labs/crumbs/internal/github"
	"github.com/Yates-Labs/crumbs/internal/model"
)

// GitHubAdapter implements the Adapter interface for GitHub
type GitHubAdapter struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubAdapter creates a new GitHub adapter for owner/repo
func NewGitHubAdapter(client *github.Client, owner, repo string) *GitHubAdapter {
	return &GitHubAdapter{client: client, owner: owner, repo: repo}
}

// GetPlatform returns the GitHub platform identifier
func (a *GitHubAdapter) GetPlatform() Platform {
	return PlatformGitHub
}

// Name returns the repository name without the owner
func (a *GitHubAdapter) Name() string {
	return a.repo
}

// Origin reports the repository URL. The API lists the default branch
// unless a filter names another, so Branch stays empty.
func (a *GitHubAdapter) Origin() Origin {
	return Origin{RemoteURL: fmt.Sprintf("https://github.com/%s/%s", a.owner, a.repo)}
}

// FetchCommits lists commits through the GitHub API
func (a *GitHubAdapter) FetchCommits(ctx context.Context, filter Filter) ([]model.Commit, error) {
	commits, err := a.client.FetchCommits(ctx, a.owner, a.repo, github.CommitFilter{
		Since:      filter.Since,
		Until:      filter.Until,
		Author:     filter.Author,
		Branch:     filter.Branch,
		MaxCommits: filter.MaxCommits,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits for %s/%s: %w", a.owner, a.repo, err)
	}
	return commits, nil
}
