package adapter

import (
	"context"
	"fmt"

	"github.com/Yates-Labs/crumbs/internal/ingest/git"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
	gogit "github.com/go-git/go-git/v6"
)

// GitAdapter implements the Adapter interface for repositories read with go-git
type GitAdapter struct {
	repo   *gogit.Repository
	name   string
	parser *parser.Parser
}

// NewGitAdapter opens the repository at path. A nil parser uses the standard
// conventional types.
func NewGitAdapter(path string, p *parser.Parser) (*GitAdapter, error) {
	repo, err := git.OpenRepository(path)
	if err != nil {
		return nil, err
	}
	return NewGitAdapterFromRepository(repo, git.RepositoryName(path), p), nil
}

// NewGitAdapterFromRepository wraps an already opened or cloned repository
func NewGitAdapterFromRepository(repo *gogit.Repository, name string, p *parser.Parser) *GitAdapter {
	if p == nil {
		p = parser.Default()
	}
	return &GitAdapter{repo: repo, name: name, parser: p}
}

// GetPlatform returns the git platform identifier
func (a *GitAdapter) GetPlatform() Platform {
	return PlatformGit
}

// Name returns the repository display name
func (a *GitAdapter) Name() string {
	return a.name
}

// Origin reports the checked-out branch and the "origin" remote URL
func (a *GitAdapter) Origin() Origin {
	return Origin{
		Branch:    git.ActiveBranch(a.repo),
		RemoteURL: git.RemoteURL(a.repo, "origin"),
	}
}

// FetchCommits walks the repository history. The walk itself is not
// interruptible; the context is checked before it starts.
func (a *GitAdapter) FetchCommits(ctx context.Context, filter Filter) ([]model.Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	commits, err := git.ParseCommits(a.repo, git.Filter{
		Since:      filter.Since,
		Until:      filter.Until,
		Author:     filter.Author,
		Branch:     filter.Branch,
		MaxCommits: filter.MaxCommits,
	}, a.parser)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.name, err)
	}
	return commits, nil
}
