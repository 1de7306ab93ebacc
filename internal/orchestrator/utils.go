package orchestrator

import (
	"strings"

	"github.com/Yates-Labs/crumbs/internal/adapter"
	"github.com/Yates-Labs/crumbs/internal/github"
	"github.com/Yates-Labs/crumbs/internal/ingest/git"
)

// detectPlatform detects the source platform from a repository location
// Returns platform, owner, and repo name
func detectPlatform(repo string) (adapter.Platform, string, string) {
	if github.IsGitHubURL(repo) {
		if owner, name, err := github.ParseRepoURL(repo); err == nil {
			return adapter.PlatformGitHub, owner, name
		}
	}

	// ? We would add support for other hosted platforms here.

	// Default to Git for local paths or unknown URLs
	return adapter.PlatformGit, "", git.RepositoryName(repo)
}

// isRemoteURL reports whether repo should be cloned rather than opened
func isRemoteURL(repo string) bool {
	return strings.Contains(repo, "://") || strings.HasPrefix(repo, "git@")
}
