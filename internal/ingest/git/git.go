// Package git reads commit history from local or cloned repositories with
// go-git and converts it into model commits.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/memory"
)

var (
	ErrNotRepository = errors.New("not a git repository")
	ErrNoHead        = errors.New("repository has no commits")

	errMaxCommits = errors.New("max commits reached")
)

// Filter restricts which commits are collected
type Filter struct {
	// Inclusive bounds on the committer timestamp
	Since *time.Time
	Until *time.Time

	// Case-insensitive substring of the author name or email
	Author string

	// Branch or revision to walk instead of HEAD
	Branch string

	// 0 for unlimited
	MaxCommits int
}

// Matches reports whether a commit with the given metadata passes the filter
func (f Filter) Matches(when time.Time, name, email string) bool {
	if f.Since != nil && when.Before(*f.Since) {
		return false
	}
	if f.Until != nil && when.After(*f.Until) {
		return false
	}
	if f.Author != "" {
		needle := strings.ToLower(f.Author)
		if !strings.Contains(strings.ToLower(name), needle) && !strings.Contains(strings.ToLower(email), needle) {
			return false
		}
	}
	return true
}

// OpenRepository opens a Git repository from a local path
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return repo, nil
}

// CloneRepository clones a Git repository to memory
func CloneRepository(url string) (*git.Repository, error) {
	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return repo, nil
}

// RepositoryName derives a display name from a local path or remote URL
func RepositoryName(location string) string {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		location = u.Path
	} else if i := strings.Index(location, ":"); i > 0 && strings.Contains(location[:i], "@") {
		// scp-style git@host:owner/repo.git
		location = location[i+1:]
	} else if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}

	location = strings.TrimRight(filepath.ToSlash(location), "/")
	name := location[strings.LastIndex(location, "/")+1:]
	return strings.TrimSuffix(name, ".git")
}

// ActiveBranch returns the short name of the checked-out branch, or "" when
// HEAD is detached or unborn.
func ActiveBranch(repo *git.Repository) string {
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

// RemoteURL returns the first configured URL of the named remote, or "" when
// the remote is missing.
func RemoteURL(repo *git.Repository, name string) string {
	remote, err := repo.Remote(name)
	if err != nil {
		return ""
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// ParseCommitStats measures a commit against its first parent. The root
// commit counts every line of every file as added. Errors degrade to zero stats.
func ParseCommitStats(commit *object.Commit) model.CommitStats {
	if commit.NumParents() == 0 {
		stats, err := rootCommitStats(commit)
		if err != nil {
			return model.CommitStats{}
		}
		return stats
	}

	fileStats, err := commit.Stats()
	if err != nil {
		return model.CommitStats{}
	}

	stats := model.CommitStats{FilesChanged: len(fileStats)}
	for _, fs := range fileStats {
		stats.LinesAdded += fs.Addition
		stats.LinesDeleted += fs.Deletion
	}
	return stats
}

func rootCommitStats(commit *object.Commit) (model.CommitStats, error) {
	tree, err := commit.Tree()
	if err != nil {
		return model.CommitStats{}, fmt.Errorf("failed to get tree: %w", err)
	}

	var stats model.CommitStats
	err = tree.Files().ForEach(func(file *object.File) error {
		stats.FilesChanged++
		if isBinary, _ := file.IsBinary(); isBinary {
			return nil
		}
		content, err := file.Contents()
		if err != nil {
			return nil
		}
		stats.LinesAdded += countLines(content)
		return nil
	})
	return stats, err
}

// countLines counts newline-separated lines, ignoring a trailing newline
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// ParseCommit converts a go-git commit into a model commit with parsed
// message fields and a UTC timestamp.
func ParseCommit(commit *object.Commit, p *parser.Parser) model.Commit {
	c := model.Commit{
		SHA:         commit.Hash.String(),
		Message:     commit.Message,
		Author:      commit.Author.Name,
		AuthorEmail: commit.Author.Email,
		Timestamp:   commit.Committer.When.UTC(),
		Stats:       ParseCommitStats(commit),
	}
	p.Apply(&c)
	return c
}

// ParseCommits walks history from HEAD (or filter.Branch) newest first and
// returns the commits that pass the filter.
func ParseCommits(repo *git.Repository, filter Filter, p *parser.Parser) ([]model.Commit, error) {
	from, err := resolveStart(repo, filter.Branch)
	if err != nil {
		return nil, err
	}

	commitIter, err := repo.Log(&git.LogOptions{
		From: from,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	defer commitIter.Close()

	commits := make([]model.Commit, 0)

	err = commitIter.ForEach(func(c *object.Commit) error {
		if filter.MaxCommits > 0 && len(commits) >= filter.MaxCommits {
			return errMaxCommits
		}
		if !filter.Matches(c.Committer.When, c.Author.Name, c.Author.Email) {
			return nil
		}
		commits = append(commits, ParseCommit(c, p))
		return nil
	})

	if err != nil && !errors.Is(err, errMaxCommits) {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}

func resolveStart(repo *git.Repository, branch string) (plumbing.Hash, error) {
	if branch == "" {
		ref, err := repo.Head()
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, ErrNoHead
		}
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to get HEAD: %w", err)
		}
		return ref.Hash(), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %q: %w", branch, err)
	}
	return *hash, nil
}
