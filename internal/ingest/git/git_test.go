package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
)

var baseTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo}
}

// commit writes the given files and commits them as author at when
func (r *testRepo) commit(message, author string, when time.Time, files map[string]string) plumbing.Hash {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to get worktree: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(r.dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			r.t.Fatalf("failed to write %s: %v", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			r.t.Fatalf("failed to add %s: %v", name, err)
		}
	}
	sig := &object.Signature{Name: author, Email: author + "@example.com", When: when}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

func seedHistory(t *testing.T) *testRepo {
	r := newTestRepo(t)
	r.commit("chore: initial commit", "alice", baseTime, map[string]string{
		"main.go":   "package main\n\nfunc main() {}\n",
		"README.md": "# demo\nline two",
	})
	r.commit("feat(api): Phase 1 add handler\n\nCo-Authored-By: Bob <bob@example.com>", "bob", baseTime.Add(time.Hour), map[string]string{
		"handler.go": "package main\n\nfunc handler() {}\n",
	})
	r.commit("quick fix", "alice", baseTime.Add(5*time.Hour), map[string]string{
		"main.go": "package main\n\nfunc main() { handler() }\n",
	})
	return r
}

func TestOpenRepository(t *testing.T) {
	r := seedHistory(t)

	repo, err := OpenRepository(r.dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo == nil {
		t.Fatal("repository is nil")
	}
}

func TestOpenRepository_NotARepository(t *testing.T) {
	_, err := OpenRepository(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestParseCommits(t *testing.T) {
	r := seedHistory(t)

	commits, err := ParseCommits(r.repo, Filter{}, parser.Default())
	if err != nil {
		t.Fatalf("failed to parse commits: %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(commits))
	}

	// newest first
	latest, middle, root := commits[0], commits[1], commits[2]

	if latest.Message != "quick fix" || latest.IsConventional || latest.CommitType() != model.TypeUnknown {
		t.Errorf("unexpected latest commit %+v", latest)
	}
	if latest.Stats.LinesAdded != 1 || latest.Stats.LinesDeleted != 1 || latest.Stats.FilesChanged != 1 {
		t.Errorf("unexpected latest stats %+v", latest.Stats)
	}

	if middle.Type != model.TypeFeat || middle.Scope == nil || *middle.Scope != "api" {
		t.Errorf("unexpected middle classification %+v", middle)
	}
	if middle.Phase == nil || *middle.Phase != 1 {
		t.Errorf("expected phase 1, got %v", middle.Phase)
	}
	if len(middle.CoAuthors) != 1 {
		t.Errorf("expected one co-author, got %v", middle.CoAuthors)
	}
	if middle.Author != "bob" || middle.AuthorEmail != "bob@example.com" {
		t.Errorf("unexpected author %s <%s>", middle.Author, middle.AuthorEmail)
	}

	// root commit counts every line as added: 3 in main.go, 2 in README.md
	if root.Stats.LinesAdded != 5 || root.Stats.LinesDeleted != 0 || root.Stats.FilesChanged != 2 {
		t.Errorf("unexpected root stats %+v", root.Stats)
	}

	for i, c := range commits {
		if len(c.SHA) != 40 {
			t.Errorf("commit %d has invalid sha %q", i, c.SHA)
		}
		if c.Timestamp.Location() != time.UTC {
			t.Errorf("commit %d timestamp not in UTC", i)
		}
	}
	if !root.Timestamp.Equal(baseTime) {
		t.Errorf("unexpected root timestamp %v", root.Timestamp)
	}
}

func TestParseCommits_Filters(t *testing.T) {
	r := seedHistory(t)
	p := parser.Default()

	since := baseTime.Add(30 * time.Minute)
	until := baseTime.Add(2 * time.Hour)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"since", Filter{Since: &since}, 2},
		{"until", Filter{Until: &until}, 2},
		{"window", Filter{Since: &since, Until: &until}, 1},
		{"author name", Filter{Author: "ALICE"}, 2},
		{"author email", Filter{Author: "bob@example"}, 1},
		{"no match", Filter{Author: "carol"}, 0},
		{"max commits", Filter{MaxCommits: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits, err := ParseCommits(r.repo, tt.filter, p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(commits) != tt.want {
				t.Errorf("expected %d commits, got %d", tt.want, len(commits))
			}
		})
	}
}

func TestParseCommits_Branch(t *testing.T) {
	r := seedHistory(t)

	if _, err := ParseCommits(r.repo, Filter{Branch: "does-not-exist"}, parser.Default()); err == nil {
		t.Error("expected error for unknown branch")
	}

	branch := ActiveBranch(r.repo)
	if branch == "" {
		t.Fatal("expected an active branch")
	}
	commits, err := ParseCommits(r.repo, Filter{Branch: branch}, parser.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commits) != 3 {
		t.Errorf("expected 3 commits on %s, got %d", branch, len(commits))
	}
}

func TestParseCommits_EmptyRepository(t *testing.T) {
	r := newTestRepo(t)

	_, err := ParseCommits(r.repo, Filter{}, parser.Default())
	if !errors.Is(err, ErrNoHead) {
		t.Errorf("expected ErrNoHead, got %v", err)
	}
}

func TestRepositoryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/Yates-Labs/crumbs.git", "crumbs"},
		{"https://github.com/Yates-Labs/crumbs/", "crumbs"},
		{"git@github.com:Yates-Labs/crumbs.git", "crumbs"},
		{"/tmp/projects/crumbs", "crumbs"},
	}

	for _, tt := range tests {
		if got := RepositoryName(tt.in); got != tt.want {
			t.Errorf("RepositoryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountLines(t *testing.T) {
	tests := map[string]int{
		"":       0,
		"a":      1,
		"a\n":    1,
		"a\nb":   2,
		"a\nb\n": 2,
		"\n\n":   2,
	}
	for in, want := range tests {
		if got := countLines(in); got != want {
			t.Errorf("countLines(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestRemoteURL(t *testing.T) {
	r := seedHistory(t)

	if got := RemoteURL(r.repo, "origin"); got != "" {
		t.Errorf("expected empty URL without remote, got %q", got)
	}

	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/widgets.git", "git@github.com:acme/widgets.git"},
	})
	if err != nil {
		t.Fatalf("failed to create remote: %v", err)
	}
	if got := RemoteURL(r.repo, "origin"); got != "https://github.com/acme/widgets.git" {
		t.Errorf("unexpected origin URL %q", got)
	}
}
