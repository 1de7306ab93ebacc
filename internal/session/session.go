// Package session splits a chronological commit sequence into work sessions
// separated by idle gaps.
package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
)

// DefaultGap is the idle time after which a new session starts
const DefaultGap = 2 * time.Hour

// Session is a run of commits with no gap longer than the threshold
type Session struct {
	ID      string         `json:"id"`
	Commits []model.Commit `json:"-"`
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
}

// Duration returns the time between the first and last commit
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Size returns the number of commits in the session
func (s Session) Size() int {
	return len(s.Commits)
}

// Authors returns the distinct author names in first-seen order
func (s Session) Authors() []string {
	seen := make(map[string]bool)
	var authors []string
	for _, c := range s.Commits {
		if !seen[c.Author] {
			seen[c.Author] = true
			authors = append(authors, c.Author)
		}
	}
	return authors
}

// Detect groups commits that are already sorted oldest first.
// A gap strictly longer than gap starts a new session.
func Detect(commits []model.Commit, gap time.Duration) []Session {
	if len(commits) == 0 {
		return []Session{}
	}

	var sessions []Session
	current := Session{Commits: []model.Commit{commits[0]}, Start: commits[0].Timestamp}

	for i := 1; i < len(commits); i++ {
		if commits[i].Timestamp.Sub(commits[i-1].Timestamp) > gap {
			sessions = append(sessions, finalize(current, commits[i-1], len(sessions)))
			current = Session{Commits: []model.Commit{commits[i]}, Start: commits[i].Timestamp}
			continue
		}
		current.Commits = append(current.Commits, commits[i])
	}

	return append(sessions, finalize(current, commits[len(commits)-1], len(sessions)))
}

// SortByTime sorts commits chronologically (oldest first), keeping the
// original order for equal timestamps.
func SortByTime(commits []model.Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.Before(commits[j].Timestamp)
	})
}

func finalize(s Session, last model.Commit, index int) Session {
	s.ID = fmt.Sprintf("S%d", index+1)
	s.End = last.Timestamp
	return s
}
