// Package stats aggregates a commit set into a single RepositoryStats snapshot.
package stats

import (
	"sort"
	"sync"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/session"
)

const dayLayout = "2006-01-02"

// Calculator computes repository statistics once and caches the result.
// It is safe for concurrent use.
type Calculator struct {
	commits []model.Commit
	cfg     config.AnalysisConfig

	once     sync.Once
	stats    *model.RepositoryStats
	sessions []session.Session
}

// NewCalculator snapshots the commits; later changes to the caller's slice
// are not observed.
func NewCalculator(commits []model.Commit, cfg config.AnalysisConfig) *Calculator {
	snapshot := make([]model.Commit, len(commits))
	copy(snapshot, commits)
	return &Calculator{commits: snapshot, cfg: cfg}
}

// Calculate returns the aggregate statistics. Every call returns the same
// pointer; callers must treat it as read-only.
func (c *Calculator) Calculate() *model.RepositoryStats {
	c.once.Do(c.compute)
	return c.stats
}

// Sessions returns the work sessions found while calculating
func (c *Calculator) Sessions() []session.Session {
	c.once.Do(c.compute)
	return c.sessions
}

// TotalCommits returns the number of commits in the snapshot
func (c *Calculator) TotalCommits() int {
	return c.Calculate().TotalCommits
}

// ConventionalCompliance returns the fraction of conventional commits
func (c *Calculator) ConventionalCompliance() float64 {
	return c.Calculate().ConventionalCompliance()
}

func (c *Calculator) compute() {
	stats := model.NewRepositoryStats()
	c.sessions = []session.Session{}
	c.stats = stats

	if len(c.commits) == 0 {
		return
	}

	commits := make([]model.Commit, len(c.commits))
	copy(commits, c.commits)
	session.SortByTime(commits)

	phases := make(map[int]bool)
	for _, commit := range commits {
		ts := commit.Timestamp.UTC()

		stats.CommitsByType[commit.CommitType()]++
		stats.CommitsByAuthor[commit.Author]++
		stats.CommitsByDay[ts.Format(dayLayout)]++
		stats.CommitsByHour[ts.Hour()]++

		if commit.Phase != nil {
			stats.CommitsByPhase[*commit.Phase]++
			phases[*commit.Phase] = true
		}

		stats.SizeDistribution[model.BucketFor(commit.Stats.TotalChanges(), c.cfg.SizeThresholds)]++

		stats.TotalLinesAdded += commit.Stats.LinesAdded
		stats.TotalLinesDeleted += commit.Stats.LinesDeleted
		stats.TotalFilesChanged += commit.Stats.FilesChanged

		if commit.IsConventional {
			stats.ConventionalCount++
		}
		if len(commit.CoAuthors) > 0 {
			stats.CoAuthoredCount++
		}
	}
	stats.TotalCommits = len(commits)

	for p := range phases {
		stats.PhasesDetected = append(stats.PhasesDetected, p)
	}
	sort.Ints(stats.PhasesDetected)

	stats.AvgCommitIntervalHours = averageIntervalHours(commits)

	gap := c.cfg.SessionGap
	if gap <= 0 {
		gap = session.DefaultGap
	}
	c.sessions = session.Detect(commits, gap)
	stats.WorkSessions = len(c.sessions)

	first := commits[0].Timestamp
	last := commits[len(commits)-1].Timestamp
	stats.FirstCommitDate = &first
	stats.LastCommitDate = &last
}

// averageIntervalHours is the mean gap between consecutive sorted commits
func averageIntervalHours(sorted []model.Commit) float64 {
	if len(sorted) < 2 {
		return 0.0
	}
	var totalSeconds float64
	for i := 1; i < len(sorted); i++ {
		totalSeconds += sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Seconds()
	}
	return totalSeconds / float64(len(sorted)-1) / 3600.0
}
