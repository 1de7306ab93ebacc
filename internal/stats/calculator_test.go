package stats

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleCommit() model.Commit {
	return model.Commit{
		SHA:            "abc123def456",
		Message:        "feat(auth): add login functionality\n\nImplemented OAuth2 flow.\n\nCo-Authored-By: Claude <claude@anthropic.com>",
		Author:         "Test Author",
		AuthorEmail:    "test@example.com",
		Timestamp:      time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Stats:          model.CommitStats{LinesAdded: 50, LinesDeleted: 20, FilesChanged: 3},
		Type:           model.TypeFeat,
		Scope:          ptr("auth"),
		Subject:        ptr("add login functionality"),
		Body:           ptr("Implemented OAuth2 flow."),
		CoAuthors:      []string{"Claude <claude@anthropic.com>"},
		Phase:          ptr(3),
		IsConventional: true,
	}
}

func minimalCommit() model.Commit {
	return model.Commit{
		SHA:         "def789abc123",
		Message:     "quick fix",
		Author:      "Test Author",
		AuthorEmail: "test@example.com",
		Timestamp:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func sampleCommits() []model.Commit {
	return []model.Commit{sampleCommit(), minimalCommit()}
}

func newCalc(commits []model.Commit) *Calculator {
	return NewCalculator(commits, config.DefaultAnalysis())
}

func TestCalculate_Empty(t *testing.T) {
	stats := newCalc(nil).Calculate()

	if stats.TotalCommits != 0 || stats.WorkSessions != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if stats.ConventionalCompliance() != 0.0 || stats.CoAuthoredPercentage() != 0.0 {
		t.Error("derived percentages should be 0 for empty input")
	}
	if stats.FirstCommitDate != nil || stats.LastCommitDate != nil {
		t.Error("dates must be unset for empty input")
	}
	if stats.AvgCommitIntervalHours != 0.0 {
		t.Errorf("expected zero interval, got %v", stats.AvgCommitIntervalHours)
	}
	if stats.CommitsByType == nil || len(stats.PhasesDetected) != 0 {
		t.Error("mappings should be empty but non-nil")
	}
}

func TestCalculate_SampleCommits(t *testing.T) {
	calc := newCalc(sampleCommits())
	stats := calc.Calculate()

	if calc.TotalCommits() != 2 {
		t.Errorf("expected 2 commits, got %d", calc.TotalCommits())
	}
	if calc.ConventionalCompliance() != 0.5 {
		t.Errorf("expected compliance 0.5, got %v", calc.ConventionalCompliance())
	}
	if stats.CommitsByType[model.TypeFeat] != 1 || stats.CommitsByType[model.TypeUnknown] != 1 {
		t.Errorf("unexpected type counts %v", stats.CommitsByType)
	}
	if stats.CommitsByAuthor["Test Author"] != 2 {
		t.Errorf("unexpected author counts %v", stats.CommitsByAuthor)
	}
	if stats.CommitsByDay["2024-01-15"] != 2 {
		t.Errorf("unexpected day counts %v", stats.CommitsByDay)
	}
	if stats.CommitsByHour[10] != 1 || stats.CommitsByHour[12] != 1 {
		t.Errorf("unexpected hour counts %v", stats.CommitsByHour)
	}
	if stats.SizeDistribution[model.SizeLarge] != 1 || stats.SizeDistribution[model.SizeSmall] != 1 {
		t.Errorf("unexpected size distribution %v", stats.SizeDistribution)
	}
	if stats.CoAuthoredCount != 1 || stats.CoAuthoredPercentage() != 0.5 {
		t.Errorf("unexpected co-author stats %d / %v", stats.CoAuthoredCount, stats.CoAuthoredPercentage())
	}
	if !stats.FirstCommitDate.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected first date %v", stats.FirstCommitDate)
	}
	if !stats.LastCommitDate.Equal(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected last date %v", stats.LastCommitDate)
	}
}

func TestCalculate_Totals(t *testing.T) {
	stats := newCalc([]model.Commit{sampleCommit()}).Calculate()

	if stats.TotalLinesAdded != 50 || stats.TotalLinesDeleted != 20 || stats.TotalFilesChanged != 3 {
		t.Errorf("unexpected totals %d/%d/%d", stats.TotalLinesAdded, stats.TotalLinesDeleted, stats.TotalFilesChanged)
	}
	if stats.TotalChurn() != 70 {
		t.Errorf("expected churn 70, got %d", stats.TotalChurn())
	}
	if len(stats.PhasesDetected) != 1 || stats.PhasesDetected[0] != 3 || stats.CommitsByPhase[3] != 1 {
		t.Errorf("unexpected phases %v / %v", stats.PhasesDetected, stats.CommitsByPhase)
	}
}

func TestCalculate_AverageInterval(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	commits := []model.Commit{
		{SHA: "a", Message: "first", Author: "Test", Timestamp: base},
		{SHA: "c", Message: "third", Author: "Test", Timestamp: base.Add(4 * time.Hour)},
		{SHA: "b", Message: "second", Author: "Test", Timestamp: base.Add(2 * time.Hour)},
	}

	stats := newCalc(commits).Calculate()
	if stats.AvgCommitIntervalHours != 2.0 {
		t.Errorf("expected 2.0 hours, got %v", stats.AvgCommitIntervalHours)
	}
	if !stats.FirstCommitDate.Equal(base) || !stats.LastCommitDate.Equal(base.Add(4*time.Hour)) {
		t.Errorf("dates should follow sorted order, got %v - %v", stats.FirstCommitDate, stats.LastCommitDate)
	}
}

func TestCalculate_WorkSessions(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	commits := []model.Commit{
		{SHA: "a", Author: "Test", Timestamp: base},
		{SHA: "b", Author: "Test", Timestamp: base.Add(30 * time.Minute)},
		{SHA: "c", Author: "Test", Timestamp: base.Add(3*time.Hour + 30*time.Minute)},
		{SHA: "d", Author: "Test", Timestamp: base.Add(4 * time.Hour)},
	}

	calc := newCalc(commits)
	if got := calc.Calculate().WorkSessions; got != 2 {
		t.Errorf("expected 2 sessions, got %d", got)
	}
	if len(calc.Sessions()) != 2 {
		t.Errorf("expected 2 session records, got %d", len(calc.Sessions()))
	}
}

func TestCalculate_PhasesSortedDistinct(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	var commits []model.Commit
	for i, p := range []int{4, 1, 4, 2} {
		commits = append(commits, model.Commit{
			SHA:       string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Phase:     ptr(p),
		})
	}

	stats := newCalc(commits).Calculate()
	want := []int{1, 2, 4}
	if len(stats.PhasesDetected) != len(want) {
		t.Fatalf("expected %v, got %v", want, stats.PhasesDetected)
	}
	for i := range want {
		if stats.PhasesDetected[i] != want[i] {
			t.Errorf("expected %v, got %v", want, stats.PhasesDetected)
		}
	}
	if stats.CommitsByPhase[4] != 2 {
		t.Errorf("expected 2 commits in phase 4, got %d", stats.CommitsByPhase[4])
	}
}

func TestCalculate_UTCKeys(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	// 21:00 at UTC-5 is 02:00 the next day in UTC
	c := model.Commit{SHA: "a", Timestamp: time.Date(2024, 1, 15, 21, 0, 0, 0, tz)}

	stats := newCalc([]model.Commit{c}).Calculate()
	if stats.CommitsByDay["2024-01-16"] != 1 {
		t.Errorf("expected UTC day key, got %v", stats.CommitsByDay)
	}
	if stats.CommitsByHour[2] != 1 {
		t.Errorf("expected UTC hour key, got %v", stats.CommitsByHour)
	}
}

func TestCalculate_CountInvariants(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var commits []model.Commit
	for i := 0; i < 25; i++ {
		commits = append(commits, model.Commit{
			SHA:       string(rune('A' + i)),
			Author:    []string{"a", "b", "c"}[i%3],
			Timestamp: base.Add(time.Duration(i*i) * time.Hour),
			Stats:     model.CommitStats{LinesAdded: i * 13, LinesDeleted: i * 3},
			Type:      model.ConventionalTypes()[i%11],
		})
	}

	stats := newCalc(commits).Calculate()

	sum := func(m map[string]int) int {
		n := 0
		for _, v := range m {
			n += v
		}
		return n
	}
	var typeSum, sizeSum, hourSum int
	for _, v := range stats.CommitsByType {
		typeSum += v
	}
	for _, v := range stats.SizeDistribution {
		sizeSum += v
	}
	for _, v := range stats.CommitsByHour {
		hourSum += v
	}

	for name, got := range map[string]int{
		"type":   typeSum,
		"size":   sizeSum,
		"hour":   hourSum,
		"author": sum(stats.CommitsByAuthor),
		"day":    sum(stats.CommitsByDay),
	} {
		if got != stats.TotalCommits {
			t.Errorf("%s counts sum to %d, want %d", name, got, stats.TotalCommits)
		}
	}
	if stats.WorkSessions < 1 || stats.WorkSessions > stats.TotalCommits {
		t.Errorf("work sessions %d out of range", stats.WorkSessions)
	}
}

func TestCalculate_CustomThresholds(t *testing.T) {
	cfg := config.DefaultAnalysis()
	cfg.SizeThresholds = model.SizeThresholds{Small: 100, Medium: 500, Large: 1000}

	stats := NewCalculator([]model.Commit{sampleCommit()}, cfg).Calculate()
	if stats.SizeDistribution[model.SizeSmall] != 1 {
		t.Errorf("70 changes should be small with custom thresholds, got %v", stats.SizeDistribution)
	}
}

func TestCalculate_Cached(t *testing.T) {
	commits := sampleCommits()
	calc := newCalc(commits)

	first := calc.Calculate()
	commits[0].Author = "Someone Else"
	second := calc.Calculate()

	if first != second {
		t.Error("expected the same cached pointer")
	}
	if second.CommitsByAuthor["Someone Else"] != 0 {
		t.Error("calculator must not observe changes to the caller's slice")
	}
}

func TestCalculate_ConcurrentCallers(t *testing.T) {
	calc := newCalc(sampleCommits())

	var wg sync.WaitGroup
	results := make([]*model.RepositoryStats, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = calc.Calculate()
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Errorf("caller %d received a different snapshot", i)
		}
	}
}

func mixedHistory(n int) []model.Commit {
	authors := []string{"alice", "bob", "carol"}
	types := []model.CommitType{model.TypeFeat, model.TypeFix, model.TypeDocs, model.TypeUnknown}
	gaps := []time.Duration{20 * time.Minute, 3 * time.Hour, 90 * time.Minute, 26 * time.Hour, 5 * time.Minute}

	commits := make([]model.Commit, n)
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := range commits {
		ts = ts.Add(gaps[i%len(gaps)])
		c := model.Commit{
			SHA:            fmt.Sprintf("%040d", i),
			Message:        fmt.Sprintf("commit %d", i),
			Author:         authors[i%len(authors)],
			Timestamp:      ts,
			Stats:          model.CommitStats{LinesAdded: i * 17 % 600, LinesDeleted: i * 7 % 90, FilesChanged: i%5 + 1},
			Type:           types[i%len(types)],
			IsConventional: types[i%len(types)] != model.TypeUnknown,
		}
		if i%3 == 0 {
			c.Phase = ptr(i%4 + 1)
		}
		if i%7 == 0 {
			c.CoAuthors = []string{"dave <dave@example.com>"}
		}
		commits[i] = c
	}
	return commits
}

func TestCalculate_OrderIndependent(t *testing.T) {
	commits := mixedHistory(40)
	want := newCalc(commits).Calculate()

	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Commit, len(commits))
		copy(shuffled, commits)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := newCalc(shuffled).Calculate()
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("permutation %d changed the stats:\nwant %+v\ngot  %+v", i, want, got)
		}
	}

	if len(want.PhasesDetected) < 2 || len(want.CommitsByAuthor) != 3 || want.WorkSessions < 2 {
		t.Errorf("history not varied enough: %+v", want)
	}
}
