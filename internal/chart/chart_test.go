package chart

import (
	"fmt"
	"testing"
	"time"

	"github.com/Yates-Labs/crumbs/internal/model"
)

func fullStats() *model.RepositoryStats {
	first := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 17, 18, 0, 0, 0, time.UTC)

	s := model.NewRepositoryStats()
	s.TotalCommits = 100
	s.TotalLinesAdded = 5000
	s.TotalLinesDeleted = 2000
	s.TotalFilesChanged = 150
	s.CommitsByType = map[model.CommitType]int{
		model.TypeFeat: 40, model.TypeFix: 30, model.TypeDocs: 15, model.TypeTest: 10, model.TypeChore: 5,
	}
	s.CommitsByAuthor = map[string]int{"Author A": 60, "Author B": 40}
	s.CommitsByDay = map[string]int{"2024-01-17": 50, "2024-01-15": 20, "2024-01-16": 30}
	s.CommitsByHour = map[int]int{9: 10, 10: 20, 11: 25, 14: 30, 15: 15}
	s.CommitsByPhase = map[int]int{1: 20, 2: 30, 3: 25, 4: 25}
	s.SizeDistribution = map[model.SizeBucket]int{model.SizeSmall: 40, model.SizeMedium: 35, model.SizeLarge: 20, model.SizeXLarge: 5}
	s.ConventionalCount = 75
	s.PhasesDetected = []int{1, 2, 3, 4}
	s.FirstCommitDate = &first
	s.LastCommitDate = &last
	s.WorkSessions = 8
	return s
}

func minimalStats() *model.RepositoryStats {
	s := model.NewRepositoryStats()
	s.TotalCommits = 10
	s.TotalLinesAdded = 100
	s.TotalLinesDeleted = 50
	s.TotalFilesChanged = 5
	return s
}

func TestFigureTitles(t *testing.T) {
	g := NewGenerator(fullStats())

	tests := []struct {
		fig   Figure
		title string
		kind  Kind
	}{
		{g.Velocity(), "Commit Velocity", KindLine},
		{g.SizeHistogram(), "Commit Size Distribution", KindBar},
		{g.PhaseBurndown(), "Commits by Phase", KindBar},
		{g.CodeChurn(), "Code Churn", KindBar},
		{g.HourlyHeatmap(), "Commit Activity by Hour", KindBar},
		{g.TypeDistribution(), "Commit Types Distribution", KindPie},
		{g.AuthorDistribution(), "Commits by Author", KindBar},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if tt.fig.Title != tt.title || tt.fig.Kind != tt.kind {
				t.Errorf("got %q/%s, want %q/%s", tt.fig.Title, tt.fig.Kind, tt.title, tt.kind)
			}
			if tt.fig.Empty() {
				t.Error("figure should have data")
			}
			if tt.fig.ID == "" {
				t.Error("figure should have an id")
			}
		})
	}
}

func TestVelocity_SortedDays(t *testing.T) {
	f := NewGenerator(fullStats()).Velocity()

	want := []string{"2024-01-15", "2024-01-16", "2024-01-17"}
	for i, day := range want {
		if f.Labels[i] != day {
			t.Errorf("label %d = %s, want %s", i, f.Labels[i], day)
		}
	}
	if f.Series[0].Values[2] != 50 {
		t.Errorf("unexpected values %v", f.Series[0].Values)
	}
}

func TestEmptyFigures(t *testing.T) {
	g := NewGenerator(minimalStats())

	for _, f := range []Figure{g.Velocity(), g.PhaseBurndown(), g.TypeDistribution(), g.AuthorDistribution(), g.SizeHistogram()} {
		if !f.Empty() || f.Annotation != NoData {
			t.Errorf("%s: expected empty figure with annotation, got %q", f.Title, f.Annotation)
		}
	}

	if f := NewGenerator(nil).CodeChurn(); f.Annotation != NoData {
		t.Errorf("expected no-data annotation for empty churn, got %q", f.Annotation)
	}
}

func TestSizeHistogram_BucketOrder(t *testing.T) {
	f := NewGenerator(fullStats()).SizeHistogram()

	want := []string{"small", "medium", "large", "xlarge"}
	for i, b := range want {
		if f.Labels[i] != b {
			t.Errorf("label %d = %s, want %s", i, f.Labels[i], b)
		}
	}
	if f.Series[0].Values[3] != 5 {
		t.Errorf("unexpected xlarge count %v", f.Series[0].Values[3])
	}
}

func TestCodeChurn(t *testing.T) {
	f := NewGenerator(fullStats()).CodeChurn()

	if len(f.Series) != 2 {
		t.Fatalf("expected added and deleted series, got %d", len(f.Series))
	}
	if f.Annotation != "Net: +3000" {
		t.Errorf("unexpected annotation %q", f.Annotation)
	}

	s := minimalStats()
	s.TotalLinesAdded, s.TotalLinesDeleted = 10, 40
	if f := NewGenerator(s).CodeChurn(); f.Annotation != "Net: -30" {
		t.Errorf("unexpected annotation %q", f.Annotation)
	}
}

func TestHourlyHeatmap_AllHours(t *testing.T) {
	f := NewGenerator(fullStats()).HourlyHeatmap()

	if len(f.Labels) != 24 || len(f.Series[0].Values) != 24 {
		t.Fatalf("expected 24 points, got %d", len(f.Labels))
	}
	if f.Labels[0] != "00" || f.Labels[23] != "23" || f.Series[0].Values[14] != 30 {
		t.Errorf("unexpected hourly data %v %v", f.Labels, f.Series[0].Values)
	}

	if empty := NewGenerator(minimalStats()).HourlyHeatmap(); len(empty.Labels) != 24 {
		t.Errorf("empty heatmap should still have 24 labels, got %d", len(empty.Labels))
	}
}

func TestTypeDistribution_CanonicalOrder(t *testing.T) {
	s := fullStats()
	s.CommitsByType[model.TypeUnknown] = 3
	f := NewGenerator(s).TypeDistribution()

	want := []string{"feat", "fix", "docs", "test", "chore", "unknown"}
	if len(f.Labels) != len(want) {
		t.Fatalf("expected %v, got %v", want, f.Labels)
	}
	for i, l := range want {
		if f.Labels[i] != l {
			t.Errorf("label %d = %s, want %s", i, f.Labels[i], l)
		}
	}
	if len(f.Series[0].PointColors) != len(want) || f.Series[0].PointColors[0] != TypeColors[model.TypeFeat] {
		t.Errorf("unexpected colors %v", f.Series[0].PointColors)
	}
}

func TestAuthorDistribution_TopAuthors(t *testing.T) {
	s := minimalStats()
	for i := range 12 {
		s.CommitsByAuthor[fmt.Sprintf("dev%02d", i)] = i + 1
	}
	f := NewGenerator(s).AuthorDistribution()

	if len(f.Labels) != topAuthors+1 {
		t.Fatalf("expected %d labels, got %d", topAuthors+1, len(f.Labels))
	}
	if f.Labels[0] != "dev11" || f.Series[0].Values[0] != 12 {
		t.Errorf("expected busiest author first, got %s=%v", f.Labels[0], f.Series[0].Values[0])
	}
	if f.Labels[topAuthors] != "Others" || f.Series[0].Values[topAuthors] != 3 {
		t.Errorf("expected Others=3, got %s=%v", f.Labels[topAuthors], f.Series[0].Values[topAuthors])
	}
}

func TestAll(t *testing.T) {
	full := NewGenerator(fullStats()).All()
	if len(full) != 7 {
		t.Errorf("expected 7 figures, got %d", len(full))
	}
	if !hasTitle(full, "Commits by Phase") {
		t.Error("expected phase chart when phases detected")
	}

	minimal := NewGenerator(minimalStats()).All()
	if len(minimal) < 5 {
		t.Errorf("expected at least 5 figures, got %d", len(minimal))
	}
	if hasTitle(minimal, "Commits by Phase") {
		t.Error("phase chart should be omitted without phases")
	}
}

func TestSentiment(t *testing.T) {
	f := Sentiment([]model.SentimentResult{
		{SHA: "a", Sentiment: model.SentimentPositive},
		{SHA: "b", Sentiment: model.SentimentPositive},
		{SHA: "c", Sentiment: model.SentimentNegative},
	})
	if f.Kind != KindPie || f.Series[0].Values[0] != 2 || f.Series[0].Values[2] != 1 {
		t.Errorf("unexpected sentiment figure %+v", f)
	}
	if empty := Sentiment(nil); empty.Annotation != NoData {
		t.Errorf("expected no-data annotation, got %q", empty.Annotation)
	}
}

func TestPalette(t *testing.T) {
	for _, key := range []string{"primary", "success", "danger"} {
		if Colors[key] == "" {
			t.Errorf("missing color %q", key)
		}
	}
	for _, ct := range append(model.ConventionalTypes(), model.TypeUnknown) {
		if TypeColors[ct] == "" {
			t.Errorf("missing color for %s", ct)
		}
	}
}

func hasTitle(figures []Figure, title string) bool {
	for _, f := range figures {
		if f.Title == title {
			return true
		}
	}
	return false
}
