// Package chart turns aggregated repository statistics into renderer-neutral
// figures. Rendering to HTML or PNG lives in the report package.
package chart

import (
	"fmt"
	"sort"

	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/sentiment"
)

// NoData is the annotation attached to figures without any data points
const NoData = "No data available"

// topAuthors bounds the author chart; the remainder is folded into "Others"
const topAuthors = 10

// Kind selects how a figure is drawn
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// Colors is the shared palette
var Colors = map[string]string{
	"primary":   "#4C72B0",
	"secondary": "#8C8C8C",
	"success":   "#55A868",
	"danger":    "#C44E52",
	"warning":   "#DD8452",
	"info":      "#64B5CD",
}

// TypeColors assigns a stable color to every commit type
var TypeColors = map[model.CommitType]string{
	model.TypeFeat:     "#55A868",
	model.TypeFix:      "#C44E52",
	model.TypeDocs:     "#64B5CD",
	model.TypeStyle:    "#DA8BC3",
	model.TypeRefactor: "#8172B3",
	model.TypePerf:     "#CCB974",
	model.TypeTest:     "#4C72B0",
	model.TypeBuild:    "#937860",
	model.TypeCI:       "#DD8452",
	model.TypeChore:    "#8C8C8C",
	model.TypeRevert:   "#E15759",
	model.TypeUnknown:  "#BAB0AC",
}

// Series is one named sequence of values aligned with Figure.Labels
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`

	// Per-point colors, used by pie charts
	PointColors []string `json:"point_colors,omitempty"`
}

// Figure is a renderer-neutral chart description
type Figure struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Kind       Kind     `json:"kind"`
	Labels     []string `json:"labels"`
	Series     []Series `json:"series"`
	XLabel     string   `json:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
}

// Empty reports whether the figure has no non-zero value
func (f Figure) Empty() bool {
	for _, s := range f.Series {
		for _, v := range s.Values {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// withEmptyNote annotates figures without data
func withEmptyNote(f Figure) Figure {
	if f.Empty() {
		f.Annotation = NoData
	}
	return f
}

// Generator builds figures from one stats snapshot
type Generator struct {
	stats *model.RepositoryStats
}

// NewGenerator creates a generator. Nil stats behave like an empty repository.
func NewGenerator(stats *model.RepositoryStats) *Generator {
	if stats == nil {
		stats = model.NewRepositoryStats()
	}
	return &Generator{stats: stats}
}

// Velocity plots commits per UTC day in date order
func (g *Generator) Velocity() Figure {
	days := make([]string, 0, len(g.stats.CommitsByDay))
	for day := range g.stats.CommitsByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	values := make([]float64, len(days))
	for i, day := range days {
		values[i] = float64(g.stats.CommitsByDay[day])
	}

	return withEmptyNote(Figure{
		ID:     "velocity",
		Title:  "Commit Velocity",
		Kind:   KindLine,
		Labels: days,
		Series: []Series{{Name: "Commits", Values: values, Color: Colors["primary"]}},
		XLabel: "Date",
		YLabel: "Commits",
	})
}

// SizeHistogram shows the size buckets in ascending order
func (g *Generator) SizeHistogram() Figure {
	buckets := model.SizeBuckets()
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = string(b)
		values[i] = float64(g.stats.SizeDistribution[b])
	}

	return withEmptyNote(Figure{
		ID:     "size_histogram",
		Title:  "Commit Size Distribution",
		Kind:   KindBar,
		Labels: labels,
		Series: []Series{{Name: "Commits", Values: values, Color: Colors["info"]}},
		XLabel: "Size",
		YLabel: "Commits",
	})
}

// PhaseBurndown shows commits per detected phase
func (g *Generator) PhaseBurndown() Figure {
	phases := append([]int(nil), g.stats.PhasesDetected...)
	sort.Ints(phases)

	labels := make([]string, len(phases))
	values := make([]float64, len(phases))
	for i, p := range phases {
		labels[i] = fmt.Sprintf("Phase %d", p)
		values[i] = float64(g.stats.CommitsByPhase[p])
	}

	return withEmptyNote(Figure{
		ID:     "phase_burndown",
		Title:  "Commits by Phase",
		Kind:   KindBar,
		Labels: labels,
		Series: []Series{{Name: "Commits", Values: values, Color: Colors["warning"]}},
		XLabel: "Phase",
		YLabel: "Commits",
	})
}

// CodeChurn compares added and deleted lines and notes the net change
func (g *Generator) CodeChurn() Figure {
	added := g.stats.TotalLinesAdded
	deleted := g.stats.TotalLinesDeleted

	f := Figure{
		ID:     "code_churn",
		Title:  "Code Churn",
		Kind:   KindBar,
		Labels: []string{"Lines"},
		Series: []Series{
			{Name: "Added", Values: []float64{float64(added)}, Color: Colors["success"]},
			{Name: "Deleted", Values: []float64{float64(deleted)}, Color: Colors["danger"]},
		},
		YLabel: "Lines",
	}
	if f.Empty() {
		f.Annotation = NoData
		return f
	}
	f.Annotation = fmt.Sprintf("Net: %+d", added-deleted)
	return f
}

// HourlyHeatmap shows commit activity for every UTC hour 00..23
func (g *Generator) HourlyHeatmap() Figure {
	labels := make([]string, 24)
	values := make([]float64, 24)
	for h := range 24 {
		labels[h] = fmt.Sprintf("%02d", h)
		values[h] = float64(g.stats.CommitsByHour[h])
	}

	return withEmptyNote(Figure{
		ID:     "hourly_activity",
		Title:  "Commit Activity by Hour",
		Kind:   KindBar,
		Labels: labels,
		Series: []Series{{Name: "Commits", Values: values, Color: Colors["primary"]}},
		XLabel: "Hour (UTC)",
		YLabel: "Commits",
	})
}

// TypeDistribution is a pie of commit types in canonical order, unknown last
func (g *Generator) TypeDistribution() Figure {
	var (
		labels []string
		values []float64
		colors []string
	)
	for _, t := range append(model.ConventionalTypes(), model.TypeUnknown) {
		n := g.stats.CommitsByType[t]
		if n == 0 {
			continue
		}
		labels = append(labels, string(t))
		values = append(values, float64(n))
		colors = append(colors, TypeColors[t])
	}

	return withEmptyNote(Figure{
		ID:     "type_distribution",
		Title:  "Commit Types Distribution",
		Kind:   KindPie,
		Labels: labels,
		Series: []Series{{Name: "Commits", Values: values, PointColors: colors}},
	})
}

// AuthorDistribution ranks authors by commit count
func (g *Generator) AuthorDistribution() Figure {
	authors := make([]string, 0, len(g.stats.CommitsByAuthor))
	for a := range g.stats.CommitsByAuthor {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool {
		ci, cj := g.stats.CommitsByAuthor[authors[i]], g.stats.CommitsByAuthor[authors[j]]
		if ci != cj {
			return ci > cj
		}
		return authors[i] < authors[j]
	})

	var others int
	if len(authors) > topAuthors {
		for _, a := range authors[topAuthors:] {
			others += g.stats.CommitsByAuthor[a]
		}
		authors = authors[:topAuthors]
	}

	labels := append([]string(nil), authors...)
	values := make([]float64, 0, len(authors)+1)
	for _, a := range authors {
		values = append(values, float64(g.stats.CommitsByAuthor[a]))
	}
	if others > 0 {
		labels = append(labels, "Others")
		values = append(values, float64(others))
	}

	return withEmptyNote(Figure{
		ID:     "author_distribution",
		Title:  "Commits by Author",
		Kind:   KindBar,
		Labels: labels,
		Series: []Series{{Name: "Commits", Values: values, Color: Colors["secondary"]}},
		XLabel: "Author",
		YLabel: "Commits",
	})
}

// Sentiment is a pie of LLM tone labels
func Sentiment(results []model.SentimentResult) Figure {
	d := sentiment.Summarize(results)
	return withEmptyNote(Figure{
		ID:     "sentiment",
		Title:  "Commit Sentiment",
		Kind:   KindPie,
		Labels: []string{string(model.SentimentPositive), string(model.SentimentNeutral), string(model.SentimentNegative)},
		Series: []Series{{
			Name:        "Commits",
			Values:      []float64{float64(d.Positive), float64(d.Neutral), float64(d.Negative)},
			PointColors: []string{Colors["success"], Colors["secondary"], Colors["danger"]},
		}},
	})
}

// All returns the standard figure set. The phase chart is included only
// when phases were detected.
func (g *Generator) All() []Figure {
	figures := []Figure{g.Velocity(), g.SizeHistogram()}
	if len(g.stats.PhasesDetected) > 0 {
		figures = append(figures, g.PhaseBurndown())
	}
	return append(figures,
		g.CodeChurn(),
		g.HourlyHeatmap(),
		g.TypeDistribution(),
		g.AuthorDistribution(),
	)
}
