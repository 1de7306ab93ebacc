package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yates-Labs/crumbs/internal/chart"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/quality"
	"github.com/Yates-Labs/crumbs/internal/session"
)

// ErrUnsupportedFormat is returned by ParseFormat
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents supported output formats
type Format string

const (
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatPNG, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s (supported: html, png, json)", ErrUnsupportedFormat, s)
	}
}

// SessionExport is the JSON form of a work session
type SessionExport struct {
	ID          string    `json:"id"`
	CommitCount int       `json:"commit_count"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Duration    string    `json:"duration"`
	Authors     []string  `json:"authors"`
}

// Document is the JSON representation of a report
type Document struct {
	Title       string                  `json:"title"`
	Repository  string                  `json:"repository,omitempty"`
	Branch      string                  `json:"branch,omitempty"`
	GeneratedAt time.Time               `json:"generated_at"`
	Summary     []Row                   `json:"summary"`
	Stats       *model.RepositoryStats  `json:"stats,omitempty"`
	Quality     *quality.Summary        `json:"quality,omitempty"`
	Charts      []chart.Figure          `json:"charts"`
	Sentiment   []model.SentimentResult `json:"sentiment"`
	Commits     []CommitSentiment       `json:"commits"`
	Sessions    []SessionExport         `json:"sessions"`
}

// ToJSON builds the serializable document
func (r *Report) ToJSON() Document {
	figures := r.Figures
	if figures == nil {
		figures = []chart.Figure{}
	}
	results := r.Sentiment
	if results == nil {
		results = []model.SentimentResult{}
	}

	return Document{
		Title:       r.DisplayTitle(),
		Repository:  r.RepoPath,
		Branch:      r.Branch,
		GeneratedAt: time.Now().UTC(),
		Summary:     r.Summary(),
		Stats:       r.Stats,
		Quality:     r.Quality,
		Charts:      figures,
		Sentiment:   results,
		Commits:     r.CommitSentiments(),
		Sessions:    exportSessions(r.Sessions),
	}
}

// WriteJSON writes the document as indented JSON
func (r *Report) WriteJSON(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.ToJSON())
}

func exportSessions(sessions []session.Session) []SessionExport {
	exports := make([]SessionExport, len(sessions))
	for i, s := range sessions {
		exports[i] = SessionExport{
			ID:          s.ID,
			CommitCount: s.Size(),
			Start:       s.Start,
			End:         s.End,
			Duration:    s.Duration().String(),
			Authors:     s.Authors(),
		}
	}
	return exports
}
