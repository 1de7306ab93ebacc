// Package model holds the commit and statistics types shared by the commit
// sources, the aggregator and the presentation layer.
package model

import (
	"strings"
	"time"
)

// CommitType is a conventional-commit kind
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
	TypeUnknown  CommitType = "unknown"
)

// ConventionalTypes returns the eleven conventional tags in canonical order.
func ConventionalTypes() []CommitType {
	return []CommitType{
		TypeFeat, TypeFix, TypeDocs, TypeStyle, TypeRefactor, TypePerf,
		TypeTest, TypeBuild, TypeCI, TypeChore, TypeRevert,
	}
}

// ParseCommitType maps a type token to its CommitType, ignoring case.
// Unrecognized tokens return TypeUnknown and false.
func ParseCommitType(s string) (CommitType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range ConventionalTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return TypeUnknown, false
}

// SizeBucket is a coarse classification of a commit's changed-line count
type SizeBucket string

const (
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
	SizeXLarge SizeBucket = "xlarge"
)

// SizeBuckets returns all buckets from smallest to largest
func SizeBuckets() []SizeBucket {
	return []SizeBucket{SizeSmall, SizeMedium, SizeLarge, SizeXLarge}
}

// SizeThresholds are the inclusive upper bounds of the small, medium and
// large buckets. Anything above Large is xlarge.
type SizeThresholds struct {
	Small  int `json:"small" mapstructure:"small"`
	Medium int `json:"medium" mapstructure:"medium"`
	Large  int `json:"large" mapstructure:"large"`
}

// DefaultSizeThresholds returns the 10/50/200 line thresholds
func DefaultSizeThresholds() SizeThresholds {
	return SizeThresholds{Small: 10, Medium: 50, Large: 200}
}

// BucketFor classifies a total change count against the given thresholds
func BucketFor(total int, th SizeThresholds) SizeBucket {
	switch {
	case total <= th.Small:
		return SizeSmall
	case total <= th.Medium:
		return SizeMedium
	case total <= th.Large:
		return SizeLarge
	default:
		return SizeXLarge
	}
}

// CommitStats represents the change metrics of a single commit
type CommitStats struct {
	LinesAdded   int `json:"lines_added"`
	LinesDeleted int `json:"lines_deleted"`
	FilesChanged int `json:"files_changed"`
}

// TotalChanges returns added plus deleted lines
func (s CommitStats) TotalChanges() int {
	return s.LinesAdded + s.LinesDeleted
}

// SizeBucket classifies the commit with the default thresholds
func (s CommitStats) SizeBucket() SizeBucket {
	return BucketFor(s.TotalChanges(), DefaultSizeThresholds())
}

// Commit represents one historical change with its parsed message fields.
// Commits are built once by a commit source and never mutated afterwards.
type Commit struct {
	SHA         string      `json:"sha"`
	Message     string      `json:"message"`
	Author      string      `json:"author"`
	AuthorEmail string      `json:"author_email"`
	Timestamp   time.Time   `json:"timestamp"`
	Stats       CommitStats `json:"stats"`

	// Filled in by the message parser
	Type           CommitType `json:"commit_type"`
	Scope          *string    `json:"scope,omitempty"`
	Subject        *string    `json:"subject,omitempty"`
	Body           *string    `json:"body,omitempty"`
	CoAuthors      []string   `json:"co_authors"`
	Phase          *int       `json:"phase,omitempty"`
	IsConventional bool       `json:"is_conventional"`
}

// ShortSHA returns the first 8 characters of the hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// FirstLine returns the first line of the raw message
func (c Commit) FirstLine() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(line)
}

// CommitType returns the parsed type, treating an unset type as unknown
func (c Commit) CommitType() CommitType {
	if c.Type == "" {
		return TypeUnknown
	}
	return c.Type
}

// RepositoryStats is the aggregate snapshot computed from one commit set
type RepositoryStats struct {
	TotalCommits      int `json:"total_commits"`
	TotalLinesAdded   int `json:"total_lines_added"`
	TotalLinesDeleted int `json:"total_lines_deleted"`
	TotalFilesChanged int `json:"total_files_changed"`

	CommitsByType    map[CommitType]int `json:"commits_by_type"`
	CommitsByAuthor  map[string]int     `json:"commits_by_author"`
	CommitsByDay     map[string]int     `json:"commits_by_day"`
	CommitsByHour    map[int]int        `json:"commits_by_hour"`
	CommitsByPhase   map[int]int        `json:"commits_by_phase"`
	SizeDistribution map[SizeBucket]int `json:"size_distribution"`

	ConventionalCount int   `json:"conventional_count"`
	CoAuthoredCount   int   `json:"co_authored_count"`
	PhasesDetected    []int `json:"phases_detected"`

	FirstCommitDate *time.Time `json:"first_commit_date,omitempty"`
	LastCommitDate  *time.Time `json:"last_commit_date,omitempty"`

	AvgCommitIntervalHours float64 `json:"avg_commit_interval_hours"`
	WorkSessions           int     `json:"work_sessions"`
}

// NewRepositoryStats returns zero stats with empty, non-nil mappings
func NewRepositoryStats() *RepositoryStats {
	return &RepositoryStats{
		CommitsByType:    make(map[CommitType]int),
		CommitsByAuthor:  make(map[string]int),
		CommitsByDay:     make(map[string]int),
		CommitsByHour:    make(map[int]int),
		CommitsByPhase:   make(map[int]int),
		SizeDistribution: make(map[SizeBucket]int),
		PhasesDetected:   []int{},
	}
}

// ConventionalCompliance is the fraction of conventional commits, 0 when empty
func (s *RepositoryStats) ConventionalCompliance() float64 {
	if s.TotalCommits == 0 {
		return 0.0
	}
	return float64(s.ConventionalCount) / float64(s.TotalCommits)
}

// CoAuthoredPercentage is the fraction of commits with co-authors, 0 when empty
func (s *RepositoryStats) CoAuthoredPercentage() float64 {
	if s.TotalCommits == 0 {
		return 0.0
	}
	return float64(s.CoAuthoredCount) / float64(s.TotalCommits)
}

// TotalChurn returns added plus deleted lines across all commits
func (s *RepositoryStats) TotalChurn() int {
	return s.TotalLinesAdded + s.TotalLinesDeleted
}

// Sentiment is a normalized tone label
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// NormalizeSentiment maps any label outside the three known values to neutral
func NormalizeSentiment(label string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(label))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentResult is the tone classification of one commit
type SentimentResult struct {
	SHA        string    `json:"sha"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Tone       string    `json:"tone"`
	Summary    string    `json:"summary"`
}

// NewSentimentResult normalizes the label and clamps confidence into [0, 1]
func NewSentimentResult(sha, sentiment string, confidence float64, tone, summary string) SentimentResult {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}
	return SentimentResult{
		SHA:        sha,
		Sentiment:  NormalizeSentiment(sentiment),
		Confidence: confidence,
		Tone:       tone,
		Summary:    summary,
	}
}
