// Package quality scores commit messages with lexical heuristics: format
// compliance, word-list sentiment and specificity.
package quality

import (
	"regexp"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/parser"
)

var wordPattern = regexp.MustCompile(`[a-z0-9_]+`)

var positiveWords = wordSet(
	"add", "adds", "added", "implement", "implements", "implemented",
	"improve", "improves", "improved", "enhance", "enhanced", "optimize", "optimized",
	"feature", "features", "new", "introduce", "support", "enable", "complete",
	"simplify", "clean", "better", "upgrade", "streamline", "refine", "success",
	"faster", "polish", "robust",
)

var negativeWords = wordSet(
	"bug", "bugs", "issue", "issues", "workaround", "hack", "hacky", "broken",
	"break", "breaks", "crash", "crashes", "error", "errors", "fail", "fails",
	"failure", "failing", "wrong", "problem", "problems", "regression", "hotfix",
	"ugly", "leak", "incorrect", "flaky", "temporary", "deprecated", "revert",
)

var vagueWords = wordSet(
	"update", "updates", "updated", "stuff", "things", "thing", "misc", "various",
	"changes", "change", "minor", "wip", "tweak", "tweaks", "some", "etc",
)

// specificityPatterns reward concrete references in a message
var specificityPatterns = []*regexp.Regexp{
	// CamelCase identifiers
	regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]+)+\b`),
	// snake_case identifiers
	regexp.MustCompile(`\b[a-z0-9]+(?:_[a-z0-9]+)+\b`),
	// bare numbers
	regexp.MustCompile(`\b\d+\b`),
	// issue references
	regexp.MustCompile(`#\d+|\b[A-Z][A-Z0-9]+-\d+\b`),
	// technical terms
	regexp.MustCompile(`(?i)\b(?:api|endpoint|database|db|cache|query|schema|config|auth|authentication|oauth2?|token|session|middleware|handler|parser|migration|module|service|cli|http|json|yaml|sql|regex|goroutine|pipeline)\b`),
	// code concepts
	regexp.MustCompile(`(?i)\b(?:function|method|class|struct|interface|variable|field|parameter|constructor|callback|flow|loop|test|tests)\b`),
	// error codes
	regexp.MustCompile(`\b(?:E\d{3,}|ERR_[A-Z0-9_]+|[45]\d\d\s+(?i:error|status))\b`),
}

const (
	specificityBase       = 0.5
	patternBonusPerMatch  = 0.1
	patternBonusCap       = 0.3
	lengthBonusWeight     = 0.4
	vaguePenaltyPerHit    = 0.1
	vaguePenaltyCap       = 0.3
	minLengthScoreChars   = 10
	idealLengthStartChars = 50
	idealLengthEndChars   = 100
)

// MessageQuality is the lexical score of one message
type MessageQuality struct {
	Message          string  `json:"message"`
	IsConventional   bool    `json:"is_conventional"`
	SentimentScore   float64 `json:"sentiment_score"`
	SpecificityScore float64 `json:"specificity_score"`
}

// OverallScore weights compliance, normalized sentiment and specificity 0.4/0.2/0.4
func (q MessageQuality) OverallScore() float64 {
	conventional := 0.0
	if q.IsConventional {
		conventional = 1.0
	}
	return 0.4*conventional + 0.2*((q.SentimentScore+1)/2) + 0.4*q.SpecificityScore
}

// Summary aggregates MessageQuality over a commit set
type Summary struct {
	TotalAnalyzed          int     `json:"total_analyzed"`
	ConventionalCount      int     `json:"conventional_count"`
	ConventionalPercentage float64 `json:"conventional_percentage"`
	AvgSentiment           float64 `json:"avg_sentiment"`
	AvgSpecificity         float64 `json:"avg_specificity"`
	AvgOverall             float64 `json:"avg_overall"`
}

// Analyzer scores messages
type Analyzer struct {
	parser *parser.Parser
}

// NewAnalyzer creates an analyzer recognizing the given conventional types
func NewAnalyzer(types []model.CommitType) *Analyzer {
	return &Analyzer{parser: parser.New(types)}
}

// CheckCompliance reports whether the first line is a conventional header
func (a *Analyzer) CheckCompliance(message string) bool {
	return a.parser.Parse(message).IsConventional
}

// ScoreSentiment returns (pos-neg)/(pos+neg) over distinct words, in [-1, 1].
// Messages with no signal words score exactly 0.
func (a *Analyzer) ScoreSentiment(message string) float64 {
	words := tokenize(message)
	var pos, neg int
	for w := range words {
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// ScoreSpecificity estimates how concrete a message is, in [0, 1]
func (a *Analyzer) ScoreSpecificity(message string) float64 {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0.0
	}

	score := specificityBase

	matches := 0
	for _, p := range specificityPatterns {
		matches += len(p.FindAllStringIndex(message, -1))
	}
	score += min(float64(matches)*patternBonusPerMatch, patternBonusCap)

	score += lengthBonusWeight * lengthScore(len(message))

	vague := 0
	for w := range tokenize(message) {
		if vagueWords[w] {
			vague++
		}
	}
	score -= min(float64(vague)*vaguePenaltyPerHit, vaguePenaltyCap)

	return clamp(score, 0.0, 1.0)
}

// lengthScore ramps from 0 at 10 chars to 0.5 at 50, holds to 100,
// then decays slowly with a floor of 0.25.
func lengthScore(n int) float64 {
	switch {
	case n < minLengthScoreChars:
		return 0.0
	case n < idealLengthStartChars:
		return 0.5 * float64(n-minLengthScoreChars) / float64(idealLengthStartChars-minLengthScoreChars)
	case n <= idealLengthEndChars:
		return 0.5
	default:
		return max(0.25, 0.5-float64(n-idealLengthEndChars)/2000.0)
	}
}

// Analyze scores a single message
func (a *Analyzer) Analyze(message string) MessageQuality {
	return MessageQuality{
		Message:          message,
		IsConventional:   a.CheckCompliance(message),
		SentimentScore:   a.ScoreSentiment(message),
		SpecificityScore: a.ScoreSpecificity(message),
	}
}

// AnalyzeCommits averages Analyze over the commit messages.
// An empty set yields a zero Summary.
func (a *Analyzer) AnalyzeCommits(commits []model.Commit) Summary {
	if len(commits) == 0 {
		return Summary{}
	}

	var s Summary
	var sentiment, specificity, overall float64
	for _, c := range commits {
		q := a.Analyze(c.Message)
		if q.IsConventional {
			s.ConventionalCount++
		}
		sentiment += q.SentimentScore
		specificity += q.SpecificityScore
		overall += q.OverallScore()
	}

	n := float64(len(commits))
	s.TotalAnalyzed = len(commits)
	s.ConventionalPercentage = float64(s.ConventionalCount) / n
	s.AvgSentiment = sentiment / n
	s.AvgSpecificity = specificity / n
	s.AvgOverall = overall / n
	return s
}

// Grade maps a compliance fraction to a letter grade
func Grade(compliance float64) string {
	pct := compliance * 100
	switch {
	case pct >= 90:
		return "A"
	case pct >= 75:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 40:
		return "D"
	default:
		return "F"
	}
}

// NonConventional returns up to limit commits whose header is not conventional,
// in input order. A non-positive limit returns all of them.
func NonConventional(commits []model.Commit, limit int) []model.Commit {
	var out []model.Commit
	for _, c := range commits {
		if c.IsConventional {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func tokenize(message string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(message), -1) {
		words[w] = true
	}
	return words
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
