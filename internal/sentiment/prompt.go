package sentiment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/model"
)

const (
	defaultConfidence = 0.5
	defaultTone       = "unknown"
	failedSummary     = "Analysis failed"
)

// jsonArrayPattern spans from the first '[' to the last ']' so fenced or
// chatty replies still decode.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// BuildPrompt asks for one JSON object per commit, in order
func BuildPrompt(batch []model.Commit) string {
	var b strings.Builder

	b.WriteString("Analyze the sentiment of these git commit messages. For each commit, determine:\n")
	b.WriteString("1. sentiment: \"positive\", \"neutral\", or \"negative\"\n")
	b.WriteString("2. confidence: 0.0 to 1.0 (how confident you are)\n")
	b.WriteString("3. tone: a single word describing the tone (e.g., \"enthusiastic\", \"frustrated\", \"routine\", \"celebratory\", \"apologetic\")\n")
	b.WriteString("4. summary: a brief 5-10 word interpretation of the commit's intent\n\n")
	b.WriteString("Respond with a JSON array, one object per commit in the same order.\n\n")

	b.WriteString("Commit messages:\n")
	for _, c := range batch {
		b.WriteString(fmt.Sprintf("[%s] %s\n", c.ShortSHA(), c.FirstLine()))
	}

	b.WriteString("\nRespond ONLY with valid JSON array, no markdown or explanation:\n")
	b.WriteString(`[{"sha": "...", "sentiment": "...", "confidence": 0.0, "tone": "...", "summary": "..."}]`)

	return b.String()
}

// ParseResponse decodes a model reply into results for the batch.
// Any decode failure yields one neutral placeholder per commit.
func ParseResponse(content string, batch []model.Commit) []model.SentimentResult {
	results, err := decodeResults(content, batch)
	if err != nil {
		return placeholders(batch)
	}
	return results
}

func decodeResults(content string, batch []model.Commit) ([]model.SentimentResult, error) {
	if match := jsonArrayPattern.FindString(content); match != "" {
		content = match
	}
	content = strings.TrimSpace(content)

	var items []map[string]any
	if strings.HasPrefix(content, "{") {
		var single map[string]any
		if err := json.Unmarshal([]byte(content), &single); err != nil {
			return nil, fmt.Errorf("decode object: %w", err)
		}
		items = []map[string]any{single}
	} else if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}

	results := make([]model.SentimentResult, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("item %d is not an object", i)
		}

		sha := "unknown"
		if i < len(batch) {
			sha = batch[i].ShortSHA()
		}
		sha = stringField(item, "sha", sha)

		confidence := defaultConfidence
		if v, ok := item["confidence"]; ok {
			c, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("item %d confidence: %w", i, err)
			}
			confidence = c
		}

		results = append(results, model.NewSentimentResult(
			sha,
			stringField(item, "sentiment", string(model.SentimentNeutral)),
			confidence,
			stringField(item, "tone", defaultTone),
			stringField(item, "summary", ""),
		))
	}
	return results, nil
}

func placeholders(batch []model.Commit) []model.SentimentResult {
	results := make([]model.SentimentResult, len(batch))
	for i, c := range batch {
		results[i] = model.SentimentResult{
			SHA:        c.ShortSHA(),
			Sentiment:  model.SentimentNeutral,
			Confidence: 0.0,
			Tone:       defaultTone,
			Summary:    failedSummary,
		}
	}
	return results
}

func stringField(item map[string]any, key, fallback string) string {
	v, ok := item[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
