package sentiment

import (
	"context"
	"io"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one classification request
type BatchResult struct {
	Index   int
	Results []model.SentimentResult
	Err     error
}

// Analyzer runs batched sentiment classification
type Analyzer struct {
	llm    LLM
	cfg    config.SentimentConfig
	logger *logrus.Logger
}

// NewAnalyzer wires an analyzer around an existing LLM. A nil llm disables
// analysis; a nil logger discards log output.
func NewAnalyzer(llm LLM, cfg config.SentimentConfig, logger *logrus.Logger) *Analyzer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Analyzer{llm: llm, cfg: cfg, logger: logger}
}

// NewFromConfig builds an OpenAI-compatible analyzer when a credential is
// configured and a disabled analyzer otherwise.
func NewFromConfig(cfg config.SentimentConfig, logger *logrus.Logger) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return NewAnalyzer(nil, cfg, logger), nil
	}
	llm, err := NewOpenAILLM(cfg)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(llm, cfg, logger), nil
}

// Available reports whether the analyzer can reach a model
func (a *Analyzer) Available() bool {
	return a.llm != nil
}

// AnalyzeCommits classifies all commits. It returns an empty slice when the
// analyzer is disabled or the input is empty. Failed batches are logged and
// contribute nothing; results keep batch submission order. On cancellation,
// results of batches that already finished are still returned.
func (a *Analyzer) AnalyzeCommits(ctx context.Context, commits []model.Commit) []model.SentimentResult {
	if !a.Available() || len(commits) == 0 {
		return []model.SentimentResult{}
	}

	batches := Partition(commits, a.cfg.BatchSize)
	outcomes := make([]BatchResult, len(batches))

	var g errgroup.Group
	for i, batch := range batches {
		g.Go(func() error {
			outcomes[i] = a.analyzeBatch(ctx, i, batch)
			return nil
		})
	}
	_ = g.Wait()

	return Merge(outcomes)
}

func (a *Analyzer) analyzeBatch(ctx context.Context, index int, batch []model.Commit) BatchResult {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	content, err := a.llm.Generate(ctx, BuildPrompt(batch))
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"batch": index,
			"size":  len(batch),
			"error": err,
		}).Warn("sentiment batch failed")
		return BatchResult{Index: index, Err: err}
	}

	results := ParseResponse(content, batch)
	a.logger.WithFields(logrus.Fields{
		"batch":   index,
		"size":    len(batch),
		"results": len(results),
	}).Debug("sentiment batch complete")

	return BatchResult{Index: index, Results: results}
}

// Partition splits commits into consecutive batches of at most size
func Partition(commits []model.Commit, size int) [][]model.Commit {
	if size <= 0 {
		size = config.DefaultBatchSize
	}
	var batches [][]model.Commit
	for start := 0; start < len(commits); start += size {
		end := min(start+size, len(commits))
		batches = append(batches, commits[start:end])
	}
	return batches
}

// Merge concatenates successful batch results in batch order
func Merge(outcomes []BatchResult) []model.SentimentResult {
	results := []model.SentimentResult{}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		results = append(results, o.Results...)
	}
	return results
}

// Distribution counts results per label
type Distribution struct {
	Positive      int     `json:"positive"`
	Neutral       int     `json:"neutral"`
	Negative      int     `json:"negative"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Total returns the number of counted results
func (d Distribution) Total() int {
	return d.Positive + d.Neutral + d.Negative
}

// Summarize tallies the labels and mean confidence of the results
func Summarize(results []model.SentimentResult) Distribution {
	var d Distribution
	var confidence float64
	for _, r := range results {
		switch r.Sentiment {
		case model.SentimentPositive:
			d.Positive++
		case model.SentimentNegative:
			d.Negative++
		default:
			d.Neutral++
		}
		confidence += r.Confidence
	}
	if len(results) > 0 {
		d.AvgConfidence = confidence / float64(len(results))
	}
	return d
}

// BySHA indexes results by their short sha
func BySHA(results []model.SentimentResult) map[string]model.SentimentResult {
	index := make(map[string]model.SentimentResult, len(results))
	for _, r := range results {
		index[r.SHA] = r
	}
	return index
}
