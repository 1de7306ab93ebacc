package report

import (
	"github.com/Yates-Labs/crumbs/internal/model"
	"github.com/Yates-Labs/crumbs/internal/sentiment"
)

// CommitSentiment is one commit joined to its sentiment result. Sentiment is
// nil when the commit was not analyzed or its batch failed.
type CommitSentiment struct {
	SHA       string                 `json:"sha"`
	Subject   string                 `json:"subject"`
	Author    string                 `json:"author"`
	Sentiment *model.SentimentResult `json:"sentiment,omitempty"`
}

// CommitSentiments joins the report's commits to the sentiment results by
// short sha, in commit order. Without commits, each result stands alone.
func (r *Report) CommitSentiments() []CommitSentiment {
	if len(r.Commits) == 0 {
		rows := make([]CommitSentiment, len(r.Sentiment))
		for i := range r.Sentiment {
			rows[i] = CommitSentiment{SHA: r.Sentiment[i].SHA, Sentiment: &r.Sentiment[i]}
		}
		return rows
	}

	index := sentiment.BySHA(r.Sentiment)
	rows := make([]CommitSentiment, len(r.Commits))
	for i, c := range r.Commits {
		rows[i] = CommitSentiment{
			SHA:     c.ShortSHA(),
			Subject: c.FirstLine(),
			Author:  c.Author,
		}
		if res, ok := index[c.ShortSHA()]; ok {
			rows[i].Sentiment = &res
		}
	}
	return rows
}
