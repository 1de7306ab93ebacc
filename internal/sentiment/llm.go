// Package sentiment classifies the tone of commit messages with a language
// model. Commits are sent in fixed-size batches, one concurrent request per
// batch, and a failed batch never aborts the others. The LLM interface is
// provider-agnostic with an OpenAI-compatible implementation and a
// deterministic mock for tests.
package sentiment

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
	ErrEmptyResponse = errors.New("empty LLM response")
)

// LLM defines the interface for interacting with language models.
// Implementations must be safe for concurrent use.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	Generate(ctx context.Context, prompt string) (string, error)
}
