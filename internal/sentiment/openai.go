package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM implements LLM against any OpenAI-compatible chat endpoint,
// OpenRouter by default.
type OpenAILLM struct {
	client openai.Client
	model  string
}

// NewOpenAILLM creates an OpenAI-compatible client.
// Returns an error if the API key or model is missing.
func NewOpenAILLM(cfg config.SentimentConfig) (*OpenAILLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENROUTER_API_KEY or sentiment.api_key)", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(2),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAILLM{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Generate sends the prompt as a single user message and returns the reply text.
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrEmptyResponse)
	}

	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
