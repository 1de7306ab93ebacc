package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM is a deterministic LLM implementation for testing.
type MockLLM struct {
	// Response is the fixed text returned by Generate.
	// If empty, a response classifying every prompted commit as neutral is built.
	Response string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// Respond, if set, takes precedence over Response and Error.
	Respond func(ctx context.Context, prompt string) (string, error)

	mu         sync.Mutex
	lastPrompt string
	calls      int
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// Generate returns the configured response or generates a deterministic one.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.calls++
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(ctx, prompt)
	}
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return generateMockResponse(prompt), nil
}

// LastPrompt returns the most recent prompt passed to Generate.
func (m *MockLLM) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// Calls returns how many times Generate was invoked.
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// generateMockResponse echoes every "[sha] subject" line as a neutral result.
func generateMockResponse(prompt string) string {
	var items []string
	for _, line := range strings.Split(prompt, "\n") {
		sha, ok := promptLineSHA(line)
		if !ok {
			continue
		}
		items = append(items, fmt.Sprintf(
			`{"sha": %q, "sentiment": "neutral", "confidence": 0.5, "tone": "routine", "summary": "mock"}`, sha))
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func promptLineSHA(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	end := strings.Index(line, "] ")
	if end <= 1 {
		return "", false
	}
	return line[1:end], true
}
