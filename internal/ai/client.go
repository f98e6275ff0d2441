package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned before any I/O when the API key or base URL is missing.
var ErrNotConfigured = errors.New("ai: API configuration missing, check API_KEY and API_BASE_URL")

// CompletionRequest is a single-turn chat completion: one user message.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int64
	JSON        bool // ask for response_format json_object
}

// Completer sends a prompt to a chat completion endpoint and returns the reply text.
// All implementations must be interchangeable.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
