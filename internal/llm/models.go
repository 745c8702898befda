package llm

import "context"

// Request describes a single completion request. Template placeholders use
// the `{name}` form and are substituted from Vars before the call.
type Request struct {
	Template    string
	Vars        map[string]string
	Temperature float64
}

// Completer is the language-service boundary consumed by every pipeline
// component. Implementations may fail with a generic error (rate limit,
// timeout, malformed prompt); no structured error taxonomy is assumed.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// chatCompletionRequest is the wire form of a chat completion call.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
