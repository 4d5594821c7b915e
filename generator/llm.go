package generator

import "context"

// LLMClient abstracts the chat model so implementations can be swapped
// or mocked in tests.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration handed to concrete clients.
type LLMSettings struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Prompt is a single system+user exchange sent to the model.
type Prompt struct {
	System string
	User   string
}
