package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM is an offline stand-in that fabricates a plausible listing
// from the prompt text. Used by tests and by the CLI when no API key is
// configured.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	title := "Sample Product"
	if line := firstCaptionLine(prompt.User); line != "" {
		title = truncate(line, 80)
	}

	listing := map[string]any{
		"title":       title,
		"description": "Automatically drafted product description based on the post caption:\n" + truncate(prompt.User, 400),
		"bulletPoints": []string{
			"Drafted from your social media post",
			"Edit every field before publishing",
			"Supports JSON, CSV, HTML and PDF export",
		},
		"keywords": "sample, draft, listing",
		"price":    "0.00",
		"category": "General",
	}
	out, err := json.Marshal(listing)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func firstCaptionLine(user string) string {
	_, after, ok := strings.Cut(user, "Post caption:\n")
	if !ok {
		return ""
	}
	line, _, _ := strings.Cut(after, "\n")
	return strings.TrimSpace(line)
}
