// Package generator produces Amazon-style listings from social media
// post content with an LLM.
package generator

import (
	"context"
	"errors"
	"time"

	"autolist/models"
	"autolist/utils"
)

// Generator drives the prompt/complete/parse cycle with retries.
type Generator struct {
	llm    LLMClient
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a Generator.
func New(llm LLMClient, logger *utils.Logger, maxRetries int) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Generator{
		llm:    llm,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}, nil
}

// Generate asks the model for a listing and parses its response.
// Malformed model output counts as a failed attempt and is retried.
func (g *Generator) Generate(ctx context.Context, in Input) (*models.Listing, error) {
	prompt := BuildListingPrompt(in)

	var listing *models.Listing
	err := g.retry.Do(ctx, "generate-listing", func(ctx context.Context) error {
		raw, err := g.llm.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err := ParseListing(raw)
		if err != nil {
			return err
		}
		listing = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The caller's category detection wins over whatever the model
	// chose, so exports and schema lookups stay consistent.
	if in.Category != "" {
		listing.Category = in.Category
	}
	if listing.Price == "" && in.PriceHint != "" {
		listing.Price = cleanPrice(in.PriceHint)
	}

	g.logger.Debug("[generator] Listing generated: %q (%d bullets)", listing.Title, len(listing.BulletPoints))
	return listing, nil
}
