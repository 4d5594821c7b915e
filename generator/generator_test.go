package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"autolist/utils"
)

// scriptedLLM replays canned responses, one per Complete call.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("no scripted response left")
}

func testLogger() *utils.Logger { return utils.NewLoggerAt(utils.LevelError) }

func TestGenerateWithMockLLM(t *testing.T) {
	g, err := New(MockLLM{}, testLogger(), 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	l, err := g.Generate(context.Background(), Input{Caption: "Handmade ceramic mug\nmore detail"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if l.Title != "Handmade ceramic mug" {
		t.Errorf("mock should title from the first caption line, got %q", l.Title)
	}
	if len(l.BulletPoints) == 0 {
		t.Error("mock listing should have bullet points")
	}
}

func TestGenerateCallerCategoryWins(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"title": "Mug", "category": "Electronics"}`}}
	g, _ := New(llm, testLogger(), 1)

	l, err := g.Generate(context.Background(), Input{Caption: "c", Category: "Home & Kitchen"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if l.Category != "Home & Kitchen" {
		t.Errorf("category: got %q", l.Category)
	}
}

func TestGeneratePriceHintFallback(t *testing.T) {
	llm := &scriptedLLM{responses: []string{`{"title": "Mug"}`}}
	g, _ := New(llm, testLogger(), 1)

	l, err := g.Generate(context.Background(), Input{Caption: "c", PriceHint: "$24.99"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if l.Price != "24.99" {
		t.Errorf("price: got %q", l.Price)
	}
}

func TestGenerateRetriesMalformedOutput(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"not json at all",
		`{"title": "Mug", "description": "d"}`,
	}}
	g, _ := New(llm, testLogger(), 3)
	// Keep the retry delay out of the test run.
	g.retry.BaseDelay = 0

	l, err := g.Generate(context.Background(), Input{Caption: "c"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if llm.calls != 2 {
		t.Errorf("calls: got %d, want 2", llm.calls)
	}
	if l.Title != "Mug" {
		t.Errorf("title: %q", l.Title)
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	llm := &scriptedLLM{errs: []error{
		errors.New("boom"), errors.New("boom"),
	}}
	g, _ := New(llm, testLogger(), 2)
	g.retry.BaseDelay = 0

	_, err := g.Generate(context.Background(), Input{Caption: "c"})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if llm.calls != 2 {
		t.Errorf("calls: got %d, want 2", llm.calls)
	}
}

func TestBuildListingPrompt(t *testing.T) {
	p := BuildListingPrompt(Input{
		Caption:   "New mug drop",
		Hashtags:  []string{"handmade", "mug"},
		PriceHint: "$20",
		Category:  "Home & Kitchen",
		ImageURLs: []string{"https://example.com/a.jpg"},
	})

	for _, want := range []string{"New mug drop", "handmade, mug", "$20", "Home & Kitchen", "1 product image"} {
		if !strings.Contains(p.User, want) {
			t.Errorf("prompt missing %q:\n%s", want, p.User)
		}
	}
	if !strings.Contains(p.System, "JSON") {
		t.Error("system prompt should demand JSON output")
	}
}
