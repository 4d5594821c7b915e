package services

import (
	"strings"
	"testing"
)

func TestAnalyzeCompleteness(t *testing.T) {
	svc := NewAnalyticsService(newTestLogger())
	v := NewValidator(newTestLogger())

	l := validListing()
	res := v.Validate(l)
	a := svc.Analyze(l, res)

	// 6 of 11 fields filled (no optional attributes).
	if a.CompletenessScore >= 100 {
		t.Errorf("completeness: got %.0f, want < 100", a.CompletenessScore)
	}
	if a.ComplianceScore != res.ComplianceScore {
		t.Errorf("compliance: got %d, want %d", a.ComplianceScore, res.ComplianceScore)
	}

	l.Color = "Navy"
	l.Weight = "300g"
	l.DimensionsSize = "10cm"
	l.PrimaryUse = "Coffee"
	l.IncludedItems = "Mug"
	full := svc.Analyze(l, res)
	if full.CompletenessScore != 100 {
		t.Errorf("full listing completeness: got %.0f, want 100", full.CompletenessScore)
	}
}

func TestAnalyzeKeywordDensity(t *testing.T) {
	svc := NewAnalyticsService(newTestLogger())

	l := validListing()
	a := svc.Analyze(l, nil)
	if a.KeywordDensity <= 0 {
		t.Errorf("keywords appear in the copy, density should be > 0, got %.2f", a.KeywordDensity)
	}

	l.Keywords = "quantum, blockchain"
	a = svc.Analyze(l, nil)
	if a.KeywordDensity != 0 {
		t.Errorf("unused keywords should give density 0, got %.2f", a.KeywordDensity)
	}

	found := false
	for _, s := range a.OptimizationSuggestions {
		if strings.Contains(s, "keywords") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a keyword suggestion, got %v", a.OptimizationSuggestions)
	}
}
