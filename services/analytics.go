package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"autolist/models"
	"autolist/utils"
)

// ListingAnalytics holds the computed quality metrics for one listing.
type ListingAnalytics struct {
	Category                string   `json:"category"`
	ComplianceScore         int      `json:"compliance_score"`
	KeywordDensity          float64  `json:"keyword_density"`
	ReadabilityScore        float64  `json:"readability_score"`
	CompletenessScore       float64  `json:"completeness_score"`
	OptimizationSuggestions []string `json:"optimization_suggestions"`
}

// AnalyticsService computes quality metrics over a generated listing.
type AnalyticsService struct {
	logger *utils.Logger
}

// NewAnalyticsService creates an AnalyticsService with the given logger.
func NewAnalyticsService(logger *utils.Logger) *AnalyticsService {
	return &AnalyticsService{logger: logger}
}

// Analyze scores the listing. validation may be nil, in which case the
// compliance score is recorded as 0.
func (s *AnalyticsService) Analyze(l *models.Listing, validation *models.ValidationResult) *ListingAnalytics {
	a := &ListingAnalytics{
		Category:                l.Category,
		OptimizationSuggestions: []string{},
	}
	if validation != nil {
		a.ComplianceScore = validation.ComplianceScore
	}

	a.CompletenessScore = round2(completeness(l) * 100)
	a.KeywordDensity = round2(keywordDensity(l))
	a.ReadabilityScore = round2(readability(l.Description))

	if a.CompletenessScore < 100 {
		a.OptimizationSuggestions = append(a.OptimizationSuggestions,
			"fill the optional attribute fields (color, dimensions, weight, use, included items) to enrich exports")
	}
	if a.KeywordDensity == 0 && len(l.SplitKeywords()) > 0 {
		a.OptimizationSuggestions = append(a.OptimizationSuggestions,
			"none of the search keywords appear in the title or description")
	}
	if len(l.BulletPoints) < 5 {
		a.OptimizationSuggestions = append(a.OptimizationSuggestions,
			fmt.Sprintf("add %d more bullet point(s); listings with 5 bullets perform better", 5-len(l.BulletPoints)))
	}

	return a
}

// completeness is the filled fraction of the 11 listing fields.
func completeness(l *models.Listing) float64 {
	fields := []string{
		l.Title, l.Description, l.Keywords, l.Price, l.Category,
		l.Color, l.DimensionsSize, l.Weight, l.PrimaryUse, l.IncludedItems,
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	if len(l.BulletPoints) > 0 {
		filled++
	}
	return float64(filled) / float64(len(fields)+1)
}

// keywordDensity is keyword-tag occurrences per 100 words of listing copy.
func keywordDensity(l *models.Listing) float64 {
	copyText := strings.ToLower(l.Title + " " + l.Description + " " + strings.Join(l.BulletPoints, " "))
	words := strings.Fields(copyText)
	if len(words) == 0 {
		return 0
	}

	hits := 0
	for _, kw := range l.SplitKeywords() {
		hits += strings.Count(copyText, strings.ToLower(kw))
	}
	return float64(hits) / float64(len(words)) * 100
}

// readability is a crude sentence-length score: short sentences score
// toward 100, rambling ones toward 0.
func readability(desc string) float64 {
	sentences := strings.FieldsFunc(desc, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	count := 0
	totalWords := 0
	for _, s := range sentences {
		w := len(strings.Fields(s))
		if w == 0 {
			continue
		}
		count++
		totalWords += w
	}
	if count == 0 {
		return 0
	}
	avg := float64(totalWords) / float64(count)
	score := 100 - (avg-12)*4
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Print writes a formatted analytics report to stdout (CLI mode).
func (s *AnalyticsService) Print(l *models.Listing, a *ListingAnalytics) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📋 LISTING REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  %s\033[0m\n", truncateDisplay(l.Title, 50))
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Category      : %s\n", a.Category)
	fmt.Printf("  Price         : \033[1;32m$%s\033[0m\n", l.Price)
	fmt.Printf("  Bullet points : %d\n", len(l.BulletPoints))
	fmt.Println()

	fmt.Printf("\033[1;33m  Scores\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Compliance    : \033[1m%d/100\033[0m\n", a.ComplianceScore)
	fmt.Printf("  Completeness  : \033[1m%.0f%%\033[0m\n", a.CompletenessScore)
	fmt.Printf("  Readability   : \033[1m%.0f/100\033[0m\n", a.ReadabilityScore)
	fmt.Printf("  Keyword density: \033[1m%.2f per 100 words\033[0m\n", a.KeywordDensity)
	fmt.Println()

	if len(a.OptimizationSuggestions) > 0 {
		fmt.Printf("\033[1;33m  Suggestions\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for i, sug := range a.OptimizationSuggestions {
			fmt.Printf("  \033[1m%d.\033[0m %s\n", i+1, sug)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncateDisplay(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
