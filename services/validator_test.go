package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"autolist/models"
)

func validListing() *models.Listing {
	return &models.Listing{
		Title:       "Handmade Ceramic Coffee Mug, 12oz Navy Blue",
		Description: "A handmade ceramic coffee mug glazed in navy blue. Holds 12oz and keeps drinks warm longer than thin-walled mugs.",
		BulletPoints: []string{
			"Handmade from stoneware clay",
			"Dishwasher and microwave safe",
			"Comfortable oversized handle",
		},
		Keywords: "mug, ceramic, coffee",
		Price:    "24.99",
		Category: "Home & Kitchen",
	}
}

func TestValidateCleanListing(t *testing.T) {
	v := NewValidator(newTestLogger())

	res := v.Validate(validListing())

	if !res.IsValid {
		t.Errorf("expected valid, got errors: %v", res.Errors)
	}
	if res.ComplianceScore != 100 {
		t.Errorf("score: got %d, want 100 (warnings: %v)", res.ComplianceScore, res.Warnings)
	}
}

func TestValidateTitleRules(t *testing.T) {
	v := NewValidator(newTestLogger())

	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"missing", "", true},
		{"too long", strings.Repeat("x", 201), true},
		{"all caps", "AMAZING CERAMIC MUG FOR COFFEE", true},
		{"fine", "Handmade Ceramic Coffee Mug, 12oz", false},
	}

	for _, tt := range tests {
		l := validListing()
		l.Title = tt.title
		res := v.Validate(l)
		if (len(res.Errors) > 0) != tt.wantErr {
			t.Errorf("%s: errors = %v, wantErr %v", tt.name, res.Errors, tt.wantErr)
		}
	}
}

func TestValidateBannedWords(t *testing.T) {
	v := NewValidator(newTestLogger())

	l := validListing()
	l.Description = "The best mug with free shipping included."

	res := v.Validate(l)

	found := 0
	for _, w := range res.Warnings {
		if strings.Contains(w, "banned word") {
			found++
		}
	}
	if found < 2 {
		t.Errorf("expected warnings for 'best' and 'free shipping', got %v", res.Warnings)
	}
	if res.ComplianceScore == 100 {
		t.Error("banned words should lower the score")
	}
}

func TestValidateBannedWordBoundaries(t *testing.T) {
	v := NewValidator(newTestLogger())

	l := validListing()
	l.Description = "Made from asbestos-free stoneware, tested for durability over fifty wash cycles and years of daily use at home."

	res := v.Validate(l)
	for _, w := range res.Warnings {
		if strings.Contains(w, `"best"`) {
			t.Errorf("'best' inside 'asbestos' should not match: %v", res.Warnings)
		}
	}
}

func TestValidateBannedWordUnicodeNeighbors(t *testing.T) {
	v := NewValidator(newTestLogger())

	l := validListing()
	l.Description = "The Ébest studio mark is pressed into every stoneware mug before the final glazing pass."

	res := v.Validate(l)
	for _, w := range res.Warnings {
		if strings.Contains(w, `"best"`) {
			t.Errorf("'best' preceded by a multi-byte letter should not match: %v", res.Warnings)
		}
	}
}

func TestValidateBulletRules(t *testing.T) {
	v := NewValidator(newTestLogger())

	l := validListing()
	l.BulletPoints = []string{"one", "two", "three", "four", "five", "six"}

	res := v.Validate(l)
	if res.IsValid {
		t.Error("more than 5 bullets should be an error")
	}
}

func TestAutoFix(t *testing.T) {
	v := NewValidator(newTestLogger())

	l := validListing()
	l.Title = "Best Handmade Ceramic Coffee Mug, 12oz Navy Blue"
	l.BulletPoints = []string{
		"handmade from stoneware clay.",
		"Dishwasher and microwave safe",
		"Comfortable oversized handle",
		"Bullet four",
		"Bullet five",
		"Bullet six is one too many",
	}

	res := v.AutoFix(l)
	fixed := res.FixedListing
	if fixed == nil {
		t.Fatal("AutoFix must return the fixed listing")
	}

	if strings.Contains(strings.ToLower(fixed.Title), "best") {
		t.Errorf("banned word not stripped from title: %q", fixed.Title)
	}
	if len(fixed.BulletPoints) != 5 {
		t.Errorf("bullets: got %d, want 5", len(fixed.BulletPoints))
	}
	if fixed.BulletPoints[0] != "Handmade from stoneware clay" {
		t.Errorf("bullet not capitalized/trimmed: %q", fixed.BulletPoints[0])
	}
	if l.BulletPoints[0] != "handmade from stoneware clay." {
		t.Error("AutoFix must not mutate the input listing")
	}
}

func TestAutoFixNonASCIITitles(t *testing.T) {
	v := NewValidator(newTestLogger())

	// Ⱥ and İ lowercase to a different byte length, so banned-word
	// stripping must not rely on lowercased offsets.
	tests := []struct {
		title string
		want  string
	}{
		{"ȺȺȺȺȺbest", "ȺȺȺȺȺ"},
		{"İİİİİİİİİİ best mug", "İİİİİİİİİİ mug"},
	}
	for _, tt := range tests {
		l := validListing()
		l.Title = tt.title
		res := v.AutoFix(l)
		if res.FixedListing.Title != tt.want {
			t.Errorf("AutoFix(%q) title = %q; want %q", tt.title, res.FixedListing.Title, tt.want)
		}
	}
}

func TestTruncateWordsRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 30)

	got := truncateWords(s, 45)

	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if len(got) > 45 {
		t.Errorf("length %d exceeds cap 45", len(got))
	}
}
