package models

import (
	"encoding/json"
	"strings"
	"time"
)

// RawPost holds unprocessed data fetched from a social media post.
// This is the input to normalization and listing generation.
type RawPost struct {
	URL       string
	Caption   string
	Author    string
	ImageURLs []string
	FetchedAt time.Time
	Platform  string
}

// Listing is the editable Amazon-style product listing. The required
// fields are always serialized; optional fields are omitted from every
// export format when empty. Unknown keys supplied by the generator or
// the client survive a JSON round trip via Extra.
type Listing struct {
	Title        string
	Description  string
	BulletPoints []string
	Keywords     string
	Price        string
	Category     string

	Color          string
	DimensionsSize string
	Weight         string
	PrimaryUse     string
	IncludedItems  string

	Extra map[string]any
}

// OptionalField is a present-only attribute rendered in CSV/HTML/PDF
// exports. Order of AttributeFields is the export row order.
type OptionalField struct {
	Label string
	Value string
}

// AttributeFields returns the optional fields that are present, in the
// fixed order exports use.
func (l *Listing) AttributeFields() []OptionalField {
	all := []OptionalField{
		{"Dominant Color", l.Color},
		{"Dimensions/Size", l.DimensionsSize},
		{"Weight", l.Weight},
		{"Primary Use", l.PrimaryUse},
		{"Included Items", l.IncludedItems},
	}
	present := make([]OptionalField, 0, len(all))
	for _, f := range all {
		if strings.TrimSpace(f.Value) != "" {
			present = append(present, f)
		}
	}
	return present
}

// SplitKeywords splits the comma-separated keyword string into trimmed,
// non-empty tags.
func (l *Listing) SplitKeywords() []string {
	parts := strings.Split(l.Keywords, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// knownKeys are the JSON keys owned by the struct fields; everything
// else lands in Extra.
var knownKeys = map[string]struct{}{
	"title": {}, "description": {}, "bulletPoints": {}, "keywords": {},
	"price": {}, "category": {}, "color": {}, "dimensions_size": {},
	"weight": {}, "primary_use": {}, "included_items": {},
}

// MarshalJSON serializes the listing with its wire field names and
// merges Extra keys into the same object.
func (l Listing) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(knownKeys)+len(l.Extra))
	for k, v := range l.Extra {
		if _, owned := knownKeys[k]; owned {
			continue
		}
		m[k] = v
	}

	bullets := l.BulletPoints
	if bullets == nil {
		bullets = []string{}
	}

	m["title"] = l.Title
	m["description"] = l.Description
	m["bulletPoints"] = bullets
	m["keywords"] = l.Keywords
	m["price"] = l.Price
	m["category"] = l.Category

	setIfPresent(m, "color", l.Color)
	setIfPresent(m, "dimensions_size", l.DimensionsSize)
	setIfPresent(m, "weight", l.Weight)
	setIfPresent(m, "primary_use", l.PrimaryUse)
	setIfPresent(m, "included_items", l.IncludedItems)

	return json.Marshal(m)
}

// UnmarshalJSON accepts any JSON object, binding the known keys and
// keeping the rest in Extra.
func (l *Listing) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	l.Title = stringAt(m, "title")
	l.Description = stringAt(m, "description")
	l.Keywords = stringAt(m, "keywords")
	l.Price = stringAt(m, "price")
	l.Category = stringAt(m, "category")
	l.Color = stringAt(m, "color")
	l.DimensionsSize = stringAt(m, "dimensions_size")
	l.Weight = stringAt(m, "weight")
	l.PrimaryUse = stringAt(m, "primary_use")
	l.IncludedItems = stringAt(m, "included_items")

	l.BulletPoints = nil
	if raw, ok := m["bulletPoints"].([]any); ok {
		l.BulletPoints = make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				l.BulletPoints = append(l.BulletPoints, s)
			}
		}
	}

	l.Extra = nil
	for k, v := range m {
		if _, owned := knownKeys[k]; owned {
			continue
		}
		if l.Extra == nil {
			l.Extra = make(map[string]any)
		}
		l.Extra[k] = v
	}
	return nil
}

func setIfPresent(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func stringAt(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ValidationResult reports compliance checking over a listing.
type ValidationResult struct {
	IsValid         bool           `json:"is_valid"`
	ComplianceScore int            `json:"compliance_score"`
	Errors          []string       `json:"errors"`
	Warnings        []string       `json:"warnings"`
	Suggestions     []string       `json:"suggestions"`
	FixedListing    *Listing       `json:"fixed_listing,omitempty"`
	FieldScores     map[string]int `json:"field_scores,omitempty"`
}
