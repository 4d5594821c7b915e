// Package catalog holds the product category schemas and keyword-based
// category detection used when the caller does not supply a category.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// Category describes one product category schema.
type Category struct {
	ID        string   `yaml:"id" json:"category_id"`
	Name      string   `yaml:"name" json:"category_name"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
	TitleHint string   `yaml:"title_hint" json:"title_hint,omitempty"`
}

// Catalog is the loaded set of category schemas.
type Catalog struct {
	categories []Category
	byID       map[string]*Category
}

// DefaultCategoryName is used when detection finds no signal at all.
const DefaultCategoryName = "General"

// Load parses the embedded category schema file.
func Load() (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(categoriesYAML, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse categories.yaml: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog: categories.yaml defines no categories")
	}

	c := &Catalog{
		categories: doc.Categories,
		byID:       make(map[string]*Category, len(doc.Categories)),
	}
	for i := range c.categories {
		c.byID[c.categories[i].ID] = &c.categories[i]
	}
	return c, nil
}

// Categories returns all category schemas in file order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Get looks up a category by id.
func (c *Catalog) Get(id string) (*Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Detect scores each category against the caption text and extracted
// keyword candidates and returns the best category name. Keyword hits
// from hashtags weigh more than plain substring hits in the caption.
func (c *Catalog) Detect(text string, keywordCandidates []string) string {
	lowerText := strings.ToLower(text)
	candidates := make(map[string]struct{}, len(keywordCandidates))
	for _, k := range keywordCandidates {
		candidates[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}

	bestScore := 0
	bestName := DefaultCategoryName
	for _, cat := range c.categories {
		score := 0
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(kw)
			if _, hit := candidates[kw]; hit {
				score += 2
			}
			if strings.Contains(lowerText, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestName = cat.Name
		}
	}
	return bestName
}
