package generator

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"autolist/models"
)

// Field length caps matching Amazon listing rules.
const (
	maxTitleLen       = 200
	maxBulletLen      = 256
	maxBullets        = 5
	maxDescriptionLen = 2000
)

var errNoJSON = errors.New("model response contains no JSON object")

// ParseListing turns a raw model response into a Listing. Models often
// wrap JSON in code fences or prose, so the first balanced JSON object
// is extracted and parsed tolerantly: unknown keys are kept as
// extension fields, keywords may arrive as a string or an array, and
// over-long fields are truncated to the listing caps.
func ParseListing(raw string) (*models.Listing, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	root := gjson.Parse(jsonText)
	if !root.IsObject() {
		return nil, errNoJSON
	}

	l := &models.Listing{
		Title:          truncate(root.Get("title").String(), maxTitleLen),
		Description:    truncate(root.Get("description").String(), maxDescriptionLen),
		Keywords:       keywordsFrom(root),
		Price:          cleanPrice(root.Get("price").String()),
		Category:       root.Get("category").String(),
		Color:          root.Get("color").String(),
		DimensionsSize: root.Get("dimensions_size").String(),
		Weight:         root.Get("weight").String(),
		PrimaryUse:     root.Get("primary_use").String(),
		IncludedItems:  root.Get("included_items").String(),
	}

	bullets := root.Get("bulletPoints")
	if !bullets.Exists() {
		bullets = root.Get("bullets")
	}
	for _, b := range bullets.Array() {
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		l.BulletPoints = append(l.BulletPoints, truncate(text, maxBulletLen))
		if len(l.BulletPoints) == maxBullets {
			break
		}
	}

	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "title", "description", "bulletPoints", "bullets", "keywords",
			"price", "category", "color", "dimensions_size", "weight",
			"primary_use", "included_items":
			return true
		}
		if l.Extra == nil {
			l.Extra = make(map[string]any)
		}
		l.Extra[key.String()] = value.Value()
		return true
	})

	if strings.TrimSpace(l.Title) == "" {
		return nil, errors.New("model returned a listing without a title")
	}
	return l, nil
}

// extractJSON strips code fences and returns the first balanced top
// level JSON object in the text.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if !gjson.Valid(candidate) {
					return "", errors.New("model returned malformed JSON")
				}
				return candidate, nil
			}
		}
	}
	return "", errors.New("model returned unterminated JSON")
}

// keywordsFrom accepts keywords as a comma-separated string or a JSON
// array and normalizes to the comma-separated form the listing stores.
func keywordsFrom(root gjson.Result) string {
	kw := root.Get("keywords")
	if kw.IsArray() {
		parts := make([]string, 0, len(kw.Array()))
		for _, k := range kw.Array() {
			if s := strings.TrimSpace(k.String()); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return kw.String()
}

// cleanPrice strips currency symbols and whitespace, keeping the
// decimal text.
func cleanPrice(s string) string {
	s = strings.TrimSpace(s)
	for _, sym := range []string{"$", "€", "£", "USD", "usd"} {
		s = strings.TrimPrefix(s, sym)
	}
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// truncate cuts s to at most max bytes, backing up to a rune boundary
// so the result stays valid UTF-8.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return strings.TrimSpace(s[:max])
}
