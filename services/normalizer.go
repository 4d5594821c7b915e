package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"autolist/models"
	"autolist/utils"
)

var (
	// hashtagRegexp captures #tags in a caption
	hashtagRegexp = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	// mentionRegexp captures @mentions in a caption
	mentionRegexp = regexp.MustCompile(`@([\p{L}\p{N}_.]+)`)
	// priceRegexp captures the first price-looking value ("$24.99", "USD 19")
	priceRegexp = regexp.MustCompile(`(?:\$|€|£|USD\s*)\s*([\d,]+(?:\.\d+)?)`)
)

// NormalizedPost is a fetched post reduced to the signals listing
// generation cares about.
type NormalizedPost struct {
	Caption   string
	Hashtags  []string
	Mentions  []string
	PriceHint string
	ImageURLs []string
}

// Normalizer cleans raw post content before generation.
type Normalizer struct {
	logger *utils.Logger
	maxLen int
}

// NewNormalizer creates a Normalizer. maxLen caps the caption length
// fed to the model.
func NewNormalizer(logger *utils.Logger, maxLen int) *Normalizer {
	if maxLen <= 0 {
		maxLen = 2000
	}
	return &Normalizer{logger: logger, maxLen: maxLen}
}

// Normalize extracts hashtags, mentions and a price hint, then strips
// them from the caption and collapses whitespace.
func (n *Normalizer) Normalize(post *models.RawPost) *NormalizedPost {
	caption := post.Caption

	hashtags := dedupe(hashtagRegexp.FindAllStringSubmatch(caption, -1))
	mentions := dedupe(mentionRegexp.FindAllStringSubmatch(caption, -1))

	priceHint := ""
	if m := priceRegexp.FindStringSubmatch(caption); len(m) >= 2 {
		priceHint = strings.ReplaceAll(m[1], ",", "")
		n.logger.Debug("[normalizer] Price hint found: %s", priceHint)
	}

	cleaned := mentionRegexp.ReplaceAllString(caption, "")
	cleaned = hashtagRegexp.ReplaceAllStringFunc(cleaned, func(string) string { return "" })
	cleaned = collapseWhitespace(cleaned)
	if len(cleaned) > n.maxLen {
		cut := n.maxLen
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = strings.TrimSpace(cleaned[:cut])
	}

	n.logger.Debug("[normalizer] Caption %d chars, %d hashtags, %d mentions",
		len(cleaned), len(hashtags), len(mentions))

	return &NormalizedPost{
		Caption:   cleaned,
		Hashtags:  hashtags,
		Mentions:  mentions,
		PriceHint: priceHint,
		ImageURLs: post.ImageURLs,
	}
}

func dedupe(matches [][]string) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		key := strings.ToLower(m[1])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// collapseWhitespace trims and collapses runs of whitespace, keeping
// paragraph breaks as single newlines.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return unicode.IsSpace(r)
		})
		if len(fields) == 0 {
			continue
		}
		kept = append(kept, strings.Join(fields, " "))
	}
	return strings.Join(kept, "\n")
}
