package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"autolist/models"
	"autolist/utils"
)

// Amazon's banned/restricted words and phrases.
var bannedWords = []string{
	"best", "#1", "number one", "top rated", "award winning",
	"guaranteed", "warranty", "free shipping", "free delivery",
	"cheap", "cheapest", "bargain", "discount", "sale",
	"amazon's choice", "amazon", "prime",
}

// Promotional language that draws suppression warnings.
var promotionalPhrases = []string{
	"limited time", "act now", "don't miss", "hurry",
	"exclusive", "special offer", "deal of the day",
	"money back", "risk free", "no risk",
}

const (
	titleMaxLen       = 200
	titleMinLen       = 20
	bulletMaxLen      = 256
	bulletMinCount    = 3
	bulletMaxCount    = 5
	descriptionMaxLen = 2000
	descriptionMinLen = 50
)

var titleBannedChars = []string{"!", "@", "#", "$", "%", "*", "~"}

// Validator checks listings against Amazon compliance rules and style
// guidelines.
type Validator struct {
	logger *utils.Logger
}

// NewValidator creates a Validator with the given logger.
func NewValidator(logger *utils.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs every rule over the listing. Errors make the listing
// invalid; warnings and suggestions do not. The compliance score starts
// at 100 and loses 10 per error and 5 per warning.
func (v *Validator) Validate(l *models.Listing) *models.ValidationResult {
	res := &models.ValidationResult{
		IsValid:     true,
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	v.validateTitle(l.Title, res)
	v.validateBullets(l.BulletPoints, res)
	v.validateDescription(l.Description, res)
	v.scanBannedLanguage(l, res)

	score := 100 - 10*len(res.Errors) - 5*len(res.Warnings)
	if score < 0 {
		score = 0
	}
	res.ComplianceScore = score
	res.IsValid = len(res.Errors) == 0

	v.logger.Debug("[validator] %q scored %d (%d errors, %d warnings)",
		l.Title, score, len(res.Errors), len(res.Warnings))
	return res
}

// AutoFix validates and then repairs what it mechanically can: trims
// over-long fields, strips banned phrases from the title, and drops
// trailing bullet punctuation. The returned result carries the fixed
// listing and its post-fix validation.
func (v *Validator) AutoFix(l *models.Listing) *models.ValidationResult {
	fixed := *l
	fixed.BulletPoints = append([]string(nil), l.BulletPoints...)

	fixed.Title = stripBanned(truncateWords(fixed.Title, titleMaxLen))
	fixed.Description = truncateWords(fixed.Description, descriptionMaxLen)

	if len(fixed.BulletPoints) > bulletMaxCount {
		fixed.BulletPoints = fixed.BulletPoints[:bulletMaxCount]
	}
	for i, b := range fixed.BulletPoints {
		b = truncateWords(b, bulletMaxLen)
		b = strings.TrimRight(b, ".!;,")
		if b != "" {
			r := []rune(b)
			r[0] = unicode.ToUpper(r[0])
			b = string(r)
		}
		fixed.BulletPoints[i] = b
	}

	res := v.Validate(&fixed)
	res.FixedListing = &fixed
	return res
}

func (v *Validator) validateTitle(title string, res *models.ValidationResult) {
	trimmed := strings.TrimSpace(title)
	switch {
	case trimmed == "":
		res.Errors = append(res.Errors, "title is required")
		return
	case len(trimmed) > titleMaxLen:
		res.Errors = append(res.Errors, fmt.Sprintf("title exceeds %d characters (%d)", titleMaxLen, len(trimmed)))
	case len(trimmed) < titleMinLen:
		res.Warnings = append(res.Warnings, fmt.Sprintf("title shorter than %d characters", titleMinLen))
	}

	if trimmed == strings.ToUpper(trimmed) && strings.ContainsFunc(trimmed, unicode.IsLetter) {
		res.Errors = append(res.Errors, "title must not be all caps")
	}
	for _, ch := range titleBannedChars {
		if strings.Contains(trimmed, ch) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("title contains special character %q", ch))
		}
	}
}

func (v *Validator) validateBullets(bullets []string, res *models.ValidationResult) {
	if len(bullets) < bulletMinCount {
		res.Warnings = append(res.Warnings, fmt.Sprintf("fewer than %d bullet points", bulletMinCount))
	}
	if len(bullets) > bulletMaxCount {
		res.Errors = append(res.Errors, fmt.Sprintf("more than %d bullet points", bulletMaxCount))
	}
	for i, b := range bullets {
		if len(b) > bulletMaxLen {
			res.Errors = append(res.Errors, fmt.Sprintf("bullet %d exceeds %d characters", i+1, bulletMaxLen))
		}
		if b != "" && !unicode.IsUpper([]rune(b)[0]) {
			res.Suggestions = append(res.Suggestions, fmt.Sprintf("bullet %d should start with a capital letter", i+1))
		}
		if strings.HasSuffix(strings.TrimSpace(b), ".") {
			res.Suggestions = append(res.Suggestions, fmt.Sprintf("bullet %d should not end with punctuation", i+1))
		}
	}
}

func (v *Validator) validateDescription(desc string, res *models.ValidationResult) {
	trimmed := strings.TrimSpace(desc)
	switch {
	case trimmed == "":
		res.Errors = append(res.Errors, "description is required")
	case len(trimmed) > descriptionMaxLen:
		res.Errors = append(res.Errors, fmt.Sprintf("description exceeds %d characters (%d)", descriptionMaxLen, len(trimmed)))
	case len(trimmed) < descriptionMinLen:
		res.Warnings = append(res.Warnings, fmt.Sprintf("description shorter than %d characters", descriptionMinLen))
	}
	if strings.Contains(desc, "<") && strings.Contains(desc, ">") {
		res.Warnings = append(res.Warnings, "description appears to contain HTML markup")
	}
	if strings.Contains(strings.ToLower(desc), "http://") || strings.Contains(strings.ToLower(desc), "https://") {
		res.Warnings = append(res.Warnings, "description should not contain links")
	}
}

func (v *Validator) scanBannedLanguage(l *models.Listing, res *models.ValidationResult) {
	text := strings.ToLower(l.Title + " " + l.Description + " " + strings.Join(l.BulletPoints, " "))
	for _, w := range bannedWords {
		if containsWord(text, w) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("contains potentially banned word: %q", w))
		}
	}
	for _, p := range promotionalPhrases {
		if strings.Contains(text, p) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("contains promotional phrase: %q", p))
		}
	}
}

// containsWord matches w on word boundaries so "best" does not flag
// "bestseller-free" prose like "asbestos". The neighboring runes are
// decoded properly, not read as single bytes.
func containsWord(text, w string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		beforeOK := start == 0 || !isWordRune(before)
		afterOK := end == len(text) || !isWordRune(after)
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// bannedPatterns match the banned words case-insensitively. Matching on
// the original string keeps offsets valid for runes whose lowercase
// form has a different byte length.
var bannedPatterns = func() []*regexp.Regexp {
	ps := make([]*regexp.Regexp, len(bannedWords))
	for i, w := range bannedWords {
		ps[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w))
	}
	return ps
}()

func stripBanned(s string) string {
	for _, p := range bannedPatterns {
		s = p.ReplaceAllString(s, "")
	}
	return collapseWhitespace(s)
}

// truncateWords cuts s to at most max bytes without splitting a rune or
// the final word.
func truncateWords(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
