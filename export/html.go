package export

import (
	_ "embed"
	"html/template"
	"strings"
	"time"

	"autolist/models"
)

//go:embed listing.html.tmpl
var listingTemplateText string

var listingTemplate = template.Must(template.New("listing").Parse(listingTemplateText))

type htmlData struct {
	Title           string
	Category        string
	Price           string
	Attributes      []models.OptionalField
	DescriptionHTML template.HTML
	BulletPoints    []string
	KeywordTags     []string
	GeneratedDate   string
	GeneratedAt     string
}

// EncodeHTML renders the listing as a complete self-contained HTML
// document with an inline stylesheet. All listing text is entity
// escaped; description newlines become <br> tags. The generation
// timestamps are computed at export time, not stored on the listing.
func EncodeHTML(l *models.Listing, now time.Time) string {
	data := htmlData{
		Title:           l.Title,
		Category:        l.Category,
		Price:           l.Price,
		Attributes:      l.AttributeFields(),
		DescriptionHTML: descriptionHTML(l.Description),
		BulletPoints:    l.BulletPoints,
		KeywordTags:     l.SplitKeywords(),
		GeneratedDate:   now.Format("January 2, 2006"),
		GeneratedAt:     now.Format("January 2, 2006 3:04 PM"),
	}

	var b strings.Builder
	// The template is static and the data is plain values, so this
	// cannot fail at runtime.
	if err := listingTemplate.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}

// descriptionHTML escapes the free text first, then converts line
// breaks, so user content can never break the document structure.
func descriptionHTML(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
