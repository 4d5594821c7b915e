package export

import (
	"fmt"
	"strings"

	"autolist/models"
)

// EncodeCSV renders the listing as the Field/Value spreadsheet layout:
// a two-column header table, then the description and bullet points as
// free-text blocks. Values are always wrapped in double quotes with
// embedded quotes doubled; embedded newlines stay literal inside the
// quoted field. Optional attribute rows appear only when present.
//
// Bullet rows are emitted as `N,"text"` with a 1-based index.
func EncodeCSV(l *models.Listing) string {
	var b strings.Builder

	b.WriteString("Field,Value\n")
	writeRow(&b, "Title", l.Title)
	writeRow(&b, "Category", l.Category)
	writeRow(&b, "Price", l.Price)
	for _, f := range l.AttributeFields() {
		writeRow(&b, f.Label, f.Value)
	}
	writeRow(&b, "Keywords", l.Keywords)

	b.WriteString("\nDescription\n")
	b.WriteString(quoteCSV(l.Description))
	b.WriteString("\n")

	b.WriteString("\nBullet Points\n")
	for i, bullet := range l.BulletPoints {
		fmt.Fprintf(&b, "%d,%s\n", i+1, quoteCSV(bullet))
	}

	return b.String()
}

func writeRow(b *strings.Builder, field, value string) {
	b.WriteString(field)
	b.WriteString(",")
	b.WriteString(quoteCSV(value))
	b.WriteString("\n")
}

// quoteCSV wraps a value in double quotes and doubles embedded quotes.
// No other escaping is applied.
func quoteCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
