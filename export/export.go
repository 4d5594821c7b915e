package export

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"autolist/models"
)

// Format identifies one of the supported export encodings.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// File is a rendered export ready to be handed to the client or written
// to disk.
type File struct {
	Name string
	MIME string
	Data []byte
}

// PDFRenderer rasterizes a self-contained HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Exporter converts listings into downloadable files. JSON, CSV and
// HTML are pure and never fail on listing content; only the PDF path
// can error.
type Exporter struct {
	pdf PDFRenderer
	now func() time.Time
}

// New creates an Exporter. pdf may be nil, in which case PDF export
// reports the renderer as unavailable.
func New(pdf PDFRenderer) *Exporter {
	return &Exporter{pdf: pdf, now: time.Now}
}

// Export renders the listing in the requested format.
func (e *Exporter) Export(ctx context.Context, l *models.Listing, format Format) (*File, error) {
	if l == nil {
		l = &models.Listing{}
	}

	base := fileBaseName(l.Title)
	switch format {
	case FormatJSON:
		data, err := EncodeJSON(l)
		if err != nil {
			return nil, fmt.Errorf("json export: %w", err)
		}
		return &File{Name: base + ".json", MIME: "application/json", Data: data}, nil
	case FormatCSV:
		return &File{Name: base + ".csv", MIME: "text/csv", Data: []byte(EncodeCSV(l))}, nil
	case FormatHTML:
		return &File{Name: base + ".html", MIME: "text/html", Data: []byte(EncodeHTML(l, e.now()))}, nil
	case FormatPDF:
		if e.pdf == nil {
			return nil, ErrRendererUnavailable
		}
		data, err := e.pdf.Render(ctx, EncodeHTML(l, e.now()))
		if err != nil {
			return nil, err
		}
		return &File{Name: base + ".pdf", MIME: "application/pdf", Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// fileBaseName derives a filesystem-safe name from the listing title.
func fileBaseName(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "listing"
	}
	if len(name) > 60 {
		name = strings.Trim(name[:60], "-")
	}
	return name + "-listing"
}
