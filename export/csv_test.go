package export

import (
	"strings"
	"testing"

	"autolist/models"
)

func sampleListing() *models.Listing {
	return &models.Listing{
		Title:        "Mug",
		Description:  "Nice mug",
		BulletPoints: []string{"Durable"},
		Keywords:     "mug,kitchen",
		Price:        "9.99",
		Category:     "Home",
	}
}

func TestEncodeCSVRowOrder(t *testing.T) {
	got := EncodeCSV(sampleListing())

	want := "Field,Value\n" +
		"Title,\"Mug\"\n" +
		"Category,\"Home\"\n" +
		"Price,\"9.99\"\n" +
		"Keywords,\"mug,kitchen\"\n" +
		"\nDescription\n" +
		"\"Nice mug\"\n" +
		"\nBullet Points\n" +
		"1,\"Durable\"\n"

	if got != want {
		t.Errorf("CSV output mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeCSVBulletRows(t *testing.T) {
	l := sampleListing()
	l.BulletPoints = []string{"First", "Second", "Third"}

	got := EncodeCSV(l)

	for _, row := range []string{"1,\"First\"", "2,\"Second\"", "3,\"Third\""} {
		if !strings.Contains(got, row+"\n") {
			t.Errorf("missing bullet row %q in:\n%s", row, got)
		}
	}

	if n := strings.Count(got, ",\"First\""); n != 1 {
		t.Errorf("bullet row duplicated: %d occurrences", n)
	}
}

func TestEncodeCSVQuoteDoubling(t *testing.T) {
	l := sampleListing()
	l.Description = `He said "hi"`

	got := EncodeCSV(l)

	if !strings.Contains(got, `"He said ""hi"""`) {
		t.Errorf("embedded quotes not doubled:\n%s", got)
	}
}

func TestEncodeCSVOptionalFields(t *testing.T) {
	l := sampleListing()
	got := EncodeCSV(l)
	if strings.Contains(got, "Dominant Color") {
		t.Error("absent color must not produce a row")
	}

	l.Color = "Red"
	l.Weight = "250g"
	got = EncodeCSV(l)

	if !strings.Contains(got, "Dominant Color,\"Red\"\n") {
		t.Errorf("missing Dominant Color row:\n%s", got)
	}
	if !strings.Contains(got, "Weight,\"250g\"\n") {
		t.Errorf("missing Weight row:\n%s", got)
	}

	// Optional rows sit between Price and Keywords.
	colorIdx := strings.Index(got, "Dominant Color")
	if priceIdx := strings.Index(got, "Price,"); priceIdx > colorIdx {
		t.Error("optional rows must come after Price")
	}
	if kwIdx := strings.Index(got, "Keywords,"); kwIdx < colorIdx {
		t.Error("optional rows must come before Keywords")
	}
}

func TestEncodeCSVMultilineDescription(t *testing.T) {
	l := sampleListing()
	l.Description = "line one\nline two"

	got := EncodeCSV(l)

	if !strings.Contains(got, "\"line one\nline two\"") {
		t.Errorf("embedded newline should stay literal inside the quoted field:\n%s", got)
	}
}

func TestEncodeCSVEmptyBullets(t *testing.T) {
	l := sampleListing()
	l.BulletPoints = nil

	got := EncodeCSV(l)

	if !strings.HasSuffix(got, "Bullet Points\n") {
		t.Errorf("empty bullet list should end output after the header row:\n%s", got)
	}
}
