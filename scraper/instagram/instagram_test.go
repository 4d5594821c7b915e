package instagram

import (
	"strings"
	"testing"
)

func TestValidatePostURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.instagram.com/p/Cxyz123/", false},
		{"https://instagram.com/reel/Cxyz123/", false},
		{"http://www.instagram.com/p/abc/", false},
		{"https://www.instagram.com/someuser/", true},
		{"https://www.instagram.com/stories/someuser/123/", true},
		{"https://example.com/p/Cxyz123/", true},
		{"ftp://instagram.com/p/abc/", true},
		{"not a url at all ://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validatePostURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePostURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestCaptionFromOGDescription(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{
			"standard format",
			`120 likes, 4 comments - acme.studio on June 1, 2026: "New mug drop! #handmade"`,
			"New mug drop! #handmade",
		},
		{
			"caption containing quotes",
			`5 likes, 0 comments - jane on May 2, 2026: "the "limited" run"`,
			`the "limited" run`,
		},
		{
			"no caption marker",
			"just a plain description",
			"just a plain description",
		},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		if got := captionFromOGDescription(tt.desc); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCaptionFromOGDescriptionMultiline(t *testing.T) {
	desc := "10 likes, 1 comments - a on Jan 3, 2026: \"line one\nline two\""
	got := captionFromOGDescription(desc)
	if !strings.Contains(got, "line two") {
		t.Errorf("multiline caption truncated: %q", got)
	}
}
