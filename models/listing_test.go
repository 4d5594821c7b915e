package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestListingJSONRoundTrip(t *testing.T) {
	original := Listing{
		Title:        "Ceramic Mug",
		Description:  "Nice mug\nwith two lines",
		BulletPoints: []string{"Durable", "Dishwasher safe"},
		Keywords:     "mug,kitchen",
		Price:        "9.99",
		Category:     "Home & Kitchen",
		Color:        "Navy Blue",
		Extra:        map[string]any{"brand": "Acme", "rank": float64(3)},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Listing
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, original)
	}
}

func TestListingMarshalOmitsEmptyOptionals(t *testing.T) {
	l := Listing{Title: "Mug", Description: "d", Keywords: "k", Price: "1", Category: "c"}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"color", "dimensions_size", "weight", "primary_use", "included_items"} {
		if _, present := m[key]; present {
			t.Errorf("empty optional field %q should be omitted", key)
		}
	}
	if _, present := m["bulletPoints"]; !present {
		t.Error("bulletPoints should always be present, even when empty")
	}
}

func TestListingUnmarshalKeepsUnknownKeys(t *testing.T) {
	data := []byte(`{"title":"Mug","material":"ceramic","stock":12}`)

	var l Listing
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if l.Extra["material"] != "ceramic" {
		t.Errorf("Extra[material]: got %v, want ceramic", l.Extra["material"])
	}
	if l.Extra["stock"] != float64(12) {
		t.Errorf("Extra[stock]: got %v, want 12", l.Extra["stock"])
	}
	if _, leaked := l.Extra["title"]; leaked {
		t.Error("known key 'title' must not appear in Extra")
	}
}

func TestAttributeFieldsOrderAndOmission(t *testing.T) {
	l := Listing{
		Color:         "Red",
		Weight:        "250g",
		IncludedItems: "Mug, lid",
	}

	got := l.AttributeFields()
	want := []OptionalField{
		{"Dominant Color", "Red"},
		{"Weight", "250g"},
		{"Included Items", "Mug, lid"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AttributeFields:\n got: %v\nwant: %v", got, want)
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"a, b ,c", []string{"a", "b", "c"}},
		{"mug,kitchen", []string{"mug", "kitchen"}},
		{"trailing,", []string{"trailing"}},
		{" , ,", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		l := Listing{Keywords: tt.raw}
		got := l.SplitKeywords()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitKeywords(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}
