package services

import (
	"reflect"
	"testing"
)

func TestNormalizeHotelsBasic(t *testing.T) {
	raw := []any{
		map[string]any{
			"hotel_name":       "Sunset Bay",
			"location":         "Bali",
			"discounted_price": "500000",
		},
	}

	got := NormalizeHotels(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(got))
	}

	h := got[0]
	if h.Name != "Sunset Bay" || h.Location != "Bali" {
		t.Fatalf("unexpected name/location: %q / %q", h.Name, h.Location)
	}
	if h.DiscountedPrice == nil || *h.DiscountedPrice != "500000" {
		t.Fatalf("unexpected price: %v", h.DiscountedPrice)
	}
	if len(h.IdentityHash) != 12 {
		t.Fatalf("expected 12 char identity hash, got %q", h.IdentityHash)
	}
	if h.OriginalPrice != nil || h.Rating != nil || h.ImageURL != nil {
		t.Fatal("absent optional fields should be nil")
	}
}

func TestNormalizeHotelsRejectsMissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
	}{
		{"no name", map[string]any{"location": "Bali", "discounted_price": "1"}},
		{"blank name", map[string]any{"hotel_name": "   ", "location": "Bali"}},
		{"no location", map[string]any{"hotel_name": "Sunset Bay"}},
		{"non-string name", map[string]any{"hotel_name": 42.0, "location": "Bali"}},
	}

	for _, tt := range tests {
		got := NormalizeHotels([]any{tt.record})
		if len(got) != 0 {
			t.Errorf("%s: expected rejection, got %d records", tt.name, len(got))
		}
	}
}

func TestNormalizeHotelsSkipsNonMapElements(t *testing.T) {
	raw := []any{
		"not a record",
		42.0,
		nil,
		map[string]any{"hotel_name": "Sunset Bay", "location": "Bali"},
	}

	got := NormalizeHotels(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 hotel after skipping junk elements, got %d", len(got))
	}
	if got[0].Name != "Sunset Bay" {
		t.Fatalf("unexpected hotel %q", got[0].Name)
	}
}

func TestNormalizeHotelsEmptyInput(t *testing.T) {
	if got := NormalizeHotels(nil); len(got) != 0 {
		t.Fatalf("nil input: expected empty output, got %d", len(got))
	}
	if got := NormalizeHotels([]any{}); len(got) != 0 {
		t.Fatalf("empty input: expected empty output, got %d", len(got))
	}
}

func TestNormalizeHotelsAmenities(t *testing.T) {
	raw := []any{
		map[string]any{
			"hotel_name": "Sunset Bay",
			"location":   "Bali",
			"amenities":  []any{"Pool", "pool", "  ", "Pool", 7.0},
		},
	}

	got := NormalizeHotels(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(got))
	}
	// Exact-string dedup: "Pool" and "pool" are distinct; blanks and
	// non-strings are dropped.
	want := []string{"Pool", "pool"}
	if !reflect.DeepEqual(got[0].Amenities, want) {
		t.Fatalf("amenities = %v, want %v", got[0].Amenities, want)
	}
}

func TestNormalizeHotelsNonListAmenities(t *testing.T) {
	raw := []any{
		map[string]any{
			"hotel_name": "Sunset Bay",
			"location":   "Bali",
			"amenities":  "Pool, Spa",
		},
	}

	got := NormalizeHotels(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(got))
	}
	if len(got[0].Amenities) != 0 {
		t.Fatalf("non-list amenities should normalize to empty, got %v", got[0].Amenities)
	}
}

func TestNormalizeHotelsIdempotent(t *testing.T) {
	raw := []any{
		map[string]any{
			"hotel_name":       "  Sunset Bay ",
			"location":         "Bali",
			"discounted_price": " 500000 ",
			"rating":           "4.8",
			"amenities":        []any{"Pool", "Spa"},
		},
	}

	first := NormalizeHotels(raw)
	second := NormalizeHotels(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeHotelsTrimsOptionalFields(t *testing.T) {
	raw := []any{
		map[string]any{
			"hotel_name":  "Sunset Bay",
			"location":    "Bali",
			"deal_badge":  "  Member Price  ",
			"rating_text": "   ",
		},
	}

	got := NormalizeHotels(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 hotel, got %d", len(got))
	}
	if got[0].DealBadge == nil || *got[0].DealBadge != "Member Price" {
		t.Fatalf("deal badge not trimmed: %v", got[0].DealBadge)
	}
	if got[0].RatingText != nil {
		t.Fatalf("whitespace-only field should be nil, got %v", *got[0].RatingText)
	}
}
