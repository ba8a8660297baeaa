package services

import (
	"strings"

	"hotelgram/identity"
	"hotelgram/models"
)

// NormalizeHotels turns the loosely-typed records returned by the extraction
// service into validated NormalizedHotel values. Records missing a non-empty
// name or location are dropped; non-map elements are skipped. A non-list or
// empty input yields an empty slice, never an error — partial batches are not
// a failure.
func NormalizeHotels(raw []any) []models.NormalizedHotel {
	normalized := make([]models.NormalizedHotel, 0, len(raw))

	for _, item := range raw {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := cleanString(record["hotel_name"])
		location := cleanString(record["location"])
		if name == nil || location == nil {
			continue
		}

		price := cleanString(record["discounted_price"])
		normalized = append(normalized, models.NormalizedHotel{
			IdentityHash:    identity.Fingerprint(*name, *location, deref(price)),
			Name:            *name,
			Location:        *location,
			DiscountedPrice: price,
			OriginalPrice:   cleanString(record["original_price"]),
			Rating:          cleanString(record["rating"]),
			RatingText:      cleanString(record["rating_text"]),
			ReviewCount:     cleanString(record["review_count"]),
			ReviewSummary:   cleanString(record["review_summary"]),
			Amenities:       cleanList(record["amenities"]),
			DealBadge:       cleanString(record["deal_badge"]),
			ImageURL:        cleanString(record["image_url"]),
			Summary:         cleanString(record["summary"]),
		})
	}

	return normalized
}

// cleanString accepts only non-blank strings; anything else normalizes to nil.
func cleanString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// cleanList accepts only a list; non-string or blank entries are dropped and
// the remainder deduplicated, first occurrence wins.
func cleanList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
