package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is a deduplicated hotel deal discovered by the extraction service.
// IdentityHash is the natural key: once a hash exists, re-scrapes of the same
// offer are skipped entirely. IsProcessed flips to true exactly once, after
// content has been generated for this hotel.
type Hotel struct {
	ID              uuid.UUID `json:"id" db:"id"`
	IdentityHash    string    `json:"identity_hash" db:"identity_hash"`
	Name            string    `json:"name" db:"name"`
	Location        string    `json:"location" db:"location"`
	DiscountedPrice *string   `json:"discounted_price" db:"discounted_price"`
	OriginalPrice   *string   `json:"original_price" db:"original_price"`
	Rating          *string   `json:"rating" db:"rating"`
	RatingText      *string   `json:"rating_text" db:"rating_text"`
	ReviewCount     *string   `json:"review_count" db:"review_count"`
	ReviewSummary   *string   `json:"review_summary" db:"review_summary"`
	Amenities       []string  `json:"amenities" db:"amenities"`
	DealBadge       *string   `json:"deal_badge" db:"deal_badge"`
	ImageURL        *string   `json:"image_url" db:"image_url"`
	Summary         *string   `json:"summary" db:"summary"`
	ImagePath       *string   `json:"image_path" db:"image_path"`
	IsProcessed     bool      `json:"is_processed" db:"is_processed"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// NormalizedHotel is the output of the strict validation layer: required
// fields verified non-empty, optional fields nil when absent. It carries no
// display defaults; those belong to the prompt-building layer only.
type NormalizedHotel struct {
	IdentityHash    string
	Name            string
	Location        string
	DiscountedPrice *string
	OriginalPrice   *string
	Rating          *string
	RatingText      *string
	ReviewCount     *string
	ReviewSummary   *string
	Amenities       []string
	DealBadge       *string
	ImageURL        *string
	Summary         *string
}
