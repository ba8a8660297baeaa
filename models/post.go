package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post status
const (
	PostStatusReady     = "ready"
	PostStatusPublished = "published"
)

// SocialPost is one generated unit of Instagram content, owned by exactly one
// Hotel. Status starts at "ready" and transitions once to "published" on a
// confirmed delivery; a failed delivery leaves it at "ready" for the next cycle.
type SocialPost struct {
	ID        uuid.UUID `json:"id" db:"id"`
	HotelID   uuid.UUID `json:"hotel_id" db:"hotel_id"`
	Hook      string    `json:"hook" db:"hook"`
	Caption   string    `json:"caption" db:"caption"`
	Hashtags  []string  `json:"hashtags" db:"hashtags"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FullCaption renders the publish-ready caption: hook, caption body and
// hashtags separated by blank lines.
func (p *SocialPost) FullCaption() string {
	return p.Hook + "\n\n" + p.Caption + "\n\n" + strings.Join(p.Hashtags, ", ")
}

// PostView is a SocialPost joined with its hotel's display fields, as served
// by the control surface.
type PostView struct {
	PostID    uuid.UUID `json:"post_id"`
	HotelName string    `json:"hotel_name"`
	ImageURL  *string   `json:"image_url"`
	Caption   string    `json:"caption"`
	Hashtags  []string  `json:"hashtags"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// InstagramContent is the structured result expected from the generation
// service. All three fields must be present for the result to be persisted.
type InstagramContent struct {
	Hook     string   `json:"hook"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// PublishPayload is the JSON body delivered to the outbound webhook.
type PublishPayload struct {
	HotelName string `json:"hotel_name"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	Location  string `json:"location"`
	Price     string `json:"price"`
}
