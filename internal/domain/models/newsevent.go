// internal/domain/models/newsevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsEvent kinds.
const (
	NewsEventKindNews  = "news"
	NewsEventKindEvent = "event"
)

// NewsEvent publication statuses.
const (
	NewsEventDraft     = "draft"
	NewsEventPublished = "published"
)

// NewsEvent is a news article or an upcoming event. Body is stored as
// sanitized HTML; EventDate is set only for kind "event".
type NewsEvent struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind  string             `bson:"kind" json:"kind"` // news | event
	Title string             `bson:"title" json:"title"`
	Body  string             `bson:"body" json:"body"`

	ImageKey string `bson:"image_key,omitempty" json:"image_key,omitempty"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	EventDate *time.Time `bson:"event_date,omitempty" json:"event_date,omitempty"`

	Status      string     `bson:"status" json:"status"` // draft | published
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`

	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsPublished reports whether the entry is visible to the public site.
func (n *NewsEvent) IsPublished() bool {
	return n.Status == NewsEventPublished
}
