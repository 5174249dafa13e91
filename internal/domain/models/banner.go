// internal/domain/models/banner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner is a promotional image shown on the public site, ordered by
// DisplayOrder ascending. The image lives in object storage under
// ImageKey; ImageURL is the resolved public URL at upload time.
type Banner struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title string             `bson:"title" json:"title"`

	ImageKey string `bson:"image_key" json:"image_key"`
	ImageURL string `bson:"image_url" json:"image_url"`
	LinkURL  string `bson:"link_url,omitempty" json:"link_url,omitempty"`

	DisplayOrder int  `bson:"display_order" json:"display_order"`
	IsActive     bool `bson:"is_active" json:"is_active"`

	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}
