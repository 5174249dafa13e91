// internal/domain/models/brochure.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Brochure is a downloadable document (typically PDF) describing a
// program or service. The file lives in object storage under FileKey.
type Brochure struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	FileKey     string `bson:"file_key" json:"file_key"`
	FileURL     string `bson:"file_url" json:"file_url"`
	FileName    string `bson:"file_name" json:"file_name"` // original upload name
	FileSize    int64  `bson:"file_size" json:"file_size"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`

	IsActive bool `bson:"is_active" json:"is_active"`

	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}
