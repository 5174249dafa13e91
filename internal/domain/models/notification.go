// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types produced inside this service. External producers
// may add their own; the type field is free-form on read.
const (
	NotificationRoleAssigned = "role_assigned"
	NotificationRoleRemoved  = "role_removed"
)

// Notification is a per-user delivery record. Only the recipient may
// mark it read.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`

	Type  string `bson:"type" json:"type"`
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body,omitempty" json:"body,omitempty"`

	Payload map[string]string `bson:"payload,omitempty" json:"payload,omitempty"`

	IsRead    bool       `bson:"is_read" json:"is_read"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}
