// internal/domain/models/device.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device is a registered client device used for push delivery. One
// document per (user, device_id); re-registration updates in place.
type Device struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	DeviceID string             `bson:"device_id" json:"device_id"`

	Platform  string `bson:"platform,omitempty" json:"platform,omitempty"` // ios | android | web
	PushToken string `bson:"push_token,omitempty" json:"push_token,omitempty"`

	LastSeenAt time.Time `bson:"last_seen_at" json:"last_seen_at"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
