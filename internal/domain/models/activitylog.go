// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity log entry statuses.
const (
	ActivityStatusSuccess = "success"
	ActivityStatusFailed  = "failed"
)

// Activity log entry severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ActivityLogEntry is one row in the append-only activity log.
// Entries are immutable once written; the retention sweep is the only
// mutation (soft delete) or removal (hard delete) allowed.
type ActivityLogEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	ActorID *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`

	Action     string `bson:"action" json:"action"`     // e.g. "banner.create", "auth.login"
	Resource   string `bson:"resource" json:"resource"` // e.g. "banner", "role", "auth"
	ResourceID string `bson:"resource_id,omitempty" json:"resource_id,omitempty"`

	Description string            `bson:"description" json:"description"`
	Details     map[string]string `bson:"details,omitempty" json:"details,omitempty"`

	Status   string `bson:"status" json:"status"`     // success | failed
	Severity string `bson:"severity" json:"severity"` // low | medium | high

	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	IsDeleted bool `bson:"is_deleted" json:"-"`
}
