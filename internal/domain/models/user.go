// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is an administrative user of the platform. Authentication is
// phone-first (OTP); permissions come from role assignments, never from
// fields on the user itself, except the IsSuperAdmin escape hatch set by
// the startup bootstrap.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone      string             `bson:"phone" json:"phone"` // E.164, unique
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`

	Status string `bson:"status" json:"status"` // active | disabled

	// Administrative scope. Empty fields mean unrestricted along that
	// axis; dashboard queries filter by whatever is set.
	Area     string `bson:"area,omitempty" json:"area,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`

	IsSuperAdmin bool `bson:"is_super_admin,omitempty" json:"is_super_admin,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the user may sign in and act.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
