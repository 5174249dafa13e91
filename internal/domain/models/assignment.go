// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment approval statuses.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// PermissionGrant adds a single permission on top of an assignment's
// role-derived set. An unset ExpiresAt means the grant does not expire.
type PermissionGrant struct {
	Permission string              `bson:"permission" json:"permission"`
	GrantedBy  *primitive.ObjectID `bson:"granted_by,omitempty" json:"granted_by,omitempty"`
	Reason     string              `bson:"reason,omitempty" json:"reason,omitempty"`
	ExpiresAt  *time.Time          `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// PermissionRestriction removes a single permission from an assignment's
// effective set. A restriction beats any grant, role-derived or
// additional, for as long as it is unexpired.
type PermissionRestriction struct {
	Permission   string              `bson:"permission" json:"permission"`
	RestrictedBy *primitive.ObjectID `bson:"restricted_by,omitempty" json:"restricted_by,omitempty"`
	Reason       string              `bson:"reason,omitempty" json:"reason,omitempty"`
	ExpiresAt    *time.Time          `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// UserRoleAssignment links a user to a role with per-assignment
// overrides. Expiry (ValidUntil and per-override ExpiresAt) is enforced
// at query time by cutoff comparison; removal deactivates rather than
// deletes so the audit trail stays intact.
type UserRoleAssignment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	RoleID primitive.ObjectID `bson:"role_id" json:"role_id"`

	AssignedBy *primitive.ObjectID `bson:"assigned_by,omitempty" json:"assigned_by,omitempty"`
	Reason     string              `bson:"reason,omitempty" json:"reason,omitempty"`
	Scope      string              `bson:"scope,omitempty" json:"scope,omitempty"`

	ValidUntil  *time.Time `bson:"valid_until,omitempty" json:"valid_until,omitempty"`
	IsPrimary   bool       `bson:"is_primary" json:"is_primary"`
	IsTemporary bool       `bson:"is_temporary" json:"is_temporary"`
	IsActive    bool       `bson:"is_active" json:"is_active"`

	ApprovalStatus string `bson:"approval_status" json:"approval_status"` // pending | approved | rejected

	AdditionalPermissions []PermissionGrant       `bson:"additional_permissions,omitempty" json:"additional_permissions,omitempty"`
	RestrictedPermissions []PermissionRestriction `bson:"restricted_permissions,omitempty" json:"restricted_permissions,omitempty"`

	RemovedBy     *primitive.ObjectID `bson:"removed_by,omitempty" json:"removed_by,omitempty"`
	RemovalReason string              `bson:"removal_reason,omitempty" json:"removal_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Effective reports whether the assignment contributes permissions at
// the given cutoff: active, approved, and not past ValidUntil.
func (a *UserRoleAssignment) Effective(now time.Time) bool {
	if !a.IsActive || a.ApprovalStatus != ApprovalApproved {
		return false
	}
	if a.ValidUntil != nil && a.ValidUntil.Before(now) {
		return false
	}
	return true
}
