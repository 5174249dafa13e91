// internal/domain/models/role.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role types.
const (
	RoleTypeSystem = "system"
	RoleTypeCustom = "custom"
)

// System role names seeded at startup. These cannot be edited or deleted
// through the RBAC management surface.
const (
	RoleSuperAdmin    = "super_admin"
	RoleAreaAdmin     = "area_admin"
	RoleDistrictAdmin = "district_admin"
	RoleProgramOfficer = "program_officer"
	RoleViewer        = "viewer"
)

// RoleStats carries denormalized usage counters shown in the role list.
// Refreshed by the assignment mutators, never authoritative.
type RoleStats struct {
	TotalUsers   int64      `bson:"total_users" json:"total_users"`
	ActiveUsers  int64      `bson:"active_users" json:"active_users"`
	LastAssigned *time.Time `bson:"last_assigned,omitempty" json:"last_assigned,omitempty"`
}

// Role is a named permission bundle. A role's effective permission set is
// its own permissions unioned with everything inherited transitively via
// InheritsFrom. The inheritance chain must stay acyclic; that invariant
// is enforced when a role is created or updated, not at resolution time.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // unique, snake_case
	DisplayName string             `bson:"display_name" json:"display_name"`

	// Level orders roles for hierarchy display; higher outranks lower.
	Level    int    `bson:"level" json:"level"`
	Category string `bson:"category,omitempty" json:"category,omitempty"`
	Type     string `bson:"type" json:"type"` // system | custom

	Permissions  []string            `bson:"permissions" json:"permissions"` // permission names
	InheritsFrom *primitive.ObjectID `bson:"inherits_from,omitempty" json:"inherits_from,omitempty"`

	IsActive bool      `bson:"is_active" json:"is_active"`
	Stats    RoleStats `bson:"stats" json:"stats"`

	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsSystem reports whether the role is a seeded system role.
func (r *Role) IsSystem() bool {
	return r.Type == RoleTypeSystem
}
