// internal/domain/models/permission.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionDependencies relates a permission to others by name.
//
//   - Requires: granting this permission without its requirements is
//     semantically incomplete (surfaced as a warning, not rejected).
//   - Conflicts: the pair must never be simultaneously effective.
//   - Implies: effective permission auto-grants these, transitively.
type PermissionDependencies struct {
	Requires  []string `bson:"requires,omitempty" json:"requires,omitempty"`
	Conflicts []string `bson:"conflicts,omitempty" json:"conflicts,omitempty"`
	Implies   []string `bson:"implies,omitempty" json:"implies,omitempty"`
}

// Permission is one entry in the permission catalog. The catalog is
// seeded at startup and extended through the RBAC surface.
type Permission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // unique, "module.action"
	DisplayName string             `bson:"display_name" json:"display_name"`

	Module   string `bson:"module" json:"module"` // owning surface, e.g. "activity_logs"
	Category string `bson:"category,omitempty" json:"category,omitempty"`
	Scope    string `bson:"scope,omitempty" json:"scope,omitempty"`

	// SecurityLevel ranks sensitivity; high-level permissions show up
	// flagged in the management UI.
	SecurityLevel int `bson:"security_level" json:"security_level"`

	Dependencies PermissionDependencies `bson:"dependencies" json:"dependencies"`

	IsActive bool `bson:"is_active" json:"is_active"`
}
