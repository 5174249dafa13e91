// internal/app/features/rbac/types.go
package rbacapi

import (
	"time"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// createRoleRequest creates a custom role. Name is fixed after creation.
type createRoleRequest struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Level        int      `json:"level"`
	Category     string   `json:"category"`
	Permissions  []string `json:"permissions"`
	InheritsFrom string   `json:"inherits_from"` // role ObjectID hex, optional
}

// updateRoleRequest carries partial role edits. Omitted fields keep
// their current values; an explicit empty inherits_from clears the
// inheritance link.
type updateRoleRequest struct {
	DisplayName  *string   `json:"display_name"`
	Level        *int      `json:"level"`
	Category     *string   `json:"category"`
	Permissions  *[]string `json:"permissions"`
	InheritsFrom *string   `json:"inherits_from"`
	IsActive     *bool     `json:"is_active"`
}

type rolesResponse struct {
	Roles []models.Role `json:"roles"`
}

type permissionsResponse struct {
	Permissions []models.Permission `json:"permissions"`
}

// overrideRequest is a single per-assignment permission override, used
// both inline at assignment time and on the grant/restriction
// endpoints. An unset expires_at never expires.
type overrideRequest struct {
	Permission string     `json:"permission"`
	Reason     string     `json:"reason"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type assignRequest struct {
	RoleID      string     `json:"role_id"`
	Reason      string     `json:"reason"`
	Scope       string     `json:"scope"`
	ValidUntil  *time.Time `json:"valid_until"`
	IsPrimary   bool       `json:"is_primary"`
	IsTemporary bool       `json:"is_temporary"`

	AdditionalPermissions []overrideRequest `json:"additional_permissions"`
	RestrictedPermissions []overrideRequest `json:"restricted_permissions"`
}

// assignmentView pairs an assignment with its role definition so the
// client does not need a second lookup.
type assignmentView struct {
	models.UserRoleAssignment
	Role *models.Role `json:"role,omitempty"`
}

type userRolesResponse struct {
	Assignments []assignmentView `json:"assignments"`
	Effective   []string         `json:"effective_permissions"`
}

type checkPermissionRequest struct {
	Permission string `json:"permission"`
}

type checkPermissionResponse struct {
	UserID        string `json:"user_id"`
	Permission    string `json:"permission"`
	HasPermission bool   `json:"has_permission"`
}

type cleanupResponse struct {
	Deactivated int64 `json:"deactivated"`
}
