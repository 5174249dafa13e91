// internal/app/system/rbac/catalog.go
package rbac

import (
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// DefaultPermissions is the permission catalog seeded at startup. Names
// follow "module.action". Seeding upserts by name, so redeploys pick up
// catalog changes without duplicating documents.
func DefaultPermissions() []models.Permission {
	return []models.Permission{
		{
			Name:          PermDashboardView,
			DisplayName:   "View dashboard",
			Module:        "dashboard",
			Category:      "read",
			Scope:         "global",
			SecurityLevel: 1,
			IsActive:      true,
		},
		{
			Name:          PermUsersView,
			DisplayName:   "View users",
			Module:        "users",
			Category:      "read",
			Scope:         "global",
			SecurityLevel: 2,
			IsActive:      true,
		},
		{
			Name:          PermActivityLogsView,
			DisplayName:   "View activity logs",
			Module:        "activity_logs",
			Category:      "read",
			Scope:         "global",
			SecurityLevel: 3,
			IsActive:      true,
		},
		{
			Name:          PermActivityLogsClean,
			DisplayName:   "Clean old activity logs",
			Module:        "activity_logs",
			Category:      "admin",
			Scope:         "global",
			SecurityLevel: 5,
			Dependencies: models.PermissionDependencies{
				Requires: []string{PermActivityLogsView},
				Implies:  []string{PermActivityLogsView},
			},
			IsActive: true,
		},
		{
			Name:          PermContentManage,
			DisplayName:   "Manage website content",
			Module:        "content",
			Category:      "write",
			Scope:         "global",
			SecurityLevel: 3,
			IsActive:      true,
		},
		{
			Name:          PermSettingsManage,
			DisplayName:   "Manage website settings",
			Module:        "settings",
			Category:      "admin",
			Scope:         "global",
			SecurityLevel: 4,
			IsActive:      true,
		},
		{
			Name:          PermRolesAssign,
			DisplayName:   "Assign roles to users",
			Module:        "rbac",
			Category:      "admin",
			Scope:         "global",
			SecurityLevel: 4,
			IsActive:      true,
		},
		{
			Name:          PermRolesManage,
			DisplayName:   "Manage roles",
			Module:        "rbac",
			Category:      "admin",
			Scope:         "global",
			SecurityLevel: 5,
			Dependencies: models.PermissionDependencies{
				Implies: []string{PermRolesAssign},
			},
			IsActive: true,
		},
	}
}

// RoleSeed pairs a role definition with the name of its parent, resolved
// to an ObjectID when the chain is seeded (parents must sort first).
type RoleSeed struct {
	Role         models.Role
	InheritsFrom string
}

// DefaultRoles is the system role hierarchy seeded at startup. Higher
// level means broader authority. Each role inherits the one below it, so
// the chain exercises the inheritance walk end to end.
func DefaultRoles() []RoleSeed {
	return []RoleSeed{
		{
			Role: models.Role{
				Name:        models.RoleViewer,
				DisplayName: "Viewer",
				Level:       20,
				Category:    "general",
				Type:        models.RoleTypeSystem,
				Permissions: []string{PermDashboardView},
				IsActive:    true,
			},
		},
		{
			Role: models.Role{
				Name:        models.RoleProgramOfficer,
				DisplayName: "Program Officer",
				Level:       40,
				Category:    "operations",
				Type:        models.RoleTypeSystem,
				Permissions: []string{PermContentManage},
				IsActive:    true,
			},
			InheritsFrom: models.RoleViewer,
		},
		{
			Role: models.Role{
				Name:        models.RoleDistrictAdmin,
				DisplayName: "District Administrator",
				Level:       60,
				Category:    "administration",
				Type:        models.RoleTypeSystem,
				Permissions: []string{PermUsersView, PermActivityLogsView},
				IsActive:    true,
			},
			InheritsFrom: models.RoleProgramOfficer,
		},
		{
			Role: models.Role{
				Name:        models.RoleAreaAdmin,
				DisplayName: "Area Administrator",
				Level:       80,
				Category:    "administration",
				Type:        models.RoleTypeSystem,
				Permissions: []string{PermRolesAssign, PermSettingsManage},
				IsActive:    true,
			},
			InheritsFrom: models.RoleDistrictAdmin,
		},
		{
			Role: models.Role{
				Name:        models.RoleSuperAdmin,
				DisplayName: "Super Administrator",
				Level:       100,
				Category:    "administration",
				Type:        models.RoleTypeSystem,
				Permissions: []string{PermRolesManage, PermActivityLogsClean},
				IsActive:    true,
			},
			InheritsFrom: models.RoleAreaAdmin,
		},
	}
}
