// internal/app/system/rbac/rbac.go

// Package rbac resolves a user's effective permission set from their role
// assignments and gates HTTP routes on permission membership.
//
// The effective set is computed from active assignments: each assignment
// contributes its role's permissions (including permissions inherited
// through the role's parent chain) plus any unexpired per-assignment
// grants, minus any unexpired per-assignment restrictions. Permissions
// implied by effective permissions are expanded to a fixed point. A
// restriction removes a permission no matter how it was derived.
package rbac

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Permission names used to gate routes. These are seeded at startup and
// referenced by the route tables.
const (
	PermActivityLogsView  = "activity_logs.view"
	PermActivityLogsClean = "activity_logs.clean"
	PermRolesManage       = "roles.manage"
	PermRolesAssign       = "roles.assign"
	PermContentManage     = "content.manage"
	PermSettingsManage    = "settings.manage"
	PermDashboardView     = "dashboard.view"
	PermUsersView         = "users.view"
)

// Service computes and caches effective permission sets.
type Service struct {
	assignments *roleassign.Store
	roles       *roles.Store
	permissions *permissions.Store
	cache       *Cache // may be nil; resolution then always hits the database
	logger      *zap.Logger
}

// NewService builds the permission service. cache may be nil when no
// Redis connection is configured.
func NewService(assignments *roleassign.Store, roleStore *roles.Store, permStore *permissions.Store, cache *Cache, logger *zap.Logger) *Service {
	return &Service{
		assignments: assignments,
		roles:       roleStore,
		permissions: permStore,
		cache:       cache,
		logger:      logger,
	}
}

// EffectivePermissions returns the user's effective permission names,
// sorted. Users with no assignments get an empty (non-nil) slice.
func (s *Service) EffectivePermissions(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	if s.cache != nil {
		if names, ok := s.cache.Get(ctx, userID); ok {
			return names, nil
		}
	}

	set, err := s.resolve(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	if s.cache != nil {
		s.cache.Set(ctx, userID, names)
	}
	return names, nil
}

// EffectivePermissionsForUser resolves a user's permission names with
// the super admin bypass applied: super admins hold every active
// permission in the catalog.
func (s *Service) EffectivePermissionsForUser(ctx context.Context, u *models.User) ([]string, error) {
	if u != nil && u.IsSuperAdmin {
		perms, err := s.permissions.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(perms))
		for _, p := range perms {
			names = append(names, p.Name)
		}
		sort.Strings(names)
		return names, nil
	}
	if u == nil {
		return []string{}, nil
	}
	return s.EffectivePermissions(ctx, u.ID)
}

// HasPermission reports whether the permission is in the user's effective
// set. Callers should bypass this for super admins.
func (s *Service) HasPermission(ctx context.Context, userID primitive.ObjectID, permission string) (bool, error) {
	names, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == permission {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached permission set for one user. Call after any
// mutation to that user's assignments.
func (s *Service) Invalidate(ctx context.Context, userID primitive.ObjectID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

// InvalidateAll drops every cached permission set. Call after a role or
// permission definition changes, since any user may be affected.
func (s *Service) InvalidateAll(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
}
