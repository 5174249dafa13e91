// internal/app/system/rbac/resolver.go
package rbac

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// maxInheritDepth bounds the parent-chain walk. Cycles are rejected at
// write time, so hitting this means corrupted data; the walk stops and
// logs rather than spinning.
const maxInheritDepth = 32

// resolve computes the effective permission set for a user at a point in
// time. Read-only; malformed assignment rows (missing role, unknown
// permission) are logged and skipped, never fatal.
func (s *Service) resolve(ctx context.Context, userID primitive.ObjectID, now time.Time) (map[string]struct{}, error) {
	assignments, err := s.assignments.ListEffectiveByUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}

	effective := make(map[string]struct{})
	if len(assignments) == 0 {
		return effective, nil
	}

	roleMap, err := s.roleMap(ctx)
	if err != nil {
		return nil, err
	}

	restricted := make(map[string]struct{})
	for _, a := range assignments {
		if !a.Effective(now) {
			continue
		}

		role, ok := roleMap[a.RoleID]
		if !ok {
			s.logger.Warn("assignment references missing role",
				zap.String("assignment_id", a.ID.Hex()),
				zap.String("role_id", a.RoleID.Hex()),
				zap.String("user_id", userID.Hex()))
			continue
		}

		// An assignment to an inactive role contributes nothing.
		if role.IsActive {
			for name := range s.rolePermissions(role, roleMap) {
				effective[name] = struct{}{}
			}
		}

		for _, g := range a.AdditionalPermissions {
			if g.ExpiresAt == nil || g.ExpiresAt.After(now) {
				effective[g.Permission] = struct{}{}
			}
		}
		for _, rr := range a.RestrictedPermissions {
			if rr.ExpiresAt == nil || rr.ExpiresAt.After(now) {
				restricted[rr.Permission] = struct{}{}
			}
		}
	}

	for name := range restricted {
		delete(effective, name)
	}

	if err := s.expandImplies(ctx, effective, restricted); err != nil {
		return nil, err
	}

	return effective, nil
}

// roleMap loads every role keyed by ID. The roles collection is small, so
// one fetch per resolution beats walking the chain with per-parent reads.
func (s *Service) roleMap(ctx context.Context) (map[primitive.ObjectID]models.Role, error) {
	all, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	m := make(map[primitive.ObjectID]models.Role, len(all))
	for _, r := range all {
		m[r.ID] = r
	}
	return m, nil
}

// rolePermissions unions a role's own permissions with those inherited
// through its parent chain. Inactive ancestors are skipped but the walk
// continues past them. A cycle or over-deep chain stops the walk with an
// error log; write-time validation should have prevented it.
func (s *Service) rolePermissions(role models.Role, roleMap map[primitive.ObjectID]models.Role) map[string]struct{} {
	perms := make(map[string]struct{})
	seen := make(map[primitive.ObjectID]struct{})

	current := role
	for depth := 0; ; depth++ {
		if _, dup := seen[current.ID]; dup {
			s.logger.Error("role inheritance cycle detected during resolution",
				zap.String("role", current.Name))
			break
		}
		if depth >= maxInheritDepth {
			s.logger.Error("role inheritance chain too deep",
				zap.String("role", role.Name),
				zap.Int("depth", depth))
			break
		}
		seen[current.ID] = struct{}{}

		if current.IsActive {
			for _, p := range current.Permissions {
				perms[p] = struct{}{}
			}
		}

		if current.InheritsFrom == nil {
			break
		}
		parent, ok := roleMap[*current.InheritsFrom]
		if !ok {
			s.logger.Warn("role inherits from missing role",
				zap.String("role", current.Name),
				zap.String("parent_id", current.InheritsFrom.Hex()))
			break
		}
		current = parent
	}
	return perms
}

// expandImplies grows the effective set with implied permissions until a
// fixed point. Each permission is enqueued at most once, so the loop is
// bounded by the size of the permission catalog. Restricted permissions
// are never re-added by expansion.
func (s *Service) expandImplies(ctx context.Context, effective, restricted map[string]struct{}) error {
	catalog, err := s.permissions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}
	implies := make(map[string][]string, len(catalog))
	for _, p := range catalog {
		if len(p.Dependencies.Implies) > 0 {
			implies[p.Name] = p.Dependencies.Implies
		}
	}
	if len(implies) == 0 {
		return nil
	}

	queue := make([]string, 0, len(effective))
	for name := range effective {
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, implied := range implies[name] {
			if _, isRestricted := restricted[implied]; isRestricted {
				continue
			}
			if _, have := effective[implied]; have {
				continue
			}
			effective[implied] = struct{}{}
			queue = append(queue, implied)
		}
	}
	return nil
}

// InheritanceWouldCycle reports whether setting parentID as roleID's
// parent would create a cycle. Used at role create/update time; roleID
// may be NilObjectID for a brand-new role, which can never be reached
// from an existing chain.
func (s *Service) InheritanceWouldCycle(ctx context.Context, roleID, parentID primitive.ObjectID) (bool, error) {
	roleMap, err := s.roleMap(ctx)
	if err != nil {
		return false, err
	}
	return WouldCycle(roleID, parentID, roleMap), nil
}

// WouldCycle walks upward from parentID; reaching roleID (or looping, or
// exceeding the depth bound) means the edge must be rejected.
func WouldCycle(roleID, parentID primitive.ObjectID, roleMap map[primitive.ObjectID]models.Role) bool {
	seen := make(map[primitive.ObjectID]struct{})
	currentID := parentID
	for depth := 0; depth < maxInheritDepth; depth++ {
		if currentID == roleID {
			return true
		}
		if _, dup := seen[currentID]; dup {
			// Existing cycle upstream; adding to it is still invalid.
			return true
		}
		seen[currentID] = struct{}{}

		role, ok := roleMap[currentID]
		if !ok || role.InheritsFrom == nil {
			return false
		}
		currentID = *role.InheritsFrom
	}
	return true
}
