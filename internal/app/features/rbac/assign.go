// internal/app/features/rbac/assign.go
package rbacapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeAssignRole handles POST /users/{userID}/roles. Duplicate active
// assignments of the same role are rejected by the store's partial
// unique index, so two concurrent assigns cannot both land.
func (h *Handler) ServeAssignRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "assign role")
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("userID must be a valid object ID"))
		return
	}

	var req assignRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	roleID, err := primitive.ObjectIDFromHex(req.RoleID)
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("role_id must be a valid role ID"))
		return
	}
	if req.ValidUntil != nil && req.ValidUntil.Before(time.Now()) {
		httpx.FailErr(w, h.Log, apperr.Invalid("valid_until must be in the future"))
		return
	}

	target, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("user"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	role, err := h.Roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("role"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	if !role.IsActive {
		httpx.FailErr(w, h.Log, apperr.Invalid("role %s is not active", role.Name))
		return
	}

	overrides := make([]string, 0, len(req.AdditionalPermissions)+len(req.RestrictedPermissions))
	for _, o := range req.AdditionalPermissions {
		overrides = append(overrides, o.Permission)
	}
	for _, o := range req.RestrictedPermissions {
		overrides = append(overrides, o.Permission)
	}
	if len(overrides) > 0 {
		missing, err := h.Perms.Missing(ctx, overrides)
		if err != nil {
			httpx.FailErr(w, h.Log, err)
			return
		}
		if len(missing) > 0 {
			httpx.FailErr(w, h.Log, apperr.Invalid("unknown permissions: %s", strings.Join(missing, ", ")))
			return
		}
	}

	actor := auth.MustCurrentUser(r)
	assignment := models.UserRoleAssignment{
		UserID:         userID,
		RoleID:         roleID,
		AssignedBy:     &actor.ID,
		Reason:         strings.TrimSpace(req.Reason),
		Scope:          strings.TrimSpace(req.Scope),
		ValidUntil:     req.ValidUntil,
		IsPrimary:      req.IsPrimary,
		IsTemporary:    req.IsTemporary,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
	}
	for _, o := range req.AdditionalPermissions {
		assignment.AdditionalPermissions = append(assignment.AdditionalPermissions, models.PermissionGrant{
			Permission: o.Permission,
			GrantedBy:  &actor.ID,
			Reason:     o.Reason,
			ExpiresAt:  o.ExpiresAt,
		})
	}
	for _, o := range req.RestrictedPermissions {
		assignment.RestrictedPermissions = append(assignment.RestrictedPermissions, models.PermissionRestriction{
			Permission:   o.Permission,
			RestrictedBy: &actor.ID,
			Reason:       o.Reason,
			ExpiresAt:    o.ExpiresAt,
		})
	}

	created, err := h.Assignments.Insert(ctx, assignment)
	if err != nil {
		if errors.Is(err, roleassign.ErrDuplicateAssignment) {
			httpx.FailErr(w, h.Log, apperr.Conflict("user already has an active %s assignment", role.Name))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	now := time.Now().UTC()
	h.refreshRoleStats(ctx, roleID, &now)
	h.Resolver.Invalidate(ctx, userID)
	h.Recorder.RoleAssigned(ctx, r, actor.ID, userID, roleID, role.Name)
	h.notifyRoleChange(ctx, target.ID, models.NotificationRoleAssigned,
		"Role assigned",
		"You have been assigned the "+role.DisplayName+" role.",
		map[string]string{"role_id": roleID.Hex(), "assignment_id": created.ID.Hex()},
	)

	httpx.Created(w, "Role assigned.", created)
}
