// internal/app/features/rbac/updaterole.go
package rbacapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeUpdateRole handles PUT /roles/{id}. System roles are read-only
// through this surface; inheritance edits are cycle-checked before the
// write.
func (h *Handler) ServeUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update role")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
		return
	}

	var req updateRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	role, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("role"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	if role.IsSystem() {
		httpx.Fail(w, http.StatusForbidden, "System roles cannot be modified.", "forbidden")
		return
	}

	upd := roles.Update{
		DisplayName:  role.DisplayName,
		Level:        role.Level,
		Category:     role.Category,
		Permissions:  role.Permissions,
		InheritsFrom: role.InheritsFrom,
		IsActive:     role.IsActive,
	}

	var changed []string
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("display_name cannot be empty"))
			return
		}
		upd.DisplayName = name
		changed = append(changed, "display_name")
	}
	if req.Level != nil {
		if *req.Level <= 0 {
			httpx.FailErr(w, h.Log, apperr.Invalid("level must be a positive integer"))
			return
		}
		upd.Level = *req.Level
		changed = append(changed, "level")
	}
	if req.Category != nil {
		upd.Category = strings.TrimSpace(*req.Category)
		changed = append(changed, "category")
	}
	if req.Permissions != nil {
		if len(*req.Permissions) > 0 {
			missing, err := h.Perms.Missing(ctx, *req.Permissions)
			if err != nil {
				httpx.FailErr(w, h.Log, err)
				return
			}
			if len(missing) > 0 {
				httpx.FailErr(w, h.Log, apperr.Invalid("unknown permissions: %s", strings.Join(missing, ", ")))
				return
			}
		}
		upd.Permissions = *req.Permissions
		if upd.Permissions == nil {
			upd.Permissions = []string{}
		}
		changed = append(changed, "permissions")
	}
	if req.InheritsFrom != nil {
		if *req.InheritsFrom == "" {
			upd.InheritsFrom = nil
		} else {
			pid, err := primitive.ObjectIDFromHex(*req.InheritsFrom)
			if err != nil {
				httpx.FailErr(w, h.Log, apperr.Invalid("inherits_from must be a valid role ID"))
				return
			}
			if _, err := h.Roles.GetByID(ctx, pid); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					httpx.FailErr(w, h.Log, apperr.Invalid("inherits_from references a role that does not exist"))
					return
				}
				httpx.FailErr(w, h.Log, err)
				return
			}
			cyclic, err := h.Resolver.InheritanceWouldCycle(ctx, id, pid)
			if err != nil {
				httpx.FailErr(w, h.Log, err)
				return
			}
			if cyclic {
				httpx.FailErr(w, h.Log, apperr.Invalid("inherits_from would create an inheritance cycle"))
				return
			}
			upd.InheritsFrom = &pid
		}
		changed = append(changed, "inherits_from")
	}
	if req.IsActive != nil {
		upd.IsActive = *req.IsActive
		changed = append(changed, "is_active")
	}

	if len(changed) == 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	matched, err := h.Roles.UpdateByID(ctx, id, upd)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if matched == 0 {
		httpx.FailErr(w, h.Log, apperr.NotFound("role"))
		return
	}

	// Role definitions feed every cached permission set.
	h.Resolver.InvalidateAll(ctx)

	user := auth.MustCurrentUser(r)
	h.Recorder.RoleUpdated(ctx, r, user.ID, id, role.Name, strings.Join(changed, ", "))

	fresh, err := h.Roles.GetByID(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Role updated.", fresh)
}
