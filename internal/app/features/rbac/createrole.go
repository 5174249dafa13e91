// internal/app/features/rbac/createrole.go
package rbacapi

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Role names are snake_case identifiers; they end up in log lines and
// client payloads, so the charset stays narrow.
var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)

// ServeCreateRole handles POST /roles. Created roles are always custom;
// system roles come only from the startup seed.
func (h *Handler) ServeCreateRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create role")
	defer cancel()

	var req createRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if !roleNamePattern.MatchString(req.Name) {
		httpx.FailErr(w, h.Log, apperr.Invalid("name must be snake_case: lowercase letters, digits, and underscores"))
		return
	}
	if req.DisplayName == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("display_name is required"))
		return
	}
	if req.Level <= 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("level must be a positive integer"))
		return
	}
	if len(req.Permissions) > 0 {
		missing, err := h.Perms.Missing(ctx, req.Permissions)
		if err != nil {
			httpx.FailErr(w, h.Log, err)
			return
		}
		if len(missing) > 0 {
			httpx.FailErr(w, h.Log, apperr.Invalid("unknown permissions: %s", strings.Join(missing, ", ")))
			return
		}
	}

	var inherits *primitive.ObjectID
	if req.InheritsFrom != "" {
		pid, err := primitive.ObjectIDFromHex(req.InheritsFrom)
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
		inherits = &pid
	}

	user := auth.MustCurrentUser(r)
	role := models.Role{
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Level:        req.Level,
		Category:     strings.TrimSpace(req.Category),
		Type:         models.RoleTypeCustom,
		Permissions:  req.Permissions,
		InheritsFrom: inherits,
		IsActive:     true,
		CreatedBy:    &user.ID,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	created, err := h.Roles.Insert(ctx, role)
	if err != nil {
		if errors.Is(err, roles.ErrNameTaken) {
			httpx.FailErr(w, h.Log, apperr.Conflict("a role named %s already exists", req.Name))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.RoleCreated(ctx, r, user.ID, created.ID, created.Name)
	httpx.Created(w, "Role created.", created)
}
