// internal/app/features/rbac/roles.go
package rbacapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeListRoles handles GET /roles and returns every role, highest
// level first, with denormalized usage stats.
func (h *Handler) ServeListRoles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list roles")
	defer cancel()

	list, err := h.Roles.List(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Role{}
	}
	httpx.OK(w, "Roles retrieved.", rolesResponse{Roles: list})
}

// ServeGetRole handles GET /roles/{id}.
func (h *Handler) ServeGetRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get role")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
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
	httpx.OK(w, "Role retrieved.", role)
}

// ServeListPermissions handles GET /permissions and returns the full
// permission catalog, including deactivated entries so admin tooling
// can show them greyed out.
func (h *Handler) ServeListPermissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list permissions")
	defer cancel()

	list, err := h.Perms.List(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Permission{}
	}
	httpx.OK(w, "Permissions retrieved.", permissionsResponse{Permissions: list})
}
