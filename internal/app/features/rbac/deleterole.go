// internal/app/features/rbac/deleterole.go
package rbacapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeDeleteRole handles DELETE /roles/{id}. Deletion is refused while
// any active assignment references the role or another role inherits
// from it; history rows alone do not block it.
func (h *Handler) ServeDeleteRole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete role")
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
	if role.IsSystem() {
		httpx.Fail(w, http.StatusForbidden, "System roles cannot be deleted.", "forbidden")
		return
	}

	active, err := h.Assignments.CountActiveByRole(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if active > 0 {
		httpx.FailErr(w, h.Log, apperr.Conflict("role still has %d active assignment(s)", active))
		return
	}

	all, err := h.Roles.List(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	for _, other := range all {
		if other.InheritsFrom != nil && *other.InheritsFrom == id {
			httpx.FailErr(w, h.Log, apperr.Conflict("role is inherited by %s", other.Name))
			return
		}
	}

	deleted, err := h.Roles.Delete(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if deleted == 0 {
		httpx.FailErr(w, h.Log, apperr.NotFound("role"))
		return
	}

	h.Resolver.InvalidateAll(ctx)

	user := auth.MustCurrentUser(r)
	h.Recorder.RoleDeleted(ctx, r, user.ID, id, role.Name)
	httpx.OK(w, "Role deleted.", nil)
}
