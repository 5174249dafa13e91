// internal/app/features/rbac/userroles.go
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

// ServeListUserRoles handles GET /users/{userID}/roles. Active
// assignments only by default; pass include_inactive=true for the full
// history. The response also carries the user's resolved permission
// names so callers see the net effect of the assignment set.
func (h *Handler) ServeListUserRoles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list user roles")
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("userID must be a valid object ID"))
		return
	}
	includeInactive := httpx.Query(r, "include_inactive") == "true"

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("user"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	assignments, err := h.Assignments.ListByUser(ctx, userID, includeInactive)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	roleList, err := h.Roles.List(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	byID := make(map[primitive.ObjectID]models.Role, len(roleList))
	for _, role := range roleList {
		byID[role.ID] = role
	}

	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		v := assignmentView{UserRoleAssignment: a}
		if role, ok := byID[a.RoleID]; ok {
			v.Role = &role
		}
		views = append(views, v)
	}

	effective, err := h.Resolver.EffectivePermissionsForUser(ctx, &user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "User roles retrieved.", userRolesResponse{
		Assignments: views,
		Effective:   effective,
	})
}
