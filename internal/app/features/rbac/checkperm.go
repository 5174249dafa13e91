// internal/app/features/rbac/checkperm.go
package rbacapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeCheckPermission handles POST /users/{userID}/check-permission.
// It answers with the same resolution the route guards use, including
// the super admin bypass, so admin tooling can explain why a request
// would pass or fail.
func (h *Handler) ServeCheckPermission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "check permission")
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("userID must be a valid object ID"))
		return
	}

	var req checkPermissionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	req.Permission = strings.TrimSpace(req.Permission)
	if req.Permission == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("permission is required"))
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("user"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	names, err := h.Resolver.EffectivePermissionsForUser(ctx, &user)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	has := false
	for _, name := range names {
		if name == req.Permission {
			has = true
			break
		}
	}

	httpx.OK(w, "Permission checked.", checkPermissionResponse{
		UserID:        userID.Hex(),
		Permission:    req.Permission,
		HasPermission: has,
	})
}
