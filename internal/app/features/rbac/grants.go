// internal/app/features/rbac/grants.go
package rbacapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeAddGrant handles POST /assignments/{assignmentID}/grants. The
// grant adds a single permission on top of the assignment's
// role-derived set.
func (h *Handler) ServeAddGrant(w http.ResponseWriter, r *http.Request) {
	h.serveOverride(w, r, false)
}

// ServeAddRestriction handles POST /assignments/{assignmentID}/restrictions.
// A restriction removes a single permission from the assignment's
// effective set and wins over any grant while unexpired.
func (h *Handler) ServeAddRestriction(w http.ResponseWriter, r *http.Request) {
	h.serveOverride(w, r, true)
}

func (h *Handler) serveOverride(w http.ResponseWriter, r *http.Request, restrict bool) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add permission override")
	defer cancel()

	assignmentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("assignmentID must be a valid object ID"))
		return
	}

	var req overrideRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	req.Permission = strings.TrimSpace(req.Permission)
	if req.Permission == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("permission is required"))
		return
	}
	missing, err := h.Perms.Missing(ctx, []string{req.Permission})
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if len(missing) > 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("unknown permission: %s", req.Permission))
		return
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		httpx.FailErr(w, h.Log, apperr.Invalid("expires_at must be in the future"))
		return
	}

	assignment, err := h.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("role assignment"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	if !assignment.IsActive {
		httpx.FailErr(w, h.Log, apperr.Conflict("assignment is inactive"))
		return
	}

	actor := auth.MustCurrentUser(r)
	var matched int64
	if restrict {
		matched, err = h.Assignments.AddRestriction(ctx, assignmentID, models.PermissionRestriction{
			Permission:   req.Permission,
			RestrictedBy: &actor.ID,
			Reason:       strings.TrimSpace(req.Reason),
			ExpiresAt:    req.ExpiresAt,
		})
	} else {
		matched, err = h.Assignments.AddGrant(ctx, assignmentID, models.PermissionGrant{
			Permission: req.Permission,
			GrantedBy:  &actor.ID,
			Reason:     strings.TrimSpace(req.Reason),
			ExpiresAt:  req.ExpiresAt,
		})
	}
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if matched == 0 {
		httpx.FailErr(w, h.Log, apperr.NotFound("role assignment"))
		return
	}

	h.Resolver.Invalidate(ctx, assignment.UserID)
	if restrict {
		h.Recorder.PermissionRestricted(ctx, r, actor.ID, assignmentID, req.Permission)
	} else {
		h.Recorder.PermissionGranted(ctx, r, actor.ID, assignmentID, req.Permission)
	}

	fresh, err := h.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if restrict {
		httpx.OK(w, "Permission restricted.", fresh)
		return
	}
	httpx.OK(w, "Permission granted.", fresh)
}
